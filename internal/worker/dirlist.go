// Copyright 2026 The fm-go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package worker

import (
	"fmt"
	"time"

	"github.com/classicvalues/fm-go/internal/telemetry"
	"github.com/classicvalues/fm-go/internal/workitem"
)

// execGetDirPkt streams a directory's entries into one or more
// telemetry.DirList pages, each holding at most dirListPktEntries rows,
// windowed starting at it.Offset -- spec.md §4.5's bounded directory
// streaming.
func (w *Worker) execGetDirPkt(it workitem.GetDirPktItem) error {
	total, err := w.countDirEntries(it.Directory)
	if err != nil {
		return err
	}

	cursor, err := w.fs.ListDir(it.Directory)
	if err != nil {
		return err
	}
	defer cursor.Close()

	var page []telemetry.DirListEntry
	index := uint32(0)

	flush := func() error {
		if len(page) == 0 {
			return nil
		}
		dl := telemetry.DirList{
			Directory:    it.Directory,
			TotalEntries: total,
			Offset:       int(it.Offset),
			Entries:      page,
			Timestamp:    time.Now(),
		}
		page = nil
		return w.reporter.ReportDirList(dl)
	}

	for {
		more, err := cursor.Next()
		if err != nil {
			return err
		}
		if !more {
			break
		}
		name := cursor.Entry()
		if index < it.Offset {
			index++
			continue
		}
		index++

		entry := telemetry.DirListEntry{Name: name}
		if it.GetSizeTimeMode {
			st, err := w.fs.Stat(it.DirectoryWithSep + name)
			if err == nil {
				entry.Size = st.Size
				entry.Mtime = st.Mtime
				entry.Mode = st.Mode
			}
		}
		page = append(page, entry)
		if len(page) >= w.dirListPktEntries {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

// countDirEntries runs a first pass over the directory so every
// telemetry.DirList page can report the true total entry count, not a
// running count that would differ page to page.
func (w *Worker) countDirEntries(directory string) (int, error) {
	cursor, err := w.fs.ListDir(directory)
	if err != nil {
		return 0, err
	}
	defer cursor.Close()

	total := 0
	for {
		more, err := cursor.Next()
		if err != nil {
			return 0, err
		}
		if !more {
			break
		}
		total++
	}
	return total, nil
}

// execGetDirFile lists a directory into a flat-text file: a header
// line with the eventual total entry count, followed by one line per
// entry. Because the total isn't known until the listing finishes, the
// header is written first with a placeholder and then backpatched via
// Seek once the real count is known.
func (w *Worker) execGetDirFile(it workitem.GetDirFileItem) error {
	cursor, err := w.fs.ListDir(it.Directory)
	if err != nil {
		return err
	}
	defer cursor.Close()

	out, err := w.fs.OpenReadWriter(it.Filename)
	if err != nil {
		return err
	}
	defer out.Close()

	const headerWidth = 32
	header := fmt.Sprintf("%-*s\n", headerWidth-1, "total=0000000000")
	if _, err := out.Write([]byte(header)); err != nil {
		return err
	}

	total := 0
	for {
		more, err := cursor.Next()
		if err != nil {
			return err
		}
		if !more {
			break
		}
		name := cursor.Entry()
		total++

		line := name
		if it.GetSizeTimeMode {
			st, err := w.fs.Stat(it.DirectoryWithSep + name)
			if err == nil {
				line = fmt.Sprintf("%s %d %s %o", name, st.Size, st.Mtime.UTC().Format(time.RFC3339), st.Mode)
			}
		}
		if _, err := out.Write([]byte(line + "\n")); err != nil {
			return err
		}
	}

	if _, err := out.Seek(0, 0); err != nil {
		return err
	}
	backpatched := fmt.Sprintf("%-*s\n", headerWidth-1, fmt.Sprintf("total=%010d", total))
	_, err = out.Write([]byte(backpatched))
	return err
}
