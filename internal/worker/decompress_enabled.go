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

//go:build !nodecompress

package worker

import (
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/classicvalues/fm-go/internal/fsops"
)

// decompressFunc is the DECOMPRESS executor built into this image.
// Builds tagged nodecompress swap this out for a stub, mirroring the
// original's compile-time FM_INCLUDE_DECOMPRESS switch.
var decompressFunc = gzipDecompress

func gzipDecompress(fs fsops.FS, source, target string) error {
	r, err := fs.OpenReader(source)
	if err != nil {
		return err
	}
	defer r.Close()

	gz, err := gzip.NewReader(r)
	if err != nil {
		return err
	}
	defer gz.Close()

	out, err := fs.CreateWriter(target)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, gz)
	return err
}
