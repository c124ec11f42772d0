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

package app

import (
	"encoding/json"
	"fmt"

	"github.com/classicvalues/fm-go/internal/bus"
	"github.com/classicvalues/fm-go/internal/telemetry"
	"github.com/classicvalues/fm-go/internal/workitem"
)

// Telemetry message IDs this service publishes on, following the
// cFS convention of a distinct MID per packet type.
const (
	HousekeepingTlmMID bus.MessageID = 0x0890
	OpenFilesTlmMID    bus.MessageID = 0x0891
	DirListTlmMID      bus.MessageID = 0x0892
	FreeSpaceTlmMID    bus.MessageID = 0x0893
	FileInfoTlmMID     bus.MessageID = 0x0894
)

// busReporter publishes worker.Reporter and housekeeping telemetry over
// the bus, JSON-encoded. The wire codec for command packets is a fixed
// binary layout (package command); telemetry packets carry no such
// contract in scope here, so a self-describing encoding keeps the
// publish path simple without inventing a second binary format.
type busReporter struct {
	b bus.Bus
}

func newBusReporter(b bus.Bus) *busReporter {
	return &busReporter{b: b}
}

func (r *busReporter) publish(mid bus.MessageID, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("app: encoding telemetry for MID %#x: %w", mid, err)
	}
	return r.b.Publish(mid, data)
}

func (r *busReporter) ReportFileInfo(item workitem.GetFileInfoItem, crc uint32) error {
	reply := struct {
		Filename string `json:"filename"`
		Size     int64  `json:"size"`
		Mode     uint32 `json:"mode"`
		CRCType  uint16 `json:"crc_type"`
		CRC      uint32 `json:"crc"`
	}{
		Filename: item.Filename,
		Size:     item.Size,
		Mode:     item.Mode,
		CRCType:  item.CRCType,
		CRC:      crc,
	}
	return r.publish(FileInfoTlmMID, reply)
}

func (r *busReporter) ReportDirList(dl telemetry.DirList) error {
	return r.publish(DirListTlmMID, dl)
}

func (r *busReporter) ReportHousekeeping(hk telemetry.Housekeeping) error {
	return r.publish(HousekeepingTlmMID, hk)
}

func (r *busReporter) ReportOpenFiles(of telemetry.OpenFiles) error {
	return r.publish(OpenFilesTlmMID, of)
}

func (r *busReporter) ReportFreeSpace(fs telemetry.FreeSpace) error {
	return r.publish(FreeSpaceTlmMID, fs)
}
