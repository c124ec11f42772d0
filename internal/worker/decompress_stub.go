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

//go:build nodecompress

package worker

import (
	"errors"

	"github.com/classicvalues/fm-go/internal/fsops"
)

// decompressFunc in a nodecompress build always fails -- the command
// processor itself already rejects DECOMPRESS commands when its
// includeDecompress config is false, so reaching this in a correctly
// configured image shouldn't happen.
var decompressFunc = func(fs fsops.FS, source, target string) error {
	return errors.New("worker: decompress support was not built into this image")
}
