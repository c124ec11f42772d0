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

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindFlagsSucceeds(t *testing.T) {
	require.NoError(t, bindErr)
}

func TestInitConfigWithNoFileUnmarshalsDefaults(t *testing.T) {
	cfgFile = ""
	initConfig()
	require.NoError(t, unmarshalErr)
	assert.Equal(t, "FM", runtimeConfig.AppName)
}

func TestInitConfigMissingFileReportsError(t *testing.T) {
	defer func() {
		cfgFile = ""
		configFileErr = nil
	}()
	cfgFile = "/nonexistent/path/to/fm.yaml"
	initConfig()
	assert.Error(t, configFileErr)
}
