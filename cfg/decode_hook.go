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

package cfg

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
)

func hookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		s := data.(string)
		if t != reflect.TypeOf("") {
			return data, nil
		}
		// Only severity strings need normalizing; everything else passes
		// through to the default hooks below.
		upper := strings.ToUpper(s)
		if slices.Contains([]string{OFF, ERROR, WARNING, INFO, DEBUG, TRACE}, upper) {
			return upper, nil
		}
		return data, nil
	}
}

// DecodeHook composes the hooks viper uses to unmarshal raw flag/file
// values into Config, mirroring the reference implementation's
// cfg.DecodeHook: text-unmarshaler types first, then our own
// normalization, then the library defaults for durations and slices.
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		hookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// DecodeError wraps a viper/mapstructure unmarshal error with context,
// or returns nil unchanged.
func DecodeError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("decoding config: %w", err)
}
