/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package maps

import (
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Map2Struct Decode takes an input structure and uses reflection to translate it to
// the output structure. output must be a pointer to a map or struct.
// Strings such as "500ms" decode into time.Duration fields, plain numbers are read as milliseconds.
func Map2Struct(input interface{}, output interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			numberToDurationHook,
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           output,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

func numberToDurationHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(time.Duration(0)) {
		return data, nil
	}
	switch v := data.(type) {
	case float64:
		return time.Duration(v * float64(time.Millisecond)), nil
	case float32:
		return time.Duration(float64(v) * float64(time.Millisecond)), nil
	case int:
		return time.Duration(v) * time.Millisecond, nil
	case int64:
		return time.Duration(v) * time.Millisecond, nil
	}
	return data, nil
}

// Get returns the value at a dotted path such as "a.b.c" in nested maps, nil if missing.
func Get(m map[string]interface{}, path string) interface{} {
	if m == nil {
		return nil
	}
	if v, ok := m[path]; ok {
		return v
	}
	keys := strings.Split(path, ".")
	var current interface{} = m
	for _, key := range keys {
		switch node := current.(type) {
		case map[string]interface{}:
			v, ok := node[key]
			if !ok {
				return nil
			}
			current = v
		case map[string]string:
			v, ok := node[key]
			if !ok {
				return nil
			}
			current = v
		default:
			return nil
		}
	}
	return current
}
