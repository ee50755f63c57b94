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

package types

import "fmt"

// DefaultSignalName is the name of a signal created without one.
const DefaultSignalName = "default"

// SkipSignalName is the name of the signal used when a sequence is skipped forward.
const SkipSignalName = "skip"

// Params 信号参数
type Params map[string]interface{}

// Signal is an immutable named message carrying a parameter bag.
// It is both the reason a node stopped and the input a node receives when it starts.
// Signal 节点输入/输出信号
type Signal struct {
	Name   string `json:"name" yaml:"name"`
	Params Params `json:"params,omitempty" yaml:"params,omitempty"`
}

// NewSignal creates a signal. An empty name becomes DefaultSignalName. The params are copied.
func NewSignal(name string, params ...Params) Signal {
	if name == "" {
		name = DefaultSignalName
	}
	s := Signal{Name: name}
	for _, p := range params {
		if len(p) == 0 {
			continue
		}
		if s.Params == nil {
			s.Params = make(Params, len(p))
		}
		for k, v := range p {
			s.Params[k] = v
		}
	}
	return s
}

// DefaultSignal returns a signal named DefaultSignalName without params.
func DefaultSignal() Signal {
	return Signal{Name: DefaultSignalName}
}

// Param returns a parameter value.
func (s Signal) Param(key string) (interface{}, bool) {
	v, ok := s.Params[key]
	return v, ok
}

// WithParam returns a copy of the signal with an extra parameter.
func (s Signal) WithParam(key string, value interface{}) Signal {
	params := make(Params, len(s.Params)+1)
	for k, v := range s.Params {
		params[k] = v
	}
	params[key] = value
	return Signal{Name: s.Name, Params: params}
}

// Is reports whether the signal has the given name. Routing compares names only.
func (s Signal) Is(name string) bool {
	return s.Name == name
}

func (s Signal) String() string {
	if len(s.Params) == 0 {
		return s.Name
	}
	return fmt.Sprintf("%s%v", s.Name, map[string]interface{}(s.Params))
}

// MakeSignal converts v into a signal.
// A string becomes the signal name, a Signal or *Signal is used as-is and nil yields the default signal.
// The second result is false when v has none of these shapes.
func MakeSignal(v interface{}) (Signal, bool) {
	switch s := v.(type) {
	case nil:
		return DefaultSignal(), true
	case Signal:
		if s.Name == "" {
			s.Name = DefaultSignalName
		}
		return s, true
	case *Signal:
		if s == nil {
			return DefaultSignal(), true
		}
		return MakeSignal(*s)
	case string:
		return NewSignal(s), true
	default:
		return Signal{}, false
	}
}

// SignalPtr returns a pointer to a copy of s.
func SignalPtr(s Signal) *Signal {
	return &s
}
