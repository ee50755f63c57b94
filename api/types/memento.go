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

import (
	"github.com/rulego/tasktree/utils/json"
)

// Memento is a recursive structural snapshot of a node and its live subtree.
// It is captured while a node is active or paused and handed back to Activate
// to resume that structure after a reload. Kind must match the concrete node
// type being resumed into, otherwise the memento is ignored.
// Memento 节点结构快照
type Memento struct {
	// Kind is the concrete type name of the node that produced the snapshot.
	Kind string `json:"kind" yaml:"kind"`
	// Data is the node specific payload, nil by default.
	Data interface{} `json:"data,omitempty" yaml:"data,omitempty"`
	// Children holds the snapshots of live children by child id.
	Children map[string]*Memento `json:"children,omitempty" yaml:"children,omitempty"`
}

// Child returns the snapshot recorded for a child id.
func (m *Memento) Child(id string) *Memento {
	if m == nil || m.Children == nil {
		return nil
	}
	return m.Children[id]
}

// EncodeMemento marshals a memento to json.
func EncodeMemento(m *Memento) ([]byte, error) {
	return json.Marshal(m)
}

// DecodeMemento unmarshals a memento from json.
// Numbers inside Data come back as float64; nodes restore them with utils/cast.
func DecodeMemento(data []byte) (*Memento, error) {
	var m Memento
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
