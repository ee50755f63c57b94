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

import "time"

// TickInfo is supplied by the host on every update. Nodes never read the wall clock.
type TickInfo struct {
	// Elapsed time since the previous tick.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// NewTickInfo creates a TickInfo.
func NewTickInfo(elapsed time.Duration) TickInfo {
	return TickInfo{Elapsed: elapsed}
}

// NodeState 节点状态
type NodeState int

const (
	Inactive NodeState = iota
	Active
	Paused
)

func (s NodeState) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}
