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

// Lifecycle notifications emitted by every node.
const (
	EventActivated  = "activated"
	EventTerminated = "terminated"
	EventPaused     = "paused"
	EventResumed    = "resumed"
)

// Notifications emitted by composites.
const (
	EventBeforeActivateChild = "beforeActivateChild"
	EventActivatedChild      = "activatedChild"
	EventChildTerminated     = "childTerminated"
	// EventStateChange is emitted by a state machine with the previous and the new state signal.
	EventStateChange = "stateChange"
)

// flow direction type, passed to Config.OnDebug
// 流向 节点激活(IN)、终止(OUT)
const (
	In  = "IN"
	Out = "OUT"
)

// ArrayMarker at the end of an attribute name or child id appends the child to an
// ordered group sharing the base name instead of failing on a duplicate id.
const ArrayMarker = "[]"
