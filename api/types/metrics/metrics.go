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

package metrics

import (
	"sync/atomic"
)

// NodeMetrics holds lifecycle counters for the nodes of a tree.
type NodeMetrics struct {
	Active       int64 // Number of currently active nodes
	Activations  int64 // Total number of activations
	Terminations int64 // Total number of terminations
	Failed       int64 // Number of lifecycle calls that returned an error
}

// NewNodeMetrics creates a new instance of NodeMetrics.
func NewNodeMetrics() *NodeMetrics {
	return &NodeMetrics{}
}

// IncrementActivations counts an activation and one more active node.
func (m *NodeMetrics) IncrementActivations() {
	atomic.AddInt64(&m.Activations, 1)
	atomic.AddInt64(&m.Active, 1)
}

// IncrementTerminations counts a termination and one less active node.
func (m *NodeMetrics) IncrementTerminations() {
	atomic.AddInt64(&m.Terminations, 1)
	atomic.AddInt64(&m.Active, -1)
}

// IncrementFailed increases the count of failed calls.
func (m *NodeMetrics) IncrementFailed() {
	atomic.AddInt64(&m.Failed, 1)
}

// Get returns a copy of the current metrics.
func (m *NodeMetrics) Get() NodeMetrics {
	return NodeMetrics{
		Active:       atomic.LoadInt64(&m.Active),
		Activations:  atomic.LoadInt64(&m.Activations),
		Terminations: atomic.LoadInt64(&m.Terminations),
		Failed:       atomic.LoadInt64(&m.Failed),
	}
}

// Reset resets all metrics to zero.
func (m *NodeMetrics) Reset() {
	atomic.StoreInt64(&m.Active, 0)
	atomic.StoreInt64(&m.Activations, 0)
	atomic.StoreInt64(&m.Terminations, 0)
	atomic.StoreInt64(&m.Failed, 0)
}
