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

package aspect

import (
	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/api/types/metrics"
)

var (
	_ types.ActivateAspect  = (*MetricsAspect)(nil)
	_ types.TerminateAspect = (*MetricsAspect)(nil)
	_ types.ErrorAspect     = (*MetricsAspect)(nil)
)

// MetricsAspect counts node lifecycles into a metrics.NodeMetrics.
type MetricsAspect struct {
	metrics *metrics.NodeMetrics
}

// NewMetricsAspect creates a metrics aspect. A nil m creates new counters.
func NewMetricsAspect(m *metrics.NodeMetrics) *MetricsAspect {
	if m == nil {
		m = metrics.NewNodeMetrics()
	}
	return &MetricsAspect{
		metrics: m,
	}
}

func (a *MetricsAspect) Order() int {
	return 20
}

func (a *MetricsAspect) PointCut(node types.Node) bool {
	return true
}

func (a *MetricsAspect) Activated(node types.Node, input *types.Signal) {
	a.metrics.IncrementActivations()
}

func (a *MetricsAspect) Terminated(node types.Node, output types.Signal) {
	a.metrics.IncrementTerminations()
}

func (a *MetricsAspect) Failed(node types.Node, op string, err error) {
	a.metrics.IncrementFailed()
}

// GetMetrics 返回当前的指标
func (a *MetricsAspect) GetMetrics() *metrics.NodeMetrics {
	return a.metrics
}
