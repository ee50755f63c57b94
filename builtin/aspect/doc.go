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

// Package aspect provides the builtin aspects of the task tree runtime. Aspects observe node
// lifecycles without touching node logic.
//
// Package aspect 提供内置切面，在不修改节点逻辑的情况下观察节点生命周期。
//
// Available Built-in Aspects:
// 可用的内置切面：
//
//   - Debug: reports every activation (IN) and termination (OUT) to Config.OnDebug
//     Debug：把节点激活（IN）和终止（OUT）报告给 Config.OnDebug
//
//   - MetricsAspect: counts activations, terminations and failed calls
//     MetricsAspect：统计激活、终止和失败次数
//
//   - TracingAspect: records one OpenTelemetry span per activation
//     TracingAspect：每次激活记录一个 OpenTelemetry span
//
// Aspects run in the order given by their Order method:
// 切面根据其 Order() 方法按顺序执行：
//  1. TracingAspect (order: 10)
//  2. MetricsAspect (order: 20)
//  3. Debug (order: 900)
//
// Usage Examples:
// 使用示例：
//
//	config := types.NewConfig(types.WithAspects(
//		&aspect.Debug{},
//		aspect.NewMetricsAspect(nil),
//		aspect.NewTracingAspect(nil),
//	))
package aspect

import "github.com/rulego/tasktree/api/types"

func configOf(node types.Node) *types.Config {
	return types.ConfigFromContext(node.Context())
}
