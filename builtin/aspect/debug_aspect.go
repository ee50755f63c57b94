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
)

var (
	_ types.ActivateAspect  = (*Debug)(nil)
	_ types.TerminateAspect = (*Debug)(nil)
	_ types.ErrorAspect     = (*Debug)(nil)
)

// Debug reports the lifecycle of every node to the OnDebug callback of the config, whether
// or not the node has debug mode on. Nodes in debug mode already report themselves and are skipped.
//
// Debug 调试切面，把所有节点的激活和终止报告给 Config.OnDebug
//
// Usage:
// 使用方法：
//
//	config := types.NewConfig(types.WithAspects(&Debug{}))
type Debug struct {
	// Kinds limits the aspect to the given node kinds, all kinds when empty
	Kinds []string
}

// Order 返回执行顺序，Debug 切面最后执行
func (aspect *Debug) Order() int {
	return 900
}

// PointCut 节点未开启调试模式且类型匹配时生效
func (aspect *Debug) PointCut(node types.Node) bool {
	if d, ok := node.(interface{ IsDebugMode() bool }); ok && d.IsDebugMode() {
		return false
	}
	if len(aspect.Kinds) == 0 {
		return true
	}
	for _, kind := range aspect.Kinds {
		if kind == node.Kind() {
			return true
		}
	}
	return false
}

func (aspect *Debug) Activated(node types.Node, input *types.Signal) {
	in := types.DefaultSignal()
	if input != nil {
		in = *input
	}
	aspect.onDebug(node, types.In, in, nil)
}

func (aspect *Debug) Terminated(node types.Node, output types.Signal) {
	aspect.onDebug(node, types.Out, output, nil)
}

func (aspect *Debug) Failed(node types.Node, op string, err error) {
	aspect.onDebug(node, types.Out, types.DefaultSignal(), err)
}

func (aspect *Debug) onDebug(node types.Node, flowType string, signal types.Signal, err error) {
	if config := configOf(node); config.OnDebug != nil {
		config.OnDebug(node.Kind(), flowType, node.Id(), signal, err)
	}
}
