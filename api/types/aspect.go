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

import "sort"

// The aspect interfaces add behaviour around node lifecycles (logging, tracing, metrics)
// without touching node logic.
//
// 切面接口，在不修改节点逻辑的情况下，对节点生命周期添加额外的行为。

// Aspect is the base interface for advice
// Aspect 增强点接口的基类
type Aspect interface {
	//Order returns the execution order, the smaller the value, the higher the priority
	//Order 返回执行顺序，值越小，优先级越高
	Order() int
}

// NodeAspect is the base interface for node advice
// NodeAspect 节点增强点接口的基类
type NodeAspect interface {
	Aspect
	//PointCut declares a cut-in point, used to determine whether to execute the advice
	//For example: return node.Kind()=="Sequence"
	PointCut(node Node) bool
}

// ActivateAspect is notified after a node finished activating.
// ActivateAspect 节点激活之后的增强点接口
type ActivateAspect interface {
	NodeAspect
	Activated(node Node, input *Signal)
}

// TerminateAspect is notified after a node terminated.
// TerminateAspect 节点终止之后的增强点接口
type TerminateAspect interface {
	NodeAspect
	Terminated(node Node, output Signal)
}

// ErrorAspect is notified when a lifecycle call returns an error.
type ErrorAspect interface {
	NodeAspect
	Failed(node Node, op string, err error)
}

// AspectList is a list of aspects
type AspectList []Aspect

func (list AspectList) sorted() AspectList {
	out := append(AspectList(nil), list...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order() < out[j].Order()
	})
	return out
}

// GetActivateAspects returns the activate aspects ordered by Order.
func (list AspectList) GetActivateAspects() []ActivateAspect {
	var out []ActivateAspect
	for _, a := range list.sorted() {
		if v, ok := a.(ActivateAspect); ok {
			out = append(out, v)
		}
	}
	return out
}

// GetTerminateAspects returns the terminate aspects ordered by Order.
func (list AspectList) GetTerminateAspects() []TerminateAspect {
	var out []TerminateAspect
	for _, a := range list.sorted() {
		if v, ok := a.(TerminateAspect); ok {
			out = append(out, v)
		}
	}
	return out
}

// GetErrorAspects returns the error aspects ordered by Order.
func (list AspectList) GetErrorAspects() []ErrorAspect {
	var out []ErrorAspect
	for _, a := range list.sorted() {
		if v, ok := a.(ErrorAspect); ok {
			out = append(out, v)
		}
	}
	return out
}
