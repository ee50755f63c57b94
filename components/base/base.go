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

// Package base provides helpers shared by the task node components.
package base

import (
	"time"

	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/utils/cast"
)

// Expression and script variables.
const (
	// CtxKey the context entries of the node
	CtxKey = "ctx"
	// InputKey the input signal, {name, params}
	InputKey = "input"
	// ElapsedKey milliseconds elapsed since activation
	ElapsedKey = "elapsed"
	// GlobalKey the config properties
	GlobalKey = "global"
)

var NodeUtils = &nodeUtils{}

type nodeUtils struct {
}

// GetEnv returns the variables visible to condition expressions and scripts.
func (n *nodeUtils) GetEnv(node types.Node, input *types.Signal, elapsed time.Duration) map[string]interface{} {
	ctx := node.Context()
	in := types.DefaultSignal()
	if input != nil {
		in = *input
	}
	params := map[string]interface{}{}
	for k, v := range in.Params {
		params[k] = v
	}
	return map[string]interface{}{
		CtxKey:     ctx.Values(),
		InputKey:   map[string]interface{}{"name": in.Name, "params": params},
		ElapsedKey: elapsed.Milliseconds(),
		GlobalKey:  types.ConfigFromContext(ctx).Properties,
	}
}

// TerminationSignal converts the result of a termination predicate or handler.
// Falsy values mean "keep running". A string terminates with that signal name,
// a signal shaped value terminates with it and any other truthy value terminates
// with the default signal.
func TerminationSignal(v interface{}) (types.Signal, bool) {
	if s, ok := v.(*types.Signal); ok && s == nil {
		return types.Signal{}, false
	}
	if !cast.Truthy(v) {
		return types.Signal{}, false
	}
	if s, ok := types.MakeSignal(v); ok {
		return s, true
	}
	if m, ok := v.(map[string]interface{}); ok {
		if name, ok := m["name"].(string); ok && name != "" {
			params, _ := m["params"].(map[string]interface{})
			return types.NewSignal(name, params), true
		}
	}
	return types.DefaultSignal(), true
}

// EventSignal converts the result of an event handler. Only a signal shaped value
// (Signal, *Signal or a {name, params} map) names the output. Any other truthy value,
// strings included, terminates with the default signal.
func EventSignal(v interface{}) (types.Signal, bool) {
	switch s := v.(type) {
	case *types.Signal:
		if s == nil {
			return types.Signal{}, false
		}
		return types.MakeSignal(*s)
	case types.Signal:
		return types.MakeSignal(s)
	case map[string]interface{}:
		if name, ok := s["name"].(string); ok && name != "" {
			params, _ := s["params"].(map[string]interface{})
			return types.NewSignal(name, params), true
		}
	}
	if !cast.Truthy(v) {
		return types.Signal{}, false
	}
	return types.DefaultSignal(), true
}
