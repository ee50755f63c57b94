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

package engine

import (
	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/utils/str"
)

// GlobalKey is the placeholder namespace of Config.Properties in DSL configurations: ${global.key}.
const GlobalKey = "global"

// TreeBuilder builds task nodes from DSL definitions using the component registry of its config.
type TreeBuilder struct {
	config types.Config
}

var _ types.Builder = (*TreeBuilder)(nil)

// NewBuilder creates a builder for config.
func NewBuilder(config types.Config) *TreeBuilder {
	return &TreeBuilder{config: config}
}

// Config returns the builder config.
func (b *TreeBuilder) Config() types.Config {
	return b.config
}

// Build creates and initialises the component of def. Composite components build their
// children through the same builder.
func (b *TreeBuilder) Build(def types.NodeDef) (types.Node, error) {
	registry := b.config.ComponentsRegistry
	if registry == nil {
		registry = Registry
	}
	component, err := registry.NewComponent(def.Type)
	if err != nil {
		return nil, err
	}
	def.Configuration = b.resolveConfiguration(def.Configuration)
	if err := component.Init(b.config, def, b); err != nil {
		return nil, types.NewErrorf(def.Type, "init", err, "id=%s", def.Id)
	}
	if d, ok := component.(interface{ SetDebugMode(bool) }); ok {
		d.SetDebugMode(def.DebugMode)
	}
	return component, nil
}

// resolveConfiguration replaces ${global.key} placeholders with config properties.
func (b *TreeBuilder) resolveConfiguration(configuration types.Configuration) types.Configuration {
	if len(configuration) == 0 || len(b.config.Properties) == 0 {
		return configuration
	}
	dict := map[string]interface{}{GlobalKey: b.config.Properties}
	out := make(types.Configuration, len(configuration))
	for k, v := range configuration {
		out[k] = resolveValue(v, dict)
	}
	return out
}

func resolveValue(v interface{}, dict map[string]interface{}) interface{} {
	switch value := v.(type) {
	case string:
		if str.CheckHasVar(value) {
			return str.ResolveValue(value, dict)
		}
		return value
	case map[string]interface{}:
		out := make(map[string]interface{}, len(value))
		for k, item := range value {
			out[k] = resolveValue(item, dict)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(value))
		for i, item := range value {
			out[i] = resolveValue(item, dict)
		}
		return out
	default:
		return v
	}
}

// BuildFactory validates def by building it once and returns a factory creating a fresh
// instance for every activation. The validation instance is handed out by the first call.
func BuildFactory(builder types.Builder, def types.NodeDef) (types.NodeFactory, error) {
	first, err := builder.Build(def)
	if err != nil {
		return nil, err
	}
	return func(ctx types.Context, input types.Signal) types.Node {
		if first != nil {
			node := first
			first = nil
			return node
		}
		node, err := builder.Build(def)
		if err != nil {
			types.ConfigFromContext(ctx).Logger.Printf("build %s(%s) error: %s", def.Type, def.Id, err.Error())
			return nil
		}
		return node
	}, nil
}

// BuildFactories is BuildFactory over a list of definitions.
func BuildFactories(builder types.Builder, defs []types.NodeDef) ([]types.NodeFactory, error) {
	var factories []types.NodeFactory
	for _, def := range defs {
		f, err := BuildFactory(builder, def)
		if err != nil {
			return nil, err
		}
		factories = append(factories, f)
	}
	return factories, nil
}
