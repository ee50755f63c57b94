/*
 * Copyright 2023 The RuleGo Authors.
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

package tasktree

import (
	"errors"
	"plugin"

	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/components/action"
	"github.com/rulego/tasktree/components/flow"
	"github.com/rulego/tasktree/engine"
)

// PluginsSymbol 插件检查点 Symbol
const PluginsSymbol = "Plugins"

// ErrInvalidPlugin is returned when a plugin does not export a PluginRegistry under PluginsSymbol.
var ErrInvalidPlugin = errors.New("invalid plugin")

// Registry 默认组件注册器
var Registry = engine.Registry

//注册默认组件
func init() {
	//把组件注册到默认组件库
	_ = Registry.RegisterAll(action.Registry)
	_ = Registry.RegisterAll(flow.Registry)
}

// PluginRegistry is the symbol a component plugin exports under PluginsSymbol.
type PluginRegistry interface {
	Components() []types.Component
}

// RegisterPlugin loads a Go plugin and registers its components into registry.
// Nothing is registered when one of the component types already exists.
func RegisterPlugin(registry types.ComponentRegistry, file string) error {
	pluginRegistry, err := loadPlugin(file)
	if err != nil {
		return err
	}
	return registerAll(registry, pluginRegistry.Components())
}

func registerAll(registry types.ComponentRegistry, components []types.Component) error {
	existing := registry.GetComponents()
	for _, c := range components {
		if _, ok := existing[c.Type()]; ok {
			return types.NewErrorf("registry", "registerPlugin", types.ErrComponentExists, "componentType=%s", c.Type())
		}
	}
	for _, c := range components {
		if err := registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// loadPlugin opens a plugin file and looks up its PluginRegistry
func loadPlugin(file string) (PluginRegistry, error) {
	p, err := plugin.Open(file)
	if err != nil {
		return nil, err
	}
	sym, err := p.Lookup(PluginsSymbol)
	if err != nil {
		return nil, err
	}
	pluginRegistry, ok := sym.(PluginRegistry)
	if !ok {
		return nil, ErrInvalidPlugin
	}
	return pluginRegistry, nil
}
