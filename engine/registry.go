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
	"sort"
	"sync"

	"github.com/rulego/tasktree/api/types"
)

// Registry is the default component registry. The tasktree package registers the
// builtin flow and action components into it.
var Registry = new(ComponentRegistry)

// ComponentRegistry is a registry of task node components by DSL type.
type ComponentRegistry struct {
	components map[string]types.Component
	sync.RWMutex
}

var _ types.ComponentRegistry = (*ComponentRegistry)(nil)

// Register adds a component to the registry.
func (r *ComponentRegistry) Register(component types.Component) error {
	r.Lock()
	defer r.Unlock()
	if r.components == nil {
		r.components = make(map[string]types.Component)
	}
	if _, ok := r.components[component.Type()]; ok {
		return types.NewErrorf("registry", "register", types.ErrComponentExists, "componentType=%s", component.Type())
	}
	r.components[component.Type()] = component
	return nil
}

// RegisterAll adds every component of a package registry, stopping at the first error.
func (r *ComponentRegistry) RegisterAll(components *types.SafeComponentSlice) error {
	for _, component := range components.Components() {
		if err := r.Register(component); err != nil {
			return err
		}
	}
	return nil
}

// Unregister removes a component from the registry by its type.
func (r *ComponentRegistry) Unregister(componentType string) error {
	r.Lock()
	defer r.Unlock()
	if _, ok := r.components[componentType]; !ok {
		return types.NewErrorf("registry", "unregister", types.ErrComponentNotFound, "componentType=%s", componentType)
	}
	delete(r.components, componentType)
	return nil
}

// NewComponent creates a new, inactive instance of a component by its type.
func (r *ComponentRegistry) NewComponent(componentType string) (types.Component, error) {
	r.RLock()
	defer r.RUnlock()
	if component, ok := r.components[componentType]; !ok {
		return nil, types.NewErrorf("registry", "newComponent", types.ErrComponentNotFound, "componentType=%s", componentType)
	} else {
		return component.New(), nil
	}
}

// GetComponents returns a map of all registered components.
func (r *ComponentRegistry) GetComponents() map[string]types.Component {
	r.RLock()
	defer r.RUnlock()
	var components = map[string]types.Component{}
	for k, v := range r.components {
		components[k] = v
	}
	return components
}

// Types returns the registered component types, sorted.
func (r *ComponentRegistry) Types() []string {
	r.RLock()
	defer r.RUnlock()
	var list []string
	for k := range r.components {
		list = append(list, k)
	}
	sort.Strings(list)
	return list
}
