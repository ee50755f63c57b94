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

// ContextKeyConfig is the context entry holding the Config shared by a tree.
// Nodes read services from context entries rather than from process-wide globals.
const ContextKeyConfig = "$config"

// ContextKeyClock is the optional context entry holding the time.Time a tree's simulated clock starts at.
const ContextKeyClock = "$clock"

// Context is an immutable key-value environment passed from parent to child.
// Every extension returns a new Context; the receiver is never modified.
// Context 节点上下文，父节点向子节点传递，不可变
type Context struct {
	values map[string]interface{}
}

// NewContext creates a context holding a copy of values.
func NewContext(values map[string]interface{}) Context {
	c := Context{values: make(map[string]interface{}, len(values))}
	for k, v := range values {
		c.values[k] = v
	}
	return c
}

// EmptyContext returns a context without entries.
func EmptyContext() Context {
	return Context{}
}

// Get returns the value stored under key.
func (c Context) Get(key string) (interface{}, bool) {
	v, ok := c.values[key]
	return v, ok
}

// GetValue returns the value stored under key or nil.
func (c Context) GetValue(key string) interface{} {
	return c.values[key]
}

// Has reports whether key is present.
func (c Context) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Len returns the number of entries.
func (c Context) Len() int {
	return len(c.values)
}

// Keys returns the sorted entry keys.
func (c Context) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values returns a copy of all entries.
func (c Context) Values() map[string]interface{} {
	values := make(map[string]interface{}, len(c.values))
	for k, v := range c.values {
		values[k] = v
	}
	return values
}

// With returns a new context with one extra entry.
func (c Context) With(key string, value interface{}) Context {
	return c.Merge(ContextFragment{key: value})
}

// Merge applies resolvables left to right. Later entries win on key collision.
func (c Context) Merge(resolvables ...ContextResolvable) Context {
	out := c
	for _, r := range resolvables {
		if r == nil {
			continue
		}
		out = r.resolve(out)
	}
	return out
}

// ContextResolvable is either a ContextFragment merged on top of the old context
// or a ContextFunc computing the new context from the old one.
type ContextResolvable interface {
	resolve(old Context) Context
}

// ContextFragment is a literal set of entries merged on top of a context.
type ContextFragment map[string]interface{}

func (f ContextFragment) resolve(old Context) Context {
	if len(f) == 0 {
		return old
	}
	values := make(map[string]interface{}, len(old.values)+len(f))
	for k, v := range old.values {
		values[k] = v
	}
	for k, v := range f {
		values[k] = v
	}
	return Context{values: values}
}

// ContextFunc computes a new context from the old one. It must not mutate its argument.
type ContextFunc func(old Context) Context

func (f ContextFunc) resolve(old Context) Context {
	if f == nil {
		return old
	}
	return f(old)
}

// ContextFromValue converts a DSL or user supplied value into a resolvable.
// It accepts ContextResolvable, Context, map[string]interface{} and func(Context) Context.
func ContextFromValue(v interface{}) (ContextResolvable, bool) {
	switch r := v.(type) {
	case nil:
		return nil, true
	case ContextResolvable:
		return r, true
	case Context:
		return ContextFragment(r.Values()), true
	case map[string]interface{}:
		return ContextFragment(r), true
	case func(Context) Context:
		return ContextFunc(r), true
	default:
		return nil, false
	}
}

