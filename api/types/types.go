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

// Listener receives the arguments of an emitted event.
type Listener func(args ...interface{})

// ListenerId identifies a registered listener so it can be removed.
type ListenerId uint64

// ListenerEmitter is the first recognised emitter shape: On / Once / Off by event name.
// Every node implements it.
type ListenerEmitter interface {
	On(event string, listener Listener) ListenerId
	Once(event string, listener Listener) ListenerId
	Off(event string, id ListenerId)
}

// TargetEmitter is the second recognised emitter shape: AddListener / RemoveListener by event name.
// It has no native once; subscribers emulate it.
type TargetEmitter interface {
	AddListener(event string, listener Listener) ListenerId
	RemoveListener(event string, id ListenerId)
}

// EmitterAdapter subscribes to emitters that expose neither recognised shape.
// Adapters are registered on the Config with WithEmitterAdapter.
type EmitterAdapter interface {
	// Supports reports whether the adapter can subscribe to emitter.
	Supports(emitter interface{}) bool
	// Subscribe registers listener and returns the function revoking it.
	Subscribe(emitter interface{}, event string, listener Listener, once bool) (unsubscribe func())
}

// Node is the task node lifecycle capability set shared by every leaf and composite.
// Node 任务节点接口
//
// State transitions:
//
//	inactive --Activate--> active --Pause--> paused --Resume--> active
//	active|paused --Terminate--> inactive
type Node interface {
	ListenerEmitter
	// Kind returns the concrete node type name. It is recorded in mementos.
	Kind() string
	// Id returns the instance id assigned at construction.
	Id() string
	// State returns the current lifecycle state.
	State() NodeState
	// OutputSignal returns the signal of the last termination, nil while active or never run.
	OutputSignal() *Signal
	// Context returns the context given to the current activation.
	Context() Context
	// TickInfo returns the most recent tick info.
	TickInfo() TickInfo
	// Children returns the live children by id. Leaves return an empty map.
	Children() map[string]Node
	// Activate starts the node. memento is adopted only when its kind matches Kind().
	Activate(tickInfo TickInfo, ctx Context, input *Signal, memento *Memento) error
	// Tick advances the node. It is a no-op while paused.
	Tick(tickInfo TickInfo) error
	// Terminate stops the node and its subtree. A nil signal means the default signal.
	Terminate(signal *Signal) error
	Pause() error
	Resume() error
	// MakeMemento captures the structural state of the node and its live subtree.
	MakeMemento() (*Memento, error)
}

// NodeFactory creates a node from the context and input signal of its activation.
type NodeFactory func(ctx Context, input Signal) Node

// Resolvable is a Node or a NodeFactory.
type Resolvable interface{}

// Component is a node that can be created from a DSL definition.
// 把通用逻辑封装成组件，通过树形DSL配置方式调用该组件
type Component interface {
	Node
	// Type is the DSL component type. It must be unique in a registry.
	Type() string
	// New creates a fresh, inactive instance.
	New() Component
	// Init configures the instance. Composite components build their children with builder.
	Init(config Config, def NodeDef, builder Builder) error
}

// Builder builds node instances from definitions.
type Builder interface {
	Build(def NodeDef) (Node, error)
}

// ComponentRegistry 节点组件注册器
type ComponentRegistry interface {
	// Register adds a component, failing if its type already exists
	Register(component Component) error
	// Unregister removes a component type
	Unregister(componentType string) error
	// NewComponent creates a new instance by type
	NewComponent(componentType string) (Component, error)
	// GetComponents returns all registered components
	GetComponents() map[string]Component
}

// Parser decodes and encodes tree definitions.
type Parser interface {
	DecodeNodeDef(dsl []byte) (NodeDef, error)
	EncodeNodeDef(def NodeDef) ([]byte, error)
}
