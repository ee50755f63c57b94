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

// Package flow provides the composite task nodes:
//
//   - Parallel: runs a set of children side by side
//   - Sequence: runs children one after another, optionally looping
//   - StateMachine: routes between named states on the termination signal of the current state
//   - Alternative: races a set of children, the first to terminate decides the outcome
//   - ContextProvider: starts provider children visible through context before a payload child
//   - Queue: drains a runtime mutable FIFO of work items
//
// Every component is registered with the Registry and can be used in a tree DSL
// file by its Type. For example:
//
//	{
//	  "id": "intro",
//	  "type": "sequence",
//	  "configuration": {"loop": true},
//	  "children": [
//	    {"id": "fadeIn", "type": "wait", "configuration": {"duration": 500}},
//	    {"id": "title", "type": "waitForEvent", "configuration": {"emitter": "keyboard", "event": "keydown"}}
//	  ]
//	}
package flow

import (
	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/engine"
)

// Registry holds the components of this package.
var Registry = &types.SafeComponentSlice{}

// Entry is a child specification of a composite.
type Entry struct {
	// Id of the child, positional when empty
	Id string
	// Node is a types.Node or a types.NodeFactory
	Node types.Resolvable
	// Context is merged into the child context
	Context types.ContextResolvable
	// Input is the activation signal of the child
	Input *types.Signal
	// Outcome is the termination signal of an Alternative won by this entry
	Outcome *types.Signal
}

// Entries creates entries with positional ids for nodes.
func Entries(nodes ...types.Resolvable) []Entry {
	entries := make([]Entry, 0, len(nodes))
	for _, n := range nodes {
		entries = append(entries, Entry{Node: n})
	}
	return entries
}

func (e Entry) options(id string) engine.ChildOptions {
	return engine.ChildOptions{Id: id, Context: e.Context, InputSignal: e.Input}
}

// entriesFromDefs builds one entry per child definition, each activation gets a fresh node.
func entriesFromDefs(builder types.Builder, defs []types.NodeDef) ([]Entry, error) {
	var entries []Entry
	for _, def := range defs {
		factory, err := engine.BuildFactory(builder, def)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Id: def.Id, Node: factory})
	}
	return entries, nil
}
