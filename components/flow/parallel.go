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

package flow

//节点配置示例：
//{
//        "id": "hud",
//        "type": "parallel",
//        "configuration": {
//          "terminateOnCompletion": true
//        },
//        "children": [...]
//  }
import (
	"strconv"

	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/engine"
	"github.com/rulego/tasktree/utils/maps"
)

func init() {
	Registry.Add(&Parallel{})
}

// ParallelConfiguration 节点配置
type ParallelConfiguration struct {
	// TerminateOnCompletion terminates the node once no child is left. Default true.
	TerminateOnCompletion bool
}

// Parallel activates every entry on activation and ticks them side by side in entry order.
// Entries can be added and removed while it runs.
type Parallel struct {
	engine.Composite
	Config    ParallelConfiguration
	entries   []Entry
	nextIndex int
}

// NewParallel creates a parallel node over entries.
func NewParallel(entries ...Entry) *Parallel {
	n := &Parallel{Config: ParallelConfiguration{TerminateOnCompletion: true}}
	n.InitComposite(n, "Parallel")
	for _, e := range entries {
		n.addEntry(e)
	}
	return n
}

// Type 组件类型
func (n *Parallel) Type() string {
	return "parallel"
}

func (n *Parallel) New() types.Component {
	return NewParallel()
}

// Init 初始化
func (n *Parallel) Init(config types.Config, def types.NodeDef, builder types.Builder) error {
	if err := maps.Map2Struct(def.Configuration, &n.Config); err != nil {
		return err
	}
	entries, err := entriesFromDefs(builder, def.Children)
	if err != nil {
		return err
	}
	for _, e := range entries {
		n.addEntry(e)
	}
	return nil
}

func (n *Parallel) addEntry(e Entry) Entry {
	if e.Id == "" {
		e.Id = strconv.Itoa(n.nextIndex)
		n.nextIndex++
	}
	n.entries = append(n.entries, e)
	return e
}

// Entries returns the child specifications.
func (n *Parallel) Entries() []Entry {
	return append([]Entry(nil), n.entries...)
}

// AddChild adds an entry and activates it right away when the node is running.
// It returns the id of the entry.
func (n *Parallel) AddChild(e Entry) (string, error) {
	for _, item := range n.entries {
		if e.Id != "" && item.Id == e.Id {
			return "", types.NewErrorf(n.Kind(), "addChild", types.ErrDuplicateId, "%s", e.Id)
		}
	}
	e = n.addEntry(e)
	if n.State() == types.Inactive {
		return e.Id, nil
	}
	if _, err := n.ActivateChild(e.Node, e.options(e.Id)); err != nil {
		n.entries = n.entries[:len(n.entries)-1]
		return "", err
	}
	return e.Id, nil
}

// RemoveChild removes an entry, terminating its child when it is live.
func (n *Parallel) RemoveChild(id string) error {
	for i, item := range n.entries {
		if item.Id != id {
			continue
		}
		n.entries = append(n.entries[:i:i], n.entries[i+1:]...)
		if child, ok := n.Child(id); ok && n.State() != types.Inactive {
			return n.TerminateChild(child, nil)
		}
		return nil
	}
	return types.NewErrorf(n.Kind(), "removeChild", types.ErrEntryNotFound, "%s", id)
}

func (n *Parallel) OnActivate() error {
	for _, e := range n.entries {
		if _, err := n.ActivateChild(e.Node, e.options(e.Id)); err != nil {
			return err
		}
	}
	return nil
}

func (n *Parallel) OnAfterTick() error {
	if n.Config.TerminateOnCompletion && len(n.ChildIds()) == 0 {
		return n.Terminate(nil)
	}
	return nil
}
