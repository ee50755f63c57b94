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
//        "id": "intro",
//        "type": "sequence",
//        "configuration": {
//          "loop": false,
//          "terminateOnCompletion": true
//        },
//        "children": [...]
//  }
import (
	"strconv"

	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/engine"
	"github.com/rulego/tasktree/utils/cast"
	"github.com/rulego/tasktree/utils/maps"
)

func init() {
	Registry.Add(&Sequence{})
}

// SequenceConfiguration 节点配置
type SequenceConfiguration struct {
	// Loop starts over at the first entry after the last one
	Loop bool
	// TerminateOnCompletion terminates with the output of the last entry. Default true.
	TerminateOnCompletion bool
}

// Sequence runs its entries one at a time in order. Each entry receives the output signal
// of the previous one as input. The current index is kept in the memento.
type Sequence struct {
	engine.Composite
	Config     SequenceConfiguration
	entries    []Entry
	index      int
	current    types.Node
	currentId  string
	lastOutput *types.Signal
}

// NewSequence creates a sequence over entries.
func NewSequence(entries ...Entry) *Sequence {
	n := &Sequence{
		Config:  SequenceConfiguration{TerminateOnCompletion: true},
		entries: entries,
	}
	n.InitComposite(n, "Sequence")
	return n
}

// Type 组件类型
func (n *Sequence) Type() string {
	return "sequence"
}

func (n *Sequence) New() types.Component {
	return NewSequence()
}

// Init 初始化
func (n *Sequence) Init(config types.Config, def types.NodeDef, builder types.Builder) error {
	if err := maps.Map2Struct(def.Configuration, &n.Config); err != nil {
		return err
	}
	entries, err := entriesFromDefs(builder, def.Children)
	n.entries = entries
	return err
}

// Index returns the index of the current entry.
func (n *Sequence) Index() int {
	return n.index
}

// Current returns the node of the current entry, nil if none.
func (n *Sequence) Current() types.Node {
	return n.current
}

// Len returns the number of entries.
func (n *Sequence) Len() int {
	return len(n.entries)
}

func (n *Sequence) OnActivate() error {
	n.index = 0
	n.current = nil
	n.currentId = ""
	n.lastOutput = nil
	if m := n.Memento(); m != nil {
		if i, err := cast.ToIntE(m.Data); err == nil && i >= 0 && i < len(n.entries) {
			n.index = i
		}
	}
	if n.index < len(n.entries) {
		return n.start(n.InputSignal())
	}
	return nil
}

func (n *Sequence) OnAfterTick() error {
	return n.advance()
}

func (n *Sequence) MementoData() interface{} {
	return n.index
}

// Skip terminates the current entry with the skip signal and moves on immediately.
func (n *Sequence) Skip() error {
	if n.State() != types.Active {
		return types.NewErrorf(n.Kind(), "skip", types.ErrInvalidState, "%v", n.State())
	}
	if n.current != nil && n.current.State() != types.Inactive {
		if err := n.current.Terminate(types.SignalPtr(types.NewSignal(types.SkipSignalName))); err != nil {
			return err
		}
	}
	return n.advance()
}

// Restart drops the current entry and starts over at the first one.
func (n *Sequence) Restart() error {
	if n.State() != types.Active {
		return types.NewErrorf(n.Kind(), "restart", types.ErrInvalidState, "%v", n.State())
	}
	if err := n.dropCurrent(); err != nil {
		return err
	}
	n.index = 0
	n.lastOutput = nil
	if len(n.entries) == 0 {
		return n.advance()
	}
	return n.start(n.InputSignal())
}

// advance moves past finished entries. Every entry is started at most once per call,
// so a looping sequence of entries finishing on activation does not spin.
func (n *Sequence) advance() error {
	for steps := 0; steps <= len(n.entries); steps++ {
		if n.current != nil {
			if n.current.State() != types.Inactive {
				return nil
			}
			n.lastOutput = n.current.OutputSignal()
			if err := n.dropCurrent(); err != nil {
				return err
			}
			n.index++
		}
		if n.index >= len(n.entries) {
			if !n.Config.Loop || len(n.entries) == 0 {
				if n.Config.TerminateOnCompletion {
					return n.Terminate(n.lastOutput)
				}
				return nil
			}
			n.index = 0
		}
		if err := n.start(n.lastOutput); err != nil {
			return err
		}
	}
	return nil
}

func (n *Sequence) start(input *types.Signal) error {
	e := n.entries[n.index]
	id := e.Id
	if id == "" {
		id = strconv.Itoa(n.index)
	}
	opts := e.options(id)
	if opts.InputSignal == nil {
		opts.InputSignal = input
	}
	node, err := n.ActivateChild(e.Node, opts)
	if err != nil {
		return err
	}
	n.current = node
	n.currentId = id
	return nil
}

// dropCurrent removes the current entry from the children when it is still registered.
func (n *Sequence) dropCurrent() error {
	current := n.current
	n.current = nil
	if current == nil {
		return nil
	}
	if child, ok := n.Child(n.currentId); ok && child == current {
		return n.TerminateChild(current, nil)
	}
	return nil
}
