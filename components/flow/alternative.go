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
//        "id": "timeout",
//        "type": "alternative",
//        "configuration": {
//          "outcomes": {"answer": "answered", "timer": "timedOut"}
//        },
//        "children": [
//          {"id": "answer", "type": "waitForEvent", "configuration": {"emitter": "phone", "event": "answer"}},
//          {"id": "timer", "type": "wait", "configuration": {"duration": "30s"}}
//        ]
//  }
import (
	"strconv"

	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/engine"
	"github.com/rulego/tasktree/utils/maps"
)

func init() {
	Registry.Add(&Alternative{})
}

// AlternativeConfiguration 节点配置
type AlternativeConfiguration struct {
	// Outcomes maps a child id to the signal name the node terminates with when that child wins
	Outcomes map[string]string
}

// Alternative activates all entries at once. The first entry to terminate wins: the node
// terminates with the outcome of that entry, or with a signal named after its position.
// The other entries are terminated with the node.
type Alternative struct {
	engine.Composite
	Config  AlternativeConfiguration
	entries []Entry
	winner  int
}

// NewAlternative creates an alternative over entries.
func NewAlternative(entries ...Entry) *Alternative {
	n := &Alternative{entries: entries, winner: -1}
	n.InitComposite(n, "Alternative")
	return n
}

// Type 组件类型
func (n *Alternative) Type() string {
	return "alternative"
}

func (n *Alternative) New() types.Component {
	return NewAlternative()
}

// Init 初始化
func (n *Alternative) Init(config types.Config, def types.NodeDef, builder types.Builder) error {
	if err := maps.Map2Struct(def.Configuration, &n.Config); err != nil {
		return err
	}
	entries, err := entriesFromDefs(builder, def.Children)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if outcome, ok := n.Config.Outcomes[e.Id]; ok {
			e.Outcome = types.SignalPtr(types.NewSignal(outcome))
		}
		n.entries = append(n.entries, e)
	}
	return nil
}

// Winner returns the index of the winning entry, -1 while the race is open.
func (n *Alternative) Winner() int {
	return n.winner
}

func (n *Alternative) OnActivate() error {
	n.winner = -1
	for i, e := range n.entries {
		index := i
		child, err := n.ActivateChild(e.Node, e.options(n.entryId(index)))
		if err != nil {
			return err
		}
		if child.State() == types.Inactive {
			if n.winner < 0 {
				n.winner = index
			}
			continue
		}
		if err := n.SubscribeOnce(child, types.EventTerminated, func(args ...interface{}) {
			if n.winner < 0 {
				n.winner = index
			}
		}); err != nil {
			return err
		}
	}
	return nil
}

func (n *Alternative) OnAfterTick() error {
	if n.winner < 0 {
		return nil
	}
	e := n.entries[n.winner]
	outcome := types.NewSignal(strconv.Itoa(n.winner))
	if e.Outcome != nil {
		outcome = *e.Outcome
	}
	return n.Terminate(&outcome)
}

func (n *Alternative) entryId(index int) string {
	if id := n.entries[index].Id; id != "" {
		return id
	}
	return strconv.Itoa(index)
}
