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
//        "id": "jobs",
//        "type": "queue",
//        "configuration": {
//          "terminateOnEmpty": true
//        },
//        "children": [
//          {"id": "first", "type": "wait", "configuration": {"duration": 100}},
//          {"id": "second", "type": "lambda", "configuration": {"signal": "ok"}}
//        ]
//  }
import (
	"github.com/gofrs/uuid/v5"
	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/components/action"
	"github.com/rulego/tasktree/engine"
	"github.com/rulego/tasktree/utils/maps"
)

func init() {
	Registry.Add(&Queue{})
}

// QueueItemState is the progress of a queue item.
type QueueItemState int

const (
	Waiting QueueItemState = iota
	Running
	Finished
)

func (s QueueItemState) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Running:
		return "running"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// QueueItem is a unit of work of a Queue.
type QueueItem struct {
	Id    string
	State QueueItemState
	// Node is a types.Node or a types.NodeFactory
	Node types.Resolvable
	// Context of the item, the context of the queue when nil
	Context types.ContextResolvable
	// Output is the termination signal of the item node once finished
	Output *types.Signal

	runner *Sequence
}

// QueueConfiguration 节点配置
type QueueConfiguration struct {
	// TerminateOnEmpty terminates the queue when the last item finished. Default false.
	TerminateOnEmpty bool
}

// Queue runs its items one at a time in FIFO order. Items can be added while the queue
// drains. The item list only changes in Add, Remove and the tick of the queue.
type Queue struct {
	engine.Composite
	Config QueueConfiguration
	items  []*QueueItem
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	n := &Queue{}
	n.InitComposite(n, "Queue")
	return n
}

// Type 组件类型
func (n *Queue) Type() string {
	return "queue"
}

func (n *Queue) New() types.Component {
	return NewQueue()
}

// Init 初始化
func (n *Queue) Init(config types.Config, def types.NodeDef, builder types.Builder) error {
	if err := maps.Map2Struct(def.Configuration, &n.Config); err != nil {
		return err
	}
	entries, err := entriesFromDefs(builder, def.Children)
	if err != nil {
		return err
	}
	for _, e := range entries {
		n.Add(e.Node, e.Context)
	}
	return nil
}

// Add appends a waiting item. A nil ctx means the context of the queue.
func (n *Queue) Add(resolvable types.Resolvable, ctx types.ContextResolvable) *QueueItem {
	item := &QueueItem{
		Id:      newItemId(),
		State:   Waiting,
		Node:    resolvable,
		Context: ctx,
	}
	n.items = append(n.items, item)
	return item
}

// Items returns the items not yet dropped, head first.
func (n *Queue) Items() []*QueueItem {
	return append([]*QueueItem(nil), n.items...)
}

// Len returns the number of items not yet dropped.
func (n *Queue) Len() int {
	return len(n.items)
}

// Remove drops a waiting item, or terminates a running one.
func (n *Queue) Remove(id string) error {
	for i, item := range n.items {
		if item.Id != id {
			continue
		}
		if item.State == Running {
			n.stop(item)
		}
		n.items = append(n.items[:i:i], n.items[i+1:]...)
		return nil
	}
	return types.NewErrorf(n.Kind(), "remove", types.ErrEntryNotFound, "%s", id)
}

// Next terminates the node of the running item. The queue moves to the next item on its next tick.
func (n *Queue) Next() error {
	for _, item := range n.items {
		if item.State != Running || item.runner == nil {
			continue
		}
		if current := item.runner.Current(); current != nil && current.State() != types.Inactive {
			return current.Terminate(nil)
		}
		return nil
	}
	return nil
}

func (n *Queue) OnTick() error {
	items := n.items[:0]
	for _, item := range n.items {
		if item.State != Finished {
			items = append(items, item)
		}
	}
	for i := len(items); i < len(n.items); i++ {
		n.items[i] = nil
	}
	n.items = items

	if len(n.items) == 0 || n.items[0].State != Waiting {
		return nil
	}
	return n.run(n.items[0])
}

func (n *Queue) OnAfterTick() error {
	if n.Config.TerminateOnEmpty && len(n.items) == 0 {
		return n.Terminate(nil)
	}
	return nil
}

// OnTerminate puts the running item back to waiting, it starts over on the next activation.
func (n *Queue) OnTerminate() error {
	for _, item := range n.items {
		if item.State == Running {
			item.State = Waiting
			item.runner = nil
		}
	}
	return nil
}

// run wraps the item in a one-shot sequence: the item node, then a marker finishing the item.
func (n *Queue) run(item *QueueItem) error {
	marker := action.NewLambda(func(ctx types.Context, input types.Signal) interface{} {
		item.State = Finished
		item.Output = types.SignalPtr(input)
		item.runner = nil
		return input
	})
	runner := NewSequence(Entry{Node: item.Node, Context: item.Context}, Entry{Node: marker})
	item.State = Running
	item.runner = runner
	if _, err := n.ActivateChild(runner, engine.ChildOptions{Id: item.Id}); err != nil {
		item.State = Waiting
		item.runner = nil
		return err
	}
	return nil
}

func (n *Queue) stop(item *QueueItem) {
	runner := item.runner
	item.runner = nil
	if runner == nil {
		return
	}
	if child, ok := n.Child(item.Id); ok && child == runner {
		_ = n.TerminateChild(runner, nil)
	}
}

func newItemId() string {
	uid, err := uuid.NewV4()
	if err != nil {
		return ""
	}
	return uid.String()
}
