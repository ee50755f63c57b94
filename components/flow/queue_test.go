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

import (
	"errors"
	"testing"
	"time"

	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/components/action"
	"github.com/rulego/tasktree/test"
	"github.com/rulego/tasktree/test/assert"
)

func TestQueue(t *testing.T) {
	n := NewQueue()
	first := n.Add(action.NewWait(10*time.Millisecond), nil)
	second := n.Add(action.NewLambda(func(ctx types.Context, input types.Signal) interface{} {
		return "two"
	}), nil)
	assert.NotEqual(t, first.Id, second.Id)

	assert.Nil(t, test.Activate(n))
	assert.Equal(t, Waiting, first.State)
	assert.Equal(t, 0, len(n.ChildIds()))

	assert.Nil(t, n.Tick(test.Tick(10)))
	assert.Equal(t, Finished, first.State)
	assert.Equal(t, Waiting, second.State)

	assert.Nil(t, n.Tick(test.Tick(0)))
	assert.Equal(t, 1, n.Len())
	assert.Equal(t, Finished, second.State)
	assert.Equal(t, "two", second.Output.Name)

	assert.Nil(t, n.Tick(test.Tick(0)))
	assert.Equal(t, 0, n.Len())
	assert.Equal(t, types.Active, n.State())
}

func TestQueueNext(t *testing.T) {
	n := NewQueue()
	block := action.NewBlock()
	item := n.Add(block, nil)
	assert.Nil(t, test.Activate(n))
	assert.Nil(t, n.Tick(test.Tick(16)))
	assert.Equal(t, Running, item.State)
	assert.Equal(t, types.Active, block.State())

	assert.Nil(t, n.Next())
	assert.Equal(t, types.Inactive, block.State())
	assert.Equal(t, Running, item.State)

	assert.Nil(t, n.Tick(test.Tick(16)))
	assert.Equal(t, Finished, item.State)
}

func TestQueueRemove(t *testing.T) {
	n := NewQueue()
	running := action.NewBlock()
	a := n.Add(running, nil)
	b := n.Add(action.NewBlock(), nil)
	assert.Nil(t, test.Activate(n))
	assert.Nil(t, n.Tick(test.Tick(16)))

	err := n.Remove("missing")
	assert.True(t, errors.Is(err, types.ErrEntryNotFound))

	assert.Nil(t, n.Remove(b.Id))
	assert.Equal(t, 1, n.Len())
	assert.Nil(t, n.Remove(a.Id))
	assert.Equal(t, types.Inactive, running.State())
	assert.Equal(t, 0, n.Len())
	assert.Equal(t, 0, len(n.ChildIds()))
}

func TestQueueGrowsWhileDraining(t *testing.T) {
	n := NewQueue()
	var order []string
	var later *QueueItem
	n.Add(action.NewLambda(func(ctx types.Context, input types.Signal) interface{} {
		order = append(order, "first")
		later = n.Add(action.NewLambda(func(ctx types.Context, input types.Signal) interface{} {
			order = append(order, "later")
			return nil
		}), nil)
		return nil
	}), nil)
	assert.Nil(t, test.Activate(n))
	_, err := test.TickUntilInactive(n, test.Tick(16), 4)
	assert.Nil(t, err)
	assert.Equal(t, []string{"first", "later"}, order)
	assert.Equal(t, Finished, later.State)
}

func TestQueueItemContext(t *testing.T) {
	n := NewQueue()
	var level interface{}
	n.Add(types.NodeFactory(func(ctx types.Context, input types.Signal) types.Node {
		level = ctx.GetValue("level")
		return action.NewLambda(nil)
	}), types.ContextFragment{"level": 3})
	assert.Nil(t, n.Activate(types.TickInfo{}, types.NewContext(map[string]interface{}{"level": 1}), nil, nil))
	assert.Nil(t, n.Tick(test.Tick(16)))
	assert.Equal(t, 3, level)
}

func TestQueueTerminateOnEmpty(t *testing.T) {
	n := NewQueue()
	n.Config.TerminateOnEmpty = true
	n.Add(action.NewLambda(nil), nil)
	assert.Nil(t, test.Activate(n))
	ticks, err := test.TickUntilInactive(n, test.Tick(16), 5)
	assert.Nil(t, err)
	assert.Equal(t, 2, ticks)
	assert.Equal(t, types.Inactive, n.State())
}

func TestQueueTerminateRequeuesRunningItem(t *testing.T) {
	n := NewQueue()
	item := n.Add(action.NewBlock(), nil)
	assert.Nil(t, test.Activate(n))
	assert.Nil(t, n.Tick(test.Tick(16)))
	assert.Equal(t, Running, item.State)
	assert.Nil(t, n.Terminate(nil))
	assert.Equal(t, Waiting, item.State)
	assert.Equal(t, "waiting", item.State.String())
}
