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
	"testing"
	"time"

	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/components/action"
	"github.com/rulego/tasktree/test"
	"github.com/rulego/tasktree/test/assert"
)

func TestSequenceDurations(t *testing.T) {
	a := action.NewWait(10 * time.Millisecond)
	b := action.NewWait(20 * time.Millisecond)
	b.Config.Signal = "b"
	n := NewSequence(Entries(a, b)...)
	recorder := new(test.Recorder).Listen(n, types.EventActivatedChild)

	assert.Nil(t, test.Activate(n))
	assert.Equal(t, types.Node(a), n.Current())

	assert.Nil(t, n.Tick(test.Tick(10)))
	assert.Equal(t, types.Inactive, a.State())
	assert.Equal(t, 1, n.Index())
	assert.Equal(t, types.Active, n.State())

	assert.Nil(t, n.Tick(test.Tick(20)))
	assert.Equal(t, types.Inactive, n.State())
	assert.Equal(t, "b", n.OutputSignal().Name)
	assert.Equal(t, 2, recorder.Count(types.EventActivatedChild))
}

func TestSequenceChainsOutputToInput(t *testing.T) {
	var received types.Signal
	first := action.NewLambda(func(ctx types.Context, input types.Signal) interface{} {
		return types.NewSignal("first", types.Params{"score": 3})
	})
	second := action.NewLambda(func(ctx types.Context, input types.Signal) interface{} {
		received = input
		return "second"
	})
	n := NewSequence(Entries(first, second)...)
	assert.Nil(t, n.Activate(types.TickInfo{}, types.EmptyContext(), types.SignalPtr(types.NewSignal("go")), nil))

	assert.Equal(t, types.Inactive, n.State())
	assert.Equal(t, "second", n.OutputSignal().Name)
	assert.Equal(t, "first", received.Name)
	assert.Equal(t, 3, received.Params["score"])
}

func TestSequenceEmpty(t *testing.T) {
	n := NewSequence()
	assert.Nil(t, test.Activate(n))
	assert.Equal(t, types.Inactive, n.State())

	idle := NewSequence()
	idle.Config.TerminateOnCompletion = false
	assert.Nil(t, test.Activate(idle))
	assert.Equal(t, types.Active, idle.State())
}

func TestSequenceLoop(t *testing.T) {
	n := NewSequence(Entries(action.NewWait(10 * time.Millisecond))...)
	n.Config.Loop = true
	recorder := new(test.Recorder).Listen(n, types.EventActivatedChild)
	assert.Nil(t, test.Activate(n))
	for i := 0; i < 3; i++ {
		assert.Nil(t, n.Tick(test.Tick(10)))
	}
	assert.Equal(t, types.Active, n.State())
	assert.Equal(t, 0, n.Index())
	assert.Equal(t, 4, recorder.Count(types.EventActivatedChild))

	// entries finishing on activation are started at most once per entry in a single call
	instant := NewSequence(Entries(action.NewLambda(nil))...)
	instant.Config.Loop = true
	recorder = new(test.Recorder).Listen(instant, types.EventActivatedChild)
	assert.Nil(t, test.Activate(instant))
	assert.Equal(t, types.Active, instant.State())
	assert.True(t, recorder.Count(types.EventActivatedChild) <= 3)
}

func TestSequenceSkip(t *testing.T) {
	block := action.NewBlock()
	n := NewSequence(Entries(block, action.NewLambda(func(ctx types.Context, input types.Signal) interface{} {
		return "second"
	}))...)
	assert.Nil(t, test.Activate(n))
	assert.Nil(t, n.Skip())
	assert.Equal(t, types.SkipSignalName, block.OutputSignal().Name)
	assert.Equal(t, types.Inactive, n.State())
	assert.Equal(t, "second", n.OutputSignal().Name)
	assert.True(t, types.IsInvalidState(n.Skip()))
}

func TestSequenceRestart(t *testing.T) {
	first := action.NewBlock()
	second := action.NewBlock()
	n := NewSequence(Entries(first, second)...)
	assert.Nil(t, test.Activate(n))
	assert.Nil(t, first.Done(nil))
	assert.Nil(t, n.Tick(test.Tick(16)))
	assert.Equal(t, 1, n.Index())
	assert.Equal(t, types.Active, second.State())

	assert.Nil(t, n.Restart())
	assert.Equal(t, 0, n.Index())
	assert.Equal(t, types.Inactive, second.State())
	assert.Equal(t, types.Active, first.State())
	assert.Equal(t, []string{"0"}, n.ChildIds())
}

func TestSequenceMemento(t *testing.T) {
	activations := map[string]int{}
	factory := func(id string, d time.Duration) types.NodeFactory {
		return func(ctx types.Context, input types.Signal) types.Node {
			activations[id]++
			return action.NewWait(d)
		}
	}
	newSequence := func() *Sequence {
		return NewSequence(
			Entry{Id: "a", Node: factory("a", 10*time.Millisecond)},
			Entry{Id: "b", Node: factory("b", 30*time.Millisecond)},
		)
	}

	n := newSequence()
	assert.Nil(t, test.Activate(n))
	assert.Nil(t, n.Tick(test.Tick(10)))
	assert.Nil(t, n.Tick(test.Tick(10)))

	m, err := n.MakeMemento()
	assert.Nil(t, err)
	assert.Equal(t, "Sequence", m.Kind)
	assert.Equal(t, 1, m.Data)
	assert.Equal(t, []string{"b"}, keys(m.Children))
	assert.Equal(t, int64(10), m.Children["b"].Data)
	assert.Nil(t, n.Terminate(nil))

	data, err := types.EncodeMemento(m)
	assert.Nil(t, err)
	decoded, err := types.DecodeMemento(data)
	assert.Nil(t, err)

	activations = map[string]int{}
	restored := newSequence()
	assert.Nil(t, restored.Activate(types.TickInfo{}, types.EmptyContext(), nil, decoded))
	assert.Equal(t, 1, restored.Index())
	assert.Equal(t, []string{"b"}, restored.ChildIds())
	assert.Equal(t, 10*time.Millisecond, restored.Current().(*action.Wait).Elapsed())
	assert.Equal(t, 0, activations["a"])

	assert.Nil(t, restored.Tick(test.Tick(20)))
	assert.Equal(t, types.Inactive, restored.State())
}

func keys(children map[string]*types.Memento) []string {
	var ids []string
	for id := range children {
		ids = append(ids, id)
	}
	return ids
}
