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

func TestStateMachineEndingState(t *testing.T) {
	n := NewStateMachine(map[string]State{
		"start": {Node: action.NewLambda(func(ctx types.Context, input types.Signal) interface{} {
			return "end"
		})},
		"middle": {Node: action.NewBlock()},
	}, "start", "end")
	recorder := new(test.Recorder).Listen(n, types.EventStateChange)

	assert.Nil(t, test.Activate(n))
	assert.Equal(t, types.Inactive, n.State())
	assert.Equal(t, "end", n.OutputSignal().Name)
	assert.Equal(t, []string{"start", "end"}, n.VisitedStates())
	assert.Equal(t, 2, recorder.Count(types.EventStateChange))

	first := recorder.Events()[0]
	assert.Nil(t, first.Args[0])
	assert.Equal(t, "start", first.Args[1].(types.Signal).Name)
}

func TestStateMachineStartsInEndingState(t *testing.T) {
	n := NewStateMachine(map[string]State{
		"menu": {Node: action.NewBlock()},
	}, types.NewSignal("done", types.Params{"score": 3}), "done")
	assert.Nil(t, test.Activate(n))
	assert.Equal(t, types.Inactive, n.State())
	assert.False(t, n.TerminationDeferred())
	assert.Equal(t, "done", n.OutputSignal().Name)
	assert.Equal(t, 3, n.OutputSignal().Params["score"])
	assert.Equal(t, []string{"done"}, n.VisitedStates())
}

func TestStateMachineTransitions(t *testing.T) {
	menu := action.NewBlock()
	level := action.NewBlock()
	credits := action.NewBlock()
	n := NewStateMachine(map[string]State{
		"menu":    {Node: menu},
		"level":   {Node: level},
		"credits": {Node: credits},
	}, types.NewSignal("menu"), "quit")
	n.SetTransition("menu", "level").
		SetTransition("level", TransitionFunc(func(ctx types.Context, signal types.Signal) types.Signal {
			if signal.Is("won") {
				return types.NewSignal("credits", signal.Params)
			}
			return types.NewSignal("menu")
		})).
		SetTransition("credits", types.NewSignal("quit"))

	var levelInput *types.Signal
	level.On(types.EventActivated, func(args ...interface{}) {
		levelInput = args[0].(*types.Signal)
	})

	assert.Nil(t, test.Activate(n))
	step := func(b *action.Block, signal string) {
		assert.Nil(t, b.Done(types.SignalPtr(types.NewSignal(signal))))
		assert.Nil(t, n.Tick(test.Tick(16)))
	}
	step(menu, "start")
	assert.Equal(t, "level", n.CurrentState().Name)
	assert.Equal(t, "level", levelInput.Name)

	step(level, "lost")
	assert.Equal(t, "menu", n.CurrentState().Name)
	step(menu, "start")
	assert.Equal(t, types.Node(level), n.Current())
	assert.Nil(t, level.Done(types.SignalPtr(types.NewSignal("won", types.Params{"score": 10}))))
	assert.Nil(t, n.Tick(test.Tick(16)))
	assert.Equal(t, 10, n.CurrentState().Params["score"])
	step(credits, "")

	assert.Equal(t, types.Inactive, n.State())
	assert.Equal(t, "quit", n.OutputSignal().Name)
	assert.Equal(t, []string{"menu", "level", "menu", "level", "credits", "quit"}, n.VisitedStates())
}

func TestStateMachineStartingStateFunc(t *testing.T) {
	n := NewStateMachine(map[string]State{
		"easy": {Node: action.NewBlock()},
		"hard": {Node: action.NewBlock()},
	}, StartingStateFunc(func(ctx types.Context, input types.Signal) types.Signal {
		if v, ok := input.Param("hard"); ok && v == true {
			return types.NewSignal("hard")
		}
		return types.NewSignal("easy")
	}))
	input := types.NewSignal("play", types.Params{"hard": true})
	assert.Nil(t, n.Activate(types.TickInfo{}, types.EmptyContext(), &input, nil))
	assert.Equal(t, []string{"hard"}, n.ChildIds())
}

func TestStateMachineUnknownState(t *testing.T) {
	n := NewStateMachine(map[string]State{
		"start": {Node: action.NewLambda(func(ctx types.Context, input types.Signal) interface{} {
			return "nowhere"
		})},
	}, "start")
	err := test.Activate(n)
	assert.True(t, errors.Is(err, types.ErrUnknownState))

	missing := NewStateMachine(map[string]State{"start": {Node: action.NewBlock()}}, "other")
	err = test.Activate(missing)
	assert.True(t, errors.Is(err, types.ErrUnknownState))
	assert.Equal(t, types.Inactive, missing.State())
}

func TestStateMachineChangeState(t *testing.T) {
	menu := action.NewBlock()
	level := action.NewBlock()
	n := NewStateMachine(map[string]State{"menu": {Node: menu}, "level": {Node: level}}, "menu", "quit")
	assert.True(t, types.IsInvalidState(n.ChangeState(types.NewSignal("level"))))

	assert.Nil(t, test.Activate(n))
	assert.Nil(t, n.ChangeState(types.NewSignal("level")))
	assert.Equal(t, types.Inactive, menu.State())
	assert.Equal(t, types.Active, level.State())
	assert.Equal(t, []string{"level"}, n.ChildIds())

	err := n.ChangeState(types.NewSignal("nowhere"))
	assert.True(t, errors.Is(err, types.ErrUnknownState))

	assert.Nil(t, n.ChangeState(types.NewSignal("quit")))
	assert.Equal(t, types.Inactive, n.State())
	assert.Equal(t, types.Inactive, level.State())
}

func TestStateMachineMemento(t *testing.T) {
	activations := map[string]int{}
	newMachine := func() *StateMachine {
		states := map[string]State{}
		for name, d := range map[string]time.Duration{"menu": 10 * time.Millisecond, "level": 100 * time.Millisecond} {
			name, d := name, d
			states[name] = State{Node: types.NodeFactory(func(ctx types.Context, input types.Signal) types.Node {
				activations[name]++
				return action.NewWait(d)
			})}
		}
		n := NewStateMachine(states, "menu", "quit")
		n.SetTransition("menu", "level")
		n.SetTransition("level", "quit")
		return n
	}

	n := newMachine()
	assert.Nil(t, test.Activate(n))
	assert.Nil(t, n.Tick(test.Tick(10)))
	assert.Nil(t, n.Tick(test.Tick(40)))
	assert.Equal(t, "level", n.CurrentState().Name)

	m, err := n.MakeMemento()
	assert.Nil(t, err)
	assert.Equal(t, StateMachineMemento{Visited: []string{"menu", "level"}, State: types.NewSignal("level")}, m.Data)
	assert.Nil(t, n.Terminate(nil))

	data, err := types.EncodeMemento(m)
	assert.Nil(t, err)
	decoded, err := types.DecodeMemento(data)
	assert.Nil(t, err)

	activations = map[string]int{}
	restored := newMachine()
	assert.Nil(t, restored.Activate(types.TickInfo{}, types.EmptyContext(), nil, decoded))
	assert.Equal(t, []string{"menu", "level"}, restored.VisitedStates())
	assert.Equal(t, "level", restored.CurrentState().Name)
	assert.Equal(t, 40*time.Millisecond, restored.Current().(*action.Wait).Elapsed())
	assert.Equal(t, 0, activations["menu"])

	assert.Nil(t, restored.Tick(test.Tick(60)))
	assert.Equal(t, types.Inactive, restored.State())
	assert.Equal(t, []string{"menu", "level", "quit"}, restored.VisitedStates())

	// an empty memento starts from the starting state
	fresh := newMachine()
	empty := &types.Memento{Kind: "StateMachine"}
	assert.Nil(t, fresh.Activate(types.TickInfo{}, types.EmptyContext(), nil, empty))
	assert.Equal(t, []string{"menu"}, fresh.VisitedStates())
}
