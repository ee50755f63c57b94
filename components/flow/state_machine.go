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
//        "id": "game",
//        "type": "stateMachine",
//        "configuration": {
//          "startingState": "menu",
//          "endingStates": ["quit"],
//          "transitions": {"credits": "menu"},
//          "transitionExprs": {"level": "signal.name == 'won' ? 'credits' : 'menu'"}
//        },
//        "children": [
//          {"id": "menu", "type": "waitForEvent", "configuration": {"emitter": "keyboard", "event": "keydown"}},
//          {"id": "level", "type": "..."},
//          {"id": "credits", "type": "wait", "configuration": {"duration": "3s"}}
//        ]
//  }
import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/components/base"
	"github.com/rulego/tasktree/engine"
	"github.com/rulego/tasktree/utils/maps"
)

func init() {
	Registry.Add(&StateMachine{})
}

// StateMachineConfiguration 节点配置
type StateMachineConfiguration struct {
	// StartingState is the name of the first state
	StartingState string
	// EndingStates terminate the machine when reached
	EndingStates []string
	// Transitions maps a state to the literal name of the state following it
	Transitions map[string]string
	// TransitionExprs maps a state to an expr expression computing the next state.
	// Variables: signal {name, params}, ctx, global. The result is a state name or {name, params}.
	TransitionExprs map[string]string
}

// State is a named state of a StateMachine.
type State struct {
	// Node is a types.Node or a types.NodeFactory
	Node types.Resolvable
	// Context is merged into the context of the state node
	Context types.ContextResolvable
}

// TransitionFunc computes the next state signal from the termination signal of the previous state.
type TransitionFunc func(ctx types.Context, signal types.Signal) types.Signal

// StartingStateFunc computes the first state signal from the context and input signal.
type StartingStateFunc func(ctx types.Context, input types.Signal) types.Signal

// StateMachineMemento is the memento payload of a StateMachine.
type StateMachineMemento struct {
	Visited []string     `json:"visited"`
	State   types.Signal `json:"state"`
}

// StateMachine runs one state node at a time. When it terminates, the next state is found by
// looking up the transition of the state that just ended: a literal signal, a TransitionFunc or,
// without entry, the termination signal itself. Reaching an ending state terminates the machine
// with the signal that led there.
type StateMachine struct {
	engine.Composite
	Config StateMachineConfiguration

	states        map[string]State
	transitions   map[string]interface{}
	endingStates  map[string]bool
	startingState interface{}

	visited       []string
	currentSignal *types.Signal
	current       types.Node
}

// NewStateMachine creates a state machine. startingState is a state name, a types.Signal
// or a StartingStateFunc.
func NewStateMachine(states map[string]State, startingState interface{}, endingStates ...string) *StateMachine {
	n := newStateMachine()
	for name, s := range states {
		n.states[name] = s
	}
	n.startingState = startingState
	for _, name := range endingStates {
		n.endingStates[name] = true
	}
	return n
}

func newStateMachine() *StateMachine {
	n := &StateMachine{
		states:       make(map[string]State),
		transitions:  make(map[string]interface{}),
		endingStates: make(map[string]bool),
	}
	n.InitComposite(n, "StateMachine")
	return n
}

// Type 组件类型
func (n *StateMachine) Type() string {
	return "stateMachine"
}

func (n *StateMachine) New() types.Component {
	return newStateMachine()
}

// Init 初始化
func (n *StateMachine) Init(config types.Config, def types.NodeDef, builder types.Builder) error {
	if err := maps.Map2Struct(def.Configuration, &n.Config); err != nil {
		return err
	}
	entries, err := entriesFromDefs(builder, def.Children)
	if err != nil {
		return err
	}
	for _, e := range entries {
		n.states[e.Id] = State{Node: e.Node}
	}
	for _, name := range n.Config.EndingStates {
		n.endingStates[name] = true
	}
	for from, to := range n.Config.Transitions {
		n.transitions[from] = to
	}
	for from, expression := range n.Config.TransitionExprs {
		program, err := expr.Compile(expression, expr.AllowUndefinedVariables())
		if err != nil {
			return err
		}
		n.transitions[from] = exprTransition(program)
	}
	if n.Config.StartingState != "" {
		n.startingState = n.Config.StartingState
	} else if len(def.Children) > 0 {
		n.startingState = def.Children[0].Id
	}
	return nil
}

func exprTransition(program *vm.Program) TransitionFunc {
	return func(ctx types.Context, signal types.Signal) types.Signal {
		params := map[string]interface{}{}
		for k, v := range signal.Params {
			params[k] = v
		}
		env := map[string]interface{}{
			"signal":       map[string]interface{}{"name": signal.Name, "params": params},
			base.CtxKey:    ctx.Values(),
			base.GlobalKey: types.ConfigFromContext(ctx).Properties,
		}
		out, err := vm.Run(program, env)
		if err != nil {
			types.ConfigFromContext(ctx).Logger.Printf("transition from %s error: %s", signal.Name, err.Error())
			return types.Signal{}
		}
		if next, ok := base.TerminationSignal(out); ok {
			return next
		}
		return types.Signal{}
	}
}

// SetTransition sets the transition taken when state from terminates.
// to is a state name, a types.Signal or a TransitionFunc.
func (n *StateMachine) SetTransition(from string, to interface{}) *StateMachine {
	n.transitions[from] = to
	return n
}

// VisitedStates returns the names of the states entered so far, in order, including repeats.
func (n *StateMachine) VisitedStates() []string {
	return append([]string(nil), n.visited...)
}

// CurrentState returns the signal that entered the current state, nil before the first one.
func (n *StateMachine) CurrentState() *types.Signal {
	return n.currentSignal
}

// Current returns the node of the current state.
func (n *StateMachine) Current() types.Node {
	return n.current
}

func (n *StateMachine) OnActivate() error {
	n.visited = nil
	n.currentSignal = nil
	n.current = nil

	input := types.DefaultSignal()
	if in := n.InputSignal(); in != nil {
		input = *in
	}
	if m := n.Memento(); m != nil {
		data, ok := m.Data.(StateMachineMemento)
		if !ok {
			_ = maps.Map2Struct(m.Data, &data)
		}
		if data.State.Name != "" {
			n.visited = data.Visited
			// re-enter the last state without recording it twice
			return n.enter(data.State, false)
		}
	}
	start, err := n.resolveStart(input)
	if err != nil {
		return err
	}
	return n.enter(start, true)
}

func (n *StateMachine) OnAfterTick() error {
	// an ending state entered during activation was deferred, finish now
	if n.State() == types.Active && n.current == nil && n.currentSignal != nil && n.endingStates[n.currentSignal.Name] {
		return n.Terminate(n.currentSignal)
	}
	// states finishing on activation chain within one call, bounded by the number of states
	for i := 0; i <= len(n.states); i++ {
		if n.State() != types.Active || n.current == nil || n.current.State() != types.Inactive {
			return nil
		}
		prev := ""
		if n.currentSignal != nil {
			prev = n.currentSignal.Name
		}
		output := types.DefaultSignal()
		if out := n.current.OutputSignal(); out != nil {
			output = *out
		}
		next, err := n.route(prev, output)
		if err != nil {
			return err
		}
		if err := n.enter(next, true); err != nil {
			return err
		}
	}
	return nil
}

func (n *StateMachine) MementoData() interface{} {
	data := StateMachineMemento{Visited: n.VisitedStates()}
	if n.currentSignal != nil {
		data.State = *n.currentSignal
	}
	return data
}

// ChangeState leaves the current state without routing and enters the state named by signal.
func (n *StateMachine) ChangeState(signal types.Signal) error {
	if n.State() != types.Active {
		return types.NewErrorf(n.Kind(), "changeState", types.ErrInvalidState, "%v", n.State())
	}
	if !n.isState(signal.Name) && !n.endingStates[signal.Name] {
		return types.NewErrorf(n.Kind(), "changeState", types.ErrUnknownState, "%s", signal.Name)
	}
	return n.enter(signal, true)
}

// route finds the state following prev, which terminated with output.
// The lookup is keyed by the state that ended, not by the signal it ended with.
func (n *StateMachine) route(prev string, output types.Signal) (types.Signal, error) {
	next := output
	if t, ok := n.transitions[prev]; ok {
		switch to := t.(type) {
		case TransitionFunc:
			next = to(n.Context(), output)
		case func(types.Context, types.Signal) types.Signal:
			next = to(n.Context(), output)
		default:
			s, ok := types.MakeSignal(to)
			if !ok {
				return types.Signal{}, types.NewErrorf(n.Kind(), "route", types.ErrUnknownState, "transition of %s is %T", prev, t)
			}
			next = s
		}
	}
	if !n.isState(next.Name) && !n.endingStates[next.Name] {
		return types.Signal{}, types.NewErrorf(n.Kind(), "route", types.ErrUnknownState, "%s -> %s", prev, next.Name)
	}
	return next, nil
}

func (n *StateMachine) resolveStart(input types.Signal) (types.Signal, error) {
	var start types.Signal
	switch s := n.startingState.(type) {
	case StartingStateFunc:
		start = s(n.Context(), input)
	case func(types.Context, types.Signal) types.Signal:
		start = s(n.Context(), input)
	default:
		sig, ok := types.MakeSignal(s)
		if !ok {
			return types.Signal{}, types.NewErrorf(n.Kind(), "activate", types.ErrUnknownState, "starting state %T", s)
		}
		start = sig
	}
	if !n.isState(start.Name) && !n.endingStates[start.Name] {
		return types.Signal{}, types.NewErrorf(n.Kind(), "activate", types.ErrUnknownState, "%s", start.Name)
	}
	return start, nil
}

// enter leaves the current state and enters the one named by signal. An ending state
// terminates the machine with signal.
func (n *StateMachine) enter(signal types.Signal, record bool) error {
	previous := n.currentSignal
	if n.current != nil {
		if child, ok := n.Child(n.currentSignal.Name); ok && child == n.current {
			if err := n.TerminateChild(child, nil); err != nil {
				return err
			}
		}
		n.current = nil
	}
	if record {
		n.visited = append(n.visited, signal.Name)
	}
	n.currentSignal = &signal
	n.Emit(types.EventStateChange, previous, signal)

	if n.endingStates[signal.Name] {
		return n.Terminate(&signal)
	}
	state := n.states[signal.Name]
	node, err := n.ActivateChild(state.Node, engine.ChildOptions{
		Id:          signal.Name,
		Context:     state.Context,
		InputSignal: &signal,
	})
	if err != nil {
		return err
	}
	n.current = node
	return nil
}

func (n *StateMachine) isState(name string) bool {
	_, ok := n.states[name]
	return ok
}
