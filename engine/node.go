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

package engine

import (
	"github.com/gofrs/uuid/v5"
	"github.com/rulego/tasktree/api/types"
)

// Hooks are the per-node extension points called by BaseNode.
// BaseNode provides no-op defaults, concrete nodes override what they need.
type Hooks interface {
	// OnActivate runs after the node became active.
	OnActivate() error
	// OnTick runs on every tick while active.
	OnTick() error
	// OnTerminate runs while the node terminates, before it becomes inactive.
	OnTerminate() error
	OnPause()
	OnResume()
	// MementoData returns the node specific memento payload.
	MementoData() interface{}
	// Children returns the live children, used to collect child mementos.
	Children() map[string]types.Node
}

// BaseNode implements the node lifecycle engine. Concrete nodes embed it and call
// InitNode(self, kind) from their constructor so that the lifecycle calls reach
// their hooks.
//
// BaseNode 节点生命周期引擎
type BaseNode struct {
	EventEmitter
	self      Hooks
	kind      string
	id        string
	debugMode bool

	state    types.NodeState
	ctx      types.Context
	tickInfo types.TickInfo
	input    *types.Signal
	output   *types.Signal
	memento  *types.Memento
	subs     subscriptions

	// activated is still to be emitted by the running Activate
	pendingActivated bool
}

// InitNode binds the hooks of the concrete node and its kind.
func (b *BaseNode) InitNode(self Hooks, kind string) {
	b.self = self
	b.kind = kind
	if b.id == "" {
		b.id = newInstanceId()
	}
}

func newInstanceId() string {
	uid, err := uuid.NewV4()
	if err != nil {
		return ""
	}
	return uid.String()
}

func (b *BaseNode) hooks() Hooks {
	if b.self == nil {
		b.InitNode(b, "Node")
	}
	return b.self
}

// Kind returns the concrete node type name.
func (b *BaseNode) Kind() string {
	b.hooks()
	return b.kind
}

// Id returns the instance id.
func (b *BaseNode) Id() string {
	b.hooks()
	return b.id
}

// SetDebugMode enables Config.OnDebug callbacks for this node.
func (b *BaseNode) SetDebugMode(debugMode bool) {
	b.debugMode = debugMode
}

// IsDebugMode reports whether OnDebug callbacks are enabled.
func (b *BaseNode) IsDebugMode() bool {
	return b.debugMode
}

func (b *BaseNode) State() types.NodeState {
	return b.state
}

func (b *BaseNode) OutputSignal() *types.Signal {
	return b.output
}

// InputSignal returns the signal given to the current activation, nil if none.
func (b *BaseNode) InputSignal() *types.Signal {
	return b.input
}

func (b *BaseNode) Context() types.Context {
	return b.ctx
}

func (b *BaseNode) TickInfo() types.TickInfo {
	return b.tickInfo
}

// Memento returns the memento adopted by the current activation, nil if none.
func (b *BaseNode) Memento() *types.Memento {
	return b.memento
}

// Config returns the tree config found in the node context.
func (b *BaseNode) Config() *types.Config {
	return types.ConfigFromContext(b.ctx)
}

// Logger returns the tree logger.
func (b *BaseNode) Logger() types.Logger {
	if l := b.Config().Logger; l != nil {
		return l
	}
	return types.NopLogger()
}

// Activate starts the node.
func (b *BaseNode) Activate(tickInfo types.TickInfo, ctx types.Context, input *types.Signal, memento *types.Memento) error {
	h := b.hooks()
	if b.state != types.Inactive {
		return b.fail("activate", types.ErrInvalidState, b.state)
	}
	b.ctx = ctx
	b.tickInfo = tickInfo
	b.input = input
	b.output = nil
	b.memento = nil
	if memento != nil {
		if memento.Kind == b.kind {
			b.memento = memento
		} else {
			b.Logger().Printf("%s(%s): ignoring memento of kind %s", b.kind, b.id, memento.Kind)
		}
	}
	b.state = types.Active
	b.notifyActivated()

	b.pendingActivated = true
	err := h.OnActivate()
	if err != nil {
		b.pendingActivated = false
		if b.state != types.Inactive {
			b.subs.revokeAll()
			b.state = types.Inactive
		}
		return b.fail("activate", err, nil)
	}
	b.emitActivated()
	return nil
}

// emitActivated emits EventActivated once per activation. A node terminating inside
// its activation hook emits it right before EventTerminated.
func (b *BaseNode) emitActivated() {
	if !b.pendingActivated {
		return
	}
	b.pendingActivated = false
	b.Emit(types.EventActivated, b.input)
}

// Tick advances the node. It does nothing while paused.
func (b *BaseNode) Tick(tickInfo types.TickInfo) error {
	h := b.hooks()
	if b.state == types.Paused {
		return nil
	}
	if b.state != types.Active {
		return b.fail("tick", types.ErrInvalidState, b.state)
	}
	b.tickInfo = tickInfo
	if err := h.OnTick(); err != nil {
		return b.fail("tick", err, nil)
	}
	return nil
}

// Terminate stops the node. A nil signal means the default signal.
func (b *BaseNode) Terminate(signal *types.Signal) error {
	return b.terminate(signal, nil)
}

// terminate stores the output signal, runs before (composites terminate their children there),
// then the termination hook, revokes subscriptions and emits EventTerminated.
func (b *BaseNode) terminate(signal *types.Signal, before func() error) error {
	h := b.hooks()
	if b.state != types.Active && b.state != types.Paused {
		return b.fail("terminate", types.ErrInvalidState, b.state)
	}
	out := types.DefaultSignal()
	if signal != nil {
		out, _ = types.MakeSignal(*signal)
	}
	b.output = &out

	var firstErr error
	if before != nil {
		firstErr = before()
	}
	if err := h.OnTerminate(); err != nil && firstErr == nil {
		firstErr = err
	}
	b.subs.revokeAll()
	b.state = types.Inactive
	b.memento = nil
	b.notifyTerminated(out)
	b.emitActivated()
	b.Emit(types.EventTerminated, out)
	if firstErr != nil {
		return b.fail("terminate", firstErr, nil)
	}
	return nil
}

// Pause suspends the node. Ticks are ignored until Resume.
func (b *BaseNode) Pause() error {
	h := b.hooks()
	if b.state != types.Active {
		return b.fail("pause", types.ErrInvalidState, b.state)
	}
	b.state = types.Paused
	h.OnPause()
	b.Emit(types.EventPaused)
	return nil
}

// Resume continues a paused node.
func (b *BaseNode) Resume() error {
	h := b.hooks()
	if b.state != types.Paused {
		return b.fail("resume", types.ErrInvalidState, b.state)
	}
	b.state = types.Active
	h.OnResume()
	b.Emit(types.EventResumed)
	return nil
}

// MakeMemento captures the node kind, its MementoData and the mementos of its live children.
func (b *BaseNode) MakeMemento() (*types.Memento, error) {
	h := b.hooks()
	if b.state != types.Active && b.state != types.Paused {
		return nil, b.fail("makeMemento", types.ErrInvalidState, b.state)
	}
	m := &types.Memento{Kind: b.kind, Data: h.MementoData()}
	for id, child := range h.Children() {
		if child.State() == types.Inactive {
			continue
		}
		cm, err := child.MakeMemento()
		if err != nil {
			return nil, err
		}
		if m.Children == nil {
			m.Children = make(map[string]*types.Memento)
		}
		m.Children[id] = cm
	}
	return m, nil
}

// Subscribe registers listener on an external emitter. The registration is revoked when the node terminates.
func (b *BaseNode) Subscribe(emitter interface{}, event string, listener types.Listener) error {
	return b.subscribe(emitter, event, listener, false)
}

// SubscribeOnce registers listener for a single delivery. It is still revoked on early termination.
func (b *BaseNode) SubscribeOnce(emitter interface{}, event string, listener types.Listener) error {
	return b.subscribe(emitter, event, listener, true)
}

// Unsubscribe revokes the registrations on emitter for event, or for every event when event is empty.
func (b *BaseNode) Unsubscribe(emitter interface{}, event string) int {
	return b.subs.revoke(emitter, event)
}

// UnsubscribeAll revokes every tracked registration.
func (b *BaseNode) UnsubscribeAll() {
	b.subs.revokeAll()
}

// SubscriptionCount returns the number of tracked registrations.
func (b *BaseNode) SubscriptionCount() int {
	return b.subs.len()
}

func (b *BaseNode) subscribe(emitter interface{}, event string, listener types.Listener, once bool) error {
	sub := &subscription{emitter: emitter, event: event}
	wrapped := listener
	if once {
		wrapped = func(args ...interface{}) {
			b.subs.forget(sub)
			listener(args...)
		}
	}
	unsubscribe, err := subscribe(b.Config(), emitter, event, wrapped, once)
	if err != nil {
		return b.fail("subscribe", err, event)
	}
	sub.unsubscribe = unsubscribe
	b.subs.add(sub)
	return nil
}

// default hooks

func (b *BaseNode) OnActivate() error {
	return nil
}

func (b *BaseNode) OnTick() error {
	return nil
}

func (b *BaseNode) OnTerminate() error {
	return nil
}

func (b *BaseNode) OnPause() {
}

func (b *BaseNode) OnResume() {
}

func (b *BaseNode) MementoData() interface{} {
	return nil
}

func (b *BaseNode) Children() map[string]types.Node {
	return map[string]types.Node{}
}

func (b *BaseNode) node() types.Node {
	if n, ok := b.self.(types.Node); ok {
		return n
	}
	return nil
}

func (b *BaseNode) notifyActivated() {
	config := b.Config()
	if b.debugMode && config.OnDebug != nil {
		in := types.DefaultSignal()
		if b.input != nil {
			in = *b.input
		}
		config.OnDebug(b.kind, types.In, b.id, in, nil)
	}
	n := b.node()
	if n == nil {
		return
	}
	for _, aspect := range config.Aspects.GetActivateAspects() {
		if aspect.PointCut(n) {
			aspect.Activated(n, b.input)
		}
	}
}

func (b *BaseNode) notifyTerminated(out types.Signal) {
	config := b.Config()
	if b.debugMode && config.OnDebug != nil {
		config.OnDebug(b.kind, types.Out, b.id, out, nil)
	}
	n := b.node()
	if n == nil {
		return
	}
	for _, aspect := range config.Aspects.GetTerminateAspects() {
		if aspect.PointCut(n) {
			aspect.Terminated(n, out)
		}
	}
}

// fail wraps err with the node kind and operation and reports it to the error aspects.
// Errors that already carry node information are passed through unchanged.
func (b *BaseNode) fail(op string, err error, detail interface{}) error {
	if _, ok := err.(*types.Error); ok {
		return err
	}
	var e *types.Error
	if detail != nil {
		e = types.NewErrorf(b.kind, op, err, "%v", detail)
	} else {
		e = types.NewError(b.kind, op, err)
	}
	config := b.Config()
	if b.debugMode && config.OnDebug != nil {
		config.OnDebug(b.kind, types.Out, b.id, types.DefaultSignal(), e)
	}
	if n := b.node(); n != nil {
		for _, aspect := range config.Aspects.GetErrorAspects() {
			if aspect.PointCut(n) {
				aspect.Failed(n, op, e)
			}
		}
	}
	return e
}
