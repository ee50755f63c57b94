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
	"errors"
	"testing"

	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/test"
	"github.com/rulego/tasktree/test/assert"
)

// probeNode finishes after ticksToFinish ticks, or on activation when it is zero.
type probeNode struct {
	BaseNode
	ticksToFinish int
	finishWith    string
	ticks         int
	activations   int
	terminations  int
	paused        int
	resumed       int
	restored      interface{}
}

func newProbe(ticksToFinish int) *probeNode {
	n := &probeNode{ticksToFinish: ticksToFinish, finishWith: "done"}
	n.InitNode(n, "Probe")
	return n
}

func (n *probeNode) OnActivate() error {
	n.activations++
	n.ticks = 0
	n.restored = nil
	if m := n.Memento(); m != nil {
		n.restored = m.Data
		if ticks, ok := m.Data.(int); ok {
			n.ticks = ticks
		}
	}
	if n.ticksToFinish == 0 {
		return n.Terminate(types.SignalPtr(types.NewSignal(n.finishWith)))
	}
	return nil
}

func (n *probeNode) OnTick() error {
	n.ticks++
	if n.ticksToFinish > 0 && n.ticks >= n.ticksToFinish {
		return n.Terminate(types.SignalPtr(types.NewSignal(n.finishWith)))
	}
	return nil
}

func (n *probeNode) OnTerminate() error {
	n.terminations++
	return nil
}

func (n *probeNode) OnPause() {
	n.paused++
}

func (n *probeNode) OnResume() {
	n.resumed++
}

func (n *probeNode) MementoData() interface{} {
	return n.ticks
}

type otherProbe struct {
	probeNode
}

func newOtherProbe() *otherProbe {
	n := &otherProbe{probeNode{ticksToFinish: -1, finishWith: "done"}}
	n.InitNode(n, "OtherProbe")
	return n
}

func TestLifecycleReactivate(t *testing.T) {
	n := newProbe(-1)
	assert.Equal(t, types.Inactive, n.State())
	assert.Nil(t, n.OutputSignal())
	assert.NotEqual(t, "", n.Id())

	ctx := types.NewContext(map[string]interface{}{"scene": "intro"})
	assert.Nil(t, n.Activate(test.Tick(0), ctx, types.SignalPtr(types.NewSignal("go")), nil))
	assert.Equal(t, types.Active, n.State())
	assert.Equal(t, "go", n.InputSignal().Name)
	assert.Equal(t, "intro", n.Context().GetValue("scene"))

	assert.Nil(t, n.Terminate(types.SignalPtr(types.NewSignal("bye"))))
	assert.Equal(t, types.Inactive, n.State())
	assert.Equal(t, "bye", n.OutputSignal().Name)

	// a second activation starts without output signal and with the fresh context
	var outputAtActivation *types.Signal
	n.On(types.EventActivated, func(args ...interface{}) {
		outputAtActivation = n.OutputSignal()
	})
	ctx2 := types.NewContext(map[string]interface{}{"scene": "outro"})
	assert.Nil(t, n.Activate(test.Tick(0), ctx2, nil, nil))
	assert.Nil(t, outputAtActivation)
	assert.Nil(t, n.OutputSignal())
	assert.Equal(t, "outro", n.Context().GetValue("scene"))
	assert.Equal(t, 2, n.activations)

	assert.Nil(t, n.Terminate(nil))
	assert.Equal(t, types.DefaultSignalName, n.OutputSignal().Name)
	assert.Equal(t, 2, n.terminations)
}

func TestLifecycleInvalidState(t *testing.T) {
	n := newProbe(-1)
	err := n.Tick(test.Tick(10))
	assert.True(t, errors.Is(err, types.ErrInvalidState))
	assert.True(t, types.IsInvalidState(err))
	assert.True(t, errors.Is(n.Terminate(nil), types.ErrInvalidState))
	assert.True(t, errors.Is(n.Pause(), types.ErrInvalidState))
	assert.True(t, errors.Is(n.Resume(), types.ErrInvalidState))
	_, err = n.MakeMemento()
	assert.True(t, errors.Is(err, types.ErrInvalidState))

	assert.Nil(t, test.Activate(n))
	assert.True(t, errors.Is(test.Activate(n), types.ErrInvalidState))
	assert.True(t, errors.Is(n.Resume(), types.ErrInvalidState))
	assert.Nil(t, n.Terminate(nil))

	err = n.Tick(test.Tick(10))
	assert.True(t, errors.Is(err, types.ErrInvalidState))
	var nodeErr *types.Error
	assert.True(t, errors.As(err, &nodeErr))
	assert.Equal(t, "Probe", nodeErr.Node)
	assert.Equal(t, "tick", nodeErr.Op)
}

func TestLifecyclePauseResume(t *testing.T) {
	n := newProbe(2)
	rec := new(test.Recorder).Listen(n, types.EventPaused, types.EventResumed, types.EventTerminated)
	assert.Nil(t, test.Activate(n))
	assert.Nil(t, n.Pause())
	assert.Equal(t, types.Paused, n.State())
	for i := 0; i < 5; i++ {
		assert.Nil(t, n.Tick(test.Tick(16)))
	}
	assert.Equal(t, 0, n.ticks)
	assert.Nil(t, n.Resume())
	assert.Nil(t, n.Tick(test.Tick(16)))
	assert.Nil(t, n.Tick(test.Tick(16)))
	assert.Equal(t, types.Inactive, n.State())
	assert.Equal(t, "done", n.OutputSignal().Name)
	assert.Equal(t, []string{types.EventPaused, types.EventResumed, types.EventTerminated}, rec.Names())
	assert.Equal(t, 1, n.paused)
	assert.Equal(t, 1, n.resumed)
}

func TestLifecycleTerminateWhilePaused(t *testing.T) {
	n := newProbe(-1)
	assert.Nil(t, test.Activate(n))
	assert.Nil(t, n.Pause())
	assert.Nil(t, n.Terminate(nil))
	assert.Equal(t, types.Inactive, n.State())
}

func TestLifecycleImmediateTermination(t *testing.T) {
	n := newProbe(0)
	n.finishWith = "instant"
	assert.Nil(t, test.Activate(n))
	assert.Equal(t, types.Inactive, n.State())
	assert.Equal(t, "instant", n.OutputSignal().Name)
}

func TestLifecycleImmediateTerminationEventOrder(t *testing.T) {
	n := newProbe(0)
	recorder := new(test.Recorder).Listen(n, types.EventActivated, types.EventTerminated)
	assert.Nil(t, test.Activate(n))
	assert.Equal(t, []string{types.EventActivated, types.EventTerminated}, recorder.Names())

	n.ticksToFinish = 1
	assert.Nil(t, test.Activate(n))
	assert.Nil(t, n.Tick(test.Tick(10)))
	assert.Equal(t, []string{
		types.EventActivated, types.EventTerminated,
		types.EventActivated, types.EventTerminated,
	}, recorder.Names())
	assert.Equal(t, 1, n.ListenerCount(types.EventActivated))
}

func TestMemento(t *testing.T) {
	n := newProbe(-1)
	assert.Nil(t, test.Activate(n))
	for i := 0; i < 3; i++ {
		assert.Nil(t, n.Tick(test.Tick(16)))
	}
	m, err := n.MakeMemento()
	assert.Nil(t, err)
	assert.Equal(t, "Probe", m.Kind)
	assert.Equal(t, 3, m.Data)
	assert.Nil(t, n.Terminate(nil))

	assert.Nil(t, n.Activate(test.Tick(0), types.EmptyContext(), nil, m))
	assert.Equal(t, 3, n.restored)
	assert.Equal(t, 3, n.ticks)
	assert.Nil(t, n.Terminate(nil))
}

func TestMementoKindMismatch(t *testing.T) {
	var logs []string
	config := types.NewConfig(types.WithLogger(types.LoggerFunc(func(format string, v ...interface{}) {
		logs = append(logs, format)
	})))
	ctx := types.NewContext(map[string]interface{}{types.ContextKeyConfig: &config})

	n := newOtherProbe()
	memento := &types.Memento{Kind: "Probe", Data: 7}
	assert.Nil(t, n.Activate(test.Tick(0), ctx, nil, memento))
	assert.Nil(t, n.restored)
	assert.Nil(t, n.Memento())
	assert.Equal(t, 0, n.ticks)
	assert.Equal(t, 1, len(logs))
}

func TestSubscriptions(t *testing.T) {
	t.Run("listenerEmitter", func(t *testing.T) {
		emitter := &test.ManualEmitter{}
		n := newProbe(-1)
		assert.Nil(t, test.Activate(n))
		var got []interface{}
		assert.Nil(t, n.Subscribe(emitter, "ping", func(args ...interface{}) {
			got = append(got, args...)
		}))
		emitter.Emit("ping", 1)
		emitter.Emit("ping", 2)
		assert.Equal(t, []interface{}{1, 2}, got)
		assert.Equal(t, 1, emitter.ListenerCount("ping"))
		assert.Nil(t, n.Terminate(nil))
		assert.Equal(t, 0, emitter.ListenerCount("ping"))
		assert.Equal(t, 0, n.SubscriptionCount())
	})
	t.Run("targetEmitterOnce", func(t *testing.T) {
		emitter := &test.TargetEmitter{}
		n := newProbe(-1)
		assert.Nil(t, test.Activate(n))
		count := 0
		assert.Nil(t, n.SubscribeOnce(emitter, "click", func(args ...interface{}) {
			count++
		}))
		assert.Equal(t, 1, n.SubscriptionCount())
		emitter.Dispatch("click")
		emitter.Dispatch("click")
		assert.Equal(t, 1, count)
		assert.Equal(t, 0, n.SubscriptionCount())
		assert.Equal(t, 0, emitter.ListenerCount("click"))
		assert.Nil(t, n.Terminate(nil))
	})
	t.Run("onceRevokedEarly", func(t *testing.T) {
		emitter := &test.ManualEmitter{}
		n := newProbe(-1)
		assert.Nil(t, test.Activate(n))
		assert.Nil(t, n.SubscribeOnce(emitter, "click", func(args ...interface{}) {}))
		assert.Equal(t, 1, emitter.ListenerCount("click"))
		assert.Nil(t, n.Terminate(nil))
		assert.Equal(t, 0, emitter.ListenerCount("click"))
	})
	t.Run("selective", func(t *testing.T) {
		emitter := &test.ManualEmitter{}
		n := newProbe(-1)
		assert.Nil(t, test.Activate(n))
		assert.Nil(t, n.Subscribe(emitter, "a", func(args ...interface{}) {}))
		assert.Nil(t, n.Subscribe(emitter, "b", func(args ...interface{}) {}))
		assert.Equal(t, 1, n.Unsubscribe(emitter, "a"))
		assert.Equal(t, 0, emitter.ListenerCount("a"))
		assert.Equal(t, 1, emitter.ListenerCount("b"))
		assert.Equal(t, 1, n.Unsubscribe(emitter, ""))
		assert.Equal(t, 0, emitter.ListenerCount("b"))
		assert.Nil(t, n.Terminate(nil))
	})
	t.Run("unsupported", func(t *testing.T) {
		n := newProbe(-1)
		assert.Nil(t, test.Activate(n))
		err := n.Subscribe(struct{}{}, "a", func(args ...interface{}) {})
		assert.True(t, errors.Is(err, types.ErrUnsupportedEmitter))
		assert.Nil(t, n.Terminate(nil))
	})
	t.Run("adapter", func(t *testing.T) {
		adapter := &chanAdapter{}
		config := types.NewConfig(types.WithEmitterAdapter(adapter))
		ctx := types.NewContext(map[string]interface{}{types.ContextKeyConfig: &config})
		n := newProbe(-1)
		assert.Nil(t, n.Activate(test.Tick(0), ctx, nil, nil))
		source := &adapterSource{}
		assert.Nil(t, n.Subscribe(source, "tick", func(args ...interface{}) {}))
		assert.Equal(t, 1, adapter.active)
		assert.Nil(t, n.Terminate(nil))
		assert.Equal(t, 0, adapter.active)
	})
}

type adapterSource struct {
	name string
}

type chanAdapter struct {
	active int
}

func (a *chanAdapter) Supports(emitter interface{}) bool {
	_, ok := emitter.(*adapterSource)
	return ok
}

func (a *chanAdapter) Subscribe(emitter interface{}, event string, listener types.Listener, once bool) func() {
	a.active++
	return func() { a.active-- }
}

type recordingAspect struct {
	activated  []string
	terminated []string
	failed     []string
}

func (a *recordingAspect) Order() int {
	return 10
}

func (a *recordingAspect) PointCut(node types.Node) bool {
	return node.Kind() == "Probe"
}

func (a *recordingAspect) Activated(node types.Node, input *types.Signal) {
	a.activated = append(a.activated, node.Kind())
}

func (a *recordingAspect) Terminated(node types.Node, output types.Signal) {
	a.terminated = append(a.terminated, output.Name)
}

func (a *recordingAspect) Failed(node types.Node, op string, err error) {
	a.failed = append(a.failed, op)
}

func TestAspectsAndDebug(t *testing.T) {
	aspect := &recordingAspect{}
	var flows []string
	config := types.NewConfig(
		types.WithAspects(aspect),
		types.WithOnDebug(func(nodeKind string, flowType string, nodeId string, signal types.Signal, err error) {
			flows = append(flows, flowType+":"+signal.Name)
		}),
	)
	ctx := types.NewContext(map[string]interface{}{types.ContextKeyConfig: &config})

	n := newProbe(1)
	n.SetDebugMode(true)
	assert.True(t, n.IsDebugMode())
	assert.Nil(t, n.Activate(test.Tick(0), ctx, types.SignalPtr(types.NewSignal("go")), nil))
	assert.Nil(t, n.Tick(test.Tick(16)))
	assert.NotNil(t, n.Tick(test.Tick(16)))

	other := newOtherProbe()
	assert.Nil(t, other.Activate(test.Tick(0), ctx, nil, nil))
	assert.Nil(t, other.Terminate(nil))

	assert.Equal(t, []string{"Probe"}, aspect.activated)
	assert.Equal(t, []string{"done"}, aspect.terminated)
	assert.Equal(t, []string{"tick"}, aspect.failed)
	assert.Equal(t, []string{types.In + ":go", types.Out + ":done", types.Out + ":default"}, flows)
}
