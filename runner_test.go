/*
 * Copyright 2023 The RuleGo Authors.
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

package tasktree

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/components/flow"
	"github.com/rulego/tasktree/test"
	"github.com/rulego/tasktree/test/assert"
)

var waitTree = `
{
  "id": "waits",
  "type": "sequence",
  "children": [
    {"id": "a", "type": "wait", "configuration": {"duration": 150}},
    {"id": "b", "type": "wait", "configuration": {"duration": "${global.second}"}},
    {"id": "c", "type": "lambda", "configuration": {"signal": "done"}}
  ]
}
`

var reloadedTree = `
{
  "id": "waits",
  "type": "sequence",
  "children": [
    {"id": "a", "type": "wait", "configuration": {"duration": 150}},
    {"id": "b", "type": "wait", "configuration": {"duration": 50}},
    {"id": "c", "type": "lambda", "configuration": {"signal": "reloaded"}}
  ]
}
`

func newWaitRunner(t *testing.T) *Runner {
	config := NewConfig(types.WithProperties(map[string]interface{}{"second": 100}))
	runner, err := newRunner("", []byte(waitTree), WithConfig(config))
	assert.Nil(t, err)
	return runner
}

func TestRunner(t *testing.T) {
	runner := newWaitRunner(t)
	assert.Equal(t, "waits", runner.Id)
	assert.True(t, runner.Initialized())
	assert.Equal(t, types.Inactive, runner.State())
	assert.Nil(t, runner.Output())

	assert.Nil(t, runner.Start(nil))
	assert.Equal(t, types.Active, runner.State())

	// a stalled host is clamped to 1/MinFrameRate
	assert.Nil(t, runner.Tick(time.Second))
	assert.Equal(t, 0, runner.Root().(*flow.Sequence).Index())
	assert.Nil(t, runner.Tick(50*time.Millisecond))
	assert.Equal(t, 1, runner.Root().(*flow.Sequence).Index())

	assert.Nil(t, runner.Tick(100*time.Millisecond))
	assert.Equal(t, types.Inactive, runner.State())
	assert.Equal(t, "done", runner.Output().Name)

	err := runner.Tick(time.Millisecond)
	assert.True(t, types.IsInvalidState(err))
}

func TestRunnerReload(t *testing.T) {
	runner := newWaitRunner(t)
	assert.Nil(t, runner.Start(nil))
	assert.Nil(t, runner.Tick(100*time.Millisecond))
	assert.Nil(t, runner.Tick(50*time.Millisecond))
	assert.Nil(t, runner.Tick(30*time.Millisecond))

	before, err := runner.Snapshot()
	assert.Nil(t, err)
	old := runner.Root()

	assert.Nil(t, runner.ReloadSelf([]byte(reloadedTree)))
	assert.Equal(t, types.Inactive, old.State())
	assert.Equal(t, types.Active, runner.State())

	after, err := runner.Snapshot()
	assert.Nil(t, err)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("snapshot after reload mismatch (-want +got):\n%s", diff)
	}

	assert.Nil(t, runner.Tick(20*time.Millisecond))
	assert.Equal(t, types.Inactive, runner.State())
	assert.Equal(t, "reloaded", runner.Output().Name)
}

func TestRunnerReloadInactive(t *testing.T) {
	runner := newWaitRunner(t)
	assert.Nil(t, runner.ReloadSelf([]byte(reloadedTree)))
	assert.Equal(t, types.Inactive, runner.State())
	assert.True(t, len(runner.DSL()) > 0)

	err := runner.ReloadSelf([]byte(`{"id": "broken", "type": "missing"}`))
	assert.True(t, errors.Is(err, types.ErrComponentNotFound))
	// the previous tree is kept
	assert.True(t, runner.Initialized())
}

func TestRunnerRestore(t *testing.T) {
	runner := newWaitRunner(t)
	assert.Nil(t, runner.Start(nil))
	assert.Nil(t, runner.Tick(100*time.Millisecond))
	assert.Nil(t, runner.Tick(60*time.Millisecond))
	snapshot, err := runner.Snapshot()
	assert.Nil(t, err)
	data, err := types.EncodeMemento(snapshot)
	assert.Nil(t, err)
	runner.Stop()
	assert.Equal(t, types.Inactive, runner.State())

	decoded, err := types.DecodeMemento(data)
	assert.Nil(t, err)
	assert.Nil(t, runner.Restore(nil, decoded))
	assert.Equal(t, 1, runner.Root().(*flow.Sequence).Index())
	assert.Nil(t, runner.Tick(100*time.Millisecond))
	assert.Equal(t, "done", runner.Output().Name)
}

func TestRunnerPauseResume(t *testing.T) {
	runner := newWaitRunner(t)
	assert.Nil(t, runner.Start(nil))
	assert.Nil(t, runner.Pause())
	assert.Equal(t, types.Paused, runner.State())
	assert.Nil(t, runner.Tick(100*time.Millisecond))
	assert.Nil(t, runner.Resume())
	assert.Nil(t, runner.Tick(100*time.Millisecond))
	snapshot, err := runner.Snapshot()
	assert.Nil(t, err)
	assert.Equal(t, 0, snapshot.Data)
}

func TestRunnerWithContext(t *testing.T) {
	keyboard := &test.ManualEmitter{}
	dsl := `{"id": "press", "type": "waitForEvent", "configuration": {"emitter": "keyboard", "event": "keydown"}}`
	runner, err := newRunner("", []byte(dsl), WithContext(map[string]interface{}{"keyboard": keyboard}))
	assert.Nil(t, err)
	assert.Nil(t, runner.Start(types.SignalPtr(types.NewSignal("go"))))
	assert.Equal(t, 1, keyboard.ListenerCount("keydown"))

	keyboard.Emit("keydown", "space")
	assert.Equal(t, types.Inactive, runner.State())
	assert.Equal(t, 0, keyboard.ListenerCount("keydown"))
}

func TestRunnerClock(t *testing.T) {
	dsl := `{"id": "midnight", "type": "cronWait", "configuration": {"cron": "1 0 * * *", "signal": "late"}}`
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	runner, err := newRunner("", []byte(dsl),
		WithConfig(NewConfig(types.WithMinFrameRate(0))),
		WithClock(start),
	)
	assert.Nil(t, err)
	assert.Nil(t, runner.Start(nil))
	assert.Nil(t, runner.Tick(30*time.Second))
	assert.Equal(t, types.Active, runner.State())
	assert.Nil(t, runner.Tick(30*time.Second))
	assert.Equal(t, "late", runner.Output().Name)
}

func TestRunnerRun(t *testing.T) {
	dsl := `{"id": "short", "type": "wait", "configuration": {"duration": 20}}`
	runner, err := newRunner("", []byte(dsl))
	assert.Nil(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.Nil(t, runner.Run(ctx, 5*time.Millisecond))
	assert.Equal(t, types.Inactive, runner.State())

	blocked, err := newRunner("", []byte(`{"id": "forever", "type": "block"}`))
	assert.Nil(t, err)
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err = blocked.Run(ctx, 5*time.Millisecond)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, types.Active, blocked.State())
	blocked.Stop()
	assert.Equal(t, types.Inactive, blocked.State())
}

func TestRunnerErrors(t *testing.T) {
	_, err := newRunner("", nil)
	assert.True(t, errors.Is(err, types.ErrDslEmpty))

	_, err = newRunner("", []byte(`{"id": "x", "type": "missing"}`))
	assert.True(t, errors.Is(err, types.ErrComponentNotFound))

	_, err = newRunner("", []byte(`{not json`))
	assert.NotNil(t, err)

	var empty Runner
	assert.True(t, errors.Is(empty.Start(nil), ErrNotInitialized))
	assert.True(t, errors.Is(empty.Tick(time.Millisecond), ErrNotInitialized))
	_, err = empty.Snapshot()
	assert.True(t, errors.Is(err, ErrNotInitialized))
}
