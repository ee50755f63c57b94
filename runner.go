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
	"sync"
	"time"

	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/engine"
)

// ErrNotInitialized is returned when a runner has no tree.
var ErrNotInitialized = errors.New("runner not initialized")

// RunnerOption is a function type that modifies the Runner.
type RunnerOption func(*Runner) error

// Runner hosts one task tree: it builds the tree from its DSL, activates the root with
// a context carrying the config, and ticks it with the elapsed time supplied by the host.
//
// Runner 任务树运行器
type Runner struct {
	// Id 运行器ID，默认使用根节点定义的ID
	Id string
	// Config 配置
	Config types.Config

	mu     sync.Mutex
	def    types.NodeDef
	root   types.Node
	values map[string]interface{}
	clock  time.Time
	input  *types.Signal
}

func newRunner(id string, dsl []byte, opts ...RunnerOption) (*Runner, error) {
	if len(dsl) == 0 {
		return nil, types.ErrDslEmpty
	}
	r := &Runner{
		Id:     id,
		Config: NewConfig(),
	}
	if err := r.ReloadSelf(dsl, opts...); err != nil {
		return nil, err
	}
	if r.Id == "" {
		r.Id = r.def.Id
	}
	return r, nil
}

// ReloadSelf rebuilds the tree from dsl. A running tree is captured with MakeMemento,
// terminated and replaced by the new tree, which is activated with the same input and
// resumes from the memento where its structure matches.
func (r *Runner) ReloadSelf(dsl []byte, opts ...RunnerOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return err
		}
	}
	def, err := r.Config.Parser.DecodeNodeDef(dsl)
	if err != nil {
		return err
	}
	root, err := engine.NewBuilder(r.Config).Build(def)
	if err != nil {
		return err
	}

	var memento *types.Memento
	running := r.root != nil && r.root.State() != types.Inactive
	if running {
		if memento, err = r.root.MakeMemento(); err != nil {
			return err
		}
		if err := r.root.Terminate(nil); err != nil {
			r.Config.Logger.Printf("runner %s: terminate before reload error: %s", r.Id, err.Error())
		}
	}
	r.def = def
	r.root = root
	if running {
		return root.Activate(types.TickInfo{}, r.rootContext(), r.input, memento)
	}
	return nil
}

// Start activates the root with input, nil meaning the default signal.
func (r *Runner) Start(input *types.Signal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.root == nil {
		return ErrNotInitialized
	}
	r.input = input
	return r.root.Activate(types.TickInfo{}, r.rootContext(), input, nil)
}

// Restore activates the root from a memento taken by Snapshot.
func (r *Runner) Restore(input *types.Signal, memento *types.Memento) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.root == nil {
		return ErrNotInitialized
	}
	r.input = input
	return r.root.Activate(types.TickInfo{}, r.rootContext(), input, memento)
}

// Tick advances the tree by elapsed. elapsed is clamped to Config.MaxElapsed so a stalled
// host does not make timers jump.
func (r *Runner) Tick(elapsed time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.root == nil {
		return ErrNotInitialized
	}
	if max := r.Config.MaxElapsed(); max > 0 && elapsed > max {
		elapsed = max
	}
	if elapsed < 0 {
		elapsed = 0
	}
	return r.root.Tick(types.NewTickInfo(elapsed))
}

// Run starts the tree when it is not running and ticks it every interval with the measured
// elapsed time, until the tree terminates or ctx is done.
func (r *Runner) Run(ctx context.Context, interval time.Duration) error {
	if r.State() == types.Inactive {
		if err := r.Start(nil); err != nil {
			return err
		}
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	last := time.Now()
	for r.State() != types.Inactive {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			if err := r.Tick(elapsed); err != nil {
				return err
			}
		}
	}
	return nil
}

// Pause pauses the tree.
func (r *Runner) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.root == nil {
		return ErrNotInitialized
	}
	return r.root.Pause()
}

// Resume resumes the tree.
func (r *Runner) Resume() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.root == nil {
		return ErrNotInitialized
	}
	return r.root.Resume()
}

// Snapshot captures the structural state of the running tree.
func (r *Runner) Snapshot() (*types.Memento, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.root == nil {
		return nil, ErrNotInitialized
	}
	return r.root.MakeMemento()
}

// State returns the state of the root, Inactive when not initialized.
func (r *Runner) State() types.NodeState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.root == nil {
		return types.Inactive
	}
	return r.root.State()
}

// Output returns the termination signal of the root.
func (r *Runner) Output() *types.Signal {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.root == nil {
		return nil
	}
	return r.root.OutputSignal()
}

// Root returns the root node.
func (r *Runner) Root() types.Node {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.root
}

// DSL 获取根节点定义
func (r *Runner) DSL() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, err := r.Config.Parser.EncodeNodeDef(r.def)
	if err != nil {
		r.Config.Logger.Printf("runner %s: encode dsl error: %s", r.Id, err.Error())
		return nil
	}
	return v
}

// Initialized reports whether the runner holds a tree.
func (r *Runner) Initialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.root != nil
}

// Stop terminates the tree when it is running.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.root != nil && r.root.State() != types.Inactive {
		if err := r.root.Terminate(nil); err != nil {
			r.Config.Logger.Printf("runner %s: stop error: %s", r.Id, err.Error())
		}
	}
}

// rootContext holds the config properties, the runner values, the config and the clock.
func (r *Runner) rootContext() types.Context {
	values := make(map[string]interface{}, len(r.Config.Properties)+len(r.values)+2)
	for k, v := range r.Config.Properties {
		values[k] = v
	}
	for k, v := range r.values {
		values[k] = v
	}
	values[types.ContextKeyConfig] = &r.Config
	clock := r.clock
	if clock.IsZero() {
		clock = time.Now()
	}
	values[types.ContextKeyClock] = clock
	return types.NewContext(values)
}

// NewConfig creates a new Config and applies the options.
func NewConfig(opts ...types.Option) types.Config {
	c := types.NewConfig(opts...)
	if c.Parser == nil {
		c.Parser = &engine.JsonParser{}
	}
	if c.ComponentsRegistry == nil {
		c.ComponentsRegistry = Registry
	}
	return c
}

// WithConfig is an option that sets the Config of the Runner.
func WithConfig(config types.Config) RunnerOption {
	return func(r *Runner) error {
		if config.Parser == nil {
			config.Parser = &engine.JsonParser{}
		}
		if config.ComponentsRegistry == nil {
			config.ComponentsRegistry = Registry
		}
		r.Config = config
		return nil
	}
}

// WithParser sets the DSL parser of the Runner.
func WithParser(parser types.Parser) RunnerOption {
	return func(r *Runner) error {
		r.Config.Parser = parser
		return nil
	}
}

// WithContext adds values to the root context, e.g. the emitters waited on by the tree.
func WithContext(values map[string]interface{}) RunnerOption {
	return func(r *Runner) error {
		if r.values == nil {
			r.values = make(map[string]interface{}, len(values))
		}
		for k, v := range values {
			r.values[k] = v
		}
		return nil
	}
}

// WithClock sets the start time of the simulated clock used by cron waits, the wall clock by default.
func WithClock(clock time.Time) RunnerOption {
	return func(r *Runner) error {
		r.clock = clock
		return nil
	}
}
