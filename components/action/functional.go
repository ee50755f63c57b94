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

package action

import (
	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/components/base"
	"github.com/rulego/tasktree/engine"
)

// Callbacks are the inline hooks of a Functional node. Every field is optional.
type Callbacks struct {
	Activate  func(n *Functional) error
	Tick      func(n *Functional) error
	Pause     func(n *Functional)
	Resume    func(n *Functional)
	Terminate func(n *Functional) error
	// ShouldTerminate is checked after activation and after every tick.
	// See base.TerminationSignal for how its result is read.
	ShouldTerminate func(n *Functional) interface{}
}

// Functional is a leaf whose behaviour is given by callbacks.
type Functional struct {
	engine.BaseNode
	callbacks Callbacks
}

// NewFunctional creates a node running callbacks.
func NewFunctional(callbacks Callbacks) *Functional {
	n := &Functional{callbacks: callbacks}
	n.InitNode(n, "Functional")
	return n
}

func (n *Functional) OnActivate() error {
	if n.callbacks.Activate != nil {
		if err := n.callbacks.Activate(n); err != nil {
			return err
		}
	}
	return n.checkTermination()
}

func (n *Functional) OnTick() error {
	if n.callbacks.Tick != nil {
		if err := n.callbacks.Tick(n); err != nil {
			return err
		}
	}
	return n.checkTermination()
}

func (n *Functional) OnPause() {
	if n.callbacks.Pause != nil {
		n.callbacks.Pause(n)
	}
}

func (n *Functional) OnResume() {
	if n.callbacks.Resume != nil {
		n.callbacks.Resume(n)
	}
}

func (n *Functional) OnTerminate() error {
	if n.callbacks.Terminate != nil {
		return n.callbacks.Terminate(n)
	}
	return nil
}

func (n *Functional) checkTermination() error {
	// a callback may already have terminated the node
	if n.State() != types.Active || n.callbacks.ShouldTerminate == nil {
		return nil
	}
	if signal, ok := base.TerminationSignal(n.callbacks.ShouldTerminate(n)); ok {
		return n.Terminate(&signal)
	}
	return nil
}
