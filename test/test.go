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

// Package test provides fixtures shared by the package tests: fake emitters of both
// recognised shapes, an event recorder and tick helpers.
package test

import (
	"sync"
	"time"

	"github.com/rulego/tasktree/api/types"
)

type registration struct {
	id       types.ListenerId
	listener types.Listener
	once     bool
}

type listenerTable struct {
	mu     sync.Mutex
	nextId types.ListenerId
	table  map[string][]registration
}

func (l *listenerTable) add(event string, listener types.Listener, once bool) types.ListenerId {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.table == nil {
		l.table = make(map[string][]registration)
	}
	l.nextId++
	l.table[event] = append(l.table[event], registration{id: l.nextId, listener: listener, once: once})
	return l.nextId
}

func (l *listenerTable) remove(event string, id types.ListenerId) {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := l.table[event]
	for i, item := range items {
		if item.id == id {
			l.table[event] = append(items[:i:i], items[i+1:]...)
			return
		}
	}
}

func (l *listenerTable) dispatch(event string, args ...interface{}) {
	l.mu.Lock()
	items := append([]registration(nil), l.table[event]...)
	l.mu.Unlock()
	for _, item := range items {
		if item.once {
			l.remove(event, item.id)
		}
		item.listener(args...)
	}
}

func (l *listenerTable) count(event string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.table[event])
}

// ManualEmitter is a types.ListenerEmitter fired by the test with Emit.
type ManualEmitter struct {
	listeners listenerTable
}

func (e *ManualEmitter) On(event string, listener types.Listener) types.ListenerId {
	return e.listeners.add(event, listener, false)
}

func (e *ManualEmitter) Once(event string, listener types.Listener) types.ListenerId {
	return e.listeners.add(event, listener, true)
}

func (e *ManualEmitter) Off(event string, id types.ListenerId) {
	e.listeners.remove(event, id)
}

// Emit calls the listeners of event.
func (e *ManualEmitter) Emit(event string, args ...interface{}) {
	e.listeners.dispatch(event, args...)
}

// ListenerCount returns the number of listeners of event.
func (e *ManualEmitter) ListenerCount(event string) int {
	return e.listeners.count(event)
}

// TargetEmitter is a types.TargetEmitter, the AddListener / RemoveListener shape.
type TargetEmitter struct {
	listeners listenerTable
}

func (e *TargetEmitter) AddListener(event string, listener types.Listener) types.ListenerId {
	return e.listeners.add(event, listener, false)
}

func (e *TargetEmitter) RemoveListener(event string, id types.ListenerId) {
	e.listeners.remove(event, id)
}

// Dispatch calls the listeners of event.
func (e *TargetEmitter) Dispatch(event string, args ...interface{}) {
	e.listeners.dispatch(event, args...)
}

// ListenerCount returns the number of listeners of event.
func (e *TargetEmitter) ListenerCount(event string) int {
	return e.listeners.count(event)
}

// Event is one notification seen by a Recorder.
type Event struct {
	Name string
	Args []interface{}
}

// Recorder collects notifications of the events it listens to.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Listen records the given events of emitter.
func (r *Recorder) Listen(emitter types.ListenerEmitter, events ...string) *Recorder {
	for _, event := range events {
		name := event
		emitter.On(name, func(args ...interface{}) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.events = append(r.events, Event{Name: name, Args: args})
		})
	}
	return r
}

// Events returns the recorded events in order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Names returns the names of the recorded events in order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var names []string
	for _, e := range r.events {
		names = append(names, e.Name)
	}
	return names
}

// Count returns how many times event was recorded.
func (r *Recorder) Count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Name == event {
			n++
		}
	}
	return n
}

// Tick creates a TickInfo of ms milliseconds.
func Tick(ms int) types.TickInfo {
	return types.NewTickInfo(time.Duration(ms) * time.Millisecond)
}

// TickUntilInactive ticks node with step until it becomes inactive or max ticks were given.
// It returns the number of ticks given.
func TickUntilInactive(node types.Node, step types.TickInfo, max int) (int, error) {
	for i := 0; i < max; i++ {
		if node.State() == types.Inactive {
			return i, nil
		}
		if err := node.Tick(step); err != nil {
			return i + 1, err
		}
	}
	return max, nil
}

// Activate activates node with an empty context and the default signal.
func Activate(node types.Node) error {
	return node.Activate(types.TickInfo{}, types.EmptyContext(), nil, nil)
}
