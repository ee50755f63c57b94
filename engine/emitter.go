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
	"github.com/rulego/tasktree/api/types"
)

var _ types.ListenerEmitter = (*EventEmitter)(nil)

type listenerEntry struct {
	id       types.ListenerId
	listener types.Listener
	once     bool
}

// EventEmitter is a synchronous, single-threaded event emitter.
// Listeners added or removed while an event is being emitted take effect for the next emit.
// The zero value is ready to use.
type EventEmitter struct {
	listeners map[string][]listenerEntry
	lastId    types.ListenerId
}

// On registers a listener for event.
func (e *EventEmitter) On(event string, listener types.Listener) types.ListenerId {
	return e.add(event, listener, false)
}

// Once registers a listener removed after its first delivery.
func (e *EventEmitter) Once(event string, listener types.Listener) types.ListenerId {
	return e.add(event, listener, true)
}

// Off removes a listener. Unknown ids are ignored.
func (e *EventEmitter) Off(event string, id types.ListenerId) {
	entries := e.listeners[event]
	for i, entry := range entries {
		if entry.id == id {
			// copy so an emit iterating the old slice is not affected
			next := make([]listenerEntry, 0, len(entries)-1)
			next = append(next, entries[:i]...)
			next = append(next, entries[i+1:]...)
			if len(next) == 0 {
				delete(e.listeners, event)
			} else {
				e.listeners[event] = next
			}
			return
		}
	}
}

// Emit delivers args to every listener of event in registration order.
// A listener removed by an earlier listener of the same emit is skipped.
func (e *EventEmitter) Emit(event string, args ...interface{}) {
	entries := e.listeners[event]
	for _, entry := range entries {
		if !e.has(event, entry.id) {
			continue
		}
		if entry.once {
			e.Off(event, entry.id)
		}
		entry.listener(args...)
	}
}

// ListenerCount returns the number of listeners of event.
func (e *EventEmitter) ListenerCount(event string) int {
	return len(e.listeners[event])
}

func (e *EventEmitter) add(event string, listener types.Listener, once bool) types.ListenerId {
	if e.listeners == nil {
		e.listeners = make(map[string][]listenerEntry)
	}
	e.lastId++
	entries := e.listeners[event]
	next := make([]listenerEntry, 0, len(entries)+1)
	next = append(next, entries...)
	next = append(next, listenerEntry{id: e.lastId, listener: listener, once: once})
	e.listeners[event] = next
	return e.lastId
}

func (e *EventEmitter) has(event string, id types.ListenerId) bool {
	for _, entry := range e.listeners[event] {
		if entry.id == id {
			return true
		}
	}
	return false
}
