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
	"reflect"

	"github.com/rulego/tasktree/api/types"
)

// subscription is one tracked registration on an external emitter.
type subscription struct {
	emitter     interface{}
	event       string
	unsubscribe func()
}

// subscriptions remembers every registration a node made so that all of them
// can be revoked when the node terminates.
type subscriptions struct {
	items []*subscription
}

func (s *subscriptions) add(sub *subscription) {
	s.items = append(s.items, sub)
}

func (s *subscriptions) forget(sub *subscription) {
	for i, item := range s.items {
		if item == sub {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return
		}
	}
}

// revoke removes the subscriptions matching emitter and event. An empty event matches every event.
func (s *subscriptions) revoke(emitter interface{}, event string) int {
	var kept []*subscription
	var matched []*subscription
	for _, item := range s.items {
		if sameEmitter(item.emitter, emitter) && (event == "" || item.event == event) {
			matched = append(matched, item)
		} else {
			kept = append(kept, item)
		}
	}
	s.items = kept
	for _, item := range matched {
		item.unsubscribe()
	}
	return len(matched)
}

func (s *subscriptions) revokeAll() {
	items := s.items
	s.items = nil
	for _, item := range items {
		item.unsubscribe()
	}
}

func (s *subscriptions) len() int {
	return len(s.items)
}

func sameEmitter(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == b
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// subscribe registers listener on emitter according to the emitter shape.
// ListenerEmitter and TargetEmitter are recognised directly; anything else needs an adapter.
func subscribe(config *types.Config, emitter interface{}, event string, listener types.Listener, once bool) (func(), error) {
	switch e := emitter.(type) {
	case types.ListenerEmitter:
		var id types.ListenerId
		if once {
			id = e.Once(event, listener)
		} else {
			id = e.On(event, listener)
		}
		return func() { e.Off(event, id) }, nil
	case types.TargetEmitter:
		if !once {
			id := e.AddListener(event, listener)
			return func() { e.RemoveListener(event, id) }, nil
		}
		var id types.ListenerId
		fired := false
		id = e.AddListener(event, func(args ...interface{}) {
			if fired {
				return
			}
			fired = true
			e.RemoveListener(event, id)
			listener(args...)
		})
		return func() { e.RemoveListener(event, id) }, nil
	default:
		if adapter, ok := config.EmitterAdapter(emitter); ok {
			return adapter.Subscribe(emitter, event, listener, once), nil
		}
		return nil, types.ErrUnsupportedEmitter
	}
}
