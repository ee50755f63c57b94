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
	"testing"

	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/test/assert"
)

func TestEventEmitter(t *testing.T) {
	var e EventEmitter
	var got []string
	id := e.On("a", func(args ...interface{}) { got = append(got, "on") })
	e.Once("a", func(args ...interface{}) { got = append(got, "once") })
	e.Emit("a")
	e.Emit("a")
	assert.Equal(t, []string{"on", "once", "on"}, got)
	assert.Equal(t, 1, e.ListenerCount("a"))
	e.Off("a", id)
	e.Off("a", id)
	assert.Equal(t, 0, e.ListenerCount("a"))
	e.Emit("missing")
}

func TestEventEmitterRemoveDuringEmit(t *testing.T) {
	var e EventEmitter
	var got []string
	var second uint64
	e.On("a", func(args ...interface{}) {
		got = append(got, "first")
		e.Off("a", types.ListenerId(second))
	})
	second = uint64(e.On("a", func(args ...interface{}) { got = append(got, "second") }))
	// added during emit, delivered from the next emit on
	e.On("b", func(args ...interface{}) {
		e.On("b", func(args ...interface{}) { got = append(got, "late") })
	})
	e.Emit("a")
	e.Emit("b")
	assert.Equal(t, []string{"first"}, got)
	e.Emit("b")
	assert.Equal(t, []string{"first", "late"}, got)
}
