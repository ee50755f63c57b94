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

package str

import (
	"errors"
	"testing"
	"time"

	"github.com/rulego/tasktree/test/assert"
)

func TestExecuteTemplate(t *testing.T) {
	dict := map[string]interface{}{
		"name":   "intro",
		"global": map[string]interface{}{"fps": 30},
	}
	assert.Equal(t, "scene intro at 30", ExecuteTemplate("scene ${name} at ${global.fps}", dict))
	assert.Equal(t, "keep ${missing}", ExecuteTemplate("keep ${missing}", dict))
	assert.True(t, CheckHasVar("${a}"))
	assert.False(t, CheckHasVar("a"))
}

func TestResolveValue(t *testing.T) {
	dict := map[string]interface{}{"global": map[string]interface{}{"fps": 30, "loop": true}}
	assert.Equal(t, 30, ResolveValue("${global.fps}", dict))
	assert.Equal(t, true, ResolveValue(" ${global.loop} ", dict))
	assert.Equal(t, "fps=30", ResolveValue("fps=${global.fps}", dict))
	assert.Equal(t, "${global.none}", ResolveValue("${global.none}", dict))
}

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "1.5", ToString(1.5))
	assert.Equal(t, "12", ToString(int64(12)))
	assert.Equal(t, "true", ToString(true))
	assert.Equal(t, "1s", ToString(time.Second))
	assert.Equal(t, "boom", ToString(errors.New("boom")))
	assert.Equal(t, `{"a":1}`, ToString(map[string]interface{}{"a": 1}))
}
