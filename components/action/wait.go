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

//节点配置示例：
//{
//        "id": "pause",
//        "type": "wait",
//        "configuration": {
//          "duration": "1500ms",
//          "signal": "timeout"
//        }
//  }
import (
	"time"

	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/engine"
	"github.com/rulego/tasktree/utils/cast"
	"github.com/rulego/tasktree/utils/maps"
)

func init() {
	Registry.Add(&Wait{})
}

// WaitConfiguration 节点配置
type WaitConfiguration struct {
	// Duration to wait, "1.5s" or milliseconds
	Duration time.Duration
	// Signal is the termination signal name, default signal if empty
	Signal string
}

// Wait accumulates the elapsed tick time and terminates once Duration is reached.
// The accumulated time is kept in its memento.
type Wait struct {
	engine.BaseNode
	Config  WaitConfiguration
	elapsed time.Duration
}

// NewWait creates a wait node.
func NewWait(duration time.Duration) *Wait {
	n := &Wait{Config: WaitConfiguration{Duration: duration}}
	n.InitNode(n, "Wait")
	return n
}

// Type 组件类型
func (n *Wait) Type() string {
	return "wait"
}

func (n *Wait) New() types.Component {
	return NewWait(0)
}

// Init 初始化
func (n *Wait) Init(config types.Config, def types.NodeDef, builder types.Builder) error {
	return maps.Map2Struct(def.Configuration, &n.Config)
}

// Elapsed returns the time accumulated by the current activation.
func (n *Wait) Elapsed() time.Duration {
	return n.elapsed
}

func (n *Wait) OnActivate() error {
	n.elapsed = 0
	if m := n.Memento(); m != nil {
		if ms, err := cast.ToIntE(m.Data); err == nil {
			n.elapsed = time.Duration(ms) * time.Millisecond
		}
	}
	return n.check()
}

func (n *Wait) OnTick() error {
	n.elapsed += n.TickInfo().Elapsed
	return n.check()
}

func (n *Wait) MementoData() interface{} {
	return n.elapsed.Milliseconds()
}

func (n *Wait) check() error {
	if n.elapsed < n.Config.Duration {
		return nil
	}
	return n.Terminate(types.SignalPtr(types.NewSignal(n.Config.Signal)))
}
