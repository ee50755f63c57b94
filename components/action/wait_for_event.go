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
//        "id": "click",
//        "type": "waitForEvent",
//        "configuration": {
//          "emitter": "button",
//          "event": "click",
//          "signal": "clicked"
//        }
//  }
import (
	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/components/base"
	"github.com/rulego/tasktree/engine"
	"github.com/rulego/tasktree/utils/maps"
)

func init() {
	Registry.Add(&WaitForEvent{})
}

// WaitForEventConfiguration 节点配置
type WaitForEventConfiguration struct {
	// Emitter is the context entry holding the emitter, used when no emitter is given in code
	Emitter string
	// Event name
	Event string
	// Signal replaces the default termination signal name
	Signal string
}

// EventHandler receives the event arguments. A truthy result terminates the node,
// see base.EventSignal.
type EventHandler func(args ...interface{}) interface{}

// WaitForEvent subscribes to an event of an external emitter and terminates once the handler accepts one.
// Without handler the first event terminates it.
type WaitForEvent struct {
	engine.BaseNode
	Config  WaitForEventConfiguration
	emitter interface{}
	handler EventHandler
}

// NewWaitForEvent creates a node waiting for event on emitter.
func NewWaitForEvent(emitter interface{}, event string, handler EventHandler) *WaitForEvent {
	n := &WaitForEvent{
		Config:  WaitForEventConfiguration{Emitter: "emitter", Event: event},
		emitter: emitter,
		handler: handler,
	}
	n.InitNode(n, "WaitForEvent")
	return n
}

// Type 组件类型
func (n *WaitForEvent) Type() string {
	return "waitForEvent"
}

func (n *WaitForEvent) New() types.Component {
	return NewWaitForEvent(nil, "", nil)
}

// Init 初始化
func (n *WaitForEvent) Init(config types.Config, def types.NodeDef, builder types.Builder) error {
	return maps.Map2Struct(def.Configuration, &n.Config)
}

func (n *WaitForEvent) OnActivate() error {
	emitter := n.emitter
	if emitter == nil {
		emitter = n.Context().GetValue(n.Config.Emitter)
	}
	if emitter == nil {
		return types.NewErrorf(n.Kind(), "activate", types.ErrUnsupportedEmitter, "no emitter in context entry %s", n.Config.Emitter)
	}
	return n.Subscribe(emitter, n.Config.Event, n.onEvent)
}

func (n *WaitForEvent) onEvent(args ...interface{}) {
	if n.State() != types.Active {
		return
	}
	var result interface{} = true
	if n.handler != nil {
		result = n.handler(args...)
	}
	signal, ok := base.EventSignal(result)
	if !ok {
		return
	}
	if n.Config.Signal != "" && signal.Name == types.DefaultSignalName {
		signal.Name = n.Config.Signal
	}
	if err := n.Terminate(&signal); err != nil {
		n.Logger().Printf("%s(%s): terminate on %s error: %s", n.Kind(), n.Id(), n.Config.Event, err.Error())
	}
}
