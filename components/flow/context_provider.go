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

package flow

//节点配置示例：
//{
//        "id": "level",
//        "type": "contextProvider",
//        "configuration": {
//          "payload": "play"
//        },
//        "children": [
//          {"id": "music", "type": "block"},
//          {"id": "play", "type": "waitForEvent", "configuration": {"emitter": "game", "event": "over"}}
//        ]
//  }
import (
	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/engine"
	"github.com/rulego/tasktree/utils/maps"
)

// PayloadId is the child id of the payload of a ContextProvider.
const PayloadId = "payload"

func init() {
	Registry.Add(&ContextProvider{})
}

// ContextProviderConfiguration 节点配置
type ContextProviderConfiguration struct {
	// Payload is the id of the payload child, the last child when empty.
	// Every other child is a provider named after its id.
	Payload string
}

// ContextProvider activates its providers first, each visible to later children through
// the context under its name, then activates the payload. It terminates with the output
// of the payload.
type ContextProvider struct {
	engine.Composite
	Config    ContextProviderConfiguration
	providers []Entry
	payload   Entry
	current   types.Node
}

// NewContextProvider creates a context provider. Each provider entry needs an Id, the name
// it is published under.
func NewContextProvider(payload Entry, providers ...Entry) *ContextProvider {
	n := &ContextProvider{payload: payload, providers: providers}
	n.InitComposite(n, "ContextProvider")
	return n
}

// Type 组件类型
func (n *ContextProvider) Type() string {
	return "contextProvider"
}

func (n *ContextProvider) New() types.Component {
	return NewContextProvider(Entry{})
}

// Init 初始化
func (n *ContextProvider) Init(config types.Config, def types.NodeDef, builder types.Builder) error {
	if err := maps.Map2Struct(def.Configuration, &n.Config); err != nil {
		return err
	}
	entries, err := entriesFromDefs(builder, def.Children)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return types.NewErrorf(n.Kind(), "init", types.ErrEntryNotFound, "payload")
	}
	payload := n.Config.Payload
	if payload == "" {
		payload = entries[len(entries)-1].Id
	}
	found := false
	for _, e := range entries {
		if e.Id == payload && !found {
			n.payload = e
			found = true
		} else {
			n.providers = append(n.providers, e)
		}
	}
	if !found {
		return types.NewErrorf(n.Kind(), "init", types.ErrEntryNotFound, "payload %s", payload)
	}
	return nil
}

// Payload returns the live payload node, nil before activation.
func (n *ContextProvider) Payload() types.Node {
	return n.current
}

// Provider returns the live provider published under name.
func (n *ContextProvider) Provider(name string) types.Node {
	return n.Attr(name)
}

func (n *ContextProvider) OnActivate() error {
	n.current = nil
	for _, p := range n.providers {
		opts := p.options(p.Id)
		opts.Attribute = p.Id
		opts.IncludeInChildContext = true
		if _, err := n.ActivateChild(p.Node, opts); err != nil {
			return err
		}
	}
	node, err := n.ActivateChild(n.payload.Node, n.payload.options(PayloadId))
	if err != nil {
		return err
	}
	n.current = node
	return nil
}

func (n *ContextProvider) OnAfterTick() error {
	if n.current == nil || n.current.State() != types.Inactive {
		return nil
	}
	return n.Terminate(n.current.OutputSignal())
}
