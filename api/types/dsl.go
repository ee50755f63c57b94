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

package types

// Configuration 组件配置类型
type Configuration map[string]interface{}

// NodeDef 树形节点定义
//
//	{
//	  "id": "intro",
//	  "type": "sequence",
//	  "configuration": {"loop": false},
//	  "children": [
//	    {"id": "fadeIn", "type": "wait", "configuration": {"duration": "500ms"}},
//	    {"id": "title", "type": "block"}
//	  ]
//	}
type NodeDef struct {
	// Id is the child id used inside the parent. For state machines it is the state name.
	Id string `json:"id" yaml:"id"`
	// Type must match a registered component type.
	Type string `json:"type" yaml:"type"`
	// Name is free text.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// DebugMode enables Config.OnDebug callbacks for this node.
	DebugMode bool `json:"debugMode,omitempty" yaml:"debugMode,omitempty"`
	// Configuration holds the component parameters, decoded with mapstructure.
	Configuration Configuration `json:"configuration,omitempty" yaml:"configuration,omitempty"`
	// Children are the child definitions of composite components.
	Children []NodeDef `json:"children,omitempty" yaml:"children,omitempty"`
}

// Child returns the child definition with the given id.
func (d NodeDef) Child(id string) (NodeDef, bool) {
	for _, c := range d.Children {
		if c.Id == id {
			return c, true
		}
	}
	return NodeDef{}, false
}
