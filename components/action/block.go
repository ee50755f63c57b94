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
	"github.com/rulego/tasktree/engine"
)

func init() {
	Registry.Add(&Block{})
}

// Block stays active until Done is called.
type Block struct {
	engine.BaseNode
}

// NewBlock creates a block node.
func NewBlock() *Block {
	n := &Block{}
	n.InitNode(n, "Block")
	return n
}

// Type 组件类型
func (n *Block) Type() string {
	return "block"
}

func (n *Block) New() types.Component {
	return NewBlock()
}

func (n *Block) Init(config types.Config, def types.NodeDef, builder types.Builder) error {
	return nil
}

// Done terminates the block with signal, the default signal if nil.
func (n *Block) Done(signal *types.Signal) error {
	return n.Terminate(signal)
}
