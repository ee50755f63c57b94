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
//        "id": "done",
//        "type": "lambda",
//        "configuration": {
//          "signal": "next"
//        }
//  }
import (
	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/components/base"
	"github.com/rulego/tasktree/engine"
	"github.com/rulego/tasktree/utils/maps"
)

func init() {
	Registry.Add(&Lambda{})
}

// LambdaConfiguration 节点配置
type LambdaConfiguration struct {
	// Signal is the termination signal name when no function is set
	Signal string
}

// LambdaFunc runs on activation. It returns nothing, a signal or a signal name.
type LambdaFunc func(ctx types.Context, input types.Signal) interface{}

// Lambda runs its function once on activation and terminates immediately with the result.
type Lambda struct {
	engine.BaseNode
	Config LambdaConfiguration
	fn     LambdaFunc
}

// NewLambda creates a lambda node.
func NewLambda(fn LambdaFunc) *Lambda {
	n := &Lambda{fn: fn}
	n.InitNode(n, "Lambda")
	return n
}

// Type 组件类型
func (n *Lambda) Type() string {
	return "lambda"
}

func (n *Lambda) New() types.Component {
	return NewLambda(nil)
}

// Init 初始化
func (n *Lambda) Init(config types.Config, def types.NodeDef, builder types.Builder) error {
	return maps.Map2Struct(def.Configuration, &n.Config)
}

func (n *Lambda) OnActivate() error {
	var result interface{}
	if n.fn != nil {
		input := types.DefaultSignal()
		if in := n.InputSignal(); in != nil {
			input = *in
		}
		result = n.fn(n.Context(), input)
	} else if n.Config.Signal != "" {
		result = n.Config.Signal
	}
	if n.State() != types.Active {
		return nil
	}
	signal, ok := base.TerminationSignal(result)
	if !ok {
		signal = types.DefaultSignal()
	}
	return n.Terminate(&signal)
}
