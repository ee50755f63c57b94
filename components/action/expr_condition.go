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
//        "id": "ready",
//        "type": "exprCondition",
//        "configuration": {
//          "expr": "elapsed > 1000 && ctx.score >= global.target ? 'win' : nil"
//        }
//  }
import (
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/components/base"
	"github.com/rulego/tasktree/engine"
	"github.com/rulego/tasktree/utils/maps"
)

func init() {
	Registry.Add(&ExprCondition{})
}

// ExprConditionConfiguration 节点配置
type ExprConditionConfiguration struct {
	// Expr is evaluated on activation and on every tick.
	// Variables: ctx, input, elapsed (ms since activation), global
	Expr string
}

// ExprCondition terminates once its expr expression returns a truthy value,
// read as described by base.TerminationSignal.
type ExprCondition struct {
	engine.BaseNode
	Config  ExprConditionConfiguration
	program *vm.Program
	elapsed time.Duration
}

// NewExprCondition compiles expression into a condition node.
func NewExprCondition(expression string) (*ExprCondition, error) {
	n := newExprCondition()
	n.Config.Expr = expression
	if err := n.compile(); err != nil {
		return nil, err
	}
	return n, nil
}

func newExprCondition() *ExprCondition {
	n := &ExprCondition{}
	n.InitNode(n, "ExprCondition")
	return n
}

// Type 组件类型
func (n *ExprCondition) Type() string {
	return "exprCondition"
}

func (n *ExprCondition) New() types.Component {
	return newExprCondition()
}

// Init 初始化
func (n *ExprCondition) Init(config types.Config, def types.NodeDef, builder types.Builder) error {
	if err := maps.Map2Struct(def.Configuration, &n.Config); err != nil {
		return err
	}
	return n.compile()
}

func (n *ExprCondition) compile() error {
	program, err := expr.Compile(n.Config.Expr, expr.AllowUndefinedVariables())
	if err != nil {
		return err
	}
	n.program = program
	return nil
}

func (n *ExprCondition) OnActivate() error {
	n.elapsed = 0
	return n.evaluate()
}

func (n *ExprCondition) OnTick() error {
	n.elapsed += n.TickInfo().Elapsed
	return n.evaluate()
}

func (n *ExprCondition) evaluate() error {
	out, err := vm.Run(n.program, base.NodeUtils.GetEnv(n, n.InputSignal(), n.elapsed))
	if err != nil {
		return err
	}
	if signal, ok := base.TerminationSignal(out); ok {
		return n.Terminate(&signal)
	}
	return nil
}
