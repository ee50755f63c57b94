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
//        "type": "jsCondition",
//        "configuration": {
//          "jsScript": "return ctx.lives <= 0 ? 'gameOver' : false;"
//        }
//  }
import (
	"fmt"
	"time"

	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/components/base"
	"github.com/rulego/tasktree/engine"
	"github.com/rulego/tasktree/utils/js"
	"github.com/rulego/tasktree/utils/maps"
)

const jsConditionFunc = "Check"

func init() {
	Registry.Add(&JsCondition{})
}

// JsConditionConfiguration 节点配置
type JsConditionConfiguration struct {
	// JsScript is the body of:
	//  function Check(ctx, input, elapsed, global) { ${JsScript} }
	JsScript string
}

// JsCondition terminates once its script returns a truthy value, read as described by
// base.TerminationSignal. Returning {name: "x", params: {...}} terminates with that signal.
type JsCondition struct {
	engine.BaseNode
	Config   JsConditionConfiguration
	jsEngine *js.GojaJsEngine
	elapsed  time.Duration
}

// NewJsCondition compiles script into a condition node.
func NewJsCondition(config types.Config, script string) (*JsCondition, error) {
	n := newJsCondition()
	n.Config.JsScript = script
	if err := n.compile(config); err != nil {
		return nil, err
	}
	return n, nil
}

func newJsCondition() *JsCondition {
	n := &JsCondition{}
	n.InitNode(n, "JsCondition")
	return n
}

// Type 组件类型
func (n *JsCondition) Type() string {
	return "jsCondition"
}

func (n *JsCondition) New() types.Component {
	return newJsCondition()
}

// Init 初始化
func (n *JsCondition) Init(config types.Config, def types.NodeDef, builder types.Builder) error {
	if err := maps.Map2Struct(def.Configuration, &n.Config); err != nil {
		return err
	}
	return n.compile(config)
}

func (n *JsCondition) compile(config types.Config) error {
	jsScript := fmt.Sprintf("function %s(ctx, input, elapsed, global) { %s }", jsConditionFunc, n.Config.JsScript)
	jsEngine, err := js.NewGojaJsEngine(config, jsScript, nil)
	if err != nil {
		return err
	}
	n.jsEngine = jsEngine
	return nil
}

func (n *JsCondition) OnActivate() error {
	n.elapsed = 0
	return n.evaluate()
}

func (n *JsCondition) OnTick() error {
	n.elapsed += n.TickInfo().Elapsed
	return n.evaluate()
}

func (n *JsCondition) evaluate() error {
	env := base.NodeUtils.GetEnv(n, n.InputSignal(), n.elapsed)
	out, err := n.jsEngine.Execute(jsConditionFunc, env[base.CtxKey], env[base.InputKey], env[base.ElapsedKey], env[base.GlobalKey])
	if err != nil {
		return err
	}
	if signal, ok := base.TerminationSignal(out); ok {
		return n.Terminate(&signal)
	}
	return nil
}
