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
//        "id": "nightfall",
//        "type": "cronWait",
//        "configuration": {
//          "cron": "0 20 * * *"
//        }
//  }
import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/engine"
	"github.com/rulego/tasktree/utils/maps"
)

func init() {
	Registry.Add(&CronWait{})
}

// CronWaitConfiguration 节点配置
type CronWaitConfiguration struct {
	// Cron is a standard 5 field cron expression or a descriptor such as "@every 90s"
	Cron string
	// Signal is the termination signal name, default signal if empty
	Signal string
}

// CronWait waits on the simulated clock for the next activation time of a cron schedule.
// The clock starts at the time.Time found in the context entry types.ContextKeyClock,
// or at the unix epoch, and advances only by the elapsed tick time.
type CronWait struct {
	engine.BaseNode
	Config   CronWaitConfiguration
	schedule cron.Schedule
	now      time.Time
	next     time.Time
}

// NewCronWait creates a node waiting for the next time of spec.
func NewCronWait(spec string) (*CronWait, error) {
	n := newCronWait()
	n.Config.Cron = spec
	if err := n.parse(); err != nil {
		return nil, err
	}
	return n, nil
}

func newCronWait() *CronWait {
	n := &CronWait{}
	n.InitNode(n, "CronWait")
	return n
}

// Type 组件类型
func (n *CronWait) Type() string {
	return "cronWait"
}

func (n *CronWait) New() types.Component {
	return newCronWait()
}

// Init 初始化
func (n *CronWait) Init(config types.Config, def types.NodeDef, builder types.Builder) error {
	if err := maps.Map2Struct(def.Configuration, &n.Config); err != nil {
		return err
	}
	return n.parse()
}

func (n *CronWait) parse() error {
	schedule, err := cron.ParseStandard(n.Config.Cron)
	if err != nil {
		return err
	}
	n.schedule = schedule
	return nil
}

// Now returns the simulated time of the current activation.
func (n *CronWait) Now() time.Time {
	return n.now
}

// Next returns the time the node terminates at.
func (n *CronWait) Next() time.Time {
	return n.next
}

func (n *CronWait) OnActivate() error {
	n.now = time.Unix(0, 0).UTC()
	if clock, ok := n.Context().GetValue(types.ContextKeyClock).(time.Time); ok {
		n.now = clock
	}
	n.next = n.schedule.Next(n.now)
	return nil
}

func (n *CronWait) OnTick() error {
	n.now = n.now.Add(n.TickInfo().Elapsed)
	if n.now.Before(n.next) {
		return nil
	}
	return n.Terminate(types.SignalPtr(types.NewSignal(n.Config.Signal)))
}
