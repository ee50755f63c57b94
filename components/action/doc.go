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

// Package action provides the leaf task nodes.
//
//   - Functional: inline activation, tick, pause, resume and termination callbacks plus a termination predicate
//   - Lambda: runs one callback on activation and terminates with its result
//   - Wait: terminates once the accumulated tick time reaches a duration
//   - Block: stays active until Done is called
//   - WaitForEvent: terminates when an event of an external emitter is accepted by a handler
//   - CronWait: waits on the simulated tick clock for the next time of a cron schedule
//   - ExprCondition: terminates when an expr expression becomes truthy
//   - JsCondition: terminates when a JavaScript condition becomes truthy
//
// Every DSL usable node is registered with the Registry. For example:
//
//	{
//	  "id": "pause",
//	  "type": "wait",
//	  "configuration": {
//	    "duration": "1500ms"
//	  }
//	}
package action

import "github.com/rulego/tasktree/api/types"

// Registry holds the components of this package.
var Registry = &types.SafeComponentSlice{}
