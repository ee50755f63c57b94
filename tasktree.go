/*
 * Copyright 2023 The RuleGo Authors.
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

// Package tasktree provides a hierarchical, tick-driven task node runtime.
//
// # Usage
//
// A tree is described by nested node definitions. Composite nodes (sequence, parallel,
// stateMachine, alternative, queue, contextProvider) drive their children, leaf nodes
// (wait, block, lambda, waitForEvent, cronWait, exprCondition, jsCondition) do the work:
//
//	{
//	  "id": "intro",
//	  "type": "sequence",
//	  "children": [
//	    {"id": "fadeIn", "type": "wait", "configuration": {"duration": 500}},
//	    {
//	      "id": "menu",
//	      "type": "alternative",
//	      "configuration": {"outcomes": {"press": "start", "idle": "demo"}},
//	      "children": [
//	        {"id": "press", "type": "waitForEvent", "configuration": {"emitter": "keyboard", "event": "keydown"}},
//	        {"id": "idle", "type": "wait", "configuration": {"duration": "30s"}}
//	      ]
//	    }
//	  ]
//	}
//
// Create Runner Instance
//
//	runner, err := tasktree.New("intro", []byte(treeFile), tasktree.WithContext(map[string]interface{}{"keyboard": keyboard}))
//
// Start And Tick The Tree
//
//	err = runner.Start(nil)
//	err = runner.Tick(16 * time.Millisecond)
//
// Or let the runner tick on a timer until the tree terminates
//
//	err = runner.Run(ctx, 16*time.Millisecond)
//
// Update The Tree, resuming from the structure of the running one
//
//	err = runner.ReloadSelf([]byte(treeFile))
//
// Load All Trees Of A Folder
//
//	err = tasktree.Load("./trees")
//
// Get Runner Instance
//
//	runner, ok := tasktree.Get("intro")
package tasktree

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rulego/tasktree/api/types"
	"github.com/rulego/tasktree/engine"
	"github.com/rulego/tasktree/utils/fs"
)

var DefaultTaskTree = &TaskTree{}

// TaskTree 任务树运行器池
type TaskTree struct {
	runners sync.Map
}

// Load 加载指定文件夹及其子文件夹所有任务树定义（.json、.yaml、.yml结尾文件），到运行器池
// 运行器ID，使用根节点定义的id
func (g *TaskTree) Load(folderPath string, opts ...RunnerOption) error {
	if folderPath == "" {
		folderPath = "."
	}
	paths, err := fs.GetFilePaths(filepath.Join(folderPath, "*"))
	if err != nil {
		return err
	}
	for _, path := range paths {
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}
		b := fs.LoadFile(path)
		if b == nil {
			continue
		}
		if _, err = g.New("", b, append(opts, WithParser(engine.ParserFor(ext)))...); err != nil {
			return err
		}
	}
	return nil
}

// New 创建一个新的Runner并将其存储在运行器池中
// 如果指定id="",则使用根节点定义的id。id已存在时返回已有的Runner
func (g *TaskTree) New(id string, dsl []byte, opts ...RunnerOption) (*Runner, error) {
	if v, ok := g.runners.Load(id); ok && id != "" {
		return v.(*Runner), nil
	}
	runner, err := newRunner(id, dsl, opts...)
	if err != nil {
		return nil, err
	}
	if runner.Id != "" {
		if v, loaded := g.runners.LoadOrStore(runner.Id, runner); loaded {
			return v.(*Runner), nil
		}
	}
	return runner, nil
}

// Get 获取指定ID运行器
func (g *TaskTree) Get(id string) (*Runner, bool) {
	v, ok := g.runners.Load(id)
	if ok {
		return v.(*Runner), ok
	}
	return nil, false
}

// Del 停止并删除指定ID运行器
func (g *TaskTree) Del(id string) {
	if v, ok := g.runners.LoadAndDelete(id); ok {
		v.(*Runner).Stop()
	}
}

// Range 遍历所有运行器
func (g *TaskTree) Range(f func(key, value any) bool) {
	g.runners.Range(f)
}

// Tick 推进所有运行中的任务树
// 返回第一个错误，其他运行器仍会被推进
func (g *TaskTree) Tick(elapsed time.Duration) error {
	var firstErr error
	g.runners.Range(func(key, value any) bool {
		if runner, ok := value.(*Runner); ok && runner.State() == types.Active {
			if err := runner.Tick(elapsed); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return true
	})
	return firstErr
}

// Stop 停止并释放所有运行器
func (g *TaskTree) Stop() {
	g.runners.Range(func(key, value any) bool {
		if item, ok := value.(*Runner); ok {
			item.Stop()
		}
		g.runners.Delete(key)
		return true
	})
}

// Load 加载指定文件夹及其子文件夹所有任务树定义到默认运行器池
func Load(folderPath string, opts ...RunnerOption) error {
	return DefaultTaskTree.Load(folderPath, opts...)
}

// New 创建一个新的Runner并将其存储在默认运行器池中
func New(id string, dsl []byte, opts ...RunnerOption) (*Runner, error) {
	return DefaultTaskTree.New(id, dsl, opts...)
}

// Get 获取指定ID运行器
func Get(id string) (*Runner, bool) {
	return DefaultTaskTree.Get(id)
}

// Del 停止并删除指定ID运行器
func Del(id string) {
	DefaultTaskTree.Del(id)
}

// Range 遍历默认运行器池
func Range(f func(key, value any) bool) {
	DefaultTaskTree.Range(f)
}

// Tick 推进默认运行器池中所有运行中的任务树
func Tick(elapsed time.Duration) error {
	return DefaultTaskTree.Tick(elapsed)
}

// Stop 停止并释放默认运行器池
func Stop() {
	DefaultTaskTree.Stop()
}
