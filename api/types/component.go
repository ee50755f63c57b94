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

import "sync"

// SafeComponentSlice collects the components of a package in init functions.
type SafeComponentSlice struct {
	components []Component
	sync.Mutex
}

// Add appends components.
func (p *SafeComponentSlice) Add(components ...Component) {
	p.Lock()
	defer p.Unlock()
	p.components = append(p.components, components...)
}

// Components returns a copy of the collected components.
func (p *SafeComponentSlice) Components() []Component {
	p.Lock()
	defer p.Unlock()
	return append([]Component(nil), p.components...)
}
