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

import (
	"sync"
	"time"
)

// Config defines the configuration shared by every node of a tree.
// It travels through the tree as the context entry ContextKeyConfig.
type Config struct {
	// OnDebug is called when a node activates (flowType IN, the input signal) and terminates
	// (flowType OUT, the output signal). Only nodes defined with debugMode, or every node when
	// the Debug aspect is installed, report here.
	OnDebug func(nodeKind string, flowType string, nodeId string, signal Signal, err error)
	// Logger is the logging interface, defaulting to a no-op zap logger.
	Logger Logger
	// Aspects are notified of node activations and terminations.
	Aspects AspectList
	// EmitterAdapters subscribe to emitters with no recognised shape.
	EmitterAdapters []EmitterAdapter
	// ComponentsRegistry is the component registry, defaulting to engine.Registry.
	ComponentsRegistry ComponentRegistry
	// Parser is the tree definition parser, defaulting to engine.JsonParser.
	Parser Parser
	// MinFrameRate clamps the elapsed time of one tick to 1/MinFrameRate seconds. Zero disables clamping.
	MinFrameRate float64
	// Properties are merged into the root context when a runner starts.
	Properties map[string]interface{}
	// ScriptMaxExecutionTime bounds a single script evaluation. Zero disables the limit.
	ScriptMaxExecutionTime time.Duration
	// Udf holds user defined functions exposed to script conditions: Go funcs or JS source.
	Udf map[string]interface{}
}

// NewConfig creates a new Config with default values and applies the provided options.
func NewConfig(opts ...Option) Config {
	c := &Config{
		Logger:       NopLogger(),
		MinFrameRate: 10,
		Properties:   make(map[string]interface{}),
		Udf:          make(map[string]interface{}),

		ScriptMaxExecutionTime: time.Millisecond * 2000,
	}
	for _, opt := range opts {
		_ = opt(c)
	}
	return *c
}

// MaxElapsed returns the largest elapsed time a single tick may carry.
func (c *Config) MaxElapsed() time.Duration {
	if c.MinFrameRate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / c.MinFrameRate)
}

// EmitterAdapter returns the first adapter supporting emitter.
func (c *Config) EmitterAdapter(emitter interface{}) (EmitterAdapter, bool) {
	for _, a := range c.EmitterAdapters {
		if a.Supports(emitter) {
			return a, true
		}
	}
	return nil, false
}

var (
	defaultConfig     *Config
	defaultConfigOnce sync.Once
)

// ConfigFromContext returns the config stored in ctx, or a shared default config.
func ConfigFromContext(ctx Context) *Config {
	if v, ok := ctx.Get(ContextKeyConfig); ok {
		switch c := v.(type) {
		case *Config:
			if c != nil {
				return c
			}
		case Config:
			return &c
		}
	}
	defaultConfigOnce.Do(func() {
		c := NewConfig()
		defaultConfig = &c
	})
	return defaultConfig
}
