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

import "time"

// Option is a function type that modifies the Config.
type Option func(*Config) error

// WithComponentsRegistry is an option that sets the components' registry of the Config.
func WithComponentsRegistry(componentsRegistry ComponentRegistry) Option {
	return func(c *Config) error {
		c.ComponentsRegistry = componentsRegistry
		return nil
	}
}

// WithOnDebug is an option that sets the on debug callback of the Config.
func WithOnDebug(onDebug func(nodeKind string, flowType string, nodeId string, signal Signal, err error)) Option {
	return func(c *Config) error {
		c.OnDebug = onDebug
		return nil
	}
}

// WithParser is an option that sets the parser of the Config.
func WithParser(parser Parser) Option {
	return func(c *Config) error {
		c.Parser = parser
		return nil
	}
}

// WithLogger is an option that sets the logger of the Config.
func WithLogger(logger Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// WithAspects appends aspects to the Config.
func WithAspects(aspects ...Aspect) Option {
	return func(c *Config) error {
		c.Aspects = append(c.Aspects, aspects...)
		return nil
	}
}

// WithEmitterAdapter appends an emitter adapter to the Config.
func WithEmitterAdapter(adapter EmitterAdapter) Option {
	return func(c *Config) error {
		c.EmitterAdapters = append(c.EmitterAdapters, adapter)
		return nil
	}
}

// WithMinFrameRate sets the frame rate below which elapsed time is clamped.
func WithMinFrameRate(minFrameRate float64) Option {
	return func(c *Config) error {
		c.MinFrameRate = minFrameRate
		return nil
	}
}

// WithProperties sets the properties merged into the root context.
func WithProperties(properties map[string]interface{}) Option {
	return func(c *Config) error {
		c.Properties = properties
		return nil
	}
}

// WithScriptMaxExecutionTime sets the maximum execution time of a script condition.
func WithScriptMaxExecutionTime(scriptMaxExecutionTime time.Duration) Option {
	return func(c *Config) error {
		c.ScriptMaxExecutionTime = scriptMaxExecutionTime
		return nil
	}
}

// WithUdf registers a user defined function available to script conditions.
func WithUdf(name string, f interface{}) Option {
	return func(c *Config) error {
		if c.Udf == nil {
			c.Udf = make(map[string]interface{})
		}
		c.Udf[name] = f
		return nil
	}
}
