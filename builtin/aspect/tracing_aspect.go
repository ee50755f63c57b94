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

package aspect

import (
	"context"
	"sync"

	"github.com/rulego/tasktree/api/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name of the spans recorded by TracingAspect.
const TracerName = "github.com/rulego/tasktree"

var (
	_ types.ActivateAspect  = (*TracingAspect)(nil)
	_ types.TerminateAspect = (*TracingAspect)(nil)
	_ types.ErrorAspect     = (*TracingAspect)(nil)
)

// TracingAspect records a span per node activation. The span starts on activation, is named
// after the node kind and ends on termination. A failed activation ends it with an error status.
// The span of a child is recorded under the span of the composite that activated it.
type TracingAspect struct {
	tracer trace.Tracer
	// parent is the context of the host, e.g. the span of the request that started the tree
	parent context.Context

	mu        sync.Mutex
	spans     map[string]trace.Span
	parents   map[string]string
	listeners map[string]types.ListenerId
}

// NewTracingAspect creates a tracing aspect. A nil provider uses the global tracer provider.
func NewTracingAspect(provider trace.TracerProvider) *TracingAspect {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &TracingAspect{
		tracer:    provider.Tracer(TracerName),
		parent:    context.Background(),
		spans:     make(map[string]trace.Span),
		parents:   make(map[string]string),
		listeners: make(map[string]types.ListenerId),
	}
}

// WithParent sets the context the root spans are started in.
func (a *TracingAspect) WithParent(ctx context.Context) *TracingAspect {
	a.parent = ctx
	return a
}

func (a *TracingAspect) Order() int {
	return 10
}

func (a *TracingAspect) PointCut(node types.Node) bool {
	return true
}

func (a *TracingAspect) Activated(node types.Node, input *types.Signal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ctx := a.parent
	if parentId, ok := a.parents[node.Id()]; ok {
		if parent, ok := a.spans[parentId]; ok {
			ctx = trace.ContextWithSpan(ctx, parent)
		}
	}
	attrs := []attribute.KeyValue{
		attribute.String("node.id", node.Id()),
		attribute.String("node.kind", node.Kind()),
	}
	if input != nil {
		attrs = append(attrs, attribute.String("signal.input", input.Name))
	}
	_, span := a.tracer.Start(ctx, node.Kind(), trace.WithAttributes(attrs...))
	a.spans[node.Id()] = span

	parentId := node.Id()
	a.listeners[parentId] = node.On(types.EventBeforeActivateChild, func(args ...interface{}) {
		if len(args) == 0 {
			return
		}
		if child, ok := args[0].(types.Node); ok {
			a.mu.Lock()
			a.parents[child.Id()] = parentId
			a.mu.Unlock()
		}
	})
}

func (a *TracingAspect) Terminated(node types.Node, output types.Signal) {
	span, ok := a.release(node)
	if !ok {
		return
	}
	span.SetAttributes(attribute.String("signal.output", output.Name))
	span.SetStatus(codes.Ok, "")
	span.End()
}

func (a *TracingAspect) Failed(node types.Node, op string, err error) {
	var span trace.Span
	ok := false
	if op == "activate" {
		span, ok = a.release(node)
	} else {
		a.mu.Lock()
		span, ok = a.spans[node.Id()]
		a.mu.Unlock()
	}
	if !ok {
		return
	}
	span.RecordError(err, trace.WithAttributes(attribute.String("node.op", op)))
	span.SetStatus(codes.Error, err.Error())
	if op == "activate" {
		span.End()
	}
}

// ActiveSpans returns the number of spans not ended yet.
func (a *TracingAspect) ActiveSpans() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.spans)
}

// release forgets the span of node and stops watching its children.
func (a *TracingAspect) release(node types.Node) (trace.Span, bool) {
	a.mu.Lock()
	span, ok := a.spans[node.Id()]
	listener, watching := a.listeners[node.Id()]
	delete(a.spans, node.Id())
	delete(a.parents, node.Id())
	delete(a.listeners, node.Id())
	a.mu.Unlock()
	if watching {
		node.Off(types.EventBeforeActivateChild, listener)
	}
	return span, ok
}
