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

package engine

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/rulego/tasktree/api/types"
)

// CompositeHooks are the extension points of composite variants on top of Hooks.
type CompositeHooks interface {
	Hooks
	// OnAfterTick runs after the children were ticked and finished children were removed.
	// It also runs once right after activation.
	OnAfterTick() error
	// DefaultChildContext is merged into the context of every child.
	DefaultChildContext() types.ContextResolvable
}

// ChildOptions describes how a child is registered by ActivateChild.
type ChildOptions struct {
	// Id of the child. Defaults to Attribute, then to a positional id.
	// An id ending with types.ArrayMarker appends to an ordered group.
	Id string
	// Context is merged last into the child context.
	Context types.ContextResolvable
	// InputSignal is given to the child activation.
	InputSignal *types.Signal
	// Attribute binds the child to a named slot, see Attr and AttrList.
	Attribute string
	// IncludeInChildContext makes the child visible to later children under its attribute or id.
	IncludeInChildContext bool
}

// Composite implements the generic parent behaviour shared by every composite variant:
// it owns the live children, propagates context, forwards ticks, reconciles finished
// children and binds children to named attributes.
//
// Composite 组合节点引擎
type Composite struct {
	BaseNode
	variant CompositeHooks

	children       map[string]types.Node
	order          []string
	attributes     map[string]types.Node
	attributeLists map[string][]types.Node
	childContext   types.ContextFragment
	arrayCounters  map[string]int
	nextChildIndex int
	// restored marks the child ids whose memento was handed out, each at most once per activation
	restored map[string]bool

	// callInProgress is set while Activate or Tick runs, termination requests arriving
	// meanwhile are stored in deferred and honoured at the start of the next tick.
	callInProgress bool
	deferred       *types.Signal
}

// InitComposite binds the variant hooks and kind.
func (c *Composite) InitComposite(self CompositeHooks, kind string) {
	c.variant = self
	c.BaseNode.InitNode(self, kind)
}

func (c *Composite) compositeHooks() CompositeHooks {
	if c.variant == nil {
		c.InitComposite(c, "Composite")
	}
	return c.variant
}

func (c *Composite) reset() {
	c.children = make(map[string]types.Node)
	c.order = nil
	c.attributes = make(map[string]types.Node)
	c.attributeLists = make(map[string][]types.Node)
	c.childContext = make(types.ContextFragment)
	c.arrayCounters = make(map[string]int)
	c.nextChildIndex = 0
	c.restored = make(map[string]bool)
	c.deferred = nil
}

// Activate starts the composite. Terminations requested by children or hooks during
// activation are deferred to the next tick.
func (c *Composite) Activate(tickInfo types.TickInfo, ctx types.Context, input *types.Signal, memento *types.Memento) error {
	v := c.compositeHooks()
	if c.State() != types.Inactive {
		return c.fail("activate", types.ErrInvalidState, c.State())
	}
	c.reset()
	c.callInProgress = true
	err := c.BaseNode.Activate(tickInfo, ctx, input, memento)
	c.callInProgress = false
	if err != nil {
		c.discardChildren()
		return err
	}
	c.reconcile()
	if c.State() != types.Active {
		return nil
	}
	if err := v.OnAfterTick(); err != nil {
		return c.fail("activate", err, nil)
	}
	return nil
}

// Tick honours a deferred termination, then runs the own tick hook, ticks every live child
// in registration order, removes the finished ones and runs OnAfterTick.
func (c *Composite) Tick(tickInfo types.TickInfo) error {
	v := c.compositeHooks()
	if c.State() == types.Paused {
		return nil
	}
	if c.State() != types.Active {
		return c.fail("tick", types.ErrInvalidState, c.State())
	}
	if c.deferred != nil {
		signal := c.deferred
		c.deferred = nil
		return c.Terminate(signal)
	}

	c.callInProgress = true
	err := c.BaseNode.Tick(tickInfo)
	if err == nil {
		err = c.tickChildren(tickInfo)
	}
	c.callInProgress = false
	if err != nil {
		return err
	}

	c.reconcile()
	if c.State() != types.Active {
		return nil
	}
	if err := v.OnAfterTick(); err != nil {
		return c.fail("tick", err, nil)
	}
	return nil
}

func (c *Composite) tickChildren(tickInfo types.TickInfo) error {
	ids := append([]string(nil), c.order...)
	for _, id := range ids {
		child, ok := c.children[id]
		// skip children removed or finished by earlier children of this batch
		if !ok || child.State() != types.Active {
			continue
		}
		if err := child.Tick(tickInfo); err != nil {
			return err
		}
	}
	return nil
}

// Terminate stops the composite: it revokes its own subscriptions, terminates every live child,
// then runs its termination hook. A request made while Activate or Tick is running is deferred.
func (c *Composite) Terminate(signal *types.Signal) error {
	c.compositeHooks()
	if c.State() != types.Active && c.State() != types.Paused {
		return c.fail("terminate", types.ErrInvalidState, c.State())
	}
	if c.callInProgress {
		out := types.DefaultSignal()
		if signal != nil {
			out = *signal
		}
		c.deferred = &out
		return nil
	}
	c.deferred = nil
	return c.BaseNode.terminate(signal, func() error {
		c.UnsubscribeAll()
		return c.terminateAllChildren()
	})
}

// TerminationDeferred reports whether a termination is waiting for the next tick.
func (c *Composite) TerminationDeferred() bool {
	return c.deferred != nil
}

// Pause pauses the composite and cascades to every live child.
func (c *Composite) Pause() error {
	c.compositeHooks()
	if err := c.BaseNode.Pause(); err != nil {
		return err
	}
	c.reconcile()
	for _, id := range append([]string(nil), c.order...) {
		if child, ok := c.children[id]; ok && child.State() == types.Active {
			if err := child.Pause(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Resume resumes the composite and cascades to every paused child.
func (c *Composite) Resume() error {
	c.compositeHooks()
	if err := c.BaseNode.Resume(); err != nil {
		return err
	}
	c.reconcile()
	for _, id := range append([]string(nil), c.order...) {
		if child, ok := c.children[id]; ok && child.State() == types.Paused {
			if err := child.Resume(); err != nil {
				return err
			}
		}
	}
	return nil
}

// ActivateChild resolves resolvable into a node, registers it and activates it with the merged child context.
// resolvable is a types.Node or a types.NodeFactory.
func (c *Composite) ActivateChild(resolvable types.Resolvable, opts ChildOptions) (types.Node, error) {
	v := c.compositeHooks()
	if c.State() != types.Active {
		return nil, c.fail("activateChild", types.ErrCompositeInactive, c.State())
	}

	input := types.DefaultSignal()
	if opts.InputSignal != nil {
		input = *opts.InputSignal
	}
	childCtx := c.Context().Merge(c.childContext, v.DefaultChildContext(), opts.Context)

	node := resolveNode(resolvable, childCtx, input)
	if node == nil {
		return nil, c.fail("activateChild", types.ErrNoNodeProduced, fmt.Sprintf("%T", resolvable))
	}

	attribute := opts.Attribute
	id := opts.Id
	if id == "" {
		id = attribute
	}
	isArrayAttribute := strings.HasSuffix(attribute, types.ArrayMarker)

	// replacing a bound attribute terminates the previous holder first
	if attribute != "" && !isArrayAttribute {
		if old := c.attributes[attribute]; old != nil {
			if err := c.dropChild(old, nil); err != nil {
				return nil, err
			}
			delete(c.attributes, attribute)
		}
	}

	switch {
	case strings.HasSuffix(id, types.ArrayMarker):
		base := strings.TrimSuffix(id, types.ArrayMarker)
		for {
			id = base + "[" + strconv.Itoa(c.arrayCounters[base]) + "]"
			c.arrayCounters[base]++
			if _, exists := c.children[id]; !exists {
				break
			}
		}
	case id == "":
		for {
			id = strconv.Itoa(c.nextChildIndex)
			c.nextChildIndex++
			if _, exists := c.children[id]; !exists {
				break
			}
		}
	default:
		if _, exists := c.children[id]; exists {
			return nil, c.fail("activateChild", types.ErrDuplicateId, id)
		}
	}

	c.children[id] = node
	c.order = append(c.order, id)
	if attribute != "" {
		c.bindAttribute(attribute, node)
	}
	if opts.IncludeInChildContext {
		key := strings.TrimSuffix(attribute, types.ArrayMarker)
		if key == "" {
			key = id
		}
		c.childContext[key] = node
	}

	var childMemento *types.Memento
	if !c.restored[id] {
		if childMemento = c.Memento().Child(id); childMemento != nil {
			c.restored[id] = true
		}
	}

	c.Emit(types.EventBeforeActivateChild, node, childCtx, input)
	if err := node.Activate(c.TickInfo(), childCtx, &input, childMemento); err != nil {
		if attribute != "" {
			c.Unsubscribe(node, types.EventTerminated)
			c.unbindAttribute(attribute, node)
		}
		c.removeChild(id)
		return nil, err
	}
	c.Emit(types.EventActivatedChild, node, childCtx, input)
	return node, nil
}

// TerminateChild terminates a live child and removes it.
func (c *Composite) TerminateChild(node types.Node, signal *types.Signal) error {
	c.compositeHooks()
	if c.State() != types.Active && c.State() != types.Paused {
		return c.fail("terminateChild", types.ErrCompositeInactive, c.State())
	}
	if _, ok := c.childId(node); !ok {
		return c.fail("terminateChild", types.ErrChildNotFound, node.Kind())
	}
	return c.dropChild(node, signal)
}

// dropChild terminates node if it is still running and removes it from the children.
func (c *Composite) dropChild(node types.Node, signal *types.Signal) error {
	var err error
	if node.State() != types.Inactive {
		err = node.Terminate(signal)
	}
	if id, ok := c.childId(node); ok {
		c.removeChild(id)
		c.Emit(types.EventChildTerminated, node, id)
	}
	return err
}

// Children returns the live children by id.
func (c *Composite) Children() map[string]types.Node {
	out := make(map[string]types.Node, len(c.children))
	for id, child := range c.children {
		out[id] = child
	}
	return out
}

// ChildIds returns the ids of the live children in registration order.
func (c *Composite) ChildIds() []string {
	return append([]string(nil), c.order...)
}

// Child returns a live child by id.
func (c *Composite) Child(id string) (types.Node, bool) {
	child, ok := c.children[id]
	return child, ok
}

// Attr returns the node bound to a single-valued attribute.
func (c *Composite) Attr(name string) types.Node {
	return c.attributes[name]
}

// AttrList returns the nodes bound to an array attribute, name may carry the array marker.
func (c *Composite) AttrList(name string) []types.Node {
	return append([]types.Node(nil), c.attributeLists[strings.TrimSuffix(name, types.ArrayMarker)]...)
}

// ChildContext returns the context a child activated now would receive, without per-call overrides.
func (c *Composite) ChildContext() types.Context {
	return c.Context().Merge(c.childContext, c.compositeHooks().DefaultChildContext())
}

// AddChildContext makes node visible under name to the children activated afterwards.
// The entry is dropped when node is removed.
func (c *Composite) AddChildContext(name string, node types.Node) error {
	if c.State() != types.Active && c.State() != types.Paused {
		return c.fail("addChildContext", types.ErrCompositeInactive, c.State())
	}
	if _, ok := c.childId(node); !ok {
		return c.fail("addChildContext", types.ErrChildNotFound, name)
	}
	c.childContext[name] = node
	return nil
}

// OnAfterTick is the default after-tick hook.
func (c *Composite) OnAfterTick() error {
	return nil
}

// DefaultChildContext is the default child-context hook.
func (c *Composite) DefaultChildContext() types.ContextResolvable {
	return nil
}

func (c *Composite) bindAttribute(attribute string, node types.Node) {
	if strings.HasSuffix(attribute, types.ArrayMarker) {
		base := strings.TrimSuffix(attribute, types.ArrayMarker)
		c.attributeLists[base] = append(c.attributeLists[base], node)
	} else {
		c.attributes[attribute] = node
	}
	// one-shot cleanup once the child terminates
	_ = c.SubscribeOnce(node, types.EventTerminated, func(args ...interface{}) {
		c.unbindAttribute(attribute, node)
	})
}

func (c *Composite) unbindAttribute(attribute string, node types.Node) {
	if strings.HasSuffix(attribute, types.ArrayMarker) {
		base := strings.TrimSuffix(attribute, types.ArrayMarker)
		list := c.attributeLists[base]
		for i, item := range list {
			if item == node {
				c.attributeLists[base] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		if len(c.attributeLists[base]) == 0 {
			delete(c.attributeLists, base)
		}
	} else if c.attributes[attribute] == node {
		delete(c.attributes, attribute)
	}
}

func (c *Composite) childId(node types.Node) (string, bool) {
	for _, id := range c.order {
		if c.children[id] == node {
			return id, true
		}
	}
	return "", false
}

func (c *Composite) removeChild(id string) {
	node, ok := c.children[id]
	if !ok {
		return
	}
	delete(c.children, id)
	for i, item := range c.order {
		if item == id {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
	for key, value := range c.childContext {
		if value == node {
			delete(c.childContext, key)
		}
	}
}

// reconcile removes the children that became inactive and emits EventChildTerminated for each.
func (c *Composite) reconcile() {
	for _, id := range append([]string(nil), c.order...) {
		child := c.children[id]
		if child != nil && child.State() == types.Inactive {
			c.removeChild(id)
			c.Emit(types.EventChildTerminated, child, id)
		}
	}
}

func (c *Composite) terminateAllChildren() error {
	var firstErr error
	for _, id := range append([]string(nil), c.order...) {
		child, ok := c.children[id]
		if !ok {
			continue
		}
		if child.State() != types.Inactive {
			if err := child.Terminate(nil); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		c.removeChild(id)
		c.Emit(types.EventChildTerminated, child, id)
	}
	c.attributes = make(map[string]types.Node)
	c.attributeLists = make(map[string][]types.Node)
	return firstErr
}

// discardChildren terminates whatever was started by a failed activation.
func (c *Composite) discardChildren() {
	for _, id := range append([]string(nil), c.order...) {
		if child := c.children[id]; child != nil && child.State() != types.Inactive {
			_ = child.Terminate(nil)
		}
	}
	c.reset()
}

// resolveNode turns a Node or NodeFactory into a node. It returns nil when nothing was produced.
func resolveNode(resolvable types.Resolvable, ctx types.Context, input types.Signal) types.Node {
	node := resolve(resolvable, ctx, input)
	if node == nil {
		return nil
	}
	if v := reflect.ValueOf(node); v.Kind() == reflect.Ptr && v.IsNil() {
		return nil
	}
	return node
}

func resolve(resolvable types.Resolvable, ctx types.Context, input types.Signal) types.Node {
	switch r := resolvable.(type) {
	case nil:
		return nil
	case types.Node:
		return r
	case types.NodeFactory:
		if r == nil {
			return nil
		}
		return r(ctx, input)
	case func(types.Context, types.Signal) types.Node:
		if r == nil {
			return nil
		}
		return r(ctx, input)
	default:
		return nil
	}
}
