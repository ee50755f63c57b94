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
	"errors"
	"fmt"
)

var (
	// ErrInvalidState is returned by a lifecycle call made from a disallowed state.
	ErrInvalidState = errors.New("invalid state")
	// ErrCompositeInactive is returned when children are added or removed on an inactive composite.
	ErrCompositeInactive = errors.New("composite is not active")
	// ErrDuplicateId is returned when a child id is already used by a live child.
	ErrDuplicateId = errors.New("duplicate child id")
	// ErrNoNodeProduced is returned when a node factory returns nil.
	ErrNoNodeProduced = errors.New("no node produced")
	// ErrChildNotFound is returned when a node is not a live child of the composite.
	ErrChildNotFound = errors.New("child not found")
	// ErrEntryNotFound is returned when a queued or sequenced entry does not exist.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrUnknownState is returned when a state machine cannot route a signal to a state.
	ErrUnknownState = errors.New("unknown state")
	// ErrUnsupportedEmitter is returned when an emitter has no recognised subscription shape and no adapter.
	ErrUnsupportedEmitter = errors.New("unsupported emitter")
	// ErrComponentNotFound is returned when a component type is not registered.
	ErrComponentNotFound = errors.New("component not found")
	// ErrComponentExists is returned when a component type is registered twice.
	ErrComponentExists = errors.New("the component already exists")
	// ErrDslEmpty is returned when a tree definition is empty.
	ErrDslEmpty = errors.New("dsl can not empty")
)

// Error describes a failed node operation.
// It wraps one of the sentinel errors so callers can use errors.Is.
type Error struct {
	// Node is the kind of the node that failed
	Node string
	// Op is the operation, e.g. "activate" or "activateChild"
	Op string
	// Detail is optional extra information
	Detail string
	// Err is the underlying sentinel error
	Err error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s.%s: %v: %s", e.Node, e.Op, e.Err, e.Detail)
	}
	return fmt.Sprintf("%s.%s: %v", e.Node, e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a node error.
func NewError(node, op string, err error) *Error {
	return &Error{Node: node, Op: op, Err: err}
}

// NewErrorf creates a node error with a formatted detail.
func NewErrorf(node, op string, err error, format string, args ...interface{}) *Error {
	return &Error{Node: node, Op: op, Err: err, Detail: fmt.Sprintf(format, args...)}
}

// IsInvalidState checks if an error is an invalid state error
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}
