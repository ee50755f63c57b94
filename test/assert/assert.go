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

// Package assert provides the small set of assertions used by the package tests.
package assert

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

// Equal asserts that expected and actual are deeply equal.
func Equal(t testing.TB, expected, actual interface{}, msgAndArgs ...interface{}) {
	t.Helper()
	if !ObjectsAreEqual(expected, actual) {
		t.Errorf("Not equal:\nexpected: %#v\nactual  : %#v%s", expected, actual, message(msgAndArgs))
	}
}

// NotEqual asserts that expected and actual are not deeply equal.
func NotEqual(t testing.TB, expected, actual interface{}, msgAndArgs ...interface{}) {
	t.Helper()
	if ObjectsAreEqual(expected, actual) {
		t.Errorf("Should not be: %#v%s", actual, message(msgAndArgs))
	}
}

// Nil asserts that object is nil, including typed nils.
func Nil(t testing.TB, object interface{}, msgAndArgs ...interface{}) {
	t.Helper()
	if !isNil(object) {
		t.Errorf("Expected nil, but got: %#v%s", object, message(msgAndArgs))
	}
}

// NotNil asserts that object is not nil.
func NotNil(t testing.TB, object interface{}, msgAndArgs ...interface{}) {
	t.Helper()
	if isNil(object) {
		t.Errorf("Expected value not to be nil%s", message(msgAndArgs))
	}
}

// True asserts that value is true.
func True(t testing.TB, value bool, msgAndArgs ...interface{}) {
	t.Helper()
	if !value {
		t.Errorf("Should be true%s", message(msgAndArgs))
	}
}

// False asserts that value is false.
func False(t testing.TB, value bool, msgAndArgs ...interface{}) {
	t.Helper()
	if value {
		t.Errorf("Should be false%s", message(msgAndArgs))
	}
}

// NoError asserts that err is nil.
func NoError(t testing.TB, err error, msgAndArgs ...interface{}) {
	t.Helper()
	if err != nil {
		t.Errorf("Received unexpected error: %v%s", err, message(msgAndArgs))
	}
}

// EqualError asserts that err is not nil and its message equals expected.
func EqualError(t testing.TB, err error, expected string, msgAndArgs ...interface{}) {
	t.Helper()
	if err == nil {
		t.Errorf("An error is expected but got nil%s", message(msgAndArgs))
		return
	}
	if err.Error() != expected {
		t.Errorf("Error message not equal:\nexpected: %q\nactual  : %q%s", expected, err.Error(), message(msgAndArgs))
	}
}

// ErrorIs asserts that errors.Is(err, target).
func ErrorIs(t testing.TB, err, target error, msgAndArgs ...interface{}) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Errorf("Error %v is not %v%s", err, target, message(msgAndArgs))
	}
}

// Fail reports a failure.
func Fail(t testing.TB, failureMessage string, msgAndArgs ...interface{}) {
	t.Helper()
	t.Errorf("%s%s", failureMessage, message(msgAndArgs))
}

// ObjectsAreEqual reports whether expected and actual are deeply equal, comparing []byte by content.
func ObjectsAreEqual(expected, actual interface{}) bool {
	if expected == nil || actual == nil {
		return expected == actual
	}
	exp, ok := expected.([]byte)
	if !ok {
		return reflect.DeepEqual(expected, actual)
	}
	act, ok := actual.([]byte)
	if !ok {
		return false
	}
	return string(exp) == string(act)
}

func isNil(object interface{}) bool {
	if object == nil {
		return true
	}
	value := reflect.ValueOf(object)
	switch value.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice, reflect.UnsafePointer:
		return value.IsNil()
	}
	return false
}

func message(msgAndArgs []interface{}) string {
	if len(msgAndArgs) == 0 {
		return ""
	}
	if len(msgAndArgs) == 1 {
		if s, ok := msgAndArgs[0].(string); ok {
			return "\n" + s
		}
	}
	return "\n" + fmt.Sprint(msgAndArgs...)
}
