// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

// Package test collects small assertion helpers shared by the test suites of
// every other package in the module. It deliberately stays free of any
// dependency on the packages it helps test.
package test

import (
	"reflect"
	"testing"
)

// Equate fails the test if got and want are not equal. Every value is
// compared with reflect.DeepEqual.
func Equate(t *testing.T, got, want interface{}) {
	t.Helper()

	if a, ok := got.([]byte); ok {
		if b, ok := want.([]byte); ok {
			if !reflect.DeepEqual(a, b) {
				t.Errorf("not equal: got %v, wanted %v", got, want)
			}
			return
		}
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("not equal: got %v, wanted %v", got, want)
	}
}

// ExpectEquality is an alias for Equate, kept for call sites that read more
// naturally with the longer name.
func ExpectEquality(t *testing.T, got, want interface{}) {
	t.Helper()
	Equate(t, got, want)
}

// ExpectedSuccess fails the test unless cond is true.
func ExpectedSuccess(t *testing.T, cond bool) {
	t.Helper()

	if !cond {
		t.Errorf("expected success but got failure")
	}
}

// ExpectedFailure fails the test unless cond is false.
func ExpectedFailure(t *testing.T, cond bool) {
	t.Helper()

	if cond {
		t.Errorf("expected failure but got success")
	}
}

// NoError fails the test if err is non-nil.
func NoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// ExpectedError fails the test if err is nil.
func ExpectedError(t *testing.T, err error) {
	t.Helper()

	if err == nil {
		t.Errorf("expected an error but got none")
	}
}
