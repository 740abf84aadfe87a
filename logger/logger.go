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

// Package logger is a small, dependency-free log of recent events kept by
// the debug core. Every entry is tagged with a short subsystem name (eg.
// "dpm", "pracc", "tap") so that Write() output can be filtered for the part
// of the core that produced it.
//
// Logging is permission-gated rather than level-gated: the first argument to
// Log/Logf is anything satisfying the Permission interface. Most call sites
// pass the package-level Allow value, which always permits the entry. A
// caller that wants to silence logging for some scope of operation (eg. the
// tight polling loop inside a DPM handshake, which would otherwise flood the
// log at DEBUG volume) can pass its own Permission implementation instead.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Permission is consulted before an entry is recorded. Implementations that
// are context-sensitive (eg. "only log every Nth poll") can suppress entries
// without the caller needing to branch.
type Permission interface {
	AllowLogging() bool
}

type allowAll struct{}

// AllowLogging implements the Permission interface. It always returns true.
func (allowAll) AllowLogging() bool {
	return true
}

// Allow is the Permission value used by callers that always want their
// entries recorded.
var Allow = allowAll{}

type entry struct {
	tag     string
	message string
}

func (e entry) String() string {
	return fmt.Sprintf("%s: %s", e.tag, e.message)
}

// Logger is a bounded, in-memory log. The zero value is not usable; build one
// with NewLogger.
type Logger struct {
	mu       sync.Mutex
	entries  []entry
	capacity int
}

// NewLogger is the preferred method of initialisation for the Logger type.
// capacity bounds the number of entries retained; the oldest entries are
// discarded once it is exceeded.
func NewLogger(capacity int) *Logger {
	if capacity <= 0 {
		capacity = 1
	}
	return &Logger{capacity: capacity}
}

func render(detail interface{}) string {
	switch d := detail.(type) {
	case error:
		return d.Error()
	case fmt.Stringer:
		return d.String()
	case string:
		return d
	default:
		return fmt.Sprintf("%v", d)
	}
}

func (l *Logger) add(tag, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry{tag: tag, message: message})
	if len(l.entries) > l.capacity {
		l.entries = l.entries[len(l.entries)-l.capacity:]
	}
}

// Log records detail under tag, subject to perm.AllowLogging(). detail may be
// a string, an error, a fmt.Stringer, or any other value (rendered with the
// %v verb).
func (l *Logger) Log(perm Permission, tag string, detail interface{}) {
	if !perm.AllowLogging() {
		return
	}
	l.add(tag, render(detail))
}

// Logf is like Log but with printf-style formatting of the message.
func (l *Logger) Logf(perm Permission, tag string, format string, args ...interface{}) {
	if !perm.AllowLogging() {
		return
	}
	l.add(tag, fmt.Sprintf(format, args...))
}

// Clear discards every recorded entry.
func (l *Logger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Write renders every recorded entry to w, one per line, oldest first.
func (l *Logger) Write(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var b strings.Builder
	for _, e := range l.entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	io.WriteString(w, b.String())
}

// Tail renders the most recent n entries to w, oldest first. Asking for more
// entries than exist is not an error; Tail writes everything there is.
func (l *Logger) Tail(w io.Writer, n int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n > len(l.entries) {
		n = len(l.entries)
	}
	if n <= 0 {
		return
	}

	var b strings.Builder
	for _, e := range l.entries[len(l.entries)-n:] {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	io.WriteString(w, b.String())
}

// central is the process-wide logger used by package-level Log/Logf/Write/Tail.
var central = NewLogger(4096)

// Log records detail under tag on the process-wide logger, always allowed.
func Log(tag string, detail interface{}) {
	central.Log(Allow, tag, detail)
}

// Logf is like Log but with printf-style formatting.
func Logf(tag string, format string, args ...interface{}) {
	central.Logf(Allow, tag, format, args...)
}

// Clear discards every entry in the process-wide logger. Intended for tests.
func Clear() {
	central.Clear()
}

// Write renders the process-wide logger to w.
func Write(w io.Writer) {
	central.Write(w)
}

// Tail renders the most recent n entries of the process-wide logger to w.
func Tail(w io.Writer, n int) {
	central.Tail(w, n)
}

// WriteRecent is a convenience for Tail() with a small, fixed window; useful
// for an interactive "what just happened" query.
func WriteRecent(w io.Writer) {
	central.Tail(w, 10)
}
