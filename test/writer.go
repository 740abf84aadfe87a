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

package test

import "strings"

// Writer is an io.Writer that accumulates everything written to it, for
// later comparison in a test. The zero value is ready to use.
type Writer struct {
	s strings.Builder
}

// Write implements the io.Writer interface.
func (w *Writer) Write(p []byte) (int, error) {
	return w.s.Write(p)
}

// Compare returns true if everything written to w so far equals s.
func (w *Writer) Compare(s string) bool {
	return w.s.String() == s
}

// Clear resets the writer back to empty.
func (w *Writer) Clear() {
	w.s.Reset()
}

// String returns everything written to w so far.
func (w *Writer) String() string {
	return w.s.String()
}
