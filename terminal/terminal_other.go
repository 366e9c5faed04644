// This file is part of 3Beans.
//
// 3Beans is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// 3Beans is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with 3Beans.  If not, see <https://www.gnu.org/licenses/>.

//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package terminal

import (
	"io"
	"os"

	"github.com/hydr8gon/3beans/curated"
)

// NotATerminal is the error pattern returned when the input is not a
// terminal.
const NotATerminal = "terminal: %v"

// Terminal is not supported on this platform.
type Terminal struct{}

// Open always fails on this platform.
func Open(_ *os.File, _ io.Writer) (*Terminal, error) {
	return nil, curated.Errorf(NotATerminal, "not supported on this platform")
}

// Close does nothing on this platform.
func (t *Terminal) Close() error {
	return nil
}

// WaitForKey always returns the quit key on this platform.
func (t *Terminal) WaitForKey(_ string) (byte, error) {
	return 'q', nil
}
