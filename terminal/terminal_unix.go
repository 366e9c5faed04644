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

//go:build linux || darwin || freebsd || netbsd || openbsd

package terminal

import (
	"fmt"
	"io"
	"os"

	"github.com/hydr8gon/3beans/curated"
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// NotATerminal is the error pattern returned when the input is not a
// terminal.
const NotATerminal = "terminal: %v"

// Terminal is the container for a posix terminal.
type Terminal struct {
	input  *os.File
	output io.Writer

	canAttr    unix.Termios
	cbreakAttr unix.Termios
}

// Open prepares the input and output files for single key reads. The terminal
// is left in canonical mode.
func Open(input *os.File, output io.Writer) (*Terminal, error) {
	t := &Terminal{
		input:  input,
		output: output,
	}

	if err := termios.Tcgetattr(t.input.Fd(), &t.canAttr); err != nil {
		return nil, curated.Errorf(NotATerminal, err)
	}

	// cbreak mode is the canonical mode without line buffering and echo
	t.cbreakAttr = t.canAttr
	termios.Cfmakecbreak(&t.cbreakAttr)

	return t, nil
}

// Close restores the terminal to canonical mode.
func (t *Terminal) Close() error {
	return t.CanonicalMode()
}

// CanonicalMode puts terminal into normal, everyday canonical mode.
func (t *Terminal) CanonicalMode() error {
	return termios.Tcsetattr(t.input.Fd(), termios.TCSANOW, &t.canAttr)
}

// CBreakMode puts terminal into cbreak mode.
func (t *Terminal) CBreakMode() error {
	return termios.Tcsetattr(t.input.Fd(), termios.TCSANOW, &t.cbreakAttr)
}

// WaitForKey prints the prompt and waits for a single key press.
func (t *Terminal) WaitForKey(prompt string) (byte, error) {
	if prompt != "" {
		fmt.Fprintf(t.output, "%s ", prompt)
	}

	if err := t.CBreakMode(); err != nil {
		return 0, err
	}
	defer t.CanonicalMode()

	var b [1]byte
	if _, err := t.input.Read(b[:]); err != nil {
		return 0, err
	}

	if prompt != "" {
		fmt.Fprintln(t.output)
	}

	return b[0], nil
}
