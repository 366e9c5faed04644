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

// Package terminal reads single key presses from the controlling terminal.
// It is a wrapper for "github.com/pkg/term/termios" that puts the terminal
// into cbreak mode for the duration of each key press.
//
// The package is used to advance the emulation one frame at a time:
//
//	t, err := terminal.Open(os.Stdin, os.Stdout)
//	...
//	for {
//		m.RunFrame()
//		k, err := t.WaitForKey("next frame")
//		...
//		if StepActionFor(k) == StepQuit {
//			break
//		}
//	}
//	t.Close()
//
// On platforms without termios support, Open() always returns an error.
package terminal

// list of ASCII codes for non-alphanumeric characters
const (
	KeyInterrupt      = 3  // end-of-text character
	KeySuspend        = 26 // substitute character
	KeyTab            = 9
	KeyLineFeed       = 10
	KeyCarriageReturn = 13
	KeyEsc            = 27
	KeySpace          = 32
	KeyBackspace      = 8
)

// StepAction is the result of a key press when stepping through frames.
type StepAction int

// List of valid StepAction values.
const (
	StepNone StepAction = iota
	StepFrame
	StepContinue
	StepQuit
)

func (a StepAction) String() string {
	switch a {
	case StepFrame:
		return "frame"
	case StepContinue:
		return "continue"
	case StepQuit:
		return "quit"
	}
	return "none"
}

// StepActionFor returns the action for a key press.
func StepActionFor(key byte) StepAction {
	switch key {
	case KeySpace, KeyCarriageReturn, KeyLineFeed, 'n', 'N':
		return StepFrame
	case 'c', 'C':
		return StepContinue
	case 'q', 'Q', KeyEsc, KeyInterrupt:
		return StepQuit
	}
	return StepNone
}
