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

package cpu

import "strings"

// Status is the value of a current or saved program status register.
type Status uint32

// List of status register bits.
const (
	StatusNegative   Status = 1 << 31
	StatusZero       Status = 1 << 30
	StatusCarry      Status = 1 << 29
	StatusOverflow   Status = 1 << 28
	StatusSaturation Status = 1 << 27

	StatusIRQDisable Status = 1 << 7
	StatusFIQDisable Status = 1 << 6
	StatusThumb      Status = 1 << 5

	statusModeMask Status = 0x1f
	statusFlags    Status = 0xf8000000
)

func (sr Status) String() string {
	s := strings.Builder{}
	s.WriteString("Status: ")

	flag := func(b Status, set, clear rune) {
		if sr&b == b {
			s.WriteRune(set)
		} else {
			s.WriteRune(clear)
		}
	}

	flag(StatusNegative, 'N', 'n')
	flag(StatusZero, 'Z', 'z')
	flag(StatusCarry, 'C', 'c')
	flag(StatusOverflow, 'V', 'v')
	flag(StatusSaturation, 'Q', 'q')
	s.WriteRune(' ')
	flag(StatusIRQDisable, 'I', 'i')
	flag(StatusFIQDisable, 'F', 'f')
	flag(StatusThumb, 'T', 't')
	s.WriteRune(' ')
	s.WriteString(sr.Mode().String())

	return s.String()
}

// Mode returns the processor mode bits.
func (sr Status) Mode() Mode {
	return Mode(sr & statusModeMask)
}

// WithMode returns a copy of the status with the mode bits replaced.
func (sr Status) WithMode(m Mode) Status {
	return (sr &^ statusModeMask) | Status(m)&statusModeMask
}

// Thumb returns true if the compact instruction encoding is selected.
func (sr Status) Thumb() bool {
	return sr&StatusThumb == StatusThumb
}

// IRQDisabled returns true if normal interrupts are masked.
func (sr Status) IRQDisabled() bool {
	return sr&StatusIRQDisable == StatusIRQDisable
}

func (sr Status) carry() uint32 {
	if sr&StatusCarry == StatusCarry {
		return 1
	}
	return 0
}

func (sr *Status) set(b Status, v bool) {
	if v {
		*sr |= b
	} else {
		*sr &^= b
	}
}

func (sr *Status) setNZ(result uint32) {
	sr.set(StatusNegative, result&0x80000000 == 0x80000000)
	sr.set(StatusZero, result == 0)
}

// conditional execution information from "A3.2 The condition field" in the
// ARM Architecture Reference Manual. condition 0b1111 is not handled here
func (sr Status) condition(cond uint32) bool {
	n := sr&StatusNegative == StatusNegative
	z := sr&StatusZero == StatusZero
	c := sr&StatusCarry == StatusCarry
	v := sr&StatusOverflow == StatusOverflow

	switch cond {
	case 0b0000:
		// equal
		return z
	case 0b0001:
		// not equal
		return !z
	case 0b0010:
		// carry set
		return c
	case 0b0011:
		// carry clear
		return !c
	case 0b0100:
		// minus
		return n
	case 0b0101:
		// plus
		return !n
	case 0b0110:
		// overflow
		return v
	case 0b0111:
		// no overflow
		return !v
	case 0b1000:
		// unsigned higher
		return c && !z
	case 0b1001:
		// unsigned lower or same
		return !c || z
	case 0b1010:
		// signed greater than or equal
		return n == v
	case 0b1011:
		// signed less than
		return n != v
	case 0b1100:
		// signed greater than
		return !z && n == v
	case 0b1101:
		// signed less than or equal
		return z || n != v
	case 0b1110:
		return true
	}

	return false
}
