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

import "math/bits"

// list of shift types used by the barrel shifter
const (
	shiftLSL = iota
	shiftLSR
	shiftASR
	shiftROR
)

// shift by an immediate amount. returns the shifted value and the shifter
// carry out
//
// from "A5.1.4 Data-processing operands - Logical shift left by immediate"
// and the following sections in the ARM Architecture Reference Manual
func (c *CPU) shiftImmediate(value uint32, kind uint32, amount uint32) (uint32, bool) {
	switch kind {
	case shiftLSL:
		if amount == 0 {
			return value, c.cpsr&StatusCarry == StatusCarry
		}
		return value << amount, (value>>(32-amount))&0x01 == 0x01

	case shiftLSR:
		// an amount of zero encodes a shift of 32
		if amount == 0 {
			return 0, value&0x80000000 == 0x80000000
		}
		return value >> amount, (value>>(amount-1))&0x01 == 0x01

	case shiftASR:
		if amount == 0 {
			if value&0x80000000 == 0x80000000 {
				return 0xffffffff, true
			}
			return 0, false
		}
		return uint32(int32(value) >> amount), (value>>(amount-1))&0x01 == 0x01

	case shiftROR:
		// an amount of zero encodes rotate right with extend
		if amount == 0 {
			return c.cpsr.carry()<<31 | value>>1, value&0x01 == 0x01
		}
		return bits.RotateLeft32(value, -int(amount)), (value>>(amount-1))&0x01 == 0x01
	}

	panic("cpu: impossible shift type")
}

// the rotated 8bit immediate value used by data processing and MSR
// instructions. returns the value and the shifter carry out
func (c *CPU) rotatedImmediate(opcode uint32) (uint32, bool) {
	rotate := int((opcode>>8)&0x0f) * 2
	value := bits.RotateLeft32(opcode&0xff, -rotate)
	if rotate == 0 {
		return value, c.cpsr&StatusCarry == StatusCarry
	}
	return value, value&0x80000000 == 0x80000000
}

// addition with carry in. subtraction is achieved by adding the complement of
// the second operand with a carry in of one. returns the result, the carry
// out and signed overflow
func addWithCarry(a, b, carry uint32) (uint32, bool, bool) {
	r := uint64(a) + uint64(b) + uint64(carry)
	result := uint32(r)
	overflow := (^(a ^ b) & (a ^ result) & 0x80000000) == 0x80000000
	return result, r > 0xffffffff, overflow
}

// set flags after an arithmetic operation
func (c *CPU) setArithmeticFlags(result uint32, carry bool, overflow bool) {
	c.cpsr.setNZ(result)
	c.cpsr.set(StatusCarry, carry)
	c.cpsr.set(StatusOverflow, overflow)
}

// set flags after a logical operation
func (c *CPU) setLogicalFlags(result uint32, carry bool) {
	c.cpsr.setNZ(result)
	c.cpsr.set(StatusCarry, carry)
}
