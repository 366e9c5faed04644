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

func (c *CPU) executeThumb(opcode uint16) int {
	// working backwards up the table of Thumb instruction formats
	if opcode&0xf800 == 0xf000 {
		// format 19 - Long branch with link (first half)
		return c.thumbLongBranchPrefix(opcode)
	} else if opcode&0xf800 == 0xf800 {
		// format 19 - Long branch with link (second half)
		return c.thumbLongBranchSuffix(opcode, false)
	} else if opcode&0xf800 == 0xe800 {
		// second half of the long branch with link and exchange
		if opcode&0x01 == 0x01 {
			return c.unknownThumb(opcode)
		}
		return c.thumbLongBranchSuffix(opcode, true)
	} else if opcode&0xf800 == 0xe000 {
		// format 18 - Unconditional branch
		return c.thumbUnconditionalBranch(opcode)
	} else if opcode&0xff00 == 0xdf00 {
		// format 17 - Software interrupt
		return c.thumbSoftwareInterrupt(opcode)
	} else if opcode&0xf000 == 0xd000 {
		// format 16 - Conditional branch
		return c.thumbConditionalBranch(opcode)
	} else if opcode&0xf600 == 0xb400 {
		// format 14 - Push/pop registers
		return c.thumbPushPopRegisters(opcode)
	} else if opcode&0xe000 == 0x6000 {
		// format 9 - Load/store with immediate offset
		return c.thumbLoadStoreWithImmOffset(opcode)
	} else if opcode&0xf800 == 0x4800 {
		// format 6 - PC-relative load
		return c.thumbPCrelativeLoad(opcode)
	} else if opcode&0xfc00 == 0x4400 {
		// format 5 - Hi register operations/branch exchange
		return c.thumbHiRegisterOps(opcode)
	} else if opcode&0xe000 == 0x2000 {
		// format 3 - Move/compare/add/subtract immediate
		return c.thumbMovCmpAddSubImm(opcode)
	} else if opcode&0xf800 == 0x1800 {
		// format 2 - Add/subtract
		return c.thumbAddSubtract(opcode)
	} else if opcode&0xe000 == 0x0000 {
		// format 1 - Move shifted register
		return c.thumbMoveShiftedRegister(opcode)
	}

	return c.unknownThumb(opcode)
}

func (c *CPU) thumbMoveShiftedRegister(opcode uint16) int {
	op := uint32(opcode>>11) & 0x03
	amount := uint32(opcode>>6) & 0x1f
	srcReg := int(opcode>>3) & 0x07
	destReg := int(opcode) & 0x07

	result, carry := c.shiftImmediate(c.reg(srcReg), op, amount)
	c.setReg(destReg, result)
	c.setLogicalFlags(result, carry)

	return 1
}

func (c *CPU) thumbAddSubtract(opcode uint16) int {
	immediate := opcode&0x0400 == 0x0400
	subtract := opcode&0x0200 == 0x0200
	field := int(opcode>>6) & 0x07
	srcReg := int(opcode>>3) & 0x07
	destReg := int(opcode) & 0x07

	operand := uint32(field)
	if !immediate {
		operand = c.reg(field)
	}

	var result uint32
	var carry, overflow bool
	if subtract {
		result, carry, overflow = addWithCarry(c.reg(srcReg), ^operand, 1)
	} else {
		result, carry, overflow = addWithCarry(c.reg(srcReg), operand, 0)
	}

	c.setReg(destReg, result)
	c.setArithmeticFlags(result, carry, overflow)

	return 1
}

func (c *CPU) thumbMovCmpAddSubImm(opcode uint16) int {
	op := (opcode >> 11) & 0x03
	destReg := int(opcode>>8) & 0x07
	imm := uint32(opcode & 0xff)

	var result uint32
	var carry, overflow bool

	switch op {
	case 0b00:
		// MOV. carry and overflow are unaffected
		c.setReg(destReg, imm)
		c.cpsr.setNZ(imm)
		return 1
	case 0b01:
		// CMP
		result, carry, overflow = addWithCarry(c.reg(destReg), ^imm, 1)
		c.setArithmeticFlags(result, carry, overflow)
		return 1
	case 0b10:
		// ADD
		result, carry, overflow = addWithCarry(c.reg(destReg), imm, 0)
	case 0b11:
		// SUB
		result, carry, overflow = addWithCarry(c.reg(destReg), ^imm, 1)
	}

	c.setReg(destReg, result)
	c.setArithmeticFlags(result, carry, overflow)

	return 1
}

func (c *CPU) thumbHiRegisterOps(opcode uint16) int {
	op := (opcode >> 8) & 0x03
	destReg := int(opcode&0x07) | int(opcode>>4)&0x08
	srcReg := int(opcode>>3) & 0x0f

	switch op {
	case 0b00:
		// ADD. flags are unaffected
		result := c.reg(destReg) + c.reg(srcReg)
		if destReg == rPC {
			c.branch(result)
			return 3
		}
		c.setReg(destReg, result)
	case 0b01:
		// CMP
		result, carry, overflow := addWithCarry(c.reg(destReg), ^c.reg(srcReg), 1)
		c.setArithmeticFlags(result, carry, overflow)
	case 0b10:
		// MOV. flags are unaffected
		result := c.reg(srcReg)
		if destReg == rPC {
			c.branch(result)
			return 3
		}
		c.setReg(destReg, result)
	case 0b11:
		// BX and BLX
		addr := c.reg(srcReg)
		if opcode&0x0080 == 0x0080 {
			c.setReg(rLR, (c.regs[rPC]-2)|0x01)
		}
		c.branchExchange(addr)
		return 3
	}

	return 1
}

func (c *CPU) thumbPCrelativeLoad(opcode uint16) int {
	destReg := int(opcode>>8) & 0x07
	addr := (c.regs[rPC] &^ 0x03) + uint32(opcode&0xff)<<2
	c.setReg(destReg, c.mem.Read32(c.id, addr))
	return 3
}

func (c *CPU) thumbLoadStoreWithImmOffset(opcode uint16) int {
	byteTransfer := opcode&0x1000 == 0x1000
	load := opcode&0x0800 == 0x0800
	offset := uint32(opcode>>6) & 0x1f
	baseReg := int(opcode>>3) & 0x07
	reg := int(opcode) & 0x07

	if !byteTransfer {
		offset <<= 2
	}
	addr := c.reg(baseReg) + offset

	if load {
		if byteTransfer {
			c.setReg(reg, uint32(c.mem.Read8(c.id, addr)))
		} else {
			c.setReg(reg, bits.RotateLeft32(c.mem.Read32(c.id, addr&^0x03), -int(addr&0x03)*8))
		}
		return 3
	}

	if byteTransfer {
		c.mem.Write8(c.id, addr, uint8(c.reg(reg)))
	} else {
		c.mem.Write32(c.id, addr&^0x03, c.reg(reg))
	}
	return 2
}

func (c *CPU) thumbPushPopRegisters(opcode uint16) int {
	load := opcode&0x0800 == 0x0800
	extra := opcode&0x0100 == 0x0100
	list := uint32(opcode & 0xff)

	count := bits.OnesCount32(list)
	if extra {
		count++
	}

	sp := c.reg(rSP)

	if load {
		// POP. the extra register is the PC
		for r := 0; r < 8; r++ {
			if list&(1<<r) == 0 {
				continue
			}
			c.setReg(r, c.mem.Read32(c.id, sp&^0x03))
			sp += 4
		}

		if extra {
			pc := c.mem.Read32(c.id, sp&^0x03)
			sp += 4
			c.setReg(rSP, sp)
			c.branchExchange(pc)
			return count + 4
		}

		c.setReg(rSP, sp)
		return count + 2
	}

	// PUSH. the extra register is the LR
	sp -= uint32(count) * 4
	c.setReg(rSP, sp)

	for r := 0; r < 8; r++ {
		if list&(1<<r) == 0 {
			continue
		}
		c.mem.Write32(c.id, sp&^0x03, c.reg(r))
		sp += 4
	}
	if extra {
		c.mem.Write32(c.id, sp&^0x03, c.reg(rLR))
	}

	return count + 1
}

func (c *CPU) thumbConditionalBranch(opcode uint16) int {
	cond := uint32(opcode>>8) & 0x0f
	if cond == 0b1110 {
		return c.unknownThumb(opcode)
	}

	if !c.cpsr.condition(cond) {
		return 1
	}

	offset := uint32(int32(int8(opcode&0xff)) << 1)
	c.branch(c.regs[rPC] + offset)
	return 3
}

func (c *CPU) thumbSoftwareInterrupt(_ uint16) int {
	// the return address is the instruction after the SWI
	c.regs[rPC] -= 4
	return c.Exception(VectorSWI)
}

func (c *CPU) thumbUnconditionalBranch(opcode uint16) int {
	offset := uint32(int32(uint32(opcode)<<21) >> 20)
	c.branch(c.regs[rPC] + offset)
	return 3
}

func (c *CPU) thumbLongBranchPrefix(opcode uint16) int {
	offset := uint32(int32(uint32(opcode)<<21) >> 9)
	c.setReg(rLR, c.regs[rPC]+offset)
	return 1
}

func (c *CPU) thumbLongBranchSuffix(opcode uint16, exchange bool) int {
	target := c.reg(rLR) + uint32(opcode&0x07ff)<<1
	c.setReg(rLR, (c.regs[rPC]-2)|0x01)

	if exchange {
		c.cpsr &^= StatusThumb
		c.branch(target &^ 0x03)
		return 3
	}

	c.branch(target)
	return 3
}
