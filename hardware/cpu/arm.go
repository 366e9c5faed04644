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

func (c *CPU) executeARM(opcode uint32) int {
	cond := opcode >> 28
	if cond == 0b1111 {
		return c.armUnconditional(opcode)
	}

	if !c.cpsr.condition(cond) {
		return 1
	}

	if opcode&0x0ffffff0 == 0x012fff10 {
		// branch and exchange
		return c.armBranchExchange(opcode, false)
	} else if opcode&0x0ffffff0 == 0x012fff30 {
		// branch with link and exchange (register)
		return c.armBranchExchange(opcode, true)
	} else if opcode&0x0fffff00 == 0x0320f000 {
		// hints
		return c.armHint(opcode)
	} else if opcode&0x0fbf0fff == 0x010f0000 {
		// move status register to register
		return c.armMoveFromStatus(opcode)
	} else if opcode&0x0fb0fff0 == 0x0120f000 || opcode&0x0fb0f000 == 0x0320f000 {
		// move register or immediate to status register
		return c.armMoveToStatus(opcode)
	} else if opcode&0x0c000000 == 0x00000000 {
		if opcode&0x02000010 == 0x00000010 {
			// register shifted by register, multiplies and the extra load/store
			// instructions
			return c.unknownARM(opcode)
		}
		if opcode&0x01900000 == 0x01000000 {
			// comparisons without the S bit are the miscellaneous instructions
			return c.unknownARM(opcode)
		}
		return c.armDataProcessing(opcode)
	} else if opcode&0x0c000000 == 0x04000000 {
		if opcode&0x02000010 == 0x02000010 {
			// media instructions
			return c.unknownARM(opcode)
		}
		return c.armSingleDataTransfer(opcode)
	} else if opcode&0x0e000000 == 0x08000000 {
		return c.armBlockDataTransfer(opcode)
	} else if opcode&0x0e000000 == 0x0a000000 {
		return c.armBranch(opcode)
	} else if opcode&0x0f000000 == 0x0f000000 {
		return c.armSoftwareInterrupt(opcode)
	} else if opcode&0x0f000010 == 0x0e000010 {
		return c.armCoprocessorTransfer(opcode)
	}

	return c.unknownARM(opcode)
}

// instructions with the condition field 0b1111
func (c *CPU) armUnconditional(opcode uint32) int {
	if c.id == ARM9 {
		// the ARM946 treats the branch encoding as BLX. nothing else in this
		// space is supported
		if opcode&0x0e000000 == 0x0a000000 {
			return c.armBranchLinkExchange(opcode)
		}
		return c.unknownARM(opcode)
	}

	if opcode&0xfff1fe20 == 0xf1000000 {
		return c.armChangeProcessorState(opcode)
	}

	return c.unknownARM(opcode)
}

func (c *CPU) armDataProcessing(opcode uint32) int {
	op := (opcode >> 21) & 0x0f
	setFlags := opcode&0x00100000 == 0x00100000
	rn := int(opcode>>16) & 0x0f
	rd := int(opcode>>12) & 0x0f

	var operand uint32
	var shifterCarry bool
	if opcode&0x02000000 == 0x02000000 {
		operand, shifterCarry = c.rotatedImmediate(opcode)
	} else {
		operand, shifterCarry = c.shiftImmediate(c.reg(int(opcode&0x0f)), (opcode>>5)&0x03, (opcode>>7)&0x1f)
	}

	a := c.reg(rn)

	var result uint32
	var carry, overflow bool
	logical := true
	write := true

	switch op {
	case 0b0000:
		// AND
		result = a & operand
	case 0b0001:
		// EOR
		result = a ^ operand
	case 0b0010:
		// SUB
		result, carry, overflow = addWithCarry(a, ^operand, 1)
		logical = false
	case 0b0011:
		// RSB
		result, carry, overflow = addWithCarry(operand, ^a, 1)
		logical = false
	case 0b0100:
		// ADD
		result, carry, overflow = addWithCarry(a, operand, 0)
		logical = false
	case 0b0101:
		// ADC
		result, carry, overflow = addWithCarry(a, operand, c.cpsr.carry())
		logical = false
	case 0b0110:
		// SBC
		result, carry, overflow = addWithCarry(a, ^operand, c.cpsr.carry())
		logical = false
	case 0b0111:
		// RSC
		result, carry, overflow = addWithCarry(operand, ^a, c.cpsr.carry())
		logical = false
	case 0b1000:
		// TST
		result = a & operand
		write = false
	case 0b1001:
		// TEQ
		result = a ^ operand
		write = false
	case 0b1010:
		// CMP
		result, carry, overflow = addWithCarry(a, ^operand, 1)
		logical = false
		write = false
	case 0b1011:
		// CMN
		result, carry, overflow = addWithCarry(a, operand, 0)
		logical = false
		write = false
	case 0b1100:
		// ORR
		result = a | operand
	case 0b1101:
		// MOV
		result = operand
	case 0b1110:
		// BIC
		result = a &^ operand
	case 0b1111:
		// MVN
		result = ^operand
	}

	if !write {
		if logical {
			c.setLogicalFlags(result, shifterCarry)
		} else {
			c.setArithmeticFlags(result, carry, overflow)
		}
		return 1
	}

	if rd == rPC {
		// writing to the PC with the S bit set is the return from an exception
		if setFlags && c.bank != BankNormal {
			c.setCPSR(c.spsr[c.bank], false)
		}
		c.branch(result)
		return 3
	}

	c.setReg(rd, result)

	if setFlags {
		if logical {
			c.setLogicalFlags(result, shifterCarry)
		} else {
			c.setArithmeticFlags(result, carry, overflow)
		}
	}

	return 1
}

func (c *CPU) armMoveFromStatus(opcode uint32) int {
	rd := int(opcode>>12) & 0x0f
	if opcode&0x00400000 == 0x00400000 {
		c.setReg(rd, uint32(c.SavedStatus(c.bank)))
	} else {
		c.setReg(rd, uint32(c.cpsr))
	}
	return 1
}

func (c *CPU) armMoveToStatus(opcode uint32) int {
	var value uint32
	if opcode&0x02000000 == 0x02000000 {
		value, _ = c.rotatedImmediate(opcode)
	} else {
		value = c.reg(int(opcode & 0x0f))
	}

	// field mask
	var mask Status
	if opcode&0x00010000 == 0x00010000 {
		mask |= 0x000000ff
	}
	if opcode&0x00020000 == 0x00020000 {
		mask |= 0x0000ff00
	}
	if opcode&0x00040000 == 0x00040000 {
		mask |= 0x00ff0000
	}
	if opcode&0x00080000 == 0x00080000 {
		mask |= 0xff000000
	}

	if opcode&0x00400000 == 0x00400000 {
		if c.bank != BankNormal {
			c.spsr[c.bank] = (c.spsr[c.bank] &^ mask) | (Status(value) & mask)
		}
		return 1
	}

	// only the flags can be changed in user mode and the Thumb bit can never
	// be changed with MSR
	if !c.cpsr.Mode().Privileged() {
		mask &= statusFlags
	}
	mask &^= StatusThumb

	mode := c.cpsr.Mode()
	c.setCPSR((c.cpsr&^mask)|(Status(value)&mask), false)
	if c.cpsr.Mode() != mode {
		c.branch(c.PC())
	}

	return 1
}

// CPS is only available on the ARM11
func (c *CPU) armChangeProcessorState(opcode uint32) int {
	if !c.cpsr.Mode().Privileged() {
		return 1
	}

	value := c.cpsr
	flags := Status(opcode & 0x01c0)
	switch (opcode >> 18) & 0x03 {
	case 0b10:
		value &^= flags
	case 0b11:
		value |= flags
	}
	if opcode&0x00020000 == 0x00020000 {
		value = value.WithMode(Mode(opcode & 0x1f))
	}

	mode := c.cpsr.Mode()
	c.setCPSR(value, false)
	if c.cpsr.Mode() != mode {
		c.branch(c.PC())
	}

	return 1
}

func (c *CPU) armHint(opcode uint32) int {
	// wait for interrupt. on the ARM9 this encoding is a NOP and the
	// coprocessor is used instead
	if opcode&0xff == 0x03 && c.id != ARM9 {
		c.irq.Halt(c.id, HaltInterrupt)
	}
	return 1
}

func (c *CPU) armSingleDataTransfer(opcode uint32) int {
	pre := opcode&0x01000000 == 0x01000000
	up := opcode&0x00800000 == 0x00800000
	byteTransfer := opcode&0x00400000 == 0x00400000
	writeback := opcode&0x00200000 == 0x00200000
	load := opcode&0x00100000 == 0x00100000
	rn := int(opcode>>16) & 0x0f
	rd := int(opcode>>12) & 0x0f

	var offset uint32
	if opcode&0x02000000 == 0x02000000 {
		offset, _ = c.shiftImmediate(c.reg(int(opcode&0x0f)), (opcode>>5)&0x03, (opcode>>7)&0x1f)
	} else {
		offset = opcode & 0x0fff
	}

	base := c.reg(rn)
	indexed := base
	if up {
		indexed += offset
	} else {
		indexed -= offset
	}

	addr := base
	if pre {
		addr = indexed
	}

	// post-indexed transfers always write back
	if (!pre || writeback) && rn != rPC {
		defer func() {
			// a load to the base register takes precedence over writeback
			if !load || rd != rn {
				c.setReg(rn, indexed)
			}
		}()
	}

	if load {
		var value uint32
		if byteTransfer {
			value = uint32(c.mem.Read8(c.id, addr))
		} else {
			// unaligned words are rotated
			value = bits.RotateLeft32(c.mem.Read32(c.id, addr&^0x03), -int(addr&0x03)*8)
		}
		if rd == rPC {
			c.branchExchange(value)
			return 5
		}
		c.setReg(rd, value)
		return 3
	}

	value := c.reg(rd)
	if rd == rPC {
		value += 4
	}
	if byteTransfer {
		c.mem.Write8(c.id, addr, uint8(value))
	} else {
		c.mem.Write32(c.id, addr&^0x03, value)
	}
	return 2
}

func (c *CPU) armBlockDataTransfer(opcode uint32) int {
	pre := opcode&0x01000000 == 0x01000000
	up := opcode&0x00800000 == 0x00800000
	psr := opcode&0x00400000 == 0x00400000
	writeback := opcode&0x00200000 == 0x00200000
	load := opcode&0x00100000 == 0x00100000
	rn := int(opcode>>16) & 0x0f
	list := opcode & 0xffff

	// the S bit is only supported for the exception return form of LDM. user
	// bank transfers are not supported
	if psr && (!load || list&(1<<rPC) == 0) {
		return c.unknownARM(opcode)
	}

	count := uint32(bits.OnesCount32(list))
	base := c.reg(rn)

	var addr, final uint32
	if up {
		final = base + count*4
		addr = base
		if pre {
			addr += 4
		}
	} else {
		final = base - count*4
		addr = final
		if !pre {
			addr += 4
		}
	}

	if writeback && rn != rPC {
		if load {
			// loaded values take precedence over the written back base
			c.setReg(rn, final)
		} else {
			defer c.setReg(rn, final)
		}
	}

	if load {
		var pc uint32
		for r := 0; r < NumRegisters; r++ {
			if list&(1<<r) == 0 {
				continue
			}
			v := c.mem.Read32(c.id, addr&^0x03)
			addr += 4
			if r == rPC {
				pc = v
			} else {
				c.setReg(r, v)
			}
		}

		if list&(1<<rPC) == 0 {
			return int(count) + 2
		}

		if psr && c.bank != BankNormal {
			c.setCPSR(c.spsr[c.bank], false)
			c.branch(pc)
		} else {
			c.branchExchange(pc)
		}
		return int(count) + 4
	}

	for r := 0; r < NumRegisters; r++ {
		if list&(1<<r) == 0 {
			continue
		}
		v := c.reg(r)
		if r == rPC {
			v += 4
		}
		c.mem.Write32(c.id, addr&^0x03, v)
		addr += 4
	}

	return int(count) + 1
}

func (c *CPU) armBranch(opcode uint32) int {
	offset := uint32(int32(opcode<<8) >> 6)
	if opcode&0x01000000 == 0x01000000 {
		c.setReg(rLR, c.regs[rPC]-4)
	}
	c.branch(c.regs[rPC] + offset)
	return 3
}

// BLX with an immediate offset. the H bit adds a halfword to the offset
func (c *CPU) armBranchLinkExchange(opcode uint32) int {
	offset := uint32(int32(opcode<<8)>>6) | (opcode>>23)&0x02
	c.setReg(rLR, c.regs[rPC]-4)
	c.cpsr |= StatusThumb
	c.branch(c.regs[rPC] + offset)
	return 3
}

func (c *CPU) armBranchExchange(opcode uint32, link bool) int {
	addr := c.reg(int(opcode & 0x0f))
	if link {
		c.setReg(rLR, c.regs[rPC]-4)
	}
	c.branchExchange(addr)
	return 3
}

func (c *CPU) armSoftwareInterrupt(_ uint32) int {
	// the return address is the instruction after the SWI
	c.regs[rPC] -= 4
	return c.Exception(VectorSWI)
}
