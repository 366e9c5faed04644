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

import "github.com/hydr8gon/3beans/logger"

// coprocessor registers are identified by CRn, opcode_1, CRm and opcode_2
// packed into a single value
const (
	cp15MainID           = 0x0000
	cp15CPUID            = 0x0005
	cp15Control          = 0x1000
	cp15WaitForInterrupt = 0x7004
)

// identification values for the two types of processor
const (
	mainIDARM11  = 0x410fb024
	mainIDARM946 = 0x41059461
)

// the V bit of the control register selects the high exception vectors
const controlHighVectors = 0x00002000

// system control coprocessor
type coprocessor struct {
	control uint32

	// registers that have no effect on emulation but which can be read back
	// after being written. memory protection, tightly coupled memory regions,
	// etc.
	other map[uint32]uint32
}

func (cp *coprocessor) reset(id ID) {
	if id == ARM9 {
		cp.control = 0x00000078 | controlHighVectors
	} else {
		cp.control = 0x00054078 | controlHighVectors
	}
	cp.other = make(map[uint32]uint32)
}

// MCR and MRC
func (c *CPU) armCoprocessorTransfer(opcode uint32) int {
	if (opcode>>8)&0x0f != 15 {
		return c.unknownARM(opcode)
	}

	crn := (opcode >> 16) & 0x0f
	op1 := (opcode >> 21) & 0x07
	crm := opcode & 0x0f
	op2 := (opcode >> 5) & 0x07
	reg := crn<<12 | op1<<8 | crm<<4 | op2
	rd := int(opcode>>12) & 0x0f

	if opcode&0x00100000 == 0x00100000 {
		value := c.readCP15(reg)
		if rd == rPC {
			// the top four bits are copied to the condition flags
			c.cpsr = (c.cpsr &^ (StatusNegative | StatusZero | StatusCarry | StatusOverflow)) | Status(value&0xf0000000)
		} else {
			c.setReg(rd, value)
		}
		return 1
	}

	c.writeCP15(reg, c.reg(rd))
	return 1
}

func (c *CPU) readCP15(reg uint32) uint32 {
	switch reg {
	case cp15MainID:
		if c.id == ARM9 {
			return mainIDARM946
		}
		return mainIDARM11
	case cp15CPUID:
		if c.id.IsARM11() {
			return uint32(c.id)
		}
		return 0
	case cp15Control:
		return c.cp15.control
	}

	v, ok := c.cp15.other[reg]
	if !ok {
		logger.Logf(c.logUnknown, c.id.String(), "unknown CP15 register read (c%d,%d,c%d,%d)", reg>>12, (reg>>8)&0x0f, (reg>>4)&0x0f, reg&0x0f)
	}
	return v
}

func (c *CPU) writeCP15(reg uint32, value uint32) {
	switch reg {
	case cp15Control:
		c.cp15.control = value
		return
	case cp15WaitForInterrupt:
		c.irq.Halt(c.id, HaltInterrupt)
		return
	case cp15MainID, cp15CPUID:
		return
	}

	// cache and write buffer operations
	if reg>>12 == 7 {
		return
	}

	c.cp15.other[reg] = value
}
