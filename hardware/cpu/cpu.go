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

import (
	"fmt"
	"strings"

	"github.com/hydr8gon/3beans/logger"
)

// ID identifies one of the processors in the machine.
type ID int

// List of valid ID values. The ARM11 IDs are also the core index used by the
// MPCore interrupt distributor.
const (
	ARM11A ID = iota
	ARM11B
	ARM11C
	ARM11D
	ARM9
	NumCPUs
)

// NumARM11 is the number of ARM11 cores.
const NumARM11 = 4

func (id ID) String() string {
	switch id {
	case ARM11A, ARM11B, ARM11C, ARM11D:
		return fmt.Sprintf("ARM11%c", 'A'+rune(id))
	case ARM9:
		return "ARM9"
	}
	return fmt.Sprintf("CPU%d?", int(id))
}

// IsARM11 returns true if the ID is one of the application cores.
func (id ID) IsARM11() bool {
	return id >= ARM11A && id <= ARM11D
}

// Reasons for a CPU being halted. A CPU is halted if any of the bits are set.
const (
	// waiting for an interrupt
	HaltInterrupt uint8 = 1 << iota

	// an extra ARM11 core that has been switched off
	HaltStopped
)

// Exception vector offsets.
const (
	VectorReset         uint32 = 0x00
	VectorUndefined     uint32 = 0x04
	VectorSWI           uint32 = 0x08
	VectorPrefetchAbort uint32 = 0x0c
	VectorDataAbort     uint32 = 0x10
	VectorIRQ           uint32 = 0x18
	VectorFIQ           uint32 = 0x1c
)

// register names
const (
	rSP = 13 + iota
	rLR
	rPC
)

// Memory is the bus as seen by a CPU. The ID argument allows the bus to
// present a different view of memory to each CPU.
type Memory interface {
	Read8(id ID, addr uint32) uint8
	Read16(id ID, addr uint32) uint16
	Read32(id ID, addr uint32) uint32
	Write8(id ID, addr uint32, value uint8)
	Write16(id ID, addr uint32, value uint16)
	Write32(id ID, addr uint32, value uint32)
}

// Interrupts is the part of the interrupt controller a CPU calls on.
type Interrupts interface {
	// halt the CPU for the specified reason
	Halt(id ID, reason uint8)

	// interrupts have been unmasked and any pending interrupts should be
	// delivered
	CheckInterrupts(id ID)
}

// an entry in the fetch pipeline
type fetched struct {
	addr   uint32
	opcode uint32
}

// CPU is the execution context of a single processor.
type CPU struct {
	id  ID
	mem Memory
	irq Interrupts

	// whether unknown instructions are logged
	logUnknown logger.Permission

	// the cycle on which the CPU can next execute an instruction
	ReadyAt uint64

	// reasons for the CPU being halted. zero if the CPU is running
	halted uint8

	// physical register file. the current bank selects which slots are
	// visible as logical registers
	regs [numPhysical]uint32
	bank Bank

	cpsr Status
	spsr [NumBanks]Status

	// two stage prefetch. pipeline[0] is the next instruction to execute.
	// the PC register always holds the address of pipeline[1]
	pipeline [2]fetched

	cp15 coprocessor

	executed uint64
	unknown  uint64
}

// NewCPU is the preferred method of initialisation for the CPU type.
func NewCPU(id ID, mem Memory, irq Interrupts) *CPU {
	c := &CPU{
		id:         id,
		mem:        mem,
		irq:        irq,
		logUnknown: logger.Allow,
	}
	c.Reset()
	return c
}

func (c *CPU) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s PC=%08x %s", c.id, c.PC(), c.cpsr))
	for i := 0; i < NumRegisters; i++ {
		if i%4 == 0 {
			s.WriteString("\n")
		} else {
			s.WriteString(" ")
		}
		s.WriteString(fmt.Sprintf("R%-2d=%08x", i, c.reg(i)))
	}
	return s.String()
}

// SetLogPermission sets the permission used when logging unknown
// instructions and unknown coprocessor registers.
func (c *CPU) SetLogPermission(perm logger.Permission) {
	c.logUnknown = perm
}

// Reset the CPU. The CPU starts in supervisor mode, with interrupts disabled
// and executing from the high exception vectors. A stopped CPU remains
// stopped.
func (c *CPU) Reset() {
	c.regs = [numPhysical]uint32{}
	c.spsr = [NumBanks]Status{}
	c.bank = BankSupervisor
	c.cpsr = Status(ModeSupervisor) | StatusIRQDisable | StatusFIQDisable
	c.halted &= HaltStopped
	c.cp15.reset(c.id)
	c.regs[rPC] = c.exceptionBase() + VectorReset
	c.fillPipeline()
}

// ID returns the ID of the CPU.
func (c *CPU) ID() ID {
	return c.id
}

// Halted returns the reasons for the CPU being halted. Zero if the CPU is not
// halted.
func (c *CPU) Halted() uint8 {
	return c.halted
}

// SetHalted adds the reasons to the halted bitmask.
func (c *CPU) SetHalted(reason uint8) {
	c.halted |= reason
}

// ClearHalted removes the reasons from the halted bitmask.
func (c *CPU) ClearHalted(reason uint8) {
	c.halted &^= reason
}

// PC returns the address of the next instruction to be executed.
func (c *CPU) PC() uint32 {
	return c.pipeline[0].addr
}

// Status returns the current program status register.
func (c *CPU) Status() Status {
	return c.cpsr
}

// SavedStatus returns the saved program status register for a bank. The
// normal bank has no saved status register and will always return zero.
func (c *CPU) SavedStatus(bank Bank) Status {
	if bank == BankNormal {
		return 0
	}
	return c.spsr[bank]
}

// SetStatus writes the program status register. The saved status register
// is not changed and the pipeline is refilled.
func (c *CPU) SetStatus(value Status) {
	pc := c.PC()
	c.setCPSR(value, false)
	c.branch(pc)
}

// Register returns the value of a logical register in the current mode. The
// value of R15 includes the effect of the pipeline.
func (c *CPU) Register(reg int) uint32 {
	return c.reg(reg)
}

// BankedRegister returns the value of a logical register as seen from the
// specified bank.
func (c *CPU) BankedRegister(bank Bank, reg int) uint32 {
	return c.regs[bankSlots[bank][reg]]
}

// SetRegister sets the value of a logical register in the current mode.
// Setting R15 is a branch to that address.
func (c *CPU) SetRegister(reg int, value uint32) {
	if reg == rPC {
		c.branch(value)
		return
	}
	c.setReg(reg, value)
}

// Executed returns the number of instructions executed and how many of those
// were unknown.
func (c *CPU) Executed() (uint64, uint64) {
	return c.executed, c.unknown
}

// Rebase implements the scheduler.Rebaser interface.
func (c *CPU) Rebase(delta uint64) {
	if c.ReadyAt > delta {
		c.ReadyAt -= delta
	} else {
		c.ReadyAt = 0
	}
}

func (c *CPU) reg(n int) uint32 {
	return c.regs[bankSlots[c.bank][n]]
}

func (c *CPU) setReg(n int, value uint32) {
	c.regs[bankSlots[c.bank][n]] = value
}

// the width of an instruction in the current state
func (c *CPU) width() uint32 {
	if c.cpsr.Thumb() {
		return 2
	}
	return 4
}

func (c *CPU) fetch(addr uint32) uint32 {
	if c.cpsr.Thumb() {
		return uint32(c.mem.Read16(c.id, addr))
	}
	return c.mem.Read32(c.id, addr)
}

// discard the pipeline and fill it from the address in the PC register
func (c *CPU) fillPipeline() {
	w := c.width()
	addr := c.regs[rPC] &^ (w - 1)
	c.pipeline[0] = fetched{addr: addr, opcode: c.fetch(addr)}
	addr += w
	c.pipeline[1] = fetched{addr: addr, opcode: c.fetch(addr)}
	c.regs[rPC] = addr
}

func (c *CPU) branch(addr uint32) {
	c.regs[rPC] = addr
	c.fillPipeline()
}

// branch with the state selected by bit zero of the address
func (c *CPU) branchExchange(addr uint32) {
	if addr&0x01 == 0x01 {
		c.cpsr |= StatusThumb
	} else {
		c.cpsr &^= StatusThumb
	}
	c.branch(addr)
}

// setCPSR changes the program status register and rebinds the logical
// registers if the mode has changed. The outgoing status is saved only when
// the save flag is true, which is the case for exception entry.
func (c *CPU) setCPSR(value Status, save bool) {
	prev := c.cpsr

	bank, ok := value.Mode().Bank()
	if !ok {
		logger.Logf(logger.Allow, c.id.String(), "unknown mode (%02x)", uint8(value.Mode()))
	}
	c.bank = bank

	if save && bank != BankNormal {
		c.spsr[bank] = prev
	}
	c.cpsr = value

	if prev.IRQDisabled() && !value.IRQDisabled() {
		c.irq.CheckInterrupts(c.id)
	}
}

// the base address of the exception vectors
func (c *CPU) exceptionBase() uint32 {
	if c.cp15.control&controlHighVectors == controlHighVectors {
		return 0xffff0000
	}
	return 0x00000000
}

// Exception causes the CPU to take the exception for the vector. The return
// address is placed in the link register of the new mode and the pipeline is
// filled from the vector. Returns the number of cycles taken.
func (c *CPU) Exception(vector uint32) int {
	var mode Mode
	switch vector {
	case VectorReset, VectorSWI:
		mode = ModeSupervisor
	case VectorUndefined:
		mode = ModeUndefined
	case VectorPrefetchAbort, VectorDataAbort:
		mode = ModeAbort
	case VectorIRQ:
		mode = ModeIRQ
	case VectorFIQ:
		mode = ModeFIQ
	default:
		logger.Logf(logger.Allow, c.id.String(), "unknown exception vector (%02x)", vector)
		return 1
	}

	prev := c.cpsr
	value := (prev &^ (statusModeMask | StatusThumb)) | StatusIRQDisable | Status(mode)
	if vector == VectorFIQ || vector == VectorReset {
		value |= StatusFIQDisable
	}
	c.setCPSR(value, true)

	lr := c.regs[rPC]
	if prev.Thumb() {
		lr += 2
	}
	c.setReg(rLR, lr)

	c.branch(c.exceptionBase() + vector)

	return 3
}

// Step executes the next instruction in the pipeline. Returns the number of
// cycles taken by the instruction. The CPU should not be stepped if it is
// halted.
func (c *CPU) Step() int {
	next := c.pipeline[0]
	c.pipeline[0] = c.pipeline[1]
	c.regs[rPC] += c.width()
	c.pipeline[1] = fetched{addr: c.regs[rPC], opcode: c.fetch(c.regs[rPC])}

	c.executed++

	if c.cpsr.Thumb() {
		return c.executeThumb(uint16(next.opcode))
	}
	return c.executeARM(next.opcode)
}

func (c *CPU) unknownARM(opcode uint32) int {
	c.unknown++
	logger.Logf(c.logUnknown, c.id.String(), "unknown ARM opcode (%08x) at %08x", opcode, c.regs[rPC]-8)
	return 1
}

func (c *CPU) unknownThumb(opcode uint16) int {
	c.unknown++
	logger.Logf(c.logUnknown, c.id.String(), "unknown Thumb opcode (%04x) at %08x", opcode, c.regs[rPC]-4)
	return 1
}
