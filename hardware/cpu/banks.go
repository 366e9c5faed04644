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

import "fmt"

// Mode is the processor mode as stored in the lower five bits of the status
// register.
type Mode uint8

// List of valid Mode values.
const (
	ModeUser       Mode = 0x10
	ModeFIQ        Mode = 0x11
	ModeIRQ        Mode = 0x12
	ModeSupervisor Mode = 0x13
	ModeAbort      Mode = 0x17
	ModeUndefined  Mode = 0x1b
	ModeSystem     Mode = 0x1f
)

func (m Mode) String() string {
	switch m {
	case ModeUser:
		return "USR"
	case ModeFIQ:
		return "FIQ"
	case ModeIRQ:
		return "IRQ"
	case ModeSupervisor:
		return "SVC"
	case ModeAbort:
		return "ABT"
	case ModeUndefined:
		return "UND"
	case ModeSystem:
		return "SYS"
	}
	return fmt.Sprintf("%02x?", uint8(m))
}

// Privileged returns true if the mode is not user mode.
func (m Mode) Privileged() bool {
	return m != ModeUser
}

// Bank returns the register bank used by the mode. Returns false if the mode
// is not a valid mode.
func (m Mode) Bank() (Bank, bool) {
	switch m {
	case ModeUser, ModeSystem:
		return BankNormal, true
	case ModeFIQ:
		return BankFIQ, true
	case ModeIRQ:
		return BankIRQ, true
	case ModeSupervisor:
		return BankSupervisor, true
	case ModeAbort:
		return BankAbort, true
	case ModeUndefined:
		return BankUndefined, true
	}
	return BankNormal, false
}

// Bank identifies one of the physical register banks.
type Bank int

// List of valid Bank values.
const (
	BankNormal Bank = iota
	BankFIQ
	BankIRQ
	BankSupervisor
	BankAbort
	BankUndefined
	NumBanks
)

func (b Bank) String() string {
	switch b {
	case BankNormal:
		return "normal"
	case BankFIQ:
		return "fiq"
	case BankIRQ:
		return "irq"
	case BankSupervisor:
		return "svc"
	case BankAbort:
		return "abt"
	case BankUndefined:
		return "und"
	}
	return "unknown bank"
}

// layout of the physical register file. the normal bank holds R0 to R15. the
// FIQ bank has its own R8 to R14 and every other privileged bank has its own
// R13 and R14.
const (
	slotFIQ        = 16
	slotIRQ        = slotFIQ + 7
	slotSupervisor = slotIRQ + 2
	slotAbort      = slotSupervisor + 2
	slotUndefined  = slotAbort + 2
	numPhysical    = slotUndefined + 2
)

// NumRegisters is the number of logical registers visible in any one mode.
const NumRegisters = 16

// PhysicalSlot returns the index into the physical register file for a
// logical register in the specified bank. The function panics if the register
// is out of range.
func PhysicalSlot(bank Bank, reg int) int {
	if reg < 0 || reg >= NumRegisters {
		panic(fmt.Sprintf("cpu: logical register out of range (%d)", reg))
	}

	if reg < 8 || reg == rPC {
		return reg
	}

	if bank == BankFIQ {
		return slotFIQ + reg - 8
	}

	if reg < rSP {
		return reg
	}

	switch bank {
	case BankIRQ:
		return slotIRQ + reg - rSP
	case BankSupervisor:
		return slotSupervisor + reg - rSP
	case BankAbort:
		return slotAbort + reg - rSP
	case BankUndefined:
		return slotUndefined + reg - rSP
	}

	return reg
}

// the result of PhysicalSlot() for every bank and register. built once and
// never written to again
var bankSlots = func() [NumBanks][NumRegisters]uint8 {
	var t [NumBanks][NumRegisters]uint8
	for b := BankNormal; b < NumBanks; b++ {
		for r := 0; r < NumRegisters; r++ {
			t[b][r] = uint8(PhysicalSlot(b, r))
		}
	}
	return t
}()
