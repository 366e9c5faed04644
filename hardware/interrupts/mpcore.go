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

package interrupts

import (
	"github.com/hydr8gon/3beans/hardware/cpu"
	"github.com/hydr8gon/3beans/logger"
)

// MPCore private memory region. The CPU interface registers are banked for
// each core.
const (
	AddrMPBase = uint32(0x17e00000)

	// CPU interface
	AddrMPControl        = AddrMPBase + 0x100
	AddrMPPriorityMask   = AddrMPBase + 0x104
	AddrMPAcknowledge    = AddrMPBase + 0x10c
	AddrMPEndOfInterrupt = AddrMPBase + 0x110
	AddrMPHighestPending = AddrMPBase + 0x118

	// distributor
	AddrMPDistributor     = AddrMPBase + 0x1000
	AddrMPType            = AddrMPBase + 0x1004
	AddrMPSetEnable       = AddrMPBase + 0x1100
	AddrMPClearEnable     = AddrMPBase + 0x1180
	AddrMPSetPending      = AddrMPBase + 0x1200
	AddrMPClearPending    = AddrMPBase + 0x1280
	AddrMPActive          = AddrMPBase + 0x1300
	AddrMPTargets         = AddrMPBase + 0x1800
	AddrMPSoftwareControl = AddrMPBase + 0x1f00
)

// the value returned by the acknowledge register when there is nothing to
// acknowledge
const spuriousInterrupt = 0x3ff

// software interrupt target filters
const (
	sgiTargetList = iota
	sgiAllButSelf
	sgiSelf
)

func (ctl *Controller) readMPControl(id cpu.ID) uint32 {
	if ctl.mpCoreEnabled[id] {
		return 1
	}
	return 0
}

func (ctl *Controller) writeMPControl(id cpu.ID, value uint32, mask uint32) {
	if mask&0x01 == 0 {
		return
	}
	ctl.mpCoreEnabled[id] = value&0x01 == 0x01
	ctl.CheckInterrupts(id)
}

func (ctl *Controller) readMPPriorityMask(id cpu.ID) uint32 {
	return ctl.mpPriorityMask[id]
}

func (ctl *Controller) writeMPPriorityMask(id cpu.ID, value uint32, mask uint32) {
	ctl.mpPriorityMask[id] = (ctl.mpPriorityMask[id] &^ mask) | (value & mask & 0xf0)
}

// the lowest numbered interrupt that is pending and enabled
func (ctl *Controller) highestPending(id cpu.ID) (int, bool) {
	if !ctl.mpEnabled || !ctl.mpCoreEnabled[id] {
		return 0, false
	}
	for w := 0; w < mpWords; w++ {
		p := ctl.mpPending[id][w] & ctl.mpEnable[id][w]
		if p == 0 {
			continue
		}
		for b := 0; b < 32; b++ {
			if p&(1<<b) != 0 {
				return w*32 + b, true
			}
		}
	}
	return 0, false
}

func (ctl *Controller) readMPHighestPending(id cpu.ID) uint32 {
	irq, ok := ctl.highestPending(id)
	if !ok {
		return spuriousInterrupt
	}
	if irq < NumSGIs {
		return uint32(ctl.mpSource[id][irq])<<10 | uint32(irq)
	}
	return uint32(irq)
}

// reading the acknowledge register moves the highest pending interrupt to the
// active state
func (ctl *Controller) readMPAcknowledge(id cpu.ID) uint32 {
	irq, ok := ctl.highestPending(id)
	if !ok {
		return spuriousInterrupt
	}

	w, b := irq/32, uint32(1)<<(irq%32)
	ctl.mpPending[id][w] &^= b
	ctl.mpActive[id][w] |= b

	if irq < NumSGIs {
		return uint32(ctl.mpSource[id][irq])<<10 | uint32(irq)
	}
	return uint32(irq)
}

func (ctl *Controller) writeMPEndOfInterrupt(id cpu.ID, value uint32, _ uint32) {
	irq := int(value & 0x3ff)
	if irq >= NumMPIRQs {
		return
	}
	ctl.mpActive[id][irq/32] &^= 1 << (irq % 32)
}

func (ctl *Controller) readMPDistributor(_ cpu.ID) uint32 {
	if ctl.mpEnabled {
		return 1
	}
	return 0
}

func (ctl *Controller) writeMPDistributor(_ cpu.ID, value uint32, mask uint32) {
	if mask&0x01 == 0 {
		return
	}
	ctl.mpEnabled = value&0x01 == 0x01
	for core := cpu.ARM11A; core <= cpu.ARM11D; core++ {
		ctl.CheckInterrupts(core)
	}
}

func (ctl *Controller) readMPType(_ cpu.ID) uint32 {
	return uint32(cpu.NumARM11-1)<<5 | uint32(mpWords-1)
}

func (ctl *Controller) readMPEnable(id cpu.ID, w int) uint32 {
	return ctl.mpEnable[id][w]
}

// the first word of enable bits is private to the core. the others are shared
func (ctl *Controller) writeMPEnable(id cpu.ID, w int, bits uint32, set bool) {
	first, last := id, id
	if w > 0 {
		first, last = cpu.ARM11A, cpu.ARM11D
	}
	for core := first; core <= last; core++ {
		if set {
			ctl.mpEnable[core][w] |= bits
		} else {
			ctl.mpEnable[core][w] &^= bits
		}
		ctl.CheckInterrupts(core)
	}
}

func (ctl *Controller) readMPPending(id cpu.ID, w int) uint32 {
	return ctl.mpPending[id][w]
}

func (ctl *Controller) writeMPSetPending(id cpu.ID, w int, bits uint32) {
	for b := 0; b < 32; b++ {
		if bits&(1<<b) != 0 {
			// software interrupts can only be raised through the software
			// interrupt register
			if w == 0 && b < NumSGIs {
				continue
			}
			ctl.SendInterrupt(id, w*32+b)
		}
	}
}

func (ctl *Controller) writeMPClearPending(id cpu.ID, w int, bits uint32) {
	if w == 0 {
		ctl.mpPending[id][0] &^= bits
		return
	}
	for core := cpu.ARM11A; core <= cpu.ARM11D; core++ {
		ctl.mpPending[core][w] &^= bits
	}
}

func (ctl *Controller) readMPActive(id cpu.ID, w int) uint32 {
	return ctl.mpActive[id][w]
}

// four targets per register. the targets of private interrupts are read only
// and always read as the accessing core
func (ctl *Controller) readMPTargets(id cpu.ID, reg int) uint32 {
	var v uint32
	for i := 0; i < 4; i++ {
		irq := reg*4 + i
		t := ctl.mpTargets[irq]
		if irq < numPrivate {
			t = 1 << id
		}
		v |= uint32(t) << (i * 8)
	}
	return v
}

func (ctl *Controller) writeMPTargets(_ cpu.ID, reg int, value uint32, mask uint32) {
	for i := 0; i < 4; i++ {
		irq := reg*4 + i
		if irq < numPrivate || (mask>>(i*8))&0xff == 0 {
			continue
		}
		ctl.mpTargets[irq] = uint8(value>>(i*8)) & 0x0f
	}
}

// writeMPSoftwareInterrupt raises a software generated interrupt. the source
// core is recorded for each target
func (ctl *Controller) writeMPSoftwareInterrupt(id cpu.ID, value uint32, _ uint32) {
	irq := int(value & 0x3ff)
	if irq >= NumSGIs {
		logger.Logf(logger.Allow, "interrupts", "%s: invalid software interrupt (%d)", id, irq)
		return
	}

	var targets uint8
	switch (value >> 24) & 0x03 {
	case sgiTargetList:
		targets = uint8(value>>16) & 0x0f
	case sgiAllButSelf:
		targets = 0x0f &^ (1 << id)
	case sgiSelf:
		targets = 1 << id
	default:
		logger.Logf(logger.Allow, "interrupts", "%s: unknown software interrupt filter (%08x)", id, value)
		return
	}

	for core := cpu.ARM11A; core <= cpu.ARM11D; core++ {
		if targets&(1<<core) == 0 {
			continue
		}
		ctl.mpSource[core][irq] = uint8(id)
		ctl.setPending(core, irq)
	}
}
