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
	"github.com/hydr8gon/3beans/hardware/scheduler"
)

// CFG11 registers for the ARM11 clock and the extra cores. The boot control
// register has one byte for each core.
const (
	AddrMPClockControl = uint32(0x10141300)
	AddrMPBootControl  = uint32(0x10141310)
)

// MP_CLKCNT bits. the clock mode is applied once every ARM11 core has
// halted. the change bit is set when the mode has been applied and is
// cleared by writing a one to it
const (
	clockModeMask = 0x0007
	clockChanged  = 0x8000
)

// MP_BOOTCNT bits. the enable bit is written by software and the other two
// are read only
const (
	bootEnable  = 0x01
	bootStarted = 0x10
	bootRunning = 0x20
)

func (ctl *Controller) readMPClockControl(_ cpu.ID) uint32 {
	return uint32(ctl.clkcnt)
}

func (ctl *Controller) writeMPClockControl(_ cpu.ID, value uint32, mask uint32) {
	if !ctl.newModel {
		return
	}
	m := uint16(mask)
	v := uint16(value) & m
	ctl.clkcnt = (ctl.clkcnt &^ (m & clockModeMask)) | (v & clockModeMask)
	if v&clockChanged == clockChanged {
		ctl.clkcnt &^= clockChanged
	}
}

// the first two cores are always running
func (ctl *Controller) readMPBootControl(_ cpu.ID) uint32 {
	v := uint32(bootStarted|bootRunning) | uint32(bootStarted|bootRunning)<<8
	v |= uint32(ctl.bootcnt[0])<<16 | uint32(ctl.bootcnt[1])<<24
	return v
}

func (ctl *Controller) writeMPBootControl(_ cpu.ID, value uint32, mask uint32) {
	if !ctl.newModel {
		return
	}
	for i := 0; i < 2; i++ {
		shift := 16 + i*8
		if (mask>>shift)&0xff != 0 {
			ctl.writeBootcnt(i, uint8(value>>shift))
		}
	}
}

// start or stop one of the extra cores. a core that is told to stop will be
// stopped the next time it halts
func (ctl *Controller) writeBootcnt(i int, value uint8) {
	id := cpu.ARM11C + cpu.ID(i)
	c := ctl.cpus[id]

	if value&bootEnable == bootEnable {
		ctl.shutdown[i] = false
		if ctl.bootcnt[i]&bootStarted == bootStarted {
			return
		}
		ctl.bootcnt[i] = bootStarted | bootEnable
		c.ClearHalted(cpu.HaltStopped)
		c.Reset()
		c.ReadyAt = ctl.sch.Cycle()
		ctl.sch.Schedule(scheduler.TaskCoreSwitch, 1)
		return
	}

	ctl.bootcnt[i] &^= bootEnable
	if ctl.bootcnt[i]&bootStarted == bootStarted {
		ctl.shutdown[i] = true
	}
}
