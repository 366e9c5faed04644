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
	"fmt"

	"github.com/hydr8gon/3beans/hardware/cpu"
	"github.com/hydr8gon/3beans/hardware/memory"
)

// MapRegisters adds the controller's registers to the bus.
func (ctl *Controller) MapRegisters() error {
	type reg struct {
		addr uint32
		vis  memory.Visibility
		io   memory.IO
	}

	regs := []reg{
		{AddrARM9IE, memory.VisibleARM9, memory.IO{Label: "IRQ_IE", Read: ctl.readARM9IE, Write: ctl.writeARM9IE}},
		{AddrARM9IF, memory.VisibleARM9, memory.IO{Label: "IRQ_IF", Read: ctl.readARM9IF, Write: ctl.writeARM9IF}},
		{AddrMPControl, memory.VisibleARM11, memory.IO{Label: "MP_CTRL", Read: ctl.readMPControl, Write: ctl.writeMPControl}},
		{AddrMPPriorityMask, memory.VisibleARM11, memory.IO{Label: "MP_PRIMASK", Read: ctl.readMPPriorityMask, Write: ctl.writeMPPriorityMask}},
		{AddrMPAcknowledge, memory.VisibleARM11, memory.IO{Label: "MP_ACK", Read: ctl.readMPAcknowledge}},
		{AddrMPEndOfInterrupt, memory.VisibleARM11, memory.IO{Label: "MP_EOI", Write: ctl.writeMPEndOfInterrupt}},
		{AddrMPHighestPending, memory.VisibleARM11, memory.IO{Label: "MP_PENDING", Read: ctl.readMPHighestPending}},
		{AddrMPDistributor, memory.VisibleARM11, memory.IO{Label: "MP_DISTRIBUTOR", Read: ctl.readMPDistributor, Write: ctl.writeMPDistributor}},
		{AddrMPType, memory.VisibleARM11, memory.IO{Label: "MP_TYPE", Read: ctl.readMPType}},
		{AddrMPSoftwareControl, memory.VisibleARM11, memory.IO{Label: "MP_SOFTINT", Write: ctl.writeMPSoftwareInterrupt}},
		{AddrMPClockControl, memory.VisibleARM11, memory.IO{Label: "MP_CLKCNT", Read: ctl.readMPClockControl, Write: ctl.writeMPClockControl}},
		{AddrMPBootControl, memory.VisibleARM11, memory.IO{Label: "MP_BOOTCNT", Read: ctl.readMPBootControl, Write: ctl.writeMPBootControl}},
	}

	// enable, pending and active registers have one bit per interrupt
	for w := 0; w < mpWords; w++ {
		offset := uint32(w * 4)
		regs = append(regs,
			reg{AddrMPSetEnable + offset, memory.VisibleARM11, memory.IO{
				Label: fmt.Sprintf("MP_SETENABLE%d", w),
				Read:  func(id cpu.ID) uint32 { return ctl.readMPEnable(id, w) },
				Write: func(id cpu.ID, value uint32, mask uint32) { ctl.writeMPEnable(id, w, value&mask, true) },
			}},
			reg{AddrMPClearEnable + offset, memory.VisibleARM11, memory.IO{
				Label: fmt.Sprintf("MP_CLEARENABLE%d", w),
				Read:  func(id cpu.ID) uint32 { return ctl.readMPEnable(id, w) },
				Write: func(id cpu.ID, value uint32, mask uint32) { ctl.writeMPEnable(id, w, value&mask, false) },
			}},
			reg{AddrMPSetPending + offset, memory.VisibleARM11, memory.IO{
				Label: fmt.Sprintf("MP_SETPENDING%d", w),
				Read:  func(id cpu.ID) uint32 { return ctl.readMPPending(id, w) },
				Write: func(id cpu.ID, value uint32, mask uint32) { ctl.writeMPSetPending(id, w, value&mask) },
			}},
			reg{AddrMPClearPending + offset, memory.VisibleARM11, memory.IO{
				Label: fmt.Sprintf("MP_CLEARPENDING%d", w),
				Read:  func(id cpu.ID) uint32 { return ctl.readMPPending(id, w) },
				Write: func(id cpu.ID, value uint32, mask uint32) { ctl.writeMPClearPending(id, w, value&mask) },
			}},
			reg{AddrMPActive + offset, memory.VisibleARM11, memory.IO{
				Label: fmt.Sprintf("MP_ACTIVE%d", w),
				Read:  func(id cpu.ID) uint32 { return ctl.readMPActive(id, w) },
			}},
		)
	}

	// one byte per interrupt in the targets registers
	for r := 0; r < NumMPIRQs/4; r++ {
		regs = append(regs, reg{AddrMPTargets + uint32(r*4), memory.VisibleARM11, memory.IO{
			Label: fmt.Sprintf("MP_TARGET%d", r),
			Read:  func(id cpu.ID) uint32 { return ctl.readMPTargets(id, r) },
			Write: func(id cpu.ID, value uint32, mask uint32) { ctl.writeMPTargets(id, r, value, mask) },
		}})
	}

	for _, r := range regs {
		if err := ctl.bus.MapIO(r.addr, r.vis, r.io); err != nil {
			return err
		}
	}

	return nil
}
