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

package interrupts_test

import (
	"testing"

	"github.com/hydr8gon/3beans/hardware/cpu"
	"github.com/hydr8gon/3beans/hardware/interrupts"
	"github.com/hydr8gon/3beans/hardware/memory"
	"github.com/hydr8gon/3beans/hardware/scheduler"
	"github.com/hydr8gon/3beans/test"
)

type harness struct {
	sch      *scheduler.Scheduler
	bus      *memory.Bus
	ctl      *interrupts.Controller
	cpus     [cpu.NumCPUs]*cpu.CPU
	switches int
}

func newHarness(t *testing.T, newModel bool) *harness {
	t.Helper()

	h := &harness{
		sch: scheduler.NewScheduler(),
		bus: memory.NewBus(newModel),
	}

	var err error
	h.ctl, err = interrupts.NewController(h.sch, h.bus, 1, newModel)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, h.ctl.MapRegisters())

	for id := cpu.ARM11A; id < cpu.NumCPUs; id++ {
		h.cpus[id] = cpu.NewCPU(id, h.bus, h.ctl)
		h.ctl.Attach(h.cpus[id])
	}
	h.cpus[cpu.ARM11C].SetHalted(cpu.HaltStopped)
	h.cpus[cpu.ARM11D].SetHalted(cpu.HaltStopped)

	test.DemandSuccess(t, h.sch.Bind(scheduler.TaskCoreSwitch, scheduler.HandlerFunc(func(scheduler.TaskID) {
		h.switches++
	})))

	return h
}

// run any events that fall due in the next number of cycles
func (h *harness) run(cycles uint64) {
	target := h.sch.Cycle() + cycles
	for h.sch.NextDue() <= target {
		h.sch.AdvanceTo(h.sch.NextDue())
		h.sch.RunDue()
	}
	h.sch.AdvanceTo(target)
}

// the number of pending events for the task
func (h *harness) pending(task scheduler.TaskID) int {
	var n int
	for _, e := range h.sch.Pending() {
		if e.Task == task {
			n++
		}
	}
	return n
}

// enable the distributor and the CPU interface of every core
func (h *harness) enableMP() {
	h.bus.Write32(cpu.ARM11A, interrupts.AddrMPDistributor, 1)
	for id := cpu.ARM11A; id <= cpu.ARM11D; id++ {
		h.bus.Write32(id, interrupts.AddrMPControl, 1)
	}
}

func TestWakeHaltedCPU(t *testing.T) {
	h := newHarness(t, false)
	arm9 := h.cpus[cpu.ARM9]

	h.bus.Write32(cpu.ARM9, interrupts.AddrARM9IE, 1<<5)
	arm9.SetStatus(cpu.Status(cpu.ModeSupervisor))
	h.ctl.Halt(cpu.ARM9, cpu.HaltInterrupt)
	test.ExpectEquality(t, arm9.Halted(), cpu.HaltInterrupt)

	h.ctl.SendInterrupt(cpu.ARM9, 5)
	test.ExpectEquality(t, h.pending(scheduler.TaskInterruptARM9), 1)

	h.run(1)
	test.ExpectEquality(t, arm9.Halted(), uint8(0))
	test.ExpectEquality(t, arm9.PC(), uint32(0xffff0018))
	test.ExpectEquality(t, arm9.Status().Mode(), cpu.ModeIRQ)
	test.ExpectEquality(t, h.ctl.Delivery(cpu.ARM9).Taken, 1)
}

func TestWakeHaltedARM11(t *testing.T) {
	h := newHarness(t, false)
	h.enableMP()
	h.bus.Write32(cpu.ARM11A, interrupts.AddrMPSetEnable+4, 1<<(interrupts.IRQVBlank-32))

	arm11 := h.cpus[cpu.ARM11A]
	arm11.SetStatus(cpu.Status(cpu.ModeSupervisor))
	h.ctl.Halt(cpu.ARM9, cpu.HaltInterrupt)
	h.ctl.Halt(cpu.ARM11A, cpu.HaltInterrupt)
	test.ExpectEquality(t, arm11.Halted(), cpu.HaltInterrupt)

	h.ctl.SendInterrupt(cpu.ARM11A, interrupts.IRQVBlank)
	test.ExpectEquality(t, h.pending(scheduler.TaskInterruptARM11A), 1)

	h.run(1)
	test.ExpectEquality(t, arm11.Halted(), uint8(0))
	test.ExpectEquality(t, arm11.PC(), uint32(0xffff0018))
	test.ExpectEquality(t, arm11.Status().Mode(), cpu.ModeIRQ)
	test.ExpectEquality(t, h.ctl.Delivery(cpu.ARM11A).Taken, 1)

	// the management core is not disturbed
	test.ExpectEquality(t, h.cpus[cpu.ARM9].Halted(), cpu.HaltInterrupt)
	test.ExpectEquality(t, h.ctl.Delivery(cpu.ARM9).Passes, 0)
}

func TestWakeWithInterruptsDisabled(t *testing.T) {
	h := newHarness(t, false)
	arm9 := h.cpus[cpu.ARM9]

	h.bus.Write32(cpu.ARM9, interrupts.AddrARM9IE, 1<<5)
	h.ctl.Halt(cpu.ARM9, cpu.HaltInterrupt)
	h.ctl.SendInterrupt(cpu.ARM9, 5)

	// the CPU is woken but the exception is not taken
	h.run(1)
	test.ExpectEquality(t, arm9.Halted(), uint8(0))
	test.ExpectEquality(t, arm9.PC(), uint32(0xffff0000))
	test.ExpectEquality(t, h.ctl.Delivery(cpu.ARM9).Taken, 0)

	// unmasking interrupts causes another delivery
	arm9.SetStatus(cpu.Status(cpu.ModeSupervisor))
	test.ExpectEquality(t, h.pending(scheduler.TaskInterruptARM9), 1)
	h.run(1)
	test.ExpectEquality(t, arm9.PC(), uint32(0xffff0018))
	test.ExpectEquality(t, h.ctl.Delivery(cpu.ARM9).Taken, 1)
}

func TestCoalescing(t *testing.T) {
	h := newHarness(t, false)

	h.bus.Write32(cpu.ARM9, interrupts.AddrARM9IE, 1<<3|1<<4)
	h.ctl.SendInterrupt(cpu.ARM9, 3)
	h.ctl.SendInterrupt(cpu.ARM9, 4)
	test.ExpectEquality(t, h.pending(scheduler.TaskInterruptARM9), 1)

	h.run(10)
	d := h.ctl.Delivery(cpu.ARM9)
	test.ExpectEquality(t, d.Passes, 1)
	test.ExpectEquality(t, d.Pending, 2)
	test.ExpectEquality(t, h.bus.Read32(cpu.ARM9, interrupts.AddrARM9IF), uint32(1<<3|1<<4))

	// writing one to IF acknowledges
	h.bus.Write32(cpu.ARM9, interrupts.AddrARM9IF, 1<<3)
	test.ExpectEquality(t, h.bus.Read32(cpu.ARM9, interrupts.AddrARM9IF), uint32(1<<4))
}

func TestDisabledInterrupt(t *testing.T) {
	h := newHarness(t, false)

	// the interrupt is pending but not enabled so there is no delivery
	h.ctl.SendInterrupt(cpu.ARM9, 2)
	test.ExpectEquality(t, h.pending(scheduler.TaskInterruptARM9), 0)
	test.ExpectEquality(t, h.bus.Read32(cpu.ARM9, interrupts.AddrARM9IF), uint32(1<<2))

	// enabling it schedules a delivery
	h.bus.Write32(cpu.ARM9, interrupts.AddrARM9IE, 1<<2)
	test.ExpectEquality(t, h.pending(scheduler.TaskInterruptARM9), 1)
}

func TestInvalidInterrupts(t *testing.T) {
	h := newHarness(t, false)
	h.bus.Write32(cpu.ARM9, interrupts.AddrARM9IE, 0xffffffff)
	h.enableMP()

	h.ctl.SendInterrupt(cpu.ARM9, 40)
	h.ctl.SendInterrupt(cpu.ARM11A, 200)
	h.ctl.SendInterrupt(cpu.ARM11A, -1)
	test.ExpectEquality(t, len(h.sch.Pending()), 1)
}

func TestDistributor(t *testing.T) {
	h := newHarness(t, false)
	h.enableMP()

	// enable the VBlank interrupt. shared interrupts are routed to the first
	// core by default
	h.bus.Write32(cpu.ARM11A, interrupts.AddrMPSetEnable+4, 1<<(interrupts.IRQVBlank-32))
	test.ExpectEquality(t, h.bus.Read32(cpu.ARM11B, interrupts.AddrMPSetEnable+4), uint32(1<<(interrupts.IRQVBlank-32)))

	h.ctl.SendInterrupt(cpu.ARM11A, interrupts.IRQVBlank)
	test.ExpectEquality(t, h.pending(scheduler.TaskInterruptARM11A), 1)
	test.ExpectEquality(t, h.pending(scheduler.TaskInterruptARM11B), 0)
	test.ExpectEquality(t, h.bus.Read32(cpu.ARM11A, interrupts.AddrMPHighestPending), uint32(interrupts.IRQVBlank))

	h.run(1)
	test.ExpectEquality(t, h.ctl.Delivery(cpu.ARM11A).Passes, 1)
	test.ExpectEquality(t, h.ctl.Delivery(cpu.ARM11A).Pending, 1)

	// acknowledge moves the interrupt from pending to active
	test.ExpectEquality(t, h.bus.Read32(cpu.ARM11A, interrupts.AddrMPAcknowledge), uint32(interrupts.IRQVBlank))
	test.ExpectEquality(t, h.bus.Read32(cpu.ARM11A, interrupts.AddrMPSetPending+4), uint32(0))
	test.ExpectEquality(t, h.bus.Read32(cpu.ARM11A, interrupts.AddrMPActive+4), uint32(1<<(interrupts.IRQVBlank-32)))

	h.bus.Write32(cpu.ARM11A, interrupts.AddrMPEndOfInterrupt, interrupts.IRQVBlank)
	test.ExpectEquality(t, h.bus.Read32(cpu.ARM11A, interrupts.AddrMPActive+4), uint32(0))
	test.ExpectEquality(t, h.bus.Read32(cpu.ARM11A, interrupts.AddrMPAcknowledge), uint32(0x3ff))
}

func TestDistributorDisabled(t *testing.T) {
	h := newHarness(t, false)
	h.bus.Write32(cpu.ARM11A, interrupts.AddrMPSetEnable+4, 1<<(interrupts.IRQVBlank-32))
	h.ctl.SendInterrupt(cpu.ARM11A, interrupts.IRQVBlank)

	// the delivery happens but nothing is deliverable
	h.run(1)
	test.ExpectEquality(t, h.ctl.Delivery(cpu.ARM11A).Passes, 1)
	test.ExpectEquality(t, h.ctl.Delivery(cpu.ARM11A).Pending, 0)

	// enabling the distributor and the CPU interface makes the interrupt
	// deliverable
	h.enableMP()
	test.ExpectEquality(t, h.pending(scheduler.TaskInterruptARM11A), 1)
}

func TestTargets(t *testing.T) {
	h := newHarness(t, false)
	h.enableMP()
	h.bus.Write32(cpu.ARM11A, interrupts.AddrMPSetEnable+4, 1<<(interrupts.IRQVBlank-32))

	// route VBlank to the second core
	h.bus.Write8(cpu.ARM11A, interrupts.AddrMPTargets+interrupts.IRQVBlank, 0x02)
	test.ExpectEquality(t, h.bus.Read8(cpu.ARM11A, interrupts.AddrMPTargets+interrupts.IRQVBlank), uint8(0x02))

	h.ctl.SendInterrupt(cpu.ARM11A, interrupts.IRQVBlank)
	test.ExpectEquality(t, h.bus.Read32(cpu.ARM11A, interrupts.AddrMPSetPending+4), uint32(0))
	test.ExpectEquality(t, h.bus.Read32(cpu.ARM11B, interrupts.AddrMPSetPending+4), uint32(1<<(interrupts.IRQVBlank-32)))
	test.ExpectEquality(t, h.pending(scheduler.TaskInterruptARM11B), 1)

	// targets of private interrupts are read only and read as the accessing
	// core
	h.bus.Write8(cpu.ARM11C, interrupts.AddrMPTargets, 0x0f)
	test.ExpectEquality(t, h.bus.Read8(cpu.ARM11C, interrupts.AddrMPTargets), uint8(0x04))

	// shared interrupt with no targets is dropped
	h.bus.Write8(cpu.ARM11A, interrupts.AddrMPTargets+interrupts.IRQVBlank, 0x00)
	h.ctl.SendInterrupt(cpu.ARM11A, interrupts.IRQVBlank)
	test.ExpectEquality(t, h.bus.Read32(cpu.ARM11A, interrupts.AddrMPSetPending+4), uint32(0))
}

func TestSoftwareInterrupts(t *testing.T) {
	h := newHarness(t, false)
	h.enableMP()
	for id := cpu.ARM11A; id <= cpu.ARM11D; id++ {
		h.bus.Write32(id, interrupts.AddrMPSetEnable, 0x0000ffff)
	}

	pending := func(id cpu.ID) uint32 {
		return h.bus.Read32(id, interrupts.AddrMPSetPending)
	}

	// every core except the sender
	h.bus.Write32(cpu.ARM11B, interrupts.AddrMPSoftwareControl, 1<<24|1)
	test.ExpectEquality(t, pending(cpu.ARM11A), uint32(1<<1))
	test.ExpectEquality(t, pending(cpu.ARM11B), uint32(0))
	test.ExpectEquality(t, pending(cpu.ARM11C), uint32(1<<1))
	test.ExpectEquality(t, pending(cpu.ARM11D), uint32(1<<1))

	// acknowledge includes the source core
	test.ExpectEquality(t, h.bus.Read32(cpu.ARM11A, interrupts.AddrMPAcknowledge), uint32(1<<10|1))

	// only the sender
	h.bus.Write32(cpu.ARM11B, interrupts.AddrMPSoftwareControl, 2<<24|3)
	test.ExpectEquality(t, pending(cpu.ARM11B), uint32(1<<3))
	test.ExpectEquality(t, h.bus.Read32(cpu.ARM11B, interrupts.AddrMPAcknowledge), uint32(1<<10|3))

	// target list
	h.bus.Write32(cpu.ARM11D, interrupts.AddrMPSoftwareControl, 0x01<<16|2)
	test.ExpectEquality(t, pending(cpu.ARM11A), uint32(1<<2))
	test.ExpectEquality(t, h.bus.Read32(cpu.ARM11A, interrupts.AddrMPAcknowledge), uint32(3<<10|2))

	// invalid interrupt numbers and filters are rejected
	h.bus.Write32(cpu.ARM11A, interrupts.AddrMPSoftwareControl, 2<<24|16)
	h.bus.Write32(cpu.ARM11A, interrupts.AddrMPSoftwareControl, 3<<24|5)
	test.ExpectEquality(t, pending(cpu.ARM11A), uint32(0))

	// the extra cores are stopped and do not receive the interrupts
	h.run(1)
	test.ExpectEquality(t, h.ctl.Delivery(cpu.ARM11C).Passes, 0)
	test.ExpectEquality(t, h.cpus[cpu.ARM11C].Halted(), cpu.HaltStopped)
}

func TestClockChange(t *testing.T) {
	h := newHarness(t, true)
	h.enableMP()
	h.bus.Write32(cpu.ARM11A, interrupts.AddrMPSetEnable+8, 1<<(interrupts.IRQClockChange-64))

	h.bus.Write32(cpu.ARM11A, interrupts.AddrMPClockControl, 0x01)
	test.ExpectEquality(t, h.bus.Read32(cpu.ARM11A, interrupts.AddrMPClockControl), uint32(0x01))

	// nothing happens until every core has halted
	h.ctl.Halt(cpu.ARM11A, cpu.HaltInterrupt)
	test.ExpectEquality(t, h.bus.Extended(), false)

	h.ctl.Halt(cpu.ARM11B, cpu.HaltInterrupt)
	test.ExpectEquality(t, h.bus.Extended(), true)
	test.ExpectEquality(t, h.bus.Read32(cpu.ARM11A, interrupts.AddrMPClockControl), uint32(0x8001))

	// the clock change interrupt wakes the first core
	h.run(1)
	test.ExpectEquality(t, h.cpus[cpu.ARM11A].Halted(), uint8(0))
	test.ExpectEquality(t, h.cpus[cpu.ARM11B].Halted(), cpu.HaltInterrupt)

	// writing one to the change bit acknowledges it
	h.bus.Write32(cpu.ARM11A, interrupts.AddrMPClockControl, 0x8001)
	test.ExpectEquality(t, h.bus.Read32(cpu.ARM11A, interrupts.AddrMPClockControl), uint32(0x01))
}

func TestClockChangeOldModel(t *testing.T) {
	h := newHarness(t, false)
	h.bus.Write32(cpu.ARM11A, interrupts.AddrMPClockControl, 0x01)
	test.ExpectEquality(t, h.bus.Read32(cpu.ARM11A, interrupts.AddrMPClockControl), uint32(0))
	h.ctl.Halt(cpu.ARM11A, cpu.HaltInterrupt)
	h.ctl.Halt(cpu.ARM11B, cpu.HaltInterrupt)
	test.ExpectEquality(t, h.bus.Extended(), false)
}

func TestExtraCores(t *testing.T) {
	h := newHarness(t, true)
	h.enableMP()
	coreC := h.cpus[cpu.ARM11C]
	test.ExpectEquality(t, h.ctl.ExtraCoresStopped(), true)

	// start the third core
	h.bus.Write8(cpu.ARM11A, interrupts.AddrMPBootControl+2, 0x01)
	test.ExpectEquality(t, coreC.Halted(), uint8(0))
	test.ExpectEquality(t, h.ctl.ExtraCoresStopped(), false)
	test.ExpectEquality(t, h.bus.Read8(cpu.ARM11A, interrupts.AddrMPBootControl+2), uint8(0x11))
	h.run(1)
	test.ExpectEquality(t, h.switches, 1)

	// the core receives interrupts once started
	h.bus.Write32(cpu.ARM11C, interrupts.AddrMPSetEnable, 1<<1)
	h.bus.Write32(cpu.ARM11A, interrupts.AddrMPSoftwareControl, 0x04<<16|1)
	h.run(1)
	test.ExpectEquality(t, h.ctl.Delivery(cpu.ARM11C).Passes, 1)
	test.ExpectEquality(t, h.bus.Read8(cpu.ARM11A, interrupts.AddrMPBootControl+2)&0x20, uint8(0x20))

	// the fourth core is still stopped and does not
	h.bus.Write32(cpu.ARM11D, interrupts.AddrMPSetEnable, 1<<1)
	h.bus.Write32(cpu.ARM11A, interrupts.AddrMPSoftwareControl, 0x08<<16|1)
	h.run(1)
	test.ExpectEquality(t, h.ctl.Delivery(cpu.ARM11D).Passes, 0)
	test.ExpectEquality(t, h.cpus[cpu.ARM11D].Halted(), cpu.HaltStopped)

	// stopping the core takes effect when it next halts
	h.bus.Write8(cpu.ARM11A, interrupts.AddrMPBootControl+2, 0x00)
	test.ExpectEquality(t, coreC.Halted(), uint8(0))
	h.ctl.Halt(cpu.ARM11C, cpu.HaltInterrupt)
	test.ExpectEquality(t, coreC.Halted()&cpu.HaltStopped, cpu.HaltStopped)
	test.ExpectEquality(t, h.ctl.ExtraCoresStopped(), true)
	test.ExpectEquality(t, h.bus.Read8(cpu.ARM11A, interrupts.AddrMPBootControl+2), uint8(0x00))

	h.run(1)
	test.ExpectEquality(t, h.switches, 2)
}

func TestExtraCoresOldModel(t *testing.T) {
	h := newHarness(t, false)
	h.bus.Write8(cpu.ARM11A, interrupts.AddrMPBootControl+2, 0x01)
	test.ExpectEquality(t, h.cpus[cpu.ARM11C].Halted(), cpu.HaltStopped)
	test.ExpectEquality(t, h.switches, 0)
}
