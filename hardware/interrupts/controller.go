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
	"math/bits"

	"github.com/hydr8gon/3beans/hardware/cpu"
	"github.com/hydr8gon/3beans/hardware/memory"
	"github.com/hydr8gon/3beans/hardware/scheduler"
	"github.com/hydr8gon/3beans/logger"
)

// Number of interrupt lines in each domain.
const (
	NumARM9IRQs = 32
	NumMPIRQs   = 128
	NumSGIs     = 16

	// lines below this number are private to each ARM11 core
	numPrivate = 32
	mpWords    = NumMPIRQs / 32
)

// Interrupt numbers used by the machine.
const (
	IRQTimer0      = 8
	IRQVBlank      = 0x2a
	IRQClockChange = 0x58
)

// Bus is the part of the memory bus used by the controller.
type Bus interface {
	MapIO(addr uint32, vis memory.Visibility, io memory.IO) error
	Reconfigure(extended bool)
}

// Delivery records the outcome of delivery passes for a CPU.
type Delivery struct {
	// number of delivery passes
	Passes int

	// number of deliverable interrupts seen by the most recent pass
	Pending int

	// number of times the IRQ exception was taken
	Taken int
}

// Controller is the interrupt controller for both the ARM9 and the ARM11
// domains.
type Controller struct {
	sch *scheduler.Scheduler
	bus Bus

	cpus [cpu.NumCPUs]*cpu.CPU

	// the number of cycles between an interrupt being sent and it being
	// delivered
	latency uint64

	// whether this is the New model
	newModel bool

	// ARM9 domain
	ie  uint32
	irf uint32

	// ARM11 distributor. the first word of pending, enable and active is
	// private to each core. for the remaining words, the enable bits are
	// the same for every core
	mpEnabled      bool
	mpCoreEnabled  [cpu.NumARM11]bool
	mpPriorityMask [cpu.NumARM11]uint32
	mpPending      [cpu.NumARM11][mpWords]uint32
	mpEnable       [cpu.NumARM11][mpWords]uint32
	mpActive       [cpu.NumARM11][mpWords]uint32
	mpTargets      [NumMPIRQs]uint8

	// the core that sent the most recent software interrupt for each
	// target core
	mpSource [cpu.NumARM11][NumSGIs]uint8

	// delivery guard. true if a delivery has been scheduled for the CPU
	scheduled [cpu.NumCPUs]bool

	deliveries [cpu.NumCPUs]Delivery

	// CFG11 registers
	clkcnt    uint16
	clockMode uint16
	bootcnt   [2]uint8
	shutdown  [2]bool
}

// NewController is the preferred method of initialisation for the Controller
// type. The delivery tasks are bound to the controller.
func NewController(sch *scheduler.Scheduler, bus Bus, latency uint64, newModel bool) (*Controller, error) {
	ctl := &Controller{
		sch:      sch,
		bus:      bus,
		latency:  latency,
		newModel: newModel,
	}

	for id := cpu.ARM11A; id < cpu.NumCPUs; id++ {
		if err := sch.Bind(deliveryTask(id), ctl); err != nil {
			return nil, err
		}
	}

	// shared interrupts are routed to the first core by default
	for i := numPrivate; i < NumMPIRQs; i++ {
		ctl.mpTargets[i] = 0x01
	}

	return ctl, nil
}

func (ctl *Controller) String() string {
	return fmt.Sprintf("IE=%08x IF=%08x MP=%v", ctl.ie, ctl.irf, ctl.mpEnabled)
}

// Attach a CPU to the controller. Every CPU must be attached before the
// machine is started.
func (ctl *Controller) Attach(c *cpu.CPU) {
	ctl.cpus[c.ID()] = c
}

// Delivery returns the record of delivery passes for a CPU.
func (ctl *Controller) Delivery(id cpu.ID) Delivery {
	return ctl.deliveries[id]
}

// ExtraCoresStopped returns true if both extra ARM11 cores are stopped.
func (ctl *Controller) ExtraCoresStopped() bool {
	for id := cpu.ARM11C; id <= cpu.ARM11D; id++ {
		if ctl.cpus[id].Halted()&cpu.HaltStopped == 0 {
			return false
		}
	}
	return true
}

func deliveryTask(id cpu.ID) scheduler.TaskID {
	if id == cpu.ARM9 {
		return scheduler.TaskInterruptARM9
	}
	return scheduler.TaskInterruptARM11A + scheduler.TaskID(id)
}

// SendInterrupt raises an interrupt line. The ID selects the domain. For the
// ARM11 domain, lines below 32 are raised on the core specified by the ID and
// shared lines are raised on every core in the line's target list.
func (ctl *Controller) SendInterrupt(id cpu.ID, irq int) {
	if id == cpu.ARM9 {
		if irq < 0 || irq >= NumARM9IRQs {
			logger.Logf(logger.Allow, "interrupts", "invalid ARM9 interrupt (%d)", irq)
			return
		}
		ctl.irf |= 1 << irq
		if ctl.ie&(1<<irq) != 0 {
			ctl.schedule(cpu.ARM9)
		}
		return
	}

	if !id.IsARM11() || irq < 0 || irq >= NumMPIRQs {
		logger.Logf(logger.Allow, "interrupts", "invalid interrupt (%d) for %s", irq, id)
		return
	}

	if irq < numPrivate {
		ctl.setPending(id, irq)
		return
	}

	targets := ctl.mpTargets[irq]
	if targets == 0 {
		logger.Logf(logger.Allow, "interrupts", "interrupt (%02x) has no target", irq)
		return
	}
	for core := cpu.ARM11A; core <= cpu.ARM11D; core++ {
		if targets&(1<<core) != 0 {
			ctl.setPending(core, irq)
		}
	}
}

func (ctl *Controller) setPending(core cpu.ID, irq int) {
	w, b := irq/32, uint32(1)<<(irq%32)
	ctl.mpPending[core][w] |= b
	if ctl.mpEnable[core][w]&b != 0 {
		ctl.schedule(core)
	}
}

// schedule a delivery for the CPU if one is not already scheduled
func (ctl *Controller) schedule(id cpu.ID) {
	if ctl.scheduled[id] {
		return
	}
	ctl.scheduled[id] = true
	ctl.sch.Schedule(deliveryTask(id), ctl.latency)
}

// the number of interrupts that are pending and enabled for the CPU
func (ctl *Controller) deliverable(id cpu.ID) int {
	if id == cpu.ARM9 {
		return bits.OnesCount32(ctl.ie & ctl.irf)
	}

	if !ctl.mpEnabled || !ctl.mpCoreEnabled[id] {
		return 0
	}

	var n int
	for w := 0; w < mpWords; w++ {
		n += bits.OnesCount32(ctl.mpPending[id][w] & ctl.mpEnable[id][w])
	}
	return n
}

// CheckInterrupts implements the cpu.Interrupts interface. A delivery is
// scheduled if any interrupt is pending and enabled.
func (ctl *Controller) CheckInterrupts(id cpu.ID) {
	if ctl.deliverable(id) > 0 {
		ctl.schedule(id)
	}
}

// HandleTask implements the scheduler.Handler interface. Each CPU has its own
// delivery task.
func (ctl *Controller) HandleTask(task scheduler.TaskID) {
	switch task {
	case scheduler.TaskInterruptARM9:
		ctl.Interrupt(cpu.ARM9)
	case scheduler.TaskInterruptARM11A, scheduler.TaskInterruptARM11B,
		scheduler.TaskInterruptARM11C, scheduler.TaskInterruptARM11D:
		ctl.Interrupt(cpu.ID(task - scheduler.TaskInterruptARM11A))
	}
}

// Interrupt delivers interrupts to a CPU. The CPU is woken if it is waiting
// for an interrupt and the IRQ exception is taken if anything is deliverable
// and the CPU has not disabled interrupts.
func (ctl *Controller) Interrupt(id cpu.ID) {
	ctl.scheduled[id] = false

	// the extra cores do not receive interrupts until they have been started
	if id == cpu.ARM11C || id == cpu.ARM11D {
		i := id - cpu.ARM11C
		if ctl.bootcnt[i]&bootStarted == 0 {
			return
		}
		ctl.bootcnt[i] |= bootRunning
	}

	c := ctl.cpus[id]
	c.ClearHalted(cpu.HaltInterrupt)

	n := ctl.deliverable(id)
	ctl.deliveries[id].Passes++
	ctl.deliveries[id].Pending = n

	if n > 0 && !c.Status().IRQDisabled() {
		c.Exception(cpu.VectorIRQ)
		ctl.deliveries[id].Taken++
	}
}

// Halt implements the cpu.Interrupts interface. Once all ARM11 cores have
// halted any requested change to the clock mode is applied.
func (ctl *Controller) Halt(id cpu.ID, reason uint8) {
	ctl.cpus[id].SetHalted(reason)

	if !id.IsARM11() {
		return
	}

	// an extra core that has been told to shutdown is stopped when it halts
	if id == cpu.ARM11C || id == cpu.ARM11D {
		i := id - cpu.ARM11C
		if ctl.shutdown[i] {
			ctl.shutdown[i] = false
			ctl.bootcnt[i] &^= bootStarted | bootRunning
			ctl.cpus[id].SetHalted(cpu.HaltStopped)
			if ctl.ExtraCoresStopped() {
				ctl.sch.Schedule(scheduler.TaskCoreSwitch, 1)
			}
		}
	}

	for core := cpu.ARM11A; core <= cpu.ARM11D; core++ {
		if ctl.cpus[core].Halted() == 0 {
			return
		}
	}

	mode := ctl.clkcnt & clockModeMask
	if mode != ctl.clockMode {
		ctl.clockMode = mode
		ctl.bus.Reconfigure(mode != 0)
		ctl.clkcnt |= clockChanged
		logger.Logf(logger.Allow, "interrupts", "ARM11 clock mode changed (%d)", mode)
		ctl.SendInterrupt(cpu.ARM11A, IRQClockChange)
	}
}
