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

package timers

import (
	"fmt"
	"strings"

	"github.com/hydr8gon/3beans/hardware/cpu"
	"github.com/hydr8gon/3beans/hardware/interrupts"
	"github.com/hydr8gon/3beans/hardware/memory"
	"github.com/hydr8gon/3beans/hardware/scheduler"
	"github.com/hydr8gon/3beans/logger"
)

// NumTimers is the number of ARM9 timers.
const NumTimers = 4

// AddrTimerBase is the address of the first timer register. Each timer has a
// single 32-bit register. The low half is the counter (reading) or the reload
// value (writing) and the high half is the control value.
const AddrTimerBase = uint32(0x10003000)

// control bits
const (
	ctrlPrescaler = 0x0003
	ctrlCountUp   = 0x0004
	ctrlIRQ       = 0x0040
	ctrlStart     = 0x0080
	ctrlMask      = ctrlPrescaler | ctrlCountUp | ctrlIRQ | ctrlStart
)

// the number of cycles for each tick of the counter is (1 << shift). the ARM9
// bus runs at half the speed of the clock
var prescalerShift = [4]uint{1, 7, 9, 11}

// Prescaler returns the division of the ARM9 bus clock for the control value.
func Prescaler(control uint16) int {
	return 1 << (prescalerShift[control&ctrlPrescaler] - 1)
}

// Interrupter is the part of the interrupt controller used by the timers.
type Interrupter interface {
	SendInterrupt(id cpu.ID, irq int)
}

// Bus is the part of the memory bus used by the timers.
type Bus interface {
	MapIO(addr uint32, vis memory.Visibility, io memory.IO) error
}

type timer struct {
	reload  uint16
	counter uint16
	control uint16

	// the cycle on which the next overflow is expected. only meaningful if
	// pending is true
	endCycle uint64
	pending  bool

	// number of times the counter has overflowed
	overflows int
}

func (t *timer) running() bool {
	return t.control&ctrlStart == ctrlStart && t.control&ctrlCountUp == 0
}

// Timers is the collection of the four ARM9 timers.
type Timers struct {
	sch *scheduler.Scheduler
	irq Interrupter

	timers [NumTimers]timer
}

// NewTimers is the preferred method of initialisation for the Timers type.
// The overflow tasks are bound to the scheduler and the registers are mapped
// on the bus.
func NewTimers(sch *scheduler.Scheduler, irq Interrupter, bus Bus) (*Timers, error) {
	tmrs := &Timers{
		sch: sch,
		irq: irq,
	}

	for i := 0; i < NumTimers; i++ {
		if err := sch.Bind(scheduler.TaskTimerOverflow0+scheduler.TaskID(i), tmrs); err != nil {
			return nil, err
		}

		err := bus.MapIO(AddrTimerBase+uint32(i*4), memory.VisibleARM9, memory.IO{
			Label: fmt.Sprintf("TIMER%d", i),
			Read:  func(_ cpu.ID) uint32 { return tmrs.read(i) },
			Write: func(_ cpu.ID, value uint32, mask uint32) { tmrs.write(i, value, mask) },
		})
		if err != nil {
			return nil, err
		}
	}

	sch.AddRebaser(tmrs)

	return tmrs, nil
}

func (tmrs *Timers) String() string {
	s := strings.Builder{}
	for i := range tmrs.timers {
		t := &tmrs.timers[i]
		if i > 0 {
			s.WriteString(" ")
		}
		s.WriteString(fmt.Sprintf("T%d=%04x/%04x", i, tmrs.Counter(i), t.control))
	}
	return s.String()
}

// Counter returns the current value of the timer's counter.
func (tmrs *Timers) Counter(i int) uint16 {
	t := &tmrs.timers[i]
	if !t.pending {
		return t.counter
	}

	// the counter is derived from the number of whole ticks remaining before
	// the overflow
	shift := prescalerShift[t.control&ctrlPrescaler]
	remaining := (t.endCycle - tmrs.sch.Cycle() + (1 << shift) - 1) >> shift
	return uint16(0x10000 - remaining)
}

// Overflows returns the number of times the timer has overflowed.
func (tmrs *Timers) Overflows(i int) int {
	return tmrs.timers[i].overflows
}

func (tmrs *Timers) read(i int) uint32 {
	return uint32(tmrs.Counter(i)) | uint32(tmrs.timers[i].control)<<16
}

func (tmrs *Timers) write(i int, value uint32, mask uint32) {
	t := &tmrs.timers[i]

	if mask&0x0000ffff != 0 {
		m := uint16(mask)
		t.reload = (t.reload &^ m) | (uint16(value) & m)
	}

	if mask&0xffff0000 == 0 {
		return
	}

	m := uint16(mask >> 16)
	control := (t.control &^ m) | (uint16(value>>16) & m & ctrlMask)

	// the first timer has no preceding timer to count
	if i == 0 && control&ctrlCountUp == ctrlCountUp {
		logger.Logf(logger.Allow, "timers", "count-up has no effect on timer 0")
		control &^= ctrlCountUp
	}

	if control == t.control {
		return
	}

	// latch the counter before the control value changes
	t.counter = tmrs.Counter(i)
	if t.control&ctrlStart == 0 && control&ctrlStart == ctrlStart {
		t.counter = t.reload
	}
	t.control = control

	tmrs.schedule(i)
}

// schedule the next overflow of a running timer.
func (tmrs *Timers) schedule(i int) {
	t := &tmrs.timers[i]
	t.pending = t.running()
	if !t.pending {
		return
	}

	delay := uint64(0x10000-uint32(t.counter)) << prescalerShift[t.control&ctrlPrescaler]
	t.endCycle = tmrs.sch.Cycle() + delay
	tmrs.sch.Schedule(scheduler.TaskTimerOverflow0+scheduler.TaskID(i), delay)
}

// HandleTask implements the scheduler.Handler interface.
func (tmrs *Timers) HandleTask(task scheduler.TaskID) {
	i := int(task - scheduler.TaskTimerOverflow0)
	if i < 0 || i >= NumTimers {
		return
	}

	// the timer has been stopped or reconfigured since the event was
	// scheduled
	t := &tmrs.timers[i]
	if !t.pending || t.endCycle != tmrs.sch.Cycle() {
		return
	}

	tmrs.overflow(i)
	tmrs.schedule(i)
}

func (tmrs *Timers) overflow(i int) {
	t := &tmrs.timers[i]
	t.counter = t.reload
	t.overflows++

	if t.control&ctrlIRQ == ctrlIRQ {
		tmrs.irq.SendInterrupt(cpu.ARM9, interrupts.IRQTimer0+i)
	}

	if i+1 >= NumTimers {
		return
	}

	n := &tmrs.timers[i+1]
	if n.control&ctrlStart == ctrlStart && n.control&ctrlCountUp == ctrlCountUp {
		n.counter++
		if n.counter == 0 {
			tmrs.overflow(i + 1)
		}
	}
}

// Rebase implements the scheduler.Rebaser interface.
func (tmrs *Timers) Rebase(delta uint64) {
	for i := range tmrs.timers {
		t := &tmrs.timers[i]
		t.endCycle -= min(t.endCycle, delta)
	}
}
