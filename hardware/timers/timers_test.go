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

package timers_test

import (
	"fmt"
	"testing"

	"github.com/hydr8gon/3beans/hardware/cpu"
	"github.com/hydr8gon/3beans/hardware/interrupts"
	"github.com/hydr8gon/3beans/hardware/memory"
	"github.com/hydr8gon/3beans/hardware/scheduler"
	"github.com/hydr8gon/3beans/hardware/timers"
	"github.com/hydr8gon/3beans/test"
)

// sentInterrupts records every interrupt sent by the timers
type sentInterrupts struct {
	sent []int
}

func (irq *sentInterrupts) SendInterrupt(id cpu.ID, n int) {
	if id != cpu.ARM9 {
		panic("timer interrupt sent to wrong CPU")
	}
	irq.sent = append(irq.sent, n)
}

type harness struct {
	sch  *scheduler.Scheduler
	bus  *memory.Bus
	irq  *sentInterrupts
	tmrs *timers.Timers
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		sch: scheduler.NewScheduler(),
		bus: memory.NewBus(false),
		irq: &sentInterrupts{},
	}

	var err error
	h.tmrs, err = timers.NewTimers(h.sch, h.irq, h.bus)
	test.DemandSuccess(t, err)

	return h
}

func (h *harness) write(i int, reload uint16, control uint16) {
	h.bus.Write32(cpu.ARM9, timers.AddrTimerBase+uint32(i*4), uint32(control)<<16|uint32(reload))
}

func (h *harness) control(i int, control uint16) {
	h.bus.Write16(cpu.ARM9, timers.AddrTimerBase+uint32(i*4)+2, control)
}

// run every event due up to and including the cycle
func (h *harness) runTo(cycle uint64) {
	for h.sch.NextDue() <= cycle {
		h.sch.AdvanceTo(h.sch.NextDue())
		h.sch.RunDue()
	}
	h.sch.AdvanceTo(cycle)
}

func TestPrescaler(t *testing.T) {
	test.ExpectEquality(t, timers.Prescaler(0x00), 1)
	test.ExpectEquality(t, timers.Prescaler(0x01), 64)
	test.ExpectEquality(t, timers.Prescaler(0x02), 256)
	test.ExpectEquality(t, timers.Prescaler(0x83), 1024)
}

func TestOverflow(t *testing.T) {
	h := newHarness(t)

	h.write(0, 0xfff0, 0x00c0)
	test.ExpectEquality(t, h.tmrs.Counter(0), uint16(0xfff0))

	// one tick every two cycles
	h.runTo(10)
	test.ExpectEquality(t, h.tmrs.Counter(0), uint16(0xfff5))
	h.runTo(11)
	test.ExpectEquality(t, h.tmrs.Counter(0), uint16(0xfff5))

	h.runTo(31)
	test.ExpectEquality(t, h.tmrs.Overflows(0), 0)
	h.runTo(32)
	test.ExpectEquality(t, h.tmrs.Overflows(0), 1)
	test.ExpectEquality(t, h.tmrs.Counter(0), uint16(0xfff0))
	test.ExpectEquality(t, len(h.irq.sent), 1)
	test.ExpectEquality(t, h.irq.sent[0], interrupts.IRQTimer0)

	// the counter is reloaded and the timer continues
	h.runTo(100)
	test.ExpectEquality(t, h.tmrs.Overflows(0), 3)
	test.ExpectEquality(t, len(h.irq.sent), 3)
	test.ExpectEquality(t, h.bus.Read32(cpu.ARM9, timers.AddrTimerBase), uint32(0x00c0fff2))
}

func TestNoInterrupt(t *testing.T) {
	h := newHarness(t)

	h.write(1, 0xffff, 0x0081)
	h.runTo(127)
	test.ExpectEquality(t, h.tmrs.Overflows(1), 0)
	h.runTo(128)
	test.ExpectEquality(t, h.tmrs.Overflows(1), 1)
	test.ExpectEquality(t, len(h.irq.sent), 0)
}

func TestStopped(t *testing.T) {
	h := newHarness(t)

	h.write(0, 0xff00, 0x0080)
	h.runTo(100)
	h.control(0, 0x0000)
	test.ExpectEquality(t, h.tmrs.Counter(0), uint16(0xff32))

	// the overflow event is stale and the counter does not change
	h.runTo(1000)
	test.ExpectEquality(t, h.tmrs.Overflows(0), 0)
	test.ExpectEquality(t, h.tmrs.Counter(0), uint16(0xff32))

	// restarting the timer reloads the counter
	h.control(0, 0x0080)
	test.ExpectEquality(t, h.tmrs.Counter(0), uint16(0xff00))
	h.runTo(1511)
	test.ExpectEquality(t, h.tmrs.Overflows(0), 0)
	h.runTo(1512)
	test.ExpectEquality(t, h.tmrs.Overflows(0), 1)
}

func TestReconfigured(t *testing.T) {
	h := newHarness(t)

	h.write(0, 0xff00, 0x0080)
	h.runTo(100)

	// changing the prescaler while running keeps the counter and schedules a
	// new overflow
	h.control(0, 0x0081)
	test.ExpectEquality(t, h.tmrs.Counter(0), uint16(0xff32))

	h.runTo(1000)
	test.ExpectEquality(t, h.tmrs.Overflows(0), 0)
	h.runTo(100 + 206*128)
	test.ExpectEquality(t, h.tmrs.Overflows(0), 1)

	// writing the same control value has no effect on the timer
	h.runTo(100 + 206*128 + 1000)
	h.control(0, 0x0081)
	h.runTo(100 + 206*128 + 0x100*128)
	test.ExpectEquality(t, h.tmrs.Overflows(0), 2)
}

func TestCascade(t *testing.T) {
	h := newHarness(t)

	h.write(1, 0xfffe, 0x00c4)
	h.write(0, 0xfff0, 0x00c0)

	h.runTo(32)
	test.ExpectEquality(t, h.tmrs.Counter(1), uint16(0xffff))
	test.ExpectEquality(t, h.tmrs.Overflows(1), 0)

	h.runTo(64)
	test.ExpectEquality(t, h.tmrs.Counter(1), uint16(0xfffe))
	test.ExpectEquality(t, h.tmrs.Overflows(1), 1)
	test.ExpectEquality(t, fmt.Sprint(h.irq.sent), "[8 8 9]")
}

func TestCountUpFirstTimer(t *testing.T) {
	h := newHarness(t)

	// the first timer runs normally even when count-up is requested
	h.write(0, 0x0000, 0x0084)
	test.ExpectEquality(t, h.bus.Read32(cpu.ARM9, timers.AddrTimerBase)>>16, uint32(0x0080))
	h.runTo(0x10000 << 1)
	test.ExpectEquality(t, h.tmrs.Overflows(0), 1)
}

func TestVisibility(t *testing.T) {
	h := newHarness(t)
	h.bus.Write32(cpu.ARM11A, timers.AddrTimerBase, 0x0080ff00)
	test.ExpectEquality(t, h.tmrs.Counter(0), uint16(0))
	test.ExpectEquality(t, len(h.sch.Pending()), 1)
}

func TestRebase(t *testing.T) {
	h := newHarness(t)

	h.sch.AdvanceTo(scheduler.RebaseHorizon - 10)
	h.write(0, 0xfff0, 0x00c0)

	h.sch.AdvanceTo(scheduler.RebaseHorizon)
	h.sch.RunDue()
	test.ExpectEquality(t, h.sch.Cycle(), uint64(0))
	test.ExpectEquality(t, h.tmrs.Counter(0), uint16(0xfff5))

	h.runTo(21)
	test.ExpectEquality(t, h.tmrs.Overflows(0), 0)
	h.runTo(22)
	test.ExpectEquality(t, h.tmrs.Overflows(0), 1)
}
