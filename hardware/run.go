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

package hardware

import (
	"github.com/hydr8gon/3beans/hardware/clocks"
	"github.com/hydr8gon/3beans/hardware/cpu"
)

// RunFrame runs the emulation until the end of the current frame.
//
// Each iteration of the loop is made up of two phases. In the instruction
// phase, every CPU that is not halted and which is ready runs one
// instruction. The clock then moves forward to the earliest cycle at which a
// CPU is ready, but never past the next due event. In the event phase, every
// due event is run.
func (m *Machine) RunFrame() {
	m.running = true
	for m.running {
		m.instructionPhase()
		m.eventPhase()
	}
}

// RunFrames runs the emulation for the specified number of frames. The
// continueCheck function is called after each frame and the emulation stops
// early if it returns false.
func (m *Machine) RunFrames(numFrames int, continueCheck func(frame int) bool) {
	if continueCheck == nil {
		continueCheck = func(_ int) bool { return true }
	}

	for i := 0; i < numFrames; i++ {
		m.RunFrame()
		if !continueCheck(m.frames) {
			return
		}
	}
}

func (m *Machine) instructionPhase() {
	sch := m.Scheduler
	now := sch.Cycle()

	for _, c := range m.active {
		if c.Halted() != 0 || c.ReadyAt > now {
			continue
		}

		cost := uint64(c.Step())
		if c.ID() == cpu.ARM9 {
			cost *= clocks.ARM9Divider
		}

		// a CPU that has been halted starts counting from the current cycle
		// when it wakes up
		if c.ReadyAt < now {
			c.ReadyAt = now
		}
		c.ReadyAt += cost
	}

	// move to the earliest ready CPU or the next event, whichever is sooner
	target := sch.NextDue()
	for _, c := range m.active {
		if c.Halted() == 0 && c.ReadyAt < target {
			target = c.ReadyAt
		}
	}
	sch.AdvanceTo(target)
}

func (m *Machine) eventPhase() {
	if m.Scheduler.Cycle() < m.Scheduler.NextDue() {
		return
	}
	m.Scheduler.RunDue()
}
