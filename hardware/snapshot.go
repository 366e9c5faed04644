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
	"encoding/binary"
	"io"

	"github.com/hydr8gon/3beans/hardware/cpu"
	"github.com/hydr8gon/3beans/hardware/interrupts"
	"github.com/hydr8gon/3beans/hardware/scheduler"
	"github.com/hydr8gon/3beans/hardware/timers"
)

// CPUState is a copy of the visible state of a single CPU.
type CPUState struct {
	ID        string
	PC        uint32
	Status    string
	Registers [cpu.NumRegisters]uint32
	Halted    uint8
	ReadyAt   uint64
	Executed  uint64
	Unknown   uint64
	Delivery  interrupts.Delivery
}

// State is a copy of the machine state. It is produced by the Snapshot()
// function and is suitable for inspection with tools like memviz.
type State struct {
	Frame   int
	Cycle   uint64
	Rebases int
	Cores   int
	CPUs    [cpu.NumCPUs]CPUState
	Pending []scheduler.Event
	Timers  [timers.NumTimers]uint16
}

// Snapshot creates a copy of the machine state. The copy shares nothing with
// the machine.
func (m *Machine) Snapshot() *State {
	s := &State{
		Frame:   m.frames,
		Cycle:   m.Scheduler.Cycle(),
		Rebases: m.Scheduler.Rebases(),
		Cores:   m.ActiveCores(),
		Pending: m.Scheduler.Pending(),
	}

	for id, c := range m.CPUs {
		st := &s.CPUs[id]
		st.ID = c.ID().String()
		st.PC = c.PC()
		st.Status = c.Status().String()
		for r := range st.Registers {
			st.Registers[r] = c.Register(r)
		}
		st.Halted = c.Halted()
		st.ReadyAt = c.ReadyAt
		st.Executed, st.Unknown = c.Executed()
		st.Delivery = m.Interrupts.Delivery(c.ID())
	}

	for i := range s.Timers {
		s.Timers[i] = m.Timers.Counter(i)
	}

	return s
}

// WriteState writes the state of the machine that must be identical between
// two runs of the same program. Used to create digests of the emulation.
func (m *Machine) WriteState(w io.Writer) error {
	var b []byte

	b = binary.LittleEndian.AppendUint64(b, m.Scheduler.Cycle())
	for _, e := range m.Scheduler.Pending() {
		b = binary.LittleEndian.AppendUint32(b, uint32(e.Task))
		b = binary.LittleEndian.AppendUint64(b, e.Due)
	}

	for _, c := range m.CPUs {
		b = binary.LittleEndian.AppendUint32(b, c.PC())
		b = binary.LittleEndian.AppendUint32(b, uint32(c.Status()))
		for r := 0; r < cpu.NumRegisters; r++ {
			b = binary.LittleEndian.AppendUint32(b, c.Register(r))
		}
		b = append(b, c.Halted())
		b = binary.LittleEndian.AppendUint64(b, c.ReadyAt)
	}

	for i := 0; i < timers.NumTimers; i++ {
		b = binary.LittleEndian.AppendUint16(b, m.Timers.Counter(i))
	}

	_, err := w.Write(b)
	return err
}
