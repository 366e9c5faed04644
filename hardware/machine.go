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
	"fmt"

	"github.com/hydr8gon/3beans/hardware/cpu"
	"github.com/hydr8gon/3beans/hardware/interrupts"
	"github.com/hydr8gon/3beans/hardware/memory"
	"github.com/hydr8gon/3beans/hardware/preferences"
	"github.com/hydr8gon/3beans/hardware/scheduler"
	"github.com/hydr8gon/3beans/hardware/timers"
	"github.com/hydr8gon/3beans/logger"
)

// Machine is the main container for the emulated components.
type Machine struct {
	Prefs *preferences.Preferences

	Scheduler  *scheduler.Scheduler
	Bus        *memory.Bus
	Interrupts *interrupts.Controller
	Timers     *timers.Timers
	CPUs       [cpu.NumCPUs]*cpu.CPU

	newModel    bool
	frameCycles uint64

	// the CPUs visited by the execution loop. the extra ARM11 cores are only
	// included in the 4-core configuration
	active []*cpu.CPU

	// cleared by the end of frame task
	running bool

	// number of completed frames
	frames int
}

// NewMachine creates a new Machine and everything associated with the
// hardware. A missing or badly sized boot ROM is a fatal error.
func NewMachine(prefs *preferences.Preferences) (*Machine, error) {
	m := &Machine{
		Prefs:       prefs,
		newModel:    prefs.NewModel(),
		frameCycles: uint64(prefs.FrameCycles.Get().(int)),
	}

	m.Bus = memory.NewBus(m.newModel)
	err := m.Bus.LoadBootROMs(prefs.Boot9.Get().(string), prefs.Boot11.Get().(string))
	if err != nil {
		return nil, err
	}

	m.Scheduler = scheduler.NewScheduler()

	latency := uint64(prefs.InterruptLatency.Get().(int))
	m.Interrupts, err = interrupts.NewController(m.Scheduler, m.Bus, latency, m.newModel)
	if err != nil {
		return nil, err
	}
	err = m.Interrupts.MapRegisters()
	if err != nil {
		return nil, err
	}

	for id := cpu.ARM11A; id < cpu.NumCPUs; id++ {
		c := cpu.NewCPU(id, m.Bus, m.Interrupts)
		c.SetLogPermission(prefs.UnknownOpcodes())
		m.Interrupts.Attach(c)
		m.Scheduler.AddRebaser(c)
		m.CPUs[id] = c
	}

	// the extra cores always start stopped. on the OLD model they are never
	// started because the boot control register is not present
	m.CPUs[cpu.ARM11C].SetHalted(cpu.HaltStopped)
	m.CPUs[cpu.ARM11D].SetHalted(cpu.HaltStopped)

	m.Timers, err = timers.NewTimers(m.Scheduler, m.Interrupts, m.Bus)
	if err != nil {
		return nil, err
	}

	err = m.Scheduler.Bind(scheduler.TaskEndFrame, m)
	if err != nil {
		return nil, err
	}
	err = m.Scheduler.Bind(scheduler.TaskCoreSwitch, m)
	if err != nil {
		return nil, err
	}
	err = m.Scheduler.Seal()
	if err != nil {
		return nil, err
	}

	m.Scheduler.Schedule(scheduler.TaskEndFrame, m.frameCycles)
	m.configureCores()

	return m, nil
}

func (m *Machine) String() string {
	model := preferences.ModelOld
	if m.newModel {
		model = preferences.ModelNew
	}
	return fmt.Sprintf("%s frame=%d cycle=%d cores=%d", model, m.frames, m.Scheduler.Cycle(), len(m.active))
}

// Frames returns the number of completed frames.
func (m *Machine) Frames() int {
	return m.frames
}

// ActiveCores returns the number of ARM11 cores visited by the execution
// loop.
func (m *Machine) ActiveCores() int {
	return len(m.active) - 1
}

// HandleTask implements the scheduler.Handler interface.
func (m *Machine) HandleTask(task scheduler.TaskID) {
	switch task {
	case scheduler.TaskEndFrame:
		m.endFrame()
	case scheduler.TaskCoreSwitch:
		m.configureCores()
	}
}

func (m *Machine) endFrame() {
	m.Interrupts.SendInterrupt(cpu.ARM11A, interrupts.IRQVBlank)
	m.running = false
	m.frames++
	m.Scheduler.Schedule(scheduler.TaskEndFrame, m.frameCycles)
}

// switch between the 2-core and 4-core configuration. the ARM9 is always the
// last CPU visited by the execution loop
func (m *Machine) configureCores() {
	n := 4
	if m.Interrupts.ExtraCoresStopped() {
		n = 2
	}
	if len(m.active) == n+1 {
		return
	}

	m.active = m.active[:0]
	for id := cpu.ARM11A; id < cpu.ARM11A+cpu.ID(n); id++ {
		m.active = append(m.active, m.CPUs[id])
	}
	m.active = append(m.active, m.CPUs[cpu.ARM9])

	logger.Logf(logger.Allow, "machine", "running with %d ARM11 cores", n)
}
