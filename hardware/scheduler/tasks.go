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

package scheduler

import "fmt"

// TaskID identifies a unit of deferred work. The list of TaskIDs is closed and
// every value must be bound to a Handler before the scheduler is sealed.
type TaskID int

// List of valid TaskID values.
const (
	// rebase of the cycle counter. bound by the scheduler itself
	TaskRebase TaskID = iota

	// end of the emulated display frame. the only task that stops the
	// execution loop
	TaskEndFrame

	// interrupt delivery for each CPU
	TaskInterruptARM11A
	TaskInterruptARM11B
	TaskInterruptARM11C
	TaskInterruptARM11D
	TaskInterruptARM9

	// switch the execution loop between 2-core and 4-core configuration
	TaskCoreSwitch

	// overflow of the ARM9 timers
	TaskTimerOverflow0
	TaskTimerOverflow1
	TaskTimerOverflow2
	TaskTimerOverflow3

	NumTasks
)

func (id TaskID) String() string {
	switch id {
	case TaskRebase:
		return "rebase"
	case TaskEndFrame:
		return "end frame"
	case TaskInterruptARM11A, TaskInterruptARM11B, TaskInterruptARM11C, TaskInterruptARM11D:
		return fmt.Sprintf("interrupt ARM11%c", 'A'+rune(id-TaskInterruptARM11A))
	case TaskInterruptARM9:
		return "interrupt ARM9"
	case TaskCoreSwitch:
		return "core switch"
	case TaskTimerOverflow0, TaskTimerOverflow1, TaskTimerOverflow2, TaskTimerOverflow3:
		return fmt.Sprintf("timer %d overflow", id-TaskTimerOverflow0)
	}
	return fmt.Sprintf("unknown task (%d)", int(id))
}

// Valid returns true if the TaskID is part of the enumeration.
func (id TaskID) Valid() bool {
	return id >= 0 && id < NumTasks
}

// Handler is implemented by the component that owns a TaskID. A component
// that owns more than one task should switch on the id argument.
type Handler interface {
	HandleTask(id TaskID)
}

// HandlerFunc allows an ordinary function to be used as a Handler.
type HandlerFunc func(id TaskID)

// HandleTask implements the Handler interface.
func (f HandlerFunc) HandleTask(id TaskID) {
	f(id)
}

// Rebaser is implemented by components that store absolute cycle values. The
// Rebase() function is called with the amount that has been subtracted from
// the clock.
type Rebaser interface {
	Rebase(delta uint64)
}
