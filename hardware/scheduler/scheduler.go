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

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hydr8gon/3beans/curated"
	"github.com/hydr8gon/3beans/logger"
)

// RebaseHorizon is the delay used when scheduling the rebase task. Because
// the clock is rebased before it can exceed this value and because no delay
// can sensibly be larger than it, the sum of the cycle counter and any delay
// cannot overflow a uint64.
const RebaseHorizon = uint64(0x7fffffffffffffff)

// Error patterns.
const (
	UnboundTask     = "scheduler: task not bound: %v"
	InvalidTask     = "scheduler: invalid task: %v"
	AlreadyBound    = "scheduler: task already bound: %v"
	SchedulerSealed = "scheduler: sealed: cannot bind %v"
)

// Event is a task and the cycle on which it is due.
type Event struct {
	Task TaskID
	Due  uint64
}

func (e Event) String() string {
	return fmt.Sprintf("%s @ %d", e.Task, e.Due)
}

// Scheduler is the clock and the event queue for the emulated machine.
type Scheduler struct {
	// the global cycle count
	cycle uint64

	// pending events. ordered by due cycle, with events of the same due
	// cycle in the order they were scheduled
	queue []Event

	// dispatch table. immutable once sealed
	handlers [NumTasks]Handler
	sealed   bool

	// components that hold absolute cycle values
	rebasers []Rebaser

	// the number of times the rebase task has run
	rebases int
}

// NewScheduler is the preferred method of initialisation for the Scheduler
// type. The rebase task is bound and scheduled immediately.
func NewScheduler() *Scheduler {
	s := &Scheduler{
		queue: make([]Event, 0, 32),
	}
	s.handlers[TaskRebase] = HandlerFunc(s.rebase)
	s.Schedule(TaskRebase, RebaseHorizon)
	return s
}

func (s *Scheduler) String() string {
	b := strings.Builder{}
	b.WriteString(fmt.Sprintf("cycle: %d", s.cycle))
	for _, e := range s.queue {
		b.WriteString(fmt.Sprintf("\n%s", e))
	}
	return b.String()
}

// Bind a Handler to a TaskID. Every TaskID can be bound only once and binding
// is not possible once the scheduler has been sealed.
func (s *Scheduler) Bind(id TaskID, h Handler) error {
	if !id.Valid() {
		return curated.Errorf(InvalidTask, id)
	}
	if s.sealed {
		return curated.Errorf(SchedulerSealed, id)
	}
	if s.handlers[id] != nil {
		return curated.Errorf(AlreadyBound, id)
	}
	s.handlers[id] = h
	return nil
}

// Seal the dispatch table. Returns an error if any TaskID has not been bound.
func (s *Scheduler) Seal() error {
	for id := TaskID(0); id < NumTasks; id++ {
		if s.handlers[id] == nil {
			return curated.Errorf(UnboundTask, id)
		}
	}
	s.sealed = true
	return nil
}

// AddRebaser registers a component to be adjusted when the clock is rebased.
func (s *Scheduler) AddRebaser(r Rebaser) {
	s.rebasers = append(s.rebasers, r)
}

// Cycle returns the current global cycle.
func (s *Scheduler) Cycle() uint64 {
	return s.cycle
}

// Rebases returns the number of times the clock has been rebased.
func (s *Scheduler) Rebases() int {
	return s.rebases
}

// Schedule a task to run delay cycles from now. Scheduling the same task more
// than once results in more than one event. A delay of zero means the task
// will run at the next event phase.
func (s *Scheduler) Schedule(id TaskID, delay uint64) {
	if !id.Valid() {
		logger.Logf(logger.Allow, "scheduler", "cannot schedule invalid task (%d)", int(id))
		return
	}

	due := s.cycle + delay

	// upper bound search. the new event is inserted after every event with
	// the same due cycle
	idx := sort.Search(len(s.queue), func(i int) bool {
		return s.queue[i].Due > due
	})

	s.queue = append(s.queue, Event{})
	copy(s.queue[idx+1:], s.queue[idx:])
	s.queue[idx] = Event{Task: id, Due: due}
}

// NextDue returns the due cycle of the event at the head of the queue. If the
// queue is empty the maximum possible cycle is returned.
func (s *Scheduler) NextDue() uint64 {
	if len(s.queue) == 0 {
		return ^uint64(0)
	}
	return s.queue[0].Due
}

// AdvanceTo moves the clock forward to the specified cycle. The clock never
// moves backwards except during a rebase so a value less than the current
// cycle is ignored.
func (s *Scheduler) AdvanceTo(cycle uint64) {
	if cycle > s.cycle {
		s.cycle = cycle
	}
}

// PopDue removes and returns the event at the head of the queue if it is due.
// Returns false if there is no event due.
func (s *Scheduler) PopDue() (Event, bool) {
	if len(s.queue) == 0 || s.queue[0].Due > s.cycle {
		return Event{}, false
	}
	e := s.queue[0]
	copy(s.queue, s.queue[1:])
	s.queue = s.queue[:len(s.queue)-1]
	return e, true
}

// RunDue removes and dispatches every event that is due. Events scheduled by a
// handler that are due immediately are also run. Returns the number of events
// dispatched.
func (s *Scheduler) RunDue() int {
	var n int
	for {
		e, ok := s.PopDue()
		if !ok {
			return n
		}
		n++

		h := s.handlers[e.Task]
		if h == nil {
			panic(curated.Errorf(UnboundTask, e.Task))
		}
		h.HandleTask(e.Task)
	}
}

// Pending returns a copy of the pending events in the order they will be run.
func (s *Scheduler) Pending() []Event {
	q := make([]Event, len(s.queue))
	copy(q, s.queue)
	return q
}

// rebase is the handler for TaskRebase.
func (s *Scheduler) rebase(_ TaskID) {
	delta := s.cycle

	for i := range s.queue {
		s.queue[i].Due -= delta
	}
	s.cycle -= delta

	for _, r := range s.rebasers {
		r.Rebase(delta)
	}

	s.rebases++
	s.Schedule(TaskRebase, RebaseHorizon)
}
