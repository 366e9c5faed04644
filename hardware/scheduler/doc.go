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

// Package scheduler implements the clock and the event queue shared by every
// part of the emulated machine.
//
// There is a single time axis, measured in ARM11 cycles. Components ask for a
// task to be run some number of cycles in the future with the Schedule()
// function. Tasks are identified by a value from the closed TaskID
// enumeration. Each TaskID is bound once, during machine construction, to the
// Handler of the component that owns it. Once the scheduler has been sealed no
// more bindings can be made.
//
// Events are kept in order of their due cycle. Events with the same due cycle
// are run in the order they were scheduled. There is no way to cancel an
// event. A component that may have a stale event in the queue should record
// the cycle it expects the event to fire on and compare it with Cycle() when
// the handler is called.
//
// To stop the cycle count from growing without bound the scheduler runs a
// rebase task at a very distant horizon. The rebase subtracts the current
// cycle from the clock and from every pending event. Components that store
// absolute cycle values of their own should register a Rebaser so that they
// are adjusted by the same amount.
//
// The scheduler is not safe for concurrent use. The entire emulation runs in
// one goroutine.
package scheduler
