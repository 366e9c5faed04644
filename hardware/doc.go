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

// Package hardware is the base package for the machine emulation. It and its
// sub-packages contain everything required for a headless emulation.
//
// The Machine type is the root of the emulation and contains references to
// all the sub-systems. The sub-systems share a single scheduler. Each
// sub-system binds the tasks it owns to the scheduler when it is created and
// the scheduler is sealed once the machine is complete.
//
// The emulation is driven by calling RunFrame() in a loop. RunFrame()
// interleaves the CPUs against the clock and the event queue and returns to
// the host once the end of frame task has run.
//
// The machine is single threaded. Nothing in this package or the
// sub-packages is safe to use from more than one goroutine at once.
package hardware
