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

// Package timers implements the four 16-bit timers of the ARM9.
//
// A running timer is not stepped every cycle. Instead, the value of the
// counter is latched whenever the timer is written to and the overflow is
// scheduled as a task. Reading the counter calculates the current value from
// the number of cycles since the latch.
//
// Scheduled overflow events cannot be cancelled so the cycle on which the
// overflow is expected is recorded. An overflow event that fires on any other
// cycle is stale and is ignored.
//
// A timer in count-up mode does not run on its own. It is incremented each
// time the preceding timer overflows.
package timers
