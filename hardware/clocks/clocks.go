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


// Package clocks defines the speed of the processors and of the display
// refresh. The scheduler counts cycles of the ARM11 clock.
package clocks

// ARM11 clock in Hz.
const ARM11 = 268111856

// ARM9 clock in Hz.
const ARM9 = ARM11 / 2

// ARM9Divider is the number of scheduler cycles in one ARM9 cycle.
const ARM9Divider = ARM11 / ARM9

// FramesPerSecond is the display refresh rate.
const FramesPerSecond = 60

// FrameCycles is the number of scheduler cycles in one frame.
const FrameCycles = ARM11 / FramesPerSecond
