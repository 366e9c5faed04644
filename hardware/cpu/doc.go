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

// Package cpu implements the processor contexts of the machine. There are
// five contexts: four ARM11 MPCore application cores and the ARM946
// management core.
//
// Each context has the register file with its banks, the program status
// registers, a two stage fetch pipeline and the system control coprocessor.
// The instruction set support is enough to run simple programs and to test
// the execution engine. Unknown instructions are logged and treated as no-ops
// that take one cycle.
//
// The CPU has no notion of time. The execution engine in the hardware package
// calls Step() and charges the returned number of cycles to the ReadyAt
// field. Memory and the interrupt controller are reached through the Memory
// and Interrupts interfaces.
package cpu
