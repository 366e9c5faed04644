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

// Package memory implements the memory bus of the machine as it is seen by
// each CPU.
//
// The bus is divided into areas (boot ROMs, ARM9 internal RAM, AXI WRAM and
// FCRAM) and a table of I/O registers. Not every area or register is visible
// to every CPU. The ARM9 sees its own boot ROM at the top of the address space
// and is the only CPU with access to the ARM9 internal RAM. The ARM11 cores
// share a boot ROM which is visible both at the bottom and the top of the
// address space.
//
// I/O registers are 32bit and are keyed by their aligned address. A handler
// is told which CPU is accessing the register, which allows registers to be
// banked per CPU, and for writes a mask indicating which bits of the register
// are being written. Byte and halfword accesses are converted to masked word
// accesses by the bus.
//
// Accesses that hit neither an area nor a register are logged and read as
// zero.
package memory
