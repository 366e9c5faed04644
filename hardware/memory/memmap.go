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

package memory

// Origin, memtop and size of every memory area.
const (
	OriginBoot  = uint32(0xffff0000)
	MemtopBoot  = uint32(0xffffffff)
	SizeBootROM = 0x00010000

	// the ARM11 boot ROM is also visible from address zero
	OriginBootLow = uint32(0x00000000)

	OriginARM9RAM       = uint32(0x08000000)
	SizeARM9RAM         = 0x00100000
	SizeARM9RAMExtended = 0x00180000

	OriginIO = uint32(0x10000000)
	MemtopIO = uint32(0x17ffffff)

	OriginAXIWRAM = uint32(0x1ff80000)
	SizeAXIWRAM   = 0x00080000

	OriginFCRAM       = uint32(0x20000000)
	SizeFCRAM         = 0x08000000
	SizeFCRAMExtended = 0x10000000
)
