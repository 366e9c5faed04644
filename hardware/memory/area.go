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

import (
	"encoding/binary"

	"github.com/hydr8gon/3beans/curated"
)

// NotInArea is the error pattern returned by Peek() and Poke() when the
// address is not in the memory area.
const NotInArea = "memory: %08x is not in area %s"

// Area is a contiguous area of memory. The backing memory is allocated on the
// first write, until then the area reads as zero.
type Area struct {
	label    string
	origin   uint32
	size     uint32
	readOnly bool
	memory   []uint8
}

// newArea is the preferred method of initialisation for the Area type.
func newArea(label string, origin uint32, size uint32, readOnly bool) *Area {
	return &Area{
		label:    label,
		origin:   origin,
		size:     size,
		readOnly: readOnly,
	}
}

func (a *Area) String() string {
	return a.label
}

// Label returns the name of the area.
func (a *Area) Label() string {
	return a.label
}

// Origin returns the first address of the area.
func (a *Area) Origin() uint32 {
	return a.origin
}

// Memtop returns the last address of the area.
func (a *Area) Memtop() uint32 {
	return a.origin + a.size - 1
}

// Size returns the current size of the area in bytes.
func (a *Area) Size() uint32 {
	return a.size
}

// Peek returns the byte at the address. The address is relative to the
// address space, not to the origin of the area.
func (a *Area) Peek(addr uint32) (uint8, error) {
	if !a.contains(addr) {
		return 0, curated.Errorf(NotInArea, addr, a.label)
	}
	return a.read8(addr - a.origin), nil
}

// Poke writes a byte to the address. Read-only areas can be written to with
// Poke().
func (a *Area) Poke(addr uint32, value uint8) error {
	if !a.contains(addr) {
		return curated.Errorf(NotInArea, addr, a.label)
	}
	a.allocate()
	a.memory[addr-a.origin] = value
	return nil
}

func (a *Area) contains(addr uint32) bool {
	return addr >= a.origin && addr-a.origin < a.size
}

func (a *Area) allocate() {
	if uint32(len(a.memory)) < a.size {
		m := make([]uint8, a.size)
		copy(m, a.memory)
		a.memory = m
	}
}

// change the size of the area. data beyond the new size is kept and will be
// visible if the area grows again
func (a *Area) resize(size uint32) {
	a.size = size
}

func (a *Area) read8(offset uint32) uint8 {
	if offset >= uint32(len(a.memory)) {
		return 0
	}
	return a.memory[offset]
}

func (a *Area) read16(offset uint32) uint16 {
	if offset+2 > uint32(len(a.memory)) {
		return 0
	}
	return binary.LittleEndian.Uint16(a.memory[offset:])
}

func (a *Area) read32(offset uint32) uint32 {
	if offset+4 > uint32(len(a.memory)) {
		return 0
	}
	return binary.LittleEndian.Uint32(a.memory[offset:])
}

func (a *Area) write8(offset uint32, value uint8) {
	a.allocate()
	a.memory[offset] = value
}

func (a *Area) write16(offset uint32, value uint16) {
	a.allocate()
	binary.LittleEndian.PutUint16(a.memory[offset:], value)
}

func (a *Area) write32(offset uint32, value uint32) {
	a.allocate()
	binary.LittleEndian.PutUint32(a.memory[offset:], value)
}
