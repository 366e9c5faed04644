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
	"github.com/hydr8gon/3beans/curated"
	"github.com/hydr8gon/3beans/hardware/cpu"
	"github.com/hydr8gon/3beans/logger"
)

// Visibility specifies which CPUs can see an I/O register.
type Visibility uint8

// List of valid Visibility values.
const (
	VisibleARM9 Visibility = 1 << iota
	VisibleARM11
	VisibleAll = VisibleARM9 | VisibleARM11
)

func (v Visibility) visible(id cpu.ID) bool {
	if id == cpu.ARM9 {
		return v&VisibleARM9 == VisibleARM9
	}
	return v&VisibleARM11 == VisibleARM11
}

// IO is a 32bit I/O register. Either function can be nil, in which case the
// register reads as zero or ignores writes.
type IO struct {
	Label string

	// Read returns the value of the register as seen by the CPU
	Read func(id cpu.ID) uint32

	// Write the value to the register. Only the bits set in mask are being
	// written
	Write func(id cpu.ID, value uint32, mask uint32)
}

type mappedIO struct {
	IO
	visibility Visibility
}

// Error patterns.
const (
	IOAlreadyMapped = "memory: I/O register already mapped at %08x (%s)"
	IONotInRange    = "memory: I/O register not in I/O range (%08x)"
)

// MapIO adds a register to the I/O table. The address must be word aligned.
func (bus *Bus) MapIO(addr uint32, vis Visibility, io IO) error {
	if addr < OriginIO || addr > MemtopIO || addr&0x03 != 0 {
		return curated.Errorf(IONotInRange, addr)
	}
	if m, ok := bus.io[addr]; ok {
		return curated.Errorf(IOAlreadyMapped, addr, m.Label)
	}
	bus.io[addr] = mappedIO{IO: io, visibility: vis}
	return nil
}

// returns the value of the register at the aligned address shifted so that
// the addressed byte is in the low bits
func (bus *Bus) readIO(id cpu.ID, addr uint32) (uint32, bool) {
	m, ok := bus.io[addr&^0x03]
	if !ok || !m.visibility.visible(id) {
		return 0, false
	}
	if m.Read == nil {
		return 0, true
	}
	return m.Read(id) >> ((addr & 0x03) * 8), true
}

func (bus *Bus) writeIO(id cpu.ID, addr uint32, value uint32, mask uint32) bool {
	m, ok := bus.io[addr&^0x03]
	if !ok || !m.visibility.visible(id) {
		return false
	}
	if m.Write != nil {
		shift := (addr & 0x03) * 8
		m.Write(id, value<<shift, mask<<shift)
	}
	return true
}

func (bus *Bus) unmapped(id cpu.ID, access string, addr uint32) {
	logger.Logf(bus.logUnmapped, "memory", "%s: unmapped %s (%08x)", id, access, addr)
}
