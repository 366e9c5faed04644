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
	"fmt"
	"strings"

	"github.com/hydr8gon/3beans/hardware/cpu"
	"github.com/hydr8gon/3beans/logger"
)

// Bus implements the cpu.Memory interface for every CPU in the machine.
type Bus struct {
	boot9   *Area
	boot11  *Area
	arm9RAM *Area
	axiWRAM *Area
	fcram   *Area

	io map[uint32]mappedIO

	// the New model can extend the FCRAM and ARM9 RAM
	newModel bool
	extended bool

	logUnmapped logger.Permission
}

// NewBus is the preferred method of initialisation for the Bus type. The
// boot ROMs are empty until they are loaded.
func NewBus(newModel bool) *Bus {
	return &Bus{
		boot9:       newArea("boot9", OriginBoot, SizeBootROM, true),
		boot11:      newArea("boot11", OriginBoot, SizeBootROM, true),
		arm9RAM:     newArea("ARM9 RAM", OriginARM9RAM, SizeARM9RAM, false),
		axiWRAM:     newArea("AXI WRAM", OriginAXIWRAM, SizeAXIWRAM, false),
		fcram:       newArea("FCRAM", OriginFCRAM, SizeFCRAM, false),
		io:          make(map[uint32]mappedIO),
		newModel:    newModel,
		logUnmapped: logger.Allow,
	}
}

func (bus *Bus) String() string {
	s := strings.Builder{}
	for _, a := range bus.Areas() {
		s.WriteString(fmt.Sprintf("%08x -> %08x %s\n", a.Origin(), a.Memtop(), a.Label()))
	}
	s.WriteString(fmt.Sprintf("%d I/O registers", len(bus.io)))
	return s.String()
}

// SetLogPermission sets the permission used when logging unmapped accesses.
func (bus *Bus) SetLogPermission(perm logger.Permission) {
	bus.logUnmapped = perm
}

// Areas returns every memory area.
func (bus *Bus) Areas() []*Area {
	return []*Area{bus.boot9, bus.boot11, bus.arm9RAM, bus.axiWRAM, bus.fcram}
}

// Extended returns true if the extended memory map is active.
func (bus *Bus) Extended() bool {
	return bus.extended
}

// Reconfigure the memory map. Only the New model has an extended memory map
// and the function has no effect for other models.
func (bus *Bus) Reconfigure(extended bool) {
	if !bus.newModel || bus.extended == extended {
		return
	}
	bus.extended = extended

	if extended {
		bus.fcram.resize(SizeFCRAMExtended)
		bus.arm9RAM.resize(SizeARM9RAMExtended)
	} else {
		bus.fcram.resize(SizeFCRAM)
		bus.arm9RAM.resize(SizeARM9RAM)
	}

	logger.Logf(logger.Allow, "memory", "memory map reconfigured (FCRAM %dMB)", bus.fcram.Size()>>20)
}

// the area and offset into that area for the address
func (bus *Bus) mapped(id cpu.ID, addr uint32) (*Area, uint32, bool) {
	if id == cpu.ARM9 {
		if bus.boot9.contains(addr) {
			return bus.boot9, addr - OriginBoot, true
		}
		if bus.arm9RAM.contains(addr) {
			return bus.arm9RAM, addr - OriginARM9RAM, true
		}
	} else {
		if bus.boot11.contains(addr) {
			return bus.boot11, addr - OriginBoot, true
		}
		if addr < OriginBootLow+SizeBootROM {
			return bus.boot11, addr - OriginBootLow, true
		}
	}

	if bus.axiWRAM.contains(addr) {
		return bus.axiWRAM, addr - OriginAXIWRAM, true
	}
	if bus.fcram.contains(addr) {
		return bus.fcram, addr - OriginFCRAM, true
	}

	return nil, 0, false
}

// Read8 implements the cpu.Memory interface.
func (bus *Bus) Read8(id cpu.ID, addr uint32) uint8 {
	if a, o, ok := bus.mapped(id, addr); ok {
		return a.read8(o)
	}
	if v, ok := bus.readIO(id, addr); ok {
		return uint8(v)
	}
	bus.unmapped(id, "read", addr)
	return 0
}

// Read16 implements the cpu.Memory interface.
func (bus *Bus) Read16(id cpu.ID, addr uint32) uint16 {
	addr &^= 0x01
	if a, o, ok := bus.mapped(id, addr); ok {
		return a.read16(o)
	}
	if v, ok := bus.readIO(id, addr); ok {
		return uint16(v)
	}
	bus.unmapped(id, "read", addr)
	return 0
}

// Read32 implements the cpu.Memory interface.
func (bus *Bus) Read32(id cpu.ID, addr uint32) uint32 {
	addr &^= 0x03
	if a, o, ok := bus.mapped(id, addr); ok {
		return a.read32(o)
	}
	if v, ok := bus.readIO(id, addr); ok {
		return v
	}
	bus.unmapped(id, "read", addr)
	return 0
}

// writable returns the area and offset for a write. writes to read-only
// areas are logged
func (bus *Bus) writable(id cpu.ID, addr uint32) (*Area, uint32, bool) {
	a, o, ok := bus.mapped(id, addr)
	if !ok {
		return nil, 0, false
	}
	if a.readOnly {
		logger.Logf(bus.logUnmapped, "memory", "%s: write to %s (%08x)", id, a.Label(), addr)
		return nil, 0, true
	}
	return a, o, true
}

// Write8 implements the cpu.Memory interface.
func (bus *Bus) Write8(id cpu.ID, addr uint32, value uint8) {
	if a, o, ok := bus.writable(id, addr); ok {
		if a != nil {
			a.write8(o, value)
		}
		return
	}
	if bus.writeIO(id, addr, uint32(value), 0xff) {
		return
	}
	bus.unmapped(id, "write", addr)
}

// Write16 implements the cpu.Memory interface.
func (bus *Bus) Write16(id cpu.ID, addr uint32, value uint16) {
	addr &^= 0x01
	if a, o, ok := bus.writable(id, addr); ok {
		if a != nil {
			a.write16(o, value)
		}
		return
	}
	if bus.writeIO(id, addr, uint32(value), 0xffff) {
		return
	}
	bus.unmapped(id, "write", addr)
}

// Write32 implements the cpu.Memory interface.
func (bus *Bus) Write32(id cpu.ID, addr uint32, value uint32) {
	addr &^= 0x03
	if a, o, ok := bus.writable(id, addr); ok {
		if a != nil {
			a.write32(o, value)
		}
		return
	}
	if bus.writeIO(id, addr, value, 0xffffffff) {
		return
	}
	bus.unmapped(id, "write", addr)
}
