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
	"os"

	"github.com/hydr8gon/3beans/curated"
)

// Error patterns. Both are fatal when constructing the machine.
const (
	BootROMMissing   = "memory: boot rom missing: %v"
	BootROMWrongSize = "memory: boot rom %s is the wrong size (%d bytes)"
)

// LoadBootROMs reads the boot ROM images from disk.
func (bus *Bus) LoadBootROMs(boot9 string, boot11 string) error {
	data, err := os.ReadFile(boot9)
	if err != nil {
		return curated.Errorf(BootROMMissing, err)
	}
	if err := bus.SetBootROM(true, data); err != nil {
		return err
	}

	data, err = os.ReadFile(boot11)
	if err != nil {
		return curated.Errorf(BootROMMissing, err)
	}
	return bus.SetBootROM(false, data)
}

// SetBootROM sets the contents of either the ARM9 or the ARM11 boot ROM.
func (bus *Bus) SetBootROM(arm9 bool, data []uint8) error {
	a := bus.boot11
	if arm9 {
		a = bus.boot9
	}
	if len(data) != SizeBootROM {
		return curated.Errorf(BootROMWrongSize, a.Label(), len(data))
	}
	a.allocate()
	copy(a.memory, data)
	return nil
}
