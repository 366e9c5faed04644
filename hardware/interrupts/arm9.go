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

package interrupts

import "github.com/hydr8gon/3beans/hardware/cpu"

// ARM9 interrupt registers.
const (
	AddrARM9IE = uint32(0x10001000)
	AddrARM9IF = uint32(0x10001004)
)

func (ctl *Controller) readARM9IE(_ cpu.ID) uint32 {
	return ctl.ie
}

func (ctl *Controller) writeARM9IE(_ cpu.ID, value uint32, mask uint32) {
	ctl.ie = (ctl.ie &^ mask) | (value & mask)
	ctl.CheckInterrupts(cpu.ARM9)
}

func (ctl *Controller) readARM9IF(_ cpu.ID) uint32 {
	return ctl.irf
}

// writing a one to a bit in IF acknowledges the interrupt
func (ctl *Controller) writeARM9IF(_ cpu.ID, value uint32, mask uint32) {
	ctl.irf &^= value & mask
}
