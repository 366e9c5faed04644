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

// Package interrupts implements the interrupt controllers of the machine and
// the halt and wake protocol that couples the CPUs to the scheduler.
//
// There are two interrupt domains. The ARM9 has a simple pair of registers,
// IE and IF, with one bit per interrupt source. The ARM11 cores share an
// MPCore distributor with 128 interrupt lines. Lines 0 to 15 are software
// generated interrupts and lines 0 to 31 are private to each core. Lines 32
// and above are shared and are routed to cores by the target table.
//
// An interrupt is not delivered to a CPU immediately. Instead, a delivery task
// is scheduled a short time in the future unless one has already been
// scheduled for that CPU. When the delivery task runs every pending and
// enabled interrupt is considered. This means that interrupts sent close
// together are handled by a single delivery.
//
// Delivery always wakes a CPU that is waiting for an interrupt. The IRQ
// exception is only taken if interrupts are enabled in the CPU's status
// register.
//
// The package also implements the CFG11 registers that control the ARM11
// clock mode and the extra cores of the New model.
package interrupts
