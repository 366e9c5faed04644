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

// Package logger is the central log for the emulator. Components log
// conditions that are worth knowing about but which do not stop the emulation,
// an unknown opcode or an interrupt request for an invalid target for
// example.
//
// Identical consecutive entries are not repeated. Instead the entry is marked
// with a repeat count. This is important for an emulator because an unknown
// opcode inside a loop would otherwise flood the log.
//
// The number of entries is capped. When the cap is reached the oldest entries
// are dropped.
package logger
