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

// Package prefs facilitates the storage of preferential values. Preferences
// are typed values (Bool, Int, String) that can be associated with a key on
// a Disk instance. The Disk can then load and save all of its values in one
// go.
//
// Values are safe to read from a goroutine other than the one that sets them.
// This is useful because the emulation loop reads preferences while a host
// driver may be changing them.
//
// Hook functions can be attached to each value. Pre-hooks are called before
// the value is changed and can veto the change by returning an error. Post
// hooks are called after the value has changed.
//
// The file format is a simple list of key/value pairs:
//
//	machine.model :: NEW
//	machine.interruptLatency :: 1
//
// Keys in the file that have not been added to the Disk instance are
// preserved when the file is saved. This allows more than one Disk instance to
// share the same file.
package prefs
