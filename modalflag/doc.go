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


// Package modalflag wraps the flag package in the standard library so that a
// command line can be divided into modes, each with its own set of flags.
//
// Arguments are given to NewArgs() and then processed with Parse(). If
// sub-modes have been added with AddSubModes() then the first non-flag
// argument is checked against the list. A match selects that mode and is
// consumed. Otherwise the first sub-mode in the list is selected.
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "INFO", "VERSION")
//	p, err := md.Parse()
//	...
//	switch md.Mode() {
//	case "RUN":
//		md.NewMode()
//		frames := md.AddInt("frames", 0, "number of frames to run")
//		p, err = md.Parse()
//		...
//	}
//
// Sub-mode comparisons are case insensitive. Mode() always returns the upper
// case name.
package modalflag
