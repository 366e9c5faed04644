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

// Package curated is a helper package for the error type. Errors created with
// the Errorf() function remember the pattern they were created with. The
// pattern can then be used to identify the error without resorting to string
// comparisons of the formatted message.
//
//	e := curated.Errorf(memory.BootROMMissing, "ARM9", path)
//
//	if curated.Is(e, memory.BootROMMissing) {
//		fmt.Println("true")
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the error chain.
//
//	f := curated.Errorf("machine: %v", e)
//
//	if curated.Has(f, memory.BootROMMissing) {
//		fmt.Println("true")
//	}
//
// The IsAny() function answers whether the error was created by
// curated.Errorf(). A curated error is an expected error, the kind of error
// that the emulation knows how to describe to the user. An uncurated error is
// an unexpected error.
//
// The Error() function ensures that the error chain does not contain
// duplicate adjacent parts. This means that a function can wrap an error with
// its own context without worrying about whether the function that created
// the error already did the same thing.
//
// Curated errors implement Unwrap() so the errors.Is() and errors.As()
// functions in the standard library will find any uncurated error that has
// been wrapped with the %w verb.
package curated
