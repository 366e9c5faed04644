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

// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The Expect*() functions report a failure and allow the test to continue.
// The Demand*() functions stop the test immediately on failure. Demand is
// useful when the remainder of a test depends on the value being correct,
// for example a constructor returning an error.
//
// It is worth describing how success and failure handle the nil type because
// it is not obvious. The nil type is considered a success, consequently it
// will cause ExpectFailure() to fail and ExpectSuccess() to succeed. This is
// because of how errors usually work, nil indicating no error.
//
// The optional tags argument accepted by every function is prepended to the
// failure message. Useful when testing in a loop.
package test
