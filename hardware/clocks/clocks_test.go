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


package clocks_test

import (
	"testing"

	"github.com/hydr8gon/3beans/hardware/clocks"
	"github.com/hydr8gon/3beans/test"
)

func TestClocks(t *testing.T) {
	test.ExpectEquality(t, clocks.ARM9Divider, 2)
	test.ExpectEquality(t, clocks.FrameCycles, 4468530)
	test.ExpectApproximate(t, float64(clocks.FrameCycles*clocks.FramesPerSecond), float64(clocks.ARM11), 0.001)
}
