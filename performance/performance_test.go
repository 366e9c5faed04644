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

package performance_test

import (
	"testing"

	"github.com/hydr8gon/3beans/curated"
	"github.com/hydr8gon/3beans/performance"
	"github.com/hydr8gon/3beans/test"
)

func TestParseProfile(t *testing.T) {
	p, err := performance.ParseProfile("cpu")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, performance.ProfileCPU)

	p, err = performance.ParseProfile(" Trace ")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, performance.ProfileTrace)

	p, err = performance.ParseProfile("")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, p, performance.ProfileNone)

	_, err = performance.ParseProfile("gpu")
	test.ExpectEquality(t, curated.Is(err, performance.UnknownProfile), true)
}

func TestRunWithoutProfile(t *testing.T) {
	var ran bool
	err := performance.RunProfiler(performance.ProfileNone, t.TempDir(), func() error {
		ran = true
		return nil
	})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, ran, true)
}

func TestCalcFPS(t *testing.T) {
	fps, accuracy := performance.CalcFPS(120, 4)
	test.ExpectApproximate(t, fps, 30.0, 0.001)
	test.ExpectApproximate(t, accuracy, 50.0, 0.001)

	fps, _ = performance.CalcFPS(120, 0)
	test.ExpectEquality(t, fps, 0.0)
}
