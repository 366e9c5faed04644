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

package digest_test

import (
	"errors"
	"io"
	"testing"

	"github.com/hydr8gon/3beans/curated"
	"github.com/hydr8gon/3beans/digest"
	"github.com/hydr8gon/3beans/test"
)

type counter struct {
	value byte
	fail  bool
}

func (c *counter) WriteState(w io.Writer) error {
	if c.fail {
		return errors.New("write failed")
	}
	_, err := w.Write([]byte{c.value})
	return err
}

func TestChaining(t *testing.T) {
	a := digest.NewState()
	b := digest.NewState()
	c := &counter{}

	for i := 0; i < 10; i++ {
		c.value = byte(i)
		test.DemandSuccess(t, a.Frame(c))
		test.DemandSuccess(t, b.Frame(c))
	}
	test.ExpectEquality(t, a.Hash(), b.Hash())
	test.ExpectEquality(t, a.Frames(), 10)

	// same final state but a different history
	c.value = 9
	test.DemandSuccess(t, b.Frame(c))
	test.ExpectInequality(t, a.Hash(), b.Hash())

	a.ResetDigest()
	test.ExpectEquality(t, a.Frames(), 0)
	test.ExpectEquality(t, a.Hash(), "0000000000000000000000000000000000000000")
}

func TestWriteError(t *testing.T) {
	d := digest.NewState()
	err := d.Frame(&counter{fail: true})
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, curated.Is(err, digest.StateError), true)
	test.ExpectEquality(t, d.Frames(), 0)
}
