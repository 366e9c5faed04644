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

package digest

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"io"

	"github.com/hydr8gon/3beans/curated"
)

// StateWriter is implemented by the emulation. The state written must be
// identical between two runs of the same program.
type StateWriter interface {
	WriteState(w io.Writer) error
}

// StateError is the pattern for errors produced while writing the state.
const StateError = "digest: %v"

// State is an implementation of the Digest interface. It generates a sha1
// value of the machine state every frame. The digest of each frame is chained
// to the previous frame.
//
// Note that the use of sha1 is fine for this application because this is not a
// cryptographic task.
type State struct {
	digest [sha1.Size]byte
	buffer bytes.Buffer
	frames int
}

// NewState is the preferred method of initialisation for the State type.
func NewState() *State {
	return &State{}
}

func (dig *State) String() string {
	return fmt.Sprintf("%d frames: %s", dig.frames, dig.Hash())
}

// Hash implements the Digest interface.
func (dig *State) Hash() string {
	return fmt.Sprintf("%x", dig.digest)
}

// ResetDigest implements the Digest interface.
func (dig *State) ResetDigest() {
	dig.digest = [sha1.Size]byte{}
	dig.frames = 0
}

// Frames returns the number of frames included in the digest.
func (dig *State) Frames() int {
	return dig.frames
}

// Frame adds the current state to the digest. Should be called once per
// frame.
func (dig *State) Frame(st StateWriter) error {
	// chain fingerprints by copying the value of the last fingerprint to the
	// head of the state data
	dig.buffer.Reset()
	dig.buffer.Write(dig.digest[:])

	if err := st.WriteState(&dig.buffer); err != nil {
		return curated.Errorf(StateError, err)
	}

	dig.digest = sha1.Sum(dig.buffer.Bytes())
	dig.frames++

	return nil
}
