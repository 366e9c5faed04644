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

package performance

import (
	"fmt"
	"io"
	"time"

	"github.com/hydr8gon/3beans/hardware"
	"github.com/hydr8gon/3beans/hardware/clocks"
)

// CalcFPS takes the number of frames and duration (in seconds) and returns the
// frames-per-second and the accuracy of that value as a percentage.
func CalcFPS(numFrames int, duration float64) (fps float64, accuracy float64) {
	if duration <= 0 {
		return 0, 0
	}
	fps = float64(numFrames) / duration
	accuracy = 100 * fps / clocks.FramesPerSecond
	return fps, accuracy
}

// Check runs the machine for the specified duration and writes the frame rate
// to output.
func Check(output io.Writer, m *hardware.Machine, prof Profile, path string, duration time.Duration) error {
	var numFrames int

	err := RunProfiler(prof, path, func() error {
		startFrame := m.Frames()
		timesUp := time.After(duration)

		m.RunFrames(int(^uint(0)>>1), func(_ int) bool {
			select {
			case <-timesUp:
				return false
			default:
				return true
			}
		})

		numFrames = m.Frames() - startFrame
		return nil
	})
	if err != nil {
		return err
	}

	fps, accuracy := CalcFPS(numFrames, duration.Seconds())
	fmt.Fprintf(output, "%.2f fps (%d frames in %.2f seconds) %.1f%%\n", fps, numFrames, duration.Seconds(), accuracy)

	return nil
}
