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

// Package limiter provides a rough and ready way of limiting events to a fixed
// rate.
//
// A new FPSLimiter can be created with:
//
//	fps := limiter.NewFPSLimiter(60)
//
// Operations can then be stalled with the Wait() function. For example:
//
//	for {
//		fps.Wait()
//		m.RunFrame()
//	}
//
// A limiter with a rate of zero never waits.
package limiter

import (
	"time"
)

// FPSLimiter will trigger every frame.
type FPSLimiter struct {
	framesPerSecond int
	secondsPerFrame time.Duration

	// the time of the most recent trigger
	last time.Time
}

// NewFPSLimiter is the preferred method of initialisation for the FPSLimiter
// type.
func NewFPSLimiter(framesPerSecond int) *FPSLimiter {
	lim := &FPSLimiter{}
	lim.SetLimit(framesPerSecond)
	return lim
}

// SetLimit changes the limit at which the FPSLimiter waits.
func (lim *FPSLimiter) SetLimit(framesPerSecond int) {
	lim.framesPerSecond = framesPerSecond
	if framesPerSecond <= 0 {
		lim.secondsPerFrame = 0
		return
	}
	lim.secondsPerFrame = time.Second / time.Duration(framesPerSecond)
}

// Wait will block until the next frame is due. If the frame is already
// overdue the function returns immediately and the schedule is restarted from
// the current time.
func (lim *FPSLimiter) Wait() {
	if lim.secondsPerFrame == 0 {
		return
	}

	now := time.Now()
	if lim.last.IsZero() {
		lim.last = now
		return
	}

	next := lim.last.Add(lim.secondsPerFrame)
	if now.Before(next) {
		time.Sleep(next.Sub(now))
		lim.last = next
		return
	}
	lim.last = now
}
