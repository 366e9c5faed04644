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
	"strings"

	"github.com/hydr8gon/3beans/curated"
	"github.com/pkg/profile"
)

// Profile specifies which type of profiling information to gather.
type Profile string

// List of valid Profile values.
const (
	ProfileNone  Profile = "NONE"
	ProfileCPU   Profile = "CPU"
	ProfileMem   Profile = "MEM"
	ProfileTrace Profile = "TRACE"
)

// UnknownProfile is the error pattern for an unrecognised profile name.
const UnknownProfile = "performance: unknown profile type (%s)"

// ParseProfile converts a string to a Profile value. The empty string is the
// same as ProfileNone.
func ParseProfile(s string) (Profile, error) {
	p := Profile(strings.ToUpper(strings.TrimSpace(s)))
	switch p {
	case "":
		return ProfileNone, nil
	case ProfileNone, ProfileCPU, ProfileMem, ProfileTrace:
		return p, nil
	}
	return ProfileNone, curated.Errorf(UnknownProfile, s)
}

// RunProfiler runs the supplied function, gathering profiling information of
// the requested type. Profiles are written to the path directory.
func RunProfiler(prof Profile, path string, run func() error) error {
	var mode func(*profile.Profile)

	switch prof {
	case ProfileNone:
		return run()
	case ProfileCPU:
		mode = profile.CPUProfile
	case ProfileMem:
		mode = profile.MemProfile
	case ProfileTrace:
		mode = profile.TraceProfile
	default:
		return curated.Errorf(UnknownProfile, prof)
	}

	p := profile.Start(mode, profile.ProfilePath(path), profile.NoShutdownHook, profile.Quiet)
	defer p.Stop()

	return run()
}
