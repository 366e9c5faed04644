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

// Package version reports the version of the application. A release build
// sets the version number with the linker:
//
//	go build -ldflags "-X github.com/hydr8gon/3beans/version.number=v0.1.0"
//
// Otherwise the version is taken from the build information embedded by the
// go tool.
package version

import (
	"fmt"
	"runtime/debug"
)

// ApplicationName is the name to use when referring to the application.
const ApplicationName = "3Beans"

// set by the linker for release builds
var number string

var (
	version  string
	revision string
)

// Version returns the version string, the revision string and whether this
// is a numbered release version.
func Version() (string, string, bool) {
	return version, revision, number != "" && version == number
}

// String returns a single line describing the version.
func String() string {
	if number != "" {
		return fmt.Sprintf("%s %s", ApplicationName, version)
	}
	return fmt.Sprintf("%s %s (%s)", ApplicationName, version, revision)
}

func init() {
	version, revision = fromBuildInfo(debug.ReadBuildInfo())
	if number != "" {
		version = number
	}
}

func fromBuildInfo(info *debug.BuildInfo, ok bool) (string, string) {
	if !ok {
		return "local", "no revision information"
	}

	var vcs bool
	var rev string
	var modified bool

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs":
			vcs = true
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}

	if rev == "" {
		rev = "no revision information"
	} else if modified {
		rev = fmt.Sprintf("%s+dirty", rev)
	}

	// the module version is "(devel)" unless the module was installed from a
	// module proxy
	v := info.Main.Version
	if v == "" || v == "(devel)" {
		if vcs {
			v = "unreleased"
		} else {
			v = "local"
		}
	}

	return v, rev
}
