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

package paths

import (
	"os"
	"path/filepath"
)

// the portable resource path is used if it exists in the current directory
const portablePath = ".3beans"

// the name of the directory in the user's config directory
const configDir = "3beans"

// ResourcePath returns the path to the named file in the sub-path of the
// resource directory. Either argument can be empty.
func ResourcePath(subPth string, file string) (string, error) {
	base, err := basePath()
	if err != nil {
		return "", err
	}
	return resourcePath(base, subPth, file)
}

func basePath() (string, error) {
	if fi, err := os.Stat(portablePath); err == nil && fi.IsDir() {
		return portablePath, nil
	}

	cnf, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cnf, configDir), nil
}

func resourcePath(base string, subPth string, file string) (string, error) {
	dir := filepath.Join(base, subPth)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(dir, file), nil
}
