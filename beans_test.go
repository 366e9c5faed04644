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


package main

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hydr8gon/3beans/hardware/memory"
	"github.com/hydr8gon/3beans/test"
)

// setup creates a configuration directory containing a preferences file and a
// pair of boot ROMs that branch to themselves.
func setup(t *testing.T) (string, string) {
	t.Helper()

	cnf := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cnf)

	rom := make([]byte, memory.SizeBootROM)
	binary.LittleEndian.PutUint32(rom, 0xeafffffe)

	boot9 := filepath.Join(cnf, "boot9.bin")
	boot11 := filepath.Join(cnf, "boot11.bin")
	test.DemandSuccess(t, os.WriteFile(boot9, rom, 0600))
	test.DemandSuccess(t, os.WriteFile(boot11, rom, 0600))

	dir := filepath.Join(cnf, "3beans")
	test.DemandSuccess(t, os.MkdirAll(dir, 0700))
	test.DemandSuccess(t, os.WriteFile(filepath.Join(dir, "preferences"),
		[]byte("machine.frameCycles :: 300\n"), 0600))

	return boot9, boot11
}

func TestVersionMode(t *testing.T) {
	var out strings.Builder
	test.ExpectEquality(t, launch([]string{"version"}, &out), exitOK)
	test.ExpectSuccess(t, strings.HasPrefix(out.String(), "3Beans "))
}

func TestHelp(t *testing.T) {
	var out strings.Builder
	test.ExpectEquality(t, launch([]string{"-help"}, &out), exitOK)
	test.ExpectSuccess(t, strings.Contains(out.String(), "available sub-modes: RUN, INFO, VERSION"))
}

func TestUnknownFlag(t *testing.T) {
	setup(t)

	var out strings.Builder
	test.ExpectEquality(t, launch([]string{"run", "-nosuchflag"}, &out), exitModeError)
	test.ExpectSuccess(t, strings.Contains(out.String(), "error in RUN mode"))
}

func TestTooManyArguments(t *testing.T) {
	setup(t)

	var out strings.Builder
	test.ExpectEquality(t, launch([]string{"run", "extra"}, &out), exitModeError)
}

func TestMissingBootROM(t *testing.T) {
	setup(t)

	var out strings.Builder
	code := launch([]string{"-boot9", filepath.Join(t.TempDir(), "missing.bin"), "-frames", "1"}, &out)
	test.ExpectEquality(t, code, exitModeError)
	test.ExpectSuccess(t, strings.Contains(out.String(), "boot"))
}

func TestBadModel(t *testing.T) {
	setup(t)

	var out strings.Builder
	test.ExpectEquality(t, launch([]string{"run", "-model", "XL", "-frames", "1"}, &out), exitModeError)
}

func TestRunMode(t *testing.T) {
	boot9, boot11 := setup(t)

	var out strings.Builder
	code := launch([]string{"run", "-boot9", boot9, "-boot11", boot11, "-frames", "3"}, &out)
	test.ExpectEquality(t, code, exitOK)
	test.ExpectEquality(t, out.String(), "3 frames\n")
}

func TestRunDigest(t *testing.T) {
	boot9, boot11 := setup(t)
	args := []string{"-boot9", boot9, "-boot11", boot11, "-frames", "5", "-digest", "-model", "old"}

	var a strings.Builder
	test.ExpectEquality(t, launch(args, &a), exitOK)

	var b strings.Builder
	test.ExpectEquality(t, launch(args, &b), exitOK)

	test.ExpectSuccess(t, strings.HasPrefix(a.String(), "5 frames\n"))
	test.ExpectEquality(t, len(a.String()), len("5 frames\n")+40+1)
	test.ExpectEquality(t, a.String(), b.String())
}

func TestRunMemviz(t *testing.T) {
	boot9, boot11 := setup(t)
	dot := filepath.Join(t.TempDir(), "state.dot")

	var out strings.Builder
	code := launch([]string{"-boot9", boot9, "-boot11", boot11, "-frames", "1", "-memviz", dot}, &out)
	test.ExpectEquality(t, code, exitOK)

	data, err := os.ReadFile(dot)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, strings.Contains(string(data), "digraph"))
}

func TestInfoMode(t *testing.T) {
	boot9, boot11 := setup(t)

	var out strings.Builder
	code := launch([]string{"info", "-boot9", boot9, "-boot11", boot11, "-model", "OLD"}, &out)
	test.ExpectEquality(t, code, exitOK)
	test.ExpectSuccess(t, strings.Contains(out.String(), "machine.frameCycles :: 300"))
	test.ExpectSuccess(t, strings.Contains(out.String(), "OLD frame=0 cycle=0 cores=3"))
}
