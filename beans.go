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
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/bradleyjkemp/memviz"
	"github.com/hydr8gon/3beans/digest"
	"github.com/hydr8gon/3beans/hardware"
	"github.com/hydr8gon/3beans/hardware/preferences"
	"github.com/hydr8gon/3beans/logger"
	"github.com/hydr8gon/3beans/modalflag"
	"github.com/hydr8gon/3beans/paths"
	"github.com/hydr8gon/3beans/performance"
	"github.com/hydr8gon/3beans/performance/limiter"
	"github.com/hydr8gon/3beans/statsview"
	"github.com/hydr8gon/3beans/terminal"
	"github.com/hydr8gon/3beans/version"
)

// exit values returned by launch()
const (
	exitOK         = 0
	exitParseError = 10
	exitModeError  = 20
)

func main() {
	os.Exit(launch(os.Args[1:], os.Stdout))
}

func launch(args []string, output io.Writer) int {
	md := &modalflag.Modes{Output: output}
	md.NewArgs(args)
	md.AddSubModes("RUN", "INFO", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return exitOK
	case modalflag.ParseError:
		fmt.Fprintf(output, "* error: %v\n", err)
		return exitParseError
	}

	switch md.Mode() {
	case "RUN":
		err = run(md, output)
	case "INFO":
		err = info(md, output)
	case "VERSION":
		err = showVersion(md, output)
	}

	if err != nil {
		fmt.Fprintf(output, "* error in %s mode: %s\n", md, err)
		return exitModeError
	}

	return exitOK
}

// machineFlags are the flags that override machine preferences. They are
// shared by the RUN and INFO modes.
type machineFlags struct {
	boot9  *string
	boot11 *string
	model  *string
}

func addMachineFlags(md *modalflag.Modes) machineFlags {
	return machineFlags{
		boot9:  md.AddString("boot9", "", "path to the ARM9 boot ROM"),
		boot11: md.AddString("boot11", "", "path to the ARM11 boot ROM"),
		model:  md.AddString("model", "", "machine model: OLD, NEW"),
	}
}

// preferences loads the machine preferences and applies any flags that were
// set on the command line.
func (f machineFlags) preferences(md *modalflag.Modes) (*preferences.Preferences, error) {
	prefs, err := preferences.NewPreferences()
	if err != nil {
		return nil, err
	}

	md.Visit(func(flg string) {
		if err != nil {
			return
		}
		switch flg {
		case "boot9":
			err = prefs.Boot9.Set(*f.boot9)
		case "boot11":
			err = prefs.Boot11.Set(*f.boot11)
		case "model":
			err = prefs.Model.Set(*f.model)
		}
	})
	if err != nil {
		return nil, err
	}

	return prefs, nil
}

func run(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	mf := addMachineFlags(md)
	frames := md.AddInt("frames", 0, "number of frames to run (0 to run until interrupted)")
	dgst := md.AddBool("digest", false, "print the state digest after the run")
	prof := md.AddString("profile", "NONE", "run with profiling: NONE, CPU, MEM, TRACE")
	stats := md.AddBool("statsview", false, "run stats server")
	mviz := md.AddString("memviz", "", "write a graph of the machine state to the named .dot file")
	step := md.AddBool("step", false, "wait for a key press after every frame")
	lg := md.AddBool("log", false, "echo log entries to the terminal")
	fpsCap := md.AddInt("fpscap", 0, "limit the number of frames per second (0 for no limit)")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	if *frames < 0 {
		return fmt.Errorf("frames must not be negative")
	}

	profile, err := performance.ParseProfile(*prof)
	if err != nil {
		return err
	}

	prefs, err := mf.preferences(md)
	if err != nil {
		return err
	}

	if *lg {
		logger.SetEcho(output)
		defer logger.SetEcho(nil)
	}

	if *stats {
		if statsview.Available() {
			statsview.Launch(output)
		} else {
			fmt.Fprintln(output, "stats server not available in this build")
		}
	}

	m, err := hardware.NewMachine(prefs)
	if err != nil {
		return err
	}

	var dig *digest.State
	if *dgst {
		dig = digest.NewState()
	}

	var trm *terminal.Terminal
	if *step {
		trm, err = terminal.Open(os.Stdin, output)
		if err != nil {
			return err
		}
		defer trm.Close()
	}

	lim := limiter.NewFPSLimiter(*fpsCap)

	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	defer signal.Stop(intChan)

	var profPath string
	if profile != performance.ProfileNone {
		profPath, err = paths.ResourcePath(paths.UniqueFilename("profile", prefs.Model.String()), "")
		if err != nil {
			return err
		}
	}

	err = performance.RunProfiler(profile, profPath, func() error {
		return runLoop(m, *frames, dig, trm, lim, intChan)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "%d frames\n", m.Frames())
	if dig != nil {
		fmt.Fprintln(output, dig.Hash())
	}

	if *mviz != "" {
		err = writeMemviz(*mviz, m)
		if err != nil {
			return err
		}
	}

	return nil
}

// runLoop runs the machine one frame at a time until the number of frames
// has been reached or the run is interrupted. A numFrames value of zero runs
// until interrupted.
func runLoop(m *hardware.Machine, numFrames int, dig *digest.State, trm *terminal.Terminal, lim *limiter.FPSLimiter, intChan <-chan os.Signal) error {
	stepping := trm != nil

	for frame := 0; numFrames == 0 || frame < numFrames; frame++ {
		m.RunFrame()

		if dig != nil {
			if err := dig.Frame(m); err != nil {
				return err
			}
		}

		select {
		case <-intChan:
			return nil
		default:
		}

		if stepping {
			action, err := waitForStep(trm, m.Frames())
			if err != nil {
				return err
			}
			switch action {
			case terminal.StepContinue:
				stepping = false
			case terminal.StepQuit:
				return nil
			}
		} else {
			lim.Wait()
		}
	}

	return nil
}

// waitForStep reads keys until one of them is a recognised step action.
func waitForStep(trm *terminal.Terminal, frame int) (terminal.StepAction, error) {
	for {
		k, err := trm.WaitForKey(fmt.Sprintf("frame %d [space/c/q]", frame))
		if err != nil {
			return terminal.StepQuit, err
		}
		if a := terminal.StepActionFor(k); a != terminal.StepNone {
			return a, nil
		}
	}
}

func writeMemviz(filename string, m *hardware.Machine) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	memviz.Map(f, m.Snapshot())
	return f.Close()
}

func info(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	mf := addMachineFlags(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) > 0 {
		return fmt.Errorf("too many arguments for %s mode", md)
	}

	prefs, err := mf.preferences(md)
	if err != nil {
		return err
	}

	fmt.Fprintln(output, prefs)

	m, err := hardware.NewMachine(prefs)
	if err != nil {
		return err
	}
	fmt.Fprintln(output, m)

	return nil
}

func showVersion(md *modalflag.Modes, output io.Writer) error {
	md.NewMode()

	revision := md.AddBool("revision", false, "display revision information from the build")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if *revision {
		v, r, _ := version.Version()
		fmt.Fprintf(output, "%s (%s)\n", v, r)
		return nil
	}

	fmt.Fprintln(output, version.String())
	return nil
}
