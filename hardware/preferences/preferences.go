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

package preferences

import (
	"strings"
	"sync/atomic"

	"github.com/hydr8gon/3beans/curated"
	"github.com/hydr8gon/3beans/hardware/clocks"
	"github.com/hydr8gon/3beans/paths"
	"github.com/hydr8gon/3beans/prefs"
)

// DefaultPrefsFile is the name of the preferences file in the resource
// directory.
const DefaultPrefsFile = "preferences"

// Sentinal error patterns for preference values that are not allowed.
const (
	UnknownModel = "preferences: unknown model (%v)"
	BadValue     = "preferences: %s must be at least %d (%v)"
)

// List of valid model names.
const (
	ModelOld = "OLD"
	ModelNew = "NEW"
)

// Default values.
const (
	DefaultInterruptLatency = 1
	DefaultFrameCycles      = clocks.FrameCycles
)

// LivePreferences are copies of the values that are read during emulation.
// They are updated automatically when the corresponding disk value changes.
type LivePreferences struct {
	LogUnknownOpcodes atomic.Bool
}

// Preferences defines and collates all the preference values used by the
// machine.
type Preferences struct {
	dsk *prefs.Disk

	// prefer live values in the emulation loop
	Live LivePreferences

	// either ModelOld or ModelNew. the OLD model has two ARM11 cores and the
	// NEW model has four
	Model prefs.String

	// paths to the boot ROM images
	Boot9  prefs.String
	Boot11 prefs.String

	// number of cycles between an interrupt being sent and it being delivered
	InterruptLatency prefs.Int

	// number of cycles in each call to RunFrame()
	FrameCycles prefs.Int

	// log every unknown instruction encoding
	LogUnknownOpcodes prefs.Bool
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Values are loaded from the default preferences file.
func NewPreferences() (*Preferences, error) {
	pth, err := paths.ResourcePath("", DefaultPrefsFile)
	if err != nil {
		return nil, err
	}
	return NewPreferencesAt(pth)
}

// NewPreferencesAt is like NewPreferences but the preferences file is
// specified.
func NewPreferencesAt(pth string) (*Preferences, error) {
	p := &Preferences{}

	p.Model.SetHookPre(func(v prefs.Value) error {
		switch strings.ToUpper(v.(string)) {
		case ModelOld, ModelNew:
			return nil
		}
		return curated.Errorf(UnknownModel, v)
	})
	p.InterruptLatency.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 0 {
			return curated.Errorf(BadValue, "interrupt latency", 0, v)
		}
		return nil
	})
	p.FrameCycles.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 1 {
			return curated.Errorf(BadValue, "frame cycles", 1, v)
		}
		return nil
	})
	p.LogUnknownOpcodes.SetHookPost(func(v prefs.Value) error {
		p.Live.LogUnknownOpcodes.Store(v.(bool))
		return nil
	})

	p.SetDefaults()

	var err error
	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("machine.model", &p.Model)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("machine.boot9", &p.Boot9)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("machine.boot11", &p.Boot11)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("machine.interruptLatency", &p.InterruptLatency)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("machine.frameCycles", &p.FrameCycles)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("machine.logUnknownOpcodes", &p.LogUnknownOpcodes)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Load()
	if err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all settings to default values.
func (p *Preferences) SetDefaults() {
	p.Model.Set(ModelNew)
	p.Boot9.Set("boot9.bin")
	p.Boot11.Set("boot11.bin")
	p.InterruptLatency.Set(DefaultInterruptLatency)
	p.FrameCycles.Set(DefaultFrameCycles)
	p.LogUnknownOpcodes.Set(false)
}

// Load current machine preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}

// Save current machine preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}

// NewModel returns true if the preferred model is the NEW model.
func (p *Preferences) NewModel() bool {
	return strings.ToUpper(p.Model.Get().(string)) == ModelNew
}

// UnknownOpcodes is a logger.Permission for the logging of unknown
// instruction encodings.
func (p *Preferences) UnknownOpcodes() UnknownOpcodesPermission {
	return UnknownOpcodesPermission{p: p}
}

// UnknownOpcodesPermission implements the logger.Permission interface.
type UnknownOpcodesPermission struct {
	p *Preferences
}

// AllowLogging implements the logger.Permission interface.
func (u UnknownOpcodesPermission) AllowLogging() bool {
	return u.p.Live.LogUnknownOpcodes.Load()
}
