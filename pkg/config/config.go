// Package config loads the firmware's persisted INI configuration
// (spec.md §6): a top-level "frontend" file pointing at per-subsystem
// INI files, an ESN list file, and a cold-head-hours runtime counter
// file.
//
// Grounded on the teacher's pkg/od/parser_v1.go EDS loader: ini.Load,
// iterate Sections(), read keys with section.Key(...).
package config

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

var log = logrus.WithField("component", "[CONFIG]")

// Frontend is the parsed contents of the top-level frontend.ini: paths
// to the per-subsystem config files (spec.md §6).
type Frontend struct {
	CryostatPath   string
	LPRPath        string
	CartridgePaths [10]string
	ESNListPath    string
	ColdHeadPath   string
	FETIMPresent   bool
}

// LoadFrontend parses the top-level frontend.ini at path.
func LoadFrontend(path string) (*Frontend, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: loading frontend file %q: %w", path, err)
	}
	section := file.Section("frontend")
	fe := &Frontend{
		CryostatPath: section.Key("cryostat").String(),
		LPRPath:      section.Key("lpr").String(),
		ESNListPath:  section.Key("esns").MustString("esns.ini"),
		ColdHeadPath: section.Key("coldhead").MustString("coldhead.ini"),
		FETIMPresent: section.Key("fetim").MustBool(false),
	}
	for i := 0; i < 10; i++ {
		key := fmt.Sprintf("cartridge%d", i)
		fe.CartridgePaths[i] = section.Key(key).String()
	}
	log.WithField("path", path).Info("loaded frontend configuration")
	return fe, nil
}
