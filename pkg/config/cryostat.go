package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// TVOCoefficients is the 7 polynomial coefficients loaded at init for a
// single TVO temperature sensor (spec.md §3, §4.5).
type TVOCoefficients [7]float64

// PressureSensorCal is the per-sensor (offset, scale) pair used by the
// pressure log-linear conversion (spec.md §4.5).
type PressureSensorCal struct {
	Offset float64
	Scale  float64
}

// CryostatConfig is the parsed contents of cryostat.ini.
type CryostatConfig struct {
	TVO      [9]TVOCoefficients
	PRTCount int // always 4, kept explicit for clarity at call sites
	Pressure [2]PressureSensorCal
}

// LoadCryostat parses a cryostat.ini file containing sections
// "tvo0".."tvo8" (each with keys c0..c6) and "pressure0"/"pressure1"
// (keys offset, scale).
func LoadCryostat(path string) (*CryostatConfig, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: loading cryostat file %q: %w", path, err)
	}
	cfg := &CryostatConfig{PRTCount: 4}
	for i := 0; i < 9; i++ {
		section := file.Section(fmt.Sprintf("tvo%d", i))
		for c := 0; c < 7; c++ {
			cfg.TVO[i][c] = section.Key(fmt.Sprintf("c%d", c)).MustFloat64(0)
		}
	}
	for i := 0; i < 2; i++ {
		section := file.Section(fmt.Sprintf("pressure%d", i))
		cfg.Pressure[i] = PressureSensorCal{
			Offset: section.Key("offset").MustFloat64(0),
			Scale:  section.Key("scale").MustFloat64(1),
		}
	}
	log.WithField("path", path).Info("loaded cryostat configuration")
	return cfg, nil
}
