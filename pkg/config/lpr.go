package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// LPRConfig is the parsed contents of lpr.ini: the EDFA photodetector
// power-conversion coefficient and the optical switch port bound.
type LPRConfig struct {
	PhotoDetectorCoeff float64
	OpticalSwitchPorts uint32
}

// LoadLPR parses an lpr.ini file with an [lpr] section carrying the
// photodetector coefficient and the number of selectable optical
// switch ports.
func LoadLPR(path string) (*LPRConfig, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: loading lpr file %q: %w", path, err)
	}
	section := file.Section("lpr")
	cfg := &LPRConfig{
		PhotoDetectorCoeff: section.Key("photodetector_coeff").MustFloat64(1.0),
		OpticalSwitchPorts: uint32(section.Key("optical_switch_ports").MustUint(10)),
	}
	log.WithField("path", path).Info("loaded lpr configuration")
	return cfg, nil
}
