package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// CartridgeConfig is the parsed contents of a per-cartridge INI file:
// availability flag, LO scaling constants, PA limits table ESN.
type CartridgeConfig struct {
	Available     bool
	YTOMinCounts  uint32
	YTOMaxCounts  uint32
	PALimitsESN   [8]byte
}

// LoadCartridge parses a cartridgeN.ini file. Missing files are not
// treated as fatal by the caller (an unavailable cartridge may simply
// have no config file); LoadCartridge itself always reports the error
// so the caller can decide.
func LoadCartridge(path string) (*CartridgeConfig, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: loading cartridge file %q: %w", path, err)
	}
	section := file.Section("cartridge")
	cfg := &CartridgeConfig{
		Available:    section.Key("available").MustBool(false),
		YTOMinCounts: uint32(section.Key("yto_min_counts").MustUint(0)),
		YTOMaxCounts: uint32(section.Key("yto_max_counts").MustUint(0xFFFF)),
	}
	esn := section.Key("pa_limits_esn").MustString("")
	copyHexESN(cfg.PALimitsESN[:], esn)
	return cfg, nil
}

// copyHexESN fills dst (expected length 8) from a hex string like
// "0011223344556677"; short/malformed input leaves trailing bytes 0xFF,
// matching the "no ESN" convention of spec.md §6.
func copyHexESN(dst []byte, hex string) {
	for i := range dst {
		dst[i] = 0xFF
	}
	if len(hex) < len(dst)*2 {
		return
	}
	for i := range dst {
		var b int
		_, err := fmt.Sscanf(hex[i*2:i*2+2], "%02x", &b)
		if err != nil {
			return
		}
		dst[i] = byte(b)
	}
}
