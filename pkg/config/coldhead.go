package config

import (
	"fmt"
	"math"

	"gopkg.in/ini.v1"
)

// ColdHeadThresholdK is the 4K/12K sensor temperature below which the
// cryocooler is considered "running" for cold-head-hours accounting
// (spec.md §6, Open Question resolved in SPEC_FULL.md §F.2).
const ColdHeadThresholdK = 265.0

// ColdHead tracks cumulative cryocooler runtime, persisted to a small
// INI file. The accounting rule (resolved explicitly, since the source
// firmware only implies it): accumulate elapsed seconds while any
// monitored 4K/12K sensor reads below ColdHeadThresholdK; every full
// hour of accumulation increments Hours by 1 and persists immediately.
// Hours saturates at math.MaxUint32 instead of rolling over.
type ColdHead struct {
	path             string
	Hours            uint32
	accumulatedSecs  float64
}

// LoadColdHead reads the persisted hour count, defaulting to 0 if the
// file does not yet exist or is malformed.
func LoadColdHead(path string) *ColdHead {
	ch := &ColdHead{path: path}
	file, err := ini.Load(path)
	if err != nil {
		log.WithField("path", path).Warn("no cold-head-hours file found, starting at 0")
		return ch
	}
	ch.Hours = uint32(file.Section("coldhead").Key("hours").MustUint(0))
	return ch
}

// Accumulate adds elapsedSeconds of below-threshold runtime. If the
// accumulated total crosses an hour boundary, Hours is incremented
// (once per whole hour crossed) and the file is persisted immediately.
// Returns true if the file was (re)written.
func (ch *ColdHead) Accumulate(elapsedSeconds float64) (persisted bool) {
	ch.accumulatedSecs += elapsedSeconds
	const secondsPerHour = 3600.0
	wholeHours := uint32(ch.accumulatedSecs / secondsPerHour)
	if wholeHours == 0 {
		return false
	}
	ch.accumulatedSecs -= float64(wholeHours) * secondsPerHour
	if uint64(ch.Hours)+uint64(wholeHours) >= math.MaxUint32 {
		ch.Hours = math.MaxUint32
	} else {
		ch.Hours += wholeHours
	}
	if err := ch.save(); err != nil {
		log.WithError(err).Error("failed to persist cold-head-hours")
		return false
	}
	return true
}

func (ch *ColdHead) save() error {
	file := ini.Empty()
	section, err := file.NewSection("coldhead")
	if err != nil {
		return err
	}
	if _, err := section.NewKey("hours", fmt.Sprintf("%d", ch.Hours)); err != nil {
		return err
	}
	return file.SaveTo(ch.path)
}
