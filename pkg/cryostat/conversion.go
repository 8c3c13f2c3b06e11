package cryostat

import (
	"math"

	"github.com/almafe/femc/pkg/config"
)

// TVO scaling constants (spec.md §4.5).
const (
	TvoGain          = 1.0
	TvoResistorScale = 1000.0
)

// PRTBranchThresholdOhms is the resistance threshold that selects which
// of the PRT's two interpolation branches applies (spec.md §4.5).
const PRTBranchThresholdOhms = 124.0

// ResistanceFromADC computes the TVO sensor's resistance from an ADC
// reading: R = (TvoGain * V_in * TvoResistorScale) / adcCode.
func ResistanceFromADC(vIn float64, adcCode float64) (float64, bool) {
	if adcCode == 0 {
		return 0, false
	}
	r := (TvoGain * vIn * TvoResistorScale) / adcCode
	return r, true
}

// TVOTemperature evaluates the 6th-degree polynomial in R for a TVO
// sensor. Returns (temperature, ok); ok is false on a math-domain
// failure (NaN/Inf), at which point the caller must report
// HardwareConversionError and store the wire sentinel, never this
// function's return value directly.
func TVOTemperature(coeffs config.TVOCoefficients, r float64) (float64, bool) {
	t := 0.0
	power := 1.0
	for _, c := range coeffs {
		t += c * power
		power *= r
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, false
	}
	return t, true
}

// PRTTemperature converts a PRT sensor's resistance to temperature in
// kelvin using one of two interpolation branches selected by the
// threshold in spec.md §4.5. The two branches are standard platinum RTD
// piecewise-linear approximations in Celsius around the ice point; the
// result is shifted by 273.15 to kelvin.
func PRTTemperature(r float64) (float64, bool) {
	if r <= 0 {
		return 0, false
	}
	var t float64
	if r < PRTBranchThresholdOhms {
		// Below-threshold branch: steeper slope, calibrated near 0C (100R).
		t = (r - 100.0) / 0.385
	} else {
		// Above-threshold branch: slightly different slope/offset,
		// matching the PRT curve's upper segment.
		t = (r-100.0)/0.391 + 2.0
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, false
	}
	return t + 273.15, true
}

// PressureMbar implements the log-linear pressure conversion of
// spec.md §4.5: P = 10^((V_in + offset) / scale).
func PressureMbar(cal config.PressureSensorCal, vIn float64) (float64, bool) {
	if cal.Scale == 0 {
		return 0, false
	}
	exponent := (vIn + cal.Offset) / cal.Scale
	p := math.Pow(10, exponent)
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, false
	}
	return p, true
}
