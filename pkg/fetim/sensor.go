package fetim

// SensorLayer exposes the raw out-of-range bits FETIM's own sensors
// report, plus a single-sensor-fail summary (spec.md §4.8).
type SensorLayer struct {
	AirFlowOutOfRange    bool
	TemperatureOutOfRange [CompressorTempSensorCount]bool
}

// SingleSensorFail reports whether exactly one sensor is currently
// out of range.
func (s *SensorLayer) SingleSensorFail() bool {
	count := 0
	if s.AirFlowOutOfRange {
		count++
	}
	for _, v := range s.TemperatureOutOfRange {
		if v {
			count++
		}
	}
	return count == 1
}

// FailCount is the total number of sensors currently out of range,
// used by the state layer's multi-sensor-fail check.
func (s *SensorLayer) FailCount() int {
	count := 0
	if s.AirFlowOutOfRange {
		count++
	}
	for _, v := range s.TemperatureOutOfRange {
		if v {
			count++
		}
	}
	return count
}
