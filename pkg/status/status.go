// Package status defines the single-byte status code that accompanies
// every monitor reply and every LastControlMessage record (spec.md §3,
// §4.3, §7). It is deliberately not a Go error: the wire protocol
// requires the code to travel inside the reply payload itself.
package status

import "fmt"

// Status is the CAN reply status byte.
type Status uint8

const (
	Ok                        Status = 0
	HardwareError             Status = 1
	OutOfRange                Status = 2 // monitor class only
	WarningRange              Status = 3
	ErrorRange                Status = 4
	HardwareRange             Status = 5
	HardwareBlocked           Status = 6
	HardwareRetry             Status = 7
	HardwareConversionError   Status = 8
	HardwareUpdateWarning     Status = 9
)

var description = map[Status]string{
	Ok:                      "ok",
	HardwareError:           "hardware error",
	OutOfRange:              "out of range",
	WarningRange:            "warning range exceeded",
	ErrorRange:              "error range exceeded",
	HardwareRange:           "submodule index out of range",
	HardwareBlocked:         "blocked by interlock or mode gate",
	HardwareRetry:           "hardware not yet settled, retry",
	HardwareConversionError: "numeric conversion failed",
	HardwareUpdateWarning:   "update accepted with warning",
}

func (s Status) String() string {
	if d, ok := description[s]; ok {
		return fmt.Sprintf("%d (%s)", uint8(s), d)
	}
	return fmt.Sprintf("%d (unknown)", uint8(s))
}

// IsError reports whether s represents anything other than a clean Ok.
func (s Status) IsError() bool {
	return s != Ok
}
