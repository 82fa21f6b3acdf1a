package logreport

import (
	"fmt"
	"strconv"
)

// Severity is the level attached to a reported event.
//
// The set is closed and the string form of each level is sent on the wire, so
// the names below must never change.
type Severity int

const (
	Severe Severity = iota
	Error
	Warning
	Info
	Debug
	Verbose
)

var severityNames = [...]string{
	Severe:  "Severe",
	Error:   "Error",
	Warning: "Warning",
	Info:    "Info",
	Debug:   "Debug",
	Verbose: "Verbose",
}

// String returns the canonical wire name of the level.
func (s Severity) String() string {
	if s < Severe || s > Verbose {
		return "Severity(" + strconv.Itoa(int(s)) + ")"
	}
	return severityNames[s]
}

// Severities returns every level in declaration order.
func Severities() []Severity {
	return []Severity{Severe, Error, Warning, Info, Debug, Verbose}
}

// ParseSeverity maps a canonical wire name back to its level. Matching is exact.
func ParseSeverity(name string) (Severity, error) {
	for i, n := range severityNames {
		if n == name {
			return Severity(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSeverity, name)
}
