package utils

import "unicode"

// MaxInputBytes bounds a single lookup input. Morphological wordforms and
// serialized analyses are short; anything longer is rejected before it
// reaches the engine.
const MaxInputBytes = 256

// IsValidInput checks whether a string should be submitted to the lookup
// engine. Control characters and whitespace never occur inside a wordform or
// a serialized analysis, and empty or oversized inputs are rejected outright.
func IsValidInput(s string) bool {
	if len(s) == 0 || len(s) > MaxInputBytes {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
