// pkg/interaction/yesno.go

package interaction

import "strings"

const (
	YesShort = "y"
	YesLong  = "yes"
	NoShort  = "n"
	NoLong   = "no"

	DefaultYesPrompt = "Y/n"
	DefaultNoPrompt  = "y/N"
)

// NormalizeYesNoInput returns true if the provided input string is an affirmative response like "y" or "yes".
// It trims whitespace and lowercases input before comparison. The second
// return value reports whether the input was recognised at all.
func NormalizeYesNoInput(input string) (bool, bool) {
	input = strings.TrimSpace(strings.ToLower(input))
	switch input {
	case YesShort, YesLong:
		return true, true
	case NoShort, NoLong:
		return false, true
	}
	return false, false // unknown
}
