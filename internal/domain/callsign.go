package domain

import (
	"path"
	"strings"
	"unicode"
)

// DefaultMaxCallLength bounds a callsign derived from a station name.
// Nine characters fits a base call plus SSID on the APRS-IS side.
const DefaultMaxCallLength = 9

// CallsignResolver maps an observation source file to the callsign its
// reports go out under. Resolution never fails: an explicit mapping entry
// wins, then a token derived from the station name, then the default.
type CallsignResolver struct {
	// Mapping is keyed by source file name; both the full archive path and
	// its basename are consulted. Empty entries fall through.
	Mapping map[string]string

	// Default is the callsign of last resort, also used as the session login.
	Default string

	// MaxLength bounds derived tokens; zero means DefaultMaxCallLength.
	MaxLength int
}

// Resolve returns the outbound callsign for a source file.
func (r CallsignResolver) Resolve(sourceFile, stationName string) string {
	if call, ok := r.lookup(sourceFile); ok {
		return call
	}
	if derived := r.derive(stationName); derived != "" {
		return derived
	}
	return r.Default
}

func (r CallsignResolver) lookup(sourceFile string) (string, bool) {
	if len(r.Mapping) == 0 {
		return "", false
	}
	if call := r.Mapping[sourceFile]; call != "" {
		return call, true
	}
	if call := r.Mapping[path.Base(sourceFile)]; call != "" {
		return call, true
	}
	return "", false
}

// derive builds a callsign-like token from a station name: cut at the first
// whitespace boundary, truncate to the length budget, and replace whatever
// whitespace survives with underscores.
func (r CallsignResolver) derive(name string) string {
	max := r.MaxLength
	if max <= 0 {
		max = DefaultMaxCallLength
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	runes := []rune(name)
	cut := len(runes)
	for i, c := range runes {
		if unicode.IsSpace(c) {
			cut = i
			break
		}
	}
	if cut > max {
		cut = max
	}

	return strings.Map(func(c rune) rune {
		if unicode.IsSpace(c) {
			return '_'
		}
		return c
	}, string(runes[:cut]))
}
