package tts

import (
	"fmt"
	"sort"
	"strings"
)

// knownEngines maps engine identifiers to a short description.
var knownEngines = map[string]string{
	"espeak": "espeak-ng/espeak subprocess (offline, widely installed)",
	"piper":  "piper subprocess (offline neural voices)",
	"mock":   "deterministic engine for testing",
}

// EngineNames returns the sorted list of valid engine identifiers.
func EngineNames() []string {
	names := make([]string, 0, len(knownEngines))
	for name := range knownEngines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateEngineSelection checks that name refers to a known engine and
// returns its canonical identifier.
func ValidateEngineSelection(name string) (string, error) {
	canonical := strings.ToLower(strings.TrimSpace(name))
	if _, ok := knownEngines[canonical]; !ok {
		return "", fmt.Errorf("%w: %q (valid: %s)", ErrUnknownEngine, name, strings.Join(EngineNames(), ", "))
	}
	return canonical, nil
}
