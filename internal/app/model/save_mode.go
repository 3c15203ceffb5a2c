package model

import (
	"fmt"
	"strings"
)

// SaveMode selects how successful transcripts are persisted.
type SaveMode string

const (
	SaveIndividual SaveMode = "individual"
	SaveCombined   SaveMode = "combined"
	SaveBoth       SaveMode = "both"
)

// ParseSaveMode accepts individual, combined or both (case-insensitive).
func ParseSaveMode(s string) (SaveMode, error) {
	switch m := SaveMode(strings.ToLower(strings.TrimSpace(s))); m {
	case SaveIndividual, SaveCombined, SaveBoth:
		return m, nil
	default:
		return "", fmt.Errorf("unknown save mode %q (want individual, combined or both)", s)
	}
}

// Passes expands a mode into the single-mode passes a batch performs.
// Both is one individual pass followed by one combined pass.
func (m SaveMode) Passes() []SaveMode {
	if m == SaveBoth {
		return []SaveMode{SaveIndividual, SaveCombined}
	}
	return []SaveMode{m}
}

func (m SaveMode) String() string {
	return string(m)
}
