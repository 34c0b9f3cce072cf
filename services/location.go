package services

import (
	"strings"

	"bikewatch/utils"
)

// LocationMode controls whether geographic containment is enforced.
type LocationMode string

const (
	ModeRestricted LocationMode = "restricted"
	ModeAnywhere   LocationMode = "anywhere"
)

// LocationFilter decides geographic acceptability of a free-text location.
// It is a deliberately coarse substring check, not a distance computation:
// marketplaces describe locales inconsistently and no better signal exists
// in the feeds.
type LocationFilter struct {
	mode       LocationMode
	targetArea string
	logger     *utils.Logger
}

// NewLocationFilter creates a filter for the given mode and target area.
// The target area only matters in restricted mode.
func NewLocationFilter(mode LocationMode, targetArea string, logger *utils.Logger) *LocationFilter {
	return &LocationFilter{mode: mode, targetArea: strings.ToLower(targetArea), logger: logger}
}

// Acceptable reports whether the location passes the configured policy.
// Anywhere accepts everything, including "Unknown"; restricted mode accepts
// only locations containing the target area, so "Unknown" fails it.
func (f *LocationFilter) Acceptable(location string) bool {
	if f.mode == ModeAnywhere {
		return true
	}
	ok := strings.Contains(strings.ToLower(location), f.targetArea)
	if !ok {
		f.logger.Debug("[location] %q outside target area %q", location, f.targetArea)
	}
	return ok
}
