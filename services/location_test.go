package services

import "testing"

func TestLocationAnywhereAcceptsEverything(t *testing.T) {
	f := NewLocationFilter(ModeAnywhere, "edinburgh", newTestLogger())

	for _, loc := range []string{"Edinburgh, UK", "Glasgow", "Unknown", ""} {
		if !f.Acceptable(loc) {
			t.Errorf("anywhere mode should accept %q", loc)
		}
	}
}

func TestLocationRestrictedContainment(t *testing.T) {
	f := NewLocationFilter(ModeRestricted, "edinburgh", newTestLogger())

	tests := []struct {
		location string
		want     bool
	}{
		{"Edinburgh, UK", true},
		{"EDINBURGH", true},
		{"Leith, Edinburgh", true},
		{"Glasgow", false},
		{"Unknown", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := f.Acceptable(tt.location); got != tt.want {
			t.Errorf("Acceptable(%q) = %v; want %v", tt.location, got, tt.want)
		}
	}
}
