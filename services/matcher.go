package services

import (
	"strings"

	"bikewatch/models"
	"bikewatch/utils"
)

// RelevanceModel is the configured definition of what counts as a match.
// It is immutable for the duration of a run.
type RelevanceModel struct {
	// KnownTerms are brand/model names fuzzy-matched against titles.
	KnownTerms []string
	// Keywords are exact-substring search terms, consulted only for
	// KeywordSource. Entries must be non-empty.
	Keywords []string
	// ThresholdBySource is the similarity cutoff per marketplace. Sources
	// whose server-side search is already keyword-filtered get away with a
	// much lower bar.
	ThresholdBySource map[models.Source]float64
	// KeywordSource is the marketplace whose results are not pre-filtered
	// server-side, so the keyword substring path applies to it.
	KeywordSource models.Source
}

// Matcher scores listing titles against a RelevanceModel.
type Matcher struct {
	model  RelevanceModel
	logger *utils.Logger
}

// NewMatcher creates a Matcher for the given model.
func NewMatcher(model RelevanceModel, logger *utils.Logger) *Matcher {
	return &Matcher{model: model, logger: logger}
}

// Matches reports whether the title is relevant for the given source.
// The first known term whose similarity ratio strictly exceeds the source
// threshold wins; failing that, the keyword substring path applies only to
// the keyword-eligible source.
func (m *Matcher) Matches(title string, source models.Source) bool {
	lowered := strings.ToLower(title)
	threshold := m.model.ThresholdBySource[source]

	for _, term := range m.model.KnownTerms {
		ratio := Ratio(lowered, strings.ToLower(term))
		if ratio > threshold {
			m.logger.Debug("[matcher] %q ~ %q ratio %.3f > %.3f", title, term, ratio, threshold)
			return true
		}
	}

	if source == m.model.KeywordSource {
		for _, keyword := range m.model.Keywords {
			if strings.Contains(lowered, strings.ToLower(keyword)) {
				m.logger.Debug("[matcher] %q contains keyword %q", title, keyword)
				return true
			}
		}
	}

	return false
}
