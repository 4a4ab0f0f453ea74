package persistence

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"example.com/ecosangam/internal/domain"
	"example.com/ecosangam/internal/emissions"
)

// DecodeGoals parses a stored goal collection. Corrupt data is logged and discarded so
// the user starts again from an empty list.
func DecodeGoals(raw []byte, userID string, logger zerolog.Logger) []domain.Goal {
	if len(raw) == 0 {
		return []domain.Goal{}
	}
	var goals []domain.Goal
	if err := json.Unmarshal(raw, &goals); err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Int("bytes", len(raw)).Msg("discarding corrupt goal data")
		return []domain.Goal{}
	}
	if goals == nil {
		goals = []domain.Goal{}
	}
	for i := range goals {
		if goals[i].Activities == nil {
			goals[i].Activities = []domain.Activity{}
		}
	}
	return goals
}

// EncodeGoals serialises a goal collection for storage.
func EncodeGoals(goals []domain.Goal) ([]byte, error) {
	if goals == nil {
		goals = []domain.Goal{}
	}
	return json.Marshal(goals)
}

// DecodeResults parses a stored footprint. Corrupt data is logged and discarded.
func DecodeResults(raw []byte, userID string, logger zerolog.Logger) []emissions.Result {
	if len(raw) == 0 {
		return nil
	}
	var results []emissions.Result
	if err := json.Unmarshal(raw, &results); err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("discarding corrupt footprint data")
		return nil
	}
	return results
}

// EncodeResults serialises a footprint's results for storage.
func EncodeResults(results []emissions.Result) ([]byte, error) {
	if results == nil {
		results = []emissions.Result{}
	}
	return json.Marshal(results)
}
