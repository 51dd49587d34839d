package model

import (
	"strings"
)

// WorkType category of farm labour
type WorkType string

const (
	WorkTypeLandPreparation WorkType = "land_preparation"
	WorkTypeSowing          WorkType = "sowing"
	WorkTypeTransplanting   WorkType = "transplanting"
	WorkTypeWeeding         WorkType = "weeding"
	WorkTypeFertilizing     WorkType = "fertilizing"
	WorkTypePestControl     WorkType = "pest_control"
	WorkTypeIrrigation      WorkType = "irrigation"
	WorkTypeHarvesting      WorkType = "harvesting"
	WorkTypePostHarvest     WorkType = "post_harvest"
	WorkTypeGeneral         WorkType = "general"
)

// otherPrefix marks a work type outside the known catalogue, e.g. "other:pruning"
const otherPrefix = "other:"

var knownWorkTypes = []WorkType{
	WorkTypeLandPreparation,
	WorkTypeSowing,
	WorkTypeTransplanting,
	WorkTypeWeeding,
	WorkTypeFertilizing,
	WorkTypePestControl,
	WorkTypeIrrigation,
	WorkTypeHarvesting,
	WorkTypePostHarvest,
	WorkTypeGeneral,
}

var workTypeLabels = map[WorkType]string{
	WorkTypeLandPreparation: "Land Preparation",
	WorkTypeSowing:          "Sowing",
	WorkTypeTransplanting:   "Transplanting",
	WorkTypeWeeding:         "Weeding",
	WorkTypeFertilizing:     "Fertilizing",
	WorkTypePestControl:     "Pest Control",
	WorkTypeIrrigation:      "Irrigation",
	WorkTypeHarvesting:      "Harvesting",
	WorkTypePostHarvest:     "Post Harvest",
	WorkTypeGeneral:         "General Farm Work",
}

// KnownWorkTypes returns the catalogue in display order
func KnownWorkTypes() []WorkType {
	out := make([]WorkType, len(knownWorkTypes))
	copy(out, knownWorkTypes)
	return out
}

// OtherWorkType builds the catch-all variant for an uncatalogued label
func OtherWorkType(label string) WorkType {
	return WorkType(otherPrefix + normalizeLabel(label))
}

// ParseWorkType accepts a catalogue value or an "other:<label>" value.
// Unrecognised plain values become Other(value).
func ParseWorkType(s string) (WorkType, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return "", NewValidationError("work type is required")
	}
	wt := WorkType(s)
	if _, ok := workTypeLabels[wt]; ok {
		return wt, nil
	}
	label := strings.TrimPrefix(s, otherPrefix)
	if normalizeLabel(label) == "" {
		return "", NewValidationError("work type %q has an empty label", s)
	}
	return OtherWorkType(label), nil
}

// IsKnown reports whether wt is in the catalogue
func (wt WorkType) IsKnown() bool {
	_, ok := workTypeLabels[wt]
	return ok
}

// IsOther reports whether wt is the catch-all variant
func (wt WorkType) IsOther() bool {
	return strings.HasPrefix(string(wt), otherPrefix)
}

// Label returns a human-readable name
func (wt WorkType) Label() string {
	if l, ok := workTypeLabels[wt]; ok {
		return l
	}
	if wt.IsOther() {
		return strings.ReplaceAll(strings.TrimPrefix(string(wt), otherPrefix), "_", " ")
	}
	return string(wt)
}

func (wt WorkType) String() string {
	return string(wt)
}

func normalizeLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	return strings.Join(strings.Fields(label), "_")
}
