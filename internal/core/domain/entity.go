package domain

import "time"

// EntityType is the closed set of knowledge-graph node kinds.
type EntityType string

const (
	EntityPerson       EntityType = "Person"
	EntityLocation     EntityType = "Location"
	EntityOrganization EntityType = "Organization"
	EntityEvent        EntityType = "Event"
	EntityConcept      EntityType = "Concept"
)

// EntityTypes returns the five kinds in their fixed display order.
func EntityTypes() []EntityType {
	return []EntityType{EntityPerson, EntityOrganization, EntityLocation, EntityEvent, EntityConcept}
}

func (t EntityType) Valid() bool {
	for _, known := range EntityTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// Entity is a knowledge node extracted from (or attached to) one document.
// Each document owns its copies; identity across documents is by exact name
// equality at projection time, there is no global entity registry.
type Entity struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Type       EntityType `json:"type"`
	Context    string     `json:"context"`
	Confidence float64    `json:"confidence"`
}

// ParseResult is what the extraction adapter hands back for one document.
type ParseResult struct {
	Metadata Metadata `json:"metadata"`
	Entities []Entity `json:"entities"`
}

// Normalize drops entities with out-of-enum types and guarantees a non-nil
// entity slice, mirroring Metadata.Normalize for the AI response path.
func (r *ParseResult) Normalize() {
	r.Metadata.Normalize()
	kept := make([]Entity, 0, len(r.Entities))
	for _, e := range r.Entities {
		if e.Name == "" || !e.Type.Valid() {
			continue
		}
		kept = append(kept, e)
	}
	r.Entities = kept
}

// FallbackParseResult labels a failed extraction as a usable low-confidence
// result so the review queue always has something to show.
func FallbackParseResult(now time.Time) ParseResult {
	return ParseResult{
		Metadata: FallbackMetadata(now),
		Entities: []Entity{},
	}
}
