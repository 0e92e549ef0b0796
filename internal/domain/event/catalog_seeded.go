package event

import "time"

type CatalogSeeded struct {
	Counts   map[string]int `json:"counts"`    // keyed by API response key
	SeededAt time.Time      `json:"seeded_at"` // UTC
}

func (e *CatalogSeeded) EventType() string {
	return TypeCatalogSeeded
}

func (e *CatalogSeeded) EventValue() ([]byte, error) {
	return marshal(e)
}
