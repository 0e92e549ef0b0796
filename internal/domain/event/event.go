package event

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Event is a change announcement for downstream consumers.
type Event interface {
	EventType() string
	EventValue() ([]byte, error)
}

const (
	TypeCatalogSeeded   = "catalog.seeded"
	TypeSettingsUpdated = "settings.updated"
)

var ErrUnknownType = errors.New("unknown event type")

func IsKnown(eventType string) bool {
	switch eventType {
	case TypeCatalogSeeded, TypeSettingsUpdated:
		return true
	default:
		return false
	}
}

func marshal(e Event) ([]byte, error) {
	return json.Marshal(e)
}

// Decode rebuilds a published event from its stream payload.
func Decode(eventType string, data []byte) (Event, error) {
	var e Event
	switch eventType {
	case TypeCatalogSeeded:
		e = &CatalogSeeded{}
	case TypeSettingsUpdated:
		e = &SettingsUpdated{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, eventType)
	}

	if err := json.Unmarshal(data, e); err != nil {
		return nil, fmt.Errorf("failed to decode %s event: %w", eventType, err)
	}
	return e, nil
}
