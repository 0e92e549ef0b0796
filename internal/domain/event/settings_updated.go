package event

import "time"

type SettingsUpdated struct {
	Keys      []string  `json:"keys"` // fields supplied by the update
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *SettingsUpdated) EventType() string {
	return TypeSettingsUpdated
}

func (e *SettingsUpdated) EventValue() ([]byte, error) {
	return marshal(e)
}
