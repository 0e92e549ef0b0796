package domain

type SeedStatus string

const (
	SeedStatusSeeded        SeedStatus = "SEEDED"
	SeedStatusAlreadySeeded SeedStatus = "ALREADY_SEEDED"
)

// SeedResult reports the outcome of one seed run. Counts is nil when the
// store was already seeded.
type SeedResult struct {
	Status SeedStatus
	Counts map[Collection]int
}

func (r SeedResult) Message() string {
	if r.Status == SeedStatusAlreadySeeded {
		return "Data already seeded"
	}
	return "Data seeded successfully"
}

// Count returns the number of documents written to c, or zero.
func (r SeedResult) Count(c Collection) int {
	return r.Counts[c]
}
