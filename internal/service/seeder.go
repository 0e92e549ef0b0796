package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dryfruto/storefront/internal/dataset"
	"dryfruto/storefront/internal/domain"
	"dryfruto/storefront/internal/domain/event"
	"dryfruto/storefront/internal/observability"
	"dryfruto/storefront/internal/queue"
	"dryfruto/storefront/internal/repository"
	"dryfruto/storefront/internal/state"

	log "github.com/sirupsen/logrus"
)

// Seeder fills an empty store with the fixed storefront catalog.
type Seeder struct {
	repository repository.CatalogRepository
	lock       state.SeedLock
	publisher  queue.Publisher
	dataset    func() (*dataset.Dataset, error)
}

func NewSeeder(
	repository repository.CatalogRepository,
	lock state.SeedLock,
	publisher queue.Publisher,
) *Seeder {
	return &Seeder{
		repository: repository,
		lock:       lock,
		publisher:  publisher,
		dataset:    dataset.Default,
	}
}

// writeOrder lists the collections in write order. The marker goes last so an
// interrupted run still reads as unseeded.
func writeOrder() []domain.Collection {
	order := make([]domain.Collection, 0, len(domain.CatalogCollections))
	for _, c := range domain.CatalogCollections {
		if c != domain.SeedMarker {
			order = append(order, c)
		}
	}
	return append(order, domain.SeedMarker)
}

// Seed writes the fixed dataset unless the marker collection is already
// complete. It is safe to call repeatedly.
func (s *Seeder) Seed(ctx context.Context) (domain.SeedResult, error) {
	start := time.Now()

	result, err := s.seed(ctx)
	observability.RecordSeedRun(seedOutcome(result, err), time.Since(start))
	if err != nil {
		return domain.SeedResult{}, err
	}
	return result, nil
}

func (s *Seeder) seed(ctx context.Context) (domain.SeedResult, error) {
	release, err := s.lock.Acquire(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSeedInProgress) {
			log.Warn("⏳ Seed requested while another run holds the lock")
		}
		return domain.SeedResult{}, err
	}
	defer release()

	data, err := s.dataset()
	if err != nil {
		return domain.SeedResult{}, err
	}

	// A marker cut off mid-batch is not a seeded store.
	markers, err := s.repository.Count(ctx, domain.SeedMarker)
	if err != nil {
		log.Errorf("❌ Failed to check seed marker: %v", err)
		return domain.SeedResult{}, err
	}
	if markers >= int64(data.Count(domain.SeedMarker)) {
		log.Info("✅ Storefront data already seeded, nothing to do")
		return domain.SeedResult{Status: domain.SeedStatusAlreadySeeded}, nil
	}

	var counts map[domain.Collection]int
	if tx, ok := s.repository.(repository.Transactor); ok && tx.SupportsTransactions() {
		counts, err = s.writeInTransaction(ctx, tx, data)
	} else {
		counts, err = s.writeAll(ctx, s.repository, data)
	}
	if err != nil {
		return domain.SeedResult{}, err
	}

	for _, c := range domain.CatalogCollections {
		log.Infof("🌱 %s: %d documents", c.DisplayName(), counts[c])
	}
	s.publishSeeded(ctx, counts)

	return domain.SeedResult{Status: domain.SeedStatusSeeded, Counts: counts}, nil
}

// docID decodes only the id of a stored document.
type docID struct {
	ID string `json:"id" bson:"_id"`
}

// fillResult describes one collection after fill.
type fillResult struct {
	existing int // documents present before the write
	written  int // documents written by this call
}

func (r fillResult) skipped() bool {
	return r.written == 0 && r.existing > 0
}

// fill writes the documents of c that the store does not hold yet. A
// collection interrupted mid-batch is completed by id rather than trusted.
func fill(ctx context.Context, repo repository.CatalogRepository, data *dataset.Dataset, c domain.Collection) (fillResult, error) {
	var res fillResult

	n, err := repo.Count(ctx, c)
	if err != nil {
		return res, err
	}
	res.existing = int(n)
	want := data.Count(c)
	if res.existing >= want {
		return res, nil
	}

	docs := data.Documents(c)
	if res.existing > 0 {
		var stored []docID
		if err := repo.FindAll(ctx, c, &stored); err != nil {
			return res, err
		}
		present := make(map[string]struct{}, len(stored))
		for _, d := range stored {
			present[d.ID] = struct{}{}
		}
		docs = data.MissingDocuments(c, present)
		log.Warnf("⚠️ %s holds %d of %d documents, writing the %d missing", c.DisplayName(), res.existing, want, len(docs))
	}
	if len(docs) == 0 {
		return res, fmt.Errorf("%s holds %d documents not in the catalog, expected %d", c, res.existing, want)
	}

	res.written, err = repo.InsertMany(ctx, c, docs)
	if res.written > 0 {
		observability.RecordSeedDocuments(c.String(), res.written)
	}
	if err != nil {
		log.Errorf("❌ Failed to seed %s after %d documents: %v", c.DisplayName(), res.written, err)
		return res, err
	}
	if total := res.existing + res.written; total < want {
		return res, fmt.Errorf("%s holds %d documents after seeding, expected %d", c, total, want)
	}
	return res, nil
}

// writeAll gap-fills every catalog collection so a retry after a partial
// failure only writes what is missing.
func (s *Seeder) writeAll(ctx context.Context, repo repository.CatalogRepository, data *dataset.Dataset) (map[domain.Collection]int, error) {
	counts := make(map[domain.Collection]int, len(domain.CatalogCollections))
	progress := &domain.PartialSeedFailure{}

	for _, c := range writeOrder() {
		res, err := fill(ctx, repo, data, c)
		if err != nil {
			if len(progress.Written) == 0 && len(progress.Skipped) == 0 && res.existing == 0 && res.written == 0 {
				return nil, err
			}
			progress.Failed = c
			progress.FailedDocs = res.written
			progress.Err = err
			return nil, progress
		}

		if res.skipped() {
			log.Infof("⏭️ %s already present, skipping", c.DisplayName())
			progress.Skipped = append(progress.Skipped, c)
		} else {
			progress.Written = append(progress.Written, c)
		}
		counts[c] = res.existing + res.written
	}

	return counts, nil
}

func (s *Seeder) writeInTransaction(ctx context.Context, tx repository.Transactor, data *dataset.Dataset) (map[domain.Collection]int, error) {
	var counts map[domain.Collection]int
	var touched bool
	var failed domain.Collection

	err := tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		// The body may be retried on transient errors.
		touched = false
		failed = ""

		counts = make(map[domain.Collection]int, len(domain.CatalogCollections))
		for _, c := range writeOrder() {
			res, err := fill(txCtx, s.repository, data, c)
			if res.existing > 0 || res.written > 0 {
				touched = true
			}
			if err != nil {
				failed = c
				return err
			}
			counts[c] = res.existing + res.written
		}
		return nil
	})
	if err != nil {
		log.Errorf("❌ Seed transaction rolled back: %v", err)
		if !touched && failed != "" {
			return nil, err
		}
		return nil, &domain.PartialSeedFailure{
			Failed:     failed,
			RolledBack: true,
			Err:        err,
		}
	}

	return counts, nil
}

func (s *Seeder) publishSeeded(ctx context.Context, counts map[domain.Collection]int) {
	byKey := make(map[string]int, len(counts))
	for c, n := range counts {
		byKey[c.ResponseKey()] = n
	}

	e := &event.CatalogSeeded{Counts: byKey, SeededAt: time.Now().UTC()}
	if _, err := s.publisher.Publish(ctx, e); err != nil {
		log.Warnf("⚠️ Failed to publish %s: %v", e.EventType(), err)
	}
}

func seedOutcome(result domain.SeedResult, err error) string {
	var partial *domain.PartialSeedFailure
	switch {
	case err == nil && result.Status == domain.SeedStatusAlreadySeeded:
		return observability.SeedOutcomeAlreadySeeded
	case err == nil:
		return observability.SeedOutcomeSeeded
	case errors.Is(err, domain.ErrSeedInProgress):
		return observability.SeedOutcomeInProgress
	case errors.As(err, &partial):
		return observability.SeedOutcomePartial
	case errors.Is(err, domain.ErrStoreUnavailable):
		return observability.SeedOutcomeUnavailable
	default:
		return observability.SeedOutcomeError
	}
}
