// Package seed fills the customers table with deterministic demo rows.
package seed

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/datawhisperer/datawhisperer/internal/customers"
)

// Store is the subset of the customers repository the seeder writes through.
type Store interface {
	InsertBatch(ctx context.Context, batch []customers.NewCustomer) (int, error)
	Count(ctx context.Context) (int64, error)
	Truncate(ctx context.Context) error
}

type Summary struct {
	Inserted int
	Total    int64
}

type Service struct {
	cfg       Config
	log       *slog.Logger
	store     Store
	generator *Generator
}

func NewService(cfg Config, logger *slog.Logger, store Store) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("customer store is required")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		cfg:       cfg,
		log:       logger,
		store:     store,
		generator: NewGenerator(cfg.Seed),
	}, nil
}

// Run inserts Count customers in batches. When IncludeCanonical is set the
// first row is Canonical and counts toward Count.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	if s.cfg.Truncate {
		if err := s.store.Truncate(ctx); err != nil {
			return Summary{}, err
		}
		s.log.Info("customers truncated")
	}

	summary := Summary{}
	batch := make([]customers.NewCustomer, 0, s.cfg.BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := s.store.InsertBatch(ctx, batch)
		if err != nil {
			return err
		}
		summary.Inserted += n
		s.log.Debug("customer batch inserted", slog.Int("rows", n), slog.Int("inserted", summary.Inserted))
		batch = batch[:0]
		return nil
	}

	for i := 0; i < s.cfg.Count; i++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		next := s.generator.NextCustomer()
		if i == 0 && s.cfg.IncludeCanonical {
			next = Canonical
		}
		batch = append(batch, next)
		if len(batch) >= s.cfg.BatchSize {
			if err := flush(); err != nil {
				return summary, err
			}
		}
	}
	if err := flush(); err != nil {
		return summary, err
	}

	total, err := s.store.Count(ctx)
	if err != nil {
		return summary, err
	}
	summary.Total = total
	s.log.Info("customers seeded",
		slog.Int("inserted", summary.Inserted),
		slog.Int64("total", summary.Total),
		slog.Int64("seed", s.cfg.Seed),
	)
	return summary, nil
}
