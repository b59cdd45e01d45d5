// Package event ingests LLM call events and serves the paginated
// conversation listing.
package event

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/helio-labs/llmpulse/internal/domain"
	domevent "github.com/helio-labs/llmpulse/internal/domain/event"
)

// ListParams carries the listing request after transport decoding.
// Model and Status filter exactly when non-empty.
type ListParams struct {
	Page     int
	PageSize int
	Model    string
	Status   string
}

// ListResult is one page of events plus the full filtered count.
type ListResult struct {
	Events   []domevent.Event
	Total    int
	Page     int
	PageSize int
}

// Service handles event ingestion and listing.
type Service struct {
	repo            Repository
	pricer          Pricer
	recorder        Recorder
	defaultPageSize int
	maxPageSize     int
	newID           func() string
	now             func() time.Time
}

// New creates an event service. recorder can be nil.
func New(repo Repository, pricer Pricer, recorder Recorder) *Service {
	return &Service{
		repo:            repo,
		pricer:          pricer,
		recorder:        recorder,
		defaultPageSize: 100,
		maxPageSize:     1000,
		newID:           uuid.NewString,
		now:             time.Now,
	}
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// Create validates and persists one event. When the caller supplied no
// cost it is computed from the pricing table with missing token counts
// treated as zero; an explicit cost is stored unchanged, even if the
// table would disagree.
func (s *Service) Create(ctx context.Context, in domevent.Input) (domevent.Event, error) {
	evt, err := domevent.New(in)
	if err != nil {
		return domevent.Event{}, err
	}

	if _, ok := evt.CostUSD(); !ok {
		prompt, _ := evt.PromptTokens()
		completion, _ := evt.CompletionTokens()
		evt = evt.WithCost(s.pricer.Cost(evt.Model(), prompt, completion))
	}

	stamped := evt.Stamped(s.newID(), s.now().UTC())
	if err := s.repo.Create(ctx, &stamped); err != nil {
		return domevent.Event{}, fmt.Errorf("create event: %w", err)
	}

	if s.recorder != nil {
		cost, _ := stamped.CostUSD()
		s.recorder.ObserveIngest(stamped.Model(), string(stamped.Status()), cost)
	}
	return stamped, nil
}

// List returns one page of events, newest first, with the total count
// of events matching the filters.
func (s *Service) List(ctx context.Context, p ListParams) (ListResult, error) {
	if p.Page < 1 {
		return ListResult{}, fmt.Errorf("page must be >= 1, got %d: %w",
			p.Page, domain.ErrValidation)
	}
	if p.PageSize == 0 {
		p.PageSize = s.defaultPageSize
	}
	if p.PageSize < 1 || p.PageSize > s.maxPageSize {
		return ListResult{}, fmt.Errorf("page_size must be in [1, %d], got %d: %w",
			s.maxPageSize, p.PageSize, domain.ErrValidation)
	}

	var status domevent.Status
	if p.Status != "" {
		parsed, err := domevent.ParseStatus(p.Status)
		if err != nil {
			return ListResult{}, err
		}
		status = parsed
	}

	all, err := s.repo.AllDesc(ctx)
	if err != nil {
		return ListResult{}, fmt.Errorf("list events: %w", err)
	}

	filtered := all[:0:0]
	for _, evt := range all {
		if p.Model != "" && evt.Model() != p.Model {
			continue
		}
		if status != "" && evt.Status() != status {
			continue
		}
		filtered = append(filtered, evt)
	}

	total := len(filtered)
	offset := (p.Page - 1) * p.PageSize
	var page []domevent.Event
	if offset < total {
		end := offset + p.PageSize
		if end > total {
			end = total
		}
		page = filtered[offset:end]
	}

	return ListResult{
		Events:   page,
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
	}, nil
}
