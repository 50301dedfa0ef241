package service

import (
	"context"

	"hoteldesk-panel/internal/domain"
	"hoteldesk-panel/internal/logger"
	"hoteldesk-panel/internal/metrics"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type referenceLoader struct {
	source  ReferenceSource
	metrics *metrics.Metrics
	group   singleflight.Group
}

func NewReferenceLoader(source ReferenceSource, m *metrics.Metrics) ReferenceService {
	return &referenceLoader{source: source, metrics: m}
}

func (l *referenceLoader) Load(ctx context.Context) domain.ReferenceData {
	var refs domain.ReferenceData
	var g errgroup.Group

	// Each goroutine writes its own field of refs.
	g.Go(func() error {
		if v, ok := l.fetch(ctx, domain.ReferenceUnits, func(ctx context.Context) (any, error) {
			return l.source.ListUnits(ctx)
		}); ok {
			refs.Units = v.([]domain.Unit)
		}
		return nil
	})
	g.Go(func() error {
		if v, ok := l.fetch(ctx, domain.ReferenceGuests, func(ctx context.Context) (any, error) {
			return l.source.ListGuests(ctx)
		}); ok {
			refs.Guests = v.([]domain.Guest)
		}
		return nil
	})

	options := make([][]domain.Option, len(domain.OptionKinds))
	for i, kind := range domain.OptionKinds {
		i, kind := i, kind
		g.Go(func() error {
			if v, ok := l.fetch(ctx, kind, func(ctx context.Context) (any, error) {
				return l.source.ListOptions(ctx, kind)
			}); ok {
				options[i] = v.([]domain.Option)
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, kind := range domain.OptionKinds {
		refs.SetOptions(kind, options[i])
	}

	// Shared singleflight results must not be aliased between sessions.
	refs = refs.Clone()
	normalize(&refs)
	return refs
}

// fetch runs one list call, sharing it with concurrent loads of the same list.
// The shared call outlives the caller's cancellation so other waiters still get it.
func (l *referenceLoader) fetch(ctx context.Context, kind domain.ReferenceKind, call func(context.Context) (any, error)) (any, bool) {
	v, err, _ := l.group.Do(string(kind), func() (any, error) {
		v, err := call(context.WithoutCancel(ctx))
		l.metrics.ReferenceFetch(string(kind), err)
		return v, err
	})
	if err != nil {
		logger.Warn("Failed to load reference list", "kind", kind, "error", err)
		return nil, false
	}
	return v, true
}

func normalize(refs *domain.ReferenceData) {
	if refs.Units == nil {
		refs.Units = []domain.Unit{}
	}
	if refs.Guests == nil {
		refs.Guests = []domain.Guest{}
	}
	for _, opts := range []*[]domain.Option{
		&refs.RentalTypes, &refs.DiscountTypes, &refs.Sources, &refs.Reasons, &refs.Relationships,
	} {
		if *opts == nil {
			*opts = []domain.Option{}
		}
	}
}
