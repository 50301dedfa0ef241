package service

import (
	"context"
	"errors"
	"testing"

	"hoteldesk-panel/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestReferenceLoader_Load(t *testing.T) {
	source := new(MockReferenceSource)
	source.On("ListUnits", mock.Anything).Return([]domain.Unit{{ID: "u1", UnitNumber: "101"}}, nil)
	source.On("ListGuests", mock.Anything).Return(nil, errors.New("guests endpoint down"))
	source.On("ListOptions", mock.Anything, domain.ReferenceSources).Return([]domain.Option{{ID: "1", Name: "Walk-in"}}, nil)
	source.On("ListOptions", mock.Anything, domain.ReferenceReasons).Return(nil, errors.New("timeout"))
	source.On("ListOptions", mock.Anything, mock.Anything).Return([]domain.Option{}, nil)

	loader := NewReferenceLoader(source, nil)
	refs := loader.Load(context.Background())

	assert.Len(t, refs.Units, 1)
	assert.NotNil(t, refs.Guests)
	assert.Empty(t, refs.Guests)
	assert.Equal(t, []domain.Option{{ID: "1", Name: "Walk-in"}}, refs.Sources)
	assert.NotNil(t, refs.Reasons)
	assert.Empty(t, refs.Reasons)
	assert.NotNil(t, refs.Relationships)

	source.AssertNumberOfCalls(t, "ListOptions", len(domain.OptionKinds))
}

func TestReferenceLoader_ResultsAreNotShared(t *testing.T) {
	source := new(MockReferenceSource)
	source.On("ListUnits", mock.Anything).Return([]domain.Unit{{ID: "u1"}}, nil)
	source.On("ListGuests", mock.Anything).Return([]domain.Guest{}, nil)
	source.On("ListOptions", mock.Anything, mock.Anything).Return([]domain.Option{}, nil)

	loader := NewReferenceLoader(source, nil)
	first := loader.Load(context.Background())
	first.Units[0].Name = "changed"

	second := loader.Load(context.Background())
	assert.Empty(t, second.Units[0].Name)
}

func TestReferenceLoader_CancelledCallerStillLoads(t *testing.T) {
	source := new(MockReferenceSource)
	source.On("ListUnits", mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil })).
		Return([]domain.Unit{{ID: "u1"}}, nil)
	source.On("ListGuests", mock.Anything).Return([]domain.Guest{}, nil)
	source.On("ListOptions", mock.Anything, mock.Anything).Return([]domain.Option{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	refs := NewReferenceLoader(source, nil).Load(ctx)
	assert.Len(t, refs.Units, 1)
}
