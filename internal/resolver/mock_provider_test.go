package resolver

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) PlacesSearch(ctx context.Context, query string) (*model.PlacesResponse, error) {
	args := m.Called(ctx, query)
	if v := args.Get(0); v != nil {
		return v.(*model.PlacesResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProvider) Search(ctx context.Context, query string, num int) (*model.SearchResponse, error) {
	args := m.Called(ctx, query, num)
	if v := args.Get(0); v != nil {
		return v.(*model.SearchResponse), args.Error(1)
	}
	return nil, args.Error(1)
}
