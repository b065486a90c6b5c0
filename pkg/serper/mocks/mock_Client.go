// Package mocks provides test doubles for the serper client.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	serper "github.com/SantaJordan/blueprint-gtm-playbooks-sub000/pkg/serper"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Search provides a mock function with given fields: ctx, req
func (_m *MockClient) Search(ctx context.Context, req serper.SearchRequest) (*serper.SearchResponse, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for Search")
	}

	var r0 *serper.SearchResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*serper.SearchResponse)
	}
	return r0, ret.Error(1)
}

// Places provides a mock function with given fields: ctx, req
func (_m *MockClient) Places(ctx context.Context, req serper.PlacesRequest) (*serper.PlacesResponse, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for Places")
	}

	var r0 *serper.PlacesResponse
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*serper.PlacesResponse)
	}
	return r0, ret.Error(1)
}

// NewMockClient creates a new instance of MockClient and registers cleanup.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
