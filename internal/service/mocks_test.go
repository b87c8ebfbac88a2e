package service

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockStore implements storage.Store only, so the registry falls back to
// check-then-put for new paths.
type MockStore struct {
	mock.Mock
}

func (s *MockStore) Get(ctx context.Context, key string) (string, error) {
	args := s.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (s *MockStore) Put(ctx context.Context, key, value string) error {
	args := s.Called(ctx, key, value)
	return args.Error(0)
}

func (s *MockStore) Delete(ctx context.Context, key string) error {
	args := s.Called(ctx, key)
	return args.Error(0)
}

func (s *MockStore) List(ctx context.Context, prefix string) ([]string, error) {
	args := s.Called(ctx, prefix)
	keys, _ := args.Get(0).([]string)
	return keys, args.Error(1)
}

// MockCreatorStore additionally implements storage.Creator.
type MockCreatorStore struct {
	MockStore
}

func (s *MockCreatorStore) Create(ctx context.Context, key, value string) error {
	args := s.Called(ctx, key, value)
	return args.Error(0)
}
