package http

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/shortlink/internal/models"
)

type MockLinkService struct {
	mock.Mock
}

func (s *MockLinkService) CreateLink(ctx context.Context, targetURL, customPath string) (*models.Link, error) {
	args := s.Called(ctx, targetURL, customPath)
	link, _ := args.Get(0).(*models.Link)
	return link, args.Error(1)
}

func (s *MockLinkService) ResolveLink(ctx context.Context, path string) (string, error) {
	args := s.Called(ctx, path)
	return args.String(0), args.Error(1)
}

func (s *MockLinkService) ListLinks(ctx context.Context) ([]models.Link, error) {
	args := s.Called(ctx)
	links, _ := args.Get(0).([]models.Link)
	return links, args.Error(1)
}

func (s *MockLinkService) UpdateLink(ctx context.Context, path, newURL string) (*models.Link, error) {
	args := s.Called(ctx, path, newURL)
	link, _ := args.Get(0).(*models.Link)
	return link, args.Error(1)
}

func (s *MockLinkService) DeleteLink(ctx context.Context, path string) error {
	args := s.Called(ctx, path)
	return args.Error(0)
}
