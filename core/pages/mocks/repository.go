package mocks

import (
	"context"

	"route-publisher/core/pages"

	"github.com/stretchr/testify/mock"
)

// Repository is a mock implementation of pages.Repository
type Repository struct {
	mock.Mock
}

func (m *Repository) FindBySlug(ctx context.Context, slug string) (*pages.PublishedPage, error) {
	args := m.Called(ctx, slug)
	page, _ := args.Get(0).(*pages.PublishedPage)
	return page, args.Error(1)
}

func (m *Repository) ListPublished(ctx context.Context) ([]pages.PublishedPage, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]pages.PublishedPage)
	return list, args.Error(1)
}

func (m *Repository) CustomDomains(ctx context.Context, pageID string) ([]string, error) {
	args := m.Called(ctx, pageID)
	hosts, _ := args.Get(0).([]string)
	return hosts, args.Error(1)
}

func (m *Repository) RecordVersion(ctx context.Context, pageID string, v pages.Version) (*pages.Version, error) {
	args := m.Called(ctx, pageID, v)
	version, _ := args.Get(0).(*pages.Version)
	return version, args.Error(1)
}

func (m *Repository) Create(ctx context.Context, slug string, customDomains []string) (*pages.PublishedPage, error) {
	args := m.Called(ctx, slug, customDomains)
	page, _ := args.Get(0).(*pages.PublishedPage)
	return page, args.Error(1)
}
