package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/rezz/internal/db"
	"github.com/JonMunkholm/rezz/internal/schema"
)

// Entity keys used by the registry, the API routes and the CLI.
const (
	EntityApplications = "applications"
	EntityListings     = "listings"
	EntityResumes      = "resumes"
)

// Service bundles the three controllers over one handle.
//
// The handle is a single session, so a Service is not safe for concurrent
// use; callers that share one must serialize access.
type Service struct {
	handle *db.Handle
	logger *slog.Logger

	Applications *JobApplicationController
	Listings     *JobListingController
	Resumes      *ResumeController
	Exporters    *Registry
}

// NewService wires the controllers to h and registers them as exporters.
func NewService(h *db.Handle, opts ...Option) *Service {
	s := &Service{
		handle:       h,
		logger:       newBase(h, "schema", opts).logger,
		Applications: NewJobApplicationController(h, opts...),
		Listings:     NewJobListingController(h, opts...),
		Resumes:      NewResumeController(h, opts...),
		Exporters:    NewRegistry(),
	}

	s.Exporters.Register(EntityApplications, s.Applications)
	s.Exporters.Register(EntityListings, s.Listings)
	s.Exporters.Register(EntityResumes, s.Resumes)
	return s
}

// Handle returns the underlying database handle.
func (s *Service) Handle() *db.Handle { return s.handle }

// Ping checks that the handle can reach the database, connecting first
// when needed.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.handle.EnsureConnected(ctx); err != nil {
		return err
	}
	return s.handle.Ping(ctx)
}

// ApplySchema creates any missing tables.
func (s *Service) ApplySchema(ctx context.Context) error {
	if err := s.handle.EnsureConnected(ctx); err != nil {
		return err
	}
	if err := schema.Apply(ctx, s.handle, s.logger); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Export renders one entity in the given format.
func (s *Service) Export(ctx context.Context, entity, format string) (string, error) {
	return s.Exporters.Export(ctx, entity, format)
}

// Count returns the row count for an entity key.
func (s *Service) Count(ctx context.Context, entity string) (int, error) {
	switch entity {
	case EntityApplications:
		return s.Applications.Count(ctx)
	case EntityListings:
		return s.Listings.Count(ctx)
	case EntityResumes:
		return s.Resumes.Count(ctx)
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
}
