// Package service contains the business logic for the marketplace API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vroomauto/marketplace/internal/domain"
	"github.com/vroomauto/marketplace/internal/repo"
)

// PhotoResolver turns a stored photo reference into a servable URL.
// The storage package provides the production implementation with its
// session-scoped signed-URL cache.
type PhotoResolver interface {
	Resolve(ctx context.Context, stored string) string
}

// ListingService implements the listing submission pipeline and the
// denormalized read side.
type ListingService struct {
	repo     repo.ListingRepo
	resolver PhotoResolver
}

// NewListingService constructs a ListingService.
func NewListingService(r repo.ListingRepo, resolver PhotoResolver) *ListingService {
	return &ListingService{repo: r, resolver: resolver}
}

// Create runs the full submission pipeline: validate, coerce, enum-map, then
// persist the parent row and its child records in order. The generated
// listing ID is returned on success.
//
// All validation happens before the first repo call — a draft that fails
// never touches the database. The writes themselves are sequential with no
// compensating rollback: a mid-sequence failure leaves the earlier rows in
// place. Known limitation, kept deliberately.
func (s *ListingService) Create(ctx context.Context, draft domain.ListingDraft) (uuid.UUID, error) {
	sub, err := buildSubmission(draft)
	if err != nil {
		return uuid.Nil, err
	}

	carID, err := s.repo.CreateCar(ctx, sub.CarArgs)
	if err != nil {
		return uuid.Nil, fmt.Errorf("service.ListingService.Create: %w", err)
	}

	if sub.Technical != nil {
		if err := s.repo.CreateTechnicalDetails(ctx, carID, sub.Technical); err != nil {
			return uuid.Nil, fmt.Errorf("service.ListingService.Create: %w", err)
		}
	}

	if sub.Inspection != nil {
		sub.Inspection.CarID = carID
		if err := s.repo.CreateInspection(ctx, *sub.Inspection); err != nil {
			return uuid.Nil, fmt.Errorf("service.ListingService.Create: %w", err)
		}
	}

	if len(sub.Maintenance) > 0 {
		if err := s.repo.CreateMaintenanceEntries(ctx, carID, sub.Maintenance); err != nil {
			return uuid.Nil, fmt.Errorf("service.ListingService.Create: %w", err)
		}
	}

	if err := s.repo.CreatePhotos(ctx, carID, sub.Photos); err != nil {
		return uuid.Nil, fmt.Errorf("service.ListingService.Create: %w", err)
	}

	return carID, nil
}

// GetByID returns one denormalized listing with every photo reference
// resolved to a signed URL. Returns domain.ErrNotFound if no listing exists.
func (s *ListingService) GetByID(ctx context.Context, id uuid.UUID) (domain.Car, error) {
	car, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Car{}, fmt.Errorf("service.ListingService.GetByID: %w", err)
	}

	car.MainPhoto = s.resolver.Resolve(ctx, car.MainPhoto)
	for i := range car.Photos {
		car.Photos[i].URL = s.resolver.Resolve(ctx, car.Photos[i].URL)
	}

	return car, nil
}

// List returns one page of listings matching the filters, with each main
// photo resolved to a signed URL. Always returns a non-nil slice so callers
// can safely range over it.
func (s *ListingService) List(ctx context.Context, f domain.ListingFilters, p domain.PaginationParams) ([]domain.Car, int64, error) {
	cars, total, err := s.repo.List(ctx, f, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ListingService.List: %w", err)
	}

	for i := range cars {
		cars[i].MainPhoto = s.resolver.Resolve(ctx, cars[i].MainPhoto)
	}

	if cars == nil {
		cars = []domain.Car{}
	}
	return cars, total, nil
}
