package handler_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/vroomauto/marketplace/internal/domain"
	"github.com/vroomauto/marketplace/internal/mail"
	"github.com/vroomauto/marketplace/internal/service"
)

// Function-field mocks for the Servicer interfaces, shared across the
// handler tests. Nil fields make the corresponding call fail loudly.

type mockListingServicer struct {
	createFunc  func(ctx context.Context, draft domain.ListingDraft) (uuid.UUID, error)
	getByIDFunc func(ctx context.Context, id uuid.UUID) (domain.Car, error)
	listFunc    func(ctx context.Context, f domain.ListingFilters, p domain.PaginationParams) ([]domain.Car, int64, error)
}

func (m *mockListingServicer) Create(ctx context.Context, draft domain.ListingDraft) (uuid.UUID, error) {
	return m.createFunc(ctx, draft)
}

func (m *mockListingServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Car, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockListingServicer) List(ctx context.Context, f domain.ListingFilters, p domain.PaginationParams) ([]domain.Car, int64, error) {
	return m.listFunc(ctx, f, p)
}

type mockPhotoServicer struct {
	uploadBatchFunc func(ctx context.Context, carID uuid.UUID, files []service.UploadFile) ([]domain.PhotoUpload, string)
}

func (m *mockPhotoServicer) UploadBatch(ctx context.Context, carID uuid.UUID, files []service.UploadFile) ([]domain.PhotoUpload, string) {
	return m.uploadBatchFunc(ctx, carID, files)
}

type mockBookingServicer struct {
	addToCalendarFunc func(ctx context.Context, req domain.AppointmentRequest) (domain.Appointment, error)
	notifyOwnerFunc   func(ctx context.Context, req domain.AppointmentRequest) (mail.SendResult, error)
	notifyClientFunc  func(ctx context.Context, req domain.AppointmentRequest) (mail.SendResult, error)
}

func (m *mockBookingServicer) AddToCalendar(ctx context.Context, req domain.AppointmentRequest) (domain.Appointment, error) {
	return m.addToCalendarFunc(ctx, req)
}

func (m *mockBookingServicer) NotifyOwner(ctx context.Context, req domain.AppointmentRequest) (mail.SendResult, error) {
	return m.notifyOwnerFunc(ctx, req)
}

func (m *mockBookingServicer) NotifyClient(ctx context.Context, req domain.AppointmentRequest) (mail.SendResult, error) {
	return m.notifyClientFunc(ctx, req)
}

// mockPoster satisfies wizard.Poster for the wizard session endpoints.
type mockPoster struct {
	calls    int
	lastReq  domain.AppointmentRequest
	postFunc func(ctx context.Context, req domain.AppointmentRequest) error
}

func (m *mockPoster) PostAppointment(ctx context.Context, req domain.AppointmentRequest) error {
	m.calls++
	m.lastReq = req
	if m.postFunc != nil {
		return m.postFunc(ctx, req)
	}
	return nil
}
