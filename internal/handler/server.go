// Package handler implements the HTTP handlers for the marketplace API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (listing.go, appointment.go, etc.) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vroomauto/marketplace/internal/domain"
	"github.com/vroomauto/marketplace/internal/mail"
	"github.com/vroomauto/marketplace/internal/service"
	"github.com/vroomauto/marketplace/internal/wizard"
)

// ListingServicer defines the business operations the listing handlers
// depend on. Defining the interface here (in the consumer package) follows
// the Go convention: "accept interfaces, return concrete types". It lets
// handler tests inject a mock without touching the database or service layer.
type ListingServicer interface {
	Create(ctx context.Context, draft domain.ListingDraft) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Car, error)
	List(ctx context.Context, f domain.ListingFilters, p domain.PaginationParams) ([]domain.Car, int64, error)
}

// PhotoServicer defines the photo batch upload the photos handler depends on.
type PhotoServicer interface {
	UploadBatch(ctx context.Context, carID uuid.UUID, files []service.UploadFile) ([]domain.PhotoUpload, string)
}

// BookingServicer defines the appointment operations behind the three
// booking endpoints.
type BookingServicer interface {
	AddToCalendar(ctx context.Context, req domain.AppointmentRequest) (domain.Appointment, error)
	NotifyOwner(ctx context.Context, req domain.AppointmentRequest) (mail.SendResult, error)
	NotifyClient(ctx context.Context, req domain.AppointmentRequest) (mail.SendResult, error)
}

// Server implements all API endpoints. Wire it in main.go via Routes().
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	listings ListingServicer
	photos   PhotoServicer
	bookings BookingServicer
	sessions *wizard.Sessions
	poster   wizard.Poster
}

// NewServer constructs the Server with all its dependencies.
// poster is what newly started wizard sessions submit through; in production
// it is the booking service itself.
func NewServer(listings ListingServicer, photos PhotoServicer, bookings BookingServicer, sessions *wizard.Sessions, poster wizard.Poster) *Server {
	return &Server{
		listings: listings,
		photos:   photos,
		bookings: bookings,
		sessions: sessions,
		poster:   poster,
	}
}

// Routes returns the chi router for all API endpoints.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/listings", func(r chi.Router) {
			r.Get("/", s.ListListings)
			r.Post("/", s.CreateListing)
			r.Post("/photos", s.UploadPhotos)
			r.Get("/{id}", s.GetListing)
		})

		r.Route("/appointments", func(r chi.Router) {
			r.Post("/add-to-calendar", s.AddToCalendar)
			r.Post("/notify-owner", s.NotifyOwner)
			r.Post("/notify-client", s.NotifyClient)
		})

		r.Route("/wizard", func(r chi.Router) {
			r.Post("/", s.StartWizard)
			r.Get("/{id}", s.GetWizard)
			r.Patch("/{id}", s.UpdateWizard)
			r.Post("/{id}/next", s.WizardNext)
			r.Post("/{id}/prev", s.WizardPrev)
			r.Post("/{id}/submit", s.WizardSubmit)
			r.Delete("/{id}", s.CloseWizard)
		})
	})

	return r
}
