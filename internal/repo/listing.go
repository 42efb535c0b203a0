// Package repo contains all database access logic for the marketplace API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vroomauto/marketplace/internal/domain"
	"github.com/vroomauto/marketplace/internal/mapping"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// The insert statements for the two flat records are composed from the
// mapping tables so the column list can never drift from the field mapping.
var (
	carInsertSQL = fmt.Sprintf(
		`INSERT INTO cars (%s) VALUES (%s) RETURNING id`,
		strings.Join(mapping.Columns(mapping.CarFields), ", "),
		strings.Join(mapping.Placeholders(mapping.CarFields), ", "),
	)
	technicalInsertSQL = fmt.Sprintf(
		`INSERT INTO car_technical_details (car_id, %s) VALUES (@car_id, %s)`,
		strings.Join(mapping.Columns(mapping.TechnicalFields), ", "),
		strings.Join(mapping.Placeholders(mapping.TechnicalFields), ", "),
	)
)

// ListingRepo defines the persistence operations for car listings and their
// child records. The service layer depends on this interface, not the
// concrete Postgres implementation, which allows the submission pipeline to
// be unit-tested with a mock.
//
// The Create* methods are not wrapped in a transaction by the implementation:
// the submission pipeline writes sequentially and a mid-sequence failure
// leaves earlier rows in place (see the listing service).
type ListingRepo interface {
	// CreateCar inserts the parent listing row from column-keyed args
	// produced by mapping.Apply and returns the generated listing ID.
	CreateCar(ctx context.Context, args pgx.NamedArgs) (uuid.UUID, error)

	// CreateTechnicalDetails inserts the 0..1 technical child row.
	CreateTechnicalDetails(ctx context.Context, carID uuid.UUID, args pgx.NamedArgs) error

	// CreateInspection inserts the 0..1 mechanical-inspection child row.
	// Nil sub-groups are stored as NULL columns.
	CreateInspection(ctx context.Context, insp domain.MechanicalInspection) error

	// CreateMaintenanceEntries inserts all service-history rows for a car.
	CreateMaintenanceEntries(ctx context.Context, carID uuid.UUID, entries []domain.MaintenanceEntry) error

	// CreatePhotos inserts all photo rows for a car, preserving display order.
	CreatePhotos(ctx context.Context, carID uuid.UUID, photos []domain.Photo) error

	// GetByID retrieves the denormalized listing: parent row joined with all
	// child relations. Returns domain.ErrNotFound if no listing exists.
	// MainPhoto holds the raw stored reference of the first photo; signed-URL
	// resolution is the read service's concern.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Car, error)

	// List returns one page of listings matching the filters, newest first,
	// plus the total match count. Child relations are not loaded; MainPhoto
	// carries the raw stored reference of each listing's first photo.
	List(ctx context.Context, f domain.ListingFilters, p domain.PaginationParams) ([]domain.Car, int64, error)
}

// pgListingRepo is the Postgres implementation of ListingRepo.
type pgListingRepo struct {
	db db
}

// NewListingRepo constructs a ListingRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewListingRepo(db db) ListingRepo {
	return &pgListingRepo{db: db}
}

func (r *pgListingRepo) CreateCar(ctx context.Context, args pgx.NamedArgs) (uuid.UUID, error) {
	var id pgtype.UUID
	if err := r.db.QueryRow(ctx, carInsertSQL, args).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("repo.ListingRepo.CreateCar: %w", err)
	}
	return uuid.UUID(id.Bytes), nil
}

func (r *pgListingRepo) CreateTechnicalDetails(ctx context.Context, carID uuid.UUID, args pgx.NamedArgs) error {
	withID := pgx.NamedArgs{"car_id": carID}
	for k, v := range args {
		withID[k] = v
	}
	if _, err := r.db.Exec(ctx, technicalInsertSQL, withID); err != nil {
		return fmt.Errorf("repo.ListingRepo.CreateTechnicalDetails: %w", err)
	}
	return nil
}

func (r *pgListingRepo) CreateInspection(ctx context.Context, insp domain.MechanicalInspection) error {
	const q = `
		INSERT INTO car_mechanical_inspections (
			car_id,
			tire_fl_brand, tire_fl_dimensions, tire_fl_depth_mm,
			tire_fr_brand, tire_fr_dimensions, tire_fr_depth_mm,
			tire_rl_brand, tire_rl_dimensions, tire_rl_depth_mm,
			tire_rr_brand, tire_rr_dimensions, tire_rr_depth_mm,
			brakes_front_discs, brakes_front_pads, brakes_rear_discs, brakes_rear_pads,
			distribution_type, distribution_last_service_date, distribution_last_service_km,
			engine_oil_leaks, engine_coolant_level, engine_belt_condition, engine_cold_start,
			chassis_suspension, chassis_steering, chassis_wheel_bearings, chassis_underbody,
			drive_test_acceleration, drive_test_braking, drive_test_road_holding, drive_test_gear_shifts
		) VALUES (
			@car_id,
			@tire_fl_brand, @tire_fl_dimensions, @tire_fl_depth_mm,
			@tire_fr_brand, @tire_fr_dimensions, @tire_fr_depth_mm,
			@tire_rl_brand, @tire_rl_dimensions, @tire_rl_depth_mm,
			@tire_rr_brand, @tire_rr_dimensions, @tire_rr_depth_mm,
			@brakes_front_discs, @brakes_front_pads, @brakes_rear_discs, @brakes_rear_pads,
			@distribution_type, @distribution_last_service_date, @distribution_last_service_km,
			@engine_oil_leaks, @engine_coolant_level, @engine_belt_condition, @engine_cold_start,
			@chassis_suspension, @chassis_steering, @chassis_wheel_bearings, @chassis_underbody,
			@drive_test_acceleration, @drive_test_braking, @drive_test_road_holding, @drive_test_gear_shifts
		)`

	args := pgx.NamedArgs{"car_id": insp.CarID}
	setTire := func(prefix string, t *domain.TireReport) {
		if t == nil {
			args[prefix+"_brand"], args[prefix+"_dimensions"], args[prefix+"_depth_mm"] = nil, nil, nil
			return
		}
		args[prefix+"_brand"] = nullable(t.Brand)
		args[prefix+"_dimensions"] = nullable(t.Dimensions)
		args[prefix+"_depth_mm"] = t.DepthMM
	}
	if insp.Tires != nil {
		setTire("tire_fl", &insp.Tires.FrontLeft)
		setTire("tire_fr", &insp.Tires.FrontRight)
		setTire("tire_rl", &insp.Tires.RearLeft)
		setTire("tire_rr", &insp.Tires.RearRight)
	} else {
		setTire("tire_fl", nil)
		setTire("tire_fr", nil)
		setTire("tire_rl", nil)
		setTire("tire_rr", nil)
	}

	if b := insp.Brakes; b != nil {
		args["brakes_front_discs"] = nullable(b.FrontDiscs)
		args["brakes_front_pads"] = nullable(b.FrontPads)
		args["brakes_rear_discs"] = nullable(b.RearDiscs)
		args["brakes_rear_pads"] = nullable(b.RearPads)
	} else {
		args["brakes_front_discs"], args["brakes_front_pads"] = nil, nil
		args["brakes_rear_discs"], args["brakes_rear_pads"] = nil, nil
	}

	if d := insp.Distribution; d != nil {
		args["distribution_type"] = nullable(d.Type)
		args["distribution_last_service_date"] = nullable(d.LastServiceDate)
		args["distribution_last_service_km"] = d.LastServiceKm
	} else {
		args["distribution_type"], args["distribution_last_service_date"], args["distribution_last_service_km"] = nil, nil, nil
	}

	if e := insp.Engine; e != nil {
		args["engine_oil_leaks"] = nullable(e.OilLeaks)
		args["engine_coolant_level"] = nullable(e.CoolantLevel)
		args["engine_belt_condition"] = nullable(e.BeltCondition)
		args["engine_cold_start"] = nullable(e.ColdStart)
	} else {
		args["engine_oil_leaks"], args["engine_coolant_level"] = nil, nil
		args["engine_belt_condition"], args["engine_cold_start"] = nil, nil
	}

	if c := insp.Chassis; c != nil {
		args["chassis_suspension"] = nullable(c.Suspension)
		args["chassis_steering"] = nullable(c.Steering)
		args["chassis_wheel_bearings"] = nullable(c.WheelBearings)
		args["chassis_underbody"] = nullable(c.Underbody)
	} else {
		args["chassis_suspension"], args["chassis_steering"] = nil, nil
		args["chassis_wheel_bearings"], args["chassis_underbody"] = nil, nil
	}

	if t := insp.DriveTest; t != nil {
		args["drive_test_acceleration"] = nullable(t.Acceleration)
		args["drive_test_braking"] = nullable(t.Braking)
		args["drive_test_road_holding"] = nullable(t.RoadHolding)
		args["drive_test_gear_shifts"] = nullable(t.GearShifts)
	} else {
		args["drive_test_acceleration"], args["drive_test_braking"] = nil, nil
		args["drive_test_road_holding"], args["drive_test_gear_shifts"] = nil, nil
	}

	if _, err := r.db.Exec(ctx, q, args); err != nil {
		return fmt.Errorf("repo.ListingRepo.CreateInspection: %w", err)
	}
	return nil
}

func (r *pgListingRepo) CreateMaintenanceEntries(ctx context.Context, carID uuid.UUID, entries []domain.MaintenanceEntry) error {
	const q = `
		INSERT INTO car_maintenance_history (car_id, service_date, kilometers, service_type, location)
		VALUES (@car_id, @service_date, @kilometers, @service_type, @location)`

	for _, e := range entries {
		args := pgx.NamedArgs{
			"car_id":       carID,
			"service_date": e.Date,
			"kilometers":   e.Kilometers,
			"service_type": e.Type,
			"location":     nullable(e.Location),
		}
		if _, err := r.db.Exec(ctx, q, args); err != nil {
			return fmt.Errorf("repo.ListingRepo.CreateMaintenanceEntries: %w", err)
		}
	}
	return nil
}

func (r *pgListingRepo) CreatePhotos(ctx context.Context, carID uuid.UUID, photos []domain.Photo) error {
	const q = `
		INSERT INTO car_photos (car_id, url, display_order)
		VALUES (@car_id, @url, @display_order)`

	for _, p := range photos {
		args := pgx.NamedArgs{
			"car_id":        carID,
			"url":           p.URL,
			"display_order": p.DisplayOrder,
		}
		if _, err := r.db.Exec(ctx, q, args); err != nil {
			return fmt.Errorf("repo.ListingRepo.CreatePhotos: %w", err)
		}
	}
	return nil
}

// carColumns is the select list shared by GetByID and List.
const carColumns = `
	c.id, c.title, c.brand, c.model, c.year, c.mileage, c.trim, c.body_type,
	c.doors, c.seats, c.exterior_color, c.interior_color, c.status,
	c.seller_type, c.city, c.postal_code, c.price, c.price_note,
	c.availability, c.warranty, c.financing, c.trade_in, c.first_hand,
	c.description, c.created_at, c.updated_at,
	COALESCE((SELECT p.url FROM car_photos p WHERE p.car_id = c.id ORDER BY p.display_order LIMIT 1), '')`

func (r *pgListingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Car, error) {
	q := `SELECT ` + carColumns + ` FROM cars c WHERE c.id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	car, err := scanCar(row)
	if err != nil {
		return domain.Car{}, fmt.Errorf("repo.ListingRepo.GetByID: %w", err)
	}

	if car.Technical, err = r.technicalByCar(ctx, id); err != nil {
		return domain.Car{}, fmt.Errorf("repo.ListingRepo.GetByID: %w", err)
	}
	if car.Inspection, err = r.inspectionByCar(ctx, id); err != nil {
		return domain.Car{}, fmt.Errorf("repo.ListingRepo.GetByID: %w", err)
	}
	if car.Maintenance, err = r.maintenanceByCar(ctx, id); err != nil {
		return domain.Car{}, fmt.Errorf("repo.ListingRepo.GetByID: %w", err)
	}
	if car.Photos, err = r.photosByCar(ctx, id); err != nil {
		return domain.Car{}, fmt.Errorf("repo.ListingRepo.GetByID: %w", err)
	}

	return car, nil
}

func (r *pgListingRepo) List(ctx context.Context, f domain.ListingFilters, p domain.PaginationParams) ([]domain.Car, int64, error) {
	where, args := listingFilterClause(f)

	var total int64
	countQ := `SELECT count(*) FROM cars c` + where
	if err := r.db.QueryRow(ctx, countQ, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.ListingRepo.List: count: %w", err)
	}

	args["limit"] = p.Limit
	args["offset"] = p.Offset()
	q := `SELECT ` + carColumns + ` FROM cars c` + where +
		` ORDER BY c.created_at DESC LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ListingRepo.List: %w", err)
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.ListingRepo.List: scan: %w", err)
		}
		cars = append(cars, car)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.ListingRepo.List: rows: %w", err)
	}

	return cars, total, nil
}

// listingFilterClause builds the WHERE clause for List. The fuel-type filter
// reaches into the technical-details child via EXISTS.
func listingFilterClause(f domain.ListingFilters) (string, pgx.NamedArgs) {
	var conds []string
	args := pgx.NamedArgs{}

	if f.Brand != "" {
		conds = append(conds, "c.brand ILIKE @brand")
		args["brand"] = f.Brand
	}
	if f.Status != "" {
		conds = append(conds, "c.status = @status")
		args["status"] = f.Status
	}
	if f.MaxPrice > 0 {
		conds = append(conds, "c.price <= @max_price")
		args["max_price"] = f.MaxPrice
	}
	if f.FuelType != "" {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM car_technical_details t
			WHERE t.car_id = c.id AND t.fuel_type ILIKE @fuel_type)`)
		args["fuel_type"] = f.FuelType
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *pgListingRepo) technicalByCar(ctx context.Context, carID uuid.UUID) (*domain.TechnicalDetails, error) {
	const q = `
		SELECT fuel_type, fiscal_power, din_power, displacement, transmission,
		       gears, drive_type, euro_standard, consumption, co2
		FROM car_technical_details
		WHERE car_id = @car_id`

	var (
		t                       domain.TechnicalDetails
		fuelType, transmission  pgtype.Text
		driveType, euroStandard pgtype.Text
	)
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"car_id": carID}).Scan(
		&fuelType, &t.FiscalPower, &t.DINPower, &t.Displacement, &transmission,
		&t.Gears, &driveType, &euroStandard, &t.Consumption, &t.CO2,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	t.CarID = carID
	t.FuelType = fuelType.String
	t.Transmission = transmission.String
	t.DriveType = driveType.String
	t.EuroStandard = euroStandard.String
	return &t, nil
}

func (r *pgListingRepo) inspectionByCar(ctx context.Context, carID uuid.UUID) (*domain.MechanicalInspection, error) {
	const q = `
		SELECT
			tire_fl_brand, tire_fl_dimensions, tire_fl_depth_mm,
			tire_fr_brand, tire_fr_dimensions, tire_fr_depth_mm,
			tire_rl_brand, tire_rl_dimensions, tire_rl_depth_mm,
			tire_rr_brand, tire_rr_dimensions, tire_rr_depth_mm,
			brakes_front_discs, brakes_front_pads, brakes_rear_discs, brakes_rear_pads,
			distribution_type, distribution_last_service_date, distribution_last_service_km,
			engine_oil_leaks, engine_coolant_level, engine_belt_condition, engine_cold_start,
			chassis_suspension, chassis_steering, chassis_wheel_bearings, chassis_underbody,
			drive_test_acceleration, drive_test_braking, drive_test_road_holding, drive_test_gear_shifts
		FROM car_mechanical_inspections
		WHERE car_id = @car_id`

	var c inspectionColumns
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"car_id": carID}).Scan(
		&c.tireFLBrand, &c.tireFLDim, &c.tireFLDepth,
		&c.tireFRBrand, &c.tireFRDim, &c.tireFRDepth,
		&c.tireRLBrand, &c.tireRLDim, &c.tireRLDepth,
		&c.tireRRBrand, &c.tireRRDim, &c.tireRRDepth,
		&c.brakesFrontDiscs, &c.brakesFrontPads, &c.brakesRearDiscs, &c.brakesRearPads,
		&c.distType, &c.distLastDate, &c.distLastKm,
		&c.engOilLeaks, &c.engCoolant, &c.engBelt, &c.engColdStart,
		&c.chSuspension, &c.chSteering, &c.chBearings, &c.chUnderbody,
		&c.dtAcceleration, &c.dtBraking, &c.dtRoadHolding, &c.dtGearShifts,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	insp := c.toDomain(carID)
	return &insp, nil
}

func (r *pgListingRepo) maintenanceByCar(ctx context.Context, carID uuid.UUID) ([]domain.MaintenanceEntry, error) {
	const q = `
		SELECT id, service_date, kilometers, service_type, location
		FROM car_maintenance_history
		WHERE car_id = @car_id
		ORDER BY service_date`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"car_id": carID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.MaintenanceEntry
	for rows.Next() {
		var (
			e        domain.MaintenanceEntry
			id       pgtype.UUID
			date     pgtype.Date
			location pgtype.Text
		)
		if err := rows.Scan(&id, &date, &e.Kilometers, &e.Type, &location); err != nil {
			return nil, err
		}
		e.ID = uuid.UUID(id.Bytes)
		e.CarID = carID
		e.Date = date.Time
		e.Location = location.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *pgListingRepo) photosByCar(ctx context.Context, carID uuid.UUID) ([]domain.Photo, error) {
	const q = `
		SELECT id, url, display_order
		FROM car_photos
		WHERE car_id = @car_id
		ORDER BY display_order`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"car_id": carID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []domain.Photo
	for rows.Next() {
		var (
			p  domain.Photo
			id pgtype.UUID
		)
		if err := rows.Scan(&id, &p.URL, &p.DisplayOrder); err != nil {
			return nil, err
		}
		p.ID = uuid.UUID(id.Bytes)
		p.CarID = carID
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanCar to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanCar maps one row of the carColumns select list into a domain.Car.
func scanCar(s scanner) (domain.Car, error) {
	var (
		car                     domain.Car
		id                      pgtype.UUID
		trim, bodyType          pgtype.Text
		extColor, intColor      pgtype.Text
		city, postalCode        pgtype.Text
		priceNote, availability pgtype.Text
		warranty                pgtype.Text
	)

	err := s.Scan(
		&id, &car.Title, &car.Brand, &car.Model, &car.Year, &car.Mileage,
		&trim, &bodyType, &car.Doors, &car.Seats, &extColor, &intColor,
		&car.Status, &car.SellerType, &city, &postalCode, &car.Price,
		&priceNote, &availability, &warranty, &car.Financing, &car.TradeIn,
		&car.FirstHand, &car.Description, &car.CreatedAt, &car.UpdatedAt,
		&car.MainPhoto,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Car{}, domain.ErrNotFound
		}
		return domain.Car{}, err
	}

	car.ID = uuid.UUID(id.Bytes)
	car.Trim = trim.String
	car.BodyType = bodyType.String
	car.ExteriorColor = extColor.String
	car.InteriorColor = intColor.String
	car.City = city.String
	car.PostalCode = postalCode.String
	car.PriceNote = priceNote.String
	car.Availability = availability.String
	if warranty.Valid {
		w := warranty.String
		car.Warranty = &w
	}

	return car, nil
}

// nullable maps an empty string to nil so it is stored as SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
