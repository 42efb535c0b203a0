package service

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vroomauto/marketplace/internal/domain"
	"github.com/vroomauto/marketplace/internal/mapping"
)

// submission is the fully validated, coerced, and enum-mapped form of a
// ListingDraft, ready for sequential persistence. Optional child records are
// modeled explicitly: a nil Inspection (or nil sub-group inside it) means
// "omit", never "write zeros".
type submission struct {
	CarArgs     pgx.NamedArgs
	Technical   pgx.NamedArgs // nil when no technical field is present
	Inspection  *domain.MechanicalInspection
	Maintenance []domain.MaintenanceEntry
	Photos      []domain.Photo
}

// buildSubmission runs the pure part of the pipeline: required-field
// validation (fail fast, one error naming the first incomplete section),
// numeric coercion through the mapping tables, and UI→backend enum mapping.
// It performs no I/O; a draft that survives it is safe to persist.
func buildSubmission(d domain.ListingDraft) (submission, error) {
	if err := validateDraft(d); err != nil {
		return submission{}, err
	}

	carArgs, err := mapping.Apply(mapping.CarFields, carValues(d))
	if err != nil {
		return submission{}, err
	}

	var technical pgx.NamedArgs
	if anyTechnicalPresent(d.TechnicalDetails) {
		technical, err = mapping.Apply(mapping.TechnicalFields, technicalValues(d.TechnicalDetails))
		if err != nil {
			return submission{}, err
		}
	}

	maintenance, err := buildMaintenance(d.MaintenanceHistory)
	if err != nil {
		return submission{}, err
	}

	photos := make([]domain.Photo, len(d.Photos))
	for i, p := range d.Photos {
		photos[i] = domain.Photo{URL: p.URL, DisplayOrder: i}
	}

	return submission{
		CarArgs:     carArgs,
		Technical:   technical,
		Inspection:  buildInspection(d.MechanicalInspection),
		Maintenance: maintenance,
		Photos:      photos,
	}, nil
}

// validateDraft checks required fields section by section and reports the
// first incomplete section as a single human-readable error.
func validateDraft(d domain.ListingDraft) error {
	sections := []struct {
		name   string
		fields []struct{ field, value string }
	}{
		{"generalInfo", []struct{ field, value string }{
			{"title", d.GeneralInfo.Title},
			{"brand", d.GeneralInfo.Brand},
			{"model", d.GeneralInfo.Model},
			{"year", d.GeneralInfo.Year},
			{"mileage", d.GeneralInfo.Mileage},
			{"status", d.GeneralInfo.Status},
			{"sellerType", d.GeneralInfo.SellerType},
		}},
		{"technicalDetails", []struct{ field, value string }{
			{"fuelType", d.TechnicalDetails.FuelType},
			{"transmission", d.TechnicalDetails.Transmission},
		}},
		{"priceSection", []struct{ field, value string }{
			{"price", d.PriceSection.Price},
		}},
		{"description", []struct{ field, value string }{
			{"description", d.Description},
		}},
	}

	for _, s := range sections {
		for _, f := range s.fields {
			if f.value == "" {
				return fmt.Errorf("%w: section %s is incomplete: %s is required",
					domain.ErrValidation, s.name, f.field)
			}
		}
	}

	if len(d.Photos) == 0 {
		return fmt.Errorf("%w: section photos is incomplete: at least one photo is required", domain.ErrValidation)
	}

	return nil
}

// carValues flattens generalInfo + priceSection + description into the value
// map the CarFields table consumes. Enum-valued fields are translated here so
// everything after this point speaks backend vocabulary.
func carValues(d domain.ListingDraft) map[string]any {
	g, p := d.GeneralInfo, d.PriceSection
	return map[string]any{
		"title":         g.Title,
		"brand":         g.Brand,
		"model":         g.Model,
		"year":          g.Year,
		"mileage":       g.Mileage,
		"trim":          g.Trim,
		"bodyType":      g.BodyType,
		"doors":         g.Doors,
		"seats":         g.Seats,
		"exteriorColor": g.ExteriorColor,
		"interiorColor": g.InteriorColor,
		"status":        mapping.Status.Stored(g.Status),
		"sellerType":    mapping.SellerType.Stored(g.SellerType),
		"city":          g.City,
		"postalCode":    g.PostalCode,
		"price":         p.Price,
		"priceNote":     p.PriceNote,
		"availability":  p.Availability,
		"warranty":      mapping.Warranty(p.Warranty),
		"financing":     p.Financing,
		"tradeIn":       p.TradeIn,
		"firstHand":     p.FirstHand,
		"description":   d.Description,
	}
}

func technicalValues(t domain.TechnicalForm) map[string]any {
	return map[string]any{
		"fuelType":     t.FuelType,
		"fiscalPower":  t.FiscalPower,
		"dinPower":     t.DINPower,
		"displacement": t.Displacement,
		"transmission": t.Transmission,
		"gears":        t.Gears,
		"driveType":    t.DriveType,
		"euroStandard": t.EuroStandard,
		"consumption":  t.Consumption,
		"co2":          t.CO2,
	}
}

func anyTechnicalPresent(t domain.TechnicalForm) bool {
	for _, v := range []string{
		t.FuelType, t.FiscalPower, t.DINPower, t.Displacement, t.Transmission,
		t.Gears, t.DriveType, t.EuroStandard, t.Consumption, t.CO2,
	} {
		if v != "" {
			return true
		}
	}
	return false
}

// buildInspection maps the inspection form to its persisted shape. Each
// sub-group is independently omitted (nil) when every one of its fields is
// empty; the record as a whole is omitted when all six sub-groups are.
func buildInspection(f domain.InspectionForm) *domain.MechanicalInspection {
	insp := domain.MechanicalInspection{
		Tires:        buildTires(f.Tires),
		Brakes:       buildBrakes(f.Brakes),
		Distribution: buildDistribution(f.Distribution),
		Engine:       buildEngine(f.Engine),
		Chassis:      buildChassis(f.Chassis),
		DriveTest:    buildDriveTest(f.DriveTest),
	}
	if insp.Tires == nil && insp.Brakes == nil && insp.Distribution == nil &&
		insp.Engine == nil && insp.Chassis == nil && insp.DriveTest == nil {
		return nil
	}
	return &insp
}

func buildTires(f domain.TiresForm) *domain.TiresReport {
	if allEmpty(
		f.FrontLeft.Brand, f.FrontLeft.Dimensions, f.FrontLeft.DepthMM,
		f.FrontRight.Brand, f.FrontRight.Dimensions, f.FrontRight.DepthMM,
		f.RearLeft.Brand, f.RearLeft.Dimensions, f.RearLeft.DepthMM,
		f.RearRight.Brand, f.RearRight.Dimensions, f.RearRight.DepthMM,
	) {
		return nil
	}
	tire := func(t domain.TireForm) domain.TireReport {
		return domain.TireReport{
			Brand:      t.Brand,
			Dimensions: t.Dimensions,
			DepthMM:    mapping.OptionalFloat(t.DepthMM),
		}
	}
	return &domain.TiresReport{
		FrontLeft:  tire(f.FrontLeft),
		FrontRight: tire(f.FrontRight),
		RearLeft:   tire(f.RearLeft),
		RearRight:  tire(f.RearRight),
	}
}

func buildBrakes(f domain.BrakesForm) *domain.BrakesReport {
	if allEmpty(f.FrontDiscs, f.FrontPads, f.RearDiscs, f.RearPads) {
		return nil
	}
	return &domain.BrakesReport{
		FrontDiscs: f.FrontDiscs,
		FrontPads:  f.FrontPads,
		RearDiscs:  f.RearDiscs,
		RearPads:   f.RearPads,
	}
}

func buildDistribution(f domain.DistributionForm) *domain.DistributionReport {
	if allEmpty(f.Type, f.LastServiceDate, f.LastServiceKm) {
		return nil
	}
	return &domain.DistributionReport{
		Type:            f.Type,
		LastServiceDate: f.LastServiceDate,
		LastServiceKm:   mapping.OptionalInt(f.LastServiceKm),
	}
}

func buildEngine(f domain.EngineForm) *domain.EngineReport {
	if allEmpty(f.OilLeaks, f.CoolantLevel, f.BeltCondition, f.ColdStart) {
		return nil
	}
	return &domain.EngineReport{
		OilLeaks:      f.OilLeaks,
		CoolantLevel:  f.CoolantLevel,
		BeltCondition: f.BeltCondition,
		ColdStart:     f.ColdStart,
	}
}

func buildChassis(f domain.ChassisForm) *domain.ChassisReport {
	if allEmpty(f.Suspension, f.Steering, f.WheelBearings, f.Underbody) {
		return nil
	}
	return &domain.ChassisReport{
		Suspension:    f.Suspension,
		Steering:      f.Steering,
		WheelBearings: f.WheelBearings,
		Underbody:     f.Underbody,
	}
}

func buildDriveTest(f domain.DriveTestForm) *domain.DriveTestReport {
	if allEmpty(f.Acceleration, f.Braking, f.RoadHolding, f.GearShifts) {
		return nil
	}
	return &domain.DriveTestReport{
		Acceleration: f.Acceleration,
		Braking:      f.Braking,
		RoadHolding:  f.RoadHolding,
		GearShifts:   f.GearShifts,
	}
}

// buildMaintenance validates and coerces the history entries. Unlike the
// optional numerics elsewhere, a bad entry is a hard error: each row requires
// a parseable date, numeric kilometers, and a type.
func buildMaintenance(forms []domain.MaintenanceForm) ([]domain.MaintenanceEntry, error) {
	if len(forms) == 0 {
		return nil, nil
	}

	entries := make([]domain.MaintenanceEntry, len(forms))
	for i, f := range forms {
		if f.Date == "" || f.Kilometers == "" || f.Type == "" {
			return nil, fmt.Errorf("%w: maintenance entry %d: date, kilometers, and type are required",
				domain.ErrValidation, i+1)
		}
		date, err := time.Parse("2006-01-02", f.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: maintenance entry %d: invalid date %q",
				domain.ErrValidation, i+1, f.Date)
		}
		km := mapping.OptionalInt(f.Kilometers)
		if km == nil {
			return nil, fmt.Errorf("%w: maintenance entry %d: invalid kilometers %q",
				domain.ErrValidation, i+1, f.Kilometers)
		}
		entries[i] = domain.MaintenanceEntry{
			Date:       date,
			Kilometers: *km,
			Type:       f.Type,
			Location:   f.Location,
		}
	}
	return entries, nil
}

func allEmpty(values ...string) bool {
	for _, v := range values {
		if v != "" {
			return false
		}
	}
	return true
}
