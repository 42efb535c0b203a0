package domain

import (
	"time"

	"github.com/google/uuid"
)

// Car is the persisted listing, read-side. It is a denormalized view: the
// parent row joined with its technical, inspection, maintenance, and photo
// relations. MainPhoto is computed at read time — first photo by display
// order, resolved to a time-limited signed URL.
type Car struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Brand         string     `json:"brand"`
	Model         string     `json:"model"`
	Year          int        `json:"year"`
	Mileage       int        `json:"mileage"`
	Trim          string     `json:"trim,omitempty"`
	BodyType      string     `json:"body_type,omitempty"`
	Doors         *int       `json:"doors,omitempty"`
	Seats         *int       `json:"seats,omitempty"`
	ExteriorColor string     `json:"exterior_color,omitempty"`
	InteriorColor string     `json:"interior_color,omitempty"`
	Status        string     `json:"status"`      // "new" | "used" | "demo"
	SellerType    string     `json:"seller_type"` // "pro" | "individual"
	City          string     `json:"city,omitempty"`
	PostalCode    string     `json:"postal_code,omitempty"`
	Price         int        `json:"price"`
	PriceNote     string     `json:"price_note,omitempty"`
	Availability  string     `json:"availability,omitempty"`
	Warranty      *string    `json:"warranty,omitempty"` // nil when the seller offers none
	Financing     bool       `json:"financing"`
	TradeIn       bool       `json:"trade_in"`
	FirstHand     bool       `json:"first_hand"`
	Description   string     `json:"description"`
	MainPhoto     string     `json:"main_photo,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Technical   *TechnicalDetails     `json:"technical_details,omitempty"`
	Inspection  *MechanicalInspection `json:"mechanical_inspection,omitempty"`
	Maintenance []MaintenanceEntry    `json:"maintenance_history,omitempty"`
	Photos      []Photo               `json:"photos,omitempty"`
}

// TechnicalDetails is the persisted drivetrain record, one per car at most.
// Numeric fields are pointers: an empty form value is stored as NULL, never
// as zero.
type TechnicalDetails struct {
	CarID        uuid.UUID `json:"-"`
	FuelType     string    `json:"fuel_type,omitempty"`
	FiscalPower  *int      `json:"fiscal_power,omitempty"`
	DINPower     *int      `json:"din_power,omitempty"`
	Displacement *int      `json:"displacement,omitempty"`
	Transmission string    `json:"transmission,omitempty"`
	Gears        *int      `json:"gears,omitempty"`
	DriveType    string    `json:"drive_type,omitempty"`
	EuroStandard string    `json:"euro_standard,omitempty"`
	Consumption  *float64  `json:"consumption,omitempty"`
	CO2          *int      `json:"co2,omitempty"`
}

// MechanicalInspection is the persisted inspection record. Each sub-group is
// a pointer: nil means the sub-group was entirely empty in the draft and was
// omitted from the submission.
type MechanicalInspection struct {
	CarID        uuid.UUID           `json:"-"`
	Tires        *TiresReport        `json:"tires,omitempty"`
	Brakes       *BrakesReport       `json:"brakes,omitempty"`
	Distribution *DistributionReport `json:"distribution,omitempty"`
	Engine       *EngineReport       `json:"engine,omitempty"`
	Chassis      *ChassisReport      `json:"chassis,omitempty"`
	DriveTest    *DriveTestReport    `json:"drive_test,omitempty"`
}

type TiresReport struct {
	FrontLeft  TireReport `json:"front_left"`
	FrontRight TireReport `json:"front_right"`
	RearLeft   TireReport `json:"rear_left"`
	RearRight  TireReport `json:"rear_right"`
}

type TireReport struct {
	Brand      string   `json:"brand,omitempty"`
	Dimensions string   `json:"dimensions,omitempty"`
	DepthMM    *float64 `json:"depth_mm,omitempty"`
}

type BrakesReport struct {
	FrontDiscs string `json:"front_discs,omitempty"`
	FrontPads  string `json:"front_pads,omitempty"`
	RearDiscs  string `json:"rear_discs,omitempty"`
	RearPads   string `json:"rear_pads,omitempty"`
}

type DistributionReport struct {
	Type            string `json:"type,omitempty"`
	LastServiceDate string `json:"last_service_date,omitempty"`
	LastServiceKm   *int   `json:"last_service_km,omitempty"`
}

type EngineReport struct {
	OilLeaks      string `json:"oil_leaks,omitempty"`
	CoolantLevel  string `json:"coolant_level,omitempty"`
	BeltCondition string `json:"belt_condition,omitempty"`
	ColdStart     string `json:"cold_start,omitempty"`
}

type ChassisReport struct {
	Suspension    string `json:"suspension,omitempty"`
	Steering      string `json:"steering,omitempty"`
	WheelBearings string `json:"wheel_bearings,omitempty"`
	Underbody     string `json:"underbody,omitempty"`
}

type DriveTestReport struct {
	Acceleration string `json:"acceleration,omitempty"`
	Braking      string `json:"braking,omitempty"`
	RoadHolding  string `json:"road_holding,omitempty"`
	GearShifts   string `json:"gear_shifts,omitempty"`
}

// MaintenanceEntry is one persisted service-history row.
type MaintenanceEntry struct {
	ID         uuid.UUID `json:"id"`
	CarID      uuid.UUID `json:"-"`
	Date       time.Time `json:"date"`
	Kilometers int       `json:"kilometers"`
	Type       string    `json:"type"`
	Location   string    `json:"location,omitempty"`
}

// Photo is one persisted photo row. URL is the raw stored reference — never
// served directly; reads resolve it to a signed URL first.
type Photo struct {
	ID           uuid.UUID `json:"id"`
	CarID        uuid.UUID `json:"-"`
	URL          string    `json:"url"`
	DisplayOrder int       `json:"display_order"`
}

// ListingFilters carries the browse-page filter values to the repo layer.
// Zero values mean "no filter".
type ListingFilters struct {
	Brand    string
	FuelType string
	Status   string
	MaxPrice int
}
