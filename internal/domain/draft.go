// Package domain contains the core data types for the marketplace API.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import "github.com/google/uuid"

// ListingDraft is the composite listing-creation payload exactly as the seller
// form collects it: every scalar is a string because it arrives as a raw form
// value. Validation, numeric coercion, and enum mapping happen in the listing
// service, not here.
//
// CarID is a client-generated UUID minted once per draft. It namespaces photo
// uploads before the listing row exists; the database generates the persisted
// listing ID at submission time.
type ListingDraft struct {
	CarID                uuid.UUID          `json:"carId"`
	GeneralInfo          GeneralInfoForm    `json:"generalInfo"`
	TechnicalDetails     TechnicalForm      `json:"technicalDetails"`
	PriceSection         PriceForm          `json:"priceSection"`
	Description          string             `json:"description"`
	Photos               []PhotoUpload      `json:"photos"`
	MechanicalInspection InspectionForm     `json:"mechanicalInspection"`
	MaintenanceHistory   []MaintenanceForm  `json:"maintenanceHistory"`
}

// GeneralInfoForm is the first form section: identity and body of the car.
type GeneralInfoForm struct {
	Title         string `json:"title"`
	Brand         string `json:"brand"`
	Model         string `json:"model"`
	Year          string `json:"year"`
	Mileage       string `json:"mileage"`
	Trim          string `json:"trim"`
	BodyType      string `json:"bodyType"`
	Doors         string `json:"doors"`
	Seats         string `json:"seats"`
	ExteriorColor string `json:"exteriorColor"`
	InteriorColor string `json:"interiorColor"`
	Status        string `json:"status"`     // UI values: "Neuf", "Occasion", anything else means demo
	SellerType    string `json:"sellerType"` // UI values: "Professionnel", anything else means individual
	City          string `json:"city"`
	PostalCode    string `json:"postalCode"`
}

// TechnicalForm is the drivetrain/engine form section.
type TechnicalForm struct {
	FuelType     string `json:"fuelType"`
	FiscalPower  string `json:"fiscalPower"`
	DINPower     string `json:"dinPower"`
	Displacement string `json:"displacement"`
	Transmission string `json:"transmission"`
	Gears        string `json:"gears"`
	DriveType    string `json:"driveType"`
	EuroStandard string `json:"euroStandard"`
	Consumption  string `json:"consumption"`
	CO2          string `json:"co2"`
}

// PriceForm is the price-and-terms form section.
// Warranty carries the UI value "Aucune" when the seller offers none; that
// value is stored as absent, never as a literal string.
type PriceForm struct {
	Price        string `json:"price"`
	PriceNote    string `json:"priceNote"`
	Availability string `json:"availability"`
	Warranty     string `json:"warranty"`
	Financing    bool   `json:"financing"`
	TradeIn      bool   `json:"tradeIn"`
	FirstHand    bool   `json:"firstHand"`
}

// PhotoUpload is one already-uploaded photo in the draft, in upload order.
type PhotoUpload struct {
	URL   string `json:"url"`
	Order int    `json:"order"`
}

// InspectionForm holds the six mechanical-inspection sub-groups.
// Each sub-group is independently omitted from the submitted payload when
// every one of its fields is an empty string.
type InspectionForm struct {
	Tires        TiresForm        `json:"tires"`
	Brakes       BrakesForm       `json:"brakes"`
	Distribution DistributionForm `json:"distribution"`
	Engine       EngineForm       `json:"engine"`
	Chassis      ChassisForm      `json:"chassis"`
	DriveTest    DriveTestForm    `json:"driveTest"`
}

// TiresForm covers the four wheel positions.
type TiresForm struct {
	FrontLeft  TireForm `json:"frontLeft"`
	FrontRight TireForm `json:"frontRight"`
	RearLeft   TireForm `json:"rearLeft"`
	RearRight  TireForm `json:"rearRight"`
}

// TireForm describes one tire. DepthMM is a numeric-looking string (e.g. "6.5").
type TireForm struct {
	Brand      string `json:"brand"`
	Dimensions string `json:"dimensions"`
	DepthMM    string `json:"depthMm"`
}

type BrakesForm struct {
	FrontDiscs string `json:"frontDiscs"`
	FrontPads  string `json:"frontPads"`
	RearDiscs  string `json:"rearDiscs"`
	RearPads   string `json:"rearPads"`
}

type DistributionForm struct {
	Type            string `json:"type"`
	LastServiceDate string `json:"lastServiceDate"`
	LastServiceKm   string `json:"lastServiceKm"`
}

type EngineForm struct {
	OilLeaks      string `json:"oilLeaks"`
	CoolantLevel  string `json:"coolantLevel"`
	BeltCondition string `json:"beltCondition"`
	ColdStart     string `json:"coldStart"`
}

type ChassisForm struct {
	Suspension    string `json:"suspension"`
	Steering      string `json:"steering"`
	WheelBearings string `json:"wheelBearings"`
	Underbody     string `json:"underbody"`
}

type DriveTestForm struct {
	Acceleration string `json:"acceleration"`
	Braking      string `json:"braking"`
	RoadHolding  string `json:"roadHolding"`
	GearShifts   string `json:"gearShifts"`
}

// MaintenanceForm is one service-history entry as entered in the form.
// Date, Kilometers, and Type are required; Kilometers must parse as a number.
type MaintenanceForm struct {
	Date       string `json:"date"`
	Kilometers string `json:"kilometers"`
	Type       string `json:"type"`
	Location   string `json:"location"`
}
