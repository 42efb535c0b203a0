package repo

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vroomauto/marketplace/internal/domain"
)

// inspectionColumns is the scan target for the flat inspection row.
// toDomain regroups the columns into sub-group structs, reconstructing the
// present/absent distinction: a sub-group whose columns are all NULL was
// omitted at submission and comes back as a nil pointer.
type inspectionColumns struct {
	tireFLBrand, tireFLDim pgtype.Text
	tireFLDepth            *float64
	tireFRBrand, tireFRDim pgtype.Text
	tireFRDepth            *float64
	tireRLBrand, tireRLDim pgtype.Text
	tireRLDepth            *float64
	tireRRBrand, tireRRDim pgtype.Text
	tireRRDepth            *float64

	brakesFrontDiscs, brakesFrontPads pgtype.Text
	brakesRearDiscs, brakesRearPads   pgtype.Text

	distType, distLastDate pgtype.Text
	distLastKm             *int

	engOilLeaks, engCoolant pgtype.Text
	engBelt, engColdStart   pgtype.Text

	chSuspension, chSteering pgtype.Text
	chBearings, chUnderbody  pgtype.Text

	dtAcceleration, dtBraking   pgtype.Text
	dtRoadHolding, dtGearShifts pgtype.Text
}

func (c inspectionColumns) toDomain(carID uuid.UUID) domain.MechanicalInspection {
	insp := domain.MechanicalInspection{CarID: carID}

	tire := func(brand, dim pgtype.Text, depth *float64) domain.TireReport {
		return domain.TireReport{Brand: brand.String, Dimensions: dim.String, DepthMM: depth}
	}
	if anyText(c.tireFLBrand, c.tireFLDim, c.tireFRBrand, c.tireFRDim,
		c.tireRLBrand, c.tireRLDim, c.tireRRBrand, c.tireRRDim) ||
		c.tireFLDepth != nil || c.tireFRDepth != nil || c.tireRLDepth != nil || c.tireRRDepth != nil {
		insp.Tires = &domain.TiresReport{
			FrontLeft:  tire(c.tireFLBrand, c.tireFLDim, c.tireFLDepth),
			FrontRight: tire(c.tireFRBrand, c.tireFRDim, c.tireFRDepth),
			RearLeft:   tire(c.tireRLBrand, c.tireRLDim, c.tireRLDepth),
			RearRight:  tire(c.tireRRBrand, c.tireRRDim, c.tireRRDepth),
		}
	}

	if anyText(c.brakesFrontDiscs, c.brakesFrontPads, c.brakesRearDiscs, c.brakesRearPads) {
		insp.Brakes = &domain.BrakesReport{
			FrontDiscs: c.brakesFrontDiscs.String,
			FrontPads:  c.brakesFrontPads.String,
			RearDiscs:  c.brakesRearDiscs.String,
			RearPads:   c.brakesRearPads.String,
		}
	}

	if anyText(c.distType, c.distLastDate) || c.distLastKm != nil {
		insp.Distribution = &domain.DistributionReport{
			Type:            c.distType.String,
			LastServiceDate: c.distLastDate.String,
			LastServiceKm:   c.distLastKm,
		}
	}

	if anyText(c.engOilLeaks, c.engCoolant, c.engBelt, c.engColdStart) {
		insp.Engine = &domain.EngineReport{
			OilLeaks:      c.engOilLeaks.String,
			CoolantLevel:  c.engCoolant.String,
			BeltCondition: c.engBelt.String,
			ColdStart:     c.engColdStart.String,
		}
	}

	if anyText(c.chSuspension, c.chSteering, c.chBearings, c.chUnderbody) {
		insp.Chassis = &domain.ChassisReport{
			Suspension:    c.chSuspension.String,
			Steering:      c.chSteering.String,
			WheelBearings: c.chBearings.String,
			Underbody:     c.chUnderbody.String,
		}
	}

	if anyText(c.dtAcceleration, c.dtBraking, c.dtRoadHolding, c.dtGearShifts) {
		insp.DriveTest = &domain.DriveTestReport{
			Acceleration: c.dtAcceleration.String,
			Braking:      c.dtBraking.String,
			RoadHolding:  c.dtRoadHolding.String,
			GearShifts:   c.dtGearShifts.String,
		}
	}

	return insp
}

func anyText(ts ...pgtype.Text) bool {
	for _, t := range ts {
		if t.Valid && t.String != "" {
			return true
		}
	}
	return false
}
