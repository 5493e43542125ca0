package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hiring post approval flag. Pending posts may only move to approved or
// rejected, both terminal for the flag.
const (
	HiringStatusPending  = "pending"
	HiringStatusApproved = "approved"
	HiringStatusRejected = "rejected"
)

// Application status on a hiring post.
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusAccepted = "accepted"
	ApplicationStatusRejected = "rejected"
)

// Engagement types an owner may offer.
const (
	EngagementMonthly    = "monthly"
	EngagementWeekly     = "weekly"
	EngagementCommission = "commission"
)

// HiringTerms are the commercial terms of a post.
type HiringTerms struct {
	EngagementType   string  `bson:"engagement_type" json:"engagementType"`
	Salary           float64 `bson:"salary" json:"salary"`
	DurationMonths   int     `bson:"duration_months" json:"durationMonths"`
	MaintenanceSplit string  `bson:"maintenance_split" json:"maintenanceSplit"`
	StartDate        string  `bson:"start_date" json:"startDate"`
	Shift            string  `bson:"shift" json:"shift"`
}

// Application is a driver's bid on a hiring post. It is owned by the
// post document; the driver is only referenced.
type Application struct {
	DriverID  primitive.ObjectID `bson:"driver_id" json:"driverId"`
	Proposal  string             `bson:"proposal" json:"proposal"`
	Status    string             `bson:"status" json:"status"`
	AppliedAt time.Time          `bson:"applied_at" json:"appliedAt"`
}

type DriverHiring struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OwnerID          primitive.ObjectID  `bson:"owner_id" json:"ownerId"`
	VehicleID        primitive.ObjectID  `bson:"vehicle_id" json:"vehicleId"`
	VehicleType      string              `bson:"vehicle_type" json:"vehicleType"`
	Terms            HiringTerms         `bson:"terms" json:"terms"`
	Documents        VehicleDocuments    `bson:"documents" json:"documents"`
	Images           []string            `bson:"images" json:"images"`
	Status           string              `bson:"status" json:"status"`
	AdminComment     string              `bson:"admin_comment" json:"adminComment"`
	Applications     []Application       `bson:"applications" json:"applications"`
	SelectedDriverID *primitive.ObjectID `bson:"selected_driver_id,omitempty" json:"selectedDriverId,omitempty"`
	CreatedAt        time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time           `bson:"updated_at" json:"updatedAt"`
}

// ApplicationFor returns the application submitted by the given driver,
// or nil if none exists.
func (h *DriverHiring) ApplicationFor(driverID primitive.ObjectID) *Application {
	for i := range h.Applications {
		if h.Applications[i].DriverID == driverID {
			return &h.Applications[i]
		}
	}
	return nil
}

// AcceptedCount counts applications with status accepted. With the
// selection invariant intact this is always 0 or 1.
func (h *DriverHiring) AcceptedCount() int {
	n := 0
	for _, a := range h.Applications {
		if a.Status == ApplicationStatusAccepted {
			n++
		}
	}
	return n
}
