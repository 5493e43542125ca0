package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VehicleDocuments holds the four mandatory verification documents.
// Values are opaque storage references; upload mechanics live elsewhere.
type VehicleDocuments struct {
	RegistrationCardFront string `bson:"registration_card_front" json:"registrationCardFront" validate:"required"`
	RegistrationCardBack  string `bson:"registration_card_back" json:"registrationCardBack" validate:"required"`
	RoadAuthorityCert     string `bson:"road_authority_cert" json:"roadAuthorityCert" validate:"required"`
	InsuranceCert         string `bson:"insurance_cert" json:"insuranceCert" validate:"required"`
}

type Vehicle struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID      primitive.ObjectID `bson:"owner_id" json:"ownerId"`
	Documents    VehicleDocuments   `bson:"documents" json:"documents"`
	Images       []string           `bson:"images" json:"images"`
	PlateNumber  string             `bson:"plate_number" json:"plateNumber"`
	Make         string             `bson:"make" json:"make"`
	Model        string             `bson:"model" json:"model"`
	Color        string             `bson:"color" json:"color"`
	ServiceType  string             `bson:"service_type" json:"serviceType"`
	VehicleType  string             `bson:"vehicle_type" json:"vehicleType"`
	WheelchairAccessible bool       `bson:"wheelchair_accessible" json:"wheelchairAccessible"`
	PackingHelper        bool       `bson:"packing_helper" json:"packingHelper"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// HasAllDocuments reports whether every mandatory document slot is set.
func (d VehicleDocuments) HasAllDocuments() bool {
	return d.RegistrationCardFront != "" && d.RegistrationCardBack != "" &&
		d.RoadAuthorityCert != "" && d.InsuranceCert != ""
}
