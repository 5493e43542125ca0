package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role values understood by the auth middleware.
const (
	RoleCustomer = "customer"
	RoleDriver   = "driver"
	RoleAdmin    = "admin"
)

// KYC status values. KYC itself is computed by the external identity
// service; this backend only reads the result.
const (
	KYCStatusPending  = "pending"
	KYCStatusApproved = "approved"
	KYCStatusRejected = "rejected"
)

// HasDriver answers for a vehicle owner. "no" means the owner will not
// drive personally and may post a hiring request.
const (
	HasDriverUnset = ""
	HasDriverYes   = "yes"
	HasDriverNo    = "no"
)

type User struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Username         string              `bson:"username" json:"username" validate:"required,min=3,max=50"`
	Email            string              `bson:"email" json:"email" validate:"required,email"`
	FirstName        string              `bson:"first_name" json:"firstName"`
	LastName         string              `bson:"last_name" json:"lastName"`
	Password         string              `bson:"password" json:"-"`
	Role             string              `bson:"role" json:"role" validate:"required,oneof=customer driver admin"`
	KYCLevel         int                 `bson:"kyc_level" json:"kycLevel"`
	KYCStatus        string              `bson:"kyc_status" json:"kycStatus"`
	HasVehicle       bool                `bson:"has_vehicle" json:"hasVehicle"`
	HasDriver        string              `bson:"has_driver" json:"hasDriver"`
	PendingVehicleID *primitive.ObjectID `bson:"pending_vehicle_id,omitempty" json:"pendingVehicleId,omitempty"`
	DriverVehicleIDs []primitive.ObjectID `bson:"driver_vehicle_ids" json:"driverVehicleIds"`
	LastLogin        *time.Time          `bson:"last_login,omitempty" json:"lastLogin,omitempty"`
	CreatedAt        time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time           `bson:"updated_at" json:"updatedAt"`
}

// AuthUser is the sanitized identity returned alongside tokens.
type AuthUser struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	KYCLevel  int    `json:"kycLevel"`
	KYCStatus string `json:"kycStatus"`
}

// CanRegisterVehicle reports whether the identity gate allows this user
// to register a vehicle.
func (u *User) CanRegisterVehicle() bool {
	return u.KYCLevel >= 1 && u.KYCStatus == KYCStatusApproved && u.HasVehicle
}

// CanApplyAsDriver reports whether the identity gate allows this user to
// apply on a hiring post.
func (u *User) CanApplyAsDriver() bool {
	return u.Role == RoleDriver && u.KYCLevel >= 2 && u.KYCStatus == KYCStatusApproved && !u.HasVehicle
}
