package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification kinds produced by the hiring workflow.
const (
	NotifyHiringApproved      = "hiring_approved"
	NotifyHiringRejected      = "hiring_rejected"
	NotifyApplicationWon      = "application_won"
	NotifyApplicationRejected = "application_rejected"
)

// Outbox event delivery states.
const (
	OutboxStatusPending = "pending"
	OutboxStatusSent    = "sent"
	OutboxStatusFailed  = "failed"
)

// OutboxEvent is a durable "notification to deliver" record. The state
// transition that produced it has already committed; delivery is
// at-least-once and never rolls the transition back.
type OutboxEvent struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Kind        string             `bson:"kind" json:"kind"`
	RecipientID primitive.ObjectID `bson:"recipient_id" json:"recipientId"`
	HiringID    primitive.ObjectID `bson:"hiring_id" json:"hiringId"`
	VehicleID   primitive.ObjectID `bson:"vehicle_id" json:"vehicleId"`
	Payload     map[string]string  `bson:"payload" json:"payload"`
	Status      string             `bson:"status" json:"status"`
	Attempts    int                `bson:"attempts" json:"attempts"`
	LastError   string             `bson:"last_error,omitempty" json:"lastError,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}
