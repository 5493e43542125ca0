package services

import (
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/models"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Narrow store interfaces satisfied by the mongo repositories. Services
// accept these so the workflow logic tests against in-memory fakes with
// the same atomicity contract.

type UserStore interface {
	Create(user *models.User) (*models.User, error)
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	SetHasDriver(id string, hasDriver string) error
	SetPendingVehicle(id string, vehicleID primitive.ObjectID) error
	ClearPendingVehicle(id string, vehicleID primitive.ObjectID) error
	AddDriverVehicle(driverID, vehicleID primitive.ObjectID) error
	UpdateLastLogin(id string) error
}

type VehicleStore interface {
	Create(vehicle *models.Vehicle) (*models.Vehicle, error)
	FindByID(id string) (*models.Vehicle, error)
	FindByOwner(ownerID primitive.ObjectID) ([]*models.Vehicle, error)
	Delete(id string) error
}

type HiringStore interface {
	Create(hiring *models.DriverHiring) (*models.DriverHiring, error)
	FindByID(id string) (*models.DriverHiring, error)
	FindByOwner(ownerID primitive.ObjectID) ([]*models.DriverHiring, error)
	FindPending() ([]*models.DriverHiring, error)
	FindFiltered(filter repository.HiringFilter, page, limit int) ([]*models.DriverHiring, error)
	CountFiltered(filter repository.HiringFilter) (int64, error)
	CountByVehicle(vehicleID primitive.ObjectID) (int64, error)
	ApproveIfPending(id primitive.ObjectID) (bool, error)
	RejectIfPending(id primitive.ObjectID, reason string) (bool, error)
	AddApplication(hiringID primitive.ObjectID, app models.Application) (bool, error)
	SelectWinner(hiringID, ownerID, driverID primitive.ObjectID) (*models.DriverHiring, error)
	DeleteByOwner(id, ownerID primitive.ObjectID) (bool, error)
}

type OutboxStore interface {
	Insert(events ...*models.OutboxEvent) error
}

// Waker nudges the outbox dispatcher after an enqueue. Optional.
type Waker interface {
	Wake()
}
