package services

import (
	"time"

	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/models"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/pkg/apperr"
)

// VehicleService is the vehicle registry: one registration record per
// physical vehicle, with referential integrity against hiring posts
// enforced here rather than by the store.
type VehicleService struct {
	vehicleStore VehicleStore
	userStore    UserStore
	hiringStore  HiringStore
}

func NewVehicleService(vehicleStore VehicleStore, userStore UserStore, hiringStore HiringStore) *VehicleService {
	return &VehicleService{
		vehicleStore: vehicleStore,
		userStore:    userStore,
		hiringStore:  hiringStore,
	}
}

type RegisterVehicleRequest struct {
	Documents   models.VehicleDocuments `json:"documents"`
	Images      []string                `json:"images" validate:"required,min=1,dive,required"`
	PlateNumber string                  `json:"plateNumber" validate:"required,min=1,max=20"`
	Make        string                  `json:"make,omitempty"`
	Model       string                  `json:"model,omitempty"`
	Color       string                  `json:"color,omitempty"`
	ServiceType string                  `json:"serviceType" validate:"required"`
	VehicleType string                  `json:"vehicleType" validate:"required"`
	WheelchairAccessible bool           `json:"wheelchairAccessible"`
	PackingHelper        bool           `json:"packingHelper"`
}

// OwnerData is the /data read path: the owner's vehicles and hiring
// posts. The pending-vehicle pointer is the fallback listing source when
// the owner query comes back empty.
type OwnerData struct {
	Vehicles []*models.Vehicle       `json:"vehicles"`
	Hirings  []*models.DriverHiring  `json:"driverHirings"`
}

// Register creates a vehicle registration. The identity gate must have
// confirmed KYC level >= 1 (approved) and a vehicle-ownership
// declaration, and all four documents plus at least one image must be
// present.
func (s *VehicleService) Register(ownerID string, req *RegisterVehicleRequest) (*models.Vehicle, error) {
	owner, err := s.userStore.FindByID(ownerID)
	if err != nil {
		return nil, err
	}

	if !owner.CanRegisterVehicle() {
		return nil, apperr.New(apperr.Validation, "complete KYC verification and declare vehicle ownership before registering")
	}

	if !req.Documents.HasAllDocuments() {
		return nil, apperr.New(apperr.Validation, "registration card (both sides), road authority certificate and insurance certificate are required")
	}
	if len(req.Images) == 0 {
		return nil, apperr.New(apperr.Validation, "at least one vehicle image is required")
	}

	now := time.Now()
	vehicle := &models.Vehicle{
		OwnerID:              owner.ID,
		Documents:            req.Documents,
		Images:               req.Images,
		PlateNumber:          req.PlateNumber,
		Make:                 req.Make,
		Model:                req.Model,
		Color:                req.Color,
		ServiceType:          req.ServiceType,
		VehicleType:          req.VehicleType,
		WheelchairAccessible: req.WheelchairAccessible,
		PackingHelper:        req.PackingHelper,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	created, err := s.vehicleStore.Create(vehicle)
	if err != nil {
		return nil, err
	}

	if err := s.userStore.SetPendingVehicle(ownerID, created.ID); err != nil {
		return nil, err
	}

	return created, nil
}

// Delete removes a registration. It is refused while any hiring post,
// whatever its approval state, still references the vehicle.
func (s *VehicleService) Delete(callerID, userID, vehicleID string) error {
	if callerID != userID {
		return apperr.New(apperr.Authorization, "you can only delete your own vehicles")
	}

	vehicle, err := s.vehicleStore.FindByID(vehicleID)
	if err != nil {
		return err
	}

	if vehicle.OwnerID.Hex() != userID {
		return apperr.New(apperr.Authorization, "you can only delete your own vehicles")
	}

	refs, err := s.hiringStore.CountByVehicle(vehicle.ID)
	if err != nil {
		return err
	}
	if refs > 0 {
		return apperr.New(apperr.Conflict, "vehicle is referenced by a driver hiring post")
	}

	if err := s.vehicleStore.Delete(vehicleID); err != nil {
		return err
	}

	// Only clears the pointer if it still references this vehicle
	return s.userStore.ClearPendingVehicle(userID, vehicle.ID)
}

// GetOwnerData aggregates the owner's vehicles and hiring posts.
func (s *VehicleService) GetOwnerData(userID string) (*OwnerData, error) {
	owner, err := s.userStore.FindByID(userID)
	if err != nil {
		return nil, err
	}

	vehicles, err := s.vehicleStore.FindByOwner(owner.ID)
	if err != nil {
		return nil, err
	}

	if len(vehicles) == 0 && owner.PendingVehicleID != nil {
		pending, err := s.vehicleStore.FindByID(owner.PendingVehicleID.Hex())
		if err == nil {
			vehicles = append(vehicles, pending)
		} else if apperr.KindOf(err) != apperr.NotFound {
			return nil, err
		}
	}

	hirings, err := s.hiringStore.FindByOwner(owner.ID)
	if err != nil {
		return nil, err
	}

	return &OwnerData{Vehicles: vehicles, Hirings: hirings}, nil
}
