package services

import (
	"testing"
	"time"

	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/models"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validDocuments() models.VehicleDocuments {
	return models.VehicleDocuments{
		RegistrationCardFront: "docs/reg-front.jpg",
		RegistrationCardBack:  "docs/reg-back.jpg",
		RoadAuthorityCert:     "docs/road-cert.jpg",
		InsuranceCert:         "docs/insurance.jpg",
	}
}

func verifiedOwner(users *fakeUserStore) *models.User {
	return users.put(&models.User{
		Username:   "owner",
		Email:      "owner@example.com",
		Role:       models.RoleCustomer,
		KYCLevel:   1,
		KYCStatus:  models.KYCStatusApproved,
		HasVehicle: true,
	})
}

func registerRequest() *RegisterVehicleRequest {
	return &RegisterVehicleRequest{
		Documents:   validDocuments(),
		Images:      []string{"images/car.jpg"},
		PlateNumber: "LEB-1234",
		Make:        "Toyota",
		Model:       "Corolla",
		Color:       "white",
		ServiceType: "car cab",
		VehicleType: "economy",
	}
}

func TestVehicleRegister(t *testing.T) {
	users := newFakeUserStore()
	vehicles := newFakeVehicleStore()
	hirings := newFakeHiringStore()
	svc := NewVehicleService(vehicles, users, hirings)

	t.Run("CreatesRecordWithAllDocuments", func(t *testing.T) {
		owner := verifiedOwner(users)

		vehicle, err := svc.Register(owner.ID.Hex(), registerRequest())
		require.NoError(t, err)
		assert.Equal(t, owner.ID, vehicle.OwnerID)
		assert.True(t, vehicle.Documents.HasAllDocuments())

		// Registration sets the owner's pending-vehicle pointer
		require.NotNil(t, owner.PendingVehicleID)
		assert.Equal(t, vehicle.ID, *owner.PendingVehicleID)
	})

	t.Run("MissingInsuranceCertificate", func(t *testing.T) {
		owner := verifiedOwner(users)

		req := registerRequest()
		req.Documents.InsuranceCert = ""

		_, err := svc.Register(owner.ID.Hex(), req)
		require.Error(t, err)
		assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	})

	t.Run("MissingImages", func(t *testing.T) {
		owner := verifiedOwner(users)

		req := registerRequest()
		req.Images = nil

		_, err := svc.Register(owner.ID.Hex(), req)
		require.Error(t, err)
		assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	})

	t.Run("KYCNotApproved", func(t *testing.T) {
		owner := users.put(&models.User{
			Role:       models.RoleCustomer,
			KYCLevel:   1,
			KYCStatus:  models.KYCStatusPending,
			HasVehicle: true,
		})

		_, err := svc.Register(owner.ID.Hex(), registerRequest())
		require.Error(t, err)
		assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	})

	t.Run("NoVehicleDeclaration", func(t *testing.T) {
		owner := users.put(&models.User{
			Role:      models.RoleCustomer,
			KYCLevel:  1,
			KYCStatus: models.KYCStatusApproved,
		})

		_, err := svc.Register(owner.ID.Hex(), registerRequest())
		require.Error(t, err)
		assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	})
}

func TestVehicleDelete(t *testing.T) {
	t.Run("RefusedWhileReferencedByHiringPost", func(t *testing.T) {
		users := newFakeUserStore()
		vehicles := newFakeVehicleStore()
		hirings := newFakeHiringStore()
		svc := NewVehicleService(vehicles, users, hirings)

		owner := verifiedOwner(users)
		vehicle, err := svc.Register(owner.ID.Hex(), registerRequest())
		require.NoError(t, err)

		// A rejected post still blocks deletion; the reference is what
		// matters, not the approval state
		_, err = hirings.Create(&models.DriverHiring{
			OwnerID:   owner.ID,
			VehicleID: vehicle.ID,
			Status:    models.HiringStatusRejected,
			CreatedAt: time.Now(),
		})
		require.NoError(t, err)

		err = svc.Delete(owner.ID.Hex(), owner.ID.Hex(), vehicle.ID.Hex())
		require.Error(t, err)
		assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	})

	t.Run("ClearsPendingPointer", func(t *testing.T) {
		users := newFakeUserStore()
		vehicles := newFakeVehicleStore()
		hirings := newFakeHiringStore()
		svc := NewVehicleService(vehicles, users, hirings)

		owner := verifiedOwner(users)
		vehicle, err := svc.Register(owner.ID.Hex(), registerRequest())
		require.NoError(t, err)
		require.NotNil(t, owner.PendingVehicleID)

		require.NoError(t, svc.Delete(owner.ID.Hex(), owner.ID.Hex(), vehicle.ID.Hex()))
		assert.Nil(t, owner.PendingVehicleID)
	})

	t.Run("ForeignVehicle", func(t *testing.T) {
		users := newFakeUserStore()
		vehicles := newFakeVehicleStore()
		hirings := newFakeHiringStore()
		svc := NewVehicleService(vehicles, users, hirings)

		owner := verifiedOwner(users)
		vehicle, err := svc.Register(owner.ID.Hex(), registerRequest())
		require.NoError(t, err)

		other := users.put(&models.User{Role: models.RoleCustomer})
		err = svc.Delete(other.ID.Hex(), other.ID.Hex(), vehicle.ID.Hex())
		require.Error(t, err)
		assert.Equal(t, apperr.Authorization, apperr.KindOf(err))
	})

	t.Run("CallerMustBeSelf", func(t *testing.T) {
		users := newFakeUserStore()
		svc := NewVehicleService(newFakeVehicleStore(), users, newFakeHiringStore())

		owner := verifiedOwner(users)
		err := svc.Delete(primitive.NewObjectID().Hex(), owner.ID.Hex(), primitive.NewObjectID().Hex())
		require.Error(t, err)
		assert.Equal(t, apperr.Authorization, apperr.KindOf(err))
	})
}

func TestGetOwnerData(t *testing.T) {
	t.Run("FallsBackToPendingVehicle", func(t *testing.T) {
		users := newFakeUserStore()
		vehicles := newFakeVehicleStore()
		hirings := newFakeHiringStore()
		svc := NewVehicleService(vehicles, users, hirings)

		owner := verifiedOwner(users)

		// Vehicle owned by someone else but referenced by the pending
		// pointer: the fallback should still surface it
		stray, err := vehicles.Create(&models.Vehicle{OwnerID: primitive.NewObjectID()})
		require.NoError(t, err)
		require.NoError(t, users.SetPendingVehicle(owner.ID.Hex(), stray.ID))

		data, err := svc.GetOwnerData(owner.ID.Hex())
		require.NoError(t, err)
		require.Len(t, data.Vehicles, 1)
		assert.Equal(t, stray.ID, data.Vehicles[0].ID)
	})

	t.Run("ReturnsOwnedVehiclesAndHirings", func(t *testing.T) {
		users := newFakeUserStore()
		vehicles := newFakeVehicleStore()
		hirings := newFakeHiringStore()
		svc := NewVehicleService(vehicles, users, hirings)

		owner := verifiedOwner(users)
		vehicle, err := svc.Register(owner.ID.Hex(), registerRequest())
		require.NoError(t, err)

		_, err = hirings.Create(&models.DriverHiring{
			OwnerID:   owner.ID,
			VehicleID: vehicle.ID,
			Status:    models.HiringStatusPending,
		})
		require.NoError(t, err)

		data, err := svc.GetOwnerData(owner.ID.Hex())
		require.NoError(t, err)
		assert.Len(t, data.Vehicles, 1)
		assert.Len(t, data.Hirings, 1)
	})
}
