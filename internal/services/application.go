package services

import (
	"log"
	"time"

	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/models"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/pkg/apperr"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/pkg/cache"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ApplicationService is the application matcher plus the assignment
// binder: it manages the applications on an approved post and enforces
// exactly-one-winner selection.
type ApplicationService struct {
	hiringStore  HiringStore
	vehicleStore VehicleStore
	userStore    UserStore
	outbox       OutboxStore
	waker        Waker
	cacheManager cache.Manager
}

func NewApplicationService(hiringStore HiringStore, vehicleStore VehicleStore, userStore UserStore, outbox OutboxStore) *ApplicationService {
	return &ApplicationService{
		hiringStore:  hiringStore,
		vehicleStore: vehicleStore,
		userStore:    userStore,
		outbox:       outbox,
	}
}

// SetCacheManager allows setting the cache manager for listing invalidation
func (s *ApplicationService) SetCacheManager(cacheManager cache.Manager) {
	s.cacheManager = cacheManager
}

// SetWaker allows setting the outbox dispatcher hook
func (s *ApplicationService) SetWaker(waker Waker) {
	s.waker = waker
}

type ApplyRequest struct {
	HiringID string `json:"driverHiringId" validate:"required"`
	Proposal string `json:"proposal" validate:"required,min=1,max=2000"`
}

// AcceptResult is what selection returns: the committed post and the
// vehicle now bound to the winner.
type AcceptResult struct {
	Hiring    *models.DriverHiring `json:"driverHiring"`
	VehicleID string               `json:"vehicleId"`
}

// Apply appends a pending application to an approved post. The
// duplicate check and the insert are one conditional write, so two
// concurrent applies by the same driver cannot both land.
func (s *ApplicationService) Apply(driverID string, req *ApplyRequest) (*models.Application, error) {
	driver, err := s.userStore.FindByID(driverID)
	if err != nil {
		return nil, err
	}

	if !driver.CanApplyAsDriver() {
		return nil, apperr.New(apperr.Authorization, "driver eligibility requirements not met")
	}

	hiringID, err := primitive.ObjectIDFromHex(req.HiringID)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "invalid hiring ID")
	}

	app := models.Application{
		DriverID:  driver.ID,
		Proposal:  req.Proposal,
		Status:    models.ApplicationStatusPending,
		AppliedAt: time.Now(),
	}

	added, err := s.hiringStore.AddApplication(hiringID, app)
	if err != nil {
		return nil, err
	}
	if !added {
		// Classify: missing post, post not approved, or duplicate
		hiring, err := s.hiringStore.FindByID(req.HiringID)
		if err != nil {
			return nil, err
		}
		if hiring.Status != models.HiringStatusApproved {
			return nil, apperr.New(apperr.Conflict, "post not approved")
		}
		return nil, apperr.New(apperr.Conflict, "duplicate application")
	}

	return &app, nil
}

// ListApplications is the owner-only read of a post's applications.
func (s *ApplicationService) ListApplications(callerID, hiringID string) ([]models.Application, error) {
	hiring, err := s.hiringStore.FindByID(hiringID)
	if err != nil {
		return nil, err
	}

	if hiring.OwnerID.Hex() != callerID {
		return nil, apperr.New(apperr.Authorization, "only the post owner can view applications")
	}

	return hiring.Applications, nil
}

// Accept selects the winning driver. The status fan-out (winner
// accepted, every pending rival rejected, selectedDriverId set) is a
// single conditional document write in the store, so of N concurrent
// accepts exactly one succeeds; the rest observe "already selected".
// Re-accepting the same winner is idempotent and returns the committed
// state. Binding and notifications happen after the commit and never
// roll it back.
func (s *ApplicationService) Accept(callerID, hiringID, driverID string) (*AcceptResult, error) {
	ownerID, err := primitive.ObjectIDFromHex(callerID)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "invalid user ID")
	}
	hID, err := primitive.ObjectIDFromHex(hiringID)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "invalid hiring ID")
	}
	dID, err := primitive.ObjectIDFromHex(driverID)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "invalid driver ID")
	}

	hiring, err := s.hiringStore.SelectWinner(hID, ownerID, dID)
	if err != nil {
		return nil, err
	}
	if hiring == nil {
		return s.classifyFailedSelect(ownerID, hiringID, dID)
	}

	s.invalidateListings()

	// Assignment binder: idempotent vehicle bind, then notifications.
	if err := s.userStore.AddDriverVehicle(dID, hiring.VehicleID); err != nil {
		return nil, apperr.Wrap(apperr.Dependency, "driver selected but vehicle binding failed; retrying the accept repairs it", err)
	}

	result := &AcceptResult{Hiring: hiring, VehicleID: hiring.VehicleID.Hex()}

	if err := s.notifySelection(hiring, dID); err != nil {
		return result, apperr.Wrap(apperr.Dependency, "driver selected but notifications could not be queued", err)
	}

	return result, nil
}

// classifyFailedSelect turns a no-match conditional write into the
// error the caller should see, or into the idempotent success path.
func (s *ApplicationService) classifyFailedSelect(ownerID primitive.ObjectID, hiringID string, driverID primitive.ObjectID) (*AcceptResult, error) {
	hiring, err := s.hiringStore.FindByID(hiringID)
	if err != nil {
		return nil, err
	}

	if hiring.OwnerID != ownerID {
		return nil, apperr.New(apperr.Authorization, "only the post owner can accept applications")
	}

	if hiring.SelectedDriverID != nil {
		if *hiring.SelectedDriverID == driverID {
			// Same winner again: repair the idempotent bind and return
			// the committed state without re-sending notifications.
			if err := s.userStore.AddDriverVehicle(driverID, hiring.VehicleID); err != nil {
				return nil, apperr.Wrap(apperr.Dependency, "vehicle binding failed", err)
			}
			return &AcceptResult{Hiring: hiring, VehicleID: hiring.VehicleID.Hex()}, nil
		}
		return nil, apperr.New(apperr.Conflict, "already selected")
	}

	return nil, apperr.New(apperr.NotFound, "no pending application from this driver")
}

// notifySelection queues the congratulatory mail for the winner and a
// rejection mail for every driver whose application was auto-rejected.
func (s *ApplicationService) notifySelection(hiring *models.DriverHiring, winnerID primitive.ObjectID) error {
	plate := ""
	if vehicle, err := s.vehicleStore.FindByID(hiring.VehicleID.Hex()); err == nil {
		plate = vehicle.PlateNumber
	}

	var events []*models.OutboxEvent
	for _, app := range hiring.Applications {
		kind := ""
		switch {
		case app.DriverID == winnerID && app.Status == models.ApplicationStatusAccepted:
			kind = models.NotifyApplicationWon
		case app.Status == models.ApplicationStatusRejected:
			kind = models.NotifyApplicationRejected
		default:
			continue
		}

		recipient, err := s.userStore.FindByID(app.DriverID.Hex())
		if err != nil {
			log.Printf("Skipping notification for unknown driver %s: %v", app.DriverID.Hex(), err)
			continue
		}

		events = append(events, &models.OutboxEvent{
			Kind:        kind,
			RecipientID: recipient.ID,
			HiringID:    hiring.ID,
			VehicleID:   hiring.VehicleID,
			Payload: map[string]string{
				"To":          recipient.Email,
				"PlateNumber": plate,
			},
		})
	}

	if len(events) == 0 {
		return nil
	}

	if err := s.outbox.Insert(events...); err != nil {
		return err
	}
	if s.waker != nil {
		s.waker.Wake()
	}
	return nil
}

func (s *ApplicationService) invalidateListings() {
	if s.cacheManager == nil {
		return
	}
	if err := s.cacheManager.InvalidateHiringLists(); err != nil {
		log.Printf("Failed to invalidate hiring listing cache: %v", err)
	}
}
