package services

import (
	"fmt"
	"log"
	"time"

	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/models"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/repository"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/pkg/apperr"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/pkg/cache"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HiringService drives the hiring post lifecycle:
// pending -> {approved, rejected}, admin gated, with approved acting as
// the live state in which applications arrive and resolve.
type HiringService struct {
	hiringStore  HiringStore
	vehicleStore VehicleStore
	userStore    UserStore
	outbox       OutboxStore
	waker        Waker
	cacheManager cache.Manager
	cacheConfig  cache.Config
}

func NewHiringService(hiringStore HiringStore, vehicleStore VehicleStore, userStore UserStore, outbox OutboxStore) *HiringService {
	return &HiringService{
		hiringStore:  hiringStore,
		vehicleStore: vehicleStore,
		userStore:    userStore,
		outbox:       outbox,
		cacheConfig:  cache.DefaultConfig(),
	}
}

// SetCacheManager allows setting the cache manager for listing caching
func (s *HiringService) SetCacheManager(cacheManager cache.Manager) {
	s.cacheManager = cacheManager
}

// SetWaker allows setting the outbox dispatcher hook
func (s *HiringService) SetWaker(waker Waker) {
	s.waker = waker
}

type DecideRequest struct {
	HasDriver string `json:"hasDriver" validate:"required,oneof=yes no"`
}

type SubmitHiringRequest struct {
	VehicleID        string                  `json:"vehicleId" validate:"required"`
	EngagementType   string                  `json:"engagementType" validate:"required,oneof=monthly weekly commission"`
	Salary           float64                 `json:"salary" validate:"required,gt=0"`
	DurationMonths   int                     `json:"durationMonths" validate:"required,gt=0"`
	MaintenanceSplit string                  `json:"maintenanceSplit" validate:"required"`
	StartDate        string                  `json:"startDate,omitempty"`
	Shift            string                  `json:"shift,omitempty"`
	Documents        models.VehicleDocuments `json:"documents"`
	Images           []string                `json:"images" validate:"required,min=1,dive,required"`
}

type RejectHiringRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// ListHiringsQuery filters and pages the public listing.
type ListHiringsQuery struct {
	Status         string `form:"status" validate:"omitempty,oneof=pending approved rejected"`
	VehicleType    string `form:"vehicleType"`
	EngagementType string `form:"engagementType" validate:"omitempty,oneof=monthly weekly commission"`
	Page           int    `form:"page"`
	Limit          int    `form:"limit"`
}

// HiringPage is one page of the public listing.
type HiringPage struct {
	Hirings []*models.DriverHiring
	Total   int64
	Page    int
	Limit   int
}

// Decide records whether the owner intends to drive personally. Only
// "no" unlocks hiring post submission.
func (s *HiringService) Decide(userID string, req *DecideRequest) error {
	if req.HasDriver != models.HasDriverYes && req.HasDriver != models.HasDriverNo {
		return apperr.New(apperr.Validation, "hasDriver must be yes or no")
	}
	return s.userStore.SetHasDriver(userID, req.HasDriver)
}

// Submit creates a hiring post in state pending with no applications.
func (s *HiringService) Submit(ownerID string, req *SubmitHiringRequest) (*models.DriverHiring, error) {
	owner, err := s.userStore.FindByID(ownerID)
	if err != nil {
		return nil, err
	}

	if owner.HasDriver != models.HasDriverNo {
		return nil, apperr.New(apperr.Validation, "declare that you will not drive personally before submitting a hiring post")
	}

	vehicle, err := s.vehicleStore.FindByID(req.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.OwnerID != owner.ID {
		return nil, apperr.New(apperr.Validation, "vehicle does not belong to you")
	}

	if req.Documents.RegistrationCardFront == "" || req.Documents.RegistrationCardBack == "" {
		return nil, apperr.New(apperr.Validation, "registration card images (both sides) are required")
	}
	if len(req.Images) == 0 {
		return nil, apperr.New(apperr.Validation, "at least one vehicle image is required")
	}

	now := time.Now()
	hiring := &models.DriverHiring{
		OwnerID:     owner.ID,
		VehicleID:   vehicle.ID,
		VehicleType: vehicle.VehicleType,
		Terms: models.HiringTerms{
			EngagementType:   req.EngagementType,
			Salary:           req.Salary,
			DurationMonths:   req.DurationMonths,
			MaintenanceSplit: req.MaintenanceSplit,
			StartDate:        req.StartDate,
			Shift:            req.Shift,
		},
		Documents:    req.Documents,
		Images:       req.Images,
		Status:       models.HiringStatusPending,
		Applications: []models.Application{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.hiringStore.Create(hiring)
	if err != nil {
		return nil, err
	}

	s.invalidateListings()
	return created, nil
}

// Approve moves a pending post to approved and notifies the owner. A
// post that already carries applications cannot be approved until its
// selection has finished.
func (s *HiringService) Approve(hiringID string) (*models.DriverHiring, error) {
	hiring, err := s.hiringStore.FindByID(hiringID)
	if err != nil {
		return nil, err
	}

	if hiring.Status != models.HiringStatusPending {
		return nil, apperr.New(apperr.Conflict, "not pending")
	}
	if len(hiring.Applications) > 0 && hiring.SelectedDriverID == nil {
		return nil, apperr.New(apperr.Conflict, "no accepted application yet")
	}

	approved, err := s.hiringStore.ApproveIfPending(hiring.ID)
	if err != nil {
		return nil, err
	}
	if !approved {
		// Lost a race against another admin decision
		return nil, apperr.New(apperr.Conflict, "not pending")
	}

	hiring.Status = models.HiringStatusApproved
	hiring.AdminComment = ""
	s.invalidateListings()

	if err := s.notifyOwner(models.NotifyHiringApproved, hiring, ""); err != nil {
		return hiring, apperr.Wrap(apperr.Dependency, "post approved but notification could not be queued", err)
	}

	return hiring, nil
}

// Reject moves a pending post to rejected, storing the reason verbatim
// as the admin comment, and notifies the owner.
func (s *HiringService) Reject(hiringID string, req *RejectHiringRequest) (*models.DriverHiring, error) {
	hiring, err := s.hiringStore.FindByID(hiringID)
	if err != nil {
		return nil, err
	}

	if hiring.Status != models.HiringStatusPending {
		return nil, apperr.New(apperr.Conflict, "not pending")
	}

	rejected, err := s.hiringStore.RejectIfPending(hiring.ID, req.Reason)
	if err != nil {
		return nil, err
	}
	if !rejected {
		return nil, apperr.New(apperr.Conflict, "not pending")
	}

	hiring.Status = models.HiringStatusRejected
	hiring.AdminComment = req.Reason
	s.invalidateListings()

	if err := s.notifyOwner(models.NotifyHiringRejected, hiring, req.Reason); err != nil {
		return hiring, apperr.Wrap(apperr.Dependency, "post rejected but notification could not be queued", err)
	}

	return hiring, nil
}

// Delete removes an owner's post. Deletion is refused once a driver has
// been bound through selection.
func (s *HiringService) Delete(callerID, userID, hiringID string) error {
	if callerID != userID {
		return apperr.New(apperr.Authorization, "you can only delete your own hiring posts")
	}

	ownerID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return apperr.New(apperr.Validation, "invalid user ID")
	}
	id, err := primitive.ObjectIDFromHex(hiringID)
	if err != nil {
		return apperr.New(apperr.Validation, "invalid hiring ID")
	}

	deleted, err := s.hiringStore.DeleteByOwner(id, ownerID)
	if err != nil {
		return err
	}
	if deleted {
		s.invalidateListings()
		return nil
	}

	// Classify: missing, foreign, or already bound
	hiring, err := s.hiringStore.FindByID(hiringID)
	if err != nil {
		return err
	}
	if hiring.OwnerID != ownerID {
		return apperr.New(apperr.Authorization, "you can only delete your own hiring posts")
	}
	return apperr.New(apperr.Conflict, "a driver is already bound to this post")
}

// ListPending returns every post awaiting an admin decision.
func (s *HiringService) ListPending() ([]*models.DriverHiring, error) {
	return s.hiringStore.FindPending()
}

// ListAll returns one page of the public listing, cache first.
func (s *HiringService) ListAll(query *ListHiringsQuery) (*HiringPage, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	filter := repository.HiringFilter{
		Status:         query.Status,
		VehicleType:    query.VehicleType,
		EngagementType: query.EngagementType,
	}

	cacheKey := fmt.Sprintf("%s_%s_%s_p%d_l%d", filter.Status, filter.VehicleType, filter.EngagementType, page, limit)
	if s.cacheManager != nil {
		entry, err := s.cacheManager.GetHiringList(cacheKey)
		if err != nil {
			log.Printf("Cache error for ListAll: %v", err)
		} else if entry != nil {
			return &HiringPage{Hirings: entry.Hirings, Total: entry.Total, Page: page, Limit: limit}, nil
		}
	}

	hirings, err := s.hiringStore.FindFiltered(filter, page, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.hiringStore.CountFiltered(filter)
	if err != nil {
		return nil, err
	}

	if s.cacheManager != nil {
		entry := &cache.HiringListEntry{Hirings: hirings, Total: total}
		if cacheErr := s.cacheManager.SetHiringList(cacheKey, entry, s.cacheConfig.HiringListTTL); cacheErr != nil {
			log.Printf("Failed to cache hiring listing: %v", cacheErr)
		}
	}

	return &HiringPage{Hirings: hirings, Total: total, Page: page, Limit: limit}, nil
}

// notifyOwner queues a lifecycle notification for the post owner.
func (s *HiringService) notifyOwner(kind string, hiring *models.DriverHiring, reason string) error {
	owner, err := s.userStore.FindByID(hiring.OwnerID.Hex())
	if err != nil {
		return err
	}

	plate := ""
	if vehicle, err := s.vehicleStore.FindByID(hiring.VehicleID.Hex()); err == nil {
		plate = vehicle.PlateNumber
	}

	event := &models.OutboxEvent{
		Kind:        kind,
		RecipientID: owner.ID,
		HiringID:    hiring.ID,
		VehicleID:   hiring.VehicleID,
		Payload: map[string]string{
			"To":          owner.Email,
			"PlateNumber": plate,
			"Reason":      reason,
		},
	}

	if err := s.outbox.Insert(event); err != nil {
		return err
	}
	if s.waker != nil {
		s.waker.Wake()
	}
	return nil
}

func (s *HiringService) invalidateListings() {
	if s.cacheManager == nil {
		return
	}
	if err := s.cacheManager.InvalidateHiringLists(); err != nil {
		log.Printf("Failed to invalidate hiring listing cache: %v", err)
	}
}
