package services

import (
	"sort"
	"sync"
	"time"

	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/models"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/repository"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/pkg/apperr"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stores mirroring the conditional-write behavior of the
// mongo repositories. All mutations run under one mutex, so SelectWinner
// and AddApplication keep the same check-and-set atomicity the real
// store provides.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserStore) put(user *models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserStore) Create(user *models.User) (*models.User, error) {
	return f.put(user), nil
}

func (f *fakeUserStore) FindByID(id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "invalid user ID")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[oid]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	return user, nil
}

func (f *fakeUserStore) FindByEmail(email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "user not found")
}

func (f *fakeUserStore) SetHasDriver(id string, hasDriver string) error {
	user, err := f.FindByID(id)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	user.HasDriver = hasDriver
	return nil
}

func (f *fakeUserStore) SetPendingVehicle(id string, vehicleID primitive.ObjectID) error {
	user, err := f.FindByID(id)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	user.PendingVehicleID = &vehicleID
	return nil
}

func (f *fakeUserStore) ClearPendingVehicle(id string, vehicleID primitive.ObjectID) error {
	user, err := f.FindByID(id)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.PendingVehicleID != nil && *user.PendingVehicleID == vehicleID {
		user.PendingVehicleID = nil
	}
	return nil
}

func (f *fakeUserStore) AddDriverVehicle(driverID, vehicleID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[driverID]
	if !ok {
		return apperr.New(apperr.NotFound, "driver not found")
	}
	for _, id := range user.DriverVehicleIDs {
		if id == vehicleID {
			return nil
		}
	}
	user.DriverVehicleIDs = append(user.DriverVehicleIDs, vehicleID)
	return nil
}

func (f *fakeUserStore) UpdateLastLogin(id string) error {
	user, err := f.FindByID(id)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	user.LastLogin = &now
	return nil
}

type fakeVehicleStore struct {
	mu       sync.Mutex
	vehicles map[primitive.ObjectID]*models.Vehicle
}

func newFakeVehicleStore() *fakeVehicleStore {
	return &fakeVehicleStore{vehicles: make(map[primitive.ObjectID]*models.Vehicle)}
}

func (f *fakeVehicleStore) Create(vehicle *models.Vehicle) (*models.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if vehicle.ID.IsZero() {
		vehicle.ID = primitive.NewObjectID()
	}
	f.vehicles[vehicle.ID] = vehicle
	return vehicle, nil
}

func (f *fakeVehicleStore) FindByID(id string) (*models.Vehicle, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "invalid vehicle ID")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	vehicle, ok := f.vehicles[oid]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "vehicle not found")
	}
	return vehicle, nil
}

func (f *fakeVehicleStore) FindByOwner(ownerID primitive.ObjectID) ([]*models.Vehicle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Vehicle
	for _, v := range f.vehicles {
		if v.OwnerID == ownerID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeVehicleStore) Delete(id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.New(apperr.Validation, "invalid vehicle ID")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.vehicles[oid]; !ok {
		return apperr.New(apperr.NotFound, "vehicle not found")
	}
	delete(f.vehicles, oid)
	return nil
}

type fakeHiringStore struct {
	mu      sync.Mutex
	hirings map[primitive.ObjectID]*models.DriverHiring
}

func newFakeHiringStore() *fakeHiringStore {
	return &fakeHiringStore{hirings: make(map[primitive.ObjectID]*models.DriverHiring)}
}

func (f *fakeHiringStore) Create(hiring *models.DriverHiring) (*models.DriverHiring, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if hiring.ID.IsZero() {
		hiring.ID = primitive.NewObjectID()
	}
	f.hirings[hiring.ID] = hiring
	return hiring, nil
}

func (f *fakeHiringStore) FindByID(id string) (*models.DriverHiring, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "invalid hiring ID")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	hiring, ok := f.hirings[oid]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "hiring post not found")
	}
	copy := *hiring
	copy.Applications = append([]models.Application(nil), hiring.Applications...)
	return &copy, nil
}

func (f *fakeHiringStore) FindByOwner(ownerID primitive.ObjectID) ([]*models.DriverHiring, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.DriverHiring
	for _, h := range f.hirings {
		if h.OwnerID == ownerID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHiringStore) FindPending() ([]*models.DriverHiring, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.DriverHiring
	for _, h := range f.hirings {
		if h.Status == models.HiringStatusPending {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHiringStore) matches(h *models.DriverHiring, filter repository.HiringFilter) bool {
	if filter.Status != "" && h.Status != filter.Status {
		return false
	}
	if filter.VehicleType != "" && h.VehicleType != filter.VehicleType {
		return false
	}
	if filter.EngagementType != "" && h.Terms.EngagementType != filter.EngagementType {
		return false
	}
	return true
}

func (f *fakeHiringStore) FindFiltered(filter repository.HiringFilter, page, limit int) ([]*models.DriverHiring, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []*models.DriverHiring
	for _, h := range f.hirings {
		if f.matches(h, filter) {
			all = append(all, h)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID.Hex() > all[j].ID.Hex()
	})
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (f *fakeHiringStore) CountFiltered(filter repository.HiringFilter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, h := range f.hirings {
		if f.matches(h, filter) {
			n++
		}
	}
	return n, nil
}

func (f *fakeHiringStore) CountByVehicle(vehicleID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, h := range f.hirings {
		if h.VehicleID == vehicleID {
			n++
		}
	}
	return n, nil
}

func (f *fakeHiringStore) ApproveIfPending(id primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hirings[id]
	if !ok || h.Status != models.HiringStatusPending {
		return false, nil
	}
	h.Status = models.HiringStatusApproved
	h.AdminComment = ""
	return true, nil
}

func (f *fakeHiringStore) RejectIfPending(id primitive.ObjectID, reason string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hirings[id]
	if !ok || h.Status != models.HiringStatusPending {
		return false, nil
	}
	h.Status = models.HiringStatusRejected
	h.AdminComment = reason
	return true, nil
}

func (f *fakeHiringStore) AddApplication(hiringID primitive.ObjectID, app models.Application) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hirings[hiringID]
	if !ok || h.Status != models.HiringStatusApproved {
		return false, nil
	}
	for _, existing := range h.Applications {
		if existing.DriverID == app.DriverID {
			return false, nil
		}
	}
	h.Applications = append(h.Applications, app)
	return true, nil
}

func (f *fakeHiringStore) SelectWinner(hiringID, ownerID, driverID primitive.ObjectID) (*models.DriverHiring, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hirings[hiringID]
	if !ok || h.OwnerID != ownerID || h.SelectedDriverID != nil {
		return nil, nil
	}
	target := -1
	for i, app := range h.Applications {
		if app.DriverID == driverID && app.Status == models.ApplicationStatusPending {
			target = i
			break
		}
	}
	if target == -1 {
		return nil, nil
	}
	for i := range h.Applications {
		if i == target {
			h.Applications[i].Status = models.ApplicationStatusAccepted
		} else if h.Applications[i].Status == models.ApplicationStatusPending {
			h.Applications[i].Status = models.ApplicationStatusRejected
		}
	}
	selected := driverID
	h.SelectedDriverID = &selected

	copy := *h
	copy.Applications = append([]models.Application(nil), h.Applications...)
	return &copy, nil
}

func (f *fakeHiringStore) DeleteByOwner(id, ownerID primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.hirings[id]
	if !ok || h.OwnerID != ownerID || h.SelectedDriverID != nil {
		return false, nil
	}
	delete(f.hirings, id)
	return true, nil
}

type fakeOutbox struct {
	mu     sync.Mutex
	events []*models.OutboxEvent
	fail   bool
}

func (f *fakeOutbox) Insert(events ...*models.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return apperr.New(apperr.Dependency, "outbox unavailable")
	}
	f.events = append(f.events, events...)
	return nil
}

func (f *fakeOutbox) kinds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Kind)
	}
	return out
}
