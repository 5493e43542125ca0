package repository

import (
	"context"
	"time"

	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/models"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/pkg/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type HiringRepository struct {
	collection *mongo.Collection
}

func NewHiringRepository(db *mongo.Database) *HiringRepository {
	return &HiringRepository{
		collection: db.Collection("driver_hirings"),
	}
}

// HiringFilter narrows the public listing.
type HiringFilter struct {
	Status         string
	VehicleType    string
	EngagementType string
}

func (f HiringFilter) toBson() bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.VehicleType != "" {
		filter["vehicle_type"] = f.VehicleType
	}
	if f.EngagementType != "" {
		filter["terms.engagement_type"] = f.EngagementType
	}
	return filter
}

func (r *HiringRepository) Create(hiring *models.DriverHiring) (*models.DriverHiring, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := r.collection.InsertOne(ctx, hiring)
	if err != nil {
		return nil, err
	}

	hiring.ID = result.InsertedID.(primitive.ObjectID)
	return hiring, nil
}

func (r *HiringRepository) FindByID(id string) (*models.DriverHiring, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "invalid hiring ID")
	}

	var hiring models.DriverHiring
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&hiring)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.New(apperr.NotFound, "hiring post not found")
		}
		return nil, err
	}

	return &hiring, nil
}

func (r *HiringRepository) FindByOwner(ownerID primitive.ObjectID) ([]*models.DriverHiring, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeHirings(ctx, cursor)
}

func (r *HiringRepository) FindPending() ([]*models.DriverHiring, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"status": models.HiringStatusPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeHirings(ctx, cursor)
}

// FindFiltered returns one page of the public listing, newest first.
func (r *HiringRepository) FindFiltered(filter HiringFilter, page, limit int) ([]*models.DriverHiring, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter.toBson(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	return decodeHirings(ctx, cursor)
}

func (r *HiringRepository) CountFiltered(filter HiringFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return r.collection.CountDocuments(ctx, filter.toBson())
}

// CountByVehicle counts hiring posts in any state referencing a vehicle.
// Vehicle deletion is refused while this is non-zero.
func (r *HiringRepository) CountByVehicle(vehicleID primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return r.collection.CountDocuments(ctx, bson.M{"vehicle_id": vehicleID})
}

// ApproveIfPending flips a pending post to approved in one conditional
// write and clears the admin comment. Returns false when no pending post
// matched the id.
func (r *HiringRepository) ApproveIfPending(id primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"status":        models.HiringStatusApproved,
			"admin_comment": "",
			"updated_at":    time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "status": models.HiringStatusPending}, update)
	if err != nil {
		return false, err
	}

	return result.MatchedCount > 0, nil
}

// RejectIfPending flips a pending post to rejected, storing the reason
// verbatim as the admin comment.
func (r *HiringRepository) RejectIfPending(id primitive.ObjectID, reason string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"status":        models.HiringStatusRejected,
			"admin_comment": reason,
			"updated_at":    time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "status": models.HiringStatusPending}, update)
	if err != nil {
		return false, err
	}

	return result.MatchedCount > 0, nil
}

// AddApplication appends an application in one conditional write. The
// filter requires the post to be approved and to carry no prior
// application by the same driver, so concurrent duplicate applies cannot
// both land. Returns false when nothing matched; the caller classifies.
func (r *HiringRepository) AddApplication(hiringID primitive.ObjectID, app models.Application) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"_id":                    hiringID,
		"status":                 models.HiringStatusApproved,
		"applications.driver_id": bson.M{"$ne": app.DriverID},
	}

	update := bson.M{
		"$push": bson.M{"applications": app},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}

	return result.MatchedCount > 0, nil
}

// SelectWinner performs the one-winner selection as a single conditional
// document update: it only matches while no driver is selected and the
// target driver still has a pending application, then accepts that
// application, rejects every other pending one, and records the winner.
// Mongo applies the update atomically, so of N concurrent selections at
// most one can match. Returns (nil, nil) when nothing matched.
func (r *HiringRepository) SelectWinner(hiringID, ownerID, driverID primitive.ObjectID) (*models.DriverHiring, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"_id":                hiringID,
		"owner_id":           ownerID,
		"selected_driver_id": nil,
		"applications": bson.M{
			"$elemMatch": bson.M{
				"driver_id": driverID,
				"status":    models.ApplicationStatusPending,
			},
		},
	}

	update := bson.M{
		"$set": bson.M{
			"applications.$[win].status": models.ApplicationStatusAccepted,
			"applications.$[los].status": models.ApplicationStatusRejected,
			"selected_driver_id":         driverID,
			"updated_at":                 time.Now(),
		},
	}

	arrayFilters := options.ArrayFilters{
		Filters: []interface{}{
			bson.M{"win.driver_id": driverID},
			bson.M{"los.driver_id": bson.M{"$ne": driverID}, "los.status": models.ApplicationStatusPending},
		},
	}

	opts := options.FindOneAndUpdate().
		SetArrayFilters(arrayFilters).
		SetReturnDocument(options.After)

	var hiring models.DriverHiring
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&hiring)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &hiring, nil
}

// DeleteByOwner removes an owner's post. The filter refuses the delete
// once a driver is bound, keeping the assignment consistent.
func (r *HiringRepository) DeleteByOwner(id, ownerID primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{
		"_id":                id,
		"owner_id":           ownerID,
		"selected_driver_id": nil,
	}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return false, err
	}

	return result.DeletedCount > 0, nil
}

func decodeHirings(ctx context.Context, cursor *mongo.Cursor) ([]*models.DriverHiring, error) {
	var hirings []*models.DriverHiring
	for cursor.Next(ctx) {
		var hiring models.DriverHiring
		if err := cursor.Decode(&hiring); err != nil {
			return nil, err
		}
		hirings = append(hirings, &hiring)
	}
	return hirings, nil
}
