package mongo

import (
	"context"
	"errors"
	"time"

	"fitcoach/workout-app/internal/domain"
	"fitcoach/workout-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const assignmentCollectionName = "assignments"

// mongoAssignmentRepository implements repository.AssignmentRepository
type mongoAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAssignmentRepository creates a new Assignment repository backed by MongoDB.
func NewMongoAssignmentRepository(db *mongo.Database) repository.AssignmentRepository {
	return &mongoAssignmentRepository{
		collection: db.Collection(assignmentCollectionName),
	}
}

// Create inserts a new assignment into the database.
// The unique (workoutId, clientId) index is the sole guard against
// concurrent duplicate assignments; violations map to repository.ErrDuplicate.
func (r *mongoAssignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) (primitive.ObjectID, error) {
	if assignment.WorkoutID == primitive.NilObjectID || assignment.ClientID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("assignment requires workoutId and clientId")
	}

	assignment.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	assignment.AssignedAt = now
	assignment.UpdatedAt = now
	if assignment.Status == "" { // Default status if not provided
		assignment.Status = domain.StatusAssigned
	}

	result, err := r.collection.InsertOne(ctx, assignment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted assignment ID")
	}

	return insertedID, nil
}

// GetByClientID retrieves all assignments for a specific client, newest-assigned first.
func (r *mongoAssignmentRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Assignment, error) {
	var assignments []domain.Assignment
	filter := bson.M{"clientId": clientID}
	findOptions := options.Find().SetSort(bson.D{{Key: "assignedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	if assignments == nil {
		assignments = []domain.Assignment{}
	}
	return assignments, nil
}

// CountByWorkoutID counts how many assignments exist for a workout.
func (r *mongoAssignmentRepository) CountByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"workoutId": workoutID})
}

// EnsureAssignmentIndexes creates necessary indexes for the assignments collection.
func EnsureAssignmentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// At most one assignment per (workout, client) pair
			Keys:    bson.D{{Key: "workoutId", Value: 1}, {Key: "clientId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Client's assignment list, sorted newest first
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "assignedAt", Value: -1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
