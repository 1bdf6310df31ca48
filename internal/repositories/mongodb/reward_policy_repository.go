package mongodb

import (
	"context"
	"time"

	"github.com/rewardsuite/rms-backend/internal/models"
	"github.com/rewardsuite/rms-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure RewardPolicyRepository implements the interface
var _ repositories.RewardPolicyRepository = (*RewardPolicyRepository)(nil)

// RewardPolicyRepository handles MongoDB operations for RewardPolicy
type RewardPolicyRepository struct {
	collection *mongo.Collection
}

// NewRewardPolicyRepository creates a new RewardPolicyRepository
func NewRewardPolicyRepository(db *mongo.Database) *RewardPolicyRepository {
	return &RewardPolicyRepository{
		collection: db.Collection("reward_policies"),
	}
}

// EnsureIndexes creates the unique index on adminId that enforces at most one
// policy per admin. Called once at startup.
func (r *RewardPolicyRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "adminId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Create inserts a new policy. The unique index on adminId enforces at most
// one policy per admin.
func (r *RewardPolicyRepository) Create(ctx context.Context, policy *models.RewardPolicy) error {
	policy.ID = primitive.NewObjectID()
	policy.CreatedAt = time.Now()
	policy.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, policy)
	return err
}

// FindByAdminID finds the policy owned by an admin
func (r *RewardPolicyRepository) FindByAdminID(ctx context.Context, adminID primitive.ObjectID) (*models.RewardPolicy, error) {
	var policy models.RewardPolicy
	filter := bson.M{"adminId": adminID}
	err := r.collection.FindOne(ctx, filter).Decode(&policy)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &policy, nil
}

// Update replaces an existing policy
func (r *RewardPolicyRepository) Update(ctx context.Context, policy *models.RewardPolicy) error {
	policy.UpdatedAt = time.Now()
	filter := bson.M{"_id": policy.ID}
	update := bson.M{"$set": policy}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteByAdminID deletes the policy owned by an admin
func (r *RewardPolicyRepository) DeleteByAdminID(ctx context.Context, adminID primitive.ObjectID) error {
	filter := bson.M{"adminId": adminID}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
