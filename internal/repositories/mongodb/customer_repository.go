package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/rewardsuite/rms-backend/internal/models"
	"github.com/rewardsuite/rms-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure CustomerRepository implements the interface
var _ repositories.CustomerRepository = (*CustomerRepository)(nil)

// CustomerRepository handles MongoDB operations for Customer
type CustomerRepository struct {
	collection *mongo.Collection
}

// NewCustomerRepository creates a new CustomerRepository
func NewCustomerRepository(db *mongo.Database) *CustomerRepository {
	return &CustomerRepository{
		collection: db.Collection("customers"),
	}
}

// Create inserts a new customer
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	customer.ID = primitive.NewObjectID()
	if customer.PointsHistory == nil {
		customer.PointsHistory = []models.PointsEntry{}
	}
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, customer)
	return err
}

// FindByID finds a customer by ID
func (r *CustomerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	var customer models.Customer
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&customer)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &customer, nil
}

// FindByEmail finds a customer by email
func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	filter := bson.M{"email": email}
	err := r.collection.FindOne(ctx, filter).Decode(&customer)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindByAdminID retrieves all customers enrolled with a business
func (r *CustomerRepository) FindByAdminID(ctx context.Context, adminID primitive.ObjectID) ([]*models.Customer, error) {
	var customers []*models.Customer
	cursor, err := r.collection.Find(ctx, bson.M{"adminId": adminID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &customers); err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []*models.Customer{}
	}
	return customers, nil
}

// AwardPoints appends a history entry and increments the cached balance in a
// single conditional update. The minBalance guard in the filter makes the
// eligibility check and the increment one atomic step, so two concurrent
// awards for the same customer serialize at the document store.
func (r *CustomerRepository) AwardPoints(ctx context.Context, id primitive.ObjectID, entry models.PointsEntry, minBalance int) (*models.Customer, error) {
	if entry.Points <= 0 {
		return nil, errors.New("points to award must be positive")
	}
	filter := bson.M{
		"_id":           id,
		"pointsBalance": bson.M{"$gte": minBalance},
	}
	update := bson.M{
		"$push": bson.M{"pointsHistory": entry},
		"$inc":  bson.M{"pointsBalance": entry.Points},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var customer models.Customer
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&customer)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments when the guard failed
	}
	return &customer, nil
}

// UpdateGuarded replaces the customer document only while the stored balance
// still equals expectedBalance. Callers re-read and retry on a miss.
func (r *CustomerRepository) UpdateGuarded(ctx context.Context, customer *models.Customer, expectedBalance int) error {
	customer.UpdatedAt = time.Now()
	filter := bson.M{
		"_id":           customer.ID,
		"pointsBalance": expectedBalance,
	}
	result, err := r.collection.ReplaceOne(ctx, filter, customer)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
