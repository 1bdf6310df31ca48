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

// Compile-time check to ensure TransactionRepository implements the interface
var _ repositories.TransactionRepository = (*TransactionRepository)(nil)

// TransactionRepository handles MongoDB operations for Transaction
type TransactionRepository struct {
	collection *mongo.Collection
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{
		collection: db.Collection("transactions"),
	}
}

// Create inserts a new transaction record
func (r *TransactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	transaction.ID = primitive.NewObjectID()
	transaction.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, transaction)
	return err
}

// FindByAdminID retrieves all transactions for a business, oldest first
func (r *TransactionRepository) FindByAdminID(ctx context.Context, adminID primitive.ObjectID) ([]*models.Transaction, error) {
	return r.find(ctx, bson.M{"adminId": adminID})
}

// FindByCustomerID retrieves all transactions for a customer, oldest first
func (r *TransactionRepository) FindByCustomerID(ctx context.Context, customerID primitive.ObjectID) ([]*models.Transaction, error) {
	return r.find(ctx, bson.M{"customerId": customerID})
}

func (r *TransactionRepository) find(ctx context.Context, filter bson.M) ([]*models.Transaction, error) {
	var transactions []*models.Transaction
	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &transactions); err != nil {
		return nil, err
	}
	if transactions == nil {
		transactions = []*models.Transaction{}
	}
	return transactions, nil
}
