package repositories

import (
	"context"

	"github.com/rewardsuite/rms-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RewardPolicyRepository defines the interface for reward policy data operations
type RewardPolicyRepository interface {
	Create(ctx context.Context, policy *models.RewardPolicy) error
	FindByAdminID(ctx context.Context, adminID primitive.ObjectID) (*models.RewardPolicy, error)
	Update(ctx context.Context, policy *models.RewardPolicy) error
	DeleteByAdminID(ctx context.Context, adminID primitive.ObjectID) error
}

// CustomerRepository defines the interface for customer data operations.
//
// AwardPoints and UpdateGuarded are the ledger write paths: both mutate
// pointsHistory and pointsBalance in a single document update so the cached
// balance can never drift from the history.
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error)
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	FindByAdminID(ctx context.Context, adminID primitive.ObjectID) ([]*models.Customer, error)
	// AwardPoints appends entry and increments pointsBalance by entry.Points
	// in one conditional update, returning the customer as updated. The
	// write only matches when the customer still exists and pointsBalance >=
	// minBalance, which serializes concurrent check-and-award sequences for
	// the same customer. Returns mongo.ErrNoDocuments when no document
	// matched.
	AwardPoints(ctx context.Context, id primitive.ObjectID, entry models.PointsEntry, minBalance int) (*models.Customer, error)
	// UpdateGuarded replaces the customer document only if the stored
	// pointsBalance still equals expectedBalance (optimistic check for
	// read-modify-write flows such as redemption and the expiry sweep).
	// Returns mongo.ErrNoDocuments on a miss.
	UpdateGuarded(ctx context.Context, customer *models.Customer, expectedBalance int) error
}

// TransactionRepository defines the interface for reporting transaction operations
type TransactionRepository interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	FindByAdminID(ctx context.Context, adminID primitive.ObjectID) ([]*models.Transaction, error)
	FindByCustomerID(ctx context.Context, customerID primitive.ObjectID) ([]*models.Transaction, error)
}

// AdminUserRepository defines the interface for admin user data operations
type AdminUserRepository interface {
	Create(ctx context.Context, admin *models.AdminUser) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error)
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
}
