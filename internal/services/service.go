package services

import (
	"context"

	"github.com/rewardsuite/rms-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RewardPolicyService defines policy configuration and reporting operations
type RewardPolicyService interface {
	// UpsertPolicy creates the admin's policy or merges the patch over it.
	// The returned bool is true when a new policy was created.
	UpsertPolicy(ctx context.Context, adminID primitive.ObjectID, patch *models.RewardPolicyPatch) (*models.RewardPolicy, bool, error)
	GetPolicy(ctx context.Context, adminID primitive.ObjectID) (*models.RewardPolicy, error)
	DeletePolicy(ctx context.Context, adminID primitive.ObjectID) error
	UpdatePointsExpiry(ctx context.Context, adminID primitive.ObjectID, days int) (*models.RewardPolicy, error)
	UpsertThreshold(ctx context.Context, adminID primitive.ObjectID, threshold models.SpendThreshold) (*models.RewardPolicy, error)
	UpsertCategoryRule(ctx context.Context, adminID primitive.ObjectID, rule models.CategoryRule) (*models.RewardPolicy, error)
	UpsertTierRule(ctx context.Context, adminID primitive.ObjectID, rule models.TierRule) (*models.RewardPolicy, error)
	GetTierRules(ctx context.Context, adminID primitive.ObjectID) ([]models.TierRule, error)
	GetSummary(ctx context.Context, adminID primitive.ObjectID) (*models.PolicySummary, error)
}

// SpinWheelService orchestrates one spin attempt for a customer
type SpinWheelService interface {
	Spin(ctx context.Context, customerID primitive.ObjectID) (*models.SpinResult, error)
}

// CustomerService defines customer profile and ledger operations
type CustomerService interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error)
	// ListForAdmin returns all customers enrolled with a business.
	ListForAdmin(ctx context.Context, adminID primitive.ObjectID) ([]*models.Customer, error)
	// PolicyForCustomer resolves the policy of the business the customer is
	// enrolled with.
	PolicyForCustomer(ctx context.Context, customerID primitive.ObjectID) (*models.RewardPolicy, error)
	// Redeem debits points across the oldest active history entries and
	// returns the updated customer.
	Redeem(ctx context.Context, customerID primitive.ObjectID, points int) (*models.Customer, error)
	// EarnOnPurchase awards policy-driven points for a purchase and returns
	// the points granted with the updated customer.
	EarnOnPurchase(ctx context.Context, customerID primitive.ObjectID, amount float64, category string) (int, *models.Customer, error)
	// ExpirePoints marks lapsed entries expired and debits the cached
	// balance; returns the number of points expired.
	ExpirePoints(ctx context.Context, customerID primitive.ObjectID) (int, error)
}

// AuthService defines registration and login for admins and customers
type AuthService interface {
	RegisterAdmin(ctx context.Context, req *models.AdminRegisterRequest) (*models.AdminUser, error)
	LoginAdmin(ctx context.Context, req *models.LoginRequest) (string, error)
	RegisterCustomer(ctx context.Context, req *models.CustomerRegisterRequest) (*models.Customer, error)
	LoginCustomer(ctx context.Context, req *models.LoginRequest) (string, error)
}

// PolicyCache is a staleness-tolerant read cache for policies. Implementations
// are best-effort: a failed lookup is a miss, a failed write is dropped.
type PolicyCache interface {
	Get(ctx context.Context, adminID primitive.ObjectID) (*models.RewardPolicy, bool)
	Set(ctx context.Context, policy *models.RewardPolicy)
	Invalidate(ctx context.Context, adminID primitive.ObjectID)
}
