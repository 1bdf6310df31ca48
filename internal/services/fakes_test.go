package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/rewardsuite/rms-backend/internal/models"
	"github.com/rewardsuite/rms-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory repository fakes. Mutations go through deep copies so tests
// observe the same isolation the real driver gives.

type fakePolicyRepo struct {
	mu       sync.Mutex
	policies map[primitive.ObjectID]*models.RewardPolicy
	finds    int
}

var _ repositories.RewardPolicyRepository = (*fakePolicyRepo)(nil)

func newFakePolicyRepo() *fakePolicyRepo {
	return &fakePolicyRepo{policies: make(map[primitive.ObjectID]*models.RewardPolicy)}
}

func copyPolicy(p *models.RewardPolicy) *models.RewardPolicy {
	cp := *p
	cp.SpinWheelSegments = append([]models.SpinWheelSegment(nil), p.SpinWheelSegments...)
	cp.SpendThresholds = append([]models.SpendThreshold(nil), p.SpendThresholds...)
	cp.CategoryRules = append([]models.CategoryRule(nil), p.CategoryRules...)
	cp.TierRules = append([]models.TierRule(nil), p.TierRules...)
	return &cp
}

func (r *fakePolicyRepo) Create(ctx context.Context, policy *models.RewardPolicy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.policies[policy.AdminID]; ok {
		// Same shape the unique index on adminId produces.
		return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	}
	policy.ID = primitive.NewObjectID()
	policy.CreatedAt = time.Now()
	policy.UpdatedAt = time.Now()
	r.policies[policy.AdminID] = copyPolicy(policy)
	return nil
}

func (r *fakePolicyRepo) FindByAdminID(ctx context.Context, adminID primitive.ObjectID) (*models.RewardPolicy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	policy, ok := r.policies[adminID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return copyPolicy(policy), nil
}

func (r *fakePolicyRepo) Update(ctx context.Context, policy *models.RewardPolicy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.policies[policy.AdminID]; !ok {
		return mongo.ErrNoDocuments
	}
	policy.UpdatedAt = time.Now()
	r.policies[policy.AdminID] = copyPolicy(policy)
	return nil
}

func (r *fakePolicyRepo) DeleteByAdminID(ctx context.Context, adminID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.policies[adminID]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.policies, adminID)
	return nil
}

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[primitive.ObjectID]*models.Customer
}

var _ repositories.CustomerRepository = (*fakeCustomerRepo)(nil)

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[primitive.ObjectID]*models.Customer)}
}

func copyCustomer(c *models.Customer) *models.Customer {
	cp := *c
	cp.PointsHistory = append([]models.PointsEntry(nil), c.PointsHistory...)
	return &cp
}

func (r *fakeCustomerRepo) Create(ctx context.Context, customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer.ID = primitive.NewObjectID()
	if customer.PointsHistory == nil {
		customer.PointsHistory = []models.PointsEntry{}
	}
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = time.Now()
	r.customers[customer.ID] = copyCustomer(customer)
	return nil
}

func (r *fakeCustomerRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return copyCustomer(customer), nil
}

func (r *fakeCustomerRepo) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, customer := range r.customers {
		if customer.Email == email {
			return copyCustomer(customer), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeCustomerRepo) FindByAdminID(ctx context.Context, adminID primitive.ObjectID) ([]*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []*models.Customer{}
	for _, customer := range r.customers {
		if customer.AdminID == adminID {
			result = append(result, copyCustomer(customer))
		}
	}
	return result, nil
}

func (r *fakeCustomerRepo) AwardPoints(ctx context.Context, id primitive.ObjectID, entry models.PointsEntry, minBalance int) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[id]
	if !ok || customer.PointsBalance < minBalance {
		return nil, mongo.ErrNoDocuments
	}
	customer.PointsHistory = append(customer.PointsHistory, entry)
	customer.PointsBalance += entry.Points
	customer.UpdatedAt = time.Now()
	return copyCustomer(customer), nil
}

func (r *fakeCustomerRepo) UpdateGuarded(ctx context.Context, customer *models.Customer, expectedBalance int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.customers[customer.ID]
	if !ok || existing.PointsBalance != expectedBalance {
		return mongo.ErrNoDocuments
	}
	customer.UpdatedAt = time.Now()
	r.customers[customer.ID] = copyCustomer(customer)
	return nil
}

type fakeTransactionRepo struct {
	mu           sync.Mutex
	transactions []*models.Transaction
}

var _ repositories.TransactionRepository = (*fakeTransactionRepo)(nil)

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{}
}

func (r *fakeTransactionRepo) Create(ctx context.Context, transaction *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	transaction.ID = primitive.NewObjectID()
	transaction.CreatedAt = time.Now()
	cp := *transaction
	r.transactions = append(r.transactions, &cp)
	return nil
}

func (r *fakeTransactionRepo) FindByAdminID(ctx context.Context, adminID primitive.ObjectID) ([]*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []*models.Transaction{}
	for _, t := range r.transactions {
		if t.AdminID == adminID {
			cp := *t
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *fakeTransactionRepo) FindByCustomerID(ctx context.Context, customerID primitive.ObjectID) ([]*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []*models.Transaction{}
	for _, t := range r.transactions {
		if t.CustomerID == customerID {
			cp := *t
			result = append(result, &cp)
		}
	}
	return result, nil
}

type fakeAdminRepo struct {
	mu     sync.Mutex
	admins map[primitive.ObjectID]*models.AdminUser
}

var _ repositories.AdminUserRepository = (*fakeAdminRepo)(nil)

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: make(map[primitive.ObjectID]*models.AdminUser)}
}

func (r *fakeAdminRepo) Create(ctx context.Context, admin *models.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	admin.ID = primitive.NewObjectID()
	admin.CreatedAt = time.Now()
	admin.UpdatedAt = time.Now()
	cp := *admin
	r.admins[admin.ID] = &cp
	return nil
}

func (r *fakeAdminRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	admin, ok := r.admins[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *admin
	return &cp, nil
}

func (r *fakeAdminRepo) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, admin := range r.admins {
		if admin.Email == email {
			cp := *admin
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

// fakePolicyCache records cache traffic for assertions.
type fakePolicyCache struct {
	mu            sync.Mutex
	store         map[primitive.ObjectID]*models.RewardPolicy
	hits, sets    int
	invalidations int
}

func newFakePolicyCache() *fakePolicyCache {
	return &fakePolicyCache{store: make(map[primitive.ObjectID]*models.RewardPolicy)}
}

func (c *fakePolicyCache) Get(ctx context.Context, adminID primitive.ObjectID) (*models.RewardPolicy, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	policy, ok := c.store[adminID]
	if !ok {
		return nil, false
	}
	c.hits++
	return copyPolicy(policy), true
}

func (c *fakePolicyCache) Set(ctx context.Context, policy *models.RewardPolicy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.store[policy.AdminID] = copyPolicy(policy)
}

func (c *fakePolicyCache) Invalidate(ctx context.Context, adminID primitive.ObjectID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
	delete(c.store, adminID)
}
