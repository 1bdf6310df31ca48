package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rewardsuite/rms-backend/internal/models"
	"github.com/rewardsuite/rms-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure CustomerServiceImpl implements CustomerService
var _ CustomerService = (*CustomerServiceImpl)(nil)

// maxBalanceRetries bounds the optimistic read-modify-write loops used by
// redemption and the expiry sweep.
const maxBalanceRetries = 3

// CustomerServiceImpl handles customer profile and ledger operations
type CustomerServiceImpl struct {
	customerRepo    repositories.CustomerRepository
	transactionRepo repositories.TransactionRepository
	policyService   RewardPolicyService
}

// NewCustomerService creates a new CustomerServiceImpl
func NewCustomerService(
	customerRepo repositories.CustomerRepository,
	transactionRepo repositories.TransactionRepository,
	policyService RewardPolicyService,
) *CustomerServiceImpl {
	return &CustomerServiceImpl{
		customerRepo:    customerRepo,
		transactionRepo: transactionRepo,
		policyService:   policyService,
	}
}

// GetByID returns the customer with their points balance and history
func (s *CustomerServiceImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to fetch customer: %w", err)
	}
	return customer, nil
}

// ListForAdmin returns all customers enrolled with a business
func (s *CustomerServiceImpl) ListForAdmin(ctx context.Context, adminID primitive.ObjectID) ([]*models.Customer, error) {
	customers, err := s.customerRepo.FindByAdminID(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// PolicyForCustomer resolves the reward policy of the business the customer
// is enrolled with.
func (s *CustomerServiceImpl) PolicyForCustomer(ctx context.Context, customerID primitive.ObjectID) (*models.RewardPolicy, error) {
	customer, err := s.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.policyService.GetPolicy(ctx, customer.AdminID)
}

// Redeem debits points across the oldest active history entries. An entry
// larger than the remaining debit is marked redeemed and its residual points
// re-appended with the original grant and expiry dates, so the debit is
// exact and history stays append-only. The whole read-modify-write is guarded
// by the stored balance and retried on conflict.
func (s *CustomerServiceImpl) Redeem(ctx context.Context, customerID primitive.ObjectID, points int) (*models.Customer, error) {
	if points <= 0 {
		return nil, errors.New("points to redeem must be positive")
	}

	for attempt := 0; attempt < maxBalanceRetries; attempt++ {
		customer, err := s.GetByID(ctx, customerID)
		if err != nil {
			return nil, err
		}
		expectedBalance := customer.PointsBalance

		now := time.Now()
		markLapsedEntries(customer, now)
		available := activePoints(customer, now)
		if points > available {
			return nil, ErrInsufficientBalance
		}

		remaining := points
		for i := range customer.PointsHistory {
			entry := &customer.PointsHistory[i]
			if !entry.Active(now) {
				continue
			}
			if entry.Points <= remaining {
				entry.Redeemed = true
				remaining -= entry.Points
			} else {
				residual := entry.Points - remaining
				entry.Redeemed = true
				customer.PointsHistory = append(customer.PointsHistory, models.PointsEntry{
					Points:    residual,
					EarnedAt:  entry.EarnedAt,
					ExpiresAt: entry.ExpiresAt,
				})
				remaining = 0
			}
			if remaining == 0 {
				break
			}
		}
		customer.PointsBalance = available - points

		if err := s.customerRepo.UpdateGuarded(ctx, customer, expectedBalance); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue // balance moved under us, retry
			}
			return nil, fmt.Errorf("failed to persist redemption: %w", err)
		}

		transaction := &models.Transaction{
			AdminID:        customer.AdminID,
			CustomerID:     customer.ID,
			Source:         models.SourceRedemption,
			RedeemedPoints: points,
		}
		if err := s.transactionRepo.Create(ctx, transaction); err != nil {
			slog.Warn("Failed to record redemption transaction", "error", err, "customerId", customer.ID.Hex())
		}

		slog.Info("Points redeemed", "customerId", customer.ID.Hex(), "points", points, "pointsBalance", customer.PointsBalance)
		return customer, nil
	}

	return nil, errors.New("redemption conflicted with concurrent updates, please retry")
}

// EarnOnPurchase awards policy-driven points for a purchase. Category rules
// give the base rate, spend thresholds add a bonus, and the customer's tier
// multiplies the total. A purchase matching no rule awards nothing.
func (s *CustomerServiceImpl) EarnOnPurchase(ctx context.Context, customerID primitive.ObjectID, amount float64, category string) (int, *models.Customer, error) {
	if amount <= 0 {
		return 0, nil, errors.New("purchase amount must be positive")
	}

	customer, err := s.GetByID(ctx, customerID)
	if err != nil {
		return 0, nil, err
	}

	policy, err := s.policyService.GetPolicy(ctx, customer.AdminID)
	if err != nil {
		return 0, nil, err
	}

	points := earnedPointsFor(policy, customer.PointsBalance, amount, category)
	if points <= 0 {
		return 0, customer, nil
	}

	now := time.Now()
	entry := models.PointsEntry{
		Points:    points,
		EarnedAt:  now,
		ExpiresAt: now.AddDate(0, 0, policy.PointsExpiryDays),
	}
	updated, err := s.customerRepo.AwardPoints(ctx, customer.ID, entry, 0)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil, ErrCustomerNotFound
		}
		return 0, nil, fmt.Errorf("failed to record purchase award: %w", err)
	}

	transaction := &models.Transaction{
		AdminID:      customer.AdminID,
		CustomerID:   customer.ID,
		Source:       models.SourcePurchase,
		EarnedPoints: points,
		Amount:       amount,
		Category:     category,
	}
	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		slog.Warn("Failed to record purchase transaction", "error", err, "customerId", customer.ID.Hex())
	}

	slog.Info("Purchase points awarded", "customerId", customer.ID.Hex(), "amount", amount, "category", category, "points", points)
	return points, updated, nil
}

// ExpirePoints marks lapsed history entries expired and debits the cached
// balance down to the sum of the remaining active entries.
func (s *CustomerServiceImpl) ExpirePoints(ctx context.Context, customerID primitive.ObjectID) (int, error) {
	for attempt := 0; attempt < maxBalanceRetries; attempt++ {
		customer, err := s.GetByID(ctx, customerID)
		if err != nil {
			return 0, err
		}
		expectedBalance := customer.PointsBalance

		now := time.Now()
		expired := markLapsedEntries(customer, now)
		if expired == 0 {
			return 0, nil
		}
		customer.PointsBalance = activePoints(customer, now)

		if err := s.customerRepo.UpdateGuarded(ctx, customer, expectedBalance); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				continue
			}
			return 0, fmt.Errorf("failed to persist expiry sweep: %w", err)
		}

		slog.Info("Expired points swept", "customerId", customer.ID.Hex(), "expiredPoints", expired, "pointsBalance", customer.PointsBalance)
		return expired, nil
	}

	return 0, errors.New("expiry sweep conflicted with concurrent updates, please retry")
}

// markLapsedEntries flags entries past their expiry and returns the points
// they held.
func markLapsedEntries(customer *models.Customer, now time.Time) int {
	expired := 0
	for i := range customer.PointsHistory {
		entry := &customer.PointsHistory[i]
		if entry.Redeemed || entry.Expired {
			continue
		}
		if !entry.ExpiresAt.After(now) {
			entry.Expired = true
			expired += entry.Points
		}
	}
	return expired
}

// activePoints sums the entries still counting towards the balance.
func activePoints(customer *models.Customer, now time.Time) int {
	total := 0
	for i := range customer.PointsHistory {
		if customer.PointsHistory[i].Active(now) {
			total += customer.PointsHistory[i].Points
		}
	}
	return total
}

// earnedPointsFor computes the points a purchase earns under a policy.
func earnedPointsFor(policy *models.RewardPolicy, balance int, amount float64, category string) int {
	points := 0
	for _, rule := range policy.CategoryRules {
		if strings.EqualFold(rule.Category, category) {
			if amount >= rule.MinAmount {
				points += rule.PointsPer100 * int(amount/100)
				points += rule.BonusPoints
			}
			break
		}
	}

	var best *models.SpendThreshold
	for i := range policy.SpendThresholds {
		threshold := &policy.SpendThresholds[i]
		if amount >= threshold.MinAmount && (best == nil || threshold.MinAmount > best.MinAmount) {
			best = threshold
		}
	}
	if best != nil {
		points += best.BonusPoints
	}

	if tier := policy.TierForBalance(balance); tier != nil && tier.Multiplier > 0 {
		points = int(float64(points) * tier.Multiplier)
	}
	if points < 0 {
		return 0
	}
	return points
}
