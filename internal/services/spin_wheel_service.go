package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rewardsuite/rms-backend/internal/models"
	"github.com/rewardsuite/rms-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure SpinWheelServiceImpl implements SpinWheelService
var _ SpinWheelService = (*SpinWheelServiceImpl)(nil)

// SpinWheelServiceImpl orchestrates one spin: resolve the customer's business,
// load the policy, enforce eligibility, pick a segment and record the award.
type SpinWheelServiceImpl struct {
	customerRepo    repositories.CustomerRepository
	transactionRepo repositories.TransactionRepository
	policyService   RewardPolicyService
}

// NewSpinWheelService creates a new SpinWheelServiceImpl
func NewSpinWheelService(
	customerRepo repositories.CustomerRepository,
	transactionRepo repositories.TransactionRepository,
	policyService RewardPolicyService,
) *SpinWheelServiceImpl {
	return &SpinWheelServiceImpl{
		customerRepo:    customerRepo,
		transactionRepo: transactionRepo,
		policyService:   policyService,
	}
}

// Spin runs one spin attempt for the customer. The business context comes
// from the customer's enrollment, never from the caller. Any failure before
// the award leaves all state untouched; the award itself appends the history
// entry and increments the balance in a single guarded document update, so a
// concurrent spin can never push an ineligible balance past the minimum.
func (s *SpinWheelServiceImpl) Spin(ctx context.Context, customerID primitive.ObjectID) (*models.SpinResult, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to fetch customer: %w", err)
	}

	policy, err := s.policyService.GetPolicy(ctx, customer.AdminID)
	if err != nil {
		if errors.Is(err, ErrNoPolicy) {
			return nil, ErrPolicyNotFound
		}
		return nil, err
	}

	if len(policy.SpinWheelSegments) == 0 {
		return nil, ErrNoSpinSegments
	}

	if customer.PointsBalance < policy.SpinWheelMinPoints {
		return nil, &InsufficientPointsError{Required: policy.SpinWheelMinPoints}
	}

	wonSegment := policy.SpinWheelSegments[rand.Intn(len(policy.SpinWheelSegments))]

	now := time.Now()
	entry := models.PointsEntry{
		Points:    wonSegment.Points,
		Redeemed:  false,
		EarnedAt:  now,
		ExpiresAt: now.AddDate(0, 0, policy.PointsExpiryDays),
	}

	// The minimum-balance guard re-checks eligibility inside the same write
	// that grants the points. A lost race surfaces as ErrNoDocuments here.
	updated, err := s.customerRepo.AwardPoints(ctx, customer.ID, entry, policy.SpinWheelMinPoints)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if _, findErr := s.customerRepo.FindByID(ctx, customer.ID); findErr != nil {
				return nil, ErrCustomerNotFound
			}
			return nil, &InsufficientPointsError{Required: policy.SpinWheelMinPoints}
		}
		return nil, fmt.Errorf("failed to record spin award: %w", err)
	}

	// Reporting only; the ledger is already consistent.
	transaction := &models.Transaction{
		AdminID:      customer.AdminID,
		CustomerID:   customer.ID,
		Source:       models.SourceSpinWheel,
		EarnedPoints: wonSegment.Points,
	}
	if err := s.transactionRepo.Create(ctx, transaction); err != nil {
		slog.Warn("Failed to record spin transaction", "error", err, "customerId", customer.ID.Hex())
	}

	slog.Info("Spin wheel award granted",
		"customerId", customer.ID.Hex(),
		"adminId", customer.AdminID.Hex(),
		"wonPoints", wonSegment.Points,
		"pointsBalance", updated.PointsBalance,
	)

	return &models.SpinResult{
		Message:       fmt.Sprintf("Congratulations! You won %d points.", wonSegment.Points),
		WonPoints:     wonSegment.Points,
		PointsBalance: updated.PointsBalance,
	}, nil
}
