package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rewardsuite/rms-backend/internal/models"
	"github.com/rewardsuite/rms-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure RewardPolicyServiceImpl implements RewardPolicyService
var _ RewardPolicyService = (*RewardPolicyServiceImpl)(nil)

// RewardPolicyServiceImpl handles policy configuration and reporting
type RewardPolicyServiceImpl struct {
	policyRepo      repositories.RewardPolicyRepository
	transactionRepo repositories.TransactionRepository
	cache           PolicyCache // optional, nil disables caching
}

// NewRewardPolicyService creates a new RewardPolicyServiceImpl. cache may be
// nil, in which case every read goes to the repository.
func NewRewardPolicyService(
	policyRepo repositories.RewardPolicyRepository,
	transactionRepo repositories.TransactionRepository,
	cache PolicyCache,
) *RewardPolicyServiceImpl {
	return &RewardPolicyServiceImpl{
		policyRepo:      policyRepo,
		transactionRepo: transactionRepo,
		cache:           cache,
	}
}

// UpsertPolicy creates the admin's policy or merges the patch over the
// existing one. An absent or zero pointsExpiryDays in the patch preserves the
// stored value, so a partial update can never clear expiry configuration.
func (s *RewardPolicyServiceImpl) UpsertPolicy(ctx context.Context, adminID primitive.ObjectID, patch *models.RewardPolicyPatch) (*models.RewardPolicy, bool, error) {
	policy, err := s.policyRepo.FindByAdminID(ctx, adminID)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, fmt.Errorf("failed to look up policy: %w", err)
		}

		policy = &models.RewardPolicy{
			AdminID:           adminID,
			SpinWheelSegments: patch.SpinWheelSegments,
			PointsExpiryDays:  patch.PointsExpiryDays,
			SpendThresholds:   []models.SpendThreshold{},
			CategoryRules:     []models.CategoryRule{},
			TierRules:         []models.TierRule{},
		}
		if policy.SpinWheelSegments == nil {
			policy.SpinWheelSegments = []models.SpinWheelSegment{}
		}
		if patch.SpinWheelMinPoints != nil {
			policy.SpinWheelMinPoints = *patch.SpinWheelMinPoints
		}
		if policy.PointsExpiryDays <= 0 {
			policy.PointsExpiryDays = models.DefaultPointsExpiryDays
		}
		err := s.policyRepo.Create(ctx, policy)
		if err == nil {
			slog.Info("Reward policy created", "adminId", adminID.Hex())
			return policy, true, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return nil, false, fmt.Errorf("failed to create policy: %w", err)
		}
		// Lost a concurrent first-time create; the unique index on adminId
		// rejected the insert. Merge the patch over the winner's policy.
		policy, err = s.policyRepo.FindByAdminID(ctx, adminID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to look up policy: %w", err)
		}
	}

	if patch.SpinWheelSegments != nil {
		policy.SpinWheelSegments = patch.SpinWheelSegments
	}
	if patch.SpinWheelMinPoints != nil {
		policy.SpinWheelMinPoints = *patch.SpinWheelMinPoints
	}
	if patch.PointsExpiryDays > 0 {
		policy.PointsExpiryDays = patch.PointsExpiryDays
	}
	if err := s.policyRepo.Update(ctx, policy); err != nil {
		return nil, false, fmt.Errorf("failed to update policy: %w", err)
	}
	s.invalidate(ctx, adminID)
	slog.Info("Reward policy updated", "adminId", adminID.Hex())
	return policy, false, nil
}

// GetPolicy returns the admin's policy, serving from the cache when possible.
func (s *RewardPolicyServiceImpl) GetPolicy(ctx context.Context, adminID primitive.ObjectID) (*models.RewardPolicy, error) {
	if s.cache != nil {
		if policy, ok := s.cache.Get(ctx, adminID); ok {
			return policy, nil
		}
	}

	policy, err := s.policyRepo.FindByAdminID(ctx, adminID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoPolicy
		}
		return nil, fmt.Errorf("failed to fetch policy: %w", err)
	}
	if s.cache != nil {
		s.cache.Set(ctx, policy)
	}
	return policy, nil
}

// DeletePolicy removes the admin's policy
func (s *RewardPolicyServiceImpl) DeletePolicy(ctx context.Context, adminID primitive.ObjectID) error {
	if err := s.policyRepo.DeleteByAdminID(ctx, adminID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNoPolicy
		}
		return fmt.Errorf("failed to delete policy: %w", err)
	}
	s.invalidate(ctx, adminID)
	slog.Info("Reward policy deleted", "adminId", adminID.Hex())
	return nil
}

// UpdatePointsExpiry sets pointsExpiryDays. Only future awards are stamped
// with the new duration; existing history entries keep their expiry.
func (s *RewardPolicyServiceImpl) UpdatePointsExpiry(ctx context.Context, adminID primitive.ObjectID, days int) (*models.RewardPolicy, error) {
	if days <= 0 {
		return nil, errors.New("pointsExpiryDays must be positive")
	}
	return s.mutate(ctx, adminID, func(policy *models.RewardPolicy) {
		policy.PointsExpiryDays = days
	})
}

// UpsertThreshold replaces the threshold with the same minAmount in place, or
// appends it.
func (s *RewardPolicyServiceImpl) UpsertThreshold(ctx context.Context, adminID primitive.ObjectID, threshold models.SpendThreshold) (*models.RewardPolicy, error) {
	return s.mutate(ctx, adminID, func(policy *models.RewardPolicy) {
		for i := range policy.SpendThresholds {
			if policy.SpendThresholds[i].MinAmount == threshold.MinAmount {
				policy.SpendThresholds[i].BonusPoints = threshold.BonusPoints
				return
			}
		}
		policy.SpendThresholds = append(policy.SpendThresholds, threshold)
	})
}

// UpsertCategoryRule replaces the rule with the same category in place, or
// appends it.
func (s *RewardPolicyServiceImpl) UpsertCategoryRule(ctx context.Context, adminID primitive.ObjectID, rule models.CategoryRule) (*models.RewardPolicy, error) {
	return s.mutate(ctx, adminID, func(policy *models.RewardPolicy) {
		for i := range policy.CategoryRules {
			if policy.CategoryRules[i].Category == rule.Category {
				policy.CategoryRules[i] = rule
				return
			}
		}
		policy.CategoryRules = append(policy.CategoryRules, rule)
	})
}

// UpsertTierRule replaces the rule with the same tierName in place, or
// appends it.
func (s *RewardPolicyServiceImpl) UpsertTierRule(ctx context.Context, adminID primitive.ObjectID, rule models.TierRule) (*models.RewardPolicy, error) {
	return s.mutate(ctx, adminID, func(policy *models.RewardPolicy) {
		for i := range policy.TierRules {
			if policy.TierRules[i].TierName == rule.TierName {
				policy.TierRules[i] = rule
				return
			}
		}
		policy.TierRules = append(policy.TierRules, rule)
	})
}

// GetTierRules returns the tier rules of the admin's policy
func (s *RewardPolicyServiceImpl) GetTierRules(ctx context.Context, adminID primitive.ObjectID) ([]models.TierRule, error) {
	policy, err := s.GetPolicy(ctx, adminID)
	if err != nil {
		return nil, err
	}
	return policy.TierRules, nil
}

// GetSummary aggregates all transactions for the business. An empty history
// yields the all-zero summary.
func (s *RewardPolicyServiceImpl) GetSummary(ctx context.Context, adminID primitive.ObjectID) (*models.PolicySummary, error) {
	transactions, err := s.transactionRepo.FindByAdminID(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	summary := &models.PolicySummary{TotalTransactions: len(transactions)}
	for _, t := range transactions {
		summary.TotalPointsIssued += t.EarnedPoints
		summary.TotalPointsRedeemed += t.RedeemedPoints
	}
	summary.OutstandingPoints = summary.TotalPointsIssued - summary.TotalPointsRedeemed
	return summary, nil
}

// mutate loads the policy fresh from the repository, applies fn and persists
// the result. Rule upserts go through here so they never operate on a cached
// copy.
func (s *RewardPolicyServiceImpl) mutate(ctx context.Context, adminID primitive.ObjectID, fn func(*models.RewardPolicy)) (*models.RewardPolicy, error) {
	policy, err := s.policyRepo.FindByAdminID(ctx, adminID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoPolicy
		}
		return nil, fmt.Errorf("failed to fetch policy: %w", err)
	}

	fn(policy)

	if err := s.policyRepo.Update(ctx, policy); err != nil {
		return nil, fmt.Errorf("failed to update policy: %w", err)
	}
	s.invalidate(ctx, adminID)
	return policy, nil
}

func (s *RewardPolicyServiceImpl) invalidate(ctx context.Context, adminID primitive.ObjectID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, adminID)
	}
}
