package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultPointsExpiryDays is applied when a policy is created without an
// explicit expiry configuration.
const DefaultPointsExpiryDays = 365

// SpinWheelSegment is one possible spin outcome. Probability is uniform over
// the segment list; repeating a segment is the only way to bias it.
type SpinWheelSegment struct {
	Label  string `bson:"label,omitempty" json:"label,omitempty"`
	Points int    `bson:"points" json:"points"`
}

// SpendThreshold awards bonus points once a purchase reaches MinAmount.
type SpendThreshold struct {
	MinAmount   float64 `bson:"minAmount" json:"minAmount"`
	BonusPoints int     `bson:"bonusPoints" json:"bonusPoints"`
}

// CategoryRule controls base earning for purchases in a category.
type CategoryRule struct {
	Category     string  `bson:"category" json:"category"`
	PointsPer100 int     `bson:"pointsPer100" json:"pointsPer100"`
	MinAmount    float64 `bson:"minAmount" json:"minAmount"`
	BonusPoints  int     `bson:"bonusPoints" json:"bonusPoints"`
}

// TierRule maps a balance threshold to an earning multiplier and benefits.
type TierRule struct {
	TierName   string   `bson:"tierName" json:"tierName"`
	MinPoints  int      `bson:"minPoints" json:"minPoints"`
	Multiplier float64  `bson:"multiplier" json:"multiplier"`
	Benefits   []string `bson:"benefits,omitempty" json:"benefits,omitempty"`
}

// RewardPolicy is the full reward configuration for one business. At most one
// policy exists per admin.
type RewardPolicy struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AdminID            primitive.ObjectID `bson:"adminId" json:"adminId"`
	SpinWheelSegments  []SpinWheelSegment `bson:"spinWheelSegments" json:"spinWheelSegments"`
	SpinWheelMinPoints int                `bson:"spinWheelMinPoints" json:"spinWheelMinPoints"`
	PointsExpiryDays   int                `bson:"pointsExpiryDays" json:"pointsExpiryDays"`
	SpendThresholds    []SpendThreshold   `bson:"spendThresholds" json:"spendThresholds"`
	CategoryRules      []CategoryRule     `bson:"categoryRules" json:"categoryRules"`
	TierRules          []TierRule         `bson:"tierRules" json:"tierRules"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RewardPolicyPatch carries the fields an admin may set when creating or
// updating a policy. A zero PointsExpiryDays means "leave the stored value
// alone" so a partial update can never clear expiry configuration.
type RewardPolicyPatch struct {
	SpinWheelSegments  []SpinWheelSegment `json:"spinWheelSegments"`
	SpinWheelMinPoints *int               `json:"spinWheelMinPoints"`
	PointsExpiryDays   int                `json:"pointsExpiryDays"`
}

// TierForBalance returns the highest tier whose MinPoints the balance meets,
// or nil when no tier matches.
func (p *RewardPolicy) TierForBalance(balance int) *TierRule {
	var best *TierRule
	for i := range p.TierRules {
		rule := &p.TierRules[i]
		if balance >= rule.MinPoints && (best == nil || rule.MinPoints > best.MinPoints) {
			best = rule
		}
	}
	return best
}
