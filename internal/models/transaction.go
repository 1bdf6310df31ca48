package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionSource identifies what produced a points transaction.
type TransactionSource string

const (
	SourceSpinWheel  TransactionSource = "SPIN_WHEEL"
	SourcePurchase   TransactionSource = "PURCHASE"
	SourceRedemption TransactionSource = "REDEMPTION"
)

// Transaction is the reporting record written alongside every earn or redeem.
// The points ledger lives on the customer document; transactions exist for
// per-business aggregation only.
type Transaction struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AdminID        primitive.ObjectID `bson:"adminId" json:"adminId"`
	CustomerID     primitive.ObjectID `bson:"customerId" json:"customerId"`
	Source         TransactionSource  `bson:"source" json:"source"`
	EarnedPoints   int                `bson:"earnedPoints" json:"earnedPoints"`
	RedeemedPoints int                `bson:"redeemedPoints" json:"redeemedPoints"`
	Amount         float64            `bson:"amount,omitempty" json:"amount,omitempty"`
	Category       string             `bson:"category,omitempty" json:"category,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// PolicySummary is the per-business rollup over all transactions.
type PolicySummary struct {
	TotalTransactions   int `json:"totalTransactions"`
	TotalPointsIssued   int `json:"totalPointsIssued"`
	TotalPointsRedeemed int `json:"totalPointsRedeemed"`
	OutstandingPoints   int `json:"outstandingPoints"`
}
