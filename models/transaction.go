// models/transaction.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Wallet transaction types
const (
	TxCredit = "credit"
	TxDebit  = "debit"
)

// WalletTransaction is an immutable audit-trail entry for a balance movement.
type WalletTransaction struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"userId" bson:"userId"`
	Amount      int64              `json:"amount" bson:"amount"`
	Type        string             `json:"type" bson:"type"` // "credit" or "debit"
	Description string             `json:"description" bson:"description"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}
