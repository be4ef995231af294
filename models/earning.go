package models

import "time"

// Earning is one settled posting in the provider earnings ledger. The unique
// index on sessionId makes settlement idempotent under task redelivery.
type Earning struct {
	ID         string    `bson:"id" json:"id"`
	SessionID  string    `bson:"sessionId" json:"sessionId"`
	ProviderID string    `bson:"providerId" json:"providerId"`
	Amount     float64   `bson:"amount" json:"amount"`
	Currency   string    `bson:"currency" json:"currency"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// Wallet is a provider's running balance, credited on session completion.
type Wallet struct {
	ProviderID string    `bson:"providerId" json:"providerId"`
	Balance    float64   `bson:"balance" json:"balance"`
	Currency   string    `bson:"currency" json:"currency"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}
