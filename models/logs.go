// models/logs.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin action outcomes
const (
	OutcomeSuccess   = "success"
	OutcomeUnsuccess = "unsuccess"
)

// AdminActionLog records one settlement decision. Exactly one entry is
// written per decision; the settlement engine never reads these back.
type AdminActionLog struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AdminID      primitive.ObjectID `json:"adminId" bson:"adminId"`
	AdminName    string             `json:"adminName" bson:"adminName"`
	Action       string             `json:"action" bson:"action"` // e.g. "withdraw_approve", "topup_reject"
	TargetUserID primitive.ObjectID `json:"targetUserId" bson:"targetUserId"`
	RequestID    primitive.ObjectID `json:"requestId" bson:"requestId"`
	Outcome      string             `json:"outcome" bson:"outcome"` // "success" or "unsuccess"
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}

// ActivationLog records a user transitioning isActive false -> true.
type ActivationLog struct {
	ID                 primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AdminID            primitive.ObjectID `json:"adminId" bson:"adminId"`
	AdminEmail         string             `json:"adminEmail" bson:"adminEmail"`
	ActivatedUserID    primitive.ObjectID `json:"activatedUserId" bson:"activatedUserId"`
	ActivatedUserEmail string             `json:"activatedUserEmail" bson:"activatedUserEmail"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
}

// ActivityFilter narrows the admin-activity report. StartDate is inclusive;
// EndDate is extended by one day and treated as exclusive.
type ActivityFilter struct {
	AdminID        *primitive.ObjectID `json:"adminId,omitempty"`
	ActionContains string              `json:"actionContains,omitempty"`
	Outcome        string              `json:"outcome,omitempty"`
	StartDate      *time.Time          `json:"startDate,omitempty"`
	EndDate        *time.Time          `json:"endDate,omitempty"`
}

// AdminActivitySummary aggregates one admin's settlement outcomes.
type AdminActivitySummary struct {
	AdminID        primitive.ObjectID `json:"adminId"`
	AdminName      string             `json:"adminName"`
	SuccessCount   int64              `json:"successCount"`
	UnsuccessCount int64              `json:"unsuccessCount"`
	Total          int64              `json:"total"`
}
