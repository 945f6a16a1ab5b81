// models/request.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestKind identifies a money-movement request collection.
type RequestKind string

const (
	KindTopup    RequestKind = "topup"
	KindWithdraw RequestKind = "withdraw"
	KindRecharge RequestKind = "recharge"
	KindGmail    RequestKind = "gmail"
	KindForm     RequestKind = "form"
)

// CollectionName maps a request kind to its document-store collection.
func (k RequestKind) CollectionName() string {
	switch k {
	case KindTopup:
		return "topups"
	case KindWithdraw:
		return "withdraws"
	case KindRecharge:
		return "recharges"
	case KindGmail:
		return "gmailSales"
	case KindForm:
		return "formSubmissions"
	}
	return ""
}

// RequestStatus is the unified status enum shared by every request collection.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusSuccess  RequestStatus = "success"
	StatusRejected RequestStatus = "rejected"
)

// Terminal reports whether the status is final.
func (s RequestStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusRejected
}

// RequestBase carries the fields common to all money-movement requests.
type RequestBase struct {
	ID          primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID      primitive.ObjectID  `json:"userId" bson:"userId"`
	UserEmail   string              `json:"userEmail" bson:"userEmail"`
	Status      RequestStatus       `json:"status" bson:"status"`
	AdminID     *primitive.ObjectID `json:"adminId,omitempty" bson:"adminId,omitempty"`
	ProcessedAt *time.Time          `json:"processedAt,omitempty" bson:"processedAt,omitempty"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
}

// TopupRequest is a claim that the user paid money in via a mobile payment rail.
type TopupRequest struct {
	RequestBase   `bson:",inline"`
	Amount        int64  `json:"amount" bson:"amount"`
	Method        string `json:"method" bson:"method"` // "bKash" or "Nagad"
	SenderNumber  string `json:"senderNumber" bson:"senderNumber"`
	ScreenshotURL string `json:"screenshotUrl" bson:"screenshotUrl"`
}

type WithdrawRequest struct {
	RequestBase `bson:",inline"`
	Amount      int64  `json:"amount" bson:"amount"`
	Method      string `json:"method" bson:"method"`
	Number      string `json:"number" bson:"number"`
}

type RechargeRequest struct {
	RequestBase  `bson:",inline"`
	Amount       int64  `json:"amount" bson:"amount"`
	MobileNumber string `json:"mobileNumber" bson:"mobileNumber"`
	Bonus        int64  `json:"bonus" bson:"bonus"`
}

// GmailSaleRequest holds the credential payload the user is selling.
type GmailSaleRequest struct {
	RequestBase   `bson:",inline"`
	Gmail         string `json:"gmail" bson:"gmail"`
	GmailPassword string `json:"password" bson:"password"`
	Reward        int64  `json:"reward" bson:"reward"`
}

type FormSubmission struct {
	RequestBase `bson:",inline"`
	Amount      int64          `json:"amount" bson:"amount"`
	Data        FormFillFields `json:"data" bson:"data"`
}

type FormFillFields struct {
	Name     string `json:"name" bson:"name"`
	Feedback string `json:"feedback" bson:"feedback"`
	Rating   string `json:"rating" bson:"rating"`
}

// SettlementView is the kind-independent projection the settlement engine
// works with: who owns the request and how much money moves on approval.
type SettlementView struct {
	Kind      RequestKind
	ID        primitive.ObjectID
	UserID    primitive.ObjectID
	UserEmail string
	Amount    int64
	Bonus     int64
	Status    RequestStatus
}

// Submission payloads bound from the client. The balance pre-checks on these
// are a UX convenience; the authoritative check happens at settlement time.

type SubmitTopupRequest struct {
	Amount        int64  `json:"amount" validate:"required,gt=0"`
	Method        string `json:"method" validate:"required,oneof=bKash Nagad"`
	SenderNumber  string `json:"senderNumber" validate:"required"`
	ScreenshotURL string `json:"screenshotUrl" validate:"required,url"`
}

type SubmitWithdrawRequest struct {
	Amount int64  `json:"amount" validate:"required,gt=0"`
	Method string `json:"method" validate:"required,oneof=bKash Nagad"`
	Number string `json:"number" validate:"required"`
}

type SubmitRechargeRequest struct {
	Amount       int64  `json:"amount" validate:"required,gt=0"`
	MobileNumber string `json:"mobileNumber" validate:"required"`
}

type SubmitGmailSaleRequest struct {
	Gmail    string `json:"gmail" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SettleRequestBody is the admin decision payload.
type SettleRequestBody struct {
	RequestType string `json:"requestType" validate:"required,oneof=topup withdraw recharge gmail form"`
	RequestID   string `json:"requestId" validate:"required"`
	Action      string `json:"action" validate:"required,oneof=approve reject"`
}
