// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// User model
type User struct {
	ID                   primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Email                string             `json:"email" bson:"email"`
	Password             string             `json:"password,omitempty" bson:"password"`
	DisplayName          string             `json:"displayName" bson:"displayName"`
	EeID                 string             `json:"eeId" bson:"eeId"` // human-readable external id, e.g. "ES-556378"
	Role                 string             `json:"role" bson:"role"` // "user", "admin", "superadmin"
	WalletBalance        int64              `json:"walletBalance" bson:"walletBalance"`
	VideoEarnings        int64              `json:"videoEarnings" bson:"videoEarnings"`
	FormEarnings         int64              `json:"formEarnings" bson:"formEarnings"`
	ReferralCode         string             `json:"referralCode,omitempty" bson:"referralCode,omitempty"`
	ReferredBy           string             `json:"referredBy,omitempty" bson:"referredBy,omitempty"`
	ReferralCount        int64              `json:"referralCount" bson:"referralCount"`
	ReferralEarnings     int64              `json:"referralEarnings" bson:"referralEarnings"`
	ReferralPending      int64              `json:"referralPending" bson:"referralPending"`
	IsActive             bool               `json:"isActive" bson:"isActive"`
	IsInitiallyActivated bool               `json:"isInitiallyActivated" bson:"isInitiallyActivated"`
	FCMToken             string             `json:"fcmToken,omitempty" bson:"fcmToken,omitempty"`
	CreatedAt            time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// IsAdmin reports whether the user may settle requests and activate accounts.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperadmin
}

// RegisterRequest is the signup payload
type RegisterRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	DisplayName  string `json:"displayName" validate:"required"`
	ReferralCode string `json:"referralCode,omitempty"`
	FCMToken     string `json:"fcmToken,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UpdateRoleRequest is the CEO role-management payload
type UpdateRoleRequest struct {
	UserID string `json:"userId" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=user admin"`
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
