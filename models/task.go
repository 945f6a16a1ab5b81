// models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task types
const (
	TaskVideo = "video"
	TaskForm  = "form"
)

// Task records one completed earning task (ad video watched or form filled).
// Unlike money-movement requests, tasks credit the wallet immediately.
type Task struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Type      string             `json:"type" bson:"type"`
	Amount    int64              `json:"amount" bson:"amount"`
	Data      *FormFillFields    `json:"data,omitempty" bson:"data,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
