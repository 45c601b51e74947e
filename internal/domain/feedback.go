package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FeedbackStatus string

const (
	FeedbackPending    FeedbackStatus = "pending"
	FeedbackInProgress FeedbackStatus = "in_progress"
	FeedbackResolved   FeedbackStatus = "resolved"
	FeedbackClosed     FeedbackStatus = "closed"
)

func (s FeedbackStatus) Valid() bool {
	switch s {
	case FeedbackPending, FeedbackInProgress, FeedbackResolved, FeedbackClosed:
		return true
	}
	return false
}

// Feedback is a customer message to the store: a contact-form entry,
// optionally tied to a product or order. Worked through a small
// pending/in_progress/resolved/closed triage lifecycle.
type Feedback struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Subject   string             `bson:"subject" json:"subject"`
	Message   string             `bson:"message" json:"message"`
	Rating    int                `bson:"rating,omitempty" json:"rating,omitempty"`
	ProductID string             `bson:"product_id,omitempty" json:"product_id,omitempty"`
	OrderID   string             `bson:"order_id,omitempty" json:"order_id,omitempty"`
	Status    FeedbackStatus     `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

func (f *Feedback) Validate() error {
	if f.Name == "" {
		return Invalidf("feedback name is required")
	}
	if f.Email == "" {
		return Invalidf("feedback email is required")
	}
	if f.Subject == "" {
		return Invalidf("feedback subject is required")
	}
	if f.Message == "" {
		return Invalidf("feedback message is required")
	}
	if f.Rating != 0 && (f.Rating < 1 || f.Rating > 5) {
		return Invalidf("feedback rating must be between 1 and 5")
	}
	return nil
}

// FeedbackFilter narrows admin listings. Zero values mean "any".
type FeedbackFilter struct {
	Status    FeedbackStatus
	ProductID string
}
