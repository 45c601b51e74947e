package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type Address struct {
	ID        string `bson:"id" json:"id"`
	Line1     string `bson:"line1" json:"line1"`
	Line2     string `bson:"line2,omitempty" json:"line2,omitempty"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	Pincode   string `bson:"pincode" json:"pincode"`
	Country   string `bson:"country" json:"country"`
	IsDefault bool   `bson:"is_default" json:"is_default"`
}

func (a *Address) Validate() error {
	if a.Line1 == "" {
		return Invalidf("address line1 is required")
	}
	if a.City == "" || a.State == "" {
		return Invalidf("address city and state are required")
	}
	if a.Pincode == "" {
		return Invalidf("address pincode is required")
	}
	return nil
}

// User identity is delegated to phone OTP verification; the record here
// only carries profile, role and shipping addresses.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Phone          string             `bson:"phone" json:"phone"`
	Email          string             `bson:"email,omitempty" json:"email,omitempty"`
	FirstName      string             `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName       string             `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Role           Role               `bson:"role" json:"role"`
	Addresses      []Address          `bson:"addresses" json:"addresses"`
	MarketingOptIn bool               `bson:"marketing_optin" json:"marketing_optin"`
	WhatsappOptIn  bool               `bson:"whatsapp_optin" json:"whatsapp_optin"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}
