package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxLineQuantity bounds a single cart line, counting merged adds.
const MaxLineQuantity = 99

type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"session_id" json:"session_id"`
	Items     []CartItem         `bson:"items" json:"items"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// CartItem references a catalog variant by SKU. Carts never snapshot
// prices; totals are derived from the catalog at read time.
type CartItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	SKU       string             `bson:"sku" json:"sku"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	AddedAt   time.Time          `bson:"added_at" json:"added_at"`
}

func (c *Cart) IsEmpty() bool { return c == nil || len(c.Items) == 0 }
