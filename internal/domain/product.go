package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Variant struct {
	ID           int    `bson:"id" json:"id"`
	PackSizeG    int    `bson:"pack_size_g" json:"pack_size_g"`
	Price        Money  `bson:"price_inr" json:"price_inr"`
	MRP          Money  `bson:"mrp_inr" json:"mrp_inr"`
	SKU          string `bson:"sku" json:"sku"`
	InventoryQty int    `bson:"inventory_qty" json:"inventory_qty"`
}

type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slug          string             `bson:"slug" json:"slug"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description" json:"description"`
	Price         Money              `bson:"price" json:"price"`
	OriginalPrice *Money             `bson:"original_price,omitempty" json:"original_price,omitempty"`
	Image         string             `bson:"image" json:"image"`
	HeroImage     string             `bson:"hero_image,omitempty" json:"hero_image,omitempty"`
	Category      string             `bson:"category" json:"category"`
	Benefits      []string           `bson:"benefits" json:"benefits"`
	InStock       bool               `bson:"in_stock" json:"in_stock"`
	Rating        float64            `bson:"rating" json:"rating"`
	Reviews       int                `bson:"reviews" json:"reviews"`
	Story         string             `bson:"story,omitempty" json:"story,omitempty"`
	Ingredients   string             `bson:"ingredients,omitempty" json:"ingredients,omitempty"`
	BrewTempC     int                `bson:"brew_temp_c,omitempty" json:"brew_temp_c,omitempty"`
	BrewTimeMin   float64            `bson:"brew_time_min,omitempty" json:"brew_time_min,omitempty"`
	Variants      []Variant          `bson:"variants" json:"variants"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// Validate enforces the catalog invariants: an active product carries a
// positive price and no variant may declare negative inventory.
func (p *Product) Validate() error {
	if p.Name == "" {
		return Invalidf("product name is required")
	}
	if p.Slug == "" {
		return Invalidf("product slug is required")
	}
	if p.InStock && !p.Price.IsPositive() {
		return Invalidf("active product %q must have a positive price", p.Slug)
	}
	for _, v := range p.Variants {
		if v.SKU == "" {
			return Invalidf("variant of %q is missing a sku", p.Slug)
		}
		if v.InventoryQty < 0 {
			return Invalidf("variant %q has negative inventory", v.SKU)
		}
		if !v.Price.IsPositive() {
			return Invalidf("variant %q must have a positive price", v.SKU)
		}
	}
	return nil
}

// Variant returns the variant with the given SKU, if present.
func (p *Product) Variant(sku string) (*Variant, bool) {
	for i := range p.Variants {
		if p.Variants[i].SKU == sku {
			return &p.Variants[i], true
		}
	}
	return nil, false
}

// ProductFilter narrows catalog listings. Nil InStock means "any".
type ProductFilter struct {
	Category string
	InStock  *bool
}
