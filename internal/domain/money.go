package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Money is an INR amount with exact decimal precision. It is stored in
// MongoDB as Decimal128 so documents written by this service never
// accumulate float drift. Legacy documents from before the migration may
// still hold doubles or integers; decoding accepts those too.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money { return Money{d} }

func MoneyFromInt(v int64) Money { return Money{decimal.NewFromInt(v)} }

func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parse money %q: %w", s, err)
	}
	return Money{d}, nil
}

// Paise returns the amount in minor units, as payment gateways expect.
func (m Money) Paise() int64 {
	return m.Decimal.Mul(decimal.NewFromInt(100)).IntPart()
}

func (m Money) Add(o Money) Money { return Money{m.Decimal.Add(o.Decimal)} }

func (m Money) MulInt(n int64) Money {
	return Money{m.Decimal.Mul(decimal.NewFromInt(n))}
}

func (m Money) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d128, err := primitive.ParseDecimal128(m.Decimal.String())
	if err != nil {
		return 0, nil, fmt.Errorf("money to decimal128: %w", err)
	}
	return bson.MarshalValue(d128)
}

func (m *Money) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Decimal128:
		d128, ok := raw.Decimal128OK()
		if !ok {
			return fmt.Errorf("money: corrupt decimal128 value")
		}
		d, err := decimal.NewFromString(d128.String())
		if err != nil {
			return fmt.Errorf("money: %w", err)
		}
		m.Decimal = d
	case bsontype.Double:
		m.Decimal = decimal.NewFromFloat(raw.Double())
	case bsontype.Int32:
		m.Decimal = decimal.NewFromInt32(raw.Int32())
	case bsontype.Int64:
		m.Decimal = decimal.NewFromInt(raw.Int64())
	case bsontype.Null:
		m.Decimal = decimal.Zero
	default:
		return fmt.Errorf("money: cannot decode bson type %s", t)
	}
	return nil
}
