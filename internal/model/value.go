package model

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// Kind is the declared type of a field value
type Kind string

const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindDate    Kind = "date"
	KindMoney   Kind = "money"
	KindBoolean Kind = "boolean"
	KindList    Kind = "list"
)

// DateLayout is the canonical rendering of date values
const DateLayout = "2006-01-02"

// MoneyUnit qualifies a budget amount
type MoneyUnit string

const (
	UnitPerPerson MoneyUnit = "per_person"
	UnitTotal     MoneyUnit = "total"
)

// Money is a structured amount with its unit qualifier
type Money struct {
	Amount   int64     `json:"amount"`
	Unit     MoneyUnit `json:"unit"`
	Currency string    `json:"currency"`
}

// Value is a typed field value. A Null value means "not specified".
type Value struct {
	Kind  Kind
	Null  bool
	Str   string
	Int   int
	Date  time.Time
	Money Money
	Bool  bool
	List  []string
}

// NullOf returns the unspecified value of the given kind
func NullOf(k Kind) Value {
	return Value{Kind: k, Null: true}
}

// String builds a string value
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Integer builds an integer value
func Integer(n int) Value { return Value{Kind: KindInteger, Int: n} }

// Date builds a date value truncated to the civil day in UTC
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{Kind: KindDate, Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Boolean builds a boolean value
func Boolean(b bool) Value { return Value{Kind: KindBoolean, Bool: b} }

// Amount builds a money value
func Amount(amount int64, unit MoneyUnit, currency string) Value {
	return Value{Kind: KindMoney, Money: Money{Amount: amount, Unit: unit, Currency: currency}}
}

// List builds a list value
func List(items ...string) Value {
	return Value{Kind: KindList, List: items}
}

// IsZero reports whether the value carries no information. Empty lists and
// null values are zero; integer 0 is a real value.
func (v Value) IsZero() bool {
	if v.Null {
		return true
	}
	if v.Kind == KindList {
		return len(v.List) == 0
	}
	return false
}

// Equal compares two values of the same kind
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind || v.Null != o.Null {
		return false
	}
	if v.Null {
		return true
	}
	switch v.Kind {
	case KindString:
		return v.Str == o.Str
	case KindInteger:
		return v.Int == o.Int
	case KindDate:
		return v.Date.Equal(o.Date)
	case KindMoney:
		return v.Money == o.Money
	case KindBoolean:
		return v.Bool == o.Bool
	case KindList:
		return slices.Equal(v.List, o.List)
	}
	return false
}

// String returns a debug representation
func (v Value) String() string {
	if v.Null {
		return "null"
	}
	switch v.Kind {
	case KindString:
		return fmt.Sprintf("%q", v.Str)
	case KindInteger:
		return fmt.Sprintf("%d", v.Int)
	case KindDate:
		return v.Date.Format(DateLayout)
	case KindMoney:
		return fmt.Sprintf("%d %s %s", v.Money.Amount, v.Money.Currency, v.Money.Unit)
	case KindBoolean:
		return fmt.Sprintf("%t", v.Bool)
	case KindList:
		return fmt.Sprintf("%q", v.List)
	}
	return fmt.Sprintf("Value(%s)", v.Kind)
}

// MarshalJSON encodes the value as its natural JSON type
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Null {
		return []byte("null"), nil
	}
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindInteger:
		return json.Marshal(v.Int)
	case KindDate:
		return json.Marshal(v.Date.Format(DateLayout))
	case KindMoney:
		return json.Marshal(v.Money)
	case KindBoolean:
		return json.Marshal(v.Bool)
	case KindList:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	}
	return nil, fmt.Errorf("marshal value: unknown kind %q", v.Kind)
}
