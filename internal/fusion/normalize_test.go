package fusion

import (
	"testing"
	"time"

	"github.com/ppiankov/tripparse/internal/model"
)

func TestNormalize(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	tests := []struct {
		name string
		rule model.NormRule
		in   model.Value
		want model.Value
	}{
		{"text collapses spaces", model.NormText, model.String("  Breakfast   and dinner "), model.String("Breakfast and dinner")},
		{"name title case", model.NormName, model.String("rahul  SHARMA"), model.String("Rahul Sharma")},
		{"devanagari name unchanged", model.NormName, model.String("राहुल शर्मा"), model.String("राहुल शर्मा")},
		{"negative integer clamps", model.NormInteger, model.Integer(-2), model.Integer(0)},
		{"date drops time and zone", model.NormDate, model.Date(time.Date(2025, 11, 10, 23, 30, 0, 0, ist)), model.Date(time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC))},
		{"money canonical", model.NormMoney, model.Amount(45000, "pp", " inr"), model.Amount(45000, model.UnitTotal, "INR")},
		{"money per person", model.NormMoney, model.Amount(45000, model.UnitPerPerson, "usd"), model.Amount(45000, model.UnitPerPerson, "USD")},
		{"title list dedupes", model.NormTitleList, model.List("city tour", "City  Tour", "", "temples"), model.List("City Tour", "Temples")},
		{"lower list dedupes", model.NormLowerList, model.List("A@B.com", "a@b.com"), model.List("a@b.com")},
		{"null untouched", model.NormName, model.NullOf(model.KindString), model.NullOf(model.KindString)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.rule, tt.in)
			if !got.Equal(tt.want) {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
			if again := Normalize(tt.rule, got); !again.Equal(got) {
				t.Errorf("not idempotent: %s then %s", got, again)
			}
		})
	}
}
