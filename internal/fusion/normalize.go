package fusion

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ppiankov/tripparse/internal/model"
)

// Normalize applies a field normalization rule. Every rule is idempotent:
// Normalize(rule, Normalize(rule, v)) equals Normalize(rule, v).
func Normalize(rule model.NormRule, v model.Value) model.Value {
	if v.Null {
		return v
	}

	switch rule {
	case model.NormText:
		v.Str = collapse(v.Str)

	case model.NormName:
		v.Str = titleCase(collapse(v.Str))

	case model.NormInteger:
		if v.Int < 0 {
			v.Int = 0
		}

	case model.NormDate:
		y, m, d := v.Date.Date()
		v.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	case model.NormMoney:
		v.Money.Currency = strings.ToUpper(strings.TrimSpace(v.Money.Currency))
		if v.Money.Currency == "" {
			v.Money.Currency = "INR"
		}
		if v.Money.Unit != model.UnitPerPerson {
			v.Money.Unit = model.UnitTotal
		}
		if v.Money.Amount < 0 {
			v.Money.Amount = 0
		}

	case model.NormBoolean:
		v.Kind = model.KindBoolean

	case model.NormTitleList:
		v.List = dedupe(v.List, func(s string) string { return titleCase(collapse(s)) })

	case model.NormLowerList:
		v.List = dedupe(v.List, func(s string) string { return strings.ToLower(collapse(s)) })
	}

	return v
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// titleCase upper-cases the first letter of each word. Casers are stateful,
// so one is built per call.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// dedupe normalizes items and keeps the first of each case-insensitive group
func dedupe(items []string, norm func(string) string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		it = norm(it)
		if it == "" {
			continue
		}
		key := strings.ToLower(it)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}
