package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/tripparse/internal/model"
)

// Budget ranks: an amount introduced by a budget keyword outranks a bare amount
const (
	rankBudgetKeyword = 25
	rankBudgetAmount  = 15
)

var (
	reBudgetSymbol   = regexp.MustCompile(`(?i)(?P<cur>₹|\brs\.?|\binr|\$|\busd)\s*(?P<amt>\d[\d,]*(?:\.\d+)?)(?:\s*(?P<mul>k\b|lakhs?\b|lacs?\b|thousand\b|हज\x{093C}?ार|लाख))?`)
	reBudgetEnglish  = regexp.MustCompile(`(?i)\b(?P<amt>\d[\d,]*(?:\.\d+)?)(?:\s*(?P<mul>k|lakhs?|lacs?|thousand))?\s*(?P<cur>rupees|dollars|inr|usd)\b`)
	reBudgetHinglish = regexp.MustCompile(`(?i)\b(?P<amt>\d[\d,]*(?:\.\d+)?)(?:\s*(?P<mul>k|lakh|lac|hazaar|hazar))?\s*(?P<cur>rupaye|rupay|rupiya|rupees)\b`)
	reBudgetHindi    = regexp.MustCompile(`(?P<amt>\d[\d,]*(?:\.\d+)?)(?:\s*(?P<mul>हज\x{093C}?ार|लाख))?\s*(?P<cur>रुपये|रुपए|रुपया)`)

	// rePerPerson must follow the amount directly
	rePerPerson = regexp.MustCompile(`(?i)^\s*(?:/-\s*)?(?:per\s+person|per\s+head|per\s+pax|per\s+adult|pp\b|p\.p\.|/\s*person|/\s*head|/\s*pax|each\b|per\s+bande|प्रति\s+व्यक्ति)`)

	// reBudgetCue must precede the amount closely
	reBudgetCue = regexp.MustCompile(`(?i)(?:\bbudget\b|\bwithin\b|बजट)[^\n]{0,25}$`)

	// reBudgetKeyword reads a bare amount after the budget keyword, joined by
	// connector words only
	reBudgetKeyword = regexp.MustCompile(`(?i)(?:\bbudget\b|बजट)(?:\s*(?:[:=\-]|is\b|was\b|of\b|around\b|approximately\b|approx\.?|about\b|roughly\b|nearly\b|max(?:imum)?\b|upto\b|up\s+to\b|total\b|hai\b|है|लगभग|करीब|का|की|तक))*\s*(?P<cur>₹|rs\.?|inr)?\s*(?P<amt>\d[\d,]*(?:\.\d+)?)(?:\s*(?P<mul>k\b|lakhs?\b|lacs?\b|thousand\b|हज\x{093C}?ार|लाख))?`)

	// reCurrencyAfter spots a currency word trailing the amount
	reCurrencyAfter = regexp.MustCompile(`(?i)^\s*(?:rupees|rupaye|rupay|rupiya|dollars|inr|usd|रुपये|रुपए|रुपया)`)
)

var budgetMultipliers = map[string]float64{
	"k": 1e3, "thousand": 1e3, "hazaar": 1e3, "hazar": 1e3, "हजार": 1e3,
	"lakh": 1e5, "lakhs": 1e5, "lac": 1e5, "lacs": 1e5, "लाख": 1e5,
}

const defaultCurrency = "INR"

var currencyCodes = map[string]string{
	"₹": "INR", "rs": "INR", "rs.": "INR", "inr": "INR", "rupees": "INR",
	"rupaye": "INR", "rupay": "INR", "rupiya": "INR",
	"रुपये": "INR", "रुपए": "INR", "रुपया": "INR",
	"$": "USD", "usd": "USD", "dollars": "USD",
}

// newBudgetMatcher reads amounts with currency and multiplier. The unit is
// per_person only when a per-person qualifier follows the amount.
func newBudgetMatcher(name string, re *regexp.Regexp) Matcher {
	curIdx, amtIdx, mulIdx := re.SubexpIndex("cur"), re.SubexpIndex("amt"), re.SubexpIndex("mul")

	return newRegexMatcher(name, re, func(text string, m []int) []model.Candidate {
		if start := m[2*amtIdx]; start > 0 && isDigit(text[start-1]) {
			return nil
		}
		currency, ok := currencyCodes[strings.ToLower(group(text, m, curIdx))]
		if !ok {
			return nil
		}
		amount, ok := parseAmount(group(text, m, amtIdx), group(text, m, mulIdx))
		if !ok {
			return nil
		}

		unit := model.UnitTotal
		end := m[1]
		if pp := rePerPerson.FindStringIndex(text[end:]); pp != nil {
			unit = model.UnitPerPerson
			end += pp[1]
		}

		rank := rankBudgetAmount
		if reBudgetCue.MatchString(text[:m[0]]) {
			rank = rankBudgetKeyword
		}

		return []model.Candidate{newCandidate(model.FieldBudget, model.Amount(amount, unit, currency), rank, m[0], end)}
	})
}

// newKeywordBudgetMatcher reads "budget 50000 per person" style amounts that
// carry no currency and defaults them to INR. Amounts with a currency token
// are left to the currency matchers.
func newKeywordBudgetMatcher() Matcher {
	curIdx, amtIdx, mulIdx := reBudgetKeyword.SubexpIndex("cur"), reBudgetKeyword.SubexpIndex("amt"), reBudgetKeyword.SubexpIndex("mul")

	return newRegexMatcher("budget.keyword", reBudgetKeyword, func(text string, m []int) []model.Candidate {
		if group(text, m, curIdx) != "" || reCurrencyAfter.MatchString(text[m[1]:]) {
			return nil
		}
		amount, ok := parseAmount(group(text, m, amtIdx), group(text, m, mulIdx))
		if !ok {
			return nil
		}

		unit := model.UnitTotal
		end := m[1]
		if pp := rePerPerson.FindStringIndex(text[end:]); pp != nil {
			unit = model.UnitPerPerson
			end += pp[1]
		}

		return []model.Candidate{newCandidate(model.FieldBudget, model.Amount(amount, unit, defaultCurrency), rankBudgetKeyword, m[2*amtIdx], end)}
	})
}

func parseAmount(amt, mul string) (int64, bool) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(amt, ",", ""), 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	if mul != "" {
		factor, ok := budgetMultipliers[strings.ToLower(strings.ReplaceAll(mul, "\u093c", ""))]
		if !ok {
			return 0, false
		}
		f *= factor
	}
	return int64(math.Round(f)), true
}
