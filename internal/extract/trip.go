package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/ppiankov/tripparse/internal/dates"
	"github.com/ppiankov/tripparse/internal/model"
)

// Date ranks by precision. A month on its own is a weak hint.
var dateRanks = map[dates.Precision]int{
	dates.PrecisionDay:   20,
	dates.PrecisionWeek:  15,
	dates.PrecisionMonth: 5,
}

// reReturnCue marks a date as the end of the trip
var reReturnCue = regexp.MustCompile(`(?i)(?:\breturn(?:ing)?\b|\bback\s+(?:on|by)\b|\btill\b|\buntil\b|\bcheck[\s-]?out\b|वापसी|\bwapas\b)[^\n.]{0,12}$`)

// newDateMatcher resolves start and end dates against the reference date.
// It never computes an end date from a duration.
func newDateMatcher(ref time.Time) Matcher {
	return &funcMatcher{name: "dates", fn: func(text string) ([]model.Candidate, error) {
		results := dates.Extract(text, ref)
		ranges := dates.FindRanges(text, results)

		inRange := make(map[int]bool)
		var out []model.Candidate
		for _, r := range ranges {
			inRange[r.From.Start] = true
			inRange[r.To.Start] = true
			rank := min(dateRanks[r.From.Precision], dateRanks[r.To.Precision])
			out = append(out,
				newCandidate(model.FieldStartDate, model.Date(r.From.Time), rank, r.From.Start, r.From.End),
				newCandidate(model.FieldEndDate, model.Date(r.To.Time), rank, r.To.Start, r.To.End))
		}

		for _, r := range results {
			if inRange[r.Start] {
				continue
			}
			rank := dateRanks[r.Precision]
			if !r.Until.IsZero() {
				out = append(out,
					newCandidate(model.FieldStartDate, model.Date(r.Time), rank, r.Start, r.End),
					newCandidate(model.FieldEndDate, model.Date(r.Until), rank, r.Start, r.End))
				continue
			}
			field := model.FieldStartDate
			if reReturnCue.MatchString(text[:r.Start]) {
				field = model.FieldEndDate
			}
			out = append(out, newCandidate(field, model.Date(r.Time), rank, r.Start, r.End))
		}

		sortByPosition(out)
		return out, nil
	}}
}

// Duration ranks: "4N/5D" is the most explicit, nights beat days and weeks
const (
	rankNightsDays = 25
	rankNights     = 20
	rankDaysWeeks  = 10
)

// reDeadlineLead excludes "within 2 days" and similar from durations
var reDeadlineLead = regexp.MustCompile(`(?i)\b(?:within|in|next|after|before|by)\s+(?:a\s+|the\s+)?$`)

type durationLexicon struct {
	name   string
	latin  bool
	nights string
	days   string
	weeks  string
}

var (
	englishDuration = durationLexicon{
		name:   "english",
		latin:  true,
		nights: `(\d{1,2}|one|two|three|four|five|six|seven|eight|nine|ten)\s*[-\s]?\s*nights?`,
		days:   `(\d{1,2}|two|three|four|five|six|seven|eight|nine|ten)\s*[-\s]?\s*days?`,
		weeks:  `(\d|a|one|two|three)\s*[-\s]?\s*weeks?`,
	}
	hinglishDuration = durationLexicon{
		name:   "hinglish",
		latin:  true,
		nights: `(\d{1,2}|ek|do|teen|chaar|char|paanch|panch|chhe|saat|aath|nau|das)\s*(?:raatein|raaten|raat|raton)`,
		days:   `(\d{1,2}|do|teen|chaar|char|paanch|panch|chhe|saat|aath|nau|das)\s*din`,
		weeks:  `(\d|ek|do|teen)\s*(?:hafte|hafta|hafton)`,
	}
	hindiDuration = durationLexicon{
		name:   "hindi",
		nights: `(\d{1,2}|एक|दो|तीन|चार|पांच|पाँच|छह|सात|आठ|नौ|दस)\s*(?:रातें|रात|रातों)`,
		days:   `(\d{1,2}|दो|तीन|चार|पांच|पाँच|छह|सात|आठ|नौ|दस)\s*(?:दिन|दिनों)`,
		weeks:  `(\d|एक|दो|तीन)\s*(?:हफ\x{093C}?्ते|हफ\x{093C}?्ता|सप्ताह)`,
	}
)

var reNightsDays = regexp.MustCompile(`(?i)\b(\d{1,2})\s*N\s*/\s*(\d{1,2})\s*D\b`)

// durationMatchers converts nights, days and weeks into a night count.
// N days is N-1 nights; a week is 7 nights.
func durationMatchers(lx durationLexicon) []Matcher {
	b, e, flags := "", "", ""
	if lx.latin {
		b, e, flags = `\b`, `\b`, `(?i)`
	}
	nights := regexp.MustCompile(flags + b + lx.nights + e)
	days := regexp.MustCompile(flags + b + lx.days + e)
	weeks := regexp.MustCompile(flags + b + lx.weeks + e)

	return []Matcher{
		newRegexMatcher("duration.nights."+lx.name, nights, func(text string, m []int) []model.Candidate {
			return durationCandidate(text, m, rankNights, func(n int) int { return n })
		}),
		newRegexMatcher("duration.days."+lx.name, days, func(text string, m []int) []model.Candidate {
			if reDeadlineLead.MatchString(text[:m[0]]) {
				return nil
			}
			return durationCandidate(text, m, rankDaysWeeks, func(n int) int { return n - 1 })
		}),
		newRegexMatcher("duration.weeks."+lx.name, weeks, func(text string, m []int) []model.Candidate {
			if reDeadlineLead.MatchString(text[:m[0]]) {
				return nil
			}
			return durationCandidate(text, m, rankDaysWeeks, func(n int) int { return 7 * n })
		}),
	}
}

func nightsDaysMatcher() Matcher {
	return newRegexMatcher("duration.nd", reNightsDays, func(text string, m []int) []model.Candidate {
		return durationCandidate(text, m, rankNightsDays, func(n int) int { return n })
	})
}

func durationCandidate(text string, m []int, rank int, convert func(int) int) []model.Candidate {
	if start := m[2]; start > 0 && isDigit(text[start-1]) {
		return nil
	}
	raw := strings.ToLower(group(text, m, 1))
	n, ok := parseCount(raw)
	if raw == "a" {
		n, ok = 1, true
	}
	if !ok {
		return nil
	}
	nights := convert(n)
	if nights <= 0 {
		return nil
	}
	return []model.Candidate{newCandidate(model.FieldDurationNights, model.Integer(nights), rank, m[0], m[1])}
}
