package extract

import (
	"regexp"

	"github.com/ppiankov/tripparse/internal/model"
)

// Quantity ranks: a full breakdown beats an adults/children pair beats a lone count
const (
	rankCompound   = 30
	rankPair       = 20
	rankStandalone = 10
)

// partyLexicon holds the words one language uses to describe a travelling party
type partyLexicon struct {
	name     string
	latin    bool   // wrap words in ASCII word boundaries
	number   string // capturing group for a count
	people   string
	adults   string
	children string
	joiner   string
}

var (
	englishParty = partyLexicon{
		name:     "english",
		latin:    true,
		number:   `(\d{1,3}|one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|fifteen|twenty)`,
		people:   `(?:people|persons?|pax|travell?ers?|guests?|members?)`,
		adults:   `(?:adults?|grown-?ups?)`,
		children: `(?:children|child|kids?|infants?)`,
		joiner:   `(?:\+|&|,|and|with)`,
	}
	hinglishParty = partyLexicon{
		name:     "hinglish",
		latin:    true,
		number:   `(\d{1,3}|ek|do|teen|chaar|char|paanch|panch|chhe|saat|aath|nau|das)`,
		people:   `(?:log|logon|bande|members)`,
		adults:   `(?:adults?|bade|bade\s+log|bado)`,
		children: `(?:bacche|bachhe|bachche|baccha|bachcha|bachon|bachchon|kids?)`,
		joiner:   `(?:\+|&|,|aur|and)`,
	}
	hindiParty = partyLexicon{
		name:     "hindi",
		number:   `(\d{1,3}|एक|दो|तीन|चार|पांच|पाँच|छह|सात|आठ|नौ|दस)`,
		people:   `(?:व्यक्ति|लोग|लोगों|यात्री|सदस्य)`,
		adults:   `(?:वयस्क|बड\x{093C}?े)`,
		children: `(?:बच्चे|बच्चा|बच्चों)`,
		joiner:   `(?:\+|,|और|तथा)`,
	}
)

// partyMatchers builds the compound, pair and standalone count matchers for a language
func partyMatchers(lx partyLexicon) []Matcher {
	b, e, flags := "", "", ""
	if lx.latin {
		b, e, flags = `\b`, `\b`, `(?i)`
	}

	compound := regexp.MustCompile(flags + b + lx.number + `\s*` + lx.people + `\s*\(\s*` +
		lx.number + `\s*` + lx.adults + `\s*` + lx.joiner + `\s*` +
		lx.number + `\s*` + lx.children + `\s*\)`)
	pair := regexp.MustCompile(flags + b + lx.number + `\s*` + lx.adults + `\s*` + lx.joiner + `\s*` +
		lx.number + `\s*` + lx.children + e)
	people := regexp.MustCompile(flags + b + lx.number + `\s*` + lx.people + e)
	adults := regexp.MustCompile(flags + b + lx.number + `\s*` + lx.adults + e)
	children := regexp.MustCompile(flags + b + lx.number + `\s*` + lx.children + e)

	return []Matcher{
		newRegexMatcher("travelers.compound."+lx.name, compound, func(text string, m []int) []model.Candidate {
			return countCandidates(text, m, rankCompound,
				countSlot{model.FieldTravelers, 1},
				countSlot{model.FieldAdults, 2},
				countSlot{model.FieldChildren, 3})
		}),
		newRegexMatcher("travelers.pair."+lx.name, pair, func(text string, m []int) []model.Candidate {
			return countCandidates(text, m, rankPair,
				countSlot{model.FieldAdults, 1},
				countSlot{model.FieldChildren, 2})
		}),
		newRegexMatcher("travelers.people."+lx.name, people, func(text string, m []int) []model.Candidate {
			return countCandidates(text, m, rankStandalone, countSlot{model.FieldTravelers, 1})
		}),
		newRegexMatcher("travelers.adults."+lx.name, adults, func(text string, m []int) []model.Candidate {
			return countCandidates(text, m, rankStandalone, countSlot{model.FieldAdults, 1})
		}),
		newRegexMatcher("travelers.children."+lx.name, children, func(text string, m []int) []model.Candidate {
			return countCandidates(text, m, rankStandalone, countSlot{model.FieldChildren, 1})
		}),
	}
}

var (
	reGroupOf = regexp.MustCompile(`(?i)\b(?:family|group|party)\s+of\s+` + englishParty.number + `\b`)
	reTotalOf = regexp.MustCompile(`(?i)\btotal\s*(?:of\s*)?:?\s*(\d{1,2}|two|three|four|five|six|seven|eight|nine|ten)\b`)
	reSolo    = regexp.MustCompile(`(?i)\bsolo\s+(?:trip|travell?er|traveling|travelling|backpacking)\b`)
)

// englishPartyExtras covers "family of 4", "total 6" and "solo trip"
func englishPartyExtras() []Matcher {
	return []Matcher{
		newRegexMatcher("travelers.group_of", reGroupOf, func(text string, m []int) []model.Candidate {
			return countCandidates(text, m, rankStandalone, countSlot{model.FieldTravelers, 1})
		}),
		newRegexMatcher("travelers.total", reTotalOf, func(text string, m []int) []model.Candidate {
			return countCandidates(text, m, rankStandalone, countSlot{model.FieldTravelers, 1})
		}),
		newRegexMatcher("travelers.solo", reSolo, func(text string, m []int) []model.Candidate {
			return []model.Candidate{newCandidate(model.FieldTravelers, model.Integer(1), rankStandalone, m[0], m[1])}
		}),
	}
}

// countSlot maps a submatch index to the field it counts
type countSlot struct {
	field model.FieldID
	group int
}

// countCandidates emits one integer candidate per slot, all sharing the match span.
// A slot that fails to parse, or whose digits continue a longer number, drops the whole match.
func countCandidates(text string, m []int, rank int, slots ...countSlot) []model.Candidate {
	out := make([]model.Candidate, 0, len(slots))
	for _, s := range slots {
		if start := m[2*s.group]; start > 0 && isDigit(text[start-1]) {
			return nil
		}
		n, ok := parseCount(group(text, m, s.group))
		if !ok {
			return nil
		}
		out = append(out, newCandidate(s.field, model.Integer(n), rank, m[0], m[1]))
	}
	return out
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
