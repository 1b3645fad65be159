package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/tripparse/internal/model"
)

const (
	rankSignature    = 20
	rankIntroduction = 15
	rankFromCity     = 20
	rankFromWord     = 10
)

var (
	// reSignature finds a closing salutation followed by a name on the same or next line
	reSignature = regexp.MustCompile(`(?im)^[ \t]*(?:(?:best|warm|kind|warmest)\s+regards|regards|thanks\s+(?:and|&)\s+regards|thanks|thank\s+you|many\s+thanks|sincerely|yours\s+(?:truly|sincerely)|cheers|dhanyavaad|dhanyawad|shukriya)\b[ \t]*[,.!-]?[ \t]*(?:\n[ \t]*)?([A-Za-z][A-Za-z.']*(?:[ \t]+[A-Za-z][A-Za-z.']*){0,3})[ \t]*$`)

	reHindiSignature = regexp.MustCompile(`(?m)^[ \t]*(?:धन्यवाद|शुभकामनाएं|शुभकामनाएँ|सादर|आभार)[ \t]*[,।]?[ \t]*\n[ \t]*([^\n,।]{2,40}?)[ \t]*$`)

	reIntroduction = regexp.MustCompile(`\b(?:[Mm]y\s+name\s+is|I\s+am|I'm|[Tt]his\s+is)\s+((?:Mr\.?|Mrs\.?|Ms\.?|Dr\.?)?\s*[A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,2})`)
	reMeraNaam     = regexp.MustCompile(`(?i)\b(?:mera\s+naam|main|mai)\s+([a-z][a-z]+(?:\s+[a-z][a-z]+)?)\s+(?:hai|hoon|hu|hun)\b`)
	reMeraNaamHi   = regexp.MustCompile(`मेरा\s+नाम\s+([^\s,।]+(?:\s+[^\s,।]+)?)\s+है`)

	reExplicitIntro = regexp.MustCompile(`(?i)^(?:my\s+name\s+is|mera\s+naam)\b`)
)

// nonNameWords reject salutations that caught ordinary words
var nonNameWords = map[string]bool{
	"for": true, "the": true, "team": true, "in": true, "advance": true, "a": true,
	"planning": true, "looking": true, "interested": true, "writing": true, "sir": true,
	"madam": true, "you": true, "again": true, "and": true, "regards": true,
	"travel": true, "trip": true, "we": true, "our": true, "please": true,
}

func nameCandidate(text string, m []int, rank int, cue string) []model.Candidate {
	name := strings.Join(strings.Fields(group(text, m, 1)), " ")
	n := utf8.RuneCountInString(name)
	if n < 2 || n > 50 {
		return nil
	}
	for _, w := range strings.Fields(strings.ToLower(name)) {
		if nonNameWords[strings.Trim(w, ".")] {
			return nil
		}
	}
	c := newCandidate(model.FieldCustomerName, model.String(name), rank, m[2], m[3])
	c.Cue = cue
	return []model.Candidate{c}
}

func signatureMatcher() Matcher {
	return newRegexMatcher("customer_name.signature", reSignature, func(text string, m []int) []model.Candidate {
		return nameCandidate(text, m, rankSignature, model.CueSignature)
	})
}

func hindiSignatureMatcher() Matcher {
	return newRegexMatcher("customer_name.signature.hindi", reHindiSignature, func(text string, m []int) []model.Candidate {
		return nameCandidate(text, m, rankSignature, model.CueSignature)
	})
}

// introductionCue marks only explicit "my name is" / "mera naam" intros.
// "I am X" and "main X hoon" stay uncued: they catch ordinary words too often.
func introductionCue(match string) string {
	if reExplicitIntro.MatchString(match) {
		return model.CueIntroduction
	}
	return ""
}

func introductionMatcher() Matcher {
	return newRegexMatcher("customer_name.introduction", reIntroduction, func(text string, m []int) []model.Candidate {
		return nameCandidate(text, m, rankIntroduction, introductionCue(text[m[0]:m[1]]))
	})
}

func meraNaamMatcher() Matcher {
	return newRegexMatcher("customer_name.mera_naam", reMeraNaam, func(text string, m []int) []model.Candidate {
		return nameCandidate(text, m, rankIntroduction, introductionCue(text[m[0]:m[1]]))
	})
}

func hindiMeraNaamMatcher() Matcher {
	return newRegexMatcher("customer_name.mera_naam.hindi", reMeraNaamHi, func(text string, m []int) []model.Candidate {
		return nameCandidate(text, m, rankIntroduction, model.CueIntroduction)
	})
}

// departureMatchers find the departure city from a "from <city>" cue (or
// "<city> se" / "<city> से"), preferring dictionary cities
func departureMatchers(lang string, cities []string) []Matcher {
	quoted := make([]string, 0, len(cities))
	for _, c := range cities {
		c = strings.TrimSpace(c)
		if c != "" {
			quoted = append(quoted, strings.ReplaceAll(regexp.QuoteMeta(c), " ", `\s+`))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	cityAlt := `(` + strings.Join(quoted, "|") + `)`

	build := func(rank int) func(text string, m []int) []model.Candidate {
		return func(text string, m []int) []model.Candidate {
			if !wordBounded(text, m[2], m[3]) {
				return nil
			}
			city := group(text, m, 1)
			return []model.Candidate{newCandidate(model.FieldDepartureCity, model.String(city), rank, m[2], m[3])}
		}
	}

	switch lang {
	case "english":
		cue := regexp.MustCompile(`(?i)\b(?:from|ex|departing(?:\s+from)?|flying\s+(?:in\s+)?from|starting\s+from|leaving\s+from|based\s+(?:in|out\s+of))\s+` + cityAlt)
		word := regexp.MustCompile(`\b(?:[Ff]rom|[Dd]eparting\s+from|[Ff]lying\s+from)\s+([A-Z][a-z]{2,})\b`)
		return []Matcher{
			newRegexMatcher("departure_city.from", cue, build(rankFromCity)),
			newRegexMatcher("departure_city.from_word", word, func(text string, m []int) []model.Candidate {
				if nonPlaceWords[strings.ToLower(group(text, m, 1))] {
					return nil
				}
				return build(rankFromWord)(text, m)
			}),
		}
	case "hinglish":
		re := regexp.MustCompile(`(?i)` + cityAlt + `\s+se\b`)
		return []Matcher{newRegexMatcher("departure_city.se", re, build(rankFromCity))}
	case "hindi":
		re := regexp.MustCompile(cityAlt + `\s+से`)
		return []Matcher{newRegexMatcher("departure_city.se.hindi", re, build(rankFromCity))}
	}
	return nil
}
