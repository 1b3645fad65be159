package extract

import (
	"regexp"

	"github.com/ppiankov/tripparse/internal/model"
)

const rankFlag = 20

// flagPhrases holds affirmative and negative phrase sets for one boolean field
type flagPhrases struct {
	field       model.FieldID
	affirmative *regexp.Regexp
	negative    *regexp.Regexp
}

// newFlagMatcher emits true for affirmative hits and false for negative hits.
// An affirmative hit overlapping any negative hit is suppressed, so
// "no flights required" yields only false.
func newFlagMatcher(name string, p flagPhrases) Matcher {
	return &funcMatcher{name: name, fn: func(text string) ([]model.Candidate, error) {
		negatives := p.negative.FindAllStringIndex(text, -1)

		var out []model.Candidate
		for _, m := range negatives {
			out = append(out, newCandidate(p.field, model.Boolean(false), rankFlag, m[0], m[1]))
		}
		for _, m := range p.affirmative.FindAllStringIndex(text, -1) {
			span := model.Span{Start: m[0], End: m[1]}
			suppressed := false
			for _, n := range negatives {
				if span.Overlaps(model.Span{Start: n[0], End: n[1]}) {
					suppressed = true
					break
				}
			}
			if !suppressed {
				out = append(out, newCandidate(p.field, model.Boolean(true), rankFlag, m[0], m[1]))
			}
		}

		sortByPosition(out)
		return out, nil
	}}
}

var englishFlags = []flagPhrases{
	{
		field:       model.FieldFlightRequired,
		affirmative: regexp.MustCompile(`(?i)\b(?:flights?|air\s*tickets?)\s+(?:are\s+|is\s+)?(?:required|needed|included|to\s+be\s+included)\b|\b(?:need|needs|require|requires|include|including|book|with|plus)\s+(?:the\s+|our\s+|return\s+|round[\s-]trip\s+)?(?:flights?|air\s*tickets?|airfare)\b|\bairfare\s+included\b`),
		negative:    regexp.MustCompile(`(?i)\bflights?\s+(?:will\s+be\s+booked\s+separately|(?:are\s+|is\s+)?(?:not\s+(?:required|needed|included)|already\s+booked|excluded))\b|\b(?:no|without|excluding|exclude)\s+(?:the\s+)?(?:flights?|airfare)\b|\b(?:don'?t|do\s+not|won'?t)\s+need\s+(?:any\s+)?flights?\b|\b(?:own|booked\s+our\s+own|booking\s+our\s+own)\s+flights?\b|\bland\s+(?:only|package)\b`),
	},
	{
		field:       model.FieldVisaRequired,
		affirmative: regexp.MustCompile(`(?i)\bvisas?\s+(?:assistance|required|needed|help|support|processing|application)\b|\b(?:need|needs|require|requires|help\s+with|assist\s+with|apply\s+for|arrange)\s+(?:a\s+|the\s+|our\s+)?visas?\b`),
		negative:    regexp.MustCompile(`(?i)\bvisas?\s+(?:(?:is\s+|are\s+)?not\s+(?:required|needed)|already\s+(?:done|arranged|sorted)|free)\b|\b(?:no|without)\s+visas?\b|\b(?:don'?t|do\s+not)\s+need\s+(?:a\s+|any\s+)?visas?\b|\b(?:already\s+)?have\s+(?:a\s+|our\s+|valid\s+)?visas?\b|\bvisa-free\b`),
	},
	{
		field:       model.FieldInsuranceRequired,
		affirmative: regexp.MustCompile(`(?i)\b(?:travel\s+)?insurance\s+(?:is\s+)?(?:required|needed|included|please)\b|\b(?:need|needs|require|include|including|want|with|add)\s+(?:a\s+|the\s+)?(?:travel\s+)?insurance\b`),
		negative:    regexp.MustCompile(`(?i)\b(?:no|without|excluding)\s+(?:travel\s+)?insurance\b|\b(?:travel\s+)?insurance\s+(?:is\s+)?(?:not\s+(?:required|needed)|already\s+(?:taken|covered|done))\b|\b(?:don'?t|do\s+not)\s+need\s+(?:any\s+)?(?:travel\s+)?insurance\b|\b(?:already\s+)?have\s+(?:our\s+own\s+|our\s+)?(?:travel\s+)?insurance\b`),
	},
}

// Hindi and Hinglish inquiries switch script mid-phrase ("flight भी चाहिए",
// "वीज़ा lagwana hai"), so each phrase is a noun from either script followed by
// a verb from either script.
const (
	nounFlight    = `(?:\bflights?\b|\bair\s*tickets?\b|फ्लाइट|उड\x{093C}?ान|हवाई\s+(?:टिकट|जहाज))`
	nounVisa      = `(?:\bvisas?\b|वीज\x{093C}?ा)`
	nounInsurance = `(?:(?:\btravel\s+|ट्रैवल\s+)?(?:\binsurance\b|बीमा|इंश्योरेंस))`

	particleAlso = `\s*(?:(?:bhi|भी)\s*)?`
	verbWant     = `chahiye|chahie|chaiye|chahiyen|चाहिए|चाहिये`
	verbArrange  = `karwana|karwa\s+do|karwani|करवाना|करवा\s+दो|करवानी`
	notNeeded    = `\s*(?:(?:ki|की)\s*)?(?:(?:zarurat|jarurat|zaroorat|ज\x{093C}?रूरत)\s*)?(?:nahi\b|nahin\b|mat\b|नहीं|मत)`
)

const flightAffirmative = `(?i)` + nounFlight + particleAlso + `(?:` + verbWant + `|` + verbArrange +
	`|book\s+kar\w*|include\s+karo|बुक\s*कर)|` + nounFlight + `\s+(?:ke\s+saath|के\s+साथ)`

const flightNegative = `(?i)` + nounFlight + notNeeded + `|` + nounFlight +
	`\s+(?:hum\s+)?(?:khud|apni|खुद|अपनी)|(?:\bbina|बिना)\s+` + nounFlight

const visaAffirmative = `(?i)` + nounVisa + particleAlso + `(?:` + verbWant + `|` + verbArrange +
	`|lagwana|lagwa\s+do|banwana|सहायता|में\s+मदद|लगवाना|बनवाना)`

const insuranceAffirmative = `(?i)` + nounInsurance + particleAlso + `(?:` + verbWant + `|` + verbArrange + `|include\s+karo)`

var codeSwitchedFlags = []flagPhrases{
	{
		field:       model.FieldFlightRequired,
		affirmative: regexp.MustCompile(flightAffirmative),
		negative:    regexp.MustCompile(flightNegative),
	},
	{
		field:       model.FieldVisaRequired,
		affirmative: regexp.MustCompile(visaAffirmative),
		negative:    regexp.MustCompile(`(?i)` + nounVisa + notNeeded + `|` + nounVisa + `\s+(?:pehle\s+se|पहले\s+से)`),
	},
	{
		field:       model.FieldInsuranceRequired,
		affirmative: regexp.MustCompile(insuranceAffirmative),
		negative:    regexp.MustCompile(`(?i)` + nounInsurance + notNeeded),
	},
}

func flagMatchers(lang string, phrases []flagPhrases) []Matcher {
	out := make([]Matcher, 0, len(phrases))
	for _, p := range phrases {
		out = append(out, newFlagMatcher(string(p.field)+"."+lang, p))
	}
	return out
}
