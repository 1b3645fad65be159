package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/tripparse/internal/model"
)

// Matcher proposes candidates from normalized inquiry text. The extractor
// fills in Source, Seq and, when empty, Matcher on every returned candidate.
type Matcher interface {
	// Name returns the matcher name, e.g. "travelers.compound"
	Name() string

	// Match returns candidates in match-position order
	Match(text string) ([]model.Candidate, error)
}

// regexMatcher runs one expression and turns each hit into zero or more candidates
type regexMatcher struct {
	name  string
	re    *regexp.Regexp
	build func(text string, m []int) []model.Candidate
}

func newRegexMatcher(name string, re *regexp.Regexp, build func(text string, m []int) []model.Candidate) *regexMatcher {
	return &regexMatcher{name: name, re: re, build: build}
}

func (r *regexMatcher) Name() string { return r.name }

func (r *regexMatcher) Match(text string) ([]model.Candidate, error) {
	var out []model.Candidate
	for _, m := range r.re.FindAllStringSubmatchIndex(text, -1) {
		out = append(out, r.build(text, m)...)
	}
	return out, nil
}

// funcMatcher adapts a plain function to Matcher
type funcMatcher struct {
	name string
	fn   func(text string) ([]model.Candidate, error)
}

func (f *funcMatcher) Name() string { return f.name }

func (f *funcMatcher) Match(text string) ([]model.Candidate, error) {
	return f.fn(text)
}

// mapping pairs an expression with the canonical value it stands for
type mapping struct {
	re    *regexp.Regexp
	value string
	rank  int
}

// newMappedMatcher emits one string candidate per hit of any mapping
func newMappedMatcher(name string, field model.FieldID, mappings []mapping) Matcher {
	return &funcMatcher{name: name, fn: func(text string) ([]model.Candidate, error) {
		var out []model.Candidate
		for _, mp := range mappings {
			for _, m := range mp.re.FindAllStringIndex(text, -1) {
				out = append(out, newCandidate(field, model.String(mp.value), mp.rank, m[0], m[1]))
			}
		}
		sortByPosition(out)
		return out, nil
	}}
}

// gazetteer matches dictionary phrases on word boundaries. Each hit becomes a
// single-item list candidate carrying the dictionary entry.
type gazetteer struct {
	name    string
	field   model.FieldID
	rank    int
	re      *regexp.Regexp
	entries map[string]string
}

func newGazetteer(name string, field model.FieldID, rank int, phrases []string) *gazetteer {
	g := &gazetteer{name: name, field: field, rank: rank, entries: make(map[string]string)}

	cleaned := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.Join(strings.Fields(p), " ")
		if p == "" {
			continue
		}
		key := strings.ToLower(p)
		if _, dup := g.entries[key]; dup {
			continue
		}
		g.entries[key] = p
		cleaned = append(cleaned, p)
	}
	if len(cleaned) == 0 {
		return g
	}

	// Longest phrases first so "phi phi islands" beats "phi phi"
	sort.SliceStable(cleaned, func(i, j int) bool {
		return len(cleaned[i]) > len(cleaned[j])
	})
	alts := make([]string, len(cleaned))
	for i, p := range cleaned {
		alts[i] = strings.ReplaceAll(regexp.QuoteMeta(p), ` `, `\s+`)
	}
	g.re = regexp.MustCompile(`(?i)(?:` + strings.Join(alts, "|") + `)`)
	return g
}

func (g *gazetteer) Name() string { return g.name }

func (g *gazetteer) Match(text string) ([]model.Candidate, error) {
	if g.re == nil {
		return nil, nil
	}
	var out []model.Candidate
	for _, m := range g.re.FindAllStringIndex(text, -1) {
		if !wordBounded(text, m[0], m[1]) {
			continue
		}
		key := strings.ToLower(strings.Join(strings.Fields(text[m[0]:m[1]]), " "))
		entry, ok := g.entries[key]
		if !ok {
			entry = key
		}
		out = append(out, newCandidate(g.field, model.List(entry), g.rank, m[0], m[1]))
	}
	return out, nil
}

// wordBounded reports whether text[start:end] is not part of a longer word
func wordBounded(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

func newCandidate(field model.FieldID, v model.Value, rank, start, end int) model.Candidate {
	return model.Candidate{
		Field: field,
		Value: v,
		Rank:  rank,
		Span:  &model.Span{Start: start, End: end},
	}
}

// group returns submatch i, or "" when it did not participate
func group(text string, m []int, i int) string {
	if 2*i+1 >= len(m) || m[2*i] < 0 {
		return ""
	}
	return text[m[2*i]:m[2*i+1]]
}

func sortByPosition(cands []model.Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return spanStart(cands[i]) < spanStart(cands[j])
	})
}

func spanStart(c model.Candidate) int {
	if c.Span == nil {
		return 0
	}
	return c.Span.Start
}

// numberWords maps English, Hinglish and Hindi number words to values
var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6, "seven": 7,
	"eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12, "fifteen": 15, "twenty": 20,
	"ek": 1, "do": 2, "teen": 3, "char": 4, "chaar": 4, "paanch": 5, "panch": 5,
	"chhe": 6, "che": 6, "saat": 7, "aath": 8, "nau": 9, "das": 10,
	"एक": 1, "दो": 2, "तीन": 3, "चार": 4, "पांच": 5, "पाँच": 5, "छह": 6, "छः": 6,
	"सात": 7, "आठ": 8, "नौ": 9, "दस": 10,
}

// parseCount reads a digit string or number word
func parseCount(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	n, ok := numberWords[s]
	return n, ok
}
