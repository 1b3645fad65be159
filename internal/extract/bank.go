package extract

import (
	"time"

	"github.com/ppiankov/tripparse/internal/model"
)

// Matcher group names
const (
	GroupCommon   = "common"   // Script-neutral: currency symbols, digits, emails, phones, numeric dates
	GroupEnglish  = "english"  // Latin-script English
	GroupHinglish = "hinglish" // Romanized Hindi
	GroupHindi    = "hindi"    // Devanagari
)

// Group is an ordered list of matchers for one script or language
type Group struct {
	Name     string
	Matchers []Matcher
}

// Options configures the built-in matcher bank
type Options struct {
	Reference    time.Time // Date that relative and yearless expressions resolve against
	Dictionaries model.Dictionaries
}

// Bank holds compiled matcher groups and the variant table that selects groups
// for a language mix. It is built once and shared read-only.
type Bank struct {
	groups   map[string]*Group
	variants map[model.LangMix][]string
}

// NewBank creates a bank with the built-in groups and variants
func NewBank(opts Options) *Bank {
	bank := &Bank{
		groups: make(map[string]*Group),
		variants: map[model.LangMix][]string{
			model.LangEnglish:  {GroupCommon, GroupEnglish},
			model.LangHinglish: {GroupCommon, GroupEnglish, GroupHinglish},
			model.LangHindi:    {GroupCommon, GroupHindi},
			model.LangMixed:    {GroupCommon, GroupEnglish, GroupHinglish, GroupHindi},
		},
	}

	// Register built-in groups
	bank.Register(GroupCommon, commonMatchers(opts)...)
	bank.Register(GroupEnglish, englishMatchers(opts)...)
	bank.Register(GroupHinglish, hinglishMatchers(opts)...)
	bank.Register(GroupHindi, hindiMatchers(opts)...)

	return bank
}

// Register appends matchers to a group, creating it if needed
func (b *Bank) Register(group string, matchers ...Matcher) {
	g, ok := b.groups[group]
	if !ok {
		g = &Group{Name: group}
		b.groups[group] = g
	}
	g.Matchers = append(g.Matchers, matchers...)
}

// Variant returns the groups to run for a language mix, in order.
// An unknown mix gets every group.
func (b *Bank) Variant(lang model.LangMix) []*Group {
	names, ok := b.variants[lang]
	if !ok {
		names = b.variants[model.LangMixed]
	}

	groups := make([]*Group, 0, len(names))
	for _, name := range names {
		if g, ok := b.groups[name]; ok {
			groups = append(groups, g)
		}
	}
	return groups
}

func commonMatchers(opts Options) []Matcher {
	var ms []Matcher
	ms = append(ms, contactMatchers()...)
	ms = append(ms, newDateMatcher(opts.Reference), nightsDaysMatcher())
	ms = append(ms, newBudgetMatcher("budget.symbol", reBudgetSymbol), newKeywordBudgetMatcher())
	ms = append(ms, flagMatchers(GroupCommon, codeSwitchedFlags)...)
	ms = append(ms, gazetteerMatchers(opts.Dictionaries)...)
	return ms
}

func englishMatchers(opts Options) []Matcher {
	var ms []Matcher
	ms = append(ms, partyMatchers(englishParty)...)
	ms = append(ms, englishPartyExtras()...)
	ms = append(ms, durationMatchers(englishDuration)...)
	ms = append(ms, newBudgetMatcher("budget.english", reBudgetEnglish))
	ms = append(ms, starMatchers()...)
	ms = append(ms, hotelCategoryMatcher(), mealMatcher())
	ms = append(ms, flagMatchers(GroupEnglish, englishFlags)...)
	ms = append(ms, tripToMatcher())
	ms = append(ms, signatureMatcher(), introductionMatcher())
	ms = append(ms, departureMatchers(GroupEnglish, opts.Dictionaries.Cities)...)
	ms = append(ms, deadlineMatchers()...)
	return ms
}

func hinglishMatchers(opts Options) []Matcher {
	var ms []Matcher
	ms = append(ms, partyMatchers(hinglishParty)...)
	ms = append(ms, durationMatchers(hinglishDuration)...)
	ms = append(ms, newBudgetMatcher("budget.hinglish", reBudgetHinglish))
	ms = append(ms, hinglishMealMatcher())
	ms = append(ms, janaMatcher(), meraNaamMatcher())
	ms = append(ms, departureMatchers(GroupHinglish, opts.Dictionaries.Cities)...)
	ms = append(ms, hinglishDeadlineMatcher())
	return ms
}

func hindiMatchers(opts Options) []Matcher {
	var ms []Matcher
	ms = append(ms, partyMatchers(hindiParty)...)
	ms = append(ms, durationMatchers(hindiDuration)...)
	ms = append(ms, newBudgetMatcher("budget.hindi", reBudgetHindi))
	ms = append(ms, hindiStarMatcher(), hindiHotelCategoryMatcher(), hindiMealMatcher())
	ms = append(ms, hindiSignatureMatcher(), hindiMeraNaamMatcher())
	ms = append(ms, departureMatchers(GroupHindi, opts.Dictionaries.Cities)...)
	ms = append(ms, hindiDeadlineMatcher())
	return ms
}
