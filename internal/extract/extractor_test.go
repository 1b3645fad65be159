package extract

import (
	"errors"
	"testing"
	"time"

	"github.com/ppiankov/tripparse/internal/model"
)

var testRef = time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)

func newTestExtractor() *Extractor {
	return NewExtractor(NewBank(Options{
		Reference:    testRef,
		Dictionaries: model.DefaultDictionaries(),
	}))
}

// best returns the highest-ranked candidate for a field, earliest on ties
func best(cands []model.Candidate, field model.FieldID) (model.Candidate, bool) {
	var out model.Candidate
	found := false
	for _, c := range cands {
		if c.Field != field {
			continue
		}
		if !found || c.Rank > out.Rank {
			out = c
			found = true
		}
	}
	return out, found
}

func byField(cands []model.Candidate, field model.FieldID) []model.Candidate {
	var out []model.Candidate
	for _, c := range cands {
		if c.Field == field {
			out = append(out, c)
		}
	}
	return out
}

func TestExtractor_EnglishInquiry(t *testing.T) {
	e := newTestExtractor()

	text := model.InquiryText{
		Text: "Dear team,\nWe are planning a 5 nights trip to Phuket for 3 people (2 adults + 1 child) in the second week of November. " +
			"Hotel 4-star with breakfast. Budget ₹45000 per person.\nRegards,\nRahul Sharma",
		Lang: model.LangEnglish,
	}

	cands, errs := e.Extract(text)
	if len(errs) != 0 {
		t.Fatalf("unexpected matcher errors: %v", errs)
	}

	ints := map[model.FieldID]int{
		model.FieldTravelers:      3,
		model.FieldAdults:         2,
		model.FieldChildren:       1,
		model.FieldDurationNights: 5,
	}
	for field, want := range ints {
		c, ok := best(cands, field)
		if !ok {
			t.Errorf("expected a candidate for %s", field)
			continue
		}
		if c.Value.Int != want {
			t.Errorf("%s: expected %d, got %d", field, want, c.Value.Int)
		}
	}

	if c, _ := best(cands, model.FieldTravelers); c.Rank != rankCompound {
		t.Errorf("expected compound rank for travelers, got %d", c.Rank)
	}

	hotel, ok := best(cands, model.FieldHotelType)
	if !ok || hotel.Value.Str != "4-star" {
		t.Errorf("expected hotel 4-star, got %v", hotel.Value)
	}

	meal, ok := best(cands, model.FieldMealPlan)
	if !ok || meal.Value.Str != "Breakfast" {
		t.Errorf("expected meal plan Breakfast, got %v", meal.Value)
	}

	budget, ok := best(cands, model.FieldBudget)
	if !ok {
		t.Fatal("expected a budget candidate")
	}
	want := model.Money{Amount: 45000, Unit: model.UnitPerPerson, Currency: "INR"}
	if budget.Value.Money != want {
		t.Errorf("expected budget %+v, got %+v", want, budget.Value.Money)
	}
	if budget.Rank != rankBudgetKeyword {
		t.Errorf("expected budget keyword rank, got %d", budget.Rank)
	}

	start, ok := best(cands, model.FieldStartDate)
	if !ok || start.Value.Date.Format(model.DateLayout) != "2025-11-10" {
		t.Errorf("expected start 2025-11-10, got %v", start.Value)
	}
	if _, ok := best(cands, model.FieldEndDate); ok {
		t.Error("pattern extractor must not compute an end date from the duration")
	}

	name, ok := best(cands, model.FieldCustomerName)
	if !ok || name.Value.Str != "Rahul Sharma" {
		t.Errorf("expected customer name Rahul Sharma, got %v", name.Value)
	}
	if name.Cue != model.CueSignature {
		t.Errorf("expected signature cue, got %q", name.Cue)
	}

	if got := byField(cands, model.FieldFlightRequired); len(got) != 0 {
		t.Errorf("expected no flight candidates without a mention, got %v", got)
	}

	for _, c := range cands {
		if c.Source != model.SourcePattern {
			t.Errorf("expected pattern source, got %s", c.Source)
		}
		if c.Span == nil {
			t.Errorf("expected span on %s", c)
		}
	}
}

func TestExtractor_HinglishInquiry(t *testing.T) {
	e := newTestExtractor()

	text := model.InquiryText{
		Text: "Hum 4 log (2 adults aur 2 bacche) Goa jana hai December mein, 5 raatein. Budget ₹50k per bande. Flight bhi chahiye.",
		Lang: model.LangHinglish,
	}

	cands, errs := e.Extract(text)
	if len(errs) != 0 {
		t.Fatalf("unexpected matcher errors: %v", errs)
	}

	for field, want := range map[model.FieldID]int{
		model.FieldTravelers:      4,
		model.FieldAdults:         2,
		model.FieldChildren:       2,
		model.FieldDurationNights: 5,
	} {
		c, ok := best(cands, field)
		if !ok || c.Value.Int != want {
			t.Errorf("%s: expected %d, got %v", field, want, c.Value)
		}
	}

	budget, _ := best(cands, model.FieldBudget)
	if budget.Value.Money.Amount != 50000 || budget.Value.Money.Unit != model.UnitPerPerson {
		t.Errorf("expected 50000 per person, got %+v", budget.Value.Money)
	}

	flight, ok := best(cands, model.FieldFlightRequired)
	if !ok || !flight.Value.Bool {
		t.Errorf("expected flight required, got %v", flight.Value)
	}

	start, ok := best(cands, model.FieldStartDate)
	if !ok || start.Value.Date.Format(model.DateLayout) != "2025-12-01" {
		t.Errorf("expected start 2025-12-01, got %v", start.Value)
	}

	if len(byField(cands, model.FieldDestinations)) == 0 {
		t.Error("expected destination candidates for Goa")
	}
}

func TestExtractor_HindiInquiry(t *testing.T) {
	e := newTestExtractor()

	text := model.InquiryText{
		Text: "हम 3 व्यक्ति (2 वयस्क + 1 बच्चा) नवंबर के दूसरे हफ्ते में गोवा जाना चाहते हैं। 5 रातें। बजट 40000 रुपये प्रति व्यक्ति।",
		Lang: model.LangHindi,
	}

	cands, errs := e.Extract(text)
	if len(errs) != 0 {
		t.Fatalf("unexpected matcher errors: %v", errs)
	}

	for field, want := range map[model.FieldID]int{
		model.FieldTravelers:      3,
		model.FieldAdults:         2,
		model.FieldChildren:       1,
		model.FieldDurationNights: 5,
	} {
		c, ok := best(cands, field)
		if !ok || c.Value.Int != want {
			t.Errorf("%s: expected %d, got %v", field, want, c.Value)
		}
	}

	start, ok := best(cands, model.FieldStartDate)
	if !ok || start.Value.Date.Format(model.DateLayout) != "2025-11-10" {
		t.Errorf("expected start 2025-11-10, got %v", start.Value)
	}

	budget, ok := best(cands, model.FieldBudget)
	want := model.Money{Amount: 40000, Unit: model.UnitPerPerson, Currency: "INR"}
	if !ok || budget.Value.Money != want {
		t.Errorf("expected %+v, got %+v", want, budget.Value.Money)
	}

	dest := byField(cands, model.FieldDestinations)
	if len(dest) != 1 || dest[0].Value.List[0] != "गोवा" {
		t.Errorf("expected one destination गोवा, got %v", dest)
	}
}

func TestExtractor_NegationSuppressesAffirmative(t *testing.T) {
	e := newTestExtractor()

	cands, _ := e.Extract(model.InquiryText{
		Text: "We need visa assistance but no flights required.",
		Lang: model.LangEnglish,
	})

	flights := byField(cands, model.FieldFlightRequired)
	if len(flights) != 1 {
		t.Fatalf("expected exactly one flight candidate, got %v", flights)
	}
	if flights[0].Value.Bool {
		t.Error("expected flight_required false")
	}

	visa, ok := best(cands, model.FieldVisaRequired)
	if !ok || !visa.Value.Bool {
		t.Errorf("expected visa_required true, got %v", visa.Value)
	}
}

func TestExtractor_CodeSwitchedFlags(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name  string
		text  string
		lang  model.LangMix
		field model.FieldID
		want  bool
	}{
		{"flight latin noun devanagari verb", "नमस्ते, हम 4 लोग गोवा जाना चाहते हैं। 5 star hotel चाहिए, flight भी चाहिए। दिसंबर के दूसरे हफ्ते में जाना है, 5 रातें।", model.LangMixed, model.FieldFlightRequired, true},
		{"flight devanagari noun latin verb", "फ्लाइट book karni hai", model.LangMixed, model.FieldFlightRequired, true},
		{"flight hindi only", "हवाई टिकट भी चाहिए", model.LangHindi, model.FieldFlightRequired, true},
		{"flight hinglish only", "Flights bhi chahiye", model.LangHinglish, model.FieldFlightRequired, true},
		{"flight mixed negative", "flight की ज\u093cरूरत नहीं", model.LangMixed, model.FieldFlightRequired, false},
		{"visa latin noun devanagari verb", "visa चाहिए", model.LangMixed, model.FieldVisaRequired, true},
		{"visa devanagari noun latin verb", "वीजा lagwana hai", model.LangMixed, model.FieldVisaRequired, true},
		{"visa mixed negative", "visa नहीं चाहिए", model.LangMixed, model.FieldVisaRequired, false},
		{"insurance latin noun devanagari verb", "travel insurance भी चाहिए", model.LangMixed, model.FieldInsuranceRequired, true},
		{"insurance devanagari noun latin verb", "बीमा chahiye", model.LangMixed, model.FieldInsuranceRequired, true},
		{"insurance mixed negative", "insurance ki zarurat नहीं", model.LangMixed, model.FieldInsuranceRequired, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cands, _ := e.Extract(model.InquiryText{Text: tt.text, Lang: tt.lang})
			flags := byField(cands, tt.field)
			if len(flags) != 1 {
				t.Fatalf("expected one %s candidate, got %v", tt.field, flags)
			}
			if flags[0].Value.Bool != tt.want {
				t.Errorf("expected %s=%v, got %v", tt.field, tt.want, flags[0].Value.Bool)
			}
		})
	}
}

func TestExtractor_IntroductionCue(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		text string
		lang model.LangMix
		name string
		cue  string
	}{
		{"Hello, my name is Rahul Sharma and we want Goa", model.LangEnglish, "Rahul Sharma", model.CueIntroduction},
		{"I am Priya Nair, planning a trip", model.LangEnglish, "Priya Nair", ""},
		{"Namaste, mera naam rohit verma hai", model.LangHinglish, "rohit verma", model.CueIntroduction},
		{"मेरा नाम अमित है", model.LangHindi, "अमित", model.CueIntroduction},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			cands, _ := e.Extract(model.InquiryText{Text: tt.text, Lang: tt.lang})
			name, ok := best(cands, model.FieldCustomerName)
			if !ok {
				t.Fatalf("expected a name candidate in %q", tt.text)
			}
			if name.Value.Str != tt.name {
				t.Errorf("expected name %q, got %q", tt.name, name.Value.Str)
			}
			if name.Cue != tt.cue {
				t.Errorf("expected cue %q, got %q", tt.cue, name.Cue)
			}
		})
	}
}

func TestExtractor_Durations(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		text string
		want int
		ok   bool
	}{
		{"A 6 days holiday", 5, true},
		{"Planning for 1 week in Bali", 7, true},
		{"Package 4N/5D please", 4, true},
		{"Please reply within 2 days", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			cands, _ := e.Extract(model.InquiryText{Text: tt.text, Lang: model.LangEnglish})
			c, ok := best(cands, model.FieldDurationNights)
			if ok != tt.ok {
				t.Fatalf("expected candidate=%v, got %v (%v)", tt.ok, ok, cands)
			}
			if ok && c.Value.Int != tt.want {
				t.Errorf("expected %d nights, got %d", tt.want, c.Value.Int)
			}
		})
	}
}

func TestExtractor_BudgetVariants(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		text string
		want model.Money
	}{
		{"We can spend Rs 1.5 lakh overall", model.Money{Amount: 150000, Unit: model.UnitTotal, Currency: "INR"}},
		{"Budget is around $1500 USD", model.Money{Amount: 1500, Unit: model.UnitTotal, Currency: "USD"}},
		{"INR 30,000 pp", model.Money{Amount: 30000, Unit: model.UnitPerPerson, Currency: "INR"}},
		{"about 25000 rupees each", model.Money{Amount: 25000, Unit: model.UnitPerPerson, Currency: "INR"}},
		{"Budget: 50000 per person", model.Money{Amount: 50000, Unit: model.UnitPerPerson, Currency: "INR"}},
		{"budget around 1.5 lakh total", model.Money{Amount: 150000, Unit: model.UnitTotal, Currency: "INR"}},
		{"Our budget is approximately 45000 per person", model.Money{Amount: 45000, Unit: model.UnitPerPerson, Currency: "INR"}},
		{"Budget ₹45000 per person", model.Money{Amount: 45000, Unit: model.UnitPerPerson, Currency: "INR"}},
		{"Budget 2000 dollars", model.Money{Amount: 2000, Unit: model.UnitTotal, Currency: "USD"}},
		{"हमारा बजट लगभग 1 लाख है", model.Money{Amount: 100000, Unit: model.UnitTotal, Currency: "INR"}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			cands, _ := e.Extract(model.InquiryText{Text: tt.text, Lang: model.LangEnglish})
			c, ok := best(cands, model.FieldBudget)
			if !ok {
				t.Fatalf("expected a budget candidate in %q", tt.text)
			}
			if c.Value.Money != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, c.Value.Money)
			}
		})
	}
}

func TestExtractor_KeywordBudgetLeavesCurrencyAmounts(t *testing.T) {
	e := newTestExtractor()

	cands, _ := e.Extract(model.InquiryText{Text: "Budget ₹45000 per person", Lang: model.LangEnglish})
	budgets := byField(cands, model.FieldBudget)
	if len(budgets) != 1 {
		t.Fatalf("expected exactly one budget candidate, got %d (%v)", len(budgets), budgets)
	}

	cands, _ = e.Extract(model.InquiryText{Text: "Budget: 50000 per person", Lang: model.LangEnglish})
	budgets = byField(cands, model.FieldBudget)
	if len(budgets) != 1 {
		t.Fatalf("expected exactly one budget candidate, got %d (%v)", len(budgets), budgets)
	}
	if budgets[0].Rank != rankBudgetKeyword {
		t.Errorf("expected keyword rank %d, got %d", rankBudgetKeyword, budgets[0].Rank)
	}
	if got := "Budget: 50000 per person"[budgets[0].Span.Start:budgets[0].Span.End]; got != "50000 per person" {
		t.Errorf("expected span %q, got %q", "50000 per person", got)
	}
}

func TestExtractor_DateRange(t *testing.T) {
	e := newTestExtractor()

	cands, _ := e.Extract(model.InquiryText{
		Text: "Travel from 10 Nov 2025 to 15 Nov 2025 please",
		Lang: model.LangEnglish,
	})

	start, ok := best(cands, model.FieldStartDate)
	if !ok || start.Value.Date.Format(model.DateLayout) != "2025-11-10" {
		t.Errorf("expected start 2025-11-10, got %v", start.Value)
	}
	end, ok := best(cands, model.FieldEndDate)
	if !ok || end.Value.Date.Format(model.DateLayout) != "2025-11-15" {
		t.Errorf("expected explicit end 2025-11-15, got %v", end.Value)
	}
	if got := byField(cands, model.FieldStartDate); len(got) != 1 {
		t.Errorf("range end must not also be a start candidate, got %v", got)
	}
}

func TestExtractor_ContactInfo(t *testing.T) {
	e := newTestExtractor()

	cands, _ := e.Extract(model.InquiryText{
		Text: "Reach me at Rahul.Sharma@Example.com or +91 98765 43210",
		Lang: model.LangEnglish,
	})

	contacts := byField(cands, model.FieldContactInfo)
	if len(contacts) != 2 {
		t.Fatalf("expected 2 contact candidates, got %v", contacts)
	}
	if contacts[0].Value.List[0] != "rahul.sharma@example.com" {
		t.Errorf("unexpected email %q", contacts[0].Value.List[0])
	}
	if contacts[1].Value.List[0] != "+919876543210" {
		t.Errorf("unexpected phone %q", contacts[1].Value.List[0])
	}
}

func TestExtractor_ActivityMentionsKeepPositionOrder(t *testing.T) {
	e := newTestExtractor()

	cands, _ := e.Extract(model.InquiryText{
		Text: "Day 1 Bangkok city tour. Day 3 BANGKOK CITY  TOUR again.",
		Lang: model.LangEnglish,
	})

	acts := byField(cands, model.FieldActivities)
	if len(acts) != 2 {
		t.Fatalf("expected 2 activity candidates, got %v", acts)
	}
	if acts[0].Span.Start >= acts[1].Span.Start {
		t.Errorf("expected match-position order, got %v", acts)
	}
	if acts[0].Seq >= acts[1].Seq {
		t.Errorf("expected increasing Seq, got %d then %d", acts[0].Seq, acts[1].Seq)
	}
}

type panicMatcher struct{}

func (panicMatcher) Name() string { return "panics" }
func (panicMatcher) Match(string) ([]model.Candidate, error) {
	panic("boom")
}

type errorMatcher struct{}

func (errorMatcher) Name() string { return "errors" }
func (errorMatcher) Match(text string) ([]model.Candidate, error) {
	return []model.Candidate{newCandidate(model.FieldHotelType, model.String("Lost"), 99, 0, 1)}, errors.New("bad state")
}

func TestExtractor_MatcherFailuresAreIsolated(t *testing.T) {
	bank := NewBank(Options{Reference: testRef, Dictionaries: model.DefaultDictionaries()})
	bank.Register(GroupCommon, panicMatcher{}, errorMatcher{})
	e := NewExtractor(bank)

	cands, errs := e.Extract(model.InquiryText{Text: "Trip for 2 adults", Lang: model.LangEnglish})

	if len(errs) != 2 {
		t.Fatalf("expected 2 matcher errors, got %d: %v", len(errs), errs)
	}
	for _, err := range errs {
		var me *model.MatcherError
		if !errors.As(err, &me) {
			t.Errorf("expected *model.MatcherError, got %T", err)
		}
	}

	if c, ok := best(cands, model.FieldHotelType); ok {
		t.Errorf("candidates of a failed matcher must be dropped, got %v", c)
	}
	if c, ok := best(cands, model.FieldAdults); !ok || c.Value.Int != 2 {
		t.Errorf("other matchers must continue, got %v", c.Value)
	}
}

func TestExtractor_SeqIsUniqueAndIncreasing(t *testing.T) {
	e := newTestExtractor()

	cands, _ := e.Extract(model.InquiryText{
		Text: "3 people (2 adults + 1 child), 5 nights in Goa, budget Rs 60000, visa required",
		Lang: model.LangMixed,
	})

	for i := 1; i < len(cands); i++ {
		if cands[i].Seq != cands[i-1].Seq+1 {
			t.Fatalf("expected consecutive Seq, got %d after %d", cands[i].Seq, cands[i-1].Seq)
		}
	}
}

func TestBank_Variants(t *testing.T) {
	bank := NewBank(Options{Reference: testRef})

	tests := []struct {
		lang model.LangMix
		want []string
	}{
		{model.LangEnglish, []string{GroupCommon, GroupEnglish}},
		{model.LangHinglish, []string{GroupCommon, GroupEnglish, GroupHinglish}},
		{model.LangHindi, []string{GroupCommon, GroupHindi}},
		{model.LangMixed, []string{GroupCommon, GroupEnglish, GroupHinglish, GroupHindi}},
		{model.LangMix("klingon"), []string{GroupCommon, GroupEnglish, GroupHinglish, GroupHindi}},
	}

	for _, tt := range tests {
		groups := bank.Variant(tt.lang)
		if len(groups) != len(tt.want) {
			t.Errorf("%s: expected %d groups, got %d", tt.lang, len(tt.want), len(groups))
			continue
		}
		for i, g := range groups {
			if g.Name != tt.want[i] {
				t.Errorf("%s: group %d expected %s, got %s", tt.lang, i, tt.want[i], g.Name)
			}
		}
	}
}

func TestExtractor_EmptyText(t *testing.T) {
	e := newTestExtractor()

	cands, errs := e.Extract(model.InquiryText{Lang: model.LangEnglish})
	if len(cands) != 0 || len(errs) != 0 {
		t.Errorf("expected nothing for empty text, got %v %v", cands, errs)
	}
}
