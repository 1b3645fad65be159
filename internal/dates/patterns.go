package dates

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	monthPattern      = `(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sept?(?:ember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`
	hindiMonthPattern = `(जनवरी|फ\x{093C}?रवरी|मार्च|अप्रैल|मई|जून|जुलाई|अगस्त|सितंबर|सितम्बर|अक्टूबर|अक्तूबर|नवंबर|नवम्बर|दिसंबर|दिसम्बर)`
	ordinalSuffix     = `(?:st|nd|rd|th)?`
	yearSuffix        = `(?:[,\-]?\s*(\d{4})\b)?`
)

var (
	reISO       = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	reNumeric   = regexp.MustCompile(`\b(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{4}|\d{2})\b`)
	reDayMonth  = regexp.MustCompile(`(?i)\b(\d{1,2})` + ordinalSuffix + `(?:\s+of)?[\s\-]+` + monthPattern + `\b\.?` + yearSuffix)
	reMonthDay  = regexp.MustCompile(`(?i)\b` + monthPattern + `\b\.?\s+(\d{1,2})` + ordinalSuffix + `\b` + yearSuffix)
	reDayRange  = regexp.MustCompile(`(?i)\b(\d{1,2})` + ordinalSuffix + `\s*(?:-|–|to|till|until)\s*(\d{1,2})` + ordinalSuffix + `(?:\s+of)?\s+` + monthPattern + `\b\.?` + yearSuffix)
	reWeekOf    = regexp.MustCompile(`(?i)\b(first|1st|second|2nd|third|3rd|fourth|4th|last)\s+week\s+of\s+` + monthPattern + `\b` + yearSuffix)
	reWeekKe    = regexp.MustCompile(`(?i)\b` + monthPattern + `\b(?:\s+(\d{4}))?\s+(?:ke|ka|ki|mein)\s+(first|second|third|fourth|last|pehle|pehla|doosre|dusre|dusra|teesre|tisre|chauthe|aakhri|akhri)\s+(?:week|hafte|hafta)\b`)
	reMonthIn   = regexp.MustCompile(`(?i)\b(?:in|during|for|around|early|mid|month\s+of)\s+` + monthPattern + `\b(?:\s+(\d{4})\b)?`)
	reMonthYr   = regexp.MustCompile(`(?i)\b` + monthPattern + `\s+(\d{4})\b`)
	reMonthMein = regexp.MustCompile(`(?i)\b` + monthPattern + `\b(?:\s+(\d{4}))?\s+(?:mein|me)\b`)

	reHindiDayMonth = regexp.MustCompile(`(\d{1,2})\s*` + hindiMonthPattern + `(?:\s*,?\s*(\d{4}))?`)
	reHindiWeek     = regexp.MustCompile(hindiMonthPattern + `(?:\s+(\d{4}))?\s+(?:के|का|की)\s+(पहले|पहला|दूसरे|दूसरा|तीसरे|चौथे|आखिरी|अंतिम)\s+(?:हफ\x{093C}?्ते|हफ\x{093C}?्ता|सप्ताह)`)
	reHindiMonthIn  = regexp.MustCompile(hindiMonthPattern + `(?:\s+(\d{4}))?\s+(?:में|मे)`)
)

var hindiMonths = map[string]time.Month{
	"जनवरी":   time.January,
	"फरवरी":   time.February,
	"मार्च":   time.March,
	"अप्रैल":  time.April,
	"मई":      time.May,
	"जून":     time.June,
	"जुलाई":   time.July,
	"अगस्त":   time.August,
	"सितंबर":  time.September,
	"सितम्बर": time.September,
	"अक्टूबर": time.October,
	"अक्तूबर": time.October,
	"नवंबर":   time.November,
	"नवम्बर":  time.November,
	"दिसंबर":  time.December,
	"दिसम्बर": time.December,
}

var weekOrdinals = map[string]int{
	"first": 1, "1st": 1, "pehle": 1, "pehla": 1, "पहले": 1, "पहला": 1,
	"second": 2, "2nd": 2, "doosre": 2, "dusre": 2, "dusra": 2, "दूसरे": 2, "दूसरा": 2,
	"third": 3, "3rd": 3, "teesre": 3, "tisre": 3, "तीसरे": 3,
	"fourth": 4, "4th": 4, "chauthe": 4, "चौथे": 4,
	"last": -1, "aakhri": -1, "akhri": -1, "आखिरी": -1, "अंतिम": -1,
}

// rangeJoiners separate the two ends of a "from X to Y" range
var rangeJoiners = map[string]bool{
	"to": true, "till": true, "until": true, "through": true, "and": true,
	"-": true, "–": true, "—": true, "se": true, "से": true,
}

// match is one regex hit with its submatch index pairs
type match struct {
	s string
	m []int
}

func (x match) group(i int) string {
	if 2*i+1 >= len(x.m) || x.m[2*i] < 0 {
		return ""
	}
	return x.s[x.m[2*i]:x.m[2*i+1]]
}

func (x match) result() Result {
	return Result{Text: x.s[x.m[0]:x.m[1]], Start: x.m[0], End: x.m[1]}
}

type rule struct {
	re    *regexp.Regexp
	build func(x match, ref time.Time) (Result, bool)
}

var rules = []rule{
	{reISO, buildISO},
	{reNumeric, buildNumeric},
	{reDayRange, buildDayRange},
	{reDayMonth, buildDayMonth},
	{reMonthDay, buildMonthDay},
	{reWeekOf, buildWeekOf},
	{reWeekKe, buildWeekKe},
	{reMonthIn, buildMonthOnly},
	{reMonthYr, buildMonthOnly},
	{reMonthMein, buildMonthOnly},
	{reHindiDayMonth, buildHindiDayMonth},
	{reHindiWeek, buildHindiWeek},
	{reHindiMonthIn, buildHindiMonthOnly},
}

func extract(s string, ref time.Time) []Result {
	var all []Result
	for _, r := range rules {
		for _, m := range r.re.FindAllStringSubmatchIndex(s, -1) {
			if res, ok := r.build(match{s: s, m: m}, ref); ok {
				all = append(all, res)
			}
		}
	}
	if len(all) == 0 {
		return nil
	}
	return resolveOverlaps(all)
}

// resolveOverlaps keeps the longest expression among overlapping ones, earlier start on ties
func resolveOverlaps(all []Result) []Result {
	slices.SortStableFunc(all, func(a, b Result) int {
		if c := cmp.Compare(b.End-b.Start, a.End-a.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.Start, b.Start)
	})

	kept := make([]Result, 0, len(all))
	for _, r := range all {
		overlaps := false
		for _, k := range kept {
			if r.Start < k.End && k.Start < r.End {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, r)
		}
	}

	slices.SortFunc(kept, func(a, b Result) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return kept
}

// FindRanges pairs adjacent results joined by "to", "till", "-", "se" and similar.
// Each result belongs to at most one range.
func FindRanges(s string, results []Result) []Range {
	var ranges []Range
	for i := 0; i+1 < len(results); i++ {
		a, b := results[i], results[i+1]
		if !a.Until.IsZero() || !b.Until.IsZero() {
			continue
		}
		gap := strings.ToLower(strings.TrimSpace(s[a.End:b.Start]))
		if !rangeJoiners[gap] {
			continue
		}
		if b.Time.Before(a.Time) && !b.HasYear {
			b.Time = b.Time.AddDate(1, 0, 0)
		}
		if b.Time.Before(a.Time) {
			continue
		}
		ranges = append(ranges, Range{From: a, To: b})
		i++
	}
	return ranges
}

func buildISO(x match, _ time.Time) (Result, bool) {
	t, ok := day(x.group(1), x.group(2), x.group(3))
	if !ok {
		return Result{}, false
	}
	r := x.result()
	r.Time, r.HasYear = t, true
	return r, true
}

// buildNumeric reads day-first numeric dates: 10/11/2025 is 10 November
func buildNumeric(x match, _ time.Time) (Result, bool) {
	t, ok := day(expandYear(x.group(3)), x.group(2), x.group(1))
	if !ok {
		return Result{}, false
	}
	r := x.result()
	r.Time, r.HasYear = t, true
	return r, true
}

func buildDayMonth(x match, ref time.Time) (Result, bool) {
	month, ok := monthFromName(x.group(2))
	if !ok {
		return Result{}, false
	}
	return resolveDay(x, ref, x.group(3), month, x.group(1))
}

func buildMonthDay(x match, ref time.Time) (Result, bool) {
	month, ok := monthFromName(x.group(1))
	if !ok {
		return Result{}, false
	}
	return resolveDay(x, ref, x.group(3), month, x.group(2))
}

func buildDayRange(x match, ref time.Time) (Result, bool) {
	month, ok := monthFromName(x.group(3))
	if !ok {
		return Result{}, false
	}
	r, ok := resolveDay(x, ref, x.group(4), month, x.group(1))
	if !ok {
		return Result{}, false
	}
	endDay, err := strconv.Atoi(x.group(2))
	if err != nil {
		return Result{}, false
	}
	until, ok := day(strconv.Itoa(r.Time.Year()), strconv.Itoa(int(month)), strconv.Itoa(endDay))
	if !ok || until.Before(r.Time) {
		return Result{}, false
	}
	r.Until = until
	return r, true
}

func buildHindiDayMonth(x match, ref time.Time) (Result, bool) {
	month, ok := hindiMonth(x.group(2))
	if !ok {
		return Result{}, false
	}
	return resolveDay(x, ref, x.group(3), month, x.group(1))
}

func buildWeekOf(x match, ref time.Time) (Result, bool) {
	month, ok := monthFromName(x.group(2))
	if !ok {
		return Result{}, false
	}
	return resolveWeek(x, ref, x.group(3), month, x.group(1))
}

func buildWeekKe(x match, ref time.Time) (Result, bool) {
	month, ok := monthFromName(x.group(1))
	if !ok {
		return Result{}, false
	}
	return resolveWeek(x, ref, x.group(2), month, x.group(3))
}

func buildHindiWeek(x match, ref time.Time) (Result, bool) {
	month, ok := hindiMonth(x.group(1))
	if !ok {
		return Result{}, false
	}
	return resolveWeek(x, ref, x.group(2), month, x.group(3))
}

func buildMonthOnly(x match, ref time.Time) (Result, bool) {
	month, ok := monthFromName(x.group(1))
	if !ok {
		return Result{}, false
	}
	return resolveMonth(x, ref, x.group(2), month)
}

func buildHindiMonthOnly(x match, ref time.Time) (Result, bool) {
	month, ok := hindiMonth(x.group(1))
	if !ok {
		return Result{}, false
	}
	return resolveMonth(x, ref, x.group(2), month)
}

func resolveDay(x match, ref time.Time, yearStr string, month time.Month, dayStr string) (Result, bool) {
	r := x.result()
	r.Precision = PrecisionDay
	if yearStr != "" {
		t, ok := day(yearStr, strconv.Itoa(int(month)), dayStr)
		if !ok {
			return Result{}, false
		}
		r.Time, r.HasYear = t, true
		return r, true
	}

	t, ok := day(strconv.Itoa(ref.Year()), strconv.Itoa(int(month)), dayStr)
	if !ok {
		// 29 Feb in a non-leap reference year may exist next year
		t, ok = day(strconv.Itoa(ref.Year()+1), strconv.Itoa(int(month)), dayStr)
		if !ok {
			return Result{}, false
		}
	}
	if t.Before(ref) {
		next, ok := day(strconv.Itoa(t.Year()+1), strconv.Itoa(int(month)), dayStr)
		if ok {
			t = next
		}
	}
	r.Time = t
	return r, true
}

func resolveWeek(x match, ref time.Time, yearStr string, month time.Month, ordinal string) (Result, bool) {
	n, ok := weekOrdinals[strings.ToLower(ordinal)]
	if !ok {
		return Result{}, false
	}
	r := x.result()
	r.Precision = PrecisionWeek

	year := ref.Year()
	if yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil {
			return Result{}, false
		}
		year, r.HasYear = y, true
	}

	t, ok := NthMonday(year, month, n)
	if !ok {
		return Result{}, false
	}
	if !r.HasYear && t.AddDate(0, 0, 6).Before(ref) {
		if t, ok = NthMonday(year+1, month, n); !ok {
			return Result{}, false
		}
	}
	r.Time = t
	return r, true
}

func resolveMonth(x match, ref time.Time, yearStr string, month time.Month) (Result, bool) {
	r := x.result()
	r.Precision = PrecisionMonth

	year := ref.Year()
	if yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil {
			return Result{}, false
		}
		year, r.HasYear = y, true
	}

	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	lastDay := t.AddDate(0, 1, -1)
	if !r.HasYear && lastDay.Before(ref) {
		t = t.AddDate(1, 0, 0)
	}
	r.Time = t
	return r, true
}

// day validates and builds a calendar date, rejecting overflow like 30 Feb
func day(yearStr, monthStr, dayStr string) (time.Time, bool) {
	y, err := strconv.Atoi(yearStr)
	if err != nil || y < 1900 || y > 2200 {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(monthStr)
	if err != nil || m < 1 || m > 12 {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(dayStr)
	if err != nil || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || t.Month() != time.Month(m) {
		return time.Time{}, false
	}
	return t, true
}

func expandYear(y string) string {
	if len(y) == 2 {
		return "20" + y
	}
	return y
}

func monthFromName(name string) (time.Month, bool) {
	name = strings.ToLower(name)
	if len(name) < 3 {
		return 0, false
	}
	switch name[:3] {
	case "jan":
		return time.January, true
	case "feb":
		return time.February, true
	case "mar":
		return time.March, true
	case "apr":
		return time.April, true
	case "may":
		return time.May, true
	case "jun":
		return time.June, true
	case "jul":
		return time.July, true
	case "aug":
		return time.August, true
	case "sep":
		return time.September, true
	case "oct":
		return time.October, true
	case "nov":
		return time.November, true
	case "dec":
		return time.December, true
	}
	return 0, false
}

func hindiMonth(name string) (time.Month, bool) {
	m, ok := hindiMonths[strings.ReplaceAll(name, "\u093c", "")]
	return m, ok
}
