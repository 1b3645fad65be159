package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/tripparse/internal/model"
)

var (
	reReplyWithin = regexp.MustCompile(`(?i)\b(?:within|in\s+the\s+next)\s+(\d{1,2}|one|two|three|four|five|seven)\s+(hours?|days?)\b`)
	reReplyBy     = regexp.MustCompile(`(?i)\b(?:reply|respond|revert|quote|quotation|send|share)\b[^.\n]{0,30}?\bby\s+((?:end\s+of\s+(?:the\s+)?(?:day|week))|today|tomorrow|tonight|monday|tuesday|wednesday|thursday|friday|saturday|sunday|eod|eow)\b`)
)

func deadlineMatchers() []Matcher {
	return []Matcher{
		newRegexMatcher("deadline.within", reReplyWithin, func(text string, m []int) []model.Candidate {
			n, ok := parseCount(group(text, m, 1))
			if !ok {
				return nil
			}
			unit := strings.ToLower(group(text, m, 2))
			unit = strings.TrimSuffix(unit, "s")
			if n != 1 {
				unit += "s"
			}
			v := model.String("Within " + strconv.Itoa(n) + " " + unit)
			return []model.Candidate{newCandidate(model.FieldResponseDeadline, v, 20, m[0], m[1])}
		}),
		newRegexMatcher("deadline.by", reReplyBy, func(text string, m []int) []model.Candidate {
			v := model.String("By " + strings.ToLower(group(text, m, 1)))
			return []model.Candidate{newCandidate(model.FieldResponseDeadline, v, 20, m[2], m[3])}
		}),
		newMappedMatcher("deadline.english", model.FieldResponseDeadline, []mapping{
			{regexp.MustCompile(`(?i)\b(?:urgent(?:ly)?|in\s+a\s+hurry|hurry\s+to\s+finali[sz]e|immediately)\b`), "Urgent", 15},
			{regexp.MustCompile(`(?i)\b(?:asap|as\s+soon\s+as\s+possible|at\s+the\s+earliest|earliest\s+possible)\b`), "ASAP", 15},
			{regexp.MustCompile(`(?i)\b(?:by\s+)?(?:today|tonight|end\s+of\s+(?:the\s+)?day)\b`), "Today", 10},
			{regexp.MustCompile(`(?i)\bby\s+tomorrow\b`), "Tomorrow", 10},
		}),
	}
}

func hinglishDeadlineMatcher() Matcher {
	return newMappedMatcher("deadline.hinglish", model.FieldResponseDeadline, []mapping{
		{regexp.MustCompile(`(?i)\b(?:jaldi|jldi|turant)\b`), "Urgent", 15},
		{regexp.MustCompile(`(?i)\bfinali[sz]e\s+karna\s+(?:chahta|chahte|chahti)\b`), "ASAP", 15},
		{regexp.MustCompile(`(?i)\baaj\s+(?:hi|tak)\b`), "Today", 10},
		{regexp.MustCompile(`(?i)\bkal\s+tak\b`), "Tomorrow", 10},
	})
}

func hindiDeadlineMatcher() Matcher {
	return newMappedMatcher("deadline.hindi", model.FieldResponseDeadline, []mapping{
		{regexp.MustCompile(`जल्दी|तुरंत|शीघ्र`), "Urgent", 15},
		{regexp.MustCompile(`आज\s+(?:ही|तक)`), "Today", 10},
		{regexp.MustCompile(`कल\s+तक`), "Tomorrow", 10},
	})
}
