package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/tripparse/internal/model"
)

const (
	rankGazetteer   = 10
	rankTripTo      = 15
	rankContactInfo = 20
)

var (
	reEmail = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)
	rePhone = regexp.MustCompile(`(?:\+91[\-\s]?|\b0|\b)([6-9]\d{4})[\-\s]?(\d{5})\b`)

	// reTripTo captures one or two capitalised words after a travel verb
	reTripTo = regexp.MustCompile(`\b(?:(?:[Tt]rip|[Tt]our|[Hh]oliday|[Vv]acation|[Tt]ravel(?:l?ing)?|[Gg]oing|[Hh]oneymoon|[Pp]ackage|[Ff]ly(?:ing)?)\s+to|[Vv]isit(?:ing)?)\s+([A-Z][a-z]{2,}(?:\s+[A-Z][a-z]{2,})?)\b`)

	// reJana captures "Goa jana hai", "Manali ghumna hai", "Kerala ka trip"
	reJana = regexp.MustCompile(`\b([A-Z][a-z]{2,}(?:\s+[A-Z][a-z]{2,})?)\s+(?:jana|jaana|jaane|ghumna|ghoomna|ka\s+trip|ki\s+trip|trip)\b`)
)

// nonPlaceWords are capitalised words that follow travel verbs without naming a place
var nonPlaceWords = map[string]bool{
	"the": true, "our": true, "my": true, "your": true, "this": true, "next": true,
	"january": true, "february": true, "march": true, "april": true, "may": true, "june": true,
	"july": true, "august": true, "september": true, "october": true, "november": true, "december": true,
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true, "friday": true,
	"saturday": true, "sunday": true, "package": true, "hotel": true, "budget": true,
}

func placeCandidates(name string, re *regexp.Regexp) Matcher {
	return newRegexMatcher(name, re, func(text string, m []int) []model.Candidate {
		place := group(text, m, 1)
		first := strings.ToLower(strings.Fields(place)[0])
		if nonPlaceWords[first] {
			return nil
		}
		return []model.Candidate{newCandidate(model.FieldDestinations, model.List(place), rankTripTo, m[2], m[3])}
	})
}

func tripToMatcher() Matcher { return placeCandidates("destinations.trip_to", reTripTo) }

func janaMatcher() Matcher { return placeCandidates("destinations.jana", reJana) }

// contactMatchers extract emails and Indian mobile numbers
func contactMatchers() []Matcher {
	return []Matcher{
		newRegexMatcher("contact.email", reEmail, func(text string, m []int) []model.Candidate {
			email := strings.ToLower(text[m[0]:m[1]])
			return []model.Candidate{newCandidate(model.FieldContactInfo, model.List(email), rankContactInfo, m[0], m[1])}
		}),
		newRegexMatcher("contact.phone", rePhone, func(text string, m []int) []model.Candidate {
			phone := "+91" + group(text, m, 1) + group(text, m, 2)
			return []model.Candidate{newCandidate(model.FieldContactInfo, model.List(phone), rankContactInfo, m[0], m[1])}
		}),
	}
}

// gazetteerMatchers match the configured destination, activity and request dictionaries
func gazetteerMatchers(dict model.Dictionaries) []Matcher {
	return []Matcher{
		newGazetteer("destinations.gazetteer", model.FieldDestinations, rankGazetteer, dict.Destinations),
		newGazetteer("activities.gazetteer", model.FieldActivities, rankGazetteer, dict.Activities),
		newGazetteer("special_requests.gazetteer", model.FieldSpecialRequests, rankGazetteer, dict.SpecialRequests),
	}
}
