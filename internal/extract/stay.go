package extract

import (
	"regexp"
	"strings"

	"github.com/ppiankov/tripparse/internal/model"
)

var (
	reStarDigit = regexp.MustCompile(`(?i)\b([1-7])\s*[-\s]?\s*star\b`)
	reStarWord  = regexp.MustCompile(`(?i)\b(three|four|five|seven)\s*[-\s]?\s*star\b`)
	reStarHindi = regexp.MustCompile(`([1-7])\s*(?:सितारा|स्टार)`)
)

var starWords = map[string]string{"three": "3", "four": "4", "five": "5", "seven": "7"}

// starMatchers emit "N-star" hotel types
func starMatchers() []Matcher {
	build := func(text string, m []int) []model.Candidate {
		n := strings.ToLower(group(text, m, 1))
		if w, ok := starWords[n]; ok {
			n = w
		}
		return []model.Candidate{newCandidate(model.FieldHotelType, model.String(n+"-star"), 20, m[0], m[1])}
	}
	return []Matcher{
		newRegexMatcher("hotel.star", reStarDigit, build),
		newRegexMatcher("hotel.star_word", reStarWord, build),
	}
}

func hindiStarMatcher() Matcher {
	return newRegexMatcher("hotel.star.hindi", reStarHindi, func(text string, m []int) []model.Candidate {
		return []model.Candidate{newCandidate(model.FieldHotelType, model.String(group(text, m, 1)+"-star"), 20, m[0], m[1])}
	})
}

func hotelCategoryMatcher() Matcher {
	return newMappedMatcher("hotel.category", model.FieldHotelType, []mapping{
		{regexp.MustCompile(`(?i)\bwater\s+villas?\b`), "Water villa", 15},
		{regexp.MustCompile(`(?i)\bbeach\s+villas?\b`), "Beach villa", 15},
		{regexp.MustCompile(`(?i)\bheritage\s+(?:hotels?|properties|property)\b`), "Heritage hotel", 15},
		{regexp.MustCompile(`(?i)\bboutique\s+(?:hotels?|stays?)\b`), "Boutique hotel", 15},
		{regexp.MustCompile(`(?i)\bluxury\s+(?:hotels?|resorts?|stays?)\b`), "Luxury", 12},
		{regexp.MustCompile(`(?i)\bbudget\s+(?:hotels?|stays?)\b`), "Budget", 12},
		{regexp.MustCompile(`(?i)\bresorts?\b`), "Resort", 10},
		{regexp.MustCompile(`(?i)\bhomestays?\b`), "Homestay", 10},
		{regexp.MustCompile(`(?i)\bguest\s?houses?\b`), "Guest house", 10},
		{regexp.MustCompile(`(?i)\bhostels?\b`), "Hostel", 10},
		{regexp.MustCompile(`(?i)\bcamps?\b|\btents?\b`), "Camp", 8},
	})
}

func hindiHotelCategoryMatcher() Matcher {
	return newMappedMatcher("hotel.category.hindi", model.FieldHotelType, []mapping{
		{regexp.MustCompile(`रिसॉर्ट|रिज\x{093C}?ॉर्ट`), "Resort", 10},
		{regexp.MustCompile(`होमस्टे`), "Homestay", 10},
		{regexp.MustCompile(`धर्मशाला`), "Guest house", 10},
	})
}

// Meal plans: combined plans outrank a lone "breakfast"
func mealMatcher() Matcher {
	return newMappedMatcher("meal.english", model.FieldMealPlan, []mapping{
		{regexp.MustCompile(`(?i)\ball[\s-]+inclusive\b`), "All inclusive", 25},
		{regexp.MustCompile(`(?i)\b(?:all\s+meals|full\s+board|breakfast,?\s+lunch\s+(?:and|&)\s+dinner)\b|(?-i:\bAPAI\b)`), "All meals", 20},
		{regexp.MustCompile(`(?i)\b(?:breakfast\s+(?:and|&|\+)\s+dinner|half\s+board)\b|(?-i:\bMAP(?:AI)?\b)`), "Breakfast and dinner", 20},
		{regexp.MustCompile(`(?i)\b(?:veg(?:etarian)?\s+meals?|pure\s+veg(?:etarian)?\s+food)\b`), "Veg meals", 15},
		{regexp.MustCompile(`(?i)\b(?:room\s+only|no\s+meals?)\b|(?-i:\bEPAI\b)`), "Room only", 15},
		{regexp.MustCompile(`(?i)\bbreakfast\b|(?-i:\bCPAI\b)`), "Breakfast", 10},
	})
}

func hinglishMealMatcher() Matcher {
	return newMappedMatcher("meal.hinglish", model.FieldMealPlan, []mapping{
		{regexp.MustCompile(`(?i)\b(?:breakfast|nashta|naashta)\s+aur\s+(?:dinner|raat\s+ka\s+khana)\b`), "Breakfast and dinner", 20},
		{regexp.MustCompile(`(?i)\b(?:teeno|teenon)\s+(?:time\s+ka\s+)?khana\b`), "All meals", 20},
		{regexp.MustCompile(`(?i)\b(?:nashta|naashta)\b`), "Breakfast", 10},
	})
}

func hindiMealMatcher() Matcher {
	return newMappedMatcher("meal.hindi", model.FieldMealPlan, []mapping{
		{regexp.MustCompile(`नाश्ता\s+(?:और|व)\s+रात\s+का\s+खाना`), "Breakfast and dinner", 20},
		{regexp.MustCompile(`तीनों\s+(?:समय\s+का\s+)?(?:भोजन|खाना)`), "All meals", 20},
		{regexp.MustCompile(`शाकाहारी\s+(?:भोजन|खाना)`), "Veg meals", 15},
		{regexp.MustCompile(`नाश्ता`), "Breakfast", 10},
	})
}
