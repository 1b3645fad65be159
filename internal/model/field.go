package model

import "fmt"

// FieldID identifies one output field
type FieldID string

const (
	FieldCustomerName      FieldID = "customer_name"
	FieldTravelers         FieldID = "travelers"
	FieldAdults            FieldID = "adults"
	FieldChildren          FieldID = "children"
	FieldDestinations      FieldID = "destinations"
	FieldStartDate         FieldID = "start_date"
	FieldEndDate           FieldID = "end_date"
	FieldDurationNights    FieldID = "duration_nights"
	FieldHotelType         FieldID = "hotel_type"
	FieldMealPlan          FieldID = "meal_plan"
	FieldActivities        FieldID = "activities"
	FieldFlightRequired    FieldID = "flight_required"
	FieldVisaRequired      FieldID = "visa_required"
	FieldInsuranceRequired FieldID = "insurance_required"
	FieldBudget            FieldID = "budget"
	FieldDepartureCity     FieldID = "departure_city"
	FieldSpecialRequests   FieldID = "special_requests"
	FieldResponseDeadline  FieldID = "response_deadline"
	FieldContactInfo       FieldID = "contact_info"
)

// FusionPolicy selects how competing candidates for a field are resolved
type FusionPolicy string

const (
	PolicyPatternPrecedence FusionPolicy = "pattern_precedence" // Rules are more reliable (quantities, currency, booleans)
	PolicyModelPrecedence   FusionPolicy = "model_precedence"   // Free-text entities, unless a structural cue is present
	PolicyUnion             FusionPolicy = "union"              // List fields: union, normalize, dedupe
	PolicyDerived           FusionPolicy = "derived"            // Explicit candidate if any, else computed from other fields
)

// Valid reports whether p is a known policy
func (p FusionPolicy) Valid() bool {
	switch p {
	case PolicyPatternPrecedence, PolicyModelPrecedence, PolicyUnion, PolicyDerived:
		return true
	}
	return false
}

// NormRule names a field normalization rule
type NormRule string

const (
	NormText      NormRule = "text"
	NormName      NormRule = "name"
	NormInteger   NormRule = "integer"
	NormDate      NormRule = "date"
	NormMoney     NormRule = "money"
	NormBoolean   NormRule = "boolean"
	NormTitleList NormRule = "title_list"
	NormLowerList NormRule = "lower_list"
)

// FieldSpec is the static contract for one output column
type FieldSpec struct {
	ID        FieldID      `yaml:"id" json:"id"`
	Column    string       `yaml:"column" json:"column"`
	Type      Kind         `yaml:"type" json:"type"`
	Policy    FusionPolicy `yaml:"policy" json:"policy"`
	Default   Value        `yaml:"-" json:"-"`
	Normalize NormRule     `yaml:"normalize" json:"normalize"`
}

// FieldOverride changes the fusion policy of a built-in field from configuration
type FieldOverride struct {
	ID     FieldID      `yaml:"id" mapstructure:"id"`
	Policy FusionPolicy `yaml:"policy" mapstructure:"policy"`
}

// DefaultFieldSpecs returns the 19 output fields in report column order
func DefaultFieldSpecs() []FieldSpec {
	return []FieldSpec{
		{ID: FieldCustomerName, Column: "Customer Name", Type: KindString, Policy: PolicyModelPrecedence, Default: NullOf(KindString), Normalize: NormName},
		{ID: FieldTravelers, Column: "Number of Travelers", Type: KindInteger, Policy: PolicyPatternPrecedence, Default: Integer(0), Normalize: NormInteger},
		{ID: FieldAdults, Column: "Number of Adults", Type: KindInteger, Policy: PolicyPatternPrecedence, Default: Integer(0), Normalize: NormInteger},
		{ID: FieldChildren, Column: "Number of Children", Type: KindInteger, Policy: PolicyPatternPrecedence, Default: Integer(0), Normalize: NormInteger},
		{ID: FieldDestinations, Column: "Destination(s)", Type: KindList, Policy: PolicyUnion, Default: List(), Normalize: NormTitleList},
		{ID: FieldStartDate, Column: "Start Date", Type: KindDate, Policy: PolicyPatternPrecedence, Default: NullOf(KindDate), Normalize: NormDate},
		{ID: FieldEndDate, Column: "End Date", Type: KindDate, Policy: PolicyDerived, Default: NullOf(KindDate), Normalize: NormDate},
		{ID: FieldDurationNights, Column: "Duration (Nights)", Type: KindInteger, Policy: PolicyPatternPrecedence, Default: Integer(0), Normalize: NormInteger},
		{ID: FieldHotelType, Column: "Hotel Type", Type: KindString, Policy: PolicyPatternPrecedence, Default: NullOf(KindString), Normalize: NormText},
		{ID: FieldMealPlan, Column: "Meal Plan", Type: KindString, Policy: PolicyPatternPrecedence, Default: NullOf(KindString), Normalize: NormText},
		{ID: FieldActivities, Column: "Planned Activities", Type: KindList, Policy: PolicyUnion, Default: List(), Normalize: NormTitleList},
		{ID: FieldFlightRequired, Column: "Flight Required", Type: KindBoolean, Policy: PolicyPatternPrecedence, Default: NullOf(KindBoolean), Normalize: NormBoolean},
		{ID: FieldVisaRequired, Column: "Visa Required", Type: KindBoolean, Policy: PolicyPatternPrecedence, Default: NullOf(KindBoolean), Normalize: NormBoolean},
		{ID: FieldInsuranceRequired, Column: "Insurance Required", Type: KindBoolean, Policy: PolicyPatternPrecedence, Default: NullOf(KindBoolean), Normalize: NormBoolean},
		{ID: FieldBudget, Column: "Budget", Type: KindMoney, Policy: PolicyPatternPrecedence, Default: NullOf(KindMoney), Normalize: NormMoney},
		{ID: FieldDepartureCity, Column: "Departure City", Type: KindString, Policy: PolicyPatternPrecedence, Default: NullOf(KindString), Normalize: NormName},
		{ID: FieldSpecialRequests, Column: "Special Requests", Type: KindList, Policy: PolicyUnion, Default: List(), Normalize: NormTitleList},
		{ID: FieldResponseDeadline, Column: "Response Deadline", Type: KindString, Policy: PolicyPatternPrecedence, Default: NullOf(KindString), Normalize: NormText},
		{ID: FieldContactInfo, Column: "Contact Information", Type: KindList, Policy: PolicyUnion, Default: List(), Normalize: NormLowerList},
	}
}

// BuildFieldSpecs applies policy overrides to the built-in field set
func BuildFieldSpecs(overrides []FieldOverride) ([]FieldSpec, error) {
	specs := DefaultFieldSpecs()
	index := make(map[FieldID]int, len(specs))
	for i, s := range specs {
		index[s.ID] = i
	}

	for _, o := range overrides {
		i, ok := index[o.ID]
		if !ok {
			return nil, fmt.Errorf("field override: unknown field %q", o.ID)
		}
		if !o.Policy.Valid() {
			return nil, fmt.Errorf("field override %s: unknown policy %q", o.ID, o.Policy)
		}
		if o.Policy == PolicyUnion && specs[i].Type != KindList {
			return nil, fmt.Errorf("field override %s: union policy requires a list field", o.ID)
		}
		if specs[i].Type == KindList && o.Policy != PolicyUnion {
			return nil, fmt.Errorf("field override %s: list fields only support the union policy", o.ID)
		}
		specs[i].Policy = o.Policy
	}

	return specs, nil
}
