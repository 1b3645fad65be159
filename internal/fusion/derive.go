package fusion

import (
	"fmt"
	"strings"

	"github.com/ppiankov/tripparse/internal/model"
)

// state tracks fused values and where they came from
type state struct {
	values   map[model.FieldID]model.Value
	methods  map[model.FieldID]model.Method
	explicit map[model.FieldID]bool // resolved from candidates
	derived  map[model.FieldID]bool // computed from other fields
}

func (s *state) resolved(id model.FieldID) bool {
	return s.explicit[id] || s.derived[id]
}

func (s *state) set(id model.FieldID, v model.Value) {
	if s.derived == nil {
		s.derived = make(map[model.FieldID]bool)
	}
	s.values[id] = v
	s.methods[id] = model.MethodDerived
	s.derived[id] = true
}

// derive fills unresolved fields computable from explicit ones. Derived values
// never feed a later rule.
func (e *Engine) derive(s *state) []model.Warning {
	var warnings []model.Warning

	has := func(id model.FieldID) bool {
		_, ok := e.index[id]
		return ok
	}

	// end_date = start_date + duration_nights
	if has(model.FieldEndDate) && !s.explicit[model.FieldEndDate] {
		start, okStart := s.values[model.FieldStartDate], s.explicit[model.FieldStartDate]
		nights, okNights := s.values[model.FieldDurationNights], s.explicit[model.FieldDurationNights]
		if okStart && okNights && nights.Int > 0 {
			end := model.Date(start.Date.AddDate(0, 0, nights.Int))
			s.set(model.FieldEndDate, Normalize(e.index[model.FieldEndDate].Normalize, end))
		} else {
			var missing []string
			if !okStart {
				missing = append(missing, string(model.FieldStartDate))
			}
			if !okNights || nights.Int <= 0 {
				missing = append(missing, string(model.FieldDurationNights))
			}
			warnings = append(warnings, model.Warning{
				Kind:    model.WarnDerivedSkipped,
				Field:   model.FieldEndDate,
				Message: fmt.Sprintf("cannot derive end date without %s", strings.Join(missing, " and ")),
			})
		}
	}

	// duration_nights = end_date - start_date
	if has(model.FieldDurationNights) && !s.explicit[model.FieldDurationNights] &&
		s.explicit[model.FieldStartDate] && s.explicit[model.FieldEndDate] {
		start, end := s.values[model.FieldStartDate].Date, s.values[model.FieldEndDate].Date
		if nights := int(end.Sub(start).Hours() / 24); nights > 0 {
			s.set(model.FieldDurationNights, model.Integer(nights))
		}
	}

	travelers, okT := s.values[model.FieldTravelers], s.explicit[model.FieldTravelers]
	adults, okA := s.values[model.FieldAdults], s.explicit[model.FieldAdults]
	children, okC := s.values[model.FieldChildren], s.explicit[model.FieldChildren]

	// travelers = adults + children, a missing children count is 0 here
	if has(model.FieldTravelers) && !okT && okA {
		n := adults.Int
		if okC {
			n += children.Int
		}
		s.set(model.FieldTravelers, model.Integer(n))
	}

	// adults = travelers - children
	if has(model.FieldAdults) && !okA && okT && okC && travelers.Int-children.Int >= 0 {
		s.set(model.FieldAdults, model.Integer(travelers.Int-children.Int))
	}

	// children = travelers - adults
	if has(model.FieldChildren) && !okC && okT && okA && travelers.Int-adults.Int >= 0 {
		s.set(model.FieldChildren, model.Integer(travelers.Int-adults.Int))
	}

	return warnings
}
