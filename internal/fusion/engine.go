// Package fusion resolves competing pattern and model candidates into one
// value per field. It performs no I/O.
package fusion

import (
	"fmt"
	"strings"

	"github.com/ppiankov/tripparse/internal/model"
)

// Outcome is the fused field set, how each value was obtained, and the
// warnings raised while fusing
type Outcome struct {
	Fields   map[model.FieldID]model.Value
	Methods  map[model.FieldID]model.Method
	Warnings []model.Warning
}

// Engine fuses candidates according to a fixed set of field specs
type Engine struct {
	specs []model.FieldSpec
	index map[model.FieldID]model.FieldSpec
}

// NewEngine creates an engine for the given field specs
func NewEngine(specs []model.FieldSpec) *Engine {
	index := make(map[model.FieldID]model.FieldSpec, len(specs))
	for _, s := range specs {
		index[s.ID] = s
	}
	return &Engine{specs: specs, index: index}
}

// Specs returns the field specs in column order
func (e *Engine) Specs() []model.FieldSpec {
	return e.specs
}

// Fuse resolves every field. The result does not depend on candidate order.
func (e *Engine) Fuse(cands []model.Candidate) Outcome {
	groups := make(map[model.FieldID][]model.Candidate)
	for _, c := range cands {
		spec, ok := e.index[c.Field]
		if !ok || c.Value.Kind != spec.Type || c.Value.Null {
			continue
		}
		groups[c.Field] = append(groups[c.Field], c)
	}

	st := &state{
		values:   make(map[model.FieldID]model.Value, len(e.specs)),
		methods:  make(map[model.FieldID]model.Method, len(e.specs)),
		explicit: make(map[model.FieldID]bool, len(e.specs)),
	}
	var warnings []model.Warning

	for _, spec := range e.specs {
		group := groups[spec.ID]
		if len(group) == 0 {
			st.values[spec.ID] = spec.Default
			st.methods[spec.ID] = model.MethodDefault
			continue
		}

		var (
			v      model.Value
			method model.Method
			warn   *model.Warning
		)
		if spec.Policy == model.PolicyUnion {
			v, method = union(spec, group)
		} else {
			v, method, warn = pick(spec, group)
		}
		if warn != nil {
			warnings = append(warnings, *warn)
		}
		if v.IsZero() {
			st.values[spec.ID] = spec.Default
			st.methods[spec.ID] = model.MethodDefault
			continue
		}
		st.values[spec.ID] = v
		st.methods[spec.ID] = method
		st.explicit[spec.ID] = true
	}

	warnings = append(warnings, e.derive(st)...)

	for _, spec := range e.specs {
		if !st.resolved(spec.ID) {
			warnings = append(warnings, model.Warning{
				Kind:    model.WarnDefault,
				Field:   spec.ID,
				Message: "no candidates, default used",
			})
		}
	}

	return Outcome{Fields: st.values, Methods: st.methods, Warnings: sortWarnings(e.specs, warnings)}
}

// pick selects the single best candidate and reports disagreement at the top.
// The method is hybrid when a candidate from the other source agrees with the winner.
func pick(spec model.FieldSpec, group []model.Candidate) (model.Value, model.Method, *model.Warning) {
	ranked := rankCandidates(group, spec.Policy)
	top := ranked[0]
	winner := Normalize(spec.Normalize, top.Value)

	sources := map[model.Source]bool{top.Source: true}
	for _, c := range ranked[1:] {
		if c.Source != top.Source && Normalize(spec.Normalize, c.Value).Equal(winner) {
			sources[c.Source] = true
		}
	}
	method := methodFor(sources)

	var rivals []string
	seen := map[string]bool{winner.String(): true}
	for _, c := range ranked[1:] {
		if tier(c, spec.Policy) != tier(top, spec.Policy) || c.Rank != top.Rank {
			break
		}
		v := Normalize(spec.Normalize, c.Value)
		if key := v.String(); !seen[key] {
			seen[key] = true
			rivals = append(rivals, key)
		}
	}

	if len(rivals) == 0 {
		return winner, method, nil
	}
	return winner, method, &model.Warning{
		Kind:    model.WarnAmbiguous,
		Field:   spec.ID,
		Message: fmt.Sprintf("chose %s over %s at rank %d", winner, strings.Join(rivals, ", "), top.Rank),
	}
}

// union merges list candidates in extraction order, normalized and deduplicated
func union(spec model.FieldSpec, group []model.Candidate) (model.Value, model.Method) {
	var items []string
	sources := make(map[model.Source]bool, 2)
	for _, c := range unionOrder(group) {
		items = append(items, c.Value.List...)
		sources[c.Source] = true
	}
	return Normalize(spec.Normalize, model.List(items...)), methodFor(sources)
}

func methodFor(sources map[model.Source]bool) model.Method {
	switch {
	case sources[model.SourcePattern] && sources[model.SourceModel]:
		return model.MethodHybrid
	case sources[model.SourceModel]:
		return model.MethodModel
	default:
		return model.MethodRule
	}
}

func sortWarnings(specs []model.FieldSpec, warnings []model.Warning) []model.Warning {
	order := make(map[model.FieldID]int, len(specs))
	for i, s := range specs {
		order[s.ID] = i
	}
	out := make([]model.Warning, 0, len(warnings))
	for _, s := range specs {
		for _, w := range warnings {
			if w.Field == s.ID {
				out = append(out, w)
			}
		}
	}
	for _, w := range warnings {
		if _, ok := order[w.Field]; !ok {
			out = append(out, w)
		}
	}
	return out
}
