package fusion

import (
	"math"
	"sort"

	"github.com/ppiankov/tripparse/internal/model"
)

// tier orders candidate sources under a policy. Lower wins.
func tier(c model.Candidate, policy model.FusionPolicy) int {
	switch policy {
	case model.PolicyModelPrecedence:
		switch {
		case c.Source == model.SourcePattern && c.Cue != "":
			return 0
		case c.Source == model.SourceModel:
			return 1
		default:
			return 2
		}
	default:
		// pattern_precedence, derived (explicit candidates) and union all prefer rules
		if c.Source == model.SourcePattern {
			return 0
		}
		return 1
	}
}

func width(c model.Candidate) int {
	if c.Span == nil {
		return math.MaxInt
	}
	return c.Span.Len()
}

func spanStart(c model.Candidate) int {
	if c.Span == nil {
		return math.MaxInt
	}
	return c.Span.Start
}

// less is a total order on candidates: tier, rank, narrower span, Seq, then
// position and value so the winner never depends on input order.
func less(a, b model.Candidate, policy model.FusionPolicy) bool {
	if ta, tb := tier(a, policy), tier(b, policy); ta != tb {
		return ta < tb
	}
	if a.Rank != b.Rank {
		return a.Rank > b.Rank
	}
	if wa, wb := width(a), width(b); wa != wb {
		return wa < wb
	}
	if a.Seq != b.Seq {
		return a.Seq < b.Seq
	}
	if sa, sb := spanStart(a), spanStart(b); sa != sb {
		return sa < sb
	}
	if a.Source != b.Source {
		return a.Source < b.Source
	}
	return a.Value.String() < b.Value.String()
}

// rankCandidates sorts a copy of cands best-first
func rankCandidates(cands []model.Candidate, policy model.FusionPolicy) []model.Candidate {
	return sortedCopy(cands, func(a, b model.Candidate) bool {
		return less(a, b, policy)
	})
}

// unionOrder sorts a copy of cands for list unions: pattern before model, then Seq
func unionOrder(cands []model.Candidate) []model.Candidate {
	return sortedCopy(cands, func(a, b model.Candidate) bool {
		if ta, tb := tier(a, model.PolicyUnion), tier(b, model.PolicyUnion); ta != tb {
			return ta < tb
		}
		if a.Seq != b.Seq {
			return a.Seq < b.Seq
		}
		return spanStart(a) < spanStart(b)
	})
}

func sortedCopy(cands []model.Candidate, lessFn func(a, b model.Candidate) bool) []model.Candidate {
	out := make([]model.Candidate, len(cands))
	copy(out, cands)
	sort.SliceStable(out, func(i, j int) bool {
		return lessFn(out[i], out[j])
	})
	return out
}
