package selector

import "github.com/timvw/tmux-jump/internal/model"

// Rank orders candidates by proximity to cwd: panes exactly in cwd first,
// then panes beneath cwd, then the rest. Each tier keeps listing order.
// An empty cwd leaves the order unchanged. The input slice is not modified.
func Rank(candidates []model.Candidate, cwd string) []model.Candidate {
	ranked := make([]model.Candidate, 0, len(candidates))
	if cwd == "" {
		return append(ranked, candidates...)
	}

	var below, rest []model.Candidate
	for _, c := range candidates {
		switch {
		case c.Path == cwd:
			ranked = append(ranked, c)
		case Within(c.Path, cwd):
			below = append(below, c)
		default:
			rest = append(rest, c)
		}
	}
	ranked = append(ranked, below...)
	return append(ranked, rest...)
}

// Select returns the best candidate for cwd, or false when there is none.
func Select(candidates []model.Candidate, cwd string) (model.Candidate, bool) {
	ranked := Rank(candidates, cwd)
	if len(ranked) == 0 {
		return model.Candidate{}, false
	}
	return ranked[0], true
}
