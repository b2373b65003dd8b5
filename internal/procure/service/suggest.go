package service

import (
	"sort"

	"procure-service/internal/procure/model"
)

// suggestIndex: триграммный индекс по нормализованным наименованиям предложений.
type suggestIndex struct {
	byNorm map[string]string              // норм. имя -> отображаемое имя (первое встреченное)
	inv    map[string]map[string]struct{} // trigram -> set(norm)
}

func buildSuggestIndex(offers []model.Offer) *suggestIndex {
	idx := &suggestIndex{
		byNorm: make(map[string]string),
		inv:    make(map[string]map[string]struct{}),
	}
	for _, o := range offers {
		nn := suggestNorm(o.Key)
		if nn == "" {
			continue
		}
		if _, ok := idx.byNorm[nn]; ok {
			continue
		}
		idx.byNorm[nn] = model.DisplayName(o.Product, o.Spec)
		for g := range trigramSet(nn) {
			bucket, ok := idx.inv[g]
			if !ok {
				bucket = make(map[string]struct{})
				idx.inv[g] = bucket
			}
			bucket[nn] = struct{}{}
		}
	}
	return idx
}

func trigramSet(s string) map[string]struct{} {
	m := make(map[string]struct{})
	if s == "" {
		return m
	}
	r := []rune(" " + s + " ")
	if len(r) < 3 {
		m[string(r)] = struct{}{}
		return m
	}
	for i := 0; i <= len(r)-3; i++ {
		m[string(r[i:i+3])] = struct{}{}
	}
	return m
}

func (idx *suggestIndex) candidates(norm string) []string {
	seen := make(map[string]struct{})
	for g := range trigramSet(norm) {
		for nn := range idx.inv[g] {
			seen[nn] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for nn := range seen {
		out = append(out, nn)
	}
	sort.Strings(out) // для детерминированного порядка
	return out
}

// Suggest returns, per unmatched demand line (keyed by display name), the
// offered products whose names are closest to it. It is advisory only and
// never changes what Allocate matched.
func Suggest(offers []model.Offer, unmatched []model.DemandLine, opt model.Options) map[string][]string {
	out := make(map[string][]string)
	if opt.MaxSuggestions <= 0 || len(offers) == 0 || len(unmatched) == 0 {
		return out
	}
	idx := buildSuggestIndex(offers)

	type scored struct {
		name  string
		score float64
	}
	for _, dl := range unmatched {
		norm := suggestNorm(dl.Key)
		if norm == "" {
			continue
		}
		var hits []scored
		for _, cand := range idx.candidates(norm) {
			// suggestNorm уже сортирует токены, так что порядок слов не важен
			if s := similarity(norm, cand); s >= opt.SuggestThreshold {
				hits = append(hits, scored{idx.byNorm[cand], s})
			}
		}
		if len(hits) == 0 {
			continue
		}
		sort.SliceStable(hits, func(i, j int) bool {
			if hits[i].score != hits[j].score {
				return hits[i].score > hits[j].score
			}
			return hits[i].name < hits[j].name
		})
		names := make([]string, 0, opt.MaxSuggestions)
		for _, h := range hits {
			if len(names) == opt.MaxSuggestions {
				break
			}
			names = append(names, h.name)
		}
		out[dl.DisplayName()] = names
	}
	return out
}

// unmatchedLines returns the demand lines that Allocate reported as unmatched.
func unmatchedLines(demand model.Demand, plan model.PurchasePlan) []model.DemandLine {
	if len(plan.Unmatched) == 0 {
		return nil
	}
	missing := make(map[string]bool, len(plan.Unmatched))
	for _, name := range plan.Unmatched {
		missing[name] = true
	}
	var out []model.DemandLine
	for _, dl := range demand.Lines {
		if missing[dl.DisplayName()] {
			out = append(out, dl)
		}
	}
	return out
}
