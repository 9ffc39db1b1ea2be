// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

// PairwiseError extracts the predicted aligned error matrix from a PAE
// document. Current documents wrap one object in an array and store the
// matrix under one of several keys; the oldest layout is three flat arrays
// (residue1, residue2, distance) which are regrouped into one row per
// residue1 value, in order of appearance. It returns nil when no matrix can
// be found.
func PairwiseError(payload any) [][]float64 {
	switch v := payload.(type) {
	case []any:
		if looksLikeMatrix(v) {
			return Matrix(v)
		}
		for _, item := range v {
			if m := PairwiseError(item); m != nil {
				return m
			}
		}
		return nil
	case map[string]any:
		return pairwiseFromRecord(Record(v))
	case Record:
		return pairwiseFromRecord(v)
	default:
		return nil
	}
}

func pairwiseFromRecord(r Record) [][]float64 {
	if v, ok := r.first(pairwiseErrorAliases...); ok {
		if m := Matrix(v); m != nil {
			return m
		}
	}
	if v, ok := r.first("distance"); ok {
		return fromFlat(r["residue1"], v)
	}
	return nil
}

// looksLikeMatrix reports whether the first element of v is itself an
// array, telling a bare matrix apart from an array of documents.
func looksLikeMatrix(v []any) bool {
	if len(v) == 0 {
		return false
	}
	_, ok := v[0].([]any)
	return ok
}

func fromFlat(residue1, distance any) [][]float64 {
	rows, ok1 := residue1.([]any)
	dist, ok2 := distance.([]any)
	if !ok1 || !ok2 {
		return nil
	}
	n := min(len(rows), len(dist))

	var out [][]float64
	index := make(map[float64]int)
	for i := 0; i < n; i++ {
		r, okR := toNumber(rows[i])
		d, okD := toNumber(dist[i])
		if !okR || !okD {
			continue
		}
		idx, seen := index[r]
		if !seen {
			idx = len(out)
			index[r] = idx
			out = append(out, nil)
		}
		out[idx] = append(out[idx], d)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
