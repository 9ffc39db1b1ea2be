// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Numbers converts an array of loosely typed values to floats. Entries that
// are not numeric are dropped rather than read as zero, so a partly corrupt
// array yields fewer data points instead of biased ones.
func Numbers(v any) []float64 {
	switch arr := v.(type) {
	case []float64:
		out := make([]float64, 0, len(arr))
		for _, f := range arr {
			if finite(f) {
				out = append(out, f)
			}
		}
		return out
	case []any:
		out := make([]float64, 0, len(arr))
		for _, item := range arr {
			if f, ok := toNumber(item); ok {
				out = append(out, f)
			}
		}
		return out
	default:
		return nil
	}
}

// Matrix converts an array of arrays to float rows. Ragged rows are kept as
// they are and non-numeric entries are skipped within a row. A row without a
// single numeric entry becomes an empty row, so row i always corresponds to
// input row i. It returns nil when no row holds a number.
func Matrix(v any) [][]float64 {
	var rows []any
	switch m := v.(type) {
	case [][]float64:
		rows = make([]any, len(m))
		for i, row := range m {
			rows[i] = row
		}
	case []any:
		rows = m
	default:
		return nil
	}

	out := make([][]float64, len(rows))
	found := false
	for i, row := range rows {
		nums := Numbers(row)
		if nums == nil {
			nums = []float64{}
		}
		out[i] = nums
		found = found || len(nums) > 0
	}
	if !found {
		return nil
	}
	return out
}

func toNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	return f, finite(f)
}

func toString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return clean(s), true
	case json.Number:
		return s.String(), true
	case float64:
		if !finite(s) {
			return "", false
		}
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	default:
		return "", false
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
