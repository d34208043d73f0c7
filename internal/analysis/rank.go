package analysis

import "sort"

// DigitCount pairs a digit with its count in a frequency table.
type DigitCount struct {
	Digit int `json:"digit"`
	Count int `json:"count"`
}

// Rank orders all ten digits by count descending. Equal counts are broken by
// ascending digit value so the order is deterministic.
func Rank(t FrequencyTable) []DigitCount {
	ranked := make([]DigitCount, 0, len(t))
	for d, n := range t {
		ranked = append(ranked, DigitCount{Digit: d, Count: n})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		// Tie-break: digit ascending
		return ranked[i].Digit < ranked[j].Digit
	})
	return ranked
}

// Hot returns the k highest-count digits. k above 10 returns all ten; k <= 0
// returns an empty slice.
func Hot(t FrequencyTable, k int) []DigitCount {
	ranked := Rank(t)
	k = clampK(k, len(ranked))
	return ranked[:k]
}

// Cold returns the k lowest-count digits, in ranked (descending) order.
func Cold(t FrequencyTable, k int) []DigitCount {
	ranked := Rank(t)
	k = clampK(k, len(ranked))
	return ranked[len(ranked)-k:]
}

func clampK(k, n int) int {
	if k < 0 {
		return 0
	}
	if k > n {
		return n
	}
	return k
}
