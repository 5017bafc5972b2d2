package odds

import "sort"

// DistinctPermutations returns every distinct ordering of the digits of s,
// sorted. Repeated digits do not produce duplicates, so "0001" yields 4
// entries and "1234" yields 24.
func DistinctPermutations(s string) []string {
	seen := make(map[string]struct{})
	digits := []byte(s)
	var permute func(start int)
	permute = func(start int) {
		if start == len(digits) {
			seen[string(digits)] = struct{}{}
			return
		}
		used := make(map[byte]struct{})
		for i := start; i < len(digits); i++ {
			if _, dup := used[digits[i]]; dup {
				continue
			}
			used[digits[i]] = struct{}{}
			digits[start], digits[i] = digits[i], digits[start]
			permute(start + 1)
			digits[start], digits[i] = digits[i], digits[start]
		}
	}
	permute(0)

	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// CountDistinctPermutations is the count without materializing the set
// order; used by the unit calculation for inverted modalities.
func CountDistinctPermutations(s string) int {
	return len(DistinctPermutations(s))
}
