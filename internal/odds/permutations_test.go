package odds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountDistinctPermutations(t *testing.T) {
	cases := []struct {
		number string
		want   int
	}{
		{"27", 2},
		{"22", 1},
		{"384", 6},
		{"2580", 24},
		{"1123", 12},
		{"0001", 4},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CountDistinctPermutations(tc.number), "number %s", tc.number)
	}
}

func TestDistinctPermutationsSortedAndDeduped(t *testing.T) {
	perms := DistinctPermutations("122")
	assert.Equal(t, []string{"122", "212", "221"}, perms)
}
