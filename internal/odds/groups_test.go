package odds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupFromTen(t *testing.T) {
	cases := []struct {
		ten  int
		want int
	}{
		{1, 1},
		{4, 1},
		{5, 2},
		{21, 6},
		{0, 25},
		{97, 25},
		{98, 25},
		{99, 25},
		{96, 24},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, GroupFromTen(tc.ten), "ten %d", tc.ten)
	}
}

func TestGroupFromNumber(t *testing.T) {
	cases := []struct {
		number string
		want   int
	}{
		{"4321", 6},
		{"0589", 23},
		{"589", 23},
		{"0704", 1},
		{"1297", 25},
		{"0000", 25},
		{"abcd", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, GroupFromNumber(tc.number), "number %s", tc.number)
	}
}

func TestGroupTens(t *testing.T) {
	tens, ok := GroupTens(1)
	require.True(t, ok)
	assert.Equal(t, [4]int{1, 2, 3, 4}, tens)

	tens, ok = GroupTens(25)
	require.True(t, ok)
	assert.Equal(t, [4]int{97, 98, 99, 0}, tens)

	_, ok = GroupTens(0)
	assert.False(t, ok)
	_, ok = GroupTens(26)
	assert.False(t, ok)
}

func TestGroupsInRange(t *testing.T) {
	numbers := []string{"4321", "0589", "0704", "1297", "0015"}
	assert.Equal(t, []int{6, 23}, GroupsInRange(numbers, 1, 2))
	assert.Equal(t, []int{6, 23, 1, 25, 4}, GroupsInRange(numbers, 1, 7))
	assert.Empty(t, GroupsInRange(numbers, 6, 7))
}

func TestAnimalName(t *testing.T) {
	assert.Equal(t, "Avestruz", AnimalName(1))
	assert.Equal(t, "Vaca", AnimalName(25))
	assert.Equal(t, "", AnimalName(0))
}
