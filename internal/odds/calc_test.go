package odds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bichocore/settler/internal/domain"
)

func TestLookup(t *testing.T) {
	cases := []struct {
		modality domain.Modality
		r        Range
		want     float64
	}{
		{domain.ModalityGroup, Range{1, 5}, 18},
		{domain.ModalityDoubleGroup, Range{1, 5}, 180},
		{domain.ModalityTen, Range{1, 7}, 60},
		{domain.ModalityThousand, Range{1, 5}, 5000},
		{domain.ModalityThousandInv, Range{1, 1}, 200},
		{domain.ModalityThousandOrHund, Range{1, 3}, 3300},
		{domain.ModalityPasse, Range{1, 2}, 300},
		{domain.ModalityPasseRoundTrip, Range{1, 2}, 150},
		// Unlisted window falls back to the 1-5 row.
		{domain.ModalityGroup, Range{2, 4}, 18},
	}
	for _, tc := range cases {
		got, err := Lookup(tc.modality, tc.r)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s %s", tc.modality, tc.r)
	}

	_, err := Lookup(domain.Modality("BOGUS"), Range{1, 5})
	assert.ErrorIs(t, err, domain.ErrUnknownModality)
}

func TestStakePerGuess(t *testing.T) {
	assert.Equal(t, 10.0, StakePerGuess(10, 2, domain.DivisionPerGuess))
	assert.Equal(t, 5.0, StakePerGuess(10, 2, domain.DivisionSplitTotal))
	assert.Equal(t, 5.0, StakePerGuess(20, 4, domain.DivisionSplitTotal))
	assert.Equal(t, 0.0, StakePerGuess(20, 0, domain.DivisionSplitTotal))
}

func TestDivisionInvariant(t *testing.T) {
	for _, mode := range []domain.DivisionMode{domain.DivisionPerGuess, domain.DivisionSplitTotal} {
		for count := 1; count <= 8; count++ {
			typed := 37.5
			per := StakePerGuess(typed, count, mode)
			total := TotalStake(typed, count, mode)
			assert.InDelta(t, total, per*float64(count), 0.005,
				"mode %s count %d", mode, count)
		}
	}
}

func TestCalculate(t *testing.T) {
	t.Run("single group over five positions", func(t *testing.T) {
		calc, err := Calculate(domain.ModalityGroup, domain.Guess{Groups: []int{8}}, Range{1, 5}, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, calc.Combinations)
		assert.Equal(t, 5, calc.Units)
		assert.InDelta(t, 2.0, calc.UnitValue, 1e-9)
	})

	t.Run("inverted thousand spreads over permutations", func(t *testing.T) {
		calc, err := Calculate(domain.ModalityThousandInv, domain.Guess{Number: "2580"}, Range{1, 1}, 24)
		require.NoError(t, err)
		assert.Equal(t, 24, calc.Combinations)
		assert.Equal(t, 24, calc.Units)
		assert.InDelta(t, 1.0, calc.UnitValue, 1e-9)
	})

	t.Run("passe is a single fixed unit", func(t *testing.T) {
		calc, err := Calculate(domain.ModalityPasse, domain.Guess{Groups: []int{3, 7}}, Range{1, 2}, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, calc.Units)
		assert.InDelta(t, 10.0, calc.UnitValue, 1e-9)
	})

	t.Run("group count mismatch", func(t *testing.T) {
		_, err := Calculate(domain.ModalityDoubleGroup, domain.Guess{Groups: []int{8}}, Range{1, 5}, 10)
		assert.ErrorIs(t, err, domain.ErrInvalidGuess)
	})

	t.Run("thousand beyond fifth prize", func(t *testing.T) {
		_, err := Calculate(domain.ModalityThousand, domain.Guess{Number: "1234"}, Range{1, 7}, 10)
		assert.ErrorIs(t, err, domain.ErrInvalidGuess)
	})

	t.Run("digit length mismatch", func(t *testing.T) {
		_, err := Calculate(domain.ModalityTen, domain.Guess{Number: "123"}, Range{1, 5}, 10)
		assert.ErrorIs(t, err, domain.ErrInvalidGuess)
	})
}

func TestParseRange(t *testing.T) {
	cases := []struct {
		label string
		want  Range
	}{
		{"1st", Range{1, 1}},
		{"1º", Range{1, 1}},
		{"1-5", Range{1, 5}},
		{"1º-3º", Range{1, 3}},
		{"3", Range{3, 3}},
		{"", Range{1, 1}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseRange(tc.label, 1), "label %q", tc.label)
	}
}

func TestValidateRange(t *testing.T) {
	assert.NoError(t, ValidateRange(domain.ModalityHundred, Range{1, 7}))
	assert.Error(t, ValidateRange(domain.ModalityHundred, Range{1, 8}))
	assert.Error(t, ValidateRange(domain.ModalityThousandInv, Range{1, 7}))
	assert.Error(t, ValidateRange(domain.ModalityPasse, Range{1, 1}))
	assert.NoError(t, ValidateRange(domain.ModalityPasse, Range{1, 2}))
	assert.Error(t, ValidateRange(domain.ModalityGroup, Range{3, 2}))
}
