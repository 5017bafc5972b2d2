package odds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bichocore/settler/internal/domain"
)

// Result with group 8 (dezenas 29-32) at position 3 and nowhere else.
var sampleNumbers = []string{"1104", "2217", "5630", "7842", "9166", "3359", "0071"}

func TestScoreGuessSingleGroup(t *testing.T) {
	gs, err := ScoreGuess(sampleNumbers, domain.ModalityGroup,
		domain.Guess{Groups: []int{8}}, Range{1, 5}, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, gs.Hits)
	assert.InDelta(t, 36.0, gs.PrizePerUnit, 1e-9)
	assert.InDelta(t, 36.0, gs.TotalPrize, 1e-9)
}

func TestScoreWagerSplitTotalFourGuesses(t *testing.T) {
	guesses := []domain.Guess{
		{Groups: []int{8}},
		{Groups: []int{8}},
		{Groups: []int{8}},
		{Groups: []int{8}},
	}
	score, err := ScoreWager(sampleNumbers, domain.ModalityGroup, guesses,
		Range{1, 5}, 40, domain.DivisionSplitTotal)
	require.NoError(t, err)
	assert.Equal(t, 4, score.Hits)
	assert.InDelta(t, 144.0, score.TotalPrize, 1e-9)
}

func TestScoreGuessSingleGroupCountsEveryPosition(t *testing.T) {
	// Group 1 (dezenas 01-04) at positions 1 and 3.
	numbers := []string{"1002", "2217", "5604", "7842", "9166"}
	gs, err := ScoreGuess(numbers, domain.ModalityGroup,
		domain.Guess{Groups: []int{1}}, Range{1, 5}, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, gs.Hits)
}

func TestScoreGuessDoubleGroup(t *testing.T) {
	// Groups in sampleNumbers 1-5: 1, 5, 8, 11, 17.
	gs, err := ScoreGuess(sampleNumbers, domain.ModalityDoubleGroup,
		domain.Guess{Groups: []int{8, 17}}, Range{1, 5}, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, gs.Hits)

	gs, err = ScoreGuess(sampleNumbers, domain.ModalityDoubleGroup,
		domain.Guess{Groups: []int{8, 25}}, Range{1, 5}, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, gs.Hits)
}

func TestScoreGuessNumeric(t *testing.T) {
	t.Run("thousand exact", func(t *testing.T) {
		gs, err := ScoreGuess(sampleNumbers, domain.ModalityThousand,
			domain.Guess{Number: "5630"}, Range{1, 5}, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, gs.Hits)
	})

	t.Run("hundred compares last three digits", func(t *testing.T) {
		gs, err := ScoreGuess(sampleNumbers, domain.ModalityHundred,
			domain.Guess{Number: "842"}, Range{1, 5}, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, gs.Hits)
	})

	t.Run("ten compares last two digits", func(t *testing.T) {
		gs, err := ScoreGuess(sampleNumbers, domain.ModalityTen,
			domain.Guess{Number: "66"}, Range{1, 5}, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, gs.Hits)
	})

	t.Run("outside range is a miss", func(t *testing.T) {
		gs, err := ScoreGuess(sampleNumbers, domain.ModalityTen,
			domain.Guess{Number: "59"}, Range{1, 5}, 10)
		require.NoError(t, err)
		assert.Equal(t, 0, gs.Hits)
	})

	t.Run("inverted thousand accepts permutations", func(t *testing.T) {
		gs, err := ScoreGuess(sampleNumbers, domain.ModalityThousandInv,
			domain.Guess{Number: "0365"}, Range{1, 5}, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, gs.Hits) // 5630 is a permutation of 0365
	})
}

func TestScorePasse(t *testing.T) {
	// 1st 1104 -> group 1, 2nd 2217 -> group 5.
	gs, err := ScoreGuess(sampleNumbers, domain.ModalityPasse,
		domain.Guess{Groups: []int{1, 5}}, Range{1, 2}, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, gs.Hits)
	assert.InDelta(t, 3000.0, gs.TotalPrize, 1e-9)

	gs, err = ScoreGuess(sampleNumbers, domain.ModalityPasse,
		domain.Guess{Groups: []int{5, 1}}, Range{1, 2}, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, gs.Hits)

	gs, err = ScoreGuess(sampleNumbers, domain.ModalityPasseRoundTrip,
		domain.Guess{Groups: []int{5, 1}}, Range{1, 2}, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, gs.Hits)
	assert.InDelta(t, 1500.0, gs.TotalPrize, 1e-9)
}

func TestInstantPrizes(t *testing.T) {
	prizes := []int{1234, 5678, 9012, 3456, 7890}

	sixth, err := SixthPrize(prizes)
	require.NoError(t, err)
	assert.Equal(t, 27270%10000, sixth)

	seventh, err := SeventhPrize(prizes)
	require.NoError(t, err)
	assert.Equal(t, (1234*5678/1000)%1000, seventh)

	full, err := ExtendPrizes(prizes, 7)
	require.NoError(t, err)
	require.Len(t, full, 7)
	assert.Equal(t, sixth, full[5])
	assert.Equal(t, seventh, full[6])
}

func TestSynthesizeInstantResult(t *testing.T) {
	res, err := SynthesizeInstantResult("LOTEP", 7)
	require.NoError(t, err)
	require.True(t, res.Complete())
	for _, p := range res.Prizes {
		assert.Len(t, p.Number, 4)
		assert.GreaterOrEqual(t, p.Group, 1)
		assert.LessOrEqual(t, p.Group, 25)
		assert.NotEmpty(t, p.Animal)
	}
	// Derived positions obey the fixed formulas.
	nums := res.Numbers()
	var first5 []int
	for _, n := range nums[:5] {
		v := 0
		for _, c := range n {
			v = v*10 + int(c-'0')
		}
		first5 = append(first5, v)
	}
	sixth, _ := SixthPrize(first5)
	assert.Equal(t, fmtPrize(sixth), nums[5])
}

func fmtPrize(v int) string {
	s := ""
	for i := 0; i < 4; i++ {
		s = string(rune('0'+v%10)) + s
		v /= 10
	}
	return s
}
