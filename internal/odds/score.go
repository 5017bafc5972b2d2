package odds

import (
	"fmt"

	"github.com/bichocore/settler/internal/domain"
)

// GuessScore is the settlement outcome of a single guess.
type GuessScore struct {
	Calculation  Calculation
	Hits         int
	Odds         float64
	PrizePerUnit float64
	TotalPrize   float64
}

// WagerScore aggregates guess scores for a whole wager.
type WagerScore struct {
	Guesses    []GuessScore
	Hits       int
	TotalPrize float64
}

// ScoreGuess settles one guess against the drawn numbers (ordered by
// position, zero-padded to 4 digits). stakePerGuess is the stake already
// resolved through the division mode.
func ScoreGuess(numbers []string, m domain.Modality, g domain.Guess, r Range, stakePerGuess float64) (GuessScore, error) {
	calc, err := Calculate(m, g, r, stakePerGuess)
	if err != nil {
		return GuessScore{}, err
	}

	var hits int
	switch {
	case m.IsPasse():
		hits = scorePasse(numbers, g.Groups, m == domain.ModalityPasseRoundTrip)
	case m == domain.ModalityGroup:
		hits = scoreSingleGroup(numbers, g.Groups[0], r)
	case m.IsGroup():
		hits = scoreGroupSet(numbers, g.Groups, r)
	default:
		hits = scoreNumeric(numbers, g.Number, m, r)
	}

	odd, err := Lookup(m, r)
	if err != nil {
		return GuessScore{}, err
	}
	prizePerUnit := odd * calc.UnitValue
	return GuessScore{
		Calculation:  calc,
		Hits:         hits,
		Odds:         odd,
		PrizePerUnit: prizePerUnit,
		TotalPrize:   float64(hits) * prizePerUnit,
	}, nil
}

// ScoreWager settles every guess of a wager and sums the payout. typed is
// the stake as entered; the division mode decides how it spreads.
func ScoreWager(numbers []string, m domain.Modality, guesses []domain.Guess, r Range, typed float64, mode domain.DivisionMode) (WagerScore, error) {
	if len(guesses) == 0 {
		return WagerScore{}, fmt.Errorf("odds: wager has no guesses: %w", domain.ErrInvalidGuess)
	}
	per := StakePerGuess(typed, len(guesses), mode)
	out := WagerScore{Guesses: make([]GuessScore, 0, len(guesses))}
	for _, g := range guesses {
		gs, err := ScoreGuess(numbers, m, g, r, per)
		if err != nil {
			return WagerScore{}, err
		}
		out.Guesses = append(out.Guesses, gs)
		out.Hits += gs.Hits
		out.TotalPrize += gs.TotalPrize
	}
	return out, nil
}

// scoreSingleGroup counts each prize position whose group matches.
func scoreSingleGroup(numbers []string, group int, r Range) int {
	hits := 0
	for _, g := range GroupsInRange(numbers, r.From, r.To) {
		if g == group {
			hits++
		}
	}
	return hits
}

// scoreGroupSet pays a single hit when every guessed group appears
// somewhere in the range.
func scoreGroupSet(numbers []string, groups []int, r Range) int {
	present := make(map[int]bool)
	for _, g := range GroupsInRange(numbers, r.From, r.To) {
		present[g] = true
	}
	for _, g := range groups {
		if !present[g] {
			return 0
		}
	}
	return 1
}

// scorePasse checks the first and second prize groups, in order unless
// the round-trip variant accepts both orders.
func scorePasse(numbers []string, groups []int, roundTrip bool) int {
	if len(numbers) < 2 || len(groups) != 2 {
		return 0
	}
	first := GroupFromNumber(numbers[0])
	second := GroupFromNumber(numbers[1])
	if first == groups[0] && second == groups[1] {
		return 1
	}
	if roundTrip && first == groups[1] && second == groups[0] {
		return 1
	}
	return 0
}

// scoreNumeric compares the guessed digit string against the trailing
// digits of each prize in range, expanding inverted modalities to their
// distinct permutations.
func scoreNumeric(numbers []string, guess string, m domain.Modality, r Range) int {
	wanted := map[string]bool{guess: true}
	if m.IsInverted() {
		wanted = make(map[string]bool)
		for _, p := range DistinctPermutations(guess) {
			wanted[p] = true
		}
	}
	width := len(guess)
	hits := 0
	for i := r.From - 1; i < r.To && i < len(numbers); i++ {
		n := numbers[i]
		for len(n) < 4 {
			n = "0" + n
		}
		if width < len(n) {
			n = n[len(n)-width:]
		}
		if wanted[n] {
			hits++
		}
	}
	return hits
}
