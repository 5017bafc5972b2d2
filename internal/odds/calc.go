package odds

import (
	"fmt"

	"github.com/bichocore/settler/internal/domain"
)

// Calculation is the unit breakdown for one guess.
type Calculation struct {
	Combinations int
	Positions    int
	Units        int
	UnitValue    float64
}

// StakePerGuess resolves the stake carried by each guess under the
// division mode. "each" charges the typed value per guess; "all" splits
// it across the guesses.
func StakePerGuess(typed float64, guessCount int, mode domain.DivisionMode) float64 {
	if mode == domain.DivisionPerGuess {
		return typed
	}
	if guessCount == 0 {
		return 0
	}
	return typed / float64(guessCount)
}

// TotalStake is the amount charged to the wallet for the whole wager.
func TotalStake(typed float64, guessCount int, mode domain.DivisionMode) float64 {
	if mode == domain.DivisionPerGuess {
		return typed * float64(guessCount)
	}
	return typed
}

// Calculate computes combinations, units, and unit value for one guess.
// Group modalities are simple (one combination); inverted numeric
// modalities spread the stake across the distinct permutations; passe
// is a single fixed unit.
func Calculate(m domain.Modality, g domain.Guess, r Range, stakePerGuess float64) (Calculation, error) {
	if err := ValidateRange(m, r); err != nil {
		return Calculation{}, err
	}
	if m.IsPasse() {
		if len(g.Groups) != 2 {
			return Calculation{}, fmt.Errorf("odds: passe needs 2 groups, got %d: %w",
				len(g.Groups), domain.ErrInvalidGuess)
		}
		return Calculation{Combinations: 1, Positions: 1, Units: 1, UnitValue: stakePerGuess}, nil
	}
	if m.IsGroup() {
		if want := m.RequiredGroups(); len(g.Groups) != want {
			return Calculation{}, fmt.Errorf("odds: %s needs %d groups, got %d: %w",
				m, want, len(g.Groups), domain.ErrInvalidGuess)
		}
		for _, grp := range g.Groups {
			if grp < 1 || grp > 25 {
				return Calculation{}, fmt.Errorf("odds: group %d out of range: %w",
					grp, domain.ErrInvalidGuess)
			}
		}
		units := r.Width()
		return Calculation{
			Combinations: 1,
			Positions:    r.Width(),
			Units:        units,
			UnitValue:    unitValue(stakePerGuess, units),
		}, nil
	}

	// Numeric modalities.
	if err := validateNumber(m, g.Number); err != nil {
		return Calculation{}, err
	}
	combinations := 1
	if m.IsInverted() {
		combinations = CountDistinctPermutations(g.Number)
	}
	units := combinations * r.Width()
	return Calculation{
		Combinations: combinations,
		Positions:    r.Width(),
		Units:        units,
		UnitValue:    unitValue(stakePerGuess, units),
	}, nil
}

func unitValue(stake float64, units int) float64 {
	if units == 0 {
		return 0
	}
	return stake / float64(units)
}

func validateNumber(m domain.Modality, number string) error {
	for _, r := range number {
		if r < '0' || r > '9' {
			return fmt.Errorf("odds: number %q not numeric: %w", number, domain.ErrInvalidGuess)
		}
	}
	var want int
	switch m {
	case domain.ModalityTen, domain.ModalityTenInv:
		want = 2
	case domain.ModalityHundred, domain.ModalityHundredInv:
		want = 3
	case domain.ModalityThousand, domain.ModalityThousandInv, domain.ModalityThousandOrHund:
		want = 4
	default:
		return fmt.Errorf("odds: %q is not numeric: %w", m, domain.ErrUnknownModality)
	}
	if len(number) != want {
		return fmt.Errorf("odds: %s needs %d digits, got %q: %w",
			m, want, number, domain.ErrInvalidGuess)
	}
	return nil
}
