package odds

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/bichocore/settler/internal/domain"
)

// SixthPrize derives the 6th prize from the first five: their sum, last
// four digits.
func SixthPrize(prizes []int) (int, error) {
	if len(prizes) < 5 {
		return 0, fmt.Errorf("odds: need 5 prizes for the 6th, got %d", len(prizes))
	}
	sum := prizes[0] + prizes[1] + prizes[2] + prizes[3] + prizes[4]
	return sum % 10000, nil
}

// SeventhPrize derives the 7th prize: 1st times 2nd, drop the last three
// digits, keep the middle three.
func SeventhPrize(prizes []int) (int, error) {
	if len(prizes) < 2 {
		return 0, fmt.Errorf("odds: need 2 prizes for the 7th, got %d", len(prizes))
	}
	return (prizes[0] * prizes[1] / 1000) % 1000, nil
}

// ExtendPrizes appends the derived 6th and 7th prizes until the result
// holds total entries. Used for houses that publish five drawn numbers
// and compute the rest.
func ExtendPrizes(prizes []int, total int) ([]int, error) {
	out := append([]int(nil), prizes...)
	if total >= 6 && len(out) < 6 {
		p, err := SixthPrize(out)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if total >= 7 && len(out) < 7 {
		p, err := SeventhPrize(out)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// SynthesizeInstantResult draws n pseudo-random prizes for an instant
// wager. Beyond the fifth position the prizes are derived, not drawn.
func SynthesizeInstantResult(lottery string, n int) (domain.OfficialResult, error) {
	drawn := n
	if drawn > 5 {
		drawn = 5
	}
	prizes := make([]int, 0, n)
	for i := 0; i < drawn; i++ {
		prizes = append(prizes, rand.IntN(10000))
	}
	if n > 5 {
		extended, err := ExtendPrizes(prizes, n)
		if err != nil {
			return domain.OfficialResult{}, err
		}
		prizes = extended
	}

	now := time.Now()
	res := domain.OfficialResult{
		Lottery:     lottery,
		TimeLabel:   now.Format("15:04"),
		ContestDate: now,
		FetchedAt:   now,
	}
	for i, p := range prizes {
		number := fmt.Sprintf("%04d", p)
		group := GroupFromNumber(number)
		res.Prizes = append(res.Prizes, domain.PrizeEntry{
			Position: i + 1,
			Number:   number,
			Group:    group,
			Animal:   AnimalName(group),
		})
	}
	return res, nil
}
