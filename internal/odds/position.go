package odds

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bichocore/settler/internal/domain"
)

// Range is a 1-based inclusive prize-position window.
type Range struct {
	From int
	To   int
}

func (r Range) Width() int { return r.To - r.From + 1 }

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.From, r.To)
}

// ParseRange parses a stored position label into a Range. Accepted forms:
// "1st", "1º", "3", "1-5", "1º-3º". Empty input falls back to def-def.
func ParseRange(label string, def int) Range {
	label = strings.TrimSpace(label)
	if label == "" {
		return Range{From: def, To: def}
	}
	if label == "1st" || strings.EqualFold(label, "1º") {
		return Range{From: 1, To: 1}
	}
	if strings.Contains(label, "-") {
		parts := strings.SplitN(label, "-", 2)
		from := digitsOr(parts[0], def)
		to := digitsOr(parts[1], def)
		if from < 1 {
			from = 1
		}
		if to < from {
			to = from
		}
		return Range{From: from, To: to}
	}
	n := digitsOr(label, def)
	return Range{From: n, To: n}
}

func digitsOr(s string, def int) int {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.Atoi(b.String())
	if err != nil || n == 0 {
		return def
	}
	return n
}

// ValidateRange checks a range against the modality's rules: thousand
// variants pay up to the 5th prize only, passe is fixed at 1st-2nd, and
// everything else runs up to the 7th.
func ValidateRange(m domain.Modality, r Range) error {
	if r.From < 1 || r.To < r.From {
		return fmt.Errorf("odds: positions %s: %w", r, domain.ErrInvalidGuess)
	}
	switch {
	case m == domain.ModalityThousand || m == domain.ModalityThousandInv ||
		m == domain.ModalityThousandOrHund:
		if r.To > 5 {
			return fmt.Errorf("odds: %s beyond 5th prize: %w", m, domain.ErrInvalidGuess)
		}
	case m.IsPasse():
		if r.From != 1 || r.To != 2 {
			return fmt.Errorf("odds: passe is fixed at 1st-2nd: %w", domain.ErrInvalidGuess)
		}
	default:
		if r.To > 7 {
			return fmt.Errorf("odds: %s beyond 7th prize: %w", m, domain.ErrInvalidGuess)
		}
	}
	return nil
}

// FormatRange renders a range for display ("1º", "1º ao 5º").
func FormatRange(r Range) string {
	if r.From == r.To {
		return fmt.Sprintf("%dº", r.From)
	}
	return fmt.Sprintf("%dº ao %dº", r.From, r.To)
}
