package odds

import (
	"fmt"

	"github.com/bichocore/settler/internal/domain"
)

// oddsTable holds the house multipliers per modality and position window.
// Windows not listed fall back to the "1-5" row.
var oddsTable = map[domain.Modality]map[string]float64{
	domain.ModalityTen: {
		"1-1": 60, "1-3": 60, "1-5": 60, "1-7": 60,
	},
	domain.ModalityHundred: {
		"1-1": 600, "1-3": 600, "1-5": 600, "1-7": 600,
	},
	domain.ModalityThousand: {
		"1-1": 5000, "1-3": 5000, "1-5": 5000,
	},
	domain.ModalityTenInv: {
		"1-1": 60, "1-3": 60, "1-5": 60, "1-7": 60,
	},
	domain.ModalityHundredInv: {
		"1-1": 600, "1-3": 600, "1-5": 600, "1-7": 600,
	},
	domain.ModalityThousandInv: {
		"1-1": 200, "1-3": 200, "1-5": 200,
	},
	domain.ModalityThousandOrHund: {
		"1-1": 3300, "1-3": 3300, "1-5": 3300,
	},
	domain.ModalityGroup: {
		"1-1": 18, "1-3": 18, "1-5": 18, "1-7": 18,
	},
	domain.ModalityDoubleGroup: {
		"1-1": 180, "1-3": 180, "1-5": 180, "1-7": 180,
	},
	domain.ModalityTripleGroup: {
		"1-1": 1800, "1-3": 1800, "1-5": 1800, "1-7": 1800,
	},
	domain.ModalityQuadGroup: {
		"1-1": 5000, "1-3": 5000, "1-5": 5000, "1-7": 5000,
	},
	domain.ModalityQuinaGroup: {
		"1-1": 5000, "1-3": 5000, "1-5": 5000, "1-7": 5000,
	},
	domain.ModalityPasse: {
		"1-2": 300,
	},
	domain.ModalityPasseRoundTrip: {
		"1-2": 150,
	},
}

// Lookup returns the multiplier for a modality over a position window.
// Passe variants always read the fixed 1-2 row.
func Lookup(m domain.Modality, r Range) (float64, error) {
	rows, ok := oddsTable[m]
	if !ok {
		return 0, fmt.Errorf("odds: %q: %w", m, domain.ErrUnknownModality)
	}
	if m.IsPasse() {
		return rows["1-2"], nil
	}
	if odd, ok := rows[r.String()]; ok {
		return odd, nil
	}
	return rows["1-5"], nil
}
