package domain

import "strings"

// Modality is the bet type. It determines the odds row, the unit
// calculation, and the hit rule used when scoring a guess.
type Modality string

const (
	ModalityGroup          Modality = "GRUPO"
	ModalityDoubleGroup    Modality = "DUPLA_GRUPO"
	ModalityTripleGroup    Modality = "TERNO_GRUPO"
	ModalityQuadGroup      Modality = "QUADRA_GRUPO"
	ModalityQuinaGroup     Modality = "QUINA_GRUPO"
	ModalityTen            Modality = "DEZENA"
	ModalityHundred        Modality = "CENTENA"
	ModalityThousand       Modality = "MILHAR"
	ModalityTenInv         Modality = "DEZENA_INVERTIDA"
	ModalityHundredInv     Modality = "CENTENA_INVERTIDA"
	ModalityThousandInv    Modality = "MILHAR_INVERTIDA"
	ModalityThousandOrHund Modality = "MILHAR_CENTENA"
	ModalityPasse          Modality = "PASSE"
	ModalityPasseRoundTrip Modality = "PASSE_VAI_E_VEM"
)

// modalityNames maps the display names stored on wagers to modality tags.
// Loaded once; treat as configuration data.
var modalityNames = map[string]Modality{
	"Grupo":             ModalityGroup,
	"Dupla de Grupo":    ModalityDoubleGroup,
	"Terno de Grupo":    ModalityTripleGroup,
	"Quadra de Grupo":   ModalityQuadGroup,
	"Quina de Grupo":    ModalityQuinaGroup,
	"Dezena":            ModalityTen,
	"Centena":           ModalityHundred,
	"Milhar":            ModalityThousand,
	"Dezena Invertida":  ModalityTenInv,
	"Centena Invertida": ModalityHundredInv,
	"Milhar Invertida":  ModalityThousandInv,
	"Milhar/Centena":    ModalityThousandOrHund,
	"Passe vai":         ModalityPasse,
	"Passe vai e vem":   ModalityPasseRoundTrip,
}

// ParseModality resolves a display name (e.g. "Dupla de Grupo") or a raw
// tag (e.g. "DUPLA_GRUPO") to a Modality. The zero value and false are
// returned when the name is unknown.
func ParseModality(name string) (Modality, bool) {
	if m, ok := modalityNames[strings.TrimSpace(name)]; ok {
		return m, true
	}
	tag := Modality(strings.ToUpper(strings.TrimSpace(name)))
	switch tag {
	case ModalityGroup, ModalityDoubleGroup, ModalityTripleGroup,
		ModalityQuadGroup, ModalityQuinaGroup, ModalityTen,
		ModalityHundred, ModalityThousand, ModalityTenInv,
		ModalityHundredInv, ModalityThousandInv, ModalityThousandOrHund,
		ModalityPasse, ModalityPasseRoundTrip:
		return tag, true
	}
	return "", false
}

// IsGroup reports whether the modality is scored against animal groups.
func (m Modality) IsGroup() bool {
	switch m {
	case ModalityGroup, ModalityDoubleGroup, ModalityTripleGroup,
		ModalityQuadGroup, ModalityQuinaGroup:
		return true
	}
	return false
}

// IsPasse reports whether the modality is a passe variant (fixed 1st-2nd).
func (m Modality) IsPasse() bool {
	return m == ModalityPasse || m == ModalityPasseRoundTrip
}

// IsNumeric reports whether the modality is scored against digit strings.
func (m Modality) IsNumeric() bool {
	return !m.IsGroup() && !m.IsPasse()
}

// IsInverted reports whether the modality accepts any permutation of the
// guessed digits.
func (m Modality) IsInverted() bool {
	switch m {
	case ModalityTenInv, ModalityHundredInv, ModalityThousandInv:
		return true
	}
	return false
}

// RequiredGroups returns how many distinct groups a guess must contain for
// a group modality, or 0 when the modality does not constrain it.
func (m Modality) RequiredGroups() int {
	switch m {
	case ModalityGroup:
		return 1
	case ModalityDoubleGroup:
		return 2
	case ModalityTripleGroup:
		return 3
	case ModalityQuadGroup:
		return 4
	case ModalityQuinaGroup:
		return 5
	case ModalityPasse, ModalityPasseRoundTrip:
		return 2
	}
	return 0
}
