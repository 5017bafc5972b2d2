package results

import "strings"

// LotteryInfo is the canonical identity behind an upstream lottery code.
type LotteryInfo struct {
	Name   string
	Region string
}

// lotteryCodes maps upstream form codes to canonical lottery identities.
// Loaded once; treat as configuration data.
var lotteryCodes = map[string]LotteryInfo{
	"ln":  {Name: "NACIONAL", Region: "BR"},
	"sp":  {Name: "PT SP", Region: "SP"},
	"ba":  {Name: "PT BAHIA", Region: "BA"},
	"pb":  {Name: "LOTEP", Region: "PB"},
	"bs":  {Name: "BOA SORTE", Region: "GO"},
	"lce": {Name: "LOTECE", Region: "CE"},
	"lk":  {Name: "LOOK", Region: "GO"},
	"fd":  {Name: "FEDERAL", Region: "BR"},
}

// LotteryForCode resolves an upstream code to its canonical identity.
// Unknown codes fall back to the uppercased code itself.
func LotteryForCode(code string) LotteryInfo {
	if info, ok := lotteryCodes[strings.ToLower(code)]; ok {
		return info
	}
	return LotteryInfo{Name: strings.ToUpper(code)}
}

// CodeForLottery maps a lottery display name (or an already valid code)
// to the upstream form code. Empty when no mapping applies.
func CodeForLottery(lottery string) string {
	if lottery == "" {
		return ""
	}
	lower := strings.ToLower(strings.TrimSpace(lottery))
	if _, ok := lotteryCodes[lower]; ok {
		return lower
	}
	switch {
	case strings.Contains(lower, "nacional"):
		return "ln"
	case strings.Contains(lower, "pt sp"), strings.Contains(lower, "bandeirantes"):
		return "sp"
	case strings.Contains(lower, "bahia"):
		return "ba"
	case strings.Contains(lower, "lotep"), strings.Contains(lower, "paraiba"),
		strings.Contains(lower, "paraíba"):
		return "pb"
	case strings.Contains(lower, "boa sorte"):
		return "bs"
	case strings.Contains(lower, "lotece"):
		return "lce"
	case strings.Contains(lower, "look"):
		return "lk"
	case strings.Contains(lower, "federal"):
		return "fd"
	}
	return ""
}
