package results

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bichocore/settler/internal/domain"
	"github.com/bichocore/settler/internal/odds"
)

// AggregatorClient reads an already-flattened result feed, used as the
// fallback source when the direct upstream path is unreachable. The feed
// returns one JSON item per prize row; rows are regrouped into slots.
type AggregatorClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAggregatorClient(baseURL string) *AggregatorClient {
	return &AggregatorClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type aggregatorItem struct {
	Position string `json:"position"`
	Milhar   string `json:"milhar"`
	Grupo    string `json:"grupo"`
	Animal   string `json:"animal"`
	Horario  string `json:"horario"`
	Loteria  string `json:"loteria"`
	Date     string `json:"date"`
}

type aggregatorResponse struct {
	Results    []aggregatorItem `json:"results"`
	Resultados []aggregatorItem `json:"resultados"`
}

var posDigitsRe = regexp.MustCompile(`(\d+)`)

// ForDay fetches the aggregator feed and regroups its rows into
// OfficialResult slots for the given date.
func (a *AggregatorClient) ForDay(ctx context.Context, date time.Time) ([]domain.OfficialResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("results: aggregator request: %w", err)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("results: aggregator fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("results: aggregator status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("results: aggregator read: %w", err)
	}

	var payload aggregatorResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("results: aggregator decode: %w", err)
	}
	items := payload.Results
	if len(items) == 0 {
		items = payload.Resultados
	}
	return groupAggregatorItems(items, date), nil
}

// groupAggregatorItems folds flattened prize rows back into per-slot
// results, keeping only rows for the wanted date.
func groupAggregatorItems(items []aggregatorItem, date time.Time) []domain.OfficialResult {
	want := date.Format("2006-01-02")
	type key struct{ lottery, timeLabel string }
	slots := make(map[key]*domain.OfficialResult)
	now := time.Now()

	for _, it := range items {
		if it.Date != "" && !strings.HasPrefix(it.Date, want) {
			continue
		}
		pm := posDigitsRe.FindStringSubmatch(it.Position)
		if pm == nil || it.Milhar == "" {
			continue
		}
		pos, err := strconv.Atoi(pm[1])
		if err != nil || pos < 1 {
			continue
		}
		number := it.Milhar
		for len(number) < 4 {
			number = "0" + number
		}
		group := 0
		if g, err := strconv.Atoi(strings.TrimSpace(it.Grupo)); err == nil && g >= 1 && g <= 25 {
			group = g
		} else {
			group = odds.GroupFromNumber(number)
		}

		k := key{strings.ToUpper(strings.TrimSpace(it.Loteria)), it.Horario}
		slot, ok := slots[k]
		if !ok {
			slot = &domain.OfficialResult{
				Lottery:     k.lottery,
				TimeLabel:   it.Horario,
				ContestDate: date,
				FetchedAt:   now,
			}
			slots[k] = slot
		}
		slot.Prizes = append(slot.Prizes, domain.PrizeEntry{
			Position: pos,
			Number:   number,
			Group:    group,
			Animal:   it.Animal,
		})
	}

	out := make([]domain.OfficialResult, 0, len(slots))
	for _, slot := range slots {
		sort.Slice(slot.Prizes, func(i, j int) bool {
			return slot.Prizes[i].Position < slot.Prizes[j].Position
		})
		out = append(out, *slot)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Lottery != out[j].Lottery {
			return out[i].Lottery < out[j].Lottery
		}
		return out[i].TimeLabel < out[j].TimeLabel
	})
	return out
}
