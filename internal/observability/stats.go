package observability

import (
	"sync"
	"sync/atomic"
)

type StatsSnapshot struct {
	PagesFetched        uint64            `json:"pages_fetched"`
	ScrapesSucceeded    uint64            `json:"scrapes_succeeded"`
	ScrapesFailed       uint64            `json:"scrapes_failed"`
	ScreeningsTotal     uint64            `json:"screenings_total"`
	AICalls             uint64            `json:"ai_calls"`
	ErrorsTotal         uint64            `json:"errors_total"`
	ScreeningSecondsAvg float64           `json:"screening_seconds_avg"`
	ScrapesBySite       map[string]uint64 `json:"scrapes_by_site,omitempty"`
	ErrorsByType        map[string]uint64 `json:"errors_by_type,omitempty"`
	ErrorsByComponent   map[string]uint64 `json:"errors_by_component,omitempty"`
}

var (
	pagesFetched     uint64
	scrapesSucceeded uint64
	scrapesFailed    uint64
	screeningsTotal  uint64
	aiCalls          uint64
	errorsTotal      uint64

	screeningCount uint64
	screeningNanos uint64

	statsMu           sync.Mutex
	scrapesBySite     = map[string]uint64{}
	errorsByType      = map[string]uint64{}
	errorsByComponent = map[string]uint64{}
)

func IncPagesFetched() {
	atomic.AddUint64(&pagesFetched, 1)
}

// IncScrape records the final outcome of one scrape routed to site.
func IncScrape(site string, success bool) {
	if site == "" {
		site = "unknown"
	}
	if success {
		atomic.AddUint64(&scrapesSucceeded, 1)
	} else {
		atomic.AddUint64(&scrapesFailed, 1)
	}
	statsMu.Lock()
	scrapesBySite[site]++
	statsMu.Unlock()
}

func IncAICall() {
	atomic.AddUint64(&aiCalls, 1)
}

func ObserveScreening(seconds float64) {
	atomic.AddUint64(&screeningsTotal, 1)
	if seconds <= 0 {
		return
	}
	atomic.AddUint64(&screeningCount, 1)
	atomic.AddUint64(&screeningNanos, uint64(seconds*1e9))
}

func IncError(errType, component string) {
	if errType == "" {
		errType = ErrorUnknown
	}
	if component == "" {
		component = "unknown"
	}
	atomic.AddUint64(&errorsTotal, 1)
	statsMu.Lock()
	errorsByType[errType]++
	errorsByComponent[component]++
	statsMu.Unlock()
}

func Snapshot() StatsSnapshot {
	statsMu.Lock()
	sites := copyMap(scrapesBySite)
	types := copyMap(errorsByType)
	components := copyMap(errorsByComponent)
	statsMu.Unlock()

	count := atomic.LoadUint64(&screeningCount)
	avg := 0.0
	if count > 0 {
		avg = float64(atomic.LoadUint64(&screeningNanos)) / float64(count) / 1e9
	}

	return StatsSnapshot{
		PagesFetched:        atomic.LoadUint64(&pagesFetched),
		ScrapesSucceeded:    atomic.LoadUint64(&scrapesSucceeded),
		ScrapesFailed:       atomic.LoadUint64(&scrapesFailed),
		ScreeningsTotal:     atomic.LoadUint64(&screeningsTotal),
		AICalls:             atomic.LoadUint64(&aiCalls),
		ErrorsTotal:         atomic.LoadUint64(&errorsTotal),
		ScreeningSecondsAvg: avg,
		ScrapesBySite:       sites,
		ErrorsByType:        types,
		ErrorsByComponent:   components,
	}
}

// Reset zeroes every counter.
func Reset() {
	for _, c := range []*uint64{&pagesFetched, &scrapesSucceeded, &scrapesFailed, &screeningsTotal,
		&aiCalls, &errorsTotal, &screeningCount, &screeningNanos} {
		atomic.StoreUint64(c, 0)
	}
	statsMu.Lock()
	scrapesBySite = map[string]uint64{}
	errorsByType = map[string]uint64{}
	errorsByComponent = map[string]uint64{}
	statsMu.Unlock()
}

func copyMap(src map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
