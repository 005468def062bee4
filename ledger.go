package doclink

import (
	"sync"
	"time"
)

// UsageRecord is one append-only entry in the token ledger.
type UsageRecord struct {
	// Stage names the pipeline stage that incurred the cost.
	Stage            string    `json:"stage"`
	Model            string    `json:"model"`
	PromptTokens     int       `json:"promptTokens"`
	CompletionTokens int       `json:"completionTokens"`
	Cost             float64   `json:"cost"`
	Timestamp        time.Time `json:"timestamp"`
}

// UsageTotals is an aggregate snapshot of a ledger.
type UsageTotals struct {
	PromptTokens     int     `json:"promptTokens"`
	CompletionTokens int     `json:"completionTokens"`
	TotalTokens      int     `json:"totalTokens"`
	Calls            int     `json:"calls"`
	Cost             float64 `json:"cost"`
}

// ModelCost is the price in USD per million tokens.
type ModelCost struct {
	Input  float64
	Output float64
}

// modelCosts approximates current list prices. Unknown models cost zero.
var modelCosts = map[string]ModelCost{
	"gemini-2.5-flash": {Input: 0.30, Output: 2.50},
	"gemini-2.5-pro":   {Input: 1.25, Output: 10.00},
	"gemini-2.0-flash": {Input: 0.10, Output: 0.40},
}

// CostFor estimates the USD cost of a call against the price table.
func CostFor(model string, promptTokens, completionTokens int) float64 {
	c, ok := modelCosts[model]
	if !ok {
		return 0
	}
	return float64(promptTokens)/1e6*c.Input + float64(completionTokens)/1e6*c.Output
}

// TokenLedger accumulates token usage and cost across a run. There is
// exactly one ledger per run, shared by reference between the linking engine
// and every reporting consumer, so all reports agree on the total. Records
// are never removed; corrections are made by appending compensating records.
type TokenLedger struct {
	mu      sync.Mutex
	records []UsageRecord
}

// NewTokenLedger returns an empty ledger.
func NewTokenLedger() *TokenLedger {
	return &TokenLedger{}
}

// Record appends a usage record. A zero timestamp is filled with the current
// time and a zero cost with the price-table estimate. Safe for concurrent
// use.
func (l *TokenLedger) Record(rec UsageRecord) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	if rec.Cost == 0 {
		rec.Cost = CostFor(rec.Model, rec.PromptTokens, rec.CompletionTokens)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
}

// Records returns a copy of every record in append order.
func (l *TokenLedger) Records() []UsageRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]UsageRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Total returns a stable aggregate snapshot. The snapshot always equals the
// sum of the individual records at the time of the call.
func (l *TokenLedger) Total() UsageTotals {
	l.mu.Lock()
	defer l.mu.Unlock()

	var t UsageTotals
	for _, rec := range l.records {
		t.PromptTokens += rec.PromptTokens
		t.CompletionTokens += rec.CompletionTokens
		t.Cost += rec.Cost
		t.Calls++
	}
	t.TotalTokens = t.PromptTokens + t.CompletionTokens
	return t
}
