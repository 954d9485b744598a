// Package analytics derives spending-pattern snapshots from a user's order
// history. Aggregation is a pure function of the order set: no caching, no
// hidden state, fully recomputed per invocation.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"spendly/internal/model"
)

// Timeframe is a rolling window selector evaluated relative to "now" at
// query time.
type Timeframe string

const (
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"
)

// Valid reports whether the selector is one of week, month or year.
func (t Timeframe) Valid() bool {
	return t == TimeframeWeek || t == TimeframeMonth || t == TimeframeYear
}

// Start resolves the window's lower bound relative to now.
func (t Timeframe) Start(now time.Time) time.Time {
	switch t {
	case TimeframeWeek:
		return now.AddDate(0, 0, -7)
	case TimeframeYear:
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, -1, 0)
	}
}

// CategorySpend is the in-window spend attributed to one category.
type CategorySpend struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// HourBucket accumulates orders by hour of day. Hours with no orders are
// absent; callers needing a dense 24-bucket series synthesise the gaps.
type HourBucket struct {
	Hour   int     `json:"hour"`
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// DayBucket accumulates orders by weekday. All seven days are always
// present, zero-filled, for consistent chart rendering.
type DayBucket struct {
	Day    string  `json:"day"`
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// TriggerStat is the frequency and spend recorded against one emotional
// trigger.
type TriggerStat struct {
	Trigger    model.EmotionalTrigger `json:"trigger"`
	Frequency  int                    `json:"frequency"`
	TotalSpent float64                `json:"total_spent"`
}

// ImpulseMetrics are the headline summary figures.
type ImpulseMetrics struct {
	TotalImpulsePurchases int                     `json:"total_impulse_purchases"`
	AverageImpulseAmount  float64                 `json:"average_impulse_amount"`
	MostCommonTrigger     *model.EmotionalTrigger `json:"most_common_trigger"`
	PeakSpendingTime      string                  `json:"peak_spending_time"`
}

// Snapshot is one full aggregation result.
type Snapshot struct {
	CategorySpending  []CategorySpend `json:"category_spending"`
	TimeDistribution  []HourBucket    `json:"time_distribution"`
	DayDistribution   []DayBucket     `json:"day_distribution"`
	EmotionalTriggers []TriggerStat   `json:"emotional_triggers"`
	ImpulseMetrics    ImpulseMetrics  `json:"impulse_metrics"`
}

var daysOfWeek = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Aggregate buckets the given orders by category, hour of day, weekday and
// emotional trigger, and derives the impulse metrics. Timestamps are
// interpreted in loc.
func Aggregate(orders []model.Order, loc *time.Location) Snapshot {
	if loc == nil {
		loc = time.Local
	}

	// Category spending over flattened line items, insertion-ordered.
	categoryAmounts := make(map[string]float64)
	var categoryOrder []string
	totalSpent := 0.0
	for _, order := range orders {
		for _, item := range order.Items {
			amount := item.Price * float64(item.Quantity)
			if _, seen := categoryAmounts[item.Category]; !seen {
				categoryOrder = append(categoryOrder, item.Category)
			}
			categoryAmounts[item.Category] += amount
			totalSpent += amount
		}
	}

	categorySpending := make([]CategorySpend, 0, len(categoryOrder))
	for _, category := range categoryOrder {
		amount := categoryAmounts[category]
		pct := 0.0
		if totalSpent > 0 {
			pct = amount / totalSpent * 100
		}
		categorySpending = append(categorySpending, CategorySpend{
			Category:   category,
			Amount:     amount,
			Percentage: pct,
		})
	}

	// Hour and day distributions over whole orders.
	hourBuckets := make(map[int]*HourBucket)
	dayBuckets := make(map[string]*DayBucket)
	for _, order := range orders {
		local := order.CreatedAt.In(loc)
		hour := local.Hour()
		day := daysOfWeek[int(local.Weekday())]

		hb, ok := hourBuckets[hour]
		if !ok {
			hb = &HourBucket{Hour: hour}
			hourBuckets[hour] = hb
		}
		hb.Count++
		hb.Amount += order.TotalAmount

		db, ok := dayBuckets[day]
		if !ok {
			db = &DayBucket{Day: day}
			dayBuckets[day] = db
		}
		db.Count++
		db.Amount += order.TotalAmount
	}

	// Sparse hours, ascending.
	timeDistribution := make([]HourBucket, 0, len(hourBuckets))
	for hour := 0; hour < 24; hour++ {
		if hb, ok := hourBuckets[hour]; ok {
			timeDistribution = append(timeDistribution, *hb)
		}
	}

	// Dense seven-day series, zero-filled.
	dayDistribution := make([]DayBucket, 0, len(daysOfWeek))
	for _, day := range daysOfWeek {
		if db, ok := dayBuckets[day]; ok {
			dayDistribution = append(dayDistribution, *db)
		} else {
			dayDistribution = append(dayDistribution, DayBucket{Day: day})
		}
	}

	// Trigger distribution: discovery order, then stable sort by frequency.
	triggerStats := make(map[model.EmotionalTrigger]*TriggerStat)
	var triggerOrder []model.EmotionalTrigger
	for _, order := range orders {
		if order.EmotionalTrigger == "" {
			continue
		}
		ts, ok := triggerStats[order.EmotionalTrigger]
		if !ok {
			ts = &TriggerStat{Trigger: order.EmotionalTrigger}
			triggerStats[order.EmotionalTrigger] = ts
			triggerOrder = append(triggerOrder, order.EmotionalTrigger)
		}
		ts.Frequency++
		ts.TotalSpent += order.TotalAmount
	}

	emotionalTriggers := make([]TriggerStat, 0, len(triggerOrder))
	for _, t := range triggerOrder {
		emotionalTriggers = append(emotionalTriggers, *triggerStats[t])
	}
	sort.SliceStable(emotionalTriggers, func(i, j int) bool {
		return emotionalTriggers[i].Frequency > emotionalTriggers[j].Frequency
	})

	// Peak hour: first maximum wins over the ascending scan, so ties break
	// toward the lowest hour.
	peak := HourBucket{}
	for _, hb := range timeDistribution {
		if hb.Amount > peak.Amount {
			peak = hb
		}
	}

	metrics := ImpulseMetrics{
		TotalImpulsePurchases: len(orders),
		PeakSpendingTime:      fmt.Sprintf("%d:00", peak.Hour),
	}
	if len(orders) > 0 {
		metrics.AverageImpulseAmount = totalSpent / float64(len(orders))
	}
	if len(emotionalTriggers) > 0 {
		top := emotionalTriggers[0].Trigger
		metrics.MostCommonTrigger = &top
	}

	return Snapshot{
		CategorySpending:  categorySpending,
		TimeDistribution:  timeDistribution,
		DayDistribution:   dayDistribution,
		EmotionalTriggers: emotionalTriggers,
		ImpulseMetrics:    metrics,
	}
}
