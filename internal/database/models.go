package database

import "time"

// UsageRecord is one audit row per handled message. It carries no message
// content, only what the /stats command needs.
type UsageRecord struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	ChatID     int64  `db:"chat_id"`
	Intent     string `db:"intent"`
	Success    bool   `db:"success"`
	DurationMS int64  `db:"duration_ms"`
}

// UsageStat aggregates usage rows per intent over a time window.
type UsageStat struct {
	Intent string `db:"intent"`
	Total  int64  `db:"total"`
	Failed int64  `db:"failed"`
}
