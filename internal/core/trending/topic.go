package trending

import (
	"time"
)

// Topic is a hashtag that crossed the frequency threshold
type Topic struct {
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
}

// HashtagCount is one row of the windowed hashtag frequency aggregate
type HashtagCount struct {
	Name  string `db:"name"`
	Count int    `db:"count"`
}
