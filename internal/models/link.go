package models

import (
	"time"
)

// Link связь короткого идентификатора с исходным URL
type Link struct {
	ID             int64     `json:"id"`
	ShortID        string    `json:"short_id"`
	DestinationURL string    `json:"original_url"`
	CreatedAt      time.Time `json:"created_at"`
	ClickCount     int64     `json:"click_count"`
}
