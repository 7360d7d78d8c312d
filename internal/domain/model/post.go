package model

import (
	"time"

	"github.com/gamerverse/backend/internal/domain/enums"
)

type Post struct {
	ID        int64               `json:"id"`
	UserID    int64               `json:"user_id"`
	Text      string              `json:"text"`
	Image     string              `json:"image,omitempty"`
	Status    enums.ContentStatus `json:"status"`
	NSFW      bool                `json:"nsfw"`
	Reports   []PostReport        `json:"reports"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// PostReport is the copy of a user flag embedded in the post document.
type PostReport struct {
	ReportedBy int64     `json:"reported_by"`
	Reason     string    `json:"reason"`
	Date       time.Time `json:"date"`
}
