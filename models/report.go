package models

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Report stores a generated report payload as opaque JSON.
type Report struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"userId" db:"user_id"`
	Type      string          `json:"type" db:"type"`
	Endpoint  string          `json:"endpoint" db:"endpoint"`
	Response  json.RawMessage `json:"response" db:"response"`
	TimeStamp time.Time       `json:"timeStamp" db:"time_stamp"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

// ChartData stores a chart dataset and its display configuration.
type ChartData struct {
	ID             int64            `json:"id" db:"id"`
	UserID         uuid.UUID        `json:"userId" db:"user_id"`
	ChartType      string           `json:"chartType" db:"chart_type"`
	Title          string           `json:"title" db:"title"`
	DataSet        json.RawMessage  `json:"dataSet" db:"data_set"`
	Period         string           `json:"period" db:"period"`
	StartDate      time.Time        `json:"startDate" db:"start_date"`
	EndDate        time.Time        `json:"endDate" db:"end_date"`
	Category       string           `json:"category" db:"category"`
	ChartConfig    *json.RawMessage `json:"chartConfig,omitempty" db:"chart_config"`
	IsCached       bool             `json:"isCached" db:"is_cached"`
	CacheExpiresAt *time.Time       `json:"cacheExpiresAt,omitempty" db:"cache_expires_at"`
	CreatedAt      time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time        `json:"updatedAt" db:"updated_at"`
}
