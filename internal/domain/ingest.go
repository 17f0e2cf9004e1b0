package domain

import (
	"context"
	"time"
)

// IngestRecord is one captured location fix. Records are append-only.
type IngestRecord struct {
	ID         int64     `json:"id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	CapturedAt time.Time `json:"capturedAt"`
}

// IngestRepository is the port for the local ingest sink.
type IngestRepository interface {
	AppendIngestRecord(ctx context.Context, rec IngestRecord) (int64, error)
	ListRecentIngestRecords(ctx context.Context, limit int) ([]IngestRecord, error)
}

// AccuracyProfile trades fix precision against power use.
type AccuracyProfile int

// Accuracy profiles.
const (
	BalancedPower AccuracyProfile = iota
	HighAccuracy
)

func (p AccuracyProfile) String() string {
	if p == HighAccuracy {
		return "high_accuracy"
	}
	return "balanced_power"
}

// Location is a single position fix.
type Location struct {
	Latitude       float64
	Longitude      float64
	AccuracyMeters float64
	At             time.Time
}

// LocationProvider returns the current fix, or nil when none is available yet.
type LocationProvider interface {
	CurrentFix(ctx context.Context, profile AccuracyProfile) (*Location, error)
}
