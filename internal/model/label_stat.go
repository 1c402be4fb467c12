package model

import "time"

// LabelStat counts how often a food label has been detected.
type LabelStat struct {
	Label      string    `gorm:"size:64;primaryKey" json:"label"`
	Hits       int64     `gorm:"not null;default:0" json:"hits"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

func (LabelStat) TableName() string {
	return "label_stats"
}
