package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smartchef/backend/internal/model"
)

// ErrScanNotFound is returned when a scan ID is unknown.
var ErrScanNotFound = errors.New("scan not found")

const maxScanListLimit = 100

// ScanService handles scan history operations
type ScanService struct {
	db *gorm.DB
}

// NewScanService creates a new ScanService instance
func NewScanService(db *gorm.DB) *ScanService {
	return &ScanService{db: db}
}

// Record stores a processed upload.
func (s *ScanService) Record(ctx context.Context, image string, labels []string, recipeCount int) (*model.Scan, error) {
	scan := &model.Scan{
		Image:       image,
		Labels:      model.StringArray(labels),
		RecipeCount: recipeCount,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(scan).Error; err != nil {
			return err
		}
		for _, label := range labels {
			stat := model.LabelStat{Label: label, Hits: 1, LastSeenAt: scan.CreatedAt}
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "label"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"hits":         gorm.Expr("label_stats.hits + 1"),
					"last_seen_at": scan.CreatedAt,
				}),
			}).Create(&stat).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record scan: %w", err)
	}
	return scan, nil
}

// TopLabels returns the most frequently detected labels.
func (s *ScanService) TopLabels(ctx context.Context, limit int) ([]model.LabelStat, error) {
	if limit <= 0 || limit > maxScanListLimit {
		limit = maxScanListLimit
	}
	stats := make([]model.LabelStat, 0)
	if err := s.db.WithContext(ctx).Order("hits DESC, label ASC").Limit(limit).Find(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to list label stats: %w", err)
	}
	return stats, nil
}

// List returns the most recent scans, newest first.
func (s *ScanService) List(ctx context.Context, limit int) ([]model.Scan, error) {
	if limit <= 0 || limit > maxScanListLimit {
		limit = maxScanListLimit
	}
	var scans []model.Scan
	if err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&scans).Error; err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	return scans, nil
}

// Get retrieves a scan by ID
func (s *ScanService) Get(ctx context.Context, id uuid.UUID) (*model.Scan, error) {
	var scan model.Scan
	if err := s.db.WithContext(ctx).First(&scan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScanNotFound
		}
		return nil, fmt.Errorf("failed to get scan: %w", err)
	}
	return &scan, nil
}
