// Package store persists analysis reports in a local SQLite database.
package store

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/vscarpenter/image-insights/pkg/insights"
)

// Record is one persisted analysis report
type Record struct {
	ID           string             `json:"id" gorm:"primaryKey"`
	ImagePath    string             `json:"image_path"`
	OriginalName string             `json:"original_name"`
	Purpose      string             `json:"purpose"`
	Narrative    string             `json:"narrative"`
	Insights     []insights.Insight `json:"insights" gorm:"serializer:json"`
	Megapixels   float64            `json:"megapixels"`
	Quality      string             `json:"quality"`
	CreatedAt    time.Time          `json:"created_at"`
}

// Store wraps the report database
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the database at path and runs migrations
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// Save persists a report record
func (s *Store) Save(rec *Record) error {
	if err := s.db.Create(rec).Error; err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// List returns the most recent records, newest first
func (s *Store) List(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []Record
	if err := s.db.Order("created_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return records, nil
}

// Get returns one record by ID
func (s *Store) Get(id string) (*Record, error) {
	var rec Record
	if err := s.db.First(&rec, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to load report %s: %w", id, err)
	}
	return &rec, nil
}

// Delete removes one record by ID
func (s *Store) Delete(id string) error {
	if err := s.db.Delete(&Record{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete report %s: %w", id, err)
	}
	return nil
}
