package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"formbackend/internal/app/ds"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func New(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return NewWithDB(db)
}

// NewWithDB wraps an already opened connection and migrates the schema.
func NewWithDB(db *gorm.DB) (*Repository, error) {
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return &Repository{
		db: db,
	}, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&ds.FormConfig{},
		&ds.Submission{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// ============ form_configs ============

// UpsertFormConfig inserts the row or replaces every column of an existing one.
func (r *Repository) UpsertFormConfig(ctx context.Context, row *ds.FormConfig) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(row).Error
}

// GetActiveFormConfig returns nil, nil when no active row has this id.
func (r *Repository) GetActiveFormConfig(ctx context.Context, id string) (*ds.FormConfig, error) {
	var row ds.FormConfig
	err := r.db.WithContext(ctx).Where("id = ? AND active = ?", id, true).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) ListFormConfigs(ctx context.Context) ([]ds.FormConfig, error) {
	var rows []ds.FormConfig
	err := r.db.WithContext(ctx).Order("active DESC, created_at DESC").Find(&rows).Error
	return rows, err
}

// UpdateFormConfig touches name, config and updated_at only.
func (r *Repository) UpdateFormConfig(ctx context.Context, id, name string, config []byte, updatedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&ds.FormConfig{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":       name,
			"config":     datatypes.JSON(config),
			"updated_at": updatedAt,
		}).Error
}

// DeactivateFormConfig is the soft delete; running it twice is harmless.
func (r *Repository) DeactivateFormConfig(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Exec("UPDATE form_configs SET active = ? WHERE id = ?", false, id).Error
}

// ============ submissions ============

func (r *Repository) CreateSubmission(ctx context.Context, row *ds.Submission) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) LatestSubmissions(ctx context.Context, limit int) ([]ds.Submission, error) {
	var rows []ds.Submission
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *Repository) SubmissionByID(ctx context.Context, id string) (*ds.Submission, error) {
	var row ds.Submission
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
