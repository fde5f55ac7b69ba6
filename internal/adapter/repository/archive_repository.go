package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/johnquangdev/meeting-intelligence/errors"
	"github.com/johnquangdev/meeting-intelligence/internal/domain/entities"
)

// ArchiveRepository persists completed session snapshots using GORM
type ArchiveRepository struct {
	db *gorm.DB
}

// NewArchiveRepository creates a new archive repository
func NewArchiveRepository(db *gorm.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

// Save upserts the archive row. Ending a session is idempotent at the
// storage layer, so a replayed save overwrites the previous snapshot.
func (r *ArchiveRepository) Save(ctx context.Context, archive *entities.SessionArchive) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(archive).Error; err != nil {
		return apperrors.ErrArchiveFailed(fmt.Errorf("failed to save archive: %w", err))
	}
	return nil
}

// FindByID loads one archived session
func (r *ArchiveRepository) FindByID(ctx context.Context, sessionID string) (*entities.SessionArchive, error) {
	var archive entities.SessionArchive
	if err := r.db.WithContext(ctx).Where("id = ?", sessionID).First(&archive).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrSessionNotFound(sessionID)
		}
		return nil, apperrors.ErrArchiveFailed(fmt.Errorf("failed to find archive: %w", err))
	}
	return &archive, nil
}

// ListRecent returns archived sessions newest first
func (r *ArchiveRepository) ListRecent(ctx context.Context, limit, offset int) ([]*entities.SessionArchive, error) {
	if limit <= 0 {
		limit = 20
	}
	var archives []*entities.SessionArchive
	if err := r.db.WithContext(ctx).
		Order("start_time DESC").
		Limit(limit).
		Offset(offset).
		Find(&archives).Error; err != nil {
		return nil, apperrors.ErrArchiveFailed(fmt.Errorf("failed to list archives: %w", err))
	}
	return archives, nil
}
