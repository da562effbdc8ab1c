package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSnapshotNotFound is returned when a session has no stored snapshot.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ProposalSnapshot is one durable draft slot, keyed by session.
type ProposalSnapshot struct {
	SessionID uuid.UUID `gorm:"column:session_id;type:uuid;primaryKey"`
	Data      []byte    `gorm:"column:data;type:jsonb;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (ProposalSnapshot) TableName() string {
	return "proposal_snapshot"
}

// SnapshotRepository persists draft snapshots through gorm.
type SnapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) Load(ctx context.Context, sessionID uuid.UUID) ([]byte, error) {
	var row ProposalSnapshot
	err := r.db.WithContext(ctx).First(&row, "session_id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}
	return row.Data, nil
}

func (r *SnapshotRepository) Save(ctx context.Context, sessionID uuid.UUID, data []byte) error {
	row := ProposalSnapshot{
		SessionID: sessionID,
		Data:      data,
		UpdatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&row).Error
}

func (r *SnapshotRepository) Delete(ctx context.Context, sessionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&ProposalSnapshot{}, "session_id = ?", sessionID).Error
}
