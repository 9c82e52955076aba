package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"github.com/inferentia-labs/meeting-knowledge/internal/domain/entities"
	repo "github.com/inferentia-labs/meeting-knowledge/internal/domain/repositories"
)

type knowledgeRepository struct {
	db *gorm.DB
}

// NewKnowledgeRepository creates a postgres-backed knowledge base
// repository using GORM.
func NewKnowledgeRepository(db *gorm.DB) repo.KnowledgeRepository {
	return &knowledgeRepository{db: db}
}

// Load returns the team's records ordered ascending by date. created_at
// breaks ties so same-date records keep insertion order. An unknown team
// yields an empty base, not an error.
func (r *knowledgeRepository) Load(ctx context.Context, team string) (entities.KnowledgeBase, error) {
	var records []entities.MeetingRecord
	err := r.db.WithContext(ctx).
		Where("team = ?", team).
		Order("date asc, created_at asc").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("loading knowledge base for %s: %w", team, err)
	}

	for i := range records {
		if err := unmarshalRecord(&records[i]); err != nil {
			return nil, fmt.Errorf("decoding record %s: %w", records[i].ID, err)
		}
	}
	return records, nil
}

// Save replaces the team's stored sequence inside one transaction, so a
// failed write leaves the previous sequence untouched.
func (r *knowledgeRepository) Save(ctx context.Context, team string, kb entities.KnowledgeBase) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team = ?", team).Delete(&entities.MeetingRecord{}).Error; err != nil {
			return fmt.Errorf("clearing knowledge base for %s: %w", team, err)
		}

		for i := range kb {
			if err := marshalRecord(&kb[i]); err != nil {
				return fmt.Errorf("encoding record %s: %w", kb[i].ID, err)
			}
			if err := tx.Create(&kb[i]).Error; err != nil {
				return fmt.Errorf("inserting record %s: %w", kb[i].ID, err)
			}
		}
		return nil
	})
}

func marshalRecord(rec *entities.MeetingRecord) error {
	items, err := json.Marshal(rec.ActionItems)
	if err != nil {
		return err
	}
	decisions, err := json.Marshal(rec.Decisions)
	if err != nil {
		return err
	}
	rec.ActionItemsJSON = items
	rec.DecisionsJSON = decisions
	return nil
}

func unmarshalRecord(rec *entities.MeetingRecord) error {
	rec.ActionItems = make([]entities.ActionItem, 0)
	rec.Decisions = make([]entities.Decision, 0)
	if len(rec.ActionItemsJSON) > 0 {
		if err := json.Unmarshal(rec.ActionItemsJSON, &rec.ActionItems); err != nil {
			return err
		}
	}
	if len(rec.DecisionsJSON) > 0 {
		if err := json.Unmarshal(rec.DecisionsJSON, &rec.Decisions); err != nil {
			return err
		}
	}
	return nil
}
