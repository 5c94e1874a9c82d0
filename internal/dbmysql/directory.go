package dbmysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/PlayraLive/h-ai-sub006/internal/common"
)

// Directory reads the marketplace tables owned by other services.
// It implements common.UserDirectory, common.EntityDirectory and common.OrderDirectory.
type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

func (d *Directory) UserExists(ctx context.Context, userID string) (bool, error) {
	return d.exists(ctx, "users", userID)
}

func (d *Directory) EntityExists(ctx context.Context, kind common.ContextKind, entityID string) (bool, error) {
	switch kind {
	case common.ContextJob:
		return d.exists(ctx, "jobs", entityID)
	case common.ContextProject:
		return d.exists(ctx, "projects", entityID)
	case common.ContextAIOrder:
		return d.exists(ctx, "ai_orders", entityID)
	}
	return false, fmt.Errorf("no entity table for context %q", kind)
}

func (d *Directory) SpecialistFor(ctx context.Context, orderID string) (string, error) {
	var row struct {
		SpecialistID string
	}
	err := d.db.WithContext(ctx).
		Table("ai_orders").
		Select("specialist_id").
		Where("id = ?", orderID).
		Take(&row).Error
	if err != nil {
		return "", TranslateError("directory.SpecialistFor", "ai order "+orderID, err)
	}
	if row.SpecialistID == "" {
		return "", errors.New("ai order has no specialist assigned")
	}
	return row.SpecialistID, nil
}

func (d *Directory) exists(ctx context.Context, table, id string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Table(table).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, TranslateError("directory.exists", table, err)
	}
	return count > 0, nil
}
