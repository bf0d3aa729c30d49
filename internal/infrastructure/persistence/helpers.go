package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/simpro/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// listOrder keeps records in the order they were written
const listOrder = "seq ASC, id ASC"

// nextSeq returns a sequence value for a single insert
func nextSeq() int64 {
	return time.Now().UnixNano()
}

// translateError maps gorm errors onto domain sentinels
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	default:
		return err
	}
}

// findOne loads a single account-owned row by id
func findOne[M any](ctx context.Context, db *gorm.DB, accountID uuid.UUID, id string) (*M, error) {
	var model M
	if err := db.WithContext(ctx).
		Scopes(ForAccount(accountID)).Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return &model, nil
}

// findAll loads every row of an account and converts it with toDomain
func findAll[M any, D any](ctx context.Context, db *gorm.DB, accountID uuid.UUID, toDomain func(*M) D) ([]D, error) {
	var rows []M
	if err := db.WithContext(ctx).
		Scopes(ForAccount(accountID)).
		Order(listOrder).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]D, len(rows))
	for i := range rows {
		out[i] = toDomain(&rows[i])
	}
	return out, nil
}

// deleteOne removes a single account-owned row, ErrNotFound when nothing matched
func deleteOne[M any](ctx context.Context, db *gorm.DB, accountID uuid.UUID, id string) error {
	result := db.WithContext(ctx).
		Scopes(ForAccount(accountID)).Where("id = ?", id).
		Delete(new(M))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
