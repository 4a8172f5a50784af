package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/shared"
	"github.com/tradedesk/backend/internal/domain/trade"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxNumberProbes bounds the uniqueness probing of generated document numbers
const maxNumberProbes = 100

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// applyPaging applies ordering and pagination from a normalized filter
func applyPaging(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	filter = filter.Normalize()
	sortField := ValidateSortField(filter.OrderBy, allowed, "created_at")
	return query.
		Order(sortField + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize)
}

// applySearch matches the lower-cased term against the given columns.
// LOWER/LIKE is used instead of ILIKE so the same query runs on sqlite.
func applySearch(query *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return query
	}
	pattern := "%" + strings.ToLower(term) + "%"
	clauses := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = pattern
	}
	return query.Where(strings.Join(clauses, " OR "), args...)
}

// boolFilter reads a boolean filter value that may arrive as a bool or a query string
func boolFilter(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(v) {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no":
			return false, true
		}
	}
	return false, false
}

// nextDocumentNumber returns the next PREFIX-YYYY-NNNNN number for a tenant,
// taking the highest existing number of the current year and probing
// forward until an unused one is found.
func nextDocumentNumber(ctx context.Context, db *gorm.DB, model any, column string, tenantID uuid.UUID, prefix string) (string, error) {
	year := time.Now().Year()
	yearPrefix := trade.DocumentNumberPrefix(prefix, year)

	var numbers []string
	if err := db.WithContext(ctx).
		Model(model).
		Where("tenant_id = ? AND "+column+" LIKE ?", tenantID, yearPrefix+"%").
		Order(column+" DESC").
		Limit(1).
		Pluck(column, &numbers).Error; err != nil {
		return "", err
	}
	var next int64 = 1
	if len(numbers) > 0 {
		if seq, ok := trade.ParseDocumentSequence(numbers[0]); ok {
			next = seq + 1
		}
	}

	for i := 0; i < maxNumberProbes; i++ {
		candidate := trade.FormatDocumentNumber(prefix, year, next)
		var count int64
		if err := db.WithContext(ctx).
			Model(model).
			Where("tenant_id = ? AND "+column+" = ?", tenantID, candidate).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		next++
	}
	return "", shared.NewDomainError("NUMBER_EXHAUSTED", "Could not allocate a unique document number")
}

// saveVersioned inserts the row of a never-stored aggregate, or updates it
// only while the stored row still carries the expected version. A stale
// write affects no row and reports ErrConcurrencyConflict.
func saveVersioned(tx *gorm.DB, model any, expected int) error {
	if expected == 0 {
		return tx.Omit(clause.Associations).Create(model).Error
	}
	result := tx.Model(model).
		Select("*").
		Omit(clause.Associations).
		Where("version = ?", expected).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// replaceChildren deletes a parent's child rows and inserts the given ones
func replaceChildren[T any](tx *gorm.DB, foreignKey string, parentID uuid.UUID, rows []T) error {
	var zero T
	if err := tx.Where(foreignKey+" = ?", parentID).Delete(&zero).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}
