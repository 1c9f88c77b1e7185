package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sequence is a named monotonic counter backed by a table row. Callers
// increment it under a row lock, so drawn values are gap-free even with
// concurrent writers.
type Sequence struct {
	Name  string `gorm:"type:varchar(100);primaryKey"`
	Value int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Sequence) TableName() string {
	return "sequences"
}

// nextSequenceValue increments the named sequence and returns the new
// value. Must run inside a transaction; the row lock is held until commit.
func nextSequenceValue(tx *gorm.DB, name string) (int64, error) {
	var seq Sequence
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ?", name).
		First(&seq).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
		seq = Sequence{Name: name, Value: 0}
		if err := tx.Create(&seq).Error; err != nil {
			return 0, err
		}
	}

	seq.Value++
	if err := tx.Model(&Sequence{}).Where("name = ?", name).
		Update("value", seq.Value).Error; err != nil {
		return 0, err
	}

	return seq.Value, nil
}

// GormSaleNumberGenerator implements sales.NumberGenerator on top of the
// sequences table
type GormSaleNumberGenerator struct {
	db *gorm.DB
}

// NewGormSaleNumberGenerator creates a new GormSaleNumberGenerator
func NewGormSaleNumberGenerator(db *gorm.DB) *GormSaleNumberGenerator {
	return &GormSaleNumberGenerator{db: db}
}

// NextNumber draws the next sale number, zero padded to six digits
func (g *GormSaleNumberGenerator) NextNumber(ctx context.Context) (string, error) {
	var value int64
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		value, err = nextSequenceValue(tx, "sale_number")
		return err
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", value), nil
}
