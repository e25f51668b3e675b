package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OwnedBy restricts a query to rows of the current model owned by userID.
// Rows of other users behave exactly like missing rows.
func OwnedBy(userID uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: "user_id"},
			Value:  userID,
		})
	}
}
