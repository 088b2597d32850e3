package models

import "time"

// ReferenceTerm ist ein Eintrag einer Referenz-Termliste in PostgreSQL.
// Die Reihenfolge einer Liste ergibt sich aus Position.
type ReferenceTerm struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	List     string `json:"list" gorm:"index:idx_reference_terms_list_position,priority:1;not null"`
	Position int    `json:"position" gorm:"index:idx_reference_terms_list_position,priority:2;not null"`
	Term     string `json:"term" gorm:"not null;default:''"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (ReferenceTerm) TableName() string {
	return "reference_terms"
}
