package models

// Holiday is a named calendar date on which no attendance is expected.
type Holiday struct {
	Date string `db:"date" json:"date"`
	Name string `db:"name" json:"name"`
}
