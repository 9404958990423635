package domain

// Topic is a tracked subject whose name drives upstream searches.
type Topic struct {
	ID     int64  `db:"id"`
	Name   string `db:"name"`
	Active bool   `db:"active"`
}
