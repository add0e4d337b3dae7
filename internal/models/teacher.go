package models

// Teacher is a schedulable staff member.
type Teacher struct {
	ID       string `db:"id" json:"id" yaml:"id"`
	FullName string `db:"full_name" json:"full_name" yaml:"name"`
	Active   bool   `db:"active" json:"active" yaml:"-"`
}
