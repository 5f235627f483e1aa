package models

// Course represents a degree program offered by the institution.
type Course struct {
	ID               int     `bson:"id" json:"id"`
	Name             string  `bson:"name" json:"name"`
	TotalCreditHours float64 `bson:"total_credit_hours" json:"total_credit_hours"`
}
