package models

import "time"

// Professor represents a teaching staff record.
type Professor struct {
	ID        int        `bson:"id" json:"id"`
	CPF       string     `bson:"cpf" json:"cpf"`
	Name      string     `bson:"name" json:"name"`
	BirthDate *time.Time `bson:"birth_date,omitempty" json:"birth_date,omitempty"`
	Phone     string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Email     string     `bson:"email" json:"email"`
	Status    string     `bson:"status" json:"status"`
}
