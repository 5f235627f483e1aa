package models

import "time"

// Student represents an enrolled student. Matricula is the enrollment number
// derived from year, course and a per-course sequence: YYYYCCNN.
type Student struct {
	Matricula    int        `bson:"matricula" json:"matricula"`
	CPF          string     `bson:"cpf" json:"cpf"`
	Name         string     `bson:"name" json:"name"`
	BirthDate    *time.Time `bson:"birth_date,omitempty" json:"birth_date,omitempty"`
	Phone        string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Email        string     `bson:"email" json:"email"`
	Period       int        `bson:"period" json:"period"`
	CourseID     int        `bson:"course_id" json:"course_id"`
	CourseStatus string     `bson:"course_status" json:"course_status"`
}

// MatriculaFor composes an enrollment number from its three parts. The
// course ID and sequence each occupy two decimal digits.
func MatriculaFor(year, courseID, seq int) int {
	return year*10000 + courseID*100 + seq
}
