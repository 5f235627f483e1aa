package models

// Offer represents a subject taught by a professor in a given term.
type Offer struct {
	ID          int `bson:"id" json:"id"`
	Year        int `bson:"year" json:"year"`
	Semester    int `bson:"semester" json:"semester"`
	SubjectID   int `bson:"subject_id" json:"subject_id"`
	CourseID    int `bson:"course_id" json:"course_id"`
	ProfessorID int `bson:"professor_id" json:"professor_id"`
}

// OfferView is an offer joined with related display names.
type OfferView struct {
	Offer         `bson:",inline"`
	SubjectName   string `bson:"subject_name,omitempty" json:"subject_name,omitempty"`
	CourseName    string `bson:"course_name,omitempty" json:"course_name,omitempty"`
	ProfessorName string `bson:"professor_name,omitempty" json:"professor_name,omitempty"`
}
