package models

// Enrollment links a student to an offer of their course. The collection is a
// materialized join: rows exist only between full rebuilds and carry the
// student's course status captured at rebuild time.
type Enrollment struct {
	StudentID int    `bson:"student_id" json:"matricula"`
	OfferID   int    `bson:"offer_id" json:"offer_id"`
	Status    string `bson:"status" json:"status"`
}

// EnrollmentView is an enrollment joined across student, offer, subject,
// course and professor collections.
type EnrollmentView struct {
	StudentID     int    `bson:"student_id" json:"matricula"`
	OfferID       int    `bson:"offer_id" json:"offer_id"`
	Status        string `bson:"status" json:"status"`
	StudentName   string `bson:"student_name,omitempty" json:"student_name,omitempty"`
	SubjectName   string `bson:"subject_name,omitempty" json:"subject_name,omitempty"`
	CourseName    string `bson:"course_name,omitempty" json:"course_name,omitempty"`
	ProfessorName string `bson:"professor_name,omitempty" json:"professor_name,omitempty"`
	Year          int    `bson:"year" json:"year"`
	Semester      int    `bson:"semester" json:"semester"`
}
