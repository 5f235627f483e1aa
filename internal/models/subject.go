package models

// SubjectKey identifies a subject inside its course. Subject IDs restart at 1
// for every course, so the pair is the only valid identity.
type SubjectKey struct {
	SubjectID int `bson:"subject_id" json:"subject_id"`
	CourseID  int `bson:"course_id" json:"course_id"`
}

// Subject represents a curriculum unit scoped to a course.
type Subject struct {
	SubjectID   int    `bson:"subject_id" json:"subject_id"`
	CourseID    int    `bson:"course_id" json:"course_id"`
	Period      int    `bson:"period" json:"period"`
	Name        string `bson:"name" json:"name"`
	CreditHours int    `bson:"credit_hours" json:"credit_hours"`
}

// Key returns the composite identity of the subject.
func (s Subject) Key() SubjectKey {
	return SubjectKey{SubjectID: s.SubjectID, CourseID: s.CourseID}
}

// SubjectView is a subject joined with its course display name.
type SubjectView struct {
	Subject    `bson:",inline"`
	CourseName string `bson:"course_name,omitempty" json:"course_name,omitempty"`
}
