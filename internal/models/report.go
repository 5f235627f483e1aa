package models

// EntityTotals carries the per-collection document counts for the dashboard.
type EntityTotals struct {
	Courses     int64 `json:"courses"`
	Students    int64 `json:"students"`
	Professors  int64 `json:"professors"`
	Subjects    int64 `json:"subjects"`
	Offers      int64 `json:"offers"`
	Enrollments int64 `json:"enrollments"`
}

// RecentPerson is a student or professor surfaced on the dashboard, ordered
// by birth date.
type RecentPerson struct {
	Type      string `json:"type"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
}

// DashboardReport is the aggregate dashboard payload.
type DashboardReport struct {
	Totals EntityTotals   `json:"totals"`
	Recent []RecentPerson `json:"recent_people"`
}

// CourseStats holds per-course aggregation results.
type CourseStats struct {
	CourseID            int     `bson:"course_id" json:"course_id"`
	CourseName          string  `bson:"course_name" json:"course_name"`
	CourseCreditHours   float64 `bson:"course_credit_hours" json:"course_credit_hours"`
	TotalStudents       int     `bson:"total_students" json:"total_students"`
	TotalSubjects       int     `bson:"total_subjects" json:"total_subjects"`
	SubjectCreditHours  int     `bson:"subject_credit_hours" json:"subject_credit_hours"`
	TotalOffers         int     `bson:"total_offers" json:"total_offers"`
	OffersCurrentYear   int     `bson:"offers_current_year" json:"offers_current_year"`
	ActiveEnrollments   int     `json:"active_enrollments"`
	StudentShare        float64 `json:"student_share_percent"`
	OfferShare          float64 `json:"offer_share_percent"`
	AvgStudentsPerOffer float64 `json:"avg_students_per_offer"`

	OfferIDs []int `bson:"offer_ids" json:"-"`
}

// CourseStatisticsReport combines per-course stats with system totals.
type CourseStatisticsReport struct {
	Summary CourseStatisticsSummary `json:"summary"`
	Courses []CourseStats           `json:"courses"`
}

// CourseStatisticsSummary holds the system-wide totals behind the
// per-course percentages.
type CourseStatisticsSummary struct {
	TotalCourses     int `json:"total_courses"`
	TotalStudents    int `json:"total_students"`
	TotalSubjects    int `json:"total_subjects"`
	TotalOffers      int `json:"total_offers"`
	TotalEnrollments int `json:"total_enrollments"`
}

// OfferReportRow is a denormalized offer with its enrollment count.
type OfferReportRow struct {
	OfferID           int     `bson:"offer_id" json:"offer_id"`
	Year              int     `bson:"year" json:"year"`
	Semester          int     `bson:"semester" json:"semester"`
	CourseName        string  `bson:"course_name" json:"course_name"`
	CourseCreditHours float64 `bson:"course_credit_hours" json:"course_credit_hours"`
	SubjectName       string  `bson:"subject_name" json:"subject_name"`
	SubjectPeriod     int     `bson:"subject_period" json:"subject_period"`
	SubjectHours      int     `bson:"subject_hours" json:"subject_hours"`
	ProfessorName     string  `bson:"professor_name" json:"professor_name"`
	ProfessorEmail    string  `bson:"professor_email" json:"professor_email"`
	ProfessorStatus   string  `bson:"professor_status" json:"professor_status"`
	EnrollmentCount   int     `bson:"enrollment_count" json:"enrollment_count"`
}

// OffersReport combines offer rows with system totals.
type OffersReport struct {
	Summary OffersReportSummary `json:"summary"`
	Offers  []OfferReportRow    `json:"offers"`
}

// OffersReportSummary aggregates across all offer rows.
type OffersReportSummary struct {
	TotalOffers         int     `json:"total_offers"`
	TotalEnrollments    int     `json:"total_enrollments"`
	DistinctProfessors  int     `json:"distinct_professors"`
	DistinctCourses     int     `json:"distinct_courses"`
	AvgStudentsPerOffer float64 `json:"avg_students_per_offer"`
}
