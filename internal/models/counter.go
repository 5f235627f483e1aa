package models

// Counter names for sequential entity identifiers.
const (
	CounterCourse    = "course_id"
	CounterProfessor = "professor_id"
	CounterOffer     = "offer_id"
)

// Counter is a persisted next-id generator. Seq is only ever moved by an
// atomic increment-and-return so concurrent creates never share an ID.
type Counter struct {
	Name string `bson:"_id"`
	Seq  int    `bson:"seq"`
}
