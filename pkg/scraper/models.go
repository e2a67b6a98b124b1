package scraper

// SubjectKind tells groups and teachers apart
type SubjectKind string

const (
	KindGroup   SubjectKind = "group"
	KindTeacher SubjectKind = "teacher"
)

// Subject represents a study group or a teacher listed on the timetable site
type Subject struct {
	Name string
	Kind SubjectKind
	ID   string // Value passed to the schedule page, usually the name itself
}
