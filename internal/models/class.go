package models

// Class is a course section meeting Frequency times a week for Length consecutive periods.
type Class struct {
	ID          string                  `db:"id" json:"id" yaml:"id"`
	TimetableID string                  `db:"timetable_id" json:"timetable_id" yaml:"-"`
	CourseID    string                  `db:"course_id" json:"course_id" yaml:"courseId"`
	TeacherID   *string                 `db:"teacher_id" json:"teacher_id,omitempty" yaml:"teacherId"`
	Frequency   int                     `db:"frequency" json:"frequency" yaml:"frequency"`
	Length      int                     `db:"length" json:"length" yaml:"length"`
	Preferences []ClassPeriodPreference `db:"-" json:"preferences" yaml:"preferences"`
}

// DisplayName labels the class in logs and exports.
func (c Class) DisplayName() string {
	if c.CourseID != "" {
		return c.CourseID + "/" + c.ID
	}
	return c.ID
}

// ClassPeriodPreference marks a day and starting period the class would like to meet at.
type ClassPeriodPreference struct {
	ID       string `db:"id" json:"id" yaml:"-"`
	ClassID  string `db:"class_id" json:"class_id" yaml:"-"`
	DayID    string `db:"day_id" json:"day_id" yaml:"dayId"`
	PeriodID string `db:"period_id" json:"period_id" yaml:"periodId"`
}
