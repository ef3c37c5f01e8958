package schema

// Closed sets for enumerated fields. Membership is case-sensitive.
var (
	Semesters = []string{
		"1st Semester", "2nd Semester", "3rd Semester", "4th Semester",
		"5th Semester", "6th Semester", "7th Semester", "8th Semester",
	}
	Days = []string{"Saturday", "Sunday", "Monday", "Tuesday", "Wednesday", "Thursday"}

	NoticeCategories = []string{"Academic", "Examination", "Event", "Facility", "Administrative"}
	NoticePriorities = []string{"high", "medium", "low"}
)

// rulesByKind declares the field rules per content kind. Declaration order
// decides which error is surfaced when several fields are invalid.
var rulesByKind = map[Kind][]FieldRule{
	KindFaculty: {
		{Name: "name", Label: "Name", Required: true, MaxLen: 200},
		{Name: "designation", Label: "Designation", Required: true, MaxLen: 200},
		{Name: "department", Label: "Department", Required: true, MaxLen: 200},
		{Name: "education", Label: "Education", Required: true, MaxLen: 500},
		{Name: "email", Label: "Email", Required: true, MaxLen: 255, Format: FormatEmail},
		{Name: "phone", Label: "Phone", Required: true, MaxLen: 50},
		{Name: "image_url", Label: "Image URL", MaxLen: 500, Format: FormatURL},
		{Name: "display_order", Label: "Display order", Integer: true},
	},
	KindRoutine: {
		{Name: "semester", Label: "Semester", Required: true, Enum: Semesters},
		{Name: "day", Label: "Day", Required: true, Enum: Days},
		{Name: "time", Label: "Time", Required: true, MaxLen: 100},
		{Name: "subject", Label: "Subject", Required: true, MaxLen: 200},
		{Name: "teacher", Label: "Teacher", Required: true, MaxLen: 200},
		{Name: "room", Label: "Room", Required: true, MaxLen: 100},
		{Name: "display_order", Label: "Display order", Integer: true},
	},
	KindNotice: {
		{Name: "title", Label: "Title", Required: true, MaxLen: 500},
		{Name: "content", Label: "Content", Required: true, MaxLen: 5000},
		{Name: "category", Label: "Category", Required: true, Enum: NoticeCategories},
		{Name: "priority", Label: "Priority", Required: true, Enum: NoticePriorities},
		{Name: "date", Label: "Date", Required: true, Format: FormatDate},
	},
}
