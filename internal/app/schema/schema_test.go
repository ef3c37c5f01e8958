package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFacultyInput() map[string]any {
	return map[string]any{
		"name":          "  Dr. Ayesha Rahman ",
		"designation":   "Professor",
		"department":    "Computer Technology",
		"education":     "PhD in Computer Science",
		"email":         "ayesha.rahman@example.edu",
		"phone":         "+880-1711-000000",
		"image_url":     "https://cdn.example.edu/faculty/ayesha.jpg",
		"display_order": float64(2),
	}
}

func validRoutineInput() map[string]any {
	return map[string]any{
		"semester":      "3rd Semester",
		"day":           "Saturday",
		"time":          "09:00 - 10:30",
		"subject":       "Data Structures",
		"teacher":       "Dr. Ayesha Rahman",
		"room":          "Lab 2",
		"display_order": 1,
	}
}

func validNoticeInput() map[string]any {
	return map[string]any{
		"title":    "Mid-term examination schedule",
		"content":  "The mid-term examinations start on 10 March.",
		"category": "Examination",
		"priority": "high",
		"date":     "2025-03-01",
	}
}

func TestValidateAcceptsWellFormedRecords(t *testing.T) {
	cases := []struct {
		kind  Kind
		input map[string]any
	}{
		{KindFaculty, validFacultyInput()},
		{KindRoutine, validRoutineInput()},
		{KindNotice, validNoticeInput()},
	}

	for _, tc := range cases {
		rec, err := Validate(tc.kind, tc.input)
		require.NoError(t, err, "kind %s", tc.kind)

		// Output carries exactly the declared fields, trimmed.
		assert.Len(t, rec, len(Fields(tc.kind)))
		for _, rule := range Fields(tc.kind) {
			assert.Contains(t, rec, rule.Name)
		}
	}
}

func TestValidateTrimsStrings(t *testing.T) {
	rec, err := Validate(KindFaculty, validFacultyInput())
	require.NoError(t, err)
	assert.Equal(t, "Dr. Ayesha Rahman", rec["name"])
}

func TestValidateDefaultsOptionalFields(t *testing.T) {
	input := validFacultyInput()
	delete(input, "image_url")
	delete(input, "display_order")

	rec, err := Validate(KindFaculty, input)
	require.NoError(t, err)
	assert.Equal(t, "", rec["image_url"])
	assert.Equal(t, 0, rec["display_order"])
}

func TestValidateNamesMissingRequiredField(t *testing.T) {
	cases := []struct {
		kind  Kind
		input func() map[string]any
	}{
		{KindFaculty, validFacultyInput},
		{KindRoutine, validRoutineInput},
		{KindNotice, validNoticeInput},
	}

	for _, tc := range cases {
		for _, rule := range Fields(tc.kind) {
			if !rule.Required {
				continue
			}
			input := tc.input()
			delete(input, rule.Name)

			_, err := Validate(tc.kind, input)
			require.Error(t, err, "kind %s field %s", tc.kind, rule.Name)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, rule.Name, verr.Field)
		}
	}
}

func TestValidateReportsFirstDeclaredFailure(t *testing.T) {
	input := validFacultyInput()
	input["name"] = "   "
	input["email"] = "not-an-email"

	_, err := Validate(KindFaculty, input)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
}

func TestValidateRejectsValuesOutsideClosedSets(t *testing.T) {
	input := validNoticeInput()
	input["category"] = "Sports"
	_, err := Validate(KindNotice, input)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "category", verr.Field)

	input = validNoticeInput()
	input["category"] = "Academic"
	_, err = Validate(KindNotice, input)
	assert.NoError(t, err)

	// Membership is case-sensitive.
	input = validNoticeInput()
	input["priority"] = "High"
	_, err = Validate(KindNotice, input)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "priority", verr.Field)

	input = validRoutineInput()
	input["day"] = "Friday"
	_, err = Validate(KindRoutine, input)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "day", verr.Field)
}

func TestValidateDateIsSyntaxOnly(t *testing.T) {
	input := validNoticeInput()
	input["date"] = "01-03-2025"
	_, err := Validate(KindNotice, input)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "date", verr.Field)

	// The check is a digit pattern, not a calendar: month 13 passes. The
	// store's date column is the semantic backstop.
	input = validNoticeInput()
	input["date"] = "2025-13-01"
	_, err = Validate(KindNotice, input)
	assert.NoError(t, err)
}

func TestValidateLengthBounds(t *testing.T) {
	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}

	input := validFacultyInput()
	input["name"] = string(long)
	_, err := Validate(KindFaculty, input)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)
	assert.Contains(t, verr.Message, "too long")
}

func TestValidateDisplayOrderCoercion(t *testing.T) {
	input := validRoutineInput()
	input["display_order"] = float64(7)
	rec, err := Validate(KindRoutine, input)
	require.NoError(t, err)
	assert.Equal(t, 7, rec["display_order"])

	input["display_order"] = 2.5
	_, err = Validate(KindRoutine, input)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "display_order", verr.Field)
}

func TestValidateRejectsNonTextValues(t *testing.T) {
	input := validNoticeInput()
	input["title"] = 42
	_, err := Validate(KindNotice, input)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)
}

func TestValidateUnknownKind(t *testing.T) {
	_, err := Validate(Kind("gallery"), map[string]any{})
	require.Error(t, err)
	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))
}
