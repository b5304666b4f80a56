package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentString_MissingUsesDefault(t *testing.T) {
	d := Document{ID: "d1", Fields: map[string]any{}}
	assert.Equal(t, "fallback", d.String("Name", "fallback"))
}

func TestDocumentString_WrongTypeUsesDefault(t *testing.T) {
	d := Document{ID: "d1", Fields: map[string]any{"Name": 42}}
	assert.Equal(t, "", d.String("Name", ""))
}

func TestDocumentDate_TimestampFormatted(t *testing.T) {
	ts := time.Date(1990, time.March, 4, 15, 0, 0, 0, time.UTC)
	d := Document{Fields: map[string]any{"DateOfBirth": ts}}
	assert.Equal(t, "1990-03-04", d.Date("DateOfBirth"))
}

func TestDocumentDate_StringPassthrough(t *testing.T) {
	d := Document{Fields: map[string]any{"DateOfBirth": "04/03/1990"}}
	assert.Equal(t, "04/03/1990", d.Date("DateOfBirth"))
}

func TestDocumentDate_OtherTypesEmpty(t *testing.T) {
	d := Document{Fields: map[string]any{"DateOfBirth": 19900304}}
	assert.Equal(t, "", d.Date("DateOfBirth"))
	assert.Equal(t, "", d.Date("Missing"))
}

func TestDocumentTime_AcceptsRFC3339String(t *testing.T) {
	d := Document{Fields: map[string]any{"CreatedAt": "2024-05-01T10:00:00Z"}}
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), d.Time("CreatedAt"))
}

func TestDocumentBool(t *testing.T) {
	d := Document{Fields: map[string]any{"IsRead": true, "Bad": "yes"}}
	assert.True(t, d.Bool("IsRead", false))
	assert.False(t, d.Bool("Bad", false))
}

func TestApplicationFromDocument_Defaults(t *testing.T) {
	a, err := ApplicationFromDocument(Document{ID: "a1", Fields: map[string]any{}})
	require.NoError(t, err)
	assert.Equal(t, &Application{ID: "a1", Status: StatusPending}, a)
}

func TestApplicationFromDocument_NoData(t *testing.T) {
	_, err := ApplicationFromDocument(Document{ID: "a1"})
	assert.Error(t, err)
}

func TestNewApplicationFields_StatusPending(t *testing.T) {
	fields := NewApplicationFields(ApplicationForm{Email: "a@b.com"}, "", "")
	assert.Equal(t, StatusPending, fields[FieldStatus])
	assert.Equal(t, "", fields[FieldMedicalReportURL])
	assert.Equal(t, "a@b.com", fields[FieldEmail])
}

func TestNotificationFields_UnreadWithServerTimestamp(t *testing.T) {
	fields := NewNotificationFields(NotificationInput{UserID: "u@x.com", Title: "t"})
	assert.Equal(t, false, fields[FieldIsRead])
	assert.Equal(t, ServerTimestamp, fields[FieldCreatedAt])
}

func TestParseBlobURL(t *testing.T) {
	bucket, object, err := ParseBlobURL("https://storage.googleapis.com/squad.appspot.com/resumes/abc_cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, "squad.appspot.com", bucket)
	assert.Equal(t, "resumes/abc_cv.pdf", object)

	_, _, err = ParseBlobURL("https://storage.googleapis.com/bucket-only")
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestKindCollection(t *testing.T) {
	assert.Equal(t, CollectionApplications, KindApplicant.Collection())
	assert.Equal(t, CollectionVolunteerApplications, KindVolunteer.Collection())
}
