package domain

const (
	FieldName      = "Name"
	FieldResumeURL = "ResumeUrl"
)

// VolunteerForm holds the submitted volunteer form fields.
type VolunteerForm struct {
	Name          string `json:"name"`
	ContactNumber string `json:"contactNumber"`
	DateOfBirth   string `json:"dateOfBirth"`
	Email         string `json:"email" validate:"omitempty,email"`
	Notes         string `json:"notes"`
	Occupation    string `json:"occupation"`
}

// VolunteerApplication is a stored volunteer record.
type VolunteerApplication struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContactNumber string `json:"contactNumber"`
	DateOfBirth   string `json:"dateOfBirth"`
	Email         string `json:"email"`
	Notes         string `json:"notes"`
	Occupation    string `json:"occupation"`
	ResumeURL     string `json:"resumeUrl"`
	Status        string `json:"status"`
}

func NewVolunteerFields(f VolunteerForm, resumeURL string) map[string]any {
	return map[string]any{
		FieldName:          f.Name,
		FieldContactNumber: f.ContactNumber,
		FieldDateOfBirth:   f.DateOfBirth,
		FieldEmail:         f.Email,
		FieldNotes:         f.Notes,
		FieldOccupation:    f.Occupation,
		FieldResumeURL:     resumeURL,
		FieldStatus:        StatusPending,
	}
}

func VolunteerFromDocument(d Document) (*VolunteerApplication, error) {
	if d.Fields == nil {
		return nil, errNoData
	}
	return &VolunteerApplication{
		ID:            d.ID,
		Name:          d.String(FieldName, ""),
		ContactNumber: d.String(FieldContactNumber, ""),
		DateOfBirth:   d.Date(FieldDateOfBirth),
		Email:         d.String(FieldEmail, ""),
		Notes:         d.String(FieldNotes, ""),
		Occupation:    d.String(FieldOccupation, ""),
		ResumeURL:     d.String(FieldResumeURL, ""),
		Status:        d.String(FieldStatus, StatusPending),
	}, nil
}
