package domain

import "errors"

// Workflow statuses. Callers may store other values; these are the ones this service writes.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// Stored field names shared by applicant and volunteer records.
const (
	FieldContactNumber = "ContactNumber"
	FieldDateOfBirth   = "DateOfBirth"
	FieldEmail         = "Email"
	FieldNotes         = "Notes"
	FieldOccupation    = "Occupation"
	FieldStatus        = "Status"
)

// Applicant-only field names.
const (
	FieldCaregiverName    = "CaregiverName"
	FieldDisabilityType   = "DisabilityType"
	FieldFamilyMemberName = "FamilyMemberName"
	FieldMedicalReportURL = "MedicalReportUrl"
	FieldIDDocumentURL    = "IdDocumentUrl"
)

var errNoData = errors.New("document has no data")

// Kind selects between the two submission collections.
type Kind string

const (
	KindApplicant Kind = "applicant"
	KindVolunteer Kind = "volunteer"
)

// Collection returns the document collection holding records of this kind.
func (k Kind) Collection() string {
	if k == KindVolunteer {
		return CollectionVolunteerApplications
	}
	return CollectionApplications
}

// ApplicationForm holds the submitted applicant form fields.
type ApplicationForm struct {
	CaregiverName    string `json:"caregiverName"`
	ContactNumber    string `json:"contactNumber"`
	DisabilityType   string `json:"disabilityType"`
	Email            string `json:"email" validate:"omitempty,email"`
	FamilyMemberName string `json:"familyMemberName"`
	DateOfBirth      string `json:"dateOfBirth"`
	Notes            string `json:"notes"`
	Occupation       string `json:"occupation"`
}

// Application is a stored applicant record.
type Application struct {
	ID               string `json:"id"`
	CaregiverName    string `json:"caregiverName"`
	ContactNumber    string `json:"contactNumber"`
	DisabilityType   string `json:"disabilityType"`
	Email            string `json:"email"`
	FamilyMemberName string `json:"familyMemberName"`
	DateOfBirth      string `json:"dateOfBirth"`
	Notes            string `json:"notes"`
	Occupation       string `json:"occupation"`
	MedicalReportURL string `json:"medicalReportUrl"`
	IDDocumentURL    string `json:"idDocumentUrl"`
	Status           string `json:"status"`
}

// NewApplicationFields builds the stored field map for a fresh submission.
func NewApplicationFields(f ApplicationForm, medicalReportURL, idDocumentURL string) map[string]any {
	return map[string]any{
		FieldCaregiverName:    f.CaregiverName,
		FieldContactNumber:    f.ContactNumber,
		FieldDisabilityType:   f.DisabilityType,
		FieldEmail:            f.Email,
		FieldFamilyMemberName: f.FamilyMemberName,
		FieldDateOfBirth:      f.DateOfBirth,
		FieldNotes:            f.Notes,
		FieldOccupation:       f.Occupation,
		FieldMedicalReportURL: medicalReportURL,
		FieldIDDocumentURL:    idDocumentURL,
		FieldStatus:           StatusPending,
	}
}

// ApplicationFromDocument maps a stored document, defaulting every missing field.
func ApplicationFromDocument(d Document) (*Application, error) {
	if d.Fields == nil {
		return nil, errNoData
	}
	return &Application{
		ID:               d.ID,
		CaregiverName:    d.String(FieldCaregiverName, ""),
		ContactNumber:    d.String(FieldContactNumber, ""),
		DisabilityType:   d.String(FieldDisabilityType, ""),
		Email:            d.String(FieldEmail, ""),
		FamilyMemberName: d.String(FieldFamilyMemberName, ""),
		DateOfBirth:      d.Date(FieldDateOfBirth),
		Notes:            d.String(FieldNotes, ""),
		Occupation:       d.String(FieldOccupation, ""),
		MedicalReportURL: d.String(FieldMedicalReportURL, ""),
		IDDocumentURL:    d.String(FieldIDDocumentURL, ""),
		Status:           d.String(FieldStatus, StatusPending),
	}, nil
}
