package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/intake-dal/internal/application/review"
	"github.com/intake-dal/internal/application/submission"
	"github.com/intake-dal/internal/domain"
	"github.com/intake-dal/internal/pkg/validate"
)

const maxUploadMemory = 32 << 20

// ApplicationHandler serves applicant and volunteer submissions and their review.
type ApplicationHandler struct {
	submit submission.Service
	review review.Service
}

func NewApplicationHandler(submit submission.Service, review review.Service) *ApplicationHandler {
	return &ApplicationHandler{submit: submit, review: review}
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	form := domain.ApplicationForm{
		CaregiverName:    r.FormValue("caregiverName"),
		ContactNumber:    r.FormValue("contactNumber"),
		DisabilityType:   r.FormValue("disabilityType"),
		Email:            r.FormValue("email"),
		FamilyMemberName: r.FormValue("familyMemberName"),
		DateOfBirth:      r.FormValue("dateOfBirth"),
		Notes:            r.FormValue("notes"),
		Occupation:       r.FormValue("occupation"),
	}
	if err := validate.Struct(form); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	medical, closeMedical, err := formAttachment(r, "medicalReport")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid medicalReport file")
		return
	}
	defer closeMedical()
	idDoc, closeID, err := formAttachment(r, "idDocument")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid idDocument file")
		return
	}
	defer closeID()

	if !h.submit.SubmitApplication(r.Context(), form, medical, idDoc) {
		writeError(w, http.StatusInternalServerError, "application could not be submitted")
		return
	}
	writeJSON(w, http.StatusCreated, MessageEnvelope{Message: "application submitted"})
}

func (h *ApplicationHandler) SubmitVolunteer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	form := domain.VolunteerForm{
		Name:          r.FormValue("name"),
		ContactNumber: r.FormValue("contactNumber"),
		DateOfBirth:   r.FormValue("dateOfBirth"),
		Email:         r.FormValue("email"),
		Notes:         r.FormValue("notes"),
		Occupation:    r.FormValue("occupation"),
	}
	if err := validate.Struct(form); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	resume, closeResume, err := formAttachment(r, "resume")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid resume file")
		return
	}
	defer closeResume()

	if !h.submit.SubmitVolunteer(r.Context(), form, resume) {
		writeError(w, http.StatusInternalServerError, "volunteer application could not be submitted")
		return
	}
	writeJSON(w, http.StatusCreated, MessageEnvelope{Message: "volunteer application submitted"})
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.review.ListApplications(r.Context()))
}

func (h *ApplicationHandler) ListVolunteers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.review.ListVolunteerApplications(r.Context()))
}

func (h *ApplicationHandler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	a := h.review.GetApplicationByEmail(r.Context(), email)
	if a == nil {
		writeError(w, http.StatusNotFound, "application not found")
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: a})
}

func (h *ApplicationHandler) GetVolunteer(w http.ResponseWriter, r *http.Request) {
	v := h.review.GetVolunteerApplication(r.Context(), chi.URLParam(r, "id"))
	if v == nil {
		writeError(w, http.StatusNotFound, "volunteer application not found")
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: v})
}

func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	h.updateStatus(w, r, domain.KindApplicant)
}

func (h *ApplicationHandler) UpdateVolunteerStatus(w http.ResponseWriter, r *http.Request) {
	h.updateStatus(w, r, domain.KindVolunteer)
}

func (h *ApplicationHandler) updateStatus(w http.ResponseWriter, r *http.Request, kind domain.Kind) {
	var body statusRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(body); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if !h.review.UpdateStatus(r.Context(), kind, chi.URLParam(r, "id"), body.Status) {
		writeError(w, http.StatusInternalServerError, "status could not be updated")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "status updated"})
}

// formAttachment returns the named file part, or nil when the field is absent.
// The returned func closes the part.
func formAttachment(r *http.Request, field string) (*submission.Attachment, func(), error) {
	f, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	return attachmentFrom(f, header), func() { _ = f.Close() }, nil
}

func attachmentFrom(f multipart.File, header *multipart.FileHeader) *submission.Attachment {
	return &submission.Attachment{
		Reader:      f,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}
}
