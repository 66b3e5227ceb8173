package handlers

import (
	"GlobalDent/models"
	"GlobalDent/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	service      *services.PatientService
	provisioning *services.ProvisioningService
}

func NewPatientHandler(service *services.PatientService, provisioning *services.ProvisioningService) *PatientHandler {
	return &PatientHandler{service: service, provisioning: provisioning}
}

// CreatePatient registers a patient; an optional "history" object seeds the clinical history.
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var patient models.Patient
	if !bindJSON(c, &patient) {
		return
	}
	history := patient.History
	patient.History = nil

	created, err := h.service.CreateWithHistory(c.Request.Context(), &patient, history)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	id, ok := parseID(c, "patient_id")
	if !ok {
		return
	}
	patient, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, patient)
}

func (h *PatientHandler) GetAllPatients(c *gin.Context) {
	patients, err := h.service.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, patients)
}

func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	id, ok := parseID(c, "patient_id")
	if !ok {
		return
	}
	var patient models.Patient
	if !bindJSON(c, &patient) {
		return
	}
	patient.History = nil

	updated, err := h.service.Update(c.Request.Context(), id, &patient)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *PatientHandler) UpdateHistory(c *gin.Context) {
	id, ok := parseID(c, "patient_id")
	if !ok {
		return
	}
	var history models.ClinicalHistory
	if !bindJSON(c, &history) {
		return
	}

	updated, err := h.service.UpdateHistory(c.Request.Context(), id, &history)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ProvisionHistory repairs a patient's history and odontogram on demand.
func (h *PatientHandler) ProvisionHistory(c *gin.Context) {
	id, ok := parseID(c, "patient_id")
	if !ok {
		return
	}
	history, err := h.provisioning.EnsureHistoryAndTeeth(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *PatientHandler) GetTeeth(c *gin.Context) {
	id, ok := parseID(c, "patient_id")
	if !ok {
		return
	}
	teeth, err := h.service.Teeth(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, teeth)
}

func (h *PatientHandler) DeletePatient(c *gin.Context) {
	id, ok := parseID(c, "patient_id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
