package handlers

import (
	"GlobalDent/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ConsultationHandler struct {
	consultations   *services.ConsultationService
	toothProcedures *services.ToothProcedureService
	payments        *services.PaymentService
}

func NewConsultationHandler(
	consultations *services.ConsultationService,
	toothProcedures *services.ToothProcedureService,
	payments *services.PaymentService,
) *ConsultationHandler {
	return &ConsultationHandler{consultations: consultations, toothProcedures: toothProcedures, payments: payments}
}

func (h *ConsultationHandler) CreateConsultation(c *gin.Context) {
	patientID, ok := parseID(c, "patient_id")
	if !ok {
		return
	}
	var input services.CreateConsultationInput
	if !bindJSON(c, &input) {
		return
	}

	consultation, err := h.consultations.Create(c.Request.Context(), patientID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, consultation)
}

func (h *ConsultationHandler) GetConsultationByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	consultation, err := h.consultations.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, consultation)
}

func (h *ConsultationHandler) GetAllConsultations(c *gin.Context) {
	patientID, ok := optionalQueryID(c, "patient_id")
	if !ok {
		return
	}
	consultations, err := h.consultations.List(c.Request.Context(), patientID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, consultations)
}

func (h *ConsultationHandler) UpdateConsultation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input struct {
		Reason string `json:"reason"`
		Notes  string `json:"notes"`
	}
	if !bindJSON(c, &input) {
		return
	}

	consultation, err := h.consultations.Update(c.Request.Context(), id, input.Reason, input.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, consultation)
}

func (h *ConsultationHandler) GetBalance(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	summary, err := h.consultations.Balance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetTeeth returns the tooth selection list for the consultation's patient.
func (h *ConsultationHandler) GetTeeth(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	teeth, err := h.toothProcedures.TeethForConsultation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, teeth)
}

func (h *ConsultationHandler) ApplyProcedure(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.ApplyProcedureInput
	if !bindJSON(c, &input) {
		return
	}

	toothProcedure, err := h.toothProcedures.Apply(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toothProcedure)
}

func (h *ConsultationHandler) GetProcedures(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	toothProcedures, err := h.toothProcedures.ListByConsultation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toothProcedures)
}

func (h *ConsultationHandler) RemoveProcedure(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.toothProcedures.Remove(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ConsultationHandler) RecordPayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.RecordPaymentInput
	if !bindJSON(c, &input) {
		return
	}

	payment, err := h.payments.Record(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (h *ConsultationHandler) GetPayments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	payments, err := h.payments.List(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *ConsultationHandler) DeletePayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.payments.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
