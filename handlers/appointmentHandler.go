package handlers

import (
	"GlobalDent/models"
	"GlobalDent/repositories"
	"GlobalDent/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AppointmentHandler struct {
	service *services.AppointmentService
}

func NewAppointmentHandler(service *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var input services.AppointmentInput
	if !bindJSON(c, &input) {
		return
	}
	appointment, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appointment)
}

func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	appointment, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

// GetAllAppointments lists the calendar, filtered by ?from=&to=&status=&user_id=&patient_id=.
func (h *AppointmentHandler) GetAllAppointments(c *gin.Context) {
	userID, ok := optionalQueryID(c, "user_id")
	if !ok {
		return
	}
	patientID, ok := optionalQueryID(c, "patient_id")
	if !ok {
		return
	}
	filter := repositories.AppointmentFilter{
		From:      c.Query("from"),
		To:        c.Query("to"),
		Status:    models.AppointmentStatus(c.Query("status")),
		UserID:    userID,
		PatientID: patientID,
	}

	appointments, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input services.AppointmentInput
	if !bindJSON(c, &input) {
		return
	}
	appointment, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appointment)
}

func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
