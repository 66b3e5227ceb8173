package handlers

import (
	"GlobalDent/models"
	"GlobalDent/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ProcedureHandler struct {
	service *services.ProcedureService
}

func NewProcedureHandler(service *services.ProcedureService) *ProcedureHandler {
	return &ProcedureHandler{service: service}
}

func (h *ProcedureHandler) CreateProcedure(c *gin.Context) {
	var procedure models.Procedure
	if !bindJSON(c, &procedure) {
		return
	}
	created, err := h.service.Create(c.Request.Context(), &procedure)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ProcedureHandler) GetProcedureByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	procedure, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, procedure)
}

func (h *ProcedureHandler) GetAllProcedures(c *gin.Context) {
	procedures, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, procedures)
}

func (h *ProcedureHandler) UpdateProcedure(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var procedure models.Procedure
	if !bindJSON(c, &procedure) {
		return
	}
	updated, err := h.service.Update(c.Request.Context(), id, &procedure)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ProcedureHandler) DeleteProcedure(c *gin.Context) {
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
