package patient

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/guhospital/hms-api/internal/handler"
	"github.com/guhospital/hms-api/internal/model"
	"github.com/guhospital/hms-api/internal/service/patient"
)

type Handler struct {
	service *patient.Service
}

func NewHandler(service *patient.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetInfo(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid patient ID")
		return
	}

	info, err := h.service.Get(c.Request.Context(), handler.ActorFromContext(c), patientID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondOK(c, info)
}

func (h *Handler) CreateInfo(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid patient ID")
		return
	}

	var req model.PatientInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBadRequest(c, err.Error())
		return
	}

	info, err := h.service.Create(c.Request.Context(), handler.ActorFromContext(c), patientID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondCreated(c, info)
}

func (h *Handler) UpdateInfo(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid patient ID")
		return
	}

	var req model.PatientInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBadRequest(c, err.Error())
		return
	}

	info, err := h.service.Update(c.Request.Context(), handler.ActorFromContext(c), patientID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondOK(c, info)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients/:id")
	{
		patients.GET("/info", h.GetInfo)
		patients.POST("/info", h.CreateInfo)
		patients.PUT("/info", h.UpdateInfo)
	}
}
