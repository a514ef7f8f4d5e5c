package prescription

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/guhospital/hms-api/internal/handler"
	"github.com/guhospital/hms-api/internal/model"
	"github.com/guhospital/hms-api/internal/service/prescription"
)

type Handler struct {
	service *prescription.Service
}

func NewHandler(service *prescription.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreatePrescription(c *gin.Context) {
	var req model.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBadRequest(c, err.Error())
		return
	}

	detail, err := h.service.Create(c.Request.Context(), handler.ActorFromContext(c), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondCreated(c, detail)
}

func (h *Handler) GetPrescription(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid prescription ID")
		return
	}

	detail, err := h.service.Get(c.Request.Context(), handler.ActorFromContext(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondOK(c, detail)
}

func (h *Handler) ListPrescriptions(c *gin.Context) {
	var patientID, doctorID uuid.UUID
	if v := c.Query("patient_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			handler.RespondBadRequest(c, "invalid patient ID")
			return
		}
		patientID = id
	}
	if v := c.Query("doctor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			handler.RespondBadRequest(c, "invalid doctor ID")
			return
		}
		doctorID = id
	}

	prescriptions, err := h.service.List(c.Request.Context(), handler.ActorFromContext(c), patientID, doctorID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondOK(c, prescriptions)
}

func (h *Handler) UpdatePrescription(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid prescription ID")
		return
	}

	var req model.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBadRequest(c, err.Error())
		return
	}

	updated, err := h.service.Update(c.Request.Context(), handler.ActorFromContext(c), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondOK(c, updated)
}

func (h *Handler) DeletePrescription(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid prescription ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), handler.ActorFromContext(c), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondOK(c, nil)
}

func (h *Handler) AddItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid prescription ID")
		return
	}

	var req model.PrescriptionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBadRequest(c, err.Error())
		return
	}

	item, err := h.service.AddItem(c.Request.Context(), handler.ActorFromContext(c), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondCreated(c, item)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	prescriptions := r.Group("/prescriptions")
	{
		prescriptions.POST("", h.CreatePrescription)
		prescriptions.GET("", h.ListPrescriptions)
		prescriptions.GET("/:id", h.GetPrescription)
		prescriptions.PUT("/:id", h.UpdatePrescription)
		prescriptions.DELETE("/:id", h.DeletePrescription)
		prescriptions.POST("/:id/items", h.AddItem)
	}
}
