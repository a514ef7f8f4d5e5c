package medicalrecord

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/guhospital/hms-api/internal/handler"
	"github.com/guhospital/hms-api/internal/model"
	"github.com/guhospital/hms-api/internal/service/medical"
)

type Handler struct {
	service *medical.Service
}

func NewHandler(service *medical.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateRecord(c *gin.Context) {
	var req model.CreateMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBadRequest(c, err.Error())
		return
	}

	record, err := h.service.CreateRecord(c.Request.Context(), handler.ActorFromContext(c), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondCreated(c, record)
}

func (h *Handler) GetRecord(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid record ID")
		return
	}

	record, err := h.service.GetRecord(c.Request.Context(), handler.ActorFromContext(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondOK(c, record)
}

func (h *Handler) ListRecords(c *gin.Context) {
	var patientID uuid.UUID
	if v := c.Query("patient_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			handler.RespondBadRequest(c, "invalid patient ID")
			return
		}
		patientID = id
	}

	records, err := h.service.ListRecords(c.Request.Context(), handler.ActorFromContext(c), patientID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondOK(c, records)
}

func (h *Handler) UpdateRecord(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid record ID")
		return
	}

	var req model.UpdateMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBadRequest(c, err.Error())
		return
	}

	record, err := h.service.UpdateRecord(c.Request.Context(), handler.ActorFromContext(c), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondOK(c, record)
}

func (h *Handler) DeleteRecord(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid record ID")
		return
	}

	if err := h.service.DeleteRecord(c.Request.Context(), handler.ActorFromContext(c), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondOK(c, nil)
}

func (h *Handler) UploadFile(c *gin.Context) {
	var req model.CreateMedicalFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBadRequest(c, err.Error())
		return
	}

	file, err := h.service.UploadFile(c.Request.Context(), handler.ActorFromContext(c), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondCreated(c, file)
}

func (h *Handler) GetFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid file ID")
		return
	}

	file, err := h.service.GetFile(c.Request.Context(), handler.ActorFromContext(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondOK(c, file)
}

func (h *Handler) ListFiles(c *gin.Context) {
	patientID, err := uuid.Parse(c.Query("patient_id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid patient ID")
		return
	}

	files, err := h.service.ListFiles(c.Request.Context(), handler.ActorFromContext(c), patientID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondOK(c, files)
}

func (h *Handler) DeleteFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid file ID")
		return
	}

	if err := h.service.DeleteFile(c.Request.Context(), handler.ActorFromContext(c), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondOK(c, nil)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	records := r.Group("/medical-records")
	{
		records.POST("", h.CreateRecord)
		records.GET("", h.ListRecords)
		records.GET("/:id", h.GetRecord)
		records.PUT("/:id", h.UpdateRecord)
		records.DELETE("/:id", h.DeleteRecord)
	}

	files := r.Group("/medical-files")
	{
		files.POST("", h.UploadFile)
		files.GET("", h.ListFiles)
		files.GET("/:id", h.GetFile)
		files.DELETE("/:id", h.DeleteFile)
	}
}
