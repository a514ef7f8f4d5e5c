package invoice

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/guhospital/hms-api/internal/handler"
	"github.com/guhospital/hms-api/internal/model"
	"github.com/guhospital/hms-api/internal/service/billing"
)

type Handler struct {
	service *billing.Service
}

func NewHandler(service *billing.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateInvoice(c *gin.Context) {
	var req model.CreateInvoiceRequest
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

func (h *Handler) GetInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid invoice ID")
		return
	}

	detail, err := h.service.Get(c.Request.Context(), handler.ActorFromContext(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondOK(c, detail)
}

func (h *Handler) ListInvoices(c *gin.Context) {
	actor := handler.ActorFromContext(c)

	if id := c.Query("patient_id"); id != "" {
		patientID, err := uuid.Parse(id)
		if err != nil {
			handler.RespondBadRequest(c, "invalid patient ID")
			return
		}
		invoices, err := h.service.ListByPatient(c.Request.Context(), actor, patientID)
		if err != nil {
			handler.RespondError(c, err)
			return
		}
		handler.RespondOK(c, invoices)
		return
	}

	invoices, err := h.service.List(c.Request.Context(), actor)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondOK(c, invoices)
}

func (h *Handler) UpdateInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid invoice ID")
		return
	}

	var req model.UpdateInvoiceRequest
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

func (h *Handler) DeleteInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid invoice ID")
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
		handler.RespondBadRequest(c, "invalid invoice ID")
		return
	}

	var req model.InvoiceItemRequest
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

func (h *Handler) DownloadInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid invoice ID")
		return
	}

	doc, err := h.service.RenderDocument(c.Request.Context(), handler.ActorFromContext(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="invoice-%s.html"`, id))
	c.Data(http.StatusOK, "text/html; charset=utf-8", doc)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	invoices := r.Group("/invoices")
	{
		invoices.POST("", h.CreateInvoice)
		invoices.GET("", h.ListInvoices)
		invoices.GET("/:id", h.GetInvoice)
		invoices.PUT("/:id", h.UpdateInvoice)
		invoices.DELETE("/:id", h.DeleteInvoice)
		invoices.POST("/:id/items", h.AddItem)
		invoices.GET("/:id/download", h.DownloadInvoice)
	}
}
