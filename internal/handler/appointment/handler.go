package appointment

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/guhospital/hms-api/internal/handler"
	"github.com/guhospital/hms-api/internal/model"
	"github.com/guhospital/hms-api/internal/service/appointment"
)

type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBadRequest(c, err.Error())
		return
	}

	appt, err := h.service.Create(c.Request.Context(), handler.ActorFromContext(c), &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondCreated(c, appt)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid appointment ID")
		return
	}

	appt, err := h.service.Get(c.Request.Context(), handler.ActorFromContext(c), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondOK(c, appt)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	filters := &model.AppointmentFilters{
		Date:   c.Query("date"),
		Status: model.AppointmentStatus(c.Query("status")),
	}

	if id := c.Query("patient_id"); id != "" {
		patientID, err := uuid.Parse(id)
		if err != nil {
			handler.RespondBadRequest(c, "invalid patient ID")
			return
		}
		filters.PatientID = patientID
	}

	if id := c.Query("doctor_id"); id != "" {
		doctorID, err := uuid.Parse(id)
		if err != nil {
			handler.RespondBadRequest(c, "invalid doctor ID")
			return
		}
		filters.DoctorID = doctorID
	}

	appointments, err := h.service.List(c.Request.Context(), handler.ActorFromContext(c), filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondOK(c, appointments)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid appointment ID")
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBadRequest(c, err.Error())
		return
	}

	appt, err := h.service.Update(c.Request.Context(), handler.ActorFromContext(c), id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondOK(c, appt)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid appointment ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), handler.ActorFromContext(c), id); err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondOK(c, nil)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", h.UpdateAppointment)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}
}
