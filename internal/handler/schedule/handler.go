package schedule

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/guhospital/hms-api/internal/handler"
	"github.com/guhospital/hms-api/internal/model"
	"github.com/guhospital/hms-api/internal/service/appointment"
	"github.com/guhospital/hms-api/internal/service/schedule"
)

type Handler struct {
	service      *schedule.Service
	appointments *appointment.Service
}

func NewHandler(service *schedule.Service, appointments *appointment.Service) *Handler {
	return &Handler{service: service, appointments: appointments}
}

func (h *Handler) ListSchedules(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid doctor ID")
		return
	}

	schedules, err := h.service.ListByDoctor(c.Request.Context(), doctorID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondOK(c, schedules)
}

func (h *Handler) CreateSchedule(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid doctor ID")
		return
	}

	var req model.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBadRequest(c, err.Error())
		return
	}

	sched, err := h.service.Create(c.Request.Context(), handler.ActorFromContext(c), doctorID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondCreated(c, sched)
}

func (h *Handler) UpdateSchedule(c *gin.Context) {
	scheduleID, err := uuid.Parse(c.Param("scheduleId"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid schedule ID")
		return
	}

	var req model.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBadRequest(c, err.Error())
		return
	}

	sched, err := h.service.Update(c.Request.Context(), handler.ActorFromContext(c), scheduleID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondOK(c, sched)
}

func (h *Handler) DeleteSchedule(c *gin.Context) {
	scheduleID, err := uuid.Parse(c.Param("scheduleId"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid schedule ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), handler.ActorFromContext(c), scheduleID); err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondOK(c, nil)
}

func (h *Handler) GetAvailableSlots(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.RespondBadRequest(c, "invalid doctor ID")
		return
	}

	date := c.Query("date")
	if date == "" {
		handler.RespondBadRequest(c, "date is required")
		return
	}

	slots, err := h.appointments.GetAvailableSlots(c.Request.Context(), doctorID, date)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	handler.RespondOK(c, slots)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("/:id/schedule", h.ListSchedules)
		doctors.POST("/:id/schedule", h.CreateSchedule)
		doctors.PUT("/schedule/:scheduleId", h.UpdateSchedule)
		doctors.DELETE("/schedule/:scheduleId", h.DeleteSchedule)
		doctors.GET("/:id/available-slots", h.GetAvailableSlots)
	}
}
