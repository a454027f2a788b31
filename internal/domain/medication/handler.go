package medication

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/spito/spito/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients/:id/medications", h.ForPatient)
	api.GET("/medication-adherence", h.AdherenceHistory)

	staff := api.Group("", auth.RequireStaff())
	staff.POST("/patients/:id/medications", h.Prescribe)

	api.POST("/medication-adherence", h.RecordAdherence)
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func (h *Handler) Prescribe(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req CreateMedicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	med, err := h.svc.Prescribe(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, med)
}

func (h *Handler) ForPatient(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	meds, err := h.svc.ForPatient(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meds)
}

func (h *Handler) RecordAdherence(c echo.Context) error {
	var a Adherence
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.RecordAdherence(c.Request().Context(), &a); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) AdherenceHistory(c echo.Context) error {
	scheduleID, err := strconv.ParseInt(c.QueryParam("schedule_id"), 10, 64)
	if err != nil || scheduleID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid schedule_id")
	}
	records, err := h.svc.AdherenceHistory(c.Request().Context(), scheduleID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, records)
}
