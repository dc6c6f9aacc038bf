package patient

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/docapp/docapp/internal/platform/middleware"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients", h.ListPatients)
	api.POST("/patients", h.CreatePatient)
	api.GET("/patients/:id", h.GetPatient)
	api.PUT("/patients/:id", h.UpdatePatient)
	api.GET("/patients/:id/consultations", h.ListConsultations)
	api.POST("/patients/:id/consultations", h.CreateConsultation)
	api.POST("/seed", h.Seed)
}

func (h *Handler) ListPatients(c echo.Context) error {
	items, err := h.svc.ListPatients(c.Request().Context())
	if err != nil {
		return toHTTPError(err, "Failed to fetch patients")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreatePatient(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient body").SetInternal(err)
	}
	if err := h.svc.CreatePatient(c.Request().Context(), &p); err != nil {
		return toHTTPError(err, "Failed to create patient")
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPatient(c echo.Context) error {
	p, err := h.svc.GetPatient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err, "Failed to fetch patient")
	}
	return c.JSON(http.StatusOK, p)
}

type updateRequest struct {
	Name string          `json:"name"`
	Age  json.RawMessage `json:"age"`
}

func (h *Handler) UpdatePatient(c echo.Context) error {
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid update body").SetInternal(err)
	}
	u, err := ParsePatientUpdate(req.Name, req.Age)
	if err != nil {
		return toHTTPError(err, "Failed to update patient")
	}
	p, err := h.svc.UpdatePatient(c.Request().Context(), c.Param("id"), u)
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			return echo.NewHTTPError(http.StatusInternalServerError, middleware.ErrorBody{
				Error:   "Failed to update patient",
				Details: ErrStoreUnavailable.Error(),
			}).SetInternal(err)
		}
		return toHTTPError(err, "Failed to update patient")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListConsultations(c echo.Context) error {
	items, err := h.svc.ListConsultations(c.Request().Context(), c.Param("id"))
	if err != nil {
		return toHTTPError(err, "Failed to fetch consultations")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateConsultation(c echo.Context) error {
	var cons Consultation
	if err := c.Bind(&cons); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid consultation body").SetInternal(err)
	}
	if err := h.svc.CreateConsultation(c.Request().Context(), c.Param("id"), &cons); err != nil {
		return toHTTPError(err, "Failed to create consultation")
	}
	return c.JSON(http.StatusCreated, cons)
}

func (h *Handler) Seed(c echo.Context) error {
	res, err := h.svc.Seed(c.Request().Context())
	if err != nil {
		return toHTTPError(err, "Failed to seed database")
	}
	return c.JSON(http.StatusOK, res)
}

// toHTTPError maps the error taxonomy onto status codes. Store faults get the
// generic message; the cause travels as the internal error for logging only.
func toHTTPError(err error, generic string) error {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
	case errors.Is(err, ErrInvalidID):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Patient not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, generic).SetInternal(err)
	}
}
