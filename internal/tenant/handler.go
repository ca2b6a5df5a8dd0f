package tenant

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/strata-erp/strata-reports/internal/platform/httpx"
	"github.com/strata-erp/strata-reports/internal/shared"
)

// Handler wires HTTP endpoints for the company catalog.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers tenant routes on the provided router. The routes
// assume the session middleware has already enforced a logged-in user.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/companies", h.handleCatalog)
	r.Post("/companies/select", h.handleSelect)
	r.Post("/companies/clear", h.handleClear)
}

func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(r)
	if !ok {
		httpx.Fail(w, http.StatusUnauthorized, "not logged in")
		return
	}
	companies, err := h.service.Catalog(r.Context(), userID)
	if err != nil {
		h.logger.Error("list companies", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "could not load companies")
		return
	}
	if companies == nil {
		companies = []Company{}
	}
	httpx.OK(w, companies)
}

type selectRequest struct {
	CompanyID int64 `json:"companyId" validate:"required,gt=0"`
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUserID(r)
	if !ok {
		httpx.Fail(w, http.StatusUnauthorized, "not logged in")
		return
	}
	var req selectRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "companyId is required")
		return
	}

	company, err := h.service.Select(r.Context(), userID, req.CompanyID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			h.logger.Error("select company", slog.Any("error", err))
		}
		httpx.FailError(w, err)
		return
	}

	sess := shared.SessionFromContext(r.Context())
	sess.SetCompany(company.ID, company.Name, company.APIBaseURL, company.APIToken)
	httpx.OK(w, company)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		sess.ClearCompany()
	}
	httpx.OK(w, map[string]any{"cleared": true})
}

func sessionUserID(r *http.Request) (int64, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(sess.User(), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
