// Package reporthttp serves the report screens: shaped JSON results, file
// exports and async export downloads.
package reporthttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"

	"github.com/strata-erp/strata-reports/internal/export"
	"github.com/strata-erp/strata-reports/internal/platform/httpx"
	"github.com/strata-erp/strata-reports/internal/report"
	"github.com/strata-erp/strata-reports/internal/reportcfg"
	"github.com/strata-erp/strata-reports/internal/shared"
	"github.com/strata-erp/strata-reports/internal/upstream"
	"github.com/strata-erp/strata-reports/jobs"
)

var errBadDate = errors.New("reporthttp: invalid date parameter")

const requestTimeout = 25 * time.Second

// ConfigService resolves report configurations for a company.
type ConfigService interface {
	Get(ctx context.Context, companyID int64, name string) (*reportcfg.ReportConfig, error)
	Names(ctx context.Context, companyID int64) ([]string, error)
	Save(ctx context.Context, companyID int64, name string, cfg reportcfg.ReportConfig) error
}

// Fetcher retrieves rows from a company backend.
type Fetcher interface {
	FetchRows(ctx context.Context, q upstream.Query) ([]report.Row, error)
	FetchObject(ctx context.Context, q upstream.Query, dst any) error
}

// FetcherFactory builds a Fetcher for the session's company context.
type FetcherFactory func(baseURL, token string) Fetcher

// ExportQueue enqueues async export rendering.
type ExportQueue interface {
	EnqueueRenderExport(ctx context.Context, payload jobs.RenderExportPayload) (*asynq.TaskInfo, error)
}

// Handler coordinates HTTP requests for the report screens.
type Handler struct {
	logger   *slog.Logger
	configs  ConfigService
	fetchers FetcherFactory
	sessions *shared.SessionManager
	store    *export.Store
	queue    ExportQueue
	pdf      *export.PDFExporter
	seq      *upstream.Sequencer
}

// NewHandler constructs a report handler.
func NewHandler(logger *slog.Logger, configs ConfigService, fetchers FetcherFactory, sessions *shared.SessionManager, store *export.Store, queue ExportQueue, pdf *export.PDFExporter) *Handler {
	return &Handler{
		logger:   logger,
		configs:  configs,
		fetchers: fetchers,
		sessions: sessions,
		store:    store,
		queue:    queue,
		pdf:      pdf,
		seq:      upstream.NewSequencer(),
	}
}

// handleList returns the report screens configured for the session's company.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireCompany(w, r)
	if !ok {
		return
	}
	names, err := h.configs.Names(r.Context(), sess.CompanyID())
	if err != nil {
		h.logger.Error("list report configs", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "could not load report catalog")
		return
	}
	if names == nil {
		names = []string{}
	}
	httpx.OK(w, names)
}

// handleConfig returns the filter metadata for one report screen.
func (h *Handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireCompany(w, r)
	if !ok {
		return
	}
	cfg, err := h.configs.Get(r.Context(), sess.CompanyID(), chi.URLParam(r, "name"))
	if err != nil {
		h.respondConfigError(w, err)
		return
	}
	httpx.OK(w, cfg)
}

// handleConfigSave stores filter and column settings for one report screen.
// This backs the column-settings dialog, so selected group-by columns and
// enabled columns survive across sessions.
func (h *Handler) handleConfigSave(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireCompany(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")

	var cfg reportcfg.ReportConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid configuration payload")
		return
	}
	if cfg.Pipeline.Name == "" {
		cfg.Pipeline.Name = name
	}
	if err := h.configs.Save(r.Context(), sess.CompanyID(), name, cfg); err != nil {
		h.logger.Error("save report config",
			slog.String("report", name),
			slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "could not save report configuration")
		return
	}
	httpx.OK(w, map[string]string{"name": name})
}

// handleReport fetches, shapes and returns one report screen.
func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireCompany(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")

	_, result, err := h.runReport(r, sess, name)
	if err != nil {
		h.respondRunError(w, r, sess, name, err)
		return
	}
	httpx.OK(w, result)
}

// runReport executes the full fetch-and-shape cycle for a report request.
// A fetch superseded by a newer request for the same session and report is
// discarded rather than served.
func (h *Handler) runReport(r *http.Request, sess *shared.Session, name string) (*reportcfg.ReportConfig, *report.Result, error) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	cfg, err := h.configs.Get(ctx, sess.CompanyID(), name)
	if err != nil {
		return nil, nil, err
	}

	state, err := parseState(r, cfg)
	if err != nil {
		return nil, nil, err
	}

	client := h.fetchers(sess.CompanyAPI(), sess.UpstreamToken())

	seqKey := sess.ID + ":" + name
	ticket := h.seq.Begin(seqKey)

	path := cfg.Upstream.Path
	if state.Expanded && cfg.Upstream.ExpandedPath != "" {
		path = cfg.Upstream.ExpandedPath
	}
	rows, err := client.FetchRows(ctx, upstream.Query{
		Path:  path,
		From:  state.Date.From,
		To:    state.Date.To,
		Extra: upstreamParams(cfg, state),
	})
	if err != nil {
		return nil, nil, err
	}

	if cfg.Pipeline.Mode == report.ModeLedger && cfg.Upstream.OpeningPath != "" {
		var opening struct {
			Balance string `json:"Opening_Balance"`
		}
		if err := client.FetchObject(ctx, upstream.Query{
			Path:  cfg.Upstream.OpeningPath,
			From:  state.Date.From,
			To:    state.Date.To,
			Extra: upstreamParams(cfg, state),
		}, &opening); err != nil {
			return nil, nil, err
		}
		state.Opening = report.Number(opening.Balance)
	}

	if !h.seq.Commit(seqKey, ticket) {
		return nil, nil, errSuperseded
	}

	result := report.Run(cfg.Pipeline, state, rows)
	return cfg, &result, nil
}

var errSuperseded = errors.New("reporthttp: request superseded")

func (h *Handler) requireCompany(w http.ResponseWriter, r *http.Request) (*shared.Session, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.User() == "" {
		httpx.Fail(w, http.StatusUnauthorized, "not logged in")
		return nil, false
	}
	if sess.CompanyID() == 0 || sess.CompanyAPI() == "" {
		httpx.Fail(w, http.StatusConflict, "no company selected")
		return nil, false
	}
	return sess, true
}

func (h *Handler) respondConfigError(w http.ResponseWriter, err error) {
	if errors.Is(err, shared.ErrNotFound) {
		httpx.Fail(w, http.StatusNotFound, "unknown report")
		return
	}
	h.logger.Error("load report config", slog.Any("error", err))
	httpx.Fail(w, http.StatusInternalServerError, "could not load report configuration")
}

func (h *Handler) respondRunError(w http.ResponseWriter, r *http.Request, sess *shared.Session, name string, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Fail(w, http.StatusNotFound, "unknown report")
	case errors.Is(err, errBadDate):
		httpx.Fail(w, http.StatusBadRequest, "dates must be YYYY-MM-DD")
	case errors.Is(err, errSuperseded):
		httpx.Fail(w, http.StatusConflict, "request superseded by a newer one")
	case errors.Is(err, shared.ErrSessionExpired):
		h.sessions.Destroy(sess)
		h.seq.Forget(sess.ID + ":" + name)
		httpx.Fail(w, http.StatusUnauthorized, "session expired, log in again")
	case errors.Is(err, upstream.ErrUnavailable):
		h.logger.Warn("upstream fetch failed",
			slog.String("report", name),
			slog.Any("error", err))
		httpx.Fail(w, http.StatusBadGateway, "backend unavailable")
	default:
		h.logger.Error("run report",
			slog.String("report", name),
			slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "could not build report")
	}
}

// exportFilename builds the download name for a report artifact.
func exportFilename(name, format string) string {
	return fmt.Sprintf("%s-%s.%s", name, time.Now().UTC().Format("20060102"), format)
}
