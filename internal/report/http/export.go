package reporthttp

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/strata-erp/strata-reports/internal/export"
	"github.com/strata-erp/strata-reports/internal/platform/httpx"
	"github.com/strata-erp/strata-reports/internal/report"
	"github.com/strata-erp/strata-reports/internal/reportcfg"
	"github.com/strata-erp/strata-reports/internal/shared"
	"github.com/strata-erp/strata-reports/jobs"
)

var contentTypes = map[string]string{
	"csv":  "text/csv",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"pdf":  "application/pdf",
}

// handleExport renders one report to a file and streams it back.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireCompany(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	format := chi.URLParam(r, "format")
	contentType, ok := contentTypes[format]
	if !ok {
		httpx.Fail(w, http.StatusBadRequest, "format must be csv, xlsx or pdf")
		return
	}

	cfg, result, err := h.runReport(r, sess, name)
	if err != nil {
		h.respondRunError(w, r, sess, name, err)
		return
	}
	table := buildExportTable(cfg, *result)

	var data []byte
	switch format {
	case "pdf":
		data, err = h.pdf.RenderTable(r.Context(), table)
	default:
		data, err = renderBuffered(format, table)
	}
	if err != nil {
		h.logger.Error("render export",
			slog.String("report", name),
			slog.String("format", format),
			slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "could not render export")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename(name, format)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type asyncExportRequest struct {
	Format string `json:"format"`
}

// handleExportAsync enqueues a background render and returns the artifact ID.
func (h *Handler) handleExportAsync(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireCompany(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")

	var req asyncExportRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	contentType, valid := contentTypes[req.Format]
	if !valid {
		httpx.Fail(w, http.StatusBadRequest, "format must be csv, xlsx or pdf")
		return
	}

	cfg, result, err := h.runReport(r, sess, name)
	if err != nil {
		h.respondRunError(w, r, sess, name, err)
		return
	}
	table := buildExportTable(cfg, *result)

	id, err := h.store.Create(r.Context(), exportFilename(name, req.Format), contentType)
	if err != nil {
		h.logger.Error("create export artifact", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "could not create export")
		return
	}
	if _, err := h.queue.EnqueueRenderExport(r.Context(), jobs.RenderExportPayload{
		ArtifactID: id,
		Format:     req.Format,
		Table:      table,
	}); err != nil {
		h.logger.Error("enqueue export", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "could not queue export")
		return
	}
	httpx.JSON(w, http.StatusAccepted, httpx.Envelope{Success: true, Data: map[string]string{"exportId": id}})
}

// handleExportDownload returns a stored artifact: its bytes when ready,
// its status otherwise.
func (h *Handler) handleExportDownload(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireCompany(w, r); !ok {
		return
	}
	id := chi.URLParam(r, "id")

	art, err := h.store.Fetch(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "export not found")
			return
		}
		h.logger.Error("fetch export artifact", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "could not load export")
		return
	}

	switch art.Status {
	case export.StatusReady:
		w.Header().Set("Content-Type", art.ContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+art.Filename+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(art.Data)
	case export.StatusFailed:
		httpx.Fail(w, http.StatusInternalServerError, "export failed: "+art.Error)
	default:
		httpx.OK(w, map[string]string{"id": art.ID, "status": art.Status})
	}
}

func renderBuffered(format string, table export.Table) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "csv":
		if err := export.WriteCSV(&buf, table); err != nil {
			return nil, err
		}
	case "xlsx":
		if err := export.WriteExcel(&buf, table); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("reporthttp: unknown format %q", format)
	}
	return buf.Bytes(), nil
}

// buildExportTable converts a pipeline result into the writer matrix,
// flattening the group tree when the report renders one.
func buildExportTable(cfg *reportcfg.ReportConfig, result report.Result) export.Table {
	rows := report.ExportRows(cfg.Pipeline, result)
	table := export.BuildTable(cfg.Pipeline.Name, rows, cfg.Pipeline.Columns, exportGroupColumns(cfg, result))
	table.Summary = export.BuildSummary(cfg.Pipeline.Summaries, result.Summary)
	return table
}

// exportGroupColumns lists the flattened ancestor-key columns present on
// exported rows of a grouped report.
func exportGroupColumns(cfg *reportcfg.ReportConfig, result report.Result) []string {
	if cfg.Pipeline.Mode != report.ModeGroups {
		return nil
	}
	var cols []string
	if len(result.Groups) > 0 && result.Groups[0].Level == report.TopLevel {
		cols = append(cols, report.GroupColumnLabel(report.TopLevel))
	}
	for i := range cfg.Pipeline.GroupColumns {
		cols = append(cols, report.GroupColumnLabel(i))
	}
	return cols
}
