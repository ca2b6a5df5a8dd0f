package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/strata-erp/strata-reports/internal/export"
)

// NewExportRenderHandler returns the Asynq handler that renders queued
// exports into the artifact store. A render failure is recorded on the
// artifact and not retried; a store failure is retried by Asynq.
func NewExportRenderHandler(store *export.Store, pdf *export.PDFExporter, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload RenderExportPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}

		data, err := renderTable(ctx, payload, pdf)
		if err != nil {
			logger.Error("render export",
				slog.String("artifact", payload.ArtifactID),
				slog.String("format", payload.Format),
				slog.Any("error", err))
			if markErr := store.MarkFailed(ctx, payload.ArtifactID, err); markErr != nil {
				return markErr
			}
			return asynq.SkipRetry
		}

		return store.Complete(ctx, payload.ArtifactID, data)
	}
}

func renderTable(ctx context.Context, payload RenderExportPayload, pdf *export.PDFExporter) ([]byte, error) {
	switch payload.Format {
	case "csv":
		var buf bytes.Buffer
		if err := export.WriteCSV(&buf, payload.Table); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "xlsx":
		var buf bytes.Buffer
		if err := export.WriteExcel(&buf, payload.Table); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "pdf":
		return pdf.RenderTable(ctx, payload.Table)
	default:
		return nil, fmt.Errorf("jobs: unknown export format %q", payload.Format)
	}
}
