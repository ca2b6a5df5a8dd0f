package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/strata-erp/strata-reports/internal/reportcfg"
)

// NewConfigWarmupHandler returns the Asynq handler that walks a company's
// configured report screens and loads each into the cache, so the first
// morning request does not pay the catalog round trip. A zero company ID
// warms every company.
func NewConfigWarmupHandler(svc *reportcfg.Service, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload ConfigWarmupPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}

		companies := []int64{payload.CompanyID}
		if payload.CompanyID == 0 {
			all, err := svc.Companies(ctx)
			if err != nil {
				return err
			}
			companies = all
		}

		for _, companyID := range companies {
			names, err := svc.Names(ctx, companyID)
			if err != nil {
				logger.Warn("list report configs",
					slog.Int64("company", companyID),
					slog.Any("error", err))
				continue
			}
			for _, name := range names {
				if _, err := svc.Get(ctx, companyID, name); err != nil {
					logger.Warn("warm report config",
						slog.Int64("company", companyID),
						slog.String("report", name),
						slog.Any("error", err))
				}
			}
		}
		return nil
	}
}
