package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/strata-erp/strata-reports/internal/export"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskRenderExport renders a report table into a stored artifact.
	TaskRenderExport = "export:render"
	// TaskConfigWarmup pre-loads report configurations into the cache.
	TaskConfigWarmup = "reportcfg:warmup"
)

// RenderExportPayload carries everything the worker needs to render one
// export: the artifact slot, the destination format and the shaped table.
type RenderExportPayload struct {
	ArtifactID string       `json:"artifactId"`
	Format     string       `json:"format"`
	Table      export.Table `json:"table"`
}

// NewRenderExportTask constructs an Asynq task.
func NewRenderExportTask(payload RenderExportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRenderExport, data), nil
}

// ConfigWarmupPayload identifies the company whose report configurations
// should be warmed.
type ConfigWarmupPayload struct {
	CompanyID int64 `json:"companyId"`
}

// NewConfigWarmupTask constructs an Asynq task.
func NewConfigWarmupTask(payload ConfigWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskConfigWarmup, data), nil
}
