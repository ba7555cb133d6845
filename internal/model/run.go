package model

import "time"

// 运行状态
const (
	RunStatusOK              = "ok"
	RunStatusSchemaError     = "schema_error"
	RunStatusProcessingError = "processing_error"
)

// RunRecord 一次对账运行的历史记录（仅元数据，不含表格内容）
type RunRecord struct {
	ID               string    `json:"id"`
	DataFilename     string    `json:"dataFilename"`
	UniverseFilename string    `json:"universeFilename"`
	RespondentRows   int       `json:"respondentRows"`
	QuotaRows        int       `json:"quotaRows"`
	SegmentCount     int       `json:"segmentCount"`
	ExcessCount      int       `json:"excessCount"`
	DurationMs       int64     `json:"durationMs"`
	Status           string    `json:"status"`
	Error            string    `json:"error,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}
