package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quotafinder/internal/exporter"
	"quotafinder/internal/model"
	"quotafinder/internal/reconcile"
	"quotafinder/internal/reader"
)

// 下载令牌有效期
const downloadTTL = 10 * time.Minute

// ReconcileResponse 对账结果响应
type ReconcileResponse struct {
	ExcessRespondents []model.ExcessRespondentRow `json:"excessRespondents"`
	Fulfillment       []model.FulfillmentRow      `json:"fulfillment"`
	Summary           ReconcileSummary            `json:"summary"`
	Downloads         ReconcileDownloads          `json:"downloads"`
}

// ReconcileSummary 对账统计摘要
type ReconcileSummary struct {
	RunID          string `json:"runId"`
	RespondentRows int    `json:"respondentRows"`
	QuotaRows      int    `json:"quotaRows"`
	SegmentCount   int    `json:"segmentCount"`
	ExcessCount    int    `json:"excessCount"`
	DurationMs     int64  `json:"durationMs"`
}

// ReconcileDownloads 下载地址（一次性令牌）
type ReconcileDownloads struct {
	ExcessCSV      string `json:"excessCsv"`
	FulfillmentCSV string `json:"fulfillmentCsv"`
	WorkbookXLSX   string `json:"workbookXlsx"`
}

// Reconcile 执行对账
// POST /api/reconcile (multipart: dataFile, universeFile)
func (h *Handler) Reconcile(c *gin.Context) {
	started := time.Now()
	runID := uuid.New().String()

	dataFile, err := c.FormFile("dataFile")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少数据文件 (dataFile)"})
		return
	}
	universeFile, err := c.FormFile("universeFile")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少配额文件 (universeFile)"})
		return
	}

	maxBytes := int64(h.cfg.Reconcile.MaxUploadMB) << 20
	if maxBytes > 0 && (dataFile.Size > maxBytes || universeFile.Size > maxBytes) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("文件超过大小限制 (%d MB)", h.cfg.Reconcile.MaxUploadMB),
		})
		return
	}

	dataTable, err := readUpload(dataFile)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "读取数据文件失败: " + err.Error()})
		return
	}
	universeTable, err := readUpload(universeFile)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "读取配额文件失败: " + err.Error()})
		return
	}

	// 校验顺序固定：先配额表（得到可接受的 Revenue Range），再数据表
	revenueRanges, err := reconcile.ValidateUniverse(universeTable)
	if err != nil {
		h.recordRun(runID, dataFile, universeFile, dataTable, universeTable, nil, nil, started, err)
		h.respondError(c, err)
		return
	}
	if err := reconcile.ValidateData(dataTable, revenueRanges); err != nil {
		h.recordRun(runID, dataFile, universeFile, dataTable, universeTable, nil, nil, started, err)
		h.respondError(c, err)
		return
	}

	excess, fulfillment, err := reconcile.Process(dataTable, universeTable, revenueRanges)
	if err != nil {
		h.recordRun(runID, dataFile, universeFile, dataTable, universeTable, nil, nil, started, err)
		h.respondError(c, err)
		return
	}

	downloads, err := h.stashExports(excess, fulfillment)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.recordRun(runID, dataFile, universeFile, dataTable, universeTable, excess, fulfillment, started, nil)

	c.JSON(http.StatusOK, ReconcileResponse{
		ExcessRespondents: excess,
		Fulfillment:       fulfillment,
		Summary: ReconcileSummary{
			RunID:          runID,
			RespondentRows: dataTable.RowCount(),
			QuotaRows:      universeTable.RowCount(),
			SegmentCount:   len(fulfillment),
			ExcessCount:    len(excess),
			DurationMs:     time.Since(started).Milliseconds(),
		},
		Downloads: downloads,
	})
}

// readUpload 读取上传文件为表格
func readUpload(fh *multipart.FileHeader) (*model.Table, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return reader.ReadTable(fh.Filename, f)
}

// stashExports 把两张结果表写为临时文件并登记下载令牌
func (h *Handler) stashExports(excess []model.ExcessRespondentRow, fulfillment []model.FulfillmentRow) (ReconcileDownloads, error) {
	var downloads ReconcileDownloads

	excessTable, err := reconcile.ExcessTable(excess)
	if err != nil {
		return downloads, err
	}
	fulfillmentTable, err := reconcile.FulfillmentTable(fulfillment)
	if err != nil {
		return downloads, err
	}

	excessPath, err := writeTempCSV("quotafinder_excess", excessTable)
	if err != nil {
		return downloads, err
	}
	fulfillmentPath, err := writeTempCSV("quotafinder_fulfillment", fulfillmentTable)
	if err != nil {
		return downloads, err
	}

	workbook, err := exporter.BuildWorkbook(excessTable, fulfillmentTable)
	if err != nil {
		return downloads, err
	}
	workbookPath := filepath.Join(os.TempDir(), fmt.Sprintf("quotafinder_workbook_%d_%d.xlsx", time.Now().UnixNano(), os.Getpid()))
	if err := workbook.SaveAs(workbookPath); err != nil {
		return downloads, err
	}
	_ = workbook.Close()

	downloads.ExcessCSV = "/api/download/" + h.downloads.put(
		excessPath, "excess_respondents.csv", "text/csv", downloadTTL)
	downloads.FulfillmentCSV = "/api/download/" + h.downloads.put(
		fulfillmentPath, "quota_fulfillment_stats.csv", "text/csv", downloadTTL)
	downloads.WorkbookXLSX = "/api/download/" + h.downloads.put(
		workbookPath, "quota_reconciliation.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", downloadTTL)

	return downloads, nil
}

// writeTempCSV 把表格写入临时 CSV 文件
func writeTempCSV(prefix string, table *model.Table) (string, error) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("%s_%d_%d.csv", prefix, time.Now().UnixNano(), os.Getpid()))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := exporter.WriteCSV(table, f); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

// respondError 按错误类型映射 HTTP 状态码
func (h *Handler) respondError(c *gin.Context, err error) {
	var schemaErr *reconcile.SchemaError
	if errors.As(err, &schemaErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "文件校验失败: " + schemaErr.Error()})
		return
	}

	var internalErr *reconcile.InternalError
	if errors.As(err, &internalErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "内部一致性错误: " + internalErr.Error()})
		return
	}

	var processingErr *reconcile.ProcessingError
	if errors.As(err, &processingErr) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "处理失败: " + processingErr.Error()})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// recordRun 记录运行历史（失败也记录；关闭历史或无 store 时跳过）
func (h *Handler) recordRun(runID string, dataFile, universeFile *multipart.FileHeader,
	data, universe *model.Table,
	excess []model.ExcessRespondentRow, fulfillment []model.FulfillmentRow,
	started time.Time, runErr error) {

	if h.store == nil || !h.cfg.Data.KeepHistory {
		return
	}

	run := &model.RunRecord{
		ID:               runID,
		DataFilename:     filepath.Base(dataFile.Filename),
		UniverseFilename: filepath.Base(universeFile.Filename),
		DurationMs:       time.Since(started).Milliseconds(),
		Status:           model.RunStatusOK,
		CreatedAt:        time.Now(),
	}
	if data != nil {
		run.RespondentRows = data.RowCount()
	}
	if universe != nil {
		run.QuotaRows = universe.RowCount()
	}
	run.SegmentCount = len(fulfillment)
	run.ExcessCount = len(excess)

	if runErr != nil {
		run.Error = runErr.Error()
		var schemaErr *reconcile.SchemaError
		if errors.As(runErr, &schemaErr) {
			run.Status = model.RunStatusSchemaError
		} else {
			run.Status = model.RunStatusProcessingError
		}
	}

	// 历史记录失败不阻断响应
	_ = h.store.SaveRun(run)
}

// Download 下载对账结果文件（一次性）
// GET /api/download/:token
func (h *Handler) Download(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "缺少 token"})
		return
	}

	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "下载链接已失效"})
		return
	}

	if _, err := os.Stat(item.filePath); err != nil {
		h.downloads.delete(token)
		c.JSON(http.StatusNotFound, gin.H{"error": "导出文件不存在"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", item.filename))
	c.Header("Content-Type", item.contentType)
	c.File(item.filePath)

	h.downloads.delete(token)
	_ = os.Remove(item.filePath)
}
