package store

import (
	"fmt"
	"time"

	"quotafinder/internal/model"
)

// SaveRun 记录一次对账运行
func (s *Store) SaveRun(run *model.RunRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO run_logs (
			id, data_filename, universe_filename,
			respondent_rows, quota_rows, segment_count, excess_count,
			duration_ms, status, error, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID, run.DataFilename, run.UniverseFilename,
		run.RespondentRows, run.QuotaRows, run.SegmentCount, run.ExcessCount,
		run.DurationMs, run.Status, run.Error, run.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// ListRuns 按时间倒序返回最近的运行记录
func (s *Store) ListRuns(limit int) ([]*model.RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT id, data_filename, universe_filename,
			respondent_rows, quota_rows, segment_count, excess_count,
			duration_ms, status, error, created_at
		FROM run_logs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]*model.RunRecord, 0)
	for rows.Next() {
		var run model.RunRecord
		var createdAt string
		if err := rows.Scan(
			&run.ID, &run.DataFilename, &run.UniverseFilename,
			&run.RespondentRows, &run.QuotaRows, &run.SegmentCount, &run.ExcessCount,
			&run.DurationMs, &run.Status, &run.Error, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			run.CreatedAt = t
		}
		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

// CountRuns 运行记录总数
func (s *Store) CountRuns() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM run_logs").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
