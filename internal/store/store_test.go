package store

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"quotafinder/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRun(id string, createdAt time.Time) *model.RunRecord {
	return &model.RunRecord{
		ID:               id,
		DataFilename:     "data.csv",
		UniverseFilename: "universe.xlsx",
		RespondentRows:   120,
		QuotaRows:        8,
		SegmentCount:     15,
		ExcessCount:      4,
		DurationMs:       37,
		Status:           model.RunStatusOK,
		CreatedAt:        createdAt,
	}
}

// TestSaveAndListRuns 保存后按时间倒序取回
func TestSaveAndListRuns(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-1", "run-2", "run-3"} {
		if err := s.SaveRun(testRun(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("save run %s: %v", id, err)
		}
	}

	runs, err := s.ListRuns(10)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("run count = %d, want 3", len(runs))
	}
	// 最新的在前
	if runs[0].ID != "run-3" || runs[2].ID != "run-1" {
		t.Fatalf("unexpected order: %s, %s, %s", runs[0].ID, runs[1].ID, runs[2].ID)
	}

	got := runs[0]
	if got.DataFilename != "data.csv" || got.RespondentRows != 120 || got.Status != model.RunStatusOK {
		t.Fatalf("unexpected run record: %+v", got)
	}
	if !got.CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("created_at = %v", got.CreatedAt)
	}
}

// TestListRuns_Limit limit 生效，非法 limit 回退默认值
func TestListRuns_Limit(t *testing.T) {
	s := newTestStore(t)

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		run := testRun(fmt.Sprintf("run-%d", i), base.Add(time.Duration(i)*time.Second))
		if err := s.SaveRun(run); err != nil {
			t.Fatalf("save run: %v", err)
		}
	}

	runs, err := s.ListRuns(2)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("run count = %d, want 2", len(runs))
	}

	runs, err = s.ListRuns(0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 5 {
		t.Fatalf("run count = %d, want 5", len(runs))
	}
}

// TestCountRuns 计数与失败状态记录
func TestCountRuns(t *testing.T) {
	s := newTestStore(t)

	count, err := s.CountRuns()
	if err != nil {
		t.Fatalf("count runs: %v", err)
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0", count)
	}

	failed := testRun("run-err", time.Now().UTC())
	failed.Status = model.RunStatusSchemaError
	failed.Error = "data file is missing required columns"
	if err := s.SaveRun(failed); err != nil {
		t.Fatalf("save run: %v", err)
	}

	count, err = s.CountRuns()
	if err != nil {
		t.Fatalf("count runs: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}

	runs, err := s.ListRuns(1)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if runs[0].Status != model.RunStatusSchemaError || runs[0].Error == "" {
		t.Fatalf("failed run not recorded: %+v", runs[0])
	}
}
