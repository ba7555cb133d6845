package reconcile

import (
	"errors"
	"reflect"
	"testing"

	"quotafinder/internal/model"
)

// floatEquals 浮点数近似相等判断
func floatEquals(a, b float64) bool {
	const epsilon = 1e-9
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < epsilon
}

// TestProcess_OverQuota 3 人命中配额 2 的分组：1 人超额，完成度封顶 100
func TestProcess_OverQuota(t *testing.T) {
	data := dataTable(
		[]string{"1", "USA", "Tech", "1B+"},
		[]string{"2", "USA", "Tech", "1B+"},
		[]string{"3", "USA", "Tech", "1B+"},
	)
	universe := model.NewTable(
		[]string{"Industry", "Country", "1B+"},
		[][]string{{"Tech", "USA", "2"}},
	)

	excess, fulfillment, err := Process(data, universe, []string{"1B+"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(excess) != 1 {
		t.Fatalf("excess rows = %d, want 1", len(excess))
	}
	row := excess[0]
	if row.ResponseID != "3" {
		t.Errorf("excess id = %q, want 3 (largest id)", row.ResponseID)
	}
	if !floatEquals(row.Quota, 2) || row.Count != 3 || !floatEquals(row.Excess, 1) {
		t.Errorf("excess row = %+v", row)
	}

	if len(fulfillment) != 1 {
		t.Fatalf("fulfillment rows = %d, want 1", len(fulfillment))
	}
	f := fulfillment[0]
	if f.Count != 3 || !floatEquals(f.Quota, 2) || !floatEquals(f.Fulfillment, 100) {
		t.Errorf("fulfillment row = %+v", f)
	}
}

// TestProcess_QuotaOnlySegment 配额存在但无人应答的分组不出现在任何输出里
func TestProcess_QuotaOnlySegment(t *testing.T) {
	data := dataTable(
		[]string{"1", "USA", "Tech", "1B+"},
	)
	universe := model.NewTable(
		[]string{"Industry", "Country", "1B+"},
		[][]string{
			{"Tech", "USA", "5"},
			{"Finance", "Germany", "5"},
		},
	)

	excess, fulfillment, err := Process(data, universe, []string{"1B+"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(excess) != 0 {
		t.Fatalf("excess rows = %d, want 0", len(excess))
	}
	if len(fulfillment) != 1 {
		t.Fatalf("fulfillment rows = %d, want 1 (observed segment only)", len(fulfillment))
	}
	if fulfillment[0].Industry != "Tech" {
		t.Fatalf("unexpected fulfillment segment: %+v", fulfillment[0])
	}
}

// TestProcess_UnderQuota 未达配额：无超额行，完成度按比例
func TestProcess_UnderQuota(t *testing.T) {
	data := dataTable(
		[]string{"1", "USA", "Tech", "1B+"},
		[]string{"2", "USA", "Tech", "1B+"},
	)
	universe := model.NewTable(
		[]string{"Industry", "Country", "1B+"},
		[][]string{{"Tech", "USA", "3"}},
	)

	excess, fulfillment, err := Process(data, universe, []string{"1B+"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(excess) != 0 {
		t.Fatalf("excess rows = %d, want 0", len(excess))
	}

	// 2/3*100 = 66.666... → 66.67
	if !floatEquals(fulfillment[0].Fulfillment, 66.67) {
		t.Fatalf("fulfillment = %v, want 66.67", fulfillment[0].Fulfillment)
	}
}

// TestProcess_ExcessSelection 恰好选出 excess 个、且是最大的那些 ID
func TestProcess_ExcessSelection(t *testing.T) {
	data := dataTable(
		[]string{"50", "USA", "Tech", "1B+"},
		[]string{"7", "USA", "Tech", "1B+"},
		[]string{"23", "USA", "Tech", "1B+"},
		[]string{"8", "USA", "Tech", "1B+"},
		[]string{"100", "USA", "Tech", "1B+"},
	)
	universe := model.NewTable(
		[]string{"Industry", "Country", "1B+"},
		[][]string{{"Tech", "USA", "2"}},
	)

	excess, _, err := Process(data, universe, []string{"1B+"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(excess) != 3 {
		t.Fatalf("excess rows = %d, want 3", len(excess))
	}
	got := []string{excess[0].ResponseID, excess[1].ResponseID, excess[2].ResponseID}
	if !reflect.DeepEqual(got, []string{"23", "50", "100"}) {
		t.Fatalf("excess ids = %v, want [23 50 100]", got)
	}
}

// TestProcess_UnmatchedSegment 配额表没有的分组被干净排除，不崩溃
func TestProcess_UnmatchedSegment(t *testing.T) {
	data := dataTable(
		[]string{"1", "France", "Energy", "1B+"},
	)
	universe := model.NewTable(
		[]string{"Industry", "Country", "1B+"},
		[][]string{{"Tech", "USA", "5"}},
	)

	excess, fulfillment, err := Process(data, universe, []string{"1B+"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(excess) != 0 || len(fulfillment) != 0 {
		t.Fatalf("unmatched segment leaked into output: excess=%d fulfillment=%d", len(excess), len(fulfillment))
	}
}

// TestProcess_ZeroQuota 配额为 0：全员超额，但完成度无定义不上报
func TestProcess_ZeroQuota(t *testing.T) {
	data := dataTable(
		[]string{"1", "USA", "Tech", "1B+"},
		[]string{"2", "USA", "Tech", "1B+"},
	)
	universe := model.NewTable(
		[]string{"Industry", "Country", "1B+"},
		[][]string{{"Tech", "USA", "0"}},
	)

	excess, fulfillment, err := Process(data, universe, []string{"1B+"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(excess) != 2 {
		t.Fatalf("excess rows = %d, want 2 (everyone is excess)", len(excess))
	}
	if len(fulfillment) != 0 {
		t.Fatalf("zero quota must not produce a fulfillment row, got %d", len(fulfillment))
	}
}

// TestProcess_FulfillmentSorted 完成度降序，未达配额的排最后
func TestProcess_FulfillmentSorted(t *testing.T) {
	data := dataTable(
		[]string{"1", "USA", "Tech", "1B+"},
		[]string{"2", "USA", "Finance", "1B+"},
		[]string{"3", "USA", "Finance", "1B+"},
		[]string{"4", "USA", "Energy", "1B+"},
	)
	universe := model.NewTable(
		[]string{"Industry", "Country", "1B+"},
		[][]string{
			{"Tech", "USA", "4"},    // 25%
			{"Finance", "USA", "2"}, // 100%
			{"Energy", "USA", "2"},  // 50%
		},
	)

	_, fulfillment, err := Process(data, universe, []string{"1B+"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := make([]float64, 0, len(fulfillment))
	for _, f := range fulfillment {
		got = append(got, f.Fulfillment)
	}
	if !reflect.DeepEqual(got, []float64{100, 50, 25}) {
		t.Fatalf("fulfillment order = %v, want [100 50 25]", got)
	}
}

// TestProcess_Idempotent 同样输入重复运行，结果完全一致
func TestProcess_Idempotent(t *testing.T) {
	data := dataTable(
		[]string{"5", "USA", "Tech", "1B+"},
		[]string{"2", "Germany", "Retail", "250M to 500M"},
		[]string{"3", "USA", "Tech", "1B+"},
		[]string{"1", "USA", "Tech", "1B+"},
	)
	universe := model.NewTable(
		[]string{"Industry", "Country", "250M to 500M", "1B+"},
		[][]string{
			{"Tech", "USA", "10", "2"},
			{"Retail", "Germany", "1", "0"},
		},
	)
	ranges := []string{"250M to 500M", "1B+"}

	excess1, fulfillment1, err := Process(data, universe, ranges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	excess2, fulfillment2, err := Process(data, universe, ranges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(excess1, excess2) {
		t.Fatalf("excess output not idempotent")
	}
	if !reflect.DeepEqual(fulfillment1, fulfillment2) {
		t.Fatalf("fulfillment output not idempotent")
	}
}

// TestProcess_FractionalQuota 小数配额：超额人数向下取整
func TestProcess_FractionalQuota(t *testing.T) {
	data := dataTable(
		[]string{"1", "USA", "Tech", "1B+"},
		[]string{"2", "USA", "Tech", "1B+"},
		[]string{"3", "USA", "Tech", "1B+"},
		[]string{"4", "USA", "Tech", "1B+"},
	)
	universe := model.NewTable(
		[]string{"Industry", "Country", "1B+"},
		[][]string{{"Tech", "USA", "2.5"}},
	)

	excess, _, err := Process(data, universe, []string{"1B+"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// excess = 1.5 → 选 1 个 ID
	if len(excess) != 1 {
		t.Fatalf("excess rows = %d, want 1", len(excess))
	}
	if excess[0].ResponseID != "4" {
		t.Fatalf("excess id = %q, want 4", excess[0].ResponseID)
	}
	if !floatEquals(excess[0].Excess, 1.5) {
		t.Fatalf("excess = %v, want 1.5", excess[0].Excess)
	}
}

// TestLeftJoin_DuplicateQuotaKey 重复分组键兜底为处理错误
func TestLeftJoin_DuplicateQuotaKey(t *testing.T) {
	key := model.SegmentKey{Country: "USA", Industry: "Tech", RevenueRange: "1B+"}
	cells := []model.QuotaCell{
		{Key: key, Quota: 1},
		{Key: key, Quota: 2},
	}

	_, err := leftJoin(nil, cells)
	if err == nil {
		t.Fatalf("expected error for duplicate quota key")
	}
}

// TestProcess_NeverPartialOutput 出错时两张表都不返回
func TestProcess_NeverPartialOutput(t *testing.T) {
	data := dataTable(
		[]string{"1", "USA", "Tech", "1B+"},
	)
	universe := model.NewTable(
		[]string{"Industry", "Country", "1B+"},
		[][]string{{"Tech", "USA", "1"}},
	)

	excess, fulfillment, err := Process(data, universe, []string{"5B+"})
	if err == nil {
		t.Fatalf("expected error for unknown revenue range column")
	}
	var processingErr *ProcessingError
	if !errors.As(err, &processingErr) {
		t.Fatalf("expected ProcessingError, got %T", err)
	}
	if excess != nil || fulfillment != nil {
		t.Fatalf("partial output returned on error")
	}
}
