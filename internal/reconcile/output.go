package reconcile

import (
	"strconv"
	"strings"

	"quotafinder/internal/model"
)

// 两张结果表的固定列序
var (
	ExcessColumns = []string{
		model.ColCountry, model.ColIndustry, model.ColRevenueRange,
		"Quota", "Count", "Excess", "Response ID",
	}
	FulfillmentColumns = []string{
		model.ColCountry, model.ColIndustry, model.ColRevenueRange,
		"Count", "Quota", "Fulfillment Percentage (%)",
	}
)

// ExcessTable 将超额受访者行组装为输出表
func ExcessTable(rows []model.ExcessRespondentRow) (*model.Table, error) {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Country,
			r.Industry,
			r.RevenueRange,
			formatNumber(r.Quota),
			strconv.Itoa(r.Count),
			formatNumber(r.Excess),
			r.ResponseID,
		})
	}

	table := model.NewTable(ExcessColumns, out)
	if err := verifyColumns(table, ExcessColumns); err != nil {
		return nil, err
	}
	return table, nil
}

// FulfillmentTable 将完成度行组装为输出表
func FulfillmentTable(rows []model.FulfillmentRow) (*model.Table, error) {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Country,
			r.Industry,
			r.RevenueRange,
			strconv.Itoa(r.Count),
			formatNumber(r.Quota),
			formatNumber(r.Fulfillment),
		})
	}

	table := model.NewTable(FulfillmentColumns, out)
	if err := verifyColumns(table, FulfillmentColumns); err != nil {
		return nil, err
	}
	return table, nil
}

// verifyColumns 防御性自检：输出表必须带齐全部必需列
// 防的是未来改列名时漏改一处，不是用户输入问题
func verifyColumns(table *model.Table, required []string) error {
	missing := table.MissingColumns(required)
	if len(missing) > 0 {
		return newInternalError("missing columns in output table: %s", strings.Join(missing, ", "))
	}
	for _, row := range table.Rows {
		if len(row) != len(table.Columns) {
			return newInternalError("output row width %d does not match header width %d", len(row), len(table.Columns))
		}
	}
	return nil
}

// formatNumber 数值格式化：整数不带小数点，小数保留最短表示
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
