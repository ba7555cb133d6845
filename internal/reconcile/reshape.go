package reconcile

import (
	"fmt"
	"strconv"
	"strings"

	"quotafinder/internal/model"
)

// UnpivotUniverse 将宽表配额数据逆透视为长表
// 每个 (Country, Industry) 行对每个 Revenue Range 列产出一行；
// 配额为 0 的单元格保留，只有真正缺失的单元格（行比列短）被丢弃
func UnpivotUniverse(table *model.Table, revenueRanges []string) ([]model.QuotaCell, error) {
	countryIdx := table.ColumnIndex(model.ColCountry)
	industryIdx := table.ColumnIndex(model.ColIndustry)
	if countryIdx < 0 || industryIdx < 0 {
		return nil, fmt.Errorf("universe table lost required columns after validation")
	}

	rangeIdx := make([]int, len(revenueRanges))
	for i, name := range revenueRanges {
		idx := table.ColumnIndex(name)
		if idx < 0 {
			return nil, fmt.Errorf("revenue range column not found: %q", name)
		}
		rangeIdx[i] = idx
	}

	cells := make([]model.QuotaCell, 0, len(table.Rows)*len(revenueRanges))
	for _, row := range table.Rows {
		country, _ := table.Cell(row, countryIdx)
		industry, _ := table.Cell(row, industryIdx)

		for i, name := range revenueRanges {
			value, ok := table.Cell(row, rangeIdx[i])
			if !ok {
				continue
			}
			quota, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				// 校验已保证数值性，走到这里属于调用顺序错误
				return nil, fmt.Errorf("non-numeric quota value %q in column %q", value, name)
			}
			cells = append(cells, model.QuotaCell{
				Key: model.SegmentKey{
					Country:      country,
					Industry:     industry,
					RevenueRange: name,
				},
				Quota: quota,
			})
		}
	}

	return cells, nil
}
