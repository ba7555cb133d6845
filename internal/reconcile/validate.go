package reconcile

import (
	"fmt"
	"strconv"
	"strings"

	"quotafinder/internal/model"
)

// ValidateUniverse 校验配额表并返回识别出的 Revenue Range 列名列表
// 规则内穷举（收集全部违规项后才失败），规则间短路
func ValidateUniverse(table *model.Table) ([]string, error) {
	if err := table.Validate(); err != nil {
		return nil, newSchemaError("universe file is invalid: %v", err)
	}

	// 必需列
	missing := table.MissingColumns([]string{model.ColIndustry, model.ColCountry})
	if len(missing) > 0 {
		return nil, &SchemaError{
			Message: fmt.Sprintf("universe file is missing required columns: %s", strings.Join(missing, ", ")),
			Items:   missing,
		}
	}

	// 除 Industry/Country 外的列即为 Revenue Range 列
	ranges := make([]string, 0, len(table.Columns))
	for _, col := range table.Columns {
		if col == model.ColIndustry || col == model.ColCountry {
			continue
		}
		ranges = append(ranges, col)
	}
	if len(ranges) == 0 {
		return nil, newSchemaError("universe file must have at least one revenue range column (e.g., 'Less than 250M', '250M to 500M')")
	}

	// Revenue Range 列必须全为数值
	// 行内缺失的单元格按缺失处理跳过；存在但为空白/文本的单元格视为非数值
	badCols := make([]string, 0)
	for _, col := range ranges {
		idx := table.ColumnIndex(col)
		for _, row := range table.Rows {
			value, ok := table.Cell(row, idx)
			if !ok {
				continue
			}
			if !isNumeric(value) {
				badCols = append(badCols, col)
				break
			}
		}
	}
	if len(badCols) > 0 {
		return nil, &SchemaError{
			Message: fmt.Sprintf("universe file columns must contain numeric values: %s", strings.Join(badCols, ", ")),
			Items:   badCols,
		}
	}

	// 重复的 (Country, Industry) 行会在逆透视后产生重复分组键，连接行为不可预期，
	// 按硬性校验错误处理
	dupes := duplicatePairs(table)
	if len(dupes) > 0 {
		return nil, &SchemaError{
			Message: fmt.Sprintf("universe file contains duplicate (Country, Industry) rows: %s", strings.Join(dupes, ", ")),
			Items:   dupes,
		}
	}

	return ranges, nil
}

// ValidateData 校验数据表
// revenueRanges 为 ValidateUniverse 返回的可接受取值集合
func ValidateData(table *model.Table, revenueRanges []string) error {
	if err := table.Validate(); err != nil {
		return newSchemaError("data file is invalid: %v", err)
	}

	required := []string{model.ColResponseID, model.ColCountry, model.ColIndustry, model.ColRevenueRange}
	missing := table.MissingColumns(required)
	if len(missing) > 0 {
		return &SchemaError{
			Message: fmt.Sprintf("data file is missing required columns: %s", strings.Join(missing, ", ")),
			Items:   missing,
		}
	}

	accepted := make(map[string]bool, len(revenueRanges))
	for _, r := range revenueRanges {
		accepted[r] = true
	}

	// 非缺失的 Revenue Range 值必须精确命中配额表列名（区分大小写，不去空格）
	idx := table.ColumnIndex(model.ColRevenueRange)
	invalid := make([]string, 0)
	seen := make(map[string]bool)
	for _, row := range table.Rows {
		value, ok := table.Cell(row, idx)
		if !ok || value == "" {
			continue
		}
		if !accepted[value] && !seen[value] {
			seen[value] = true
			invalid = append(invalid, value)
		}
	}
	if len(invalid) > 0 {
		return &SchemaError{
			Message: fmt.Sprintf("data file contains invalid Revenue Range values: %s. Expected values are: %s",
				strings.Join(invalid, ", "), strings.Join(revenueRanges, ", ")),
			Items: invalid,
		}
	}

	return nil
}

// duplicatePairs 找出配额表中重复的 (Country, Industry) 组合
func duplicatePairs(table *model.Table) []string {
	countryIdx := table.ColumnIndex(model.ColCountry)
	industryIdx := table.ColumnIndex(model.ColIndustry)

	counts := make(map[[2]string]int)
	order := make([][2]string, 0)
	for _, row := range table.Rows {
		country, _ := table.Cell(row, countryIdx)
		industry, _ := table.Cell(row, industryIdx)
		key := [2]string{country, industry}
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	}

	dupes := make([]string, 0)
	for _, key := range order {
		if counts[key] > 1 {
			dupes = append(dupes, fmt.Sprintf("(%s, %s)", key[0], key[1]))
		}
	}
	return dupes
}

// isNumeric 判断字符串是否为整数或浮点数
// 空字符串不算数值
func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
