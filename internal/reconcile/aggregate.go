package reconcile

import (
	"sort"
	"strconv"

	"quotafinder/internal/model"
)

// AggregateSegments 将数据表按 (Country, Industry, Revenue Range) 稀疏聚合
// 只输出观测到的分组；ResponseIDs 按 ID 升序排列（数值优先，否则字典序）
// 分组键任一成分缺失或为空的行不参与聚合
func AggregateSegments(table *model.Table) []model.SegmentAggregate {
	idIdx := table.ColumnIndex(model.ColResponseID)
	countryIdx := table.ColumnIndex(model.ColCountry)
	industryIdx := table.ColumnIndex(model.ColIndustry)
	rangeIdx := table.ColumnIndex(model.ColRevenueRange)

	groups := make(map[model.SegmentKey][]string)
	for _, row := range table.Rows {
		country, okC := table.Cell(row, countryIdx)
		industry, okI := table.Cell(row, industryIdx)
		revenueRange, okR := table.Cell(row, rangeIdx)
		if !okC || !okI || !okR || country == "" || industry == "" || revenueRange == "" {
			continue
		}

		key := model.SegmentKey{
			Country:      country,
			Industry:     industry,
			RevenueRange: revenueRange,
		}
		id, _ := table.Cell(row, idIdx)
		groups[key] = append(groups[key], id)
	}

	aggregates := make([]model.SegmentAggregate, 0, len(groups))
	for key, ids := range groups {
		sort.SliceStable(ids, func(i, j int) bool {
			return lessID(ids[i], ids[j])
		})
		aggregates = append(aggregates, model.SegmentAggregate{
			Key:         key,
			Count:       len(ids),
			ResponseIDs: ids,
		})
	}

	// map 遍历无序，输出按键排序保证可复现
	sort.Slice(aggregates, func(i, j int) bool {
		a, b := aggregates[i].Key, aggregates[j].Key
		if a.Country != b.Country {
			return a.Country < b.Country
		}
		if a.Industry != b.Industry {
			return a.Industry < b.Industry
		}
		return a.RevenueRange < b.RevenueRange
	})

	return aggregates
}

// lessID ID 升序比较
// 两侧都能解析为数字时按数值比较（数值相等退回字典序保证全序），否则按字典序
func lessID(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		if fa != fb {
			return fa < fb
		}
		return a < b
	}
	return a < b
}
