package reconcile

import (
	"fmt"
	"math"
	"sort"

	"quotafinder/internal/model"
)

// Process 执行完整对账：聚合 → 逆透视 → 左连接 → 产出两张结果表
// 输入表必须已通过 ValidateUniverse / ValidateData；
// 过程中的任何意外失败都包装为 ProcessingError，绝不返回部分结果
func Process(data, universe *model.Table, revenueRanges []string) ([]model.ExcessRespondentRow, []model.FulfillmentRow, error) {
	aggregates := AggregateSegments(data)

	quotaCells, err := UnpivotUniverse(universe, revenueRanges)
	if err != nil {
		return nil, nil, &ProcessingError{Err: err}
	}

	segments, err := leftJoin(aggregates, quotaCells)
	if err != nil {
		return nil, nil, &ProcessingError{Err: err}
	}

	excess, err := selectExcessRespondents(segments)
	if err != nil {
		return nil, nil, err
	}

	fulfillment := buildFulfillment(segments)

	return excess, fulfillment, nil
}

// leftJoin 将聚合结果与配额长表按分组键精确相等左连接
// 未命中配额的分组保留（QuotaAbsent），后续从完成度报告中排除
func leftJoin(aggregates []model.SegmentAggregate, quotaCells []model.QuotaCell) ([]model.ReconciledSegment, error) {
	quotas := make(map[model.SegmentKey]float64, len(quotaCells))
	for _, cell := range quotaCells {
		if _, exists := quotas[cell.Key]; exists {
			// 校验阶段已拒绝重复 (Country, Industry)，此处兜底防止连接扇出
			return nil, fmt.Errorf("duplicate quota key (%s, %s, %s)",
				cell.Key.Country, cell.Key.Industry, cell.Key.RevenueRange)
		}
		quotas[cell.Key] = cell.Quota
	}

	segments := make([]model.ReconciledSegment, 0, len(aggregates))
	for _, agg := range aggregates {
		seg := model.ReconciledSegment{
			Key:         agg.Key,
			Count:       agg.Count,
			ResponseIDs: agg.ResponseIDs,
		}

		quota, ok := quotas[agg.Key]
		if !ok {
			seg.QuotaState = model.QuotaAbsent
		} else {
			seg.Quota = quota
			if quota == 0 {
				seg.QuotaState = model.QuotaZero
			} else {
				seg.QuotaState = model.QuotaPositive
			}
			// excess 永不为负
			seg.Excess = float64(agg.Count) - quota
			if seg.Excess < 0 {
				seg.Excess = 0
			}
		}

		segments = append(segments, seg)
	}

	return segments, nil
}

// selectExcessRespondents 为每个超额分组取升序 ID 列表的末尾 excess 个
// 取"最大的 N 个 ID"是确定性的归属规则，重跑与乱序输入都能复现
func selectExcessRespondents(segments []model.ReconciledSegment) ([]model.ExcessRespondentRow, error) {
	rows := make([]model.ExcessRespondentRow, 0)
	for _, seg := range segments {
		if seg.QuotaState == model.QuotaAbsent || seg.Excess <= 0 {
			continue
		}

		n := int(seg.Excess)
		if n > len(seg.ResponseIDs) {
			return nil, newInternalError(
				"segment (%s, %s, %s): excess %d exceeds respondent count %d",
				seg.Key.Country, seg.Key.Industry, seg.Key.RevenueRange, n, len(seg.ResponseIDs))
		}

		selected := seg.ResponseIDs[len(seg.ResponseIDs)-n:]
		for _, id := range selected {
			rows = append(rows, model.ExcessRespondentRow{
				Country:      seg.Key.Country,
				Industry:     seg.Key.Industry,
				RevenueRange: seg.Key.RevenueRange,
				Quota:        seg.Quota,
				Count:        seg.Count,
				Excess:       seg.Excess,
				ResponseID:   id,
			})
		}
	}
	return rows, nil
}

// buildFulfillment 生成配额完成度报告
// 仅包含配额为正的分组：配额缺失或为零时完成度无定义，直接排除而不是除零
func buildFulfillment(segments []model.ReconciledSegment) []model.FulfillmentRow {
	rows := make([]model.FulfillmentRow, 0, len(segments))
	for _, seg := range segments {
		if seg.QuotaState != model.QuotaPositive {
			continue
		}

		percentage := float64(seg.Count) / seg.Quota * 100
		if percentage > 100 {
			percentage = 100
		}
		percentage = math.Round(percentage*100) / 100

		rows = append(rows, model.FulfillmentRow{
			Country:      seg.Key.Country,
			Industry:     seg.Key.Industry,
			RevenueRange: seg.Key.RevenueRange,
			Count:        seg.Count,
			Quota:        seg.Quota,
			Fulfillment:  percentage,
		})
	}

	// 完成度降序；并列（含全部封顶 100 的分组）之间保持稳定顺序
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Fulfillment > rows[j].Fulfillment
	})

	return rows
}
