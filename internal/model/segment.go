package model

// 数据文件与配额文件的列名约定（区分大小写）
const (
	ColResponseID   = "responseid"
	ColCountry      = "Country"
	ColIndustry     = "Industry"
	ColRevenueRange = "Revenue Range"
)

// SegmentKey 分组键 (Country, Industry, Revenue Range)
// 精确匹配，不做任何大小写折叠或去空格归一化
type SegmentKey struct {
	Country      string `json:"country"`
	Industry     string `json:"industry"`
	RevenueRange string `json:"revenueRange"`
}

// SegmentAggregate 按分组键聚合后的受访者数据
type SegmentAggregate struct {
	Key         SegmentKey `json:"key"`
	Count       int        `json:"count"`
	ResponseIDs []string   `json:"responseIds"` // 按 ID 升序
}

// QuotaCell 配额表逆透视后的长表行
type QuotaCell struct {
	Key   SegmentKey `json:"key"`
	Quota float64    `json:"quota"`
}

// QuotaState 配额三态：缺失 / 为零 / 为正
type QuotaState int

const (
	QuotaAbsent   QuotaState = iota // 配额表中没有该分组
	QuotaZero                       // 配额为 0
	QuotaPositive                   // 配额为正数
)

// ReconciledSegment 左连接后的对账行
type ReconciledSegment struct {
	Key         SegmentKey
	Count       int
	ResponseIDs []string
	QuotaState  QuotaState
	Quota       float64 // QuotaAbsent 时无意义
	Excess      float64 // max(0, count-quota)，QuotaAbsent 时为 0
}

// ExcessRespondentRow 超额受访者行（每个被选中的 ID 一行）
type ExcessRespondentRow struct {
	Country      string  `json:"country"`
	Industry     string  `json:"industry"`
	RevenueRange string  `json:"revenueRange"`
	Quota        float64 `json:"quota"`
	Count        int     `json:"count"`
	Excess       float64 `json:"excess"`
	ResponseID   string  `json:"responseId"`
}

// FulfillmentRow 配额完成度行（仅配额为正的分组）
type FulfillmentRow struct {
	Country      string  `json:"country"`
	Industry     string  `json:"industry"`
	RevenueRange string  `json:"revenueRange"`
	Count        int     `json:"count"`
	Quota        float64 `json:"quota"`
	Fulfillment  float64 `json:"fulfillmentPercentage"` // 0-100，保留两位小数
}
