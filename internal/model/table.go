package model

import "fmt"

// Table 已解析的表格数据
// 第一行表头之后的所有数据行均为字符串单元格；
// 行长度可以短于表头（尾部单元格缺失），这与空字符串单元格是两种状态。
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// NewTable 创建表格
func NewTable(columns []string, rows [][]string) *Table {
	return &Table{
		Columns: columns,
		Rows:    rows,
	}
}

// ColumnIndex 查找列索引（精确匹配，区分大小写）
// 未找到返回 -1
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// HasColumn 判断列是否存在
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// MissingColumns 返回 required 中缺失的列名（保持入参顺序）
func (t *Table) MissingColumns(required []string) []string {
	missing := make([]string, 0)
	for _, name := range required {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Cell 读取单元格
// ok=false 表示该行没有这个单元格（行比表头短），与空字符串区分
func (t *Table) Cell(row []string, colIdx int) (value string, ok bool) {
	if colIdx < 0 || colIdx >= len(row) {
		return "", false
	}
	return row[colIdx], true
}

// RowCount 数据行数
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// Validate 基础结构检查：表头非空且无重复列名
func (t *Table) Validate() error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("table has no header row")
	}
	seen := make(map[string]bool, len(t.Columns))
	for _, col := range t.Columns {
		if seen[col] {
			return fmt.Errorf("duplicate column name: %q", col)
		}
		seen[col] = true
	}
	return nil
}
