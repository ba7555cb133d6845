package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"quotafinder/internal/model"
)

// ErrUnsupportedFormat 文件扩展名既不是 .csv 也不是 .xlsx
var ErrUnsupportedFormat = errors.New("unsupported file format, please upload a CSV or Excel file")

// ReadTable 根据文件名后缀读取 CSV 或 Excel 为表格
// 第一行作为表头；数据行允许比表头短（尾部单元格视为缺失）
func ReadTable(filename string, r io.Reader) (*model.Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return readCSV(r)
	case ".xlsx":
		return readXLSX(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// readCSV 读取 CSV
func readCSV(r io.Reader) (*model.Table, error) {
	cr := csv.NewReader(r)
	// 行宽不强制一致：短行表示尾部单元格缺失
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("file is empty")
	}

	table := model.NewTable(records[0], records[1:])
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// readXLSX 读取 Excel 工作簿的第一个 Sheet
func readXLSX(r io.Reader) (*model.Table, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, errors.New("file is empty")
	}

	table := model.NewTable(rows[0], rows[1:])
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}
