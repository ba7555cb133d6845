package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"quotafinder/internal/model"
)

// 导出工作簿的 Sheet 名
const (
	SheetExcess      = "Excess Respondents"
	SheetFulfillment = "Quota Fulfillment"
)

// WriteCSV 将表格写为 CSV（表头 + 数据行）
// 同样的输入表写出的字节序列完全一致
func WriteCSV(table *model.Table, w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range table.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// BuildWorkbook 将两张结果表写入同一个 Excel 工作簿
// 第一个 Sheet 为超额受访者，第二个为配额完成度
func BuildWorkbook(excess, fulfillment *model.Table) (*excelize.File, error) {
	file := excelize.NewFile()

	// 默认创建的 Sheet1 改名复用
	if err := file.SetSheetName("Sheet1", SheetExcess); err != nil {
		return nil, err
	}
	if _, err := file.NewSheet(SheetFulfillment); err != nil {
		return nil, err
	}

	if err := writeSheet(file, SheetExcess, excess); err != nil {
		return nil, err
	}
	if err := writeSheet(file, SheetFulfillment, fulfillment); err != nil {
		return nil, err
	}

	return file, nil
}

// writeSheet 写单个 Sheet：第一行表头，随后为数据行
func writeSheet(file *excelize.File, sheet string, table *model.Table) error {
	for col, name := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}

	for rowIdx, row := range table.Rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	return nil
}
