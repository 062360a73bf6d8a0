package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"enrichment/internal/model"
)

// Options 导出样式配置
type Options struct {
	SheetName   string
	HeaderFill  string // 主表头颜色 A
	SectionFill string // 次级表头 / 分隔行颜色 B
}

// DefaultOptions 默认配置（黄色表头，浅绿分隔）
func DefaultOptions() Options {
	return Options{
		SheetName:   "Enrichment",
		HeaderFill:  "FFFF00",
		SectionFill: "D0F0C0",
	}
}

// Exporter Excel导出器
type Exporter struct {
	opts Options
}

// NewExporter 创建导出器，空字段使用默认值
func NewExporter(opts Options) *Exporter {
	def := DefaultOptions()
	if opts.SheetName == "" {
		opts.SheetName = def.SheetName
	}
	if opts.HeaderFill == "" {
		opts.HeaderFill = def.HeaderFill
	}
	if opts.SectionFill == "" {
		opts.SectionFill = def.SectionFill
	}
	return &Exporter{opts: opts}
}

// SheetName 工作表名称
func (e *Exporter) SheetName() string { return e.opts.SheetName }

// Export 将文档写入单个工作表
func (e *Exporter) Export(doc *model.Document) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := e.opts.SheetName
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#" + e.opts.HeaderFill}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}
	sectionStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#" + e.opts.SectionFill}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("section style: %w", err)
	}

	for i, row := range doc.Rows {
		r := i + 1
		if len(row.Cells) > 0 {
			cell, _ := excelize.CoordinatesToCellName(1, r)
			cells := make([]interface{}, len(row.Cells))
			for j, v := range row.Cells {
				cells[j] = v
			}
			if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
				f.Close()
				return nil, fmt.Errorf("write row %d: %w", r, err)
			}
		}

		var style, width int
		switch row.Fill {
		case model.FillHeader:
			style, width = headerStyle, len(row.Cells)
		case model.FillSection:
			style, width = sectionStyle, max(len(row.Cells), len(SecondaryHeaders))
		default:
			continue
		}
		if width == 0 {
			continue
		}
		first, _ := excelize.CoordinatesToCellName(1, r)
		last, _ := excelize.CoordinatesToCellName(width, r)
		if err := f.SetCellStyle(sheet, first, last, style); err != nil {
			f.Close()
			return nil, fmt.Errorf("style row %d: %w", r, err)
		}
	}

	// 设置列宽
	f.SetColWidth(sheet, "A", "A", 14)
	f.SetColWidth(sheet, "B", "B", 40)
	f.SetColWidth(sheet, "C", "L", 24)

	return f, nil
}
