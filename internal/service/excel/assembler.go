package excel

import (
	"fmt"
	"strings"

	"enrichment/internal/model"
	"enrichment/internal/parser"
)

// SecondaryHeaders 次级表头
var SecondaryHeaders = []string{"", "Packaging", "Selling", "Warning", "Concerns"}

// Assemble 将 SKU 块与 SEQ / NAME 块组装为单表文档。
// 任一块解析失败即返回错误，不产生部分结果。
func Assemble(primary, secondary []string) (*model.Document, error) {
	doc := &model.Document{}
	doc.Rows = append(doc.Rows, model.Row{Cells: parser.PrimaryHeaders(), Fill: model.FillHeader})

	seen := make(map[string]bool)
	for i, text := range primary {
		table, err := parser.ParsePrimary(text, i)
		if err != nil {
			return nil, err
		}
		for _, h := range table.Ignored {
			doc.Warnings = append(doc.Warnings, fmt.Sprintf("primary block %d: column %q ignored", i+1, h))
		}
		for _, row := range table.Rows {
			doc.Rows = append(doc.Rows, model.Row{Cells: row.Cells()})
			group := strings.TrimSpace(row.SellingTaxonomy)
			if group != "" && !seen[group] {
				seen[group] = true
				doc.Groups = append(doc.Groups, group)
			}
		}
	}

	if len(primary) == 0 && len(secondary) == 0 {
		return doc, nil
	}

	doc.Rows = append(doc.Rows,
		model.Row{},
		model.Row{Cells: append([]string{}, SecondaryHeaders...), Fill: model.FillSection},
	)

	for i, text := range secondary {
		table, err := parser.ParseSecondary(text, i)
		if err != nil {
			return nil, err
		}
		for _, h := range table.Ignored {
			doc.Warnings = append(doc.Warnings, fmt.Sprintf("secondary block %d: column %q ignored", i+1, h))
		}
		for _, row := range table.Rows {
			doc.Rows = append(doc.Rows, model.Row{Cells: row.Cells()})
		}
		doc.Rows = append(doc.Rows, model.Row{Fill: model.FillSection})
	}

	return doc, nil
}
