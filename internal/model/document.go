package model

// Fill 行填充色
type Fill int

const (
	FillNone    Fill = iota
	FillHeader       // 主表头（颜色 A）
	FillSection      // 次级表头与分隔行（颜色 B）
)

// Row 输出行
type Row struct {
	Cells []string `json:"cells"`
	Fill  Fill     `json:"fill"`
}

// IsBlank 是否空行
func (r Row) IsBlank() bool {
	for _, c := range r.Cells {
		if c != "" {
			return false
		}
	}
	return true
}

// Document 组装后的单表文档
type Document struct {
	Rows     []Row    `json:"rows"`
	Groups   []string `json:"groups"` // 按出现顺序去重的 Selling Taxonomy 值
	Warnings []string `json:"warnings,omitempty"`
}

// DataRows 非表头、非空行的数量
func (d *Document) DataRows() int {
	n := 0
	for _, r := range d.Rows {
		if r.Fill == FillNone && !r.IsBlank() {
			n++
		}
	}
	return n
}
