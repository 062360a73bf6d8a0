package model

// BlockKind 粘贴块类型
type BlockKind string

const (
	BlockPrimary   BlockKind = "primary"   // Step 1: SKU 数据
	BlockSecondary BlockKind = "secondary" // Step 2: SEQ / NAME 数据
)

// SecondaryBlock Step 2 粘贴块，显式记录对应的 SKU 块序号
type SecondaryBlock struct {
	Text         string `json:"text"`
	PrimaryIndex int    `json:"primaryIndex"`
}

// Run 一次完成的会话（原始粘贴文本）
type Run struct {
	SKUData     []string `json:"sku_data"`
	SeqNameData []string `json:"seq_name_data"`
}

// Clone 深拷贝
func (r Run) Clone() Run {
	return Run{
		SKUData:     append([]string{}, r.SKUData...),
		SeqNameData: append([]string{}, r.SeqNameData...),
	}
}
