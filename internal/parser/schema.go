package parser

// 主表（SKU）列名
const (
	ColumnSKU                = "SKU #"
	ColumnTitle              = "SKU Title (English)"
	ColumnIdentityModifier   = "Attribute value of PKG Product Identity Modifier (English, DEFAULT)"
	ColumnProductIdentity    = "Attribute value of PKG Product Identity (English, DEFAULT)"
	ColumnCustomCallout      = "Attribute value of PKG Custom Callout (English, DEFAULT)"
	ColumnIdealFor           = "Attribute value of Ideal for (English, DEFAULT)"
	ColumnBrandGroups        = "Structure group(s) (Brands Structure)"
	ColumnPackageType        = "PKG Current Package Type"
	ColumnSellingTaxonomy    = "Structure assignments (Selling Taxonomy)"
	ColumnPromotionStructure = "Structure assignments (Promotion Structure)"
	ColumnItemStatus         = "MMS Item Status"
	ColumnVendor             = "Vendor"
)

// 次表（SEQ / NAME）列名
const (
	ColumnName           = "Name (English)"
	ColumnAttributeValue = "Attribute value (English, DEFAULT)"
	ColumnPurpose        = "Purpose"
)

// PrimaryRow SKU 行
type PrimaryRow struct {
	SKU                string `json:"sku"`
	Title              string `json:"title"`
	IdentityModifier   string `json:"identityModifier"`
	ProductIdentity    string `json:"productIdentity"`
	CustomCallout      string `json:"customCallout"`
	IdealFor           string `json:"idealFor"`
	BrandGroups        string `json:"brandGroups"`
	PackageType        string `json:"packageType"`
	SellingTaxonomy    string `json:"sellingTaxonomy"`
	PromotionStructure string `json:"promotionStructure"`
	ItemStatus         string `json:"itemStatus"`
	Vendor             string `json:"vendor"`
}

// SecondaryRow SEQ / NAME 行
type SecondaryRow struct {
	Name           string `json:"name"`
	AttributeValue string `json:"attributeValue"`
	Purpose        string `json:"purpose"`
}

type column[T any] struct {
	name     string
	required bool
	field    func(*T) *string
}

var primarySchema = []column[PrimaryRow]{
	{ColumnSKU, true, func(r *PrimaryRow) *string { return &r.SKU }},
	{ColumnTitle, false, func(r *PrimaryRow) *string { return &r.Title }},
	{ColumnIdentityModifier, false, func(r *PrimaryRow) *string { return &r.IdentityModifier }},
	{ColumnProductIdentity, false, func(r *PrimaryRow) *string { return &r.ProductIdentity }},
	{ColumnCustomCallout, false, func(r *PrimaryRow) *string { return &r.CustomCallout }},
	{ColumnIdealFor, false, func(r *PrimaryRow) *string { return &r.IdealFor }},
	{ColumnBrandGroups, false, func(r *PrimaryRow) *string { return &r.BrandGroups }},
	{ColumnPackageType, false, func(r *PrimaryRow) *string { return &r.PackageType }},
	{ColumnSellingTaxonomy, false, func(r *PrimaryRow) *string { return &r.SellingTaxonomy }},
	{ColumnPromotionStructure, false, func(r *PrimaryRow) *string { return &r.PromotionStructure }},
	{ColumnItemStatus, false, func(r *PrimaryRow) *string { return &r.ItemStatus }},
	{ColumnVendor, false, func(r *PrimaryRow) *string { return &r.Vendor }},
}

var secondarySchema = []column[SecondaryRow]{
	{ColumnName, false, func(r *SecondaryRow) *string { return &r.Name }},
	{ColumnAttributeValue, false, func(r *SecondaryRow) *string { return &r.AttributeValue }},
	{ColumnPurpose, false, func(r *SecondaryRow) *string { return &r.Purpose }},
}

// PrimaryHeaders 输出表的 12 个固定表头
func PrimaryHeaders() []string {
	headers := make([]string, len(primarySchema))
	for i, c := range primarySchema {
		headers[i] = c.name
	}
	return headers
}

// Cells 按固定列顺序输出
func (r PrimaryRow) Cells() []string {
	cells := make([]string, len(primarySchema))
	for i, c := range primarySchema {
		cells[i] = *c.field(&r)
	}
	return cells
}

// Cells 输出为 ["", Name, AttributeValue, Purpose]
func (r SecondaryRow) Cells() []string {
	return []string{"", r.Name, r.AttributeValue, r.Purpose}
}
