package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"enrichment/internal/model"
)

// PrimaryTable SKU 块解析结果
type PrimaryTable struct {
	Rows    []PrimaryRow
	Ignored []string // 不在固定列中的表头
}

// SecondaryTable SEQ / NAME 块解析结果
type SecondaryTable struct {
	Rows    []SecondaryRow
	Ignored []string
}

type table struct {
	header []string
	rows   [][]string
	lines  []int
}

// ParsePrimary 解析 Step 1 粘贴的 SKU 数据
// index 仅用于错误信息
func ParsePrimary(text string, index int) (*PrimaryTable, error) {
	t, err := readTable(text)
	if err != nil {
		return nil, wrapParseError(model.BlockPrimary, index, err)
	}
	rows, ignored, err := mapRows(t, primarySchema)
	if err != nil {
		return nil, wrapParseError(model.BlockPrimary, index, err)
	}
	return &PrimaryTable{Rows: rows, Ignored: ignored}, nil
}

// ParseSecondary 解析 Step 2 粘贴的 SEQ / NAME 数据，缺失列按空字符串处理
func ParseSecondary(text string, index int) (*SecondaryTable, error) {
	t, err := readTable(text)
	if err != nil {
		return nil, wrapParseError(model.BlockSecondary, index, err)
	}
	rows, ignored, err := mapRows(t, secondarySchema)
	if err != nil {
		return nil, wrapParseError(model.BlockSecondary, index, err)
	}
	return &SecondaryTable{Rows: rows, Ignored: ignored}, nil
}

// FirstSKU 返回块内第一行的 SKU #
func FirstSKU(text string) (string, error) {
	t, err := ParsePrimary(text, 0)
	if err != nil {
		return "", err
	}
	if len(t.Rows) == 0 {
		return "", fmt.Errorf("%w: no data rows", model.ErrParse)
	}
	return t.Rows[0].SKU, nil
}

type lineError struct {
	line int
	err  error
}

func (e *lineError) Error() string { return e.err.Error() }
func (e *lineError) Unwrap() error { return e.err }

func wrapParseError(kind model.BlockKind, index int, err error) error {
	pe := &model.ParseError{Kind: kind, Index: index, Err: err}
	var le *lineError
	if errors.As(err, &le) {
		pe.Line = le.line
		pe.Err = le.err
	}
	var ce *csv.ParseError
	if errors.As(err, &ce) {
		pe.Line = ce.Line
	}
	return pe
}

func readTable(text string) (*table, error) {
	text = strings.TrimPrefix(text, "\ufeff")
	t, err := readQuoted(text)
	if errors.Is(err, csv.ErrQuote) || errors.Is(err, csv.ErrBareQuote) {
		return readLiteral(text)
	}
	return t, err
}

// readQuoted 按 RFC 4180 引号规则读取，支持带引号的多行单元格
func readQuoted(text string) (*table, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = '\t'
	r.FieldsPerRecord = -1

	t := &table{}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := r.FieldPos(0)
		if err := t.add(rec, line); err != nil {
			return nil, err
		}
	}
	return t.done()
}

// readLiteral 不做引号处理，逐行按制表符切分，引号原样保留在单元格中
func readLiteral(text string) (*table, error) {
	t := &table{}
	for i, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		if raw == "" {
			continue
		}
		if err := t.add(strings.Split(raw, "\t"), i+1); err != nil {
			return nil, err
		}
	}
	return t.done()
}

func (t *table) add(rec []string, line int) error {
	if t.header == nil {
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		t.header = rec
		return nil
	}
	if isBlankRecord(rec) {
		return nil
	}
	if len(rec) > len(t.header) {
		return &lineError{
			line: line,
			err:  fmt.Errorf("expected %d fields, saw %d", len(t.header), len(rec)),
		}
	}
	t.rows = append(t.rows, rec)
	t.lines = append(t.lines, line)
	return nil
}

func (t *table) done() (*table, error) {
	if t.header == nil {
		return nil, errors.New("missing header row")
	}
	return t, nil
}

func mapRows[T any](t *table, schema []column[T]) ([]T, []string, error) {
	index := make(map[string]int, len(t.header))
	for i, h := range t.header {
		h = NormalizeColumnName(h)
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	known := make(map[string]bool, len(schema))
	for _, c := range schema {
		known[c.name] = true
		if _, ok := index[c.name]; !ok && c.required {
			return nil, nil, fmt.Errorf("missing required column %q", c.name)
		}
	}
	var ignored []string
	for _, h := range t.header {
		h = NormalizeColumnName(h)
		if h != "" && !known[h] {
			ignored = append(ignored, h)
		}
	}

	rows := make([]T, 0, len(t.rows))
	for _, rec := range t.rows {
		var row T
		for _, c := range schema {
			i, ok := index[c.name]
			if !ok || i >= len(rec) {
				continue
			}
			*c.field(&row) = rec[i]
		}
		rows = append(rows, row)
	}
	return rows, ignored, nil
}

func isBlankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
