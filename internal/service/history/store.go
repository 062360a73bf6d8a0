package history

import (
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"enrichment/internal/model"
	"enrichment/internal/parser"
)

// DefaultLimit 保留的历史条数
const DefaultLimit = 3

// fileData 历史文件结构：{"runs": [...]}，最新在前
type fileData struct {
	Runs []model.Run `json:"runs"`
}

// Entry 历史记录及其 SKU 摘要
type Entry struct {
	Index   int       `json:"index"`
	Run     model.Run `json:"run"`
	Summary []string  `json:"summary"`
}

// Store 最近几次运行的 JSON 历史
type Store struct {
	path   string
	limit  int
	logger *zap.Logger
}

// NewStore 创建历史存储；limit <= 0 时使用 DefaultLimit
func NewStore(path string, limit int, logger *zap.Logger) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, limit: limit, logger: logger}
}

// Path 历史文件路径
func (s *Store) Path() string { return s.path }

// Load 读取历史。文件不存在返回空列表；文件损坏时同样返回空列表，
// 并附带 ErrHistoryRead 供调用方记录。
func (s *Store) Load() ([]model.Run, error) {
	var data fileData
	if err := readJSON(s.path, &data); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []model.Run{}, nil
		}
		return []model.Run{}, fmt.Errorf("%w: %s: %v", model.ErrHistoryRead, s.path, err)
	}
	if data.Runs == nil {
		data.Runs = []model.Run{}
	}
	return data.Runs, nil
}

// Save 将本次运行插入最前，只保留最近 limit 条
func (s *Store) Save(run model.Run) error {
	runs, err := s.Load()
	if err != nil {
		s.logger.Warn("历史文件损坏，将被覆盖", zap.String("path", s.path), zap.Error(err))
	}

	runs = append([]model.Run{run.Clone()}, runs...)
	if len(runs) > s.limit {
		runs = runs[:s.limit]
	}

	if err := writeJSONAtomic(s.path, fileData{Runs: runs}); err != nil {
		return fmt.Errorf("write history %s: %w", s.path, err)
	}
	s.logger.Debug("历史已保存", zap.String("path", s.path), zap.Int("runs", len(runs)))
	return nil
}

// Recall 取第 index 条历史（0 为最近一次）
func (s *Store) Recall(index int) (Entry, error) {
	runs, err := s.Load()
	if err != nil {
		s.logger.Warn("读取历史失败，按空历史处理", zap.Error(err))
	}
	if index < 0 || index >= len(runs) {
		return Entry{}, fmt.Errorf("%w: run %d requested, %d stored", model.ErrHistoryIndex, index+1, len(runs))
	}
	run := runs[index]
	return Entry{Index: index, Run: run, Summary: Summary(run)}, nil
}

// List 全部历史及摘要
func (s *Store) List() ([]Entry, error) {
	runs, err := s.Load()
	entries := make([]Entry, len(runs))
	for i, run := range runs {
		entries[i] = Entry{Index: i, Run: run, Summary: Summary(run)}
	}
	return entries, err
}

// Summary 每个 SKU 块第一行的 SKU #；无法解析的块记为 "?"
func Summary(run model.Run) []string {
	out := make([]string, 0, len(run.SKUData))
	for _, text := range run.SKUData {
		sku, err := parser.FirstSKU(text)
		if err != nil {
			sku = "?"
		}
		out = append(out, sku)
	}
	return out
}
