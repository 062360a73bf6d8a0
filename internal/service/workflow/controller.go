package workflow

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"enrichment/internal/model"
	"enrichment/internal/service/excel"
	"enrichment/internal/service/history"
	"enrichment/internal/session"
	"enrichment/internal/store"
)

// SaveFunc 目标选择与写盘：返回保存位置（文件名或下载地址）。
// 用户取消时返回 model.ErrSaveCancelled。
type SaveFunc func(f *excelize.File) (string, error)

// ExportLogger 导出日志记录（store.Store 实现）
type ExportLogger interface {
	CreateExportLog(entry store.ExportLog) (string, error)
}

// Result 生成结果
type Result struct {
	Destination string   `json:"destination"`
	DataRows    int      `json:"dataRows"`
	Groups      []string `json:"groups"`
	Warnings    []string `json:"warnings,omitempty"`
	View        View     `json:"session"`
}

// RecallResult 历史回填结果
type RecallResult struct {
	Index   int      `json:"index"`
	Summary []string `json:"summary"`
	View    View     `json:"session"`
}

// Controller 持有唯一会话并串行执行用户操作
type Controller struct {
	mu       sync.Mutex
	session  *session.Session
	exporter *excel.Exporter
	history  *history.Store
	exports  ExportLogger
	logger   *zap.Logger
	pending  map[string]*pendingExport
}

// NewController 创建控制器；exports 可为 nil
func NewController(exporter *excel.Exporter, hist *history.Store, exports ExportLogger, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		session:  session.New(),
		exporter: exporter,
		history:  hist,
		exports:  exports,
		logger:   logger,
		pending:  make(map[string]*pendingExport),
	}
}

// View 当前会话快照
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return buildView(c.session, "")
}

// PastePrimary Step 1
func (c *Controller) PastePrimary(text string) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.session.PasteRecord(text); err != nil {
		c.logger.Info("Step 1 失败", zap.Error(err))
		return buildView(c.session, ""), fmt.Errorf("step 1: %w", err)
	}
	c.logger.Debug("SKU 块已添加", zap.Int("blocks", len(c.session.PrimaryBlocks())))
	return buildView(c.session, "Step 1 completed. Now proceed to Step 2."), nil
}

// PasteSecondary Step 2
func (c *Controller) PasteSecondary(text string) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.session.PasteSecondary(text); err != nil {
		c.logger.Info("Step 2 失败", zap.Error(err))
		return buildView(c.session, ""), fmt.Errorf("step 2: %w", err)
	}
	c.logger.Debug("SEQ/NAME 块已添加", zap.Int("blocks", len(c.session.SecondaryBlocks())))
	return buildView(c.session, "Step 2 completed. You can add another SKU, skip this data, or complete the process."), nil
}

// AddAnother 准备粘贴下一个 SKU
func (c *Controller) AddAnother() (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.session.AddAnother(); err != nil {
		return buildView(c.session, ""), err
	}
	return buildView(c.session, "Ready for another SKU. Please paste SKU data for the next product."), nil
}

// Skip 跳过当前 SKU 的 Step 2
func (c *Controller) Skip() (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.session.Skip(); err != nil {
		return buildView(c.session, ""), err
	}
	c.logger.Info("Step 2 已跳过", zap.Strings("skippedGroups", c.session.SkippedGroups()))
	return buildView(c.session, "All data for Step 2 has been skipped for the current SKU."), nil
}

// GoBack 撤销最近一次粘贴
func (c *Controller) GoBack() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := len(c.session.SecondaryBlocks())
	if !c.session.GoBack() {
		return buildView(c.session, "")
	}
	if len(c.session.SecondaryBlocks()) < before {
		return buildView(c.session, "Went back to Step 2.")
	}
	return buildView(c.session, "Went back to Step 1.")
}

// Clear 清空全部数据
func (c *Controller) Clear() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session.Reset()
	return buildView(c.session, "All data cleared. Ready to start fresh.")
}

// Staged 已写出但尚未确认交付的导出（Web 下载场景）
type Staged struct {
	ID     string
	Result Result
}

type pendingExport struct {
	run   model.Run
	doc   *model.Document
	entry store.ExportLog
}

// Complete 组装、保存并记录历史。
// 保存失败或取消时会话保持不变，也不写历史。
func (c *Controller) Complete(save SaveFunc) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.prepare(save)
	if err != nil {
		return nil, err
	}
	res := c.commit(p)
	return &res, nil
}

// Stage 组装并写出文件，但会话、历史和导出日志要等 Commit 才更新
func (c *Controller) Stage(save SaveFunc) (*Staged, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.prepare(save)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	c.pending[id] = p
	c.logger.Debug("导出待交付", zap.String("id", id), zap.String("destination", p.entry.Destination))
	return &Staged{
		ID:     id,
		Result: c.result(p, withWarnings("Excel file is ready. Save the download to finish.", p.doc.Warnings)),
	}, nil
}

// Commit 文件已交付：标记完成、写历史、记录导出日志
func (c *Controller) Commit(id string) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[id]
	if !ok {
		return nil, fmt.Errorf("%w: export %s is no longer pending", model.ErrActionUnavailable, id)
	}
	delete(c.pending, id)
	res := c.commit(p)
	return &res, nil
}

// Discard 文件未交付：会话不变，只记录一条失败日志
func (c *Controller) Discard(id string, reason error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[id]
	if !ok {
		return
	}
	delete(c.pending, id)
	if !errors.Is(reason, model.ErrFileWrite) {
		reason = fmt.Errorf("%w: %w", model.ErrFileWrite, reason)
	}
	p.entry.Status = store.ExportFailed
	p.entry.ErrorMessage = reason.Error()
	c.recordExport(p.entry)
	c.logger.Info("导出未交付", zap.String("id", id), zap.Error(reason))
}

func (c *Controller) prepare(save SaveFunc) (*pendingExport, error) {
	if err := c.session.CanComplete(); err != nil {
		return nil, err
	}

	run := c.session.Run()
	doc, err := excel.Assemble(run.SKUData, run.SeqNameData)
	if err != nil {
		c.logger.Warn("组装失败", zap.Error(err))
		return nil, fmt.Errorf("an error occurred while creating the Excel file: %w", err)
	}
	for _, w := range doc.Warnings {
		c.logger.Warn("忽略未知列", zap.String("detail", w))
	}

	f, err := c.exporter.Export(doc)
	if err != nil {
		return nil, fmt.Errorf("an error occurred while creating the Excel file: %w", err)
	}
	defer f.Close()

	entry := store.ExportLog{
		PrimaryBlocks:   len(run.SKUData),
		SecondaryBlocks: len(run.SeqNameData),
		DataRows:        doc.DataRows(),
		TaxonomyGroups:  doc.Groups,
	}

	dest, err := save(f)
	entry.Destination = dest
	if err != nil {
		entry.Status = store.ExportFailed
		entry.ErrorMessage = err.Error()
		c.recordExport(entry)
		if !errors.Is(err, model.ErrFileWrite) {
			err = fmt.Errorf("%w: %w", model.ErrFileWrite, err)
		}
		c.logger.Warn("保存失败", zap.Error(err))
		return nil, err
	}
	return &pendingExport{run: run, doc: doc, entry: entry}, nil
}

func (c *Controller) commit(p *pendingExport) Result {
	// 待交付期间会话可能已被修改，此时只登记分组
	if sameRun(c.session.Run(), p.run) {
		c.session.MarkComplete(p.doc.Groups)
	} else {
		c.session.RegisterGroups(p.doc.Groups)
	}
	if err := c.history.Save(p.run); err != nil {
		c.logger.Error("保存历史失败", zap.Error(err))
	}
	p.entry.Status = store.ExportSaved
	c.recordExport(p.entry)

	c.logger.Info("Excel 已生成",
		zap.String("destination", p.entry.Destination),
		zap.Int("rows", p.entry.DataRows),
		zap.Int("groups", len(p.doc.Groups)))

	return c.result(p, withWarnings(fmt.Sprintf("File saved as %s", p.entry.Destination), p.doc.Warnings))
}

func (c *Controller) result(p *pendingExport, message string) Result {
	return Result{
		Destination: p.entry.Destination,
		DataRows:    p.entry.DataRows,
		Groups:      p.doc.Groups,
		Warnings:    p.doc.Warnings,
		View:        buildView(c.session, message),
	}
}

func withWarnings(message string, warnings []string) string {
	if len(warnings) == 0 {
		return message
	}
	return fmt.Sprintf("%s (dropped: %s)", message, strings.Join(warnings, "; "))
}

func sameRun(a, b model.Run) bool {
	return slices.Equal(a.SKUData, b.SKUData) && slices.Equal(a.SeqNameData, b.SeqNameData)
}

// Recall 回填第 index 条历史
func (c *Controller) Recall(index int) (*RecallResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, err := c.history.Recall(index)
	if err != nil {
		return nil, fmt.Errorf("error recalling run %d: %w", index+1, err)
	}
	c.session.Load(entry.Run)
	c.logger.Info("历史已回填", zap.Int("index", index), zap.Strings("skus", entry.Summary))
	return &RecallResult{
		Index:   index,
		Summary: entry.Summary,
		View:    buildView(c.session, fmt.Sprintf("Recalled run %d: %s", index+1, strings.Join(entry.Summary, ", "))),
	}, nil
}

// Load 用给定的数据块替换当前会话（批量模式）
func (c *Controller) Load(run model.Run) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session.Load(run)
	return buildView(c.session, fmt.Sprintf("Loaded %d SKU blocks and %d SEQ/NAME blocks.", len(run.SKUData), len(run.SeqNameData)))
}

// History 历史列表
func (c *Controller) History() []history.Entry {
	entries, err := c.history.List()
	if err != nil {
		c.logger.Warn("读取历史失败，按空历史处理", zap.Error(err))
	}
	return entries
}

func (c *Controller) recordExport(entry store.ExportLog) {
	if c.exports == nil {
		return
	}
	if _, err := c.exports.CreateExportLog(entry); err != nil {
		c.logger.Error("写入导出日志失败", zap.Error(err))
	}
}
