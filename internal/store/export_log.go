package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// 导出状态
const (
	ExportSaved  = "saved"
	ExportFailed = "failed"
)

// ExportLog 一次保存尝试的记录
type ExportLog struct {
	ID              string    `json:"id"`
	Destination     string    `json:"destination"`
	PrimaryBlocks   int       `json:"primaryBlocks"`
	SecondaryBlocks int       `json:"secondaryBlocks"`
	DataRows        int       `json:"dataRows"`
	TaxonomyGroups  []string  `json:"taxonomyGroups"`
	Status          string    `json:"status"`
	ErrorMessage    string    `json:"errorMessage,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CreateExportLog 写入导出日志，返回日志 ID
func (s *Store) CreateExportLog(entry ExportLog) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	groups := entry.TaxonomyGroups
	if groups == nil {
		groups = []string{}
	}
	groupsJSON, err := json.Marshal(groups)
	if err != nil {
		return "", fmt.Errorf("failed to encode taxonomy groups: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO export_logs (id, destination, primary_blocks, secondary_blocks, data_rows,
			taxonomy_groups, status, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Destination, entry.PrimaryBlocks, entry.SecondaryBlocks, entry.DataRows,
		string(groupsJSON), entry.Status, entry.ErrorMessage, entry.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to create export log: %w", err)
	}
	return entry.ID, nil
}

// ListExportLogs 按时间倒序列出导出日志；limit <= 0 表示不限
func (s *Store) ListExportLogs(limit int) ([]ExportLog, error) {
	query := `
		SELECT id, destination, primary_blocks, secondary_blocks, data_rows,
			taxonomy_groups, status, error_message, created_at
		FROM export_logs
		ORDER BY created_at DESC, rowid DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query export logs: %w", err)
	}
	defer rows.Close()

	logs := []ExportLog{}
	for rows.Next() {
		var (
			l          ExportLog
			groupsJSON string
		)
		if err := rows.Scan(&l.ID, &l.Destination, &l.PrimaryBlocks, &l.SecondaryBlocks, &l.DataRows,
			&groupsJSON, &l.Status, &l.ErrorMessage, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan export log: %w", err)
		}
		if err := json.Unmarshal([]byte(groupsJSON), &l.TaxonomyGroups); err != nil {
			return nil, fmt.Errorf("failed to decode taxonomy groups: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
