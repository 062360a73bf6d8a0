package model

import (
	"errors"
	"fmt"
)

// 错误类型（通过 errors.Is 判断）
var (
	ErrEmptyInput        = errors.New("input is empty")
	ErrParse             = errors.New("malformed tab-delimited data")
	ErrFileWrite         = errors.New("file write failed")
	ErrSaveCancelled     = errors.New("save cancelled")
	ErrHistoryIndex      = errors.New("history index out of range")
	ErrHistoryRead       = errors.New("history file unreadable")
	ErrActionUnavailable = errors.New("action not available")
)

// ParseError 粘贴数据解析失败
type ParseError struct {
	Kind  BlockKind // primary / secondary
	Index int       // 块序号（从 0 开始）
	Line  int       // 出错行号（从 1 开始，0 表示未知）
	Err   error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s block %d, line %d: %v", e.Kind, e.Index+1, e.Line, e.Err)
	}
	return fmt.Sprintf("%s block %d: %v", e.Kind, e.Index+1, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is 使 errors.Is(err, ErrParse) 成立
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ErrorKind 返回错误类别名称（API / UI 展示用）
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrFileWrite):
		return "file_write"
	case errors.Is(err, ErrHistoryIndex):
		return "history_index"
	case errors.Is(err, ErrHistoryRead):
		return "history_read"
	case errors.Is(err, ErrActionUnavailable):
		return "action_unavailable"
	default:
		return "internal"
	}
}
