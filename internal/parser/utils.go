package parser

import (
	"regexp"
	"strings"
)

var spaceRun = regexp.MustCompile(`[\s\x{00A0}\x{200B}\x{FEFF}]+`)

// NormalizeColumnName 规范化列名：去除首尾空白，连续空白（含不间断空格）压缩为一个空格
func NormalizeColumnName(name string) string {
	name = spaceRun.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}
