// Package domain 定义领域模型和接口
package domain

import (
	"strings"
	"time"
)

// Note 笔记领域模型
type Note struct {
	ID        int64
	Excerpt   string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NoteFilter 笔记查询条件
type NoteFilter struct {
	// ExcerptContains case sensitive substring of excerpt, empty matches all
	// ExcerptContains 摘要包含的子串（区分大小写），为空时匹配全部
	ExcerptContains string
}

// Match reports whether n satisfies the filter.
func (f NoteFilter) Match(n *Note) bool {
	return strings.Contains(n.Excerpt, f.ExcerptContains)
}

// NewerThan reports whether n lists before other: created_at desc, then id desc.
// NewerThan 列表排序规则：创建时间倒序，其次 ID 倒序
func (n *Note) NewerThan(other *Note) bool {
	if !n.CreatedAt.Equal(other.CreatedAt) {
		return n.CreatedAt.After(other.CreatedAt)
	}
	return n.ID > other.ID
}
