package domain

import "context"

// NoteRepository 笔记仓储接口
// Missing rows are reported as gorm.ErrRecordNotFound.
type NoteRepository interface {
	// Insert 新增笔记，返回带 ID 与时间戳的笔记
	Insert(ctx context.Context, note *Note) (*Note, error)

	// FindByID 根据ID获取笔记
	FindByID(ctx context.Context, id int64) (*Note, error)

	// FindMatching 按条件查询笔记，按创建时间倒序
	FindMatching(ctx context.Context, filter NoteFilter) ([]*Note, error)

	// Update 覆盖摘要与内容并刷新更新时间
	Update(ctx context.Context, note *Note) (*Note, error)

	// Delete 物理删除笔记
	Delete(ctx context.Context, id int64) error

	// Count 笔记总数
	Count(ctx context.Context) (int64, error)
}
