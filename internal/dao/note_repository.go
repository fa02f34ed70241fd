package dao

import (
	"context"
	"time"

	"github.com/haierkeys/fast-note-web/internal/domain"
	"github.com/haierkeys/fast-note-web/internal/model"
	"github.com/haierkeys/fast-note-web/pkg/timex"

	"gorm.io/gorm"
)

// noteRepository 实现 domain.NoteRepository 接口
type noteRepository struct {
	dao *Dao
}

// NewNoteRepository 创建 NoteRepository 实例
func NewNoteRepository(dao *Dao) domain.NoteRepository {
	return &noteRepository{dao: dao}
}

// toDomain 将数据库模型转换为领域模型
func (r *noteRepository) toDomain(m *model.Note) *domain.Note {
	if m == nil {
		return nil
	}
	return &domain.Note{
		ID:        m.ID,
		Excerpt:   m.Excerpt,
		Content:   m.Content,
		CreatedAt: time.Time(m.CreatedAt).UTC(),
		UpdatedAt: time.Time(m.UpdatedAt).UTC(),
	}
}

// toModel 将领域模型转换为数据库模型
func (r *noteRepository) toModel(note *domain.Note) *model.Note {
	if note == nil {
		return nil
	}
	return &model.Note{
		ID:        note.ID,
		Excerpt:   note.Excerpt,
		Content:   note.Content,
		CreatedAt: timex.Time(note.CreatedAt),
		UpdatedAt: timex.Time(note.UpdatedAt),
	}
}

// containsClause is a case sensitive substring match on excerpt for the active dialect.
func (r *noteRepository) containsClause() string {
	switch r.dao.Dialect() {
	case "postgres":
		return "strpos(excerpt, ?) > 0"
	case "mysql":
		return "INSTR(CAST(excerpt AS BINARY), ?) > 0"
	default:
		// sqlite instr 区分大小写，LIKE 则不区分
		return "instr(excerpt, ?) > 0"
	}
}

// utcNow is the timestamp written to created_at and updated_at.
// sqlite compares these columns as text, so every row must carry the same offset.
func utcNow() timex.Time {
	return timex.Time(time.Now().UTC())
}

// Insert 创建笔记，ID 与时间戳由存储分配
func (r *noteRepository) Insert(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	now := utcNow()
	m := r.toModel(note)
	m.ID = 0
	m.CreatedAt = now
	m.UpdatedAt = now

	err := r.dao.ExecuteWrite(ctx, func(db *gorm.DB) error {
		return db.Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// FindByID 根据ID获取笔记
func (r *noteRepository) FindByID(ctx context.Context, id int64) (*domain.Note, error) {
	var m model.Note
	if err := r.dao.DB(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// FindMatching returns notes matching filter, newest first.
// FindMatching 按条件查询笔记，按创建时间倒序
func (r *noteRepository) FindMatching(ctx context.Context, filter domain.NoteFilter) ([]*domain.Note, error) {
	q := r.dao.DB(ctx).Model(&model.Note{})
	if filter.ExcerptContains != "" {
		q = q.Where(r.containsClause(), filter.ExcerptContains)
	}

	var ms []*model.Note
	if err := q.Order("created_at DESC").Order("id DESC").Find(&ms).Error; err != nil {
		return nil, err
	}

	list := make([]*domain.Note, 0, len(ms))
	for _, m := range ms {
		list = append(list, r.toDomain(m))
	}
	return list, nil
}

// Update 更新笔记摘要与内容，刷新 updated_at
func (r *noteRepository) Update(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	var m model.Note
	err := r.dao.ExecuteWrite(ctx, func(db *gorm.DB) error {
		if err := db.Where("id = ?", note.ID).First(&m).Error; err != nil {
			return err
		}
		m.Excerpt = note.Excerpt
		m.Content = note.Content
		m.UpdatedAt = utcNow()
		return db.Model(&model.Note{}).Where("id = ?", m.ID).Updates(map[string]any{
			"excerpt":    m.Excerpt,
			"content":    m.Content,
			"updated_at": m.UpdatedAt,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// Delete 删除笔记
func (r *noteRepository) Delete(ctx context.Context, id int64) error {
	return r.dao.ExecuteWrite(ctx, func(db *gorm.DB) error {
		res := db.Where("id = ?", id).Delete(&model.Note{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Count 笔记总数
func (r *noteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.dao.DB(ctx).Model(&model.Note{}).Count(&n).Error
	return n, err
}
