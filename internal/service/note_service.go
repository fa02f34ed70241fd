package service

import (
	"context"
	"strconv"

	"github.com/haierkeys/fast-note-web/internal/domain"
	"github.com/haierkeys/fast-note-web/internal/dto"
	"github.com/haierkeys/fast-note-web/pkg/code"
	"github.com/haierkeys/fast-note-web/pkg/logger"
	"github.com/haierkeys/fast-note-web/pkg/validator"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// NoteService 定义笔记业务服务接口
type NoteService interface {
	// List 按摘要子串（区分大小写）过滤，按创建时间倒序，空查询返回全部
	List(ctx context.Context, query string) ([]*domain.Note, error)

	// Get 获取单条笔记，不存在时返回 code.ErrorNoteNotFound
	Get(ctx context.Context, id int64) (*domain.Note, error)

	// Create 校验后创建笔记，校验失败返回 *ValidationError
	Create(ctx context.Context, in *dto.NoteInput) (*domain.Note, error)

	// Update 校验后覆盖摘要与内容
	Update(ctx context.Context, id int64, in *dto.NoteInput) (*domain.Note, error)

	// Delete 物理删除
	Delete(ctx context.Context, id int64) error

	// Count 笔记总数
	Count(ctx context.Context) (int64, error)
}

// noteService 实现 NoteService 接口
type noteService struct {
	repo      domain.NoteRepository
	validator *validator.CustomValidator
	logger    *zap.Logger
	sf        *singleflight.Group
}

// NewNoteService 创建 NoteService 实例
func NewNoteService(repo domain.NoteRepository, v *validator.CustomValidator, lg *zap.Logger) NoteService {
	if v == nil {
		v = validator.NewCustomValidator()
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	return &noteService{
		repo:      repo,
		validator: v,
		logger:    lg,
		sf:        &singleflight.Group{},
	}
}

// List 获取笔记列表
func (s *noteService) List(ctx context.Context, query string) ([]*domain.Note, error) {
	notes, err := s.repo.FindMatching(ctx, domain.NoteFilter{ExcerptContains: query})
	if err != nil {
		s.logger.Error("NoteService.List", zap.String(logger.FieldQuery, query), zap.Error(err))
		return nil, storeError(err)
	}
	return notes, nil
}

// Get 获取单条笔记，同一 ID 的并发读取合并为一次查询
func (s *noteService) Get(ctx context.Context, id int64) (*domain.Note, error) {
	v, err, _ := s.sf.Do("note_"+strconv.FormatInt(id, 10), func() (any, error) {
		return s.repo.FindByID(ctx, id)
	})
	if err != nil {
		if mapped := storeError(err); !IsNotFound(mapped) {
			s.logger.Error("NoteService.Get", zap.Int64(logger.FieldNoteID, id), zap.Error(err))
			return nil, mapped
		}
		return nil, code.ErrorNoteNotFound
	}
	n := *v.(*domain.Note)
	return &n, nil
}

// validate normalizes a copy of in and checks it
func (s *noteService) validate(ctx context.Context, in *dto.NoteInput) (*dto.NoteInput, error) {
	if in == nil {
		in = &dto.NoteInput{}
	}
	clean := *in
	clean.Normalize()

	fields, err := s.validator.Check(ctx, &clean)
	if err != nil {
		return nil, code.ErrorServerInternal.WithCause(err)
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return &clean, nil
}

// Create 创建笔记
func (s *noteService) Create(ctx context.Context, in *dto.NoteInput) (*domain.Note, error) {
	clean, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	note, err := s.repo.Insert(ctx, &domain.Note{Excerpt: clean.Excerpt, Content: clean.Content})
	if err != nil {
		s.logger.Error("NoteService.Create", zap.Error(err))
		return nil, storeError(err)
	}

	s.logger.Debug("note created", zap.Int64(logger.FieldNoteID, note.ID))
	return note, nil
}

// Update 更新笔记，先确认存在再校验
func (s *noteService) Update(ctx context.Context, id int64, in *dto.NoteInput) (*domain.Note, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	clean, err := s.validate(ctx, in)
	if err != nil {
		return nil, err
	}

	note, err := s.repo.Update(ctx, &domain.Note{ID: id, Excerpt: clean.Excerpt, Content: clean.Content})
	if err != nil {
		mapped := storeError(err)
		if !IsNotFound(mapped) {
			s.logger.Error("NoteService.Update", zap.Int64(logger.FieldNoteID, id), zap.Error(err))
		}
		return nil, mapped
	}

	s.logger.Debug("note updated", zap.Int64(logger.FieldNoteID, id))
	return note, nil
}

// Delete 删除笔记
func (s *noteService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		mapped := storeError(err)
		if !IsNotFound(mapped) {
			s.logger.Error("NoteService.Delete", zap.Int64(logger.FieldNoteID, id), zap.Error(err))
		}
		return mapped
	}

	s.logger.Debug("note deleted", zap.Int64(logger.FieldNoteID, id))
	return nil
}

// Count 笔记总数
func (s *noteService) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, storeError(err)
	}
	return n, nil
}
