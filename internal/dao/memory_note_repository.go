package dao

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/haierkeys/fast-note-web/internal/domain"

	"gorm.io/gorm"
)

// MemoryNoteRepository keeps notes in process memory.
// MemoryNoteRepository 内存笔记仓储，用于测试与演示
type MemoryNoteRepository struct {
	mu     sync.RWMutex
	nextID int64
	notes  map[int64]domain.Note
	now    func() time.Time
}

// NewMemoryNoteRepository 创建内存仓储
func NewMemoryNoteRepository() *MemoryNoteRepository {
	return &MemoryNoteRepository{
		notes: make(map[int64]domain.Note),
		now:   time.Now,
	}
}

// SetClock replaces the time source.
func (r *MemoryNoteRepository) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func (r *MemoryNoteRepository) Insert(_ context.Context, note *domain.Note) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := r.now().UTC()
	n := domain.Note{
		ID:        r.nextID,
		Excerpt:   note.Excerpt,
		Content:   note.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.notes[n.ID] = n
	return &n, nil
}

func (r *MemoryNoteRepository) FindByID(_ context.Context, id int64) (*domain.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &n, nil
}

func (r *MemoryNoteRepository) FindMatching(_ context.Context, filter domain.NoteFilter) ([]*domain.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*domain.Note, 0, len(r.notes))
	for _, n := range r.notes {
		if !filter.Match(&n) {
			continue
		}
		n := n
		list = append(list, &n)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].NewerThan(list[j]) })
	return list, nil
}

func (r *MemoryNoteRepository) Update(_ context.Context, note *domain.Note) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[note.ID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	n.Excerpt = note.Excerpt
	n.Content = note.Content
	n.UpdatedAt = r.now().UTC()
	r.notes[n.ID] = n
	return &n, nil
}

func (r *MemoryNoteRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.notes, id)
	return nil
}

func (r *MemoryNoteRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.notes)), nil
}

var _ domain.NoteRepository = (*MemoryNoteRepository)(nil)
