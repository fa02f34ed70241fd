// Package factory builds random notes for seeding and tests
// Package factory 生成随机笔记数据，用于填充数据库与测试
package factory

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/haierkeys/fast-note-web/internal/domain"
	"github.com/haierkeys/fast-note-web/internal/dto"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxExcerptLength 摘要最大字符数
	MaxExcerptLength = 140
	// MaxContentLength 内容最大字符数
	MaxContentLength = 1200
)

// NoteCreator is the part of the note service the factory persists through.
type NoteCreator interface {
	Create(ctx context.Context, in *dto.NoteInput) (*domain.Note, error)
}

// NoteFactory 笔记工厂
type NoteFactory struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
}

// NewNoteFactory seeds the generator, 0 picks a time based seed.
// NewNoteFactory 创建笔记工厂，seed 为 0 时使用当前时间
func NewNoteFactory(seed int64) *NoteFactory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &NoteFactory{faker: gofakeit.New(seed)}
}

// Definition returns one random note input. Nothing is stored.
// Definition 生成一条随机笔记参数
func (f *NoteFactory) Definition() dto.NoteInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return dto.NoteInput{
		Excerpt: f.text(MaxExcerptLength),
		Content: f.text(MaxContentLength),
	}
}

// Make 生成 n 条随机笔记参数
func (f *NoteFactory) Make(n int) []dto.NoteInput {
	out := make([]dto.NoteInput, 0, max(n, 0))
	for i := 0; i < n; i++ {
		out = append(out, f.Definition())
	}
	return out
}

// Create stores n random notes through svc and stops at the first error.
// Create 通过笔记服务写入 n 条随机笔记
func (f *NoteFactory) Create(ctx context.Context, svc NoteCreator, n int) ([]*domain.Note, error) {
	notes := make([]*domain.Note, 0, max(n, 0))
	for _, in := range f.Make(n) {
		in := in
		note, err := svc.Create(ctx, &in)
		if err != nil {
			return notes, err
		}
		notes = append(notes, note)
	}
	return notes, nil
}

// CreateConcurrent stores n random notes with at most workers inserts in flight.
// Inputs are generated up front so a seed still yields the same set of notes,
// only their creation order varies. The returned slice keeps generation order
// and holds nil where an insert did not happen.
// CreateConcurrent 并发写入 n 条随机笔记
func (f *NoteFactory) CreateConcurrent(ctx context.Context, svc NoteCreator, n, workers int) ([]*domain.Note, error) {
	if workers <= 1 {
		return f.Create(ctx, svc, n)
	}

	inputs := f.Make(n)
	notes := make([]*domain.Note, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range inputs {
		i := i
		g.Go(func() error {
			note, err := svc.Create(gctx, &inputs[i])
			if err != nil {
				return err
			}
			notes[i] = note
			return nil
		})
	}
	return notes, g.Wait()
}

// text joins whole sentences while they fit in limit characters.
// A first sentence longer than limit is cut at a word boundary.
func (f *NoteFactory) text(limit int) string {
	var b strings.Builder
	size := 0
	for {
		s := f.faker.Sentence(f.faker.Number(3, 12))
		n := utf8.RuneCountInString(s)
		if size == 0 {
			if n > limit {
				return truncateWords(s, limit)
			}
		} else if size+1+n > limit {
			break
		} else {
			b.WriteByte(' ')
			size++
		}
		b.WriteString(s)
		size += n
		if limit-size < 10 {
			break
		}
	}
	return b.String()
}

func truncateWords(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;")
}
