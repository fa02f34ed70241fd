package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/haierkeys/fast-note-web/internal/dao"
	"github.com/haierkeys/fast-note-web/internal/domain"
	"github.com/haierkeys/fast-note-web/internal/dto"
	"github.com/haierkeys/fast-note-web/pkg/code"
	"github.com/haierkeys/fast-note-web/pkg/validator"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNoteService() (NoteService, *dao.MemoryNoteRepository) {
	repo := dao.NewMemoryNoteRepository()
	return NewNoteService(repo, validator.NewCustomValidator(), nil), repo
}

// failingRepo returns err from every call
type failingRepo struct {
	domain.NoteRepository
	err error
}

func (f *failingRepo) FindMatching(context.Context, domain.NoteFilter) ([]*domain.Note, error) {
	return nil, f.err
}

func (f *failingRepo) Insert(context.Context, *domain.Note) (*domain.Note, error) {
	return nil, f.err
}

func (f *failingRepo) FindByID(context.Context, int64) (*domain.Note, error) {
	return nil, f.err
}

func TestNoteService_CreateGetRoundTrip(t *testing.T) {
	svc, _ := newTestNoteService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.NoteInput{Excerpt: "  Shopping list ", Content: "milk, eggs\n"})
	require.NoError(t, err)
	assert.Equal(t, "Shopping list", created.Excerpt)
	assert.Equal(t, "milk, eggs", created.Content)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Excerpt, got.Excerpt)
	assert.Equal(t, created.Content, got.Content)
}

func TestNoteService_CreateValidation(t *testing.T) {
	tests := []struct {
		name       string
		in         *dto.NoteInput
		locale     string
		wantFields map[string]string
	}{
		{
			name:       "empty excerpt",
			in:         &dto.NoteInput{Content: "body"},
			wantFields: map[string]string{"excerpt": "The excerpt field is required."},
		},
		{
			name:       "empty content",
			in:         &dto.NoteInput{Excerpt: "title"},
			wantFields: map[string]string{"content": "The content field is required."},
		},
		{
			name: "whitespace only",
			in:   &dto.NoteInput{Excerpt: "   ", Content: "\t\n"},
			wantFields: map[string]string{
				"excerpt": "The excerpt field is required.",
				"content": "The content field is required.",
			},
		},
		{
			name:       "nil input",
			in:         nil,
			wantFields: map[string]string{"excerpt": "The excerpt field is required.", "content": "The content field is required."},
		},
		{
			name:       "chinese messages",
			in:         &dto.NoteInput{Content: "body"},
			locale:     "zh-CN",
			wantFields: map[string]string{"excerpt": "excerpt不能为空"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestNoteService()
			ctx := context.Background()
			if tt.locale != "" {
				ctx = validator.WithLocale(ctx, tt.locale)
			}

			_, err := svc.Create(ctx, tt.in)
			verr, ok := AsValidationError(err)
			require.True(t, ok, "want ValidationError, got %v", err)
			assert.Equal(t, tt.wantFields, verr.Fields)
			assert.True(t, errors.Is(err, code.ErrorNoteInvalidParams))

			n, _ := repo.Count(ctx)
			assert.Zero(t, n, "nothing may be written on validation failure")
		})
	}
}

func TestNoteService_UpdateAndDeleteMissing(t *testing.T) {
	svc, _ := newTestNoteService()
	ctx := context.Background()

	_, err := svc.Get(ctx, 42)
	assert.True(t, IsNotFound(err))

	_, err = svc.Update(ctx, 42, &dto.NoteInput{Excerpt: "a", Content: "b"})
	assert.True(t, IsNotFound(err))

	// missing id wins over invalid input
	_, err = svc.Update(ctx, 42, &dto.NoteInput{})
	assert.True(t, IsNotFound(err))

	assert.True(t, IsNotFound(svc.Delete(ctx, 42)))
}

func TestNoteService_UpdateInvalidLeavesNote(t *testing.T) {
	svc, _ := newTestNoteService()
	ctx := context.Background()

	n, err := svc.Create(ctx, &dto.NoteInput{Excerpt: "keep", Content: "me"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, n.ID, &dto.NoteInput{Excerpt: "", Content: "changed"})
	_, ok := AsValidationError(err)
	require.True(t, ok)

	got, err := svc.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Excerpt)
	assert.Equal(t, "me", got.Content)
}

func TestNoteService_DeleteTwice(t *testing.T) {
	svc, _ := newTestNoteService()
	ctx := context.Background()

	n, err := svc.Create(ctx, &dto.NoteInput{Excerpt: "x", Content: "y"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, n.ID))
	assert.True(t, IsNotFound(svc.Delete(ctx, n.ID)))

	_, err = svc.Get(ctx, n.ID)
	assert.True(t, IsNotFound(err))
}

func TestNoteService_StoreErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	svc := NewNoteService(&failingRepo{err: boom}, nil, nil)
	ctx := context.Background()

	_, err := svc.List(ctx, "")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, code.ErrorDBQuery)

	_, err = svc.Create(ctx, &dto.NoteInput{Excerpt: "a", Content: "b"})
	assert.ErrorIs(t, err, boom)

	_, err = svc.Get(ctx, 1)
	assert.ErrorIs(t, err, code.ErrorDBQuery)
	assert.False(t, IsNotFound(err))

	_, err = svc.Get(ctx, 1)
	var c *code.Code
	require.True(t, errors.As(err, &c))
	assert.Equal(t, 500, c.StatusCode())
}

func TestNoteService_EndToEnd(t *testing.T) {
	svc, _ := newTestNoteService()
	ctx := context.Background()

	a, err := svc.Create(ctx, &dto.NoteInput{Excerpt: "Shopping list", Content: "milk, eggs"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, &dto.NoteInput{Excerpt: "Meeting notes", Content: "discuss budget"})
	require.NoError(t, err)

	list, err := svc.List(ctx, "Shopping")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	list, err = svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []int64{b.ID, a.ID}, []int64{list[0].ID, list[1].ID})

	_, err = svc.Update(ctx, a.ID, &dto.NoteInput{Excerpt: "Grocery list", Content: "milk, eggs, bread"})
	require.NoError(t, err)
	got, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grocery list", got.Excerpt)
	assert.Equal(t, "milk, eggs, bread", got.Content)

	require.NoError(t, svc.Delete(ctx, b.ID))
	list, err = svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)
}

// 任意合法输入创建后可原样读回，列表过滤与子串匹配一致
func TestNoteService_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	nonBlank := gen.AlphaString().SuchThat(func(s string) bool { return strings.TrimSpace(s) != "" })

	properties.Property("create then get returns the same fields", prop.ForAll(
		func(excerpt, content string) bool {
			svc, _ := newTestNoteService()
			ctx := context.Background()
			n, err := svc.Create(ctx, &dto.NoteInput{Excerpt: excerpt, Content: content})
			if err != nil {
				return false
			}
			got, err := svc.Get(ctx, n.ID)
			return err == nil && got.Excerpt == excerpt && got.Content == content
		},
		nonBlank, nonBlank,
	))

	properties.Property("list returns exactly the excerpts containing the query", prop.ForAll(
		func(excerpts []string, query string) bool {
			svc, _ := newTestNoteService()
			ctx := context.Background()
			want := 0
			for _, ex := range excerpts {
				if _, err := svc.Create(ctx, &dto.NoteInput{Excerpt: ex, Content: "c"}); err != nil {
					return false
				}
				if strings.Contains(ex, query) {
					want++
				}
			}
			list, err := svc.List(ctx, query)
			if err != nil || len(list) != want {
				return false
			}
			for i, n := range list {
				if !strings.Contains(n.Excerpt, query) {
					return false
				}
				if i > 0 && n.NewerThan(list[i-1]) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(nonBlank),
		gen.OneConstOf("", "a", "A", "ab"),
	))

	properties.TestingRun(t)
}
