package service

import (
	"context"
	"fmt"

	"github.com/haierkeys/fast-note-web/internal/dto"
	"github.com/haierkeys/fast-note-web/pkg/code"
	"github.com/haierkeys/fast-note-web/pkg/markdown"
)

// OutcomeKind 页面处理结果类型
type OutcomeKind int

const (
	// OutcomeView render Component with Props
	OutcomeView OutcomeKind = iota + 1
	// OutcomeRedirect go to Location and show Status once
	OutcomeRedirect
	// OutcomeValidation re-render Component with Errors and the submitted input
	OutcomeValidation
	// OutcomeNotFound the note does not exist
	OutcomeNotFound
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeView:
		return "view"
	case OutcomeRedirect:
		return "redirect"
	case OutcomeValidation:
		return "validation"
	case OutcomeNotFound:
		return "not_found"
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// Outcome is what a page action decided. The HTTP layer turns it into a response.
// Outcome 页面动作的处理结果
type Outcome struct {
	Kind      OutcomeKind
	Component string
	Props     map[string]any
	Location  string
	Status    *code.Code
	Errors    map[string]string
}

func view(component string, props map[string]any) *Outcome {
	if props == nil {
		props = map[string]any{}
	}
	return &Outcome{Kind: OutcomeView, Component: component, Props: props}
}

func redirect(location string, status *code.Code) *Outcome {
	return &Outcome{Kind: OutcomeRedirect, Location: location, Status: status}
}

func invalid(component string, fields map[string]string, props map[string]any) *Outcome {
	if props == nil {
		props = map[string]any{}
	}
	props["errors"] = fields
	return &Outcome{Kind: OutcomeValidation, Component: component, Props: props, Errors: fields}
}

func notFound() *Outcome {
	return &Outcome{Kind: OutcomeNotFound, Component: "Error", Status: code.ErrorNoteNotFound}
}

// NotePageService maps note pages onto NoteService calls
// NotePageService 笔记页面动作
type NotePageService struct {
	notes NoteService
}

// NewNotePageService 创建页面服务
func NewNotePageService(notes NoteService) *NotePageService {
	return &NotePageService{notes: notes}
}

// NotePath 单条笔记地址
func NotePath(id int64) string {
	return fmt.Sprintf("/notes/%d", id)
}

// Index 笔记列表，q 为摘要过滤条件
func (p *NotePageService) Index(ctx context.Context, q string) (*Outcome, error) {
	notes, err := p.notes.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return view("Notes/Index", map[string]any{
		"notes":   dto.NewNoteDTOList(notes),
		"filters": map[string]string{"q": q},
	}), nil
}

// CreateForm 新建表单
func (p *NotePageService) CreateForm() *Outcome {
	return view("Notes/Create", map[string]any{
		"old": dto.NoteInput{},
	})
}

// Store 保存新笔记，成功后跳转到编辑页
func (p *NotePageService) Store(ctx context.Context, in *dto.NoteInput) (*Outcome, error) {
	note, err := p.notes.Create(ctx, in)
	if verr, ok := AsValidationError(err); ok {
		return invalid("Notes/Create", verr.Fields, map[string]any{"old": in}), nil
	}
	if err != nil {
		return nil, err
	}
	return redirect(NotePath(note.ID)+"/edit", code.SuccessNoteCreate), nil
}

// Show 查看笔记，内容同时渲染为 HTML
func (p *NotePageService) Show(ctx context.Context, id int64) (*Outcome, error) {
	note, err := p.notes.Get(ctx, id)
	if IsNotFound(err) {
		return notFound(), nil
	}
	if err != nil {
		return nil, err
	}
	return view("Notes/Show", map[string]any{
		"note": dto.NewNoteDTO(note),
		"html": markdown.ToHTML(note.Content),
	}), nil
}

// Edit 编辑表单
func (p *NotePageService) Edit(ctx context.Context, id int64) (*Outcome, error) {
	note, err := p.notes.Get(ctx, id)
	if IsNotFound(err) {
		return notFound(), nil
	}
	if err != nil {
		return nil, err
	}
	return view("Notes/Edit", map[string]any{
		"noteId": note.ID,
		"note":   dto.NewNoteDTO(note),
		"old":    dto.NoteInput{Excerpt: note.Excerpt, Content: note.Content},
	}), nil
}

// Update 保存修改，成功后回到列表
func (p *NotePageService) Update(ctx context.Context, id int64, in *dto.NoteInput) (*Outcome, error) {
	_, err := p.notes.Update(ctx, id, in)
	if IsNotFound(err) {
		return notFound(), nil
	}
	if verr, ok := AsValidationError(err); ok {
		props := map[string]any{"old": in, "noteId": id}
		if note, gerr := p.notes.Get(ctx, id); gerr == nil {
			props["note"] = dto.NewNoteDTO(note)
		}
		return invalid("Notes/Edit", verr.Fields, props), nil
	}
	if err != nil {
		return nil, err
	}
	return redirect("/notes", code.SuccessNoteUpdate), nil
}

// Destroy 删除笔记，成功后回到列表
func (p *NotePageService) Destroy(ctx context.Context, id int64) (*Outcome, error) {
	err := p.notes.Delete(ctx, id)
	if IsNotFound(err) {
		return notFound(), nil
	}
	if err != nil {
		return nil, err
	}
	return redirect("/notes", code.SuccessNoteDelete), nil
}
