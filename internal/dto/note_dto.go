// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import (
	"strings"

	"github.com/haierkeys/fast-note-web/internal/domain"
	"github.com/haierkeys/fast-note-web/pkg/timex"

	"github.com/jinzhu/copier"
)

// NoteInput user supplied note fields for create and update
// NoteInput 创建与更新笔记的请求参数
type NoteInput struct {
	Excerpt string `json:"excerpt" form:"excerpt" binding:"required"`
	Content string `json:"content" form:"content" binding:"required"`
}

// Normalize trims surrounding whitespace so blank input fails "required".
// Normalize 去除首尾空白
func (in *NoteInput) Normalize() {
	in.Excerpt = strings.TrimSpace(in.Excerpt)
	in.Content = strings.TrimSpace(in.Content)
}

// NoteListRequest 笔记列表查询参数
type NoteListRequest struct {
	Q string `json:"q" form:"q"`
}

// Normalize 去除首尾空白
func (r *NoteListRequest) Normalize() {
	r.Q = strings.TrimSpace(r.Q)
}

// NoteIDRequest path parameter {note}
// NoteIDRequest 路径参数中的笔记 ID
type NoteIDRequest struct {
	ID int64 `uri:"note" binding:"required,gt=0"`
}

// NoteDTO Note data transfer object
// NoteDTO 笔记数据传输对象
type NoteDTO struct {
	ID        int64      `json:"id"`
	Excerpt   string     `json:"excerpt"`
	Content   string     `json:"content"`
	CreatedAt timex.Time `json:"createdAt"`
	UpdatedAt timex.Time `json:"updatedAt"`
}

// NewNoteDTO 领域模型转 DTO
func NewNoteDTO(n *domain.Note) *NoteDTO {
	if n == nil {
		return nil
	}
	d := &NoteDTO{}
	_ = copier.Copy(d, n)
	// 存储为 UTC，展示按本地时区
	d.CreatedAt = timex.Time(n.CreatedAt.Local())
	d.UpdatedAt = timex.Time(n.UpdatedAt.Local())
	return d
}

// NewNoteDTOList 批量转换
func NewNoteDTOList(list []*domain.Note) []*NoteDTO {
	out := make([]*NoteDTO, 0, len(list))
	for _, n := range list {
		out = append(out, NewNoteDTO(n))
	}
	return out
}
