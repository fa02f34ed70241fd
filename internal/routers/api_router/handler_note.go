package api_router

import (
	"net/http"

	"github.com/haierkeys/fast-note-web/internal/dto"
	"github.com/haierkeys/fast-note-web/internal/service"
	pkgapp "github.com/haierkeys/fast-note-web/pkg/app"
	"github.com/haierkeys/fast-note-web/pkg/code"
	apperrors "github.com/haierkeys/fast-note-web/pkg/errors"
	"github.com/haierkeys/fast-note-web/pkg/inertia"
	"github.com/haierkeys/fast-note-web/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NoteHandler 笔记页面与 JSON API 处理器
type NoteHandler struct {
	*Handler
}

// NewNoteHandler 创建 NoteHandler 实例
func NewNoteHandler(h *Handler) *NoteHandler {
	return &NoteHandler{Handler: h}
}

// respond turns a page outcome into the HTTP response.
func (h *NoteHandler) respond(c *gin.Context, method string, out *service.Outcome, err error) {
	if err != nil {
		h.logError(c.Request.Context(), method, err)
		h.ErrorPage(c, apperrors.ErrorFrom(err))
		return
	}

	switch out.Kind {
	case service.OutcomeRedirect:
		if out.Status != nil {
			inertia.SetFlash(c, out.Status.MsgIn(pkgapp.Locale(c)))
		}
		h.Pages.Redirect(c, out.Location)
	case service.OutcomeValidation:
		h.render(c, http.StatusUnprocessableEntity, out.Component, out.Props)
	case service.OutcomeNotFound:
		h.ErrorPage(c, out.Status)
	default:
		h.render(c, http.StatusOK, out.Component, out.Props)
	}
}

// noteID binds {note}; anything that is not a positive integer is a missing note.
func (h *NoteHandler) noteID(c *gin.Context) (int64, bool) {
	params := &dto.NoteIDRequest{}
	if err := c.ShouldBindUri(params); err != nil {
		h.ErrorPage(c, code.ErrorNoteNotFound)
		return 0, false
	}
	return params.ID, true
}

// Index 笔记列表页
func (h *NoteHandler) Index(c *gin.Context) {
	params := &dto.NoteListRequest{}
	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		h.App.Logger().Warn("NoteHandler.Index.BindAndValid err", zap.Error(errs))
	}

	out, err := h.App.PageService.Index(c.Request.Context(), params.Q)
	h.respond(c, "NoteHandler.Index", out, err)
}

// Create 新建笔记表单
func (h *NoteHandler) Create(c *gin.Context) {
	h.respond(c, "NoteHandler.Create", h.App.PageService.CreateForm(), nil)
}

// Store 保存新笔记
func (h *NoteHandler) Store(c *gin.Context) {
	params := &dto.NoteInput{}
	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		h.App.Logger().Info("NoteHandler.Store.BindAndValid err", zap.Error(errs))
		h.render(c, http.StatusUnprocessableEntity, "Notes/Create", map[string]any{
			"errors": errs.MapsToString(),
			"old":    params,
		})
		return
	}

	out, err := h.App.PageService.Store(c.Request.Context(), params)
	h.respond(c, "NoteHandler.Store", out, err)
}

// Show 查看笔记
func (h *NoteHandler) Show(c *gin.Context) {
	id, ok := h.noteID(c)
	if !ok {
		return
	}
	out, err := h.App.PageService.Show(c.Request.Context(), id)
	h.respond(c, "NoteHandler.Show", out, err)
}

// Edit 编辑笔记表单
func (h *NoteHandler) Edit(c *gin.Context) {
	id, ok := h.noteID(c)
	if !ok {
		return
	}
	out, err := h.App.PageService.Edit(c.Request.Context(), id)
	h.respond(c, "NoteHandler.Edit", out, err)
}

// Update 保存笔记修改，PUT 与 PATCH 共用
func (h *NoteHandler) Update(c *gin.Context) {
	id, ok := h.noteID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	params := &dto.NoteInput{}
	if valid, errs := pkgapp.BindAndValid(c, params); !valid {
		h.App.Logger().Info("NoteHandler.Update.BindAndValid err", zap.Int64(logger.FieldNoteID, id), zap.Error(errs))

		// a missing note wins over invalid input
		note, err := h.App.NoteService.Get(ctx, id)
		if err != nil {
			if !service.IsNotFound(err) {
				h.logError(ctx, "NoteHandler.Update", err)
			}
			h.ErrorPage(c, apperrors.ErrorFrom(err))
			return
		}
		h.render(c, http.StatusUnprocessableEntity, "Notes/Edit", map[string]any{
			"errors": errs.MapsToString(),
			"old":    params,
			"noteId": id,
			"note":   dto.NewNoteDTO(note),
		})
		return
	}

	out, err := h.App.PageService.Update(ctx, id, params)
	h.respond(c, "NoteHandler.Update", out, err)
}

// Destroy 删除笔记
func (h *NoteHandler) Destroy(c *gin.Context) {
	id, ok := h.noteID(c)
	if !ok {
		return
	}
	out, err := h.App.PageService.Destroy(c.Request.Context(), id)
	h.respond(c, "NoteHandler.Destroy", out, err)
}

// List 笔记列表 JSON 接口
// @Summary 笔记列表
// @Description 按创建时间倒序返回笔记，q 为摘要子串过滤（区分大小写）
// @Tags 笔记
// @Produce json
// @Param q query string false "摘要过滤条件"
// @Success 200 {object} pkgapp.Res{data=[]dto.NoteDTO} "成功"
// @Failure 500 {object} apperrors.AppError "失败"
// @Router /api/notes [get]
func (h *NoteHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteListRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.List.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	notes, err := h.App.NoteService.List(ctx, params.Q)
	if err != nil {
		h.logError(ctx, "NoteHandler.List", err, zap.String(logger.FieldQuery, params.Q))
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(dto.NewNoteDTOList(notes)))
}

// Get 笔记详情 JSON 接口
// @Summary 笔记详情
// @Description 根据 ID 获取单条笔记
// @Tags 笔记
// @Produce json
// @Param note path int true "笔记 ID"
// @Success 200 {object} pkgapp.Res{data=dto.NoteDTO} "成功"
// @Failure 404 {object} apperrors.AppError "笔记不存在"
// @Router /api/notes/{note} [get]
func (h *NoteHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.NoteIDRequest{}
	if err := c.ShouldBindUri(params); err != nil {
		apperrors.ErrorResponse(c, code.ErrorNoteNotFound)
		return
	}

	ctx := c.Request.Context()
	note, err := h.App.NoteService.Get(ctx, params.ID)
	if err != nil {
		if !service.IsNotFound(err) {
			h.logError(ctx, "NoteHandler.Get", err, zap.Int64(logger.FieldNoteID, params.ID))
		}
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(dto.NewNoteDTO(note)))
}
