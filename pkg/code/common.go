package code

import "net/http"

var (
	Failed  = NewError(0, lang{en: "Failed", zh_cn: "失败"})
	Success = NewSuss(1, lang{en: "Success", zh_cn: "成功"})

	ErrorServerInternal  = NewError(500, lang{en: "Internal server error", zh_cn: "服务器内部错误"})
	ErrorNotFoundAPI     = NewError(404, lang{en: "Not found", zh_cn: "找不到"}, http.StatusNotFound)
	ErrorInvalidParams   = NewError(422, lang{en: "Invalid parameters", zh_cn: "参数错误"}, http.StatusUnprocessableEntity)
	ErrorTooManyRequests = NewError(429, lang{en: "Too many requests", zh_cn: "请求过多"}, http.StatusTooManyRequests)
	ErrorRequestTimeout  = NewError(408, lang{en: "Request timeout", zh_cn: "请求超时"}, http.StatusGatewayTimeout)
	ErrorDBQuery         = NewError(510, lang{en: "Database query failed", zh_cn: "数据库查询失败"})
)

// 笔记
var (
	ErrorNoteNotFound      = NewError(441, lang{en: "Note not found", zh_cn: "笔记不存在"}, http.StatusNotFound)
	ErrorNoteInvalidParams = NewError(442, lang{en: "The given data was invalid", zh_cn: "提交的数据无效"}, http.StatusUnprocessableEntity)

	SuccessNoteCreate = NewSuss(101, lang{en: "Note created", zh_cn: "笔记已创建"})
	SuccessNoteUpdate = NewSuss(102, lang{en: "Note updated", zh_cn: "笔记已更新"})
	SuccessNoteDelete = NewSuss(103, lang{en: "Note deleted", zh_cn: "笔记已删除"})
)
