package handler

import (
	"errors"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/jomosquito/Edmonton-v.02/internal/dto"
	"github.com/jomosquito/Edmonton-v.02/internal/model"
	"github.com/jomosquito/Edmonton-v.02/internal/repository"
	"github.com/jomosquito/Edmonton-v.02/internal/service"
	"github.com/jomosquito/Edmonton-v.02/pkg/response"
)

// RequestHandler 学生请求模块 HTTP 处理器
// 每种表单类型各有独立的提交端点，字段校验由各自 DTO 承担；
// 查看 / 重新提交 / 列表按 (form_type, form_id) 统一寻址
type RequestHandler struct {
	requestSvc service.RequestService
	pdfDir     string
}

// NewRequestHandler 创建 RequestHandler。pdfDir 为生成文档的存放目录
func NewRequestHandler(requestSvc service.RequestService, pdfDir string) *RequestHandler {
	return &RequestHandler{requestSvc: requestSvc, pdfDir: pdfDir}
}

// SubmitMedicalWithdrawal 提交医疗/行政退学申请
// POST /api/v1/requests/medical-withdrawal
func (h *RequestHandler) SubmitMedicalWithdrawal(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitMedicalWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.requestSvc.SubmitMedicalWithdrawal(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.Created(c, result)
}

// SubmitStudentDrop 提交退课申请
// POST /api/v1/requests/student-drop
func (h *RequestHandler) SubmitStudentDrop(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitStudentDropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.requestSvc.SubmitStudentDrop(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.Created(c, result)
}

// SubmitFerpa 提交 FERPA 信息发布授权
// POST /api/v1/requests/ferpa
func (h *RequestHandler) SubmitFerpa(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitFerpaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.requestSvc.SubmitFerpa(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.Created(c, result)
}

// SubmitInfoChange 提交姓名/SSN 变更申请
// POST /api/v1/requests/info-change
func (h *RequestHandler) SubmitInfoChange(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitInfoChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.requestSvc.SubmitInfoChange(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.Created(c, result)
}

// ListMine 获取当前用户的全部请求（跨表单类型）
// GET /api/v1/requests/mine
func (h *RequestHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	list, err := h.requestSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetRequest 查看请求详情
// 非本人查看会落一条查看记录（审批的前置条件）
// GET /api/v1/requests/:type/:id
func (h *RequestHandler) GetRequest(c *gin.Context) {
	formType, formID, ok := h.formParams(c)
	if !ok {
		return
	}

	viewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	detail, err := h.requestSvc.Get(c.Request.Context(), formType, formID, viewerID)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.OK(c, detail)
}

// Resubmit 将本人的草稿提交进入审批
// POST /api/v1/requests/:type/:id/resubmit
func (h *RequestHandler) Resubmit(c *gin.Context) {
	formType, formID, ok := h.formParams(c)
	if !ok {
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.requestSvc.Resubmit(c.Request.Context(), formType, formID, userID)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	response.OK(c, result)
}

// DownloadDocument 下载请求的生成文档（表单本体或决定书 PDF）。
// 走 Get 路径，因此非本人下载同样落查看记录，满足先看后批的门槛
// GET /api/v1/requests/:type/:id/documents/:filename
func (h *RequestHandler) DownloadDocument(c *gin.Context) {
	formType, formID, ok := h.formParams(c)
	if !ok {
		return
	}

	viewerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	filename := c.Param("filename")
	if filename == "" || filename != filepath.Base(filename) {
		response.BadRequest(c, 10001, "文件名无效")
		return
	}

	detail, err := h.requestSvc.Get(c.Request.Context(), formType, formID, viewerID)
	if err != nil {
		h.handleRequestError(c, err)
		return
	}

	// 仅允许下载该请求名下登记过的产物
	found := false
	for _, f := range detail.GeneratedPDFs {
		if f == filename {
			found = true
			break
		}
	}
	if !found {
		response.NotFound(c, 14008, "文档不存在")
		return
	}

	c.FileAttachment(filepath.Join(h.pdfDir, filename), filename)
}

// formParams 提取并校验 URL 中的表单类型与表单 ID。
// URL 段使用连字符，存储使用下划线
func (h *RequestHandler) formParams(c *gin.Context) (formType, formID string, ok bool) {
	formType = normalizeFormType(c.Param("type"))
	formID = c.Param("id")

	if !model.IsKnownFormType(formType) {
		response.BadRequest(c, 14001, "未知表单类型")
		return "", "", false
	}
	if formID == "" {
		response.BadRequest(c, 10001, "表单ID不能为空")
		return "", "", false
	}
	return formType, formID, true
}

func normalizeFormType(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '-' {
			out[i] = '_'
		} else {
			out[i] = s[i]
		}
	}
	return string(out)
}

// handleRequestError 统一处理请求模块业务错误
func (h *RequestHandler) handleRequestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRequestNotFound):
		response.NotFound(c, 14002, "表单请求不存在")
	case errors.Is(err, service.ErrRequestBadDate):
		response.BadRequest(c, 14003, "日期格式无效，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrInfoChangeEmpty):
		response.BadRequest(c, 14004, "姓名与 SSN 变更须至少勾选一项")
	case errors.Is(err, service.ErrNotRequestOwner):
		response.Forbidden(c, 14005, "只能操作本人提交的请求")
	case errors.Is(err, service.ErrNotDraft):
		response.Conflict(c, 14006, "请求不在草稿状态")
	case errors.Is(err, service.ErrRequestNotAllowed):
		response.Forbidden(c, 14007, "无权查看该请求")
	case errors.Is(err, repository.ErrUnknownFormType):
		response.BadRequest(c, 14001, "未知表单类型")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/request_handler.go
