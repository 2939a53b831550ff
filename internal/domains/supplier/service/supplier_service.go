package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hexalib-backend/internal/domains/supplier/model"
	"hexalib-backend/internal/domains/supplier/repository"
)

// Service exposes supplier management.
type Service interface {
	Create(ctx context.Context, req *model.CreateSupplierRequest) (*model.Supplier, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	List(ctx context.Context, filter *model.SupplierFilter) ([]model.Supplier, int64, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateSupplierRequest) (*model.Supplier, error)
	Activate(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type supplierService struct {
	repo repository.Repository
}

func NewSupplierService(repo repository.Repository) Service {
	return &supplierService{repo: repo}
}

func (s *supplierService) Create(ctx context.Context, req *model.CreateSupplierRequest) (*model.Supplier, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	entity := &model.Supplier{
		ID:            uuid.New(),
		Name:          req.Name,
		ContactName:   req.ContactName,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		DeliveryDelay: req.DeliveryDelay,
		Status:        model.StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, err
	}

	return entity, nil
}

func (s *supplierService) GetByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *supplierService) List(ctx context.Context, filter *model.SupplierFilter) ([]model.Supplier, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}

func (s *supplierService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateSupplierRequest) (*model.Supplier, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	entity, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entity.Name = req.Name
	entity.ContactName = req.ContactName
	entity.Phone = req.Phone
	entity.Email = req.Email
	entity.Address = req.Address
	entity.DeliveryDelay = req.DeliveryDelay

	if err := s.repo.Update(ctx, entity); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *supplierService) Activate(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetStatus(ctx, id, model.StatusActive)
}

func (s *supplierService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetStatus(ctx, id, model.StatusInactive)
}

func (s *supplierService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
