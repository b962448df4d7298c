package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/washpoint-next/internal/fulfillment"
	"github.com/washpoint-next/internal/models"
	"github.com/washpoint-next/internal/repository"

	"github.com/shopspring/decimal"
)

// OfferingService 价目服务
type OfferingService struct {
	offeringRepo  repository.OfferingRepository
	inventoryRepo repository.InventoryRepository
}

// NewOfferingService 创建价目服务
func NewOfferingService(offeringRepo repository.OfferingRepository, inventoryRepo repository.InventoryRepository) *OfferingService {
	return &OfferingService{
		offeringRepo:  offeringRepo,
		inventoryRepo: inventoryRepo,
	}
}

// OfferingInput 创建/更新价目项输入
type OfferingInput struct {
	Name            string
	ServiceType     string
	Price           decimal.Decimal
	Description     string
	Active          bool
	InventoryItemID *uint
	UnitsPerBasket  int
}

// CreateOffering 创建价目项，名称唯一，工序类型必须在目录内。
func (s *OfferingService) CreateOffering(input OfferingInput) (*models.Offering, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrOfferingNotFound
	}
	serviceType, err := normalizeServiceType(input.ServiceType)
	if err != nil {
		return nil, err
	}

	existing, err := s.offeringRepo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrOfferingNameTaken
	}

	if input.InventoryItemID != nil {
		item, err := s.inventoryRepo.GetItemByID(*input.InventoryItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, ErrInventoryNotFound
		}
	}

	now := time.Now()
	offering := &models.Offering{
		Name:            name,
		ServiceType:     serviceType,
		Price:           models.NewMoneyFromDecimal(input.Price),
		Description:     strings.TrimSpace(input.Description),
		Active:          input.Active,
		InventoryItemID: input.InventoryItemID,
		UnitsPerBasket:  input.UnitsPerBasket,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.offeringRepo.Create(offering); err != nil {
		return nil, err
	}
	return offering, nil
}

// GetOffering 根据 ID 获取价目项
func (s *OfferingService) GetOffering(id uint) (*models.Offering, error) {
	offering, err := s.offeringRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if offering == nil {
		return nil, ErrOfferingNotFound
	}
	return offering, nil
}

// ListOfferings 获取价目项列表
func (s *OfferingService) ListOfferings(filter repository.OfferingListFilter) ([]models.Offering, int64, error) {
	return s.offeringRepo.List(filter)
}

// UpdateOffering 更新价目项
func (s *OfferingService) UpdateOffering(id uint, input OfferingInput) (*models.Offering, error) {
	offering, err := s.offeringRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if offering == nil {
		return nil, ErrOfferingNotFound
	}

	name := strings.TrimSpace(input.Name)
	if name != "" && name != offering.Name {
		existing, err := s.offeringRepo.GetByName(name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrOfferingNameTaken
		}
		offering.Name = name
	}
	if strings.TrimSpace(input.ServiceType) != "" {
		serviceType, err := normalizeServiceType(input.ServiceType)
		if err != nil {
			return nil, err
		}
		offering.ServiceType = serviceType
	}
	if input.InventoryItemID != nil {
		item, err := s.inventoryRepo.GetItemByID(*input.InventoryItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, ErrInventoryNotFound
		}
	}

	offering.Price = models.NewMoneyFromDecimal(input.Price)
	offering.Description = strings.TrimSpace(input.Description)
	offering.Active = input.Active
	offering.InventoryItemID = input.InventoryItemID
	offering.UnitsPerBasket = input.UnitsPerBasket

	if err := s.offeringRepo.Update(offering); err != nil {
		return nil, err
	}
	return offering, nil
}

// DeleteOffering 下架并软删除价目项
func (s *OfferingService) DeleteOffering(id uint) error {
	offering, err := s.offeringRepo.GetByID(id)
	if err != nil {
		return err
	}
	if offering == nil {
		return ErrOfferingNotFound
	}
	return s.offeringRepo.Delete(id)
}

func normalizeServiceType(serviceType string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(serviceType))
	if idx, ok := fulfillment.TypeIndex(normalized); ok {
		return fulfillment.Sequence[idx], nil
	}
	return "", fmt.Errorf("%w: %q", fulfillment.ErrUnknownServiceType, serviceType)
}
