package service

import (
	"strings"
	"time"

	"github.com/washpoint-next/internal/models"
	"github.com/washpoint-next/internal/repository"
)

// CustomerService 客户服务
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService 创建客户服务
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CustomerInput 创建/更新客户输入
type CustomerInput struct {
	Name            string
	Phone           string
	Email           string
	PickupAddress   string
	DeliveryAddress string
	Notes           string
}

// CreateCustomer 创建客户，手机号唯一。
func (s *CustomerService) CreateCustomer(input CustomerInput) (*models.Customer, error) {
	phone := strings.TrimSpace(input.Phone)
	if phone == "" || strings.TrimSpace(input.Name) == "" {
		return nil, ErrCustomerNotFound
	}

	existing, err := s.customerRepo.GetByPhone(phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPhoneTaken
	}

	now := time.Now()
	customer := &models.Customer{
		Name:            strings.TrimSpace(input.Name),
		Phone:           phone,
		Email:           strings.TrimSpace(input.Email),
		PickupAddress:   strings.TrimSpace(input.PickupAddress),
		DeliveryAddress: strings.TrimSpace(input.DeliveryAddress),
		Notes:           strings.TrimSpace(input.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.customerRepo.Create(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer 根据 ID 获取客户
func (s *CustomerService) GetCustomer(id uint) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}

// FindOrCreateByPhone 门户下单时按手机号定位客户，不存在则建档。
func (s *CustomerService) FindOrCreateByPhone(input CustomerInput) (*models.Customer, error) {
	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		return nil, ErrCustomerNotFound
	}
	existing, err := s.customerRepo.GetByPhone(phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return s.CreateCustomer(input)
}

// ListCustomers 获取客户列表
func (s *CustomerService) ListCustomers(filter repository.CustomerListFilter) ([]models.Customer, int64, error) {
	return s.customerRepo.List(filter)
}

// UpdateCustomer 更新客户资料
func (s *CustomerService) UpdateCustomer(id uint, input CustomerInput) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	phone := strings.TrimSpace(input.Phone)
	if phone != "" && phone != customer.Phone {
		existing, err := s.customerRepo.GetByPhone(phone)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrPhoneTaken
		}
		customer.Phone = phone
	}
	if strings.TrimSpace(input.Name) != "" {
		customer.Name = strings.TrimSpace(input.Name)
	}
	customer.Email = strings.TrimSpace(input.Email)
	customer.PickupAddress = strings.TrimSpace(input.PickupAddress)
	customer.DeliveryAddress = strings.TrimSpace(input.DeliveryAddress)
	customer.Notes = strings.TrimSpace(input.Notes)

	if err := s.customerRepo.Update(customer); err != nil {
		return nil, err
	}
	return customer, nil
}
