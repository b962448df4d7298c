package service

import (
	"strings"
	"time"

	"github.com/washpoint-next/internal/constants"
	"github.com/washpoint-next/internal/models"
	"github.com/washpoint-next/internal/repository"
)

// StaffService 员工管理服务
type StaffService struct {
	staffRepo   repository.StaffRepository
	authService *AuthService
}

// NewStaffService 创建员工管理服务
func NewStaffService(staffRepo repository.StaffRepository, authService *AuthService) *StaffService {
	return &StaffService{
		staffRepo:   staffRepo,
		authService: authService,
	}
}

// CreateStaffInput 创建员工输入
type CreateStaffInput struct {
	Username    string
	DisplayName string
	Password    string
	Role        string
}

// CreateStaff 创建员工账号
func (s *StaffService) CreateStaff(input CreateStaffInput) (*models.Staff, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrInvalidCredentials
	}
	role := input.Role
	if role != constants.StaffRoleManager && role != constants.StaffRoleAttendant {
		role = constants.StaffRoleAttendant
	}

	existing, err := s.staffRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	if err := s.authService.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	hash, err := s.authService.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = username
	}
	now := time.Now()
	staff := &models.Staff{
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.staffRepo.Create(staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// GetStaff 根据 ID 获取员工
func (s *StaffService) GetStaff(id uint) (*models.Staff, error) {
	staff, err := s.staffRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, ErrStaffNotFound
	}
	return staff, nil
}

// ListStaff 获取员工列表
func (s *StaffService) ListStaff(filter repository.StaffListFilter) ([]models.Staff, int64, error) {
	return s.staffRepo.List(filter)
}

// UpdateStaffInput 更新员工输入，nil 字段不变更。
type UpdateStaffInput struct {
	DisplayName *string
	Role        *string
	Active      *bool
}

// UpdateStaff 更新员工资料
func (s *StaffService) UpdateStaff(id uint, input UpdateStaffInput) (*models.Staff, error) {
	staff, err := s.staffRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, ErrStaffNotFound
	}

	if input.DisplayName != nil && strings.TrimSpace(*input.DisplayName) != "" {
		staff.DisplayName = strings.TrimSpace(*input.DisplayName)
	}
	if input.Role != nil {
		if *input.Role == constants.StaffRoleManager || *input.Role == constants.StaffRoleAttendant {
			staff.Role = *input.Role
		}
	}
	if input.Active != nil {
		staff.Active = *input.Active
	}
	if err := s.staffRepo.Update(staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// ResetPassword 管理员重置员工密码
func (s *StaffService) ResetPassword(id uint, newPassword string) error {
	staff, err := s.staffRepo.GetByID(id)
	if err != nil {
		return err
	}
	if staff == nil {
		return ErrStaffNotFound
	}
	if err := s.authService.ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := s.authService.HashPassword(newPassword)
	if err != nil {
		return err
	}
	staff.PasswordHash = hash
	return s.staffRepo.Update(staff)
}
