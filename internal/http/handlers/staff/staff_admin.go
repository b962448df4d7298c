package staff

import (
	"errors"
	"strconv"
	"strings"

	handlershared "github.com/washpoint-next/internal/http/handlers/shared"
	"github.com/washpoint-next/internal/http/response"
	"github.com/washpoint-next/internal/repository"
	"github.com/washpoint-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateStaffRequest 创建员工请求
type CreateStaffRequest struct {
	Username    string `json:"username" binding:"required"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password" binding:"required"`
	Role        string `json:"role"`
}

// CreateStaff 创建员工账号（经理）
func (h *Handler) CreateStaff(c *gin.Context) {
	operatorID, ok := getStaffID(c)
	if !ok {
		return
	}
	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "username and password are required", err)
		return
	}

	created, err := h.StaffService.CreateStaff(service.CreateStaffInput{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Password:    req.Password,
		Role:        req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			respondError(c, response.CodeConflict, "username already taken", nil)
		case errors.Is(err, service.ErrPasswordTooWeak):
			respondError(c, response.CodeBadRequest, "password does not meet the policy", nil)
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, response.CodeBadRequest, "username is required", nil)
		default:
			respondError(c, response.CodeInternal, "failed to create staff", err)
		}
		return
	}

	if err := h.AuthzService.SetStaffRole(created.ID, created.Role); err != nil {
		respondError(c, response.CodeInternal, "failed to bind staff role", err)
		return
	}

	requestLog(c).Infow("staff_created",
		"staff_id", created.ID,
		"username", created.Username,
		"role", created.Role,
		"operator_id", operatorID,
	)
	response.Success(c, created)
}

// ListStaff 员工列表（经理）
func (h *Handler) ListStaff(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	staffList, total, err := h.StaffService.ListStaff(repository.StaffListFilter{
		Page:       page,
		PageSize:   pageSize,
		Role:       strings.TrimSpace(c.Query("role")),
		Keyword:    strings.TrimSpace(c.Query("keyword")),
		OnlyActive: c.Query("only_active") == "true",
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch staff", err)
		return
	}
	response.SuccessWithPage(c, staffList, response.NewPagination(page, pageSize, total))
}

// UpdateStaffRequest 更新员工请求
type UpdateStaffRequest struct {
	DisplayName *string `json:"display_name"`
	Role        *string `json:"role"`
	Active      *bool   `json:"active"`
}

// UpdateStaff 更新员工资料（经理）
func (h *Handler) UpdateStaff(c *gin.Context) {
	operatorID, ok := getStaffID(c)
	if !ok {
		return
	}
	staffID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || staffID == 0 {
		respondError(c, response.CodeBadRequest, "invalid staff id", err)
		return
	}
	var req UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid staff payload", err)
		return
	}

	updated, err := h.StaffService.UpdateStaff(uint(staffID), service.UpdateStaffInput{
		DisplayName: req.DisplayName,
		Role:        req.Role,
		Active:      req.Active,
	})
	if err != nil {
		if errors.Is(err, service.ErrStaffNotFound) {
			respondError(c, response.CodeNotFound, "staff not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to update staff", err)
		return
	}

	if req.Role != nil {
		if err := h.AuthzService.SetStaffRole(updated.ID, updated.Role); err != nil {
			respondError(c, response.CodeInternal, "failed to bind staff role", err)
			return
		}
	}

	requestLog(c).Infow("staff_updated",
		"staff_id", updated.ID,
		"role", updated.Role,
		"active", updated.Active,
		"operator_id", operatorID,
	)
	response.Success(c, updated)
}

// ResetStaffPasswordRequest 重置密码请求
type ResetStaffPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

// ResetStaffPassword 重置员工密码（经理）
func (h *Handler) ResetStaffPassword(c *gin.Context) {
	staffID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || staffID == 0 {
		respondError(c, response.CodeBadRequest, "invalid staff id", err)
		return
	}
	var req ResetStaffPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "new_password is required", err)
		return
	}

	if err := h.StaffService.ResetPassword(uint(staffID), req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrStaffNotFound):
			respondError(c, response.CodeNotFound, "staff not found", nil)
		case errors.Is(err, service.ErrPasswordTooWeak):
			respondError(c, response.CodeBadRequest, "password does not meet the policy", nil)
		default:
			respondError(c, response.CodeInternal, "failed to reset password", err)
		}
		return
	}
	response.SuccessWithMsg(c, "password reset", nil)
}
