package staff

import (
	"errors"

	"github.com/washpoint-next/internal/http/response"
	"github.com/washpoint-next/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 员工登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "username and password are required", err)
		return
	}

	staff, token, expiresAt, err := h.AuthService.Login(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, response.CodeUnauthorized, "invalid username or password", nil)
		case errors.Is(err, service.ErrStaffDisabled):
			respondError(c, response.CodeForbidden, "account is disabled", nil)
		default:
			respondError(c, response.CodeInternal, "login failed", err)
		}
		return
	}

	requestLog(c).Infow("staff_login",
		"staff_id", staff.ID,
		"username", staff.Username,
		"role", staff.Role,
	)
	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"staff":      staff,
	})
}

// Me 当前登录员工信息
func (h *Handler) Me(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}
	staff, err := h.StaffService.GetStaff(staffID)
	if err != nil {
		if errors.Is(err, service.ErrStaffNotFound) {
			respondError(c, response.CodeNotFound, "staff not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch staff", err)
		return
	}
	response.Success(c, staff)
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword 当前员工修改密码
func (h *Handler) ChangePassword(c *gin.Context) {
	staffID, ok := getStaffID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "old and new password are required", err)
		return
	}

	if err := h.AuthService.ChangePassword(staffID, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, response.CodeBadRequest, "old password is incorrect", nil)
		case errors.Is(err, service.ErrPasswordTooWeak):
			respondError(c, response.CodeBadRequest, "new password does not meet the policy", nil)
		case errors.Is(err, service.ErrStaffNotFound):
			respondError(c, response.CodeNotFound, "staff not found", nil)
		default:
			respondError(c, response.CodeInternal, "failed to change password", err)
		}
		return
	}
	response.SuccessWithMsg(c, "password updated", nil)
}
