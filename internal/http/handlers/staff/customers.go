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

// CustomerRequest 创建/更新客户请求
type CustomerRequest struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	PickupAddress   string `json:"pickup_address"`
	DeliveryAddress string `json:"delivery_address"`
	Notes           string `json:"notes"`
}

func (r CustomerRequest) toInput() service.CustomerInput {
	return service.CustomerInput{
		Name:            r.Name,
		Phone:           r.Phone,
		Email:           r.Email,
		PickupAddress:   r.PickupAddress,
		DeliveryAddress: r.DeliveryAddress,
		Notes:           r.Notes,
	}
}

// CreateCustomer 客户建档
func (h *Handler) CreateCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid customer payload", err)
		return
	}
	customer, err := h.CustomerService.CreateCustomer(req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPhoneTaken):
			respondError(c, response.CodeConflict, "phone number already registered", nil)
		case errors.Is(err, service.ErrCustomerNotFound):
			respondError(c, response.CodeBadRequest, "name and phone are required", nil)
		default:
			respondError(c, response.CodeInternal, "failed to create customer", err)
		}
		return
	}
	response.Success(c, customer)
}

// ListCustomers 客户列表
func (h *Handler) ListCustomers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	customers, total, err := h.CustomerService.ListCustomers(repository.CustomerListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch customers", err)
		return
	}
	response.SuccessWithPage(c, customers, response.NewPagination(page, pageSize, total))
}

// GetCustomer 客户详情
func (h *Handler) GetCustomer(c *gin.Context) {
	customerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || customerID == 0 {
		respondError(c, response.CodeBadRequest, "invalid customer id", err)
		return
	}
	customer, err := h.CustomerService.GetCustomer(uint(customerID))
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			respondError(c, response.CodeNotFound, "customer not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "failed to fetch customer", err)
		return
	}
	response.Success(c, customer)
}

// UpdateCustomer 更新客户资料
func (h *Handler) UpdateCustomer(c *gin.Context) {
	customerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || customerID == 0 {
		respondError(c, response.CodeBadRequest, "invalid customer id", err)
		return
	}
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid customer payload", err)
		return
	}
	customer, err := h.CustomerService.UpdateCustomer(uint(customerID), req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCustomerNotFound):
			respondError(c, response.CodeNotFound, "customer not found", nil)
		case errors.Is(err, service.ErrPhoneTaken):
			respondError(c, response.CodeConflict, "phone number already registered", nil)
		default:
			respondError(c, response.CodeInternal, "failed to update customer", err)
		}
		return
	}
	response.Success(c, customer)
}
