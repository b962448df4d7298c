package portal

import (
	"strconv"
	"strings"

	handlershared "github.com/washpoint-next/internal/http/handlers/shared"
	"github.com/washpoint-next/internal/http/response"
	"github.com/washpoint-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListOfferings 门户价目表，只展示上架项。
func (h *Handler) ListOfferings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	offerings, total, err := h.OfferingService.ListOfferings(repository.OfferingListFilter{
		Page:        page,
		PageSize:    pageSize,
		ServiceType: strings.TrimSpace(c.Query("service_type")),
		Search:      strings.TrimSpace(c.Query("search")),
		OnlyActive:  true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to fetch offerings", err)
		return
	}

	items := make([]gin.H, 0, len(offerings))
	for _, offering := range offerings {
		items = append(items, gin.H{
			"id":           offering.ID,
			"name":         offering.Name,
			"service_type": offering.ServiceType,
			"price":        offering.Price,
			"description":  offering.Description,
		})
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}
