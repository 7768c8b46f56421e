// internal/utils/pagination.go
package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

type PaginationParams struct {
	Page          int    `json:"page"`
	PerPage       int    `json:"per_page"`
	SortBy        string `json:"sort_by"`
	SortDirection string `json:"sort_direction"`
	Search        string `json:"search"`
}

type PaginationResult struct {
	Page       int         `json:"page"`
	PerPage    int         `json:"per_page"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
	Data       interface{} `json:"data"`
}

func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(DefaultPerPage)))
	sortBy := c.DefaultQuery("sort_by", "created_at")
	sortDirection := c.DefaultQuery("sort_direction", "desc")
	search := c.Query("search")

	// Validate and set defaults; bad values degrade rather than error
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > MaxPerPage {
		perPage = DefaultPerPage
	}
	if sortDirection != "asc" && sortDirection != "desc" {
		sortDirection = "desc"
	}

	return PaginationParams{
		Page:          page,
		PerPage:       perPage,
		SortBy:        sortBy,
		SortDirection: sortDirection,
		Search:        search,
	}
}

func ApplyPagination(db *gorm.DB, params PaginationParams) *gorm.DB {
	offset := (params.Page - 1) * params.PerPage
	return db.Offset(offset).Limit(params.PerPage)
}

// ResolveSortField constrains the requested sort field to an allow-list.
// Unrecognized values fall back to created_at.
func ResolveSortField(params PaginationParams, allowedSortFields []string) string {
	for _, field := range allowedSortFields {
		if field == params.SortBy {
			return field
		}
	}
	return "created_at"
}

// ResolveSortDirection constrains the requested direction to asc/desc.
// Anything else falls back to desc.
func ResolveSortDirection(params PaginationParams) string {
	if params.SortDirection == "asc" {
		return "asc"
	}
	return "desc"
}

func CreatePaginationResult(data interface{}, total int64, params PaginationParams) PaginationResult {
	totalPages := int(math.Ceil(float64(total) / float64(params.PerPage)))

	return PaginationResult{
		Page:       params.Page,
		PerPage:    params.PerPage,
		Total:      total,
		TotalPages: totalPages,
		Data:       data,
	}
}

func SetPaginationHeaders(c *gin.Context, result PaginationResult) {
	c.Header("X-Total-Count", strconv.FormatInt(result.Total, 10))
	c.Header("X-Page", strconv.Itoa(result.Page))
	c.Header("X-Per-Page", strconv.Itoa(result.PerPage))
	c.Header("X-Total-Pages", strconv.Itoa(result.TotalPages))
}
