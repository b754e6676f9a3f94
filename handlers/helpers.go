package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/models"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const defaultPageLimit = 20

type toggleActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// respondError maps model errors to HTTP statuses with a gin.H body.
func respondError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": utils.ProcessValidationErrors(validationErrs)})
		return
	}
	switch {
	case errors.Is(err, utils.ErrorRecordNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, utils.ErrorInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func paramId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		return defaultPageLimit
	}
	return limit
}

func queryAfter(c *gin.Context) *string {
	if after := c.Query("after"); after != "" {
		return &after
	}
	return nil
}

func queryString(c *gin.Context, name string) *string {
	if v := c.Query(name); v != "" {
		return &v
	}
	return nil
}

func queryInt(c *gin.Context, name string) *int {
	if v := c.Query(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return &n
		}
	}
	return nil
}

func queryDate(c *gin.Context, name string) *time.Time {
	if v := c.Query(name); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			return &t
		}
	}
	return nil
}
