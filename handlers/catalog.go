package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/bms_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateProductCategoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewProductCategory
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		category, err := models.CreateProductCategory(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func UpdateProductCategoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		var input models.NewProductCategory
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		category, err := models.UpdateProductCategory(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func DeleteProductCategoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		category, err := models.DeleteProductCategory(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func GetProductCategoriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := models.GetProductCategories(c.Request.Context(), queryString(c, "name"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func ListAllProductCategoriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := models.ListAllProductCategories(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func ToggleActiveProductCategoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		var req toggleActiveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, err)
			return
		}
		category, err := models.ToggleActiveProductCategory(c.Request.Context(), id, *req.IsActive)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func CreateProductUnitHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewProductUnit
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		unit, err := models.CreateProductUnit(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, unit)
	}
}

func UpdateProductUnitHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		var input models.NewProductUnit
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		unit, err := models.UpdateProductUnit(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, unit)
	}
}

func DeleteProductUnitHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		unit, err := models.DeleteProductUnit(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, unit)
	}
}

func GetProductUnitsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		units, err := models.GetProductUnits(c.Request.Context(), queryString(c, "name"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, units)
	}
}

func ListAllProductUnitsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		units, err := models.ListAllProductUnits(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, units)
	}
}

func ToggleActiveProductUnitHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		var req toggleActiveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, err)
			return
		}
		unit, err := models.ToggleActiveProductUnit(c.Request.Context(), id, *req.IsActive)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, unit)
	}
}

func CreatePaymentModeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewPaymentMode
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		mode, err := models.CreatePaymentMode(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, mode)
	}
}

func UpdatePaymentModeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		var input models.NewPaymentMode
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		mode, err := models.UpdatePaymentMode(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, mode)
	}
}

func DeletePaymentModeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		mode, err := models.DeletePaymentMode(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, mode)
	}
}

func GetPaymentModesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		modes, err := models.GetPaymentModes(c.Request.Context(), queryString(c, "name"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, modes)
	}
}

func ListAllPaymentModesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		modes, err := models.ListAllPaymentModes(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, modes)
	}
}

func ToggleActivePaymentModeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		var req toggleActiveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, err)
			return
		}
		mode, err := models.ToggleActivePaymentMode(c.Request.Context(), id, *req.IsActive)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, mode)
	}
}
