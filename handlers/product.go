package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/models"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/gin-gonic/gin"
)

func CreateProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewProduct
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		product, err := models.CreateProduct(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func UpdateProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		var input models.NewProduct
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		product, err := models.UpdateProduct(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func DeleteProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		product, err := models.DeleteProduct(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		if product.ImageUrl != "" {
			// best effort, the product row is already gone
			if objectKey := utils.ExtractObjectKeyFromURL(product.ImageUrl); objectKey != "" {
				if err := utils.DeleteImageFromGCS(c.Request.Context(), objectKey); err != nil {
					config.LogError(config.GetLogger(), "product.go", "DeleteProductHandler",
						"delete product image", objectKey, err)
				}
			}
		}
		c.JSON(http.StatusOK, product)
	}
}

func GetProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		product, err := models.GetProduct(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// GetProductByCodeHandler resolves a product by SKU or barcode, the POS
// scan path.
func GetProductByCodeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Param("code")
		if code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
			return
		}
		product, err := models.GetProductBySkuOrBarcode(c.Request.Context(), code)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func PaginateProductsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		connection, err := models.PaginateProducts(c.Request.Context(), queryLimit(c), queryAfter(c),
			queryString(c, "name"), queryString(c, "sku"), queryInt(c, "category_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, connection)
	}
}

func ListAllProductsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := models.ListAllProducts(c.Request.Context(), queryString(c, "name"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func ToggleActiveProductHandler() gin.HandlerFunc {
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
		product, err := models.ToggleActiveProduct(c.Request.Context(), id, *req.IsActive)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
