package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/bms_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateBusinessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewBusiness
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		business, err := models.CreateBusiness(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, business)
	}
}

func UpdateBusinessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewBusiness
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		business, err := models.UpdateBusiness(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, business)
	}
}

func GetBusinessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		business, err := models.GetBusiness(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, business)
	}
}

func CreateBranchHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewBranch
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		branch, err := models.CreateBranch(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, branch)
	}
}

func UpdateBranchHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		var input models.NewBranch
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		branch, err := models.UpdateBranch(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, branch)
	}
}

func DeleteBranchHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		branch, err := models.DeleteBranch(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, branch)
	}
}

func GetBranchHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		branch, err := models.GetBranch(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, branch)
	}
}

func GetBranchesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		branches, err := models.GetBranches(c.Request.Context(), queryString(c, "name"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, branches)
	}
}

func ListAllBranchesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		branches, err := models.ListAllBranches(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, branches)
	}
}

func ToggleActiveBranchHandler() gin.HandlerFunc {
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
		branch, err := models.ToggleActiveBranch(c.Request.Context(), id, *req.IsActive)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, branch)
	}
}
