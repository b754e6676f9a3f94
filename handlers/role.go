package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/bms_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateRoleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewRole
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		role, err := models.CreateRole(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, role)
	}
}

func UpdateRoleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		var input models.NewRole
		if err := c.ShouldBindJSON(&input); err != nil {
			respondError(c, err)
			return
		}
		role, err := models.UpdateRole(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, role)
	}
}

func DeleteRoleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		role, err := models.DeleteRole(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, role)
	}
}

func GetRoleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		role, err := models.GetRole(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, role)
	}
}

func GetRolesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, err := models.GetRoles(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, roles)
	}
}

func ListAllRolesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, err := models.ListAllRoles(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, roles)
	}
}

func GetModulesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		modules, err := models.GetModules(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, modules)
	}
}

func GetHistoriesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		histories, err := models.GetHistories(c.Request.Context(), queryInt(c, "reference_id"),
			queryString(c, "reference_type"), queryInt(c, "user_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, histories)
	}
}
