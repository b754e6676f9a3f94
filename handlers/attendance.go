package handlers

import (
	"net/http"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/models"
	"bitbucket.org/mmdatafocus/bms_backend/realtime"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/gin-gonic/gin"
)

type clockInRequest struct {
	Note string `json:"note"`
}

func ClockInHandler(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req clockInRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				respondError(c, err)
				return
			}
		}
		attendance, err := models.ClockIn(c.Request.Context(), req.Note)
		if err != nil {
			respondError(c, err)
			return
		}
		if businessId, ok := utils.GetBusinessIdFromContext(c.Request.Context()); ok {
			hub.Publish(realtime.NewEnvelope(realtime.EventAttendanceClockIn, businessId, attendance.BranchId, attendance))
		}
		c.JSON(http.StatusCreated, attendance)
	}
}

func ClockOutHandler(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		attendance, err := models.ClockOut(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		if businessId, ok := utils.GetBusinessIdFromContext(c.Request.Context()); ok {
			hub.Publish(realtime.NewEnvelope(realtime.EventAttendanceClockOut, businessId, attendance.BranchId, attendance))
		}
		c.JSON(http.StatusOK, attendance)
	}
}

func GetAttendancesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		branchId := 0
		if v := queryInt(c, "branch_id"); v != nil {
			branchId = *v
		}
		date := time.Now()
		if v := queryDate(c, "date"); v != nil {
			date = *v
		}
		attendances, err := models.GetAttendances(c.Request.Context(), branchId, date)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, attendances)
	}
}
