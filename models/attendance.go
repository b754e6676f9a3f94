package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/bms_backend/config"
	"bitbucket.org/mmdatafocus/bms_backend/utils"
)

type Attendance struct {
	ID             int        `gorm:"primary_key" json:"id"`
	BusinessId     string     `gorm:"index;not null" json:"business_id"`
	BranchId       int        `gorm:"index;not null" json:"branch_id"`
	UserId         int        `gorm:"index;not null" json:"user_id"`
	AttendanceDate time.Time  `gorm:"type:date;not null;index" json:"attendance_date"`
	ClockIn        time.Time  `gorm:"not null" json:"clock_in"`
	ClockOut       *time.Time `json:"clock_out"`
	Note           string     `gorm:"size:255" json:"note"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a Attendance) GetBusinessId() string {
	return a.BusinessId
}

func (a Attendance) GetId() int {
	return a.ID
}

// ClockIn opens an attendance record. One open record per user at a time.
func ClockIn(ctx context.Context, note string) (*Attendance, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	branchId, err := branchIdFromContext(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()

	var openCount int64
	if err := db.WithContext(ctx).Model(&Attendance{}).
		Where("business_id = ? AND user_id = ? AND clock_out IS NULL", businessId, userId).
		Count(&openCount).Error; err != nil {
		return nil, err
	}
	if openCount > 0 {
		return nil, errors.New("already clocked in")
	}

	now := time.Now().UTC()
	attendance := Attendance{
		BusinessId:     businessId,
		BranchId:       branchId,
		UserId:         userId,
		AttendanceDate: now.Truncate(24 * time.Hour),
		ClockIn:        now,
		Note:           note,
	}
	if err := db.WithContext(ctx).Create(&attendance).Error; err != nil {
		return nil, err
	}
	return &attendance, nil
}

// ClockOut closes the caller's open attendance record.
func ClockOut(ctx context.Context) (*Attendance, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}

	db := config.GetDB()

	var attendance Attendance
	if err := db.WithContext(ctx).
		Where("business_id = ? AND user_id = ? AND clock_out IS NULL", businessId, userId).
		Order("clock_in DESC").
		First(&attendance).Error; err != nil {
		return nil, errors.New("no open attendance record")
	}

	now := time.Now().UTC()
	if err := db.WithContext(ctx).Model(&attendance).Update("ClockOut", now).Error; err != nil {
		return nil, err
	}
	attendance.ClockOut = &now
	return &attendance, nil
}

// GetAttendances lists a branch's attendance for one day.
func GetAttendances(ctx context.Context, branchId int, date time.Time) ([]*Attendance, error) {

	businessId, err := businessIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if branchId == 0 {
		branchId, err = branchIdFromContext(ctx)
		if err != nil {
			return nil, err
		}
	}

	db := config.GetDB()
	var results []*Attendance
	if err := db.WithContext(ctx).
		Where("business_id = ? AND branch_id = ? AND attendance_date = ?",
			businessId, branchId, date.Truncate(24*time.Hour)).
		Order("clock_in").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
