package utils

// Session is the per-token record cached in Redis for the lifetime of a login.
type Session struct {
	Username   string `json:"username"`
	UserId     int    `json:"userId"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	BusinessId string `json:"businessId"`
	BranchId   int    `json:"branchId"`
}
