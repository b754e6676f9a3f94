package middlewares

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bitbucket.org/mmdatafocus/bms_backend/utils"
	"github.com/gin-gonic/gin"
)

func deviceTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(DeviceMiddleware())
	r.GET("/whoami", func(c *gin.Context) {
		businessId, _ := utils.GetBusinessIdFromContext(c.Request.Context())
		branchId, _ := utils.GetBranchIdFromContext(c.Request.Context())
		userId, _ := utils.GetUserIdFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"business_id": businessId,
			"branch_id":   branchId,
			"user_id":     userId,
		})
	})
	return r
}

func TestDeviceMiddlewareRejectsMissingToken(t *testing.T) {
	r := deviceTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a missing Authorization header, got %d", w.Code)
	}
}

func TestDeviceMiddlewareRejectsBadToken(t *testing.T) {
	r := deviceTestRouter()

	for _, header := range []string{"Bearer not-a-token", "Basic abc"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, w.Code)
		}
	}
}

// A device token must carry the operator account so sales recorded through
// the terminal are attributed to a user.
func TestDeviceMiddlewareSetsOperatorContext(t *testing.T) {
	token, err := utils.JwtGenerateDevice("biz-1", 2, "Counter 1", 7)
	if err != nil {
		t.Fatalf("generate device token: %v", err)
	}

	r := deviceTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	var got struct {
		BusinessId string `json:"business_id"`
		BranchId   int    `json:"branch_id"`
		UserId     int    `json:"user_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.BusinessId != "biz-1" || got.BranchId != 2 {
		t.Fatalf("unexpected device scope: %+v", got)
	}
	if got.UserId != 7 {
		t.Fatalf("expected operator user id 7 in context, got %d", got.UserId)
	}
}
