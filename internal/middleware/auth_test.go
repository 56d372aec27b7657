package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jigswap.app/jigswap/internal/entity"
	userRepo "jigswap.app/jigswap/internal/modules/user/repository"
)

func adminTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.User{}))

	m := NewAuthMiddleware(userRepo.NewUserRepository(db))

	router := gin.New()
	router.PUT("/admin/categories",
		func(c *gin.Context) {
			if id := c.GetHeader("X-User-ID"); id != "" {
				c.Set("user_id", id)
			}
		},
		m.RequireAdmin(),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) },
	)
	return router, db
}

func TestRequireAdmin(t *testing.T) {
	router, db := adminTestRouter(t)

	admin := entity.User{Username: "root", Email: "root@example.com", PasswordHash: "x", Role: entity.RoleAdmin, IsActive: true}
	require.NoError(t, db.Create(&admin).Error)

	member := entity.User{Username: "casual", Email: "casual@example.com", PasswordHash: "x", Role: entity.RoleMember, IsActive: true}
	require.NoError(t, db.Create(&member).Error)

	cases := []struct {
		name   string
		userID string
		status int
	}{
		{"admin allowed", admin.ID.String(), http.StatusOK},
		{"member forbidden", member.ID.String(), http.StatusForbidden},
		{"unknown user rejected", uuid.NewString(), http.StatusUnauthorized},
		{"unauthenticated rejected", "", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/admin/categories", nil)
			if tc.userID != "" {
				req.Header.Set("X-User-ID", tc.userID)
			}

			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			assert.Equal(t, tc.status, resp.Code)
		})
	}

	t.Run("member denial carries policy reason", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/admin/categories", nil)
		req.Header.Set("X-User-ID", member.ID.String())

		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusForbidden, resp.Code)
		assert.Contains(t, resp.Body.String(), "admin access required")
	})
}
