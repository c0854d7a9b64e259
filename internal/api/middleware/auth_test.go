package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/princeprakhar/restaurant-directory/internal/config"
	"github.com/princeprakhar/restaurant-directory/internal/types"
	"github.com/princeprakhar/restaurant-directory/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	viewers map[uint]types.Viewer
}

func (r stubResolver) ResolveViewer(_ context.Context, userID uint) (types.Viewer, error) {
	viewer, ok := r.viewers[userID]
	if !ok {
		return types.Anonymous, errors.New("user not found")
	}
	return viewer, nil
}

func newViewerRouter(cfg *config.Config, resolver ViewerResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/whoami", OptionalAuth(cfg), ViewerMiddleware(resolver), func(c *gin.Context) {
		viewer := GetViewer(c)
		c.JSON(http.StatusOK, gin.H{"user_id": viewer.UserID, "anonymous": viewer.IsAnonymous()})
	})
	router.GET("/private", AuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint("user_id")})
	})
	return router
}

func request(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestViewerMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	resolver := stubResolver{viewers: map[uint]types.Viewer{7: types.NewViewer(7, time.UTC)}}
	router := newViewerRouter(cfg, resolver)

	w := request(router, "/whoami", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0,"anonymous":true}`, w.Body.String())

	pair, err := utils.GenerateTokenPair(7, "alice", cfg.JWTSecret)
	require.NoError(t, err)

	w = request(router, "/whoami", pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7,"anonymous":false}`, w.Body.String())

	// Refresh tokens cannot authenticate requests.
	w = request(router, "/whoami", pair.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	unknown, err := utils.GenerateTokenPair(8, "ghost", cfg.JWTSecret)
	require.NoError(t, err)
	w = request(router, "/whoami", unknown.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRequiresToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "secret"}
	router := newViewerRouter(cfg, stubResolver{})

	assert.Equal(t, http.StatusUnauthorized, request(router, "/private", "").Code)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	pair, err := utils.GenerateTokenPair(3, "bob", cfg.JWTSecret)
	require.NoError(t, err)
	w = request(router, "/private", pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":3}`, w.Body.String())
}

func TestGetViewerDefaultsToAnonymous(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.True(t, GetViewer(c).IsAnonymous())
}
