package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	coreport "github.com/amirhossein-jamali/points-ledger/internal/domain/port/core"
	coremocks "github.com/amirhossein-jamali/points-ledger/internal/mocks/port/core"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/", func(c *gin.Context) {
		seen = coreport.RequestIDFromContext(c.Request.Context())
		assert.Equal(t, seen, RequestID(c))
		c.Status(http.StatusOK)
	})

	t.Run("Generates an ID when absent", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/", nil)

		id := rec.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, seen)
	})

	t.Run("Reuses the client ID", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/", map[string]string{RequestIDHeader: "abc-123"})

		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc-123", seen)
	})

	t.Run("Replaces oversized IDs", func(t *testing.T) {
		long := make([]byte, maxRequestIDLength+1)
		for i := range long {
			long[i] = 'x'
		}

		rec := serve(router, http.MethodGet, "/", map[string]string{RequestIDHeader: string(long)})

		assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
	})
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	logger := &coremocks.Logger{}
	logger.On("Error", "Panic recovered in API request", mock.Anything).Once()

	router := gin.New()
	router.Use(ErrorHandler(logger))
	router.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	rec := serve(router, http.MethodGet, "/boom", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"code":5000,"message":"Internal server error"}`, rec.Body.String())
	logger.AssertExpectations(t)
}

func TestLoggerLevelFollowsStatus(t *testing.T) {
	testCases := []struct {
		status int
		level  string
		msg    string
	}{
		{status: http.StatusOK, level: "Info", msg: "Request processed"},
		{status: http.StatusNotFound, level: "Warn", msg: "Request rejected"},
		{status: http.StatusInternalServerError, level: "Error", msg: "Request failed"},
	}

	for _, tc := range testCases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			logger := &coremocks.Logger{}
			logger.On(tc.level, tc.msg, mock.MatchedBy(func(fields map[string]any) bool {
				return fields["status"] == tc.status && fields["path"] == "/x"
			})).Once()

			router := gin.New()
			router.Use(Logger(logger))
			router.GET("/x", func(c *gin.Context) { c.Status(tc.status) })

			serve(router, http.MethodGet, "/x", nil)

			logger.AssertExpectations(t)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, coremocks.NewPermissiveLogger())
	router := gin.New()
	router.Use(rl.Handler())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/", nil).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(router, http.MethodGet, "/", nil).Code)

	t.Run("Cleanup drops idle buckets", func(t *testing.T) {
		assert.Equal(t, 0, rl.Cleanup(time.Now().Add(-time.Hour)))
		assert.Equal(t, 1, rl.Cleanup(time.Now().Add(time.Second)))

		// A fresh bucket starts full again
		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/", nil).Code)
	})
}

type recordedRequest struct {
	method, path string
	status       int
}

type fakeHTTPMetrics struct {
	mu       sync.Mutex
	requests []recordedRequest
	inFlight float64
}

func (f *fakeHTTPMetrics) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, recordedRequest{method, path, status})
}

func (f *fakeHTTPMetrics) InFlight(delta float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight += delta
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	m := &fakeHTTPMetrics{}
	router := gin.New()
	router.Use(Metrics(m))
	router.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(router, http.MethodGet, "/users/1", nil)
	serve(router, http.MethodGet, "/users/2", nil)
	serve(router, http.MethodGet, "/nowhere", nil)

	require.Len(t, m.requests, 3)
	assert.Equal(t, recordedRequest{"GET", "/users/:id", http.StatusOK}, m.requests[0])
	assert.Equal(t, recordedRequest{"GET", "/users/:id", http.StatusOK}, m.requests[1])
	assert.Equal(t, recordedRequest{"GET", unmatchedRoute, http.StatusNotFound}, m.requests[2])
	assert.Zero(t, m.inFlight)
}

func TestCORSPreflight(t *testing.T) {
	router := gin.New()
	router.Use(CORS())
	router.POST("/users", func(c *gin.Context) { c.Status(http.StatusCreated) })

	rec := serve(router, http.MethodOptions, "/users", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
