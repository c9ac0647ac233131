package routes_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amirhossein-jamali/points-ledger/internal/domain/usecase/ledger"
	"github.com/amirhossein-jamali/points-ledger/internal/domain/usecase/user"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/memory"
	"github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/metrics"
	timeadapter "github.com/amirhossein-jamali/points-ledger/internal/infrastructure/adapter/time"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type api struct {
	t      *testing.T
	router *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewNoopLogger()
	store := memory.NewStore()
	uow := memory.NewUnitOfWork(store, log)
	m := metrics.NewMetrics()

	users := user.NewUserUseCase(uow, log)
	ledgerService := ledger.NewLedgerService(uow, timeadapter.NewRealTimeProvider(), log, ledger.DefaultConfig(), ledger.WithMetrics(m))
	t.Cleanup(func() { _ = ledgerService.Shutdown(context.Background()) })

	require.NoError(t, users.CreateDefaultUsers(context.Background()))

	router := gin.New()
	routes.SetupMiddlewares(router, log, routes.MiddlewareOptions{Metrics: m})
	routes.SetupRoutes(router, routes.Handlers{
		User:        handler.NewUserHandler(users, log),
		Transaction: handler.NewTransactionHandler(ledgerService, users, log),
		Health:      handler.NewHealthHandler("memory", nil, log),
		Metrics:     m.Handler(),
	})

	return &api{t: t, router: router}
}

func (a *api) call(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *api) user(id string) dto.UserResponse {
	rec := a.call(http.MethodGet, "/users/"+id, "")
	require.Equal(a.t, http.StatusOK, rec.Code)
	var u dto.UserResponse
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &u))
	return u
}

func TestDefaultUsersAreSeeded(t *testing.T) {
	a := newAPI(t)

	rec := a.call(http.MethodGet, "/users", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var users []dto.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 4)
	for i, u := range users {
		assert.Equal(t, uint64(i+1), u.ID)
		assert.Equal(t, int64(i+1), u.PointsBalance)
	}
	assert.Equal(t, "user1@example.com", users[0].Email)
	assert.Equal(t, "User Four", users[3].Name)
}

func TestPointsLifecycle(t *testing.T) {
	a := newAPI(t)

	rec := a.call(http.MethodPost, "/users", `{"email":"new@example.com","name":"New"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created dto.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(0), created.PointsBalance)

	id := "5"
	require.Equal(t, uint64(5), created.ID)

	assert.Equal(t, http.StatusOK, a.call(http.MethodPost, "/users/"+id+"/earn", `{"points":10,"description":"signup"}`).Code)
	assert.Equal(t, http.StatusOK, a.call(http.MethodPost, "/users/"+id+"/redeem", `{"points":4,"description":"coffee"}`).Code)

	rec = a.call(http.MethodPost, "/users/"+id+"/redeem", `{"points":100,"description":"tv"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"errors":["Points transactions cannot leave a user with a negative points total"]}`, rec.Body.String())

	assert.Equal(t, int64(6), a.user(id).PointsBalance)

	rec = a.call(http.MethodGet, "/users/"+id+"/transactions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var txs []dto.TransactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &txs))
	require.Len(t, txs, 2)
	assert.Equal(t, int64(10), txs[0].PointChange)
	assert.Equal(t, int64(-4), txs[1].PointChange)

	var sum int64
	for _, tx := range txs {
		sum += tx.PointChange
	}
	assert.Equal(t, a.user(id).PointsBalance, sum)

	rec = a.call(http.MethodGet, "/transactions/"+jsonID(txs[1].ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"description":"coffee"`)

	assert.Equal(t, http.StatusOK, a.call(http.MethodDelete, "/users/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, a.call(http.MethodGet, "/users/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, a.call(http.MethodGet, "/transactions/"+jsonID(txs[1].ID), "").Code)
}

func TestDuplicateEmailThroughAPI(t *testing.T) {
	a := newAPI(t)

	rec := a.call(http.MethodPost, "/users", `{"email":"user1@example.com","name":"Again"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "User with this email address already exists")
}

func TestHealthAndMetrics(t *testing.T) {
	a := newAPI(t)

	assert.Equal(t, http.StatusOK, a.call(http.MethodGet, "/health", "").Code)
	a.call(http.MethodPost, "/users/1/earn", `{"points":1,"description":"bonus"}`)

	rec := a.call(http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `points_ledger_http_requests_total{method="POST",path="/users/:id/earn",status="200"} 1`)
	assert.Contains(t, body, `points_ledger_operations_total{direction="earn",outcome="success"} 1`)
}

func jsonID(id uint64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
