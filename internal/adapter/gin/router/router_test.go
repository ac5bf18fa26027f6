package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"users-api/internal/adapter/gin/handler"
	"users-api/internal/adapter/repository"
	"users-api/internal/config"
)

// UserAPITestSuite exercises the HTTP API end to end against an in-memory
// sqlite database, middleware chain included.
type UserAPITestSuite struct {
	suite.Suite
	engine *gin.Engine
}

func (s *UserAPITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(&repository.UserSchema{}))

	log := zaptest.NewLogger(s.T())
	h := handler.NewUserHandler(repository.NewUserRepository(db), log)
	s.engine = SetupRouter(h, nil, log, config.EnvDevelopment)
}

func (s *UserAPITestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	s.engine.ServeHTTP(w, req)
	return w
}

// createUser posts a valid user and returns the assigned id.
func (s *UserAPITestSuite) createUser(name, email string) string {
	w := s.do("POST", "/v1/users", map[string]any{
		"name":   name,
		"phone":  "555-0101",
		"email":  email,
		"age":    30,
		"weight": 72.5,
	})
	s.Require().Equal(http.StatusCreated, w.Code)

	var resp struct {
		ID string `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().Len(resp.ID, 16)
	return resp.ID
}

func (s *UserAPITestSuite) TestHealth() {
	w := s.do("GET", "/health", nil)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "healthy")
}

func (s *UserAPITestSuite) TestListEmpty() {
	w := s.do("GET", "/v1/users", nil)

	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("0", w.Header().Get(handler.TotalCountHeader))
	s.Contains(w.Body.String(), "empty_collection")
}

func (s *UserAPITestSuite) TestCreateThenGet() {
	id := s.createUser("John Doe", "john@example.com")

	w := s.do("GET", "/v1/users/"+id, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp handler.UserResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal(handler.UserResponse{
		ID:     id,
		Name:   "John Doe",
		Phone:  "555-0101",
		Email:  "john@example.com",
		Age:    30,
		Weight: 72.5,
	}, resp)
}

func (s *UserAPITestSuite) TestListReflectsCreates() {
	for i := 0; i < 3; i++ {
		s.createUser(fmt.Sprintf("User %d", i), fmt.Sprintf("user%d@example.com", i))
	}

	w := s.do("GET", "/v1/users", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("3", w.Header().Get(handler.TotalCountHeader))

	var resp []handler.UserResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Len(resp, 3)
}

func (s *UserAPITestSuite) TestCreateRejectsBadEmail() {
	w := s.do("POST", "/v1/users", map[string]any{
		"name":  "John Doe",
		"email": "not-an-email",
	})

	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "not-an-email")

	// Nothing was written
	w = s.do("GET", "/v1/users", nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("0", w.Header().Get(handler.TotalCountHeader))
}

func (s *UserAPITestSuite) TestGetMissing() {
	w := s.do("GET", "/v1/users/ffffffffffffffff", nil)

	s.Equal(http.StatusNotFound, w.Code)
	s.Contains(w.Body.String(), "ffffffffffffffff")
}

func (s *UserAPITestSuite) TestUpdateMissingHasNoSideEffect() {
	w := s.do("PUT", "/v1/users/ffffffffffffffff", map[string]any{"name": "X"})
	s.Equal(http.StatusNotFound, w.Code)

	// The update did not create a row
	w = s.do("GET", "/v1/users/ffffffffffffffff", nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *UserAPITestSuite) TestUpdateOverwritesAllFields() {
	id := s.createUser("John Doe", "john@example.com")

	w := s.do("PUT", "/v1/users/"+id, map[string]any{"name": "Renamed"})
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), id)

	w = s.do("GET", "/v1/users/"+id, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp handler.UserResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))

	// Omitted fields were overwritten with zero values, not merged
	s.Equal(handler.UserResponse{ID: id, Name: "Renamed"}, resp)
}

func (s *UserAPITestSuite) TestPatchAliasesPut() {
	id := s.createUser("John Doe", "john@example.com")

	w := s.do("PATCH", "/v1/users/"+id, map[string]any{"email": "patched@example.com"})
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.do("GET", "/v1/users/"+id, nil)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp handler.UserResponse
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Equal("patched@example.com", resp.Email)
	s.Empty(resp.Name)
}

func (s *UserAPITestSuite) TestDeleteFlow() {
	id := s.createUser("John Doe", "john@example.com")

	w := s.do("DELETE", "/v1/users/"+id, nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), id)

	w = s.do("GET", "/v1/users/"+id, nil)
	s.Equal(http.StatusNotFound, w.Code)

	// Deleting again reports the id as missing
	w = s.do("DELETE", "/v1/users/"+id, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *UserAPITestSuite) TestSequentialCreatesYieldUniqueIDs() {
	const n = 1000

	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := s.createUser("Bulk User", "bulk@example.com")
		_, dup := seen[id]
		s.Require().False(dup, "duplicate id %s after %d creates", id, i)
		seen[id] = struct{}{}
	}

	w := s.do("GET", "/v1/users", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(fmt.Sprintf("%d", n), w.Header().Get(handler.TotalCountHeader))
}

func (s *UserAPITestSuite) TestCORSPreflight() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/v1/users", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", "POST")
	s.engine.ServeHTTP(w, req)

	s.Equal(http.StatusNoContent, w.Code)
	s.Equal("*", w.Header().Get("Access-Control-Allow-Origin"))
}

func (s *UserAPITestSuite) TestCORSExposesTotalCount() {
	s.createUser("John Doe", "john@example.com")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/users", nil)
	req.Header.Set("Origin", "https://example.org")
	s.engine.ServeHTTP(w, req)

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Access-Control-Expose-Headers"), handler.TotalCountHeader)
}

func (s *UserAPITestSuite) TestRequestIDPropagation() {
	w := s.do("GET", "/health", nil)
	s.NotEmpty(w.Header().Get("X-Request-ID"))

	// A caller-supplied id is kept
	w2 := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "test-request-id")
	s.engine.ServeHTTP(w2, req)
	s.Equal("test-request-id", w2.Header().Get("X-Request-ID"))
}

func (s *UserAPITestSuite) TestOpenAPIDocServed() {
	w := s.do("GET", "/openapi/users.swagger.json", nil)

	s.Require().Equal(http.StatusOK, w.Code)

	var doc map[string]any
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &doc))
	s.Equal("2.0", doc["swagger"])
}

func TestUserAPITestSuite(t *testing.T) {
	suite.Run(t, new(UserAPITestSuite))
}
