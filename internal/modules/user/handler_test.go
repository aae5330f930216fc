package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/restful-go/accounts/internal/middleware"
	jwtpkg "github.com/restful-go/accounts/internal/pkg/jwt"
)

func newTestRouter(repo *fakeUserRepo, codec *jwtpkg.Codec) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(NewService(repo)).RegisterRoutes(&r.RouterGroup, middleware.Auth(codec))
	return r
}

func testCodec() *jwtpkg.Codec {
	return jwtpkg.NewCodec("access-secret", "refresh-secret", 30*time.Minute, 24*time.Hour)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateUserEndpoint(t *testing.T) {
	r := newTestRouter(newFakeUserRepo(), testCodec())

	body := `{"name":"Arya Stark","email":"arya@winterfell.io","dob":"1999-06-21","password":"N3edle!sharp"}`
	w := doJSON(t, r, http.MethodPost, "/users", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	// Same email again must conflict.
	w = doJSON(t, r, http.MethodPost, "/users", body, "")
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}

func TestCreateUserEndpointMissingFields(t *testing.T) {
	r := newTestRouter(newFakeUserRepo(), testCodec())

	w := doJSON(t, r, http.MethodPost, "/users", `{"name":"Arya Stark"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	for _, field := range []string{"email", "dob", "password"} {
		if !strings.Contains(w.Body.String(), field) {
			t.Fatalf("body %s must name %s", w.Body.String(), field)
		}
	}
}

func TestListUsersEndpoint(t *testing.T) {
	repo := newFakeUserRepo()
	codec := testCodec()
	r := newTestRouter(repo, codec)

	u, err := NewService(repo).Create(context.Background(), validDTO())
	if err != nil {
		t.Fatal(err)
	}
	token, err := codec.SignAccess(u.ID, u.Email)
	if err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, r, http.MethodGet, "/users", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var list []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len = %d, want 1", len(list))
	}
	if _, leaked := list[0]["password"]; leaked {
		t.Fatal("password hash must never appear in responses")
	}
}

func TestUserEndpointsRequireAuth(t *testing.T) {
	r := newTestRouter(newFakeUserRepo(), testCodec())

	for _, path := range []string{"/users", "/users/some-id"} {
		w := doJSON(t, r, http.MethodGet, path, "", "")
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("GET %s: status = %d, want 401", path, w.Code)
		}
	}
}

func TestGetUserEndpointInvalidID(t *testing.T) {
	repo := newFakeUserRepo()
	codec := testCodec()
	r := newTestRouter(repo, codec)

	u, err := NewService(repo).Create(context.Background(), validDTO())
	if err != nil {
		t.Fatal(err)
	}
	token, _ := codec.SignAccess(u.ID, u.Email)

	w := doJSON(t, r, http.MethodGet, "/users/not-a-uuid", "", token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/users/6f1d2c3b-0000-4000-8000-000000000000", "", token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestUpdateForeignUserForbidden(t *testing.T) {
	repo := newFakeUserRepo()
	codec := testCodec()
	r := newTestRouter(repo, codec)
	svc := NewService(repo)

	owner, err := svc.Create(context.Background(), validDTO())
	if err != nil {
		t.Fatal(err)
	}
	other := validDTO()
	other.Email = "sansa@winterfell.io"
	intruder, err := svc.Create(context.Background(), other)
	if err != nil {
		t.Fatal(err)
	}

	token, _ := codec.SignAccess(intruder.ID, intruder.Email)
	w := doJSON(t, r, http.MethodPut, "/users/"+owner.ID, `{"name":"Someone Else"}`, token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if !strings.Contains(w.Body.String(), "User permission denied") {
		t.Fatalf("body %s", w.Body.String())
	}

	w = doJSON(t, r, http.MethodDelete, "/users/"+owner.ID, "", token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("delete status = %d, want 403", w.Code)
	}
}

func TestUpdateAndDeleteOwnUser(t *testing.T) {
	repo := newFakeUserRepo()
	codec := testCodec()
	r := newTestRouter(repo, codec)

	u, err := NewService(repo).Create(context.Background(), validDTO())
	if err != nil {
		t.Fatal(err)
	}
	token, _ := codec.SignAccess(u.ID, u.Email)

	w := doJSON(t, r, http.MethodPut, "/users/"+u.ID, `{"address":"Braavos"}`, token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var got map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got["address"] != "Braavos" {
		t.Fatalf("address = %v", got["address"])
	}

	w = doJSON(t, r, http.MethodDelete, "/users/"+u.ID, "", token)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, body %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodGet, "/users/"+u.ID, "", token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status = %d, want 404", w.Code)
	}
}
