package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/RazvanGorea/show-and-tell-api/internal/db"
)

func doMultipart(t *testing.T, engine *gin.Engine, token string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, "/profile", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestGetProfile(t *testing.T) {
	engine, _, user, token := newTestServer(t)

	w := doJSON(t, engine, http.MethodGet, "/profile", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["email"] != user.Email || resp["name"] != user.Name {
		t.Fatalf("unexpected profile payload: %v", resp)
	}
}

func TestUpdateProfileWithCode(t *testing.T) {
	engine, gdb, user, token := newTestServer(t)

	w := doJSON(t, engine, http.MethodPost, "/profile/verification-code", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("send verification code: expected 200, got %d", w.Code)
	}

	var stored db.User
	if err := gdb.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}

	w = doMultipart(t, engine, token, map[string]string{
		"code": stored.ResetCode,
		"name": "Renamed",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update profile: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if err := gdb.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.Name != "Renamed" {
		t.Fatalf("expected name to change, got %q", stored.Name)
	}
	if stored.ResetCode != db.NoResetCode {
		t.Fatalf("expected code consumed, got %q", stored.ResetCode)
	}
}

func TestUpdateProfileRejectsTakenEmail(t *testing.T) {
	engine, gdb, user, token := newTestServer(t)

	holder := db.User{Name: "holder", Email: "holder@example.com", Password: "hashed", ResetCode: db.NoResetCode}
	if err := gdb.Create(&holder).Error; err != nil {
		t.Fatalf("seed holder: %v", err)
	}

	w := doJSON(t, engine, http.MethodPost, "/profile/verification-code", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("send verification code: expected 200, got %d", w.Code)
	}

	var stored db.User
	if err := gdb.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}

	w = doMultipart(t, engine, token, map[string]string{
		"code":  stored.ResetCode,
		"name":  user.Name,
		"email": holder.Email,
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateProfileRejectsBadCode(t *testing.T) {
	engine, _, _, token := newTestServer(t)

	w := doMultipart(t, engine, token, map[string]string{
		"code": "made-up",
		"name": "Nope",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUpdateProfileRequiresCodeAndName(t *testing.T) {
	engine, _, _, token := newTestServer(t)

	w := doMultipart(t, engine, token, map[string]string{"name": "No Code"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing code, got %d", w.Code)
	}
}
