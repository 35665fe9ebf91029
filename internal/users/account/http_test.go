// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/account"
)

func call(t *testing.T, identity *sec.Identity, method, path, body string) (int, map[string]any) {
	t.Helper()
	routes := account.NewHandler(account.NewService(seeded())).Routes()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	if identity != nil {
		request = request.WithContext(ctxutil.WithIdentity(request.Context(), identity))
	}
	recorder := httptest.NewRecorder()
	routes.ServeHTTP(recorder, request)

	var payload map[string]any
	if recorder.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	}
	return recorder.Code, payload
}

/*
TestHandler_Permissions verifies who may reach which endpoint.
*/
func TestHandler_Permissions(t *testing.T) {
	tests := []struct {
		name     string
		identity *sec.Identity
		method   string
		path     string
		body     string
		status   int
	}{
		{"anonymous me", nil, http.MethodGet, "/me", "", http.StatusUnauthorized},
		{"user me", alice, http.MethodGet, "/me", "", http.StatusOK},
		{"anonymous list", nil, http.MethodGet, "/", "", http.StatusUnauthorized},
		{"user list", alice, http.MethodGet, "/", "", http.StatusForbidden},
		{"admin list", admin, http.MethodGet, "/", "", http.StatusOK},
		{"user get", alice, http.MethodGet, "/bob", "", http.StatusForbidden},
		{"admin get", admin, http.MethodGet, "/bob", "", http.StatusOK},
		{"admin get missing", admin, http.MethodGet, "/zed", "", http.StatusNotFound},
		{"admin create", admin, http.MethodPost, "/", `{"username":"carol","email":"carol@example.com"}`, http.StatusCreated},
		{"admin delete", admin, http.MethodDelete, "/bob", "", http.StatusNoContent},
		{"user delete", alice, http.MethodDelete, "/bob", "", http.StatusForbidden},
		{"user patch me role", alice, http.MethodPatch, "/me", `{"role":"admin"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := call(t, tt.identity, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, status)
		})
	}
}

/*
TestHandler_Payload verifies the user representation and list envelope.
*/
func TestHandler_Payload(t *testing.T) {
	status, payload := call(t, alice, http.MethodPatch, "/me", `{"first_name":"Alice","bio":"film buff"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{
		"username":   "alice",
		"email":      "alice@example.com",
		"first_name": "Alice",
		"last_name":  "",
		"bio":        "film buff",
		"role":       "user",
	}, payload["data"])

	status, payload = call(t, admin, http.MethodGet, "/?search=o&limit=1", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, payload["data"], 1)
	meta := payload["meta"].(map[string]any)
	assert.EqualValues(t, 2, meta["total"])
	assert.EqualValues(t, 2, meta["total_pages"])
}
