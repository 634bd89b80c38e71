package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLogin_ReturnsToken(t *testing.T) {
	var gotPath string
	var gotCreds map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotCreds)
		w.Write([]byte(`{"token":"jwt-abc"}`))
	}))
	defer srv.Close()

	token, err := Login(context.Background(), srv.URL, "admin@example.com", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "jwt-abc" {
		t.Errorf("expected jwt-abc, got %q", token)
	}
	if gotPath != "/auth/user/emailpass" {
		t.Errorf("unexpected login path %q", gotPath)
	}
	if gotCreds["email"] != "admin@example.com" || gotCreds["password"] != "secret" {
		t.Errorf("unexpected credential payload: %v", gotCreds)
	}
}

func TestLogin_NonOKStatusFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid credentials"}`))
	}))
	defer srv.Close()

	if _, err := Login(context.Background(), srv.URL, "admin@example.com", "wrong"); err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestLogin_EmptyTokenFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":""}`))
	}))
	defer srv.Close()

	if _, err := Login(context.Background(), srv.URL, "admin@example.com", "secret"); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestLogin_TrimsTrailingSlash(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"token":"t"}`))
	}))
	defer srv.Close()

	if _, err := Login(context.Background(), srv.URL+"/", "a@b.c", "p"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/auth/user/emailpass" {
		t.Errorf("expected clean path, got %q", gotPath)
	}
}
