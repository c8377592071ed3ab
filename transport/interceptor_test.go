package transport

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestHeaderInterceptor_AppendsValues(t *testing.T) {
	req := NewRequest(http.MethodGet, "http://orders/v1")
	req.Header.Set("Accept", "application/json")

	ic := &HeaderInterceptor{Headers: map[string][]string{
		"Accept":   {"application/xml"},
		"X-Tenant": {"acme"},
	}}
	if err := ic.Apply(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := req.Header.Values("Accept"); len(got) != 2 {
		t.Errorf("expected appended header values, got %v", got)
	}
	if req.Header.Get("X-Tenant") != "acme" {
		t.Error("missing added header")
	}
}

func TestQueryInterceptor_AddsParams(t *testing.T) {
	req := NewRequest(http.MethodGet, "http://orders/v1")
	ic := &QueryInterceptor{Params: map[string][]string{"env": {"prod"}}}
	if err := ic.Apply(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Query.Get("env") != "prod" {
		t.Errorf("unexpected query: %v", req.Query)
	}
}

func TestRequestIDInterceptor_PreservesExistingID(t *testing.T) {
	req := NewRequest(http.MethodGet, "http://orders/v1")
	if err := (RequestIDInterceptor{}).Apply(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	generated := req.Header.Get(RequestIDHeader)
	if generated == "" {
		t.Fatal("expected a generated request id")
	}

	if err := (RequestIDInterceptor{}).Apply(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Header.Get(RequestIDHeader) != generated {
		t.Error("existing request id must be preserved")
	}
}

func TestJWTAuthInterceptor_MintsVerifiableToken(t *testing.T) {
	secret := []byte("s3cret")
	ic := &JWTAuthInterceptor{Secret: secret, Issuer: "clientkit", Subject: "orders"}

	req := NewRequest(http.MethodGet, "http://orders/v1")
	if err := ic.Apply(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	auth := req.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		t.Fatalf("unexpected authorization header: %s", auth)
	}

	claims := jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		t.Fatalf("token did not verify: %v", err)
	}
	if claims.Issuer != "clientkit" || claims.Subject != "orders" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestDigestInterceptor_SkipsEmptyBody(t *testing.T) {
	req := NewRequest(http.MethodGet, "http://orders/v1")
	if err := (DigestInterceptor{}).Apply(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Header.Get(ContentDigestHeader) != "" {
		t.Error("expected no digest for empty body")
	}
}

func TestDigestInterceptor_StableDigest(t *testing.T) {
	a := NewRequest(http.MethodPost, "http://orders/v1")
	a.Body = []byte(`{"sku":"a"}`)
	b := NewRequest(http.MethodPost, "http://orders/v1")
	b.Body = []byte(`{"sku":"a"}`)

	_ = (DigestInterceptor{}).Apply(context.Background(), a)
	_ = (DigestInterceptor{}).Apply(context.Background(), b)

	da, db := a.Header.Get(ContentDigestHeader), b.Header.Get(ContentDigestHeader)
	if da == "" || da != db {
		t.Errorf("expected identical digests, got %q and %q", da, db)
	}
	if !strings.HasPrefix(da, "sha3-256=") {
		t.Errorf("unexpected digest format: %s", da)
	}
}
