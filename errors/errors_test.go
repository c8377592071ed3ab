package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestCapabilityNotFound_CarriesScopeAndCapability(t *testing.T) {
	err := CapabilityNotFound("orders", "Encoder")

	if err.Code != ErrCodeCapabilityNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeCapabilityNotFound, err.Code)
	}
	if err.Details["scope"] != "orders" {
		t.Errorf("expected scope detail, got %v", err.Details["scope"])
	}
	if !IsCapabilityNotFound(err) {
		t.Error("IsCapabilityNotFound returned false")
	}
}

func TestInvocation_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Invocation("http://orders", "GetOrder", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if !IsInvocation(err) {
		t.Error("IsInvocation returned false")
	}
	if IsFallbackInvocation(err) {
		t.Error("IsFallbackInvocation matched an invocation error")
	}
}

func TestCodeOf_WrappedError(t *testing.T) {
	err := fmt.Errorf("building client: %w", NoLoadBalancer("orders"))

	if CodeOf(err) != ErrCodeNoLoadBalancer {
		t.Errorf("expected %s, got %s", ErrCodeNoLoadBalancer, CodeOf(err))
	}
	if !IsNoLoadBalancer(err) {
		t.Error("IsNoLoadBalancer returned false for wrapped error")
	}
}

func TestCodeOf_ForeignError(t *testing.T) {
	if CodeOf(errors.New("plain")) != "" {
		t.Error("expected empty code for non-clientkit error")
	}
}

func TestIsConstructionCode(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want bool
	}{
		{ErrCodeCapabilityNotFound, true},
		{ErrCodeAmbiguousCapability, true},
		{ErrCodeNoLoadBalancer, true},
		{ErrCodeInvalidDeclaration, true},
		{ErrCodeInvocation, false},
		{ErrCodeFallbackInvocation, false},
	}
	for _, tc := range cases {
		if got := IsConstructionCode(tc.code); got != tc.want {
			t.Errorf("IsConstructionCode(%s) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestFallbackInvocation_Message(t *testing.T) {
	err := FallbackInvocation("GetOrder", errors.New("boom"))
	want := "FALLBACK_INVOCATION_FAILURE: fallback for GetOrder failed (cause: boom)"
	if err.Error() != want {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
