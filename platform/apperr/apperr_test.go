package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{Validation("bad"), http.StatusUnprocessableEntity},
		{BadRequest("bad"), http.StatusBadRequest},
		{Unavailable("down", errors.New("dial tcp")), http.StatusServiceUnavailable},
		{Upstream("500"), http.StatusBadGateway},
		{Rejected("success=0"), http.StatusBadGateway},
		{New(KindTooManyRequests, "slow down"), http.StatusTooManyRequests},
		{Wrap(KindInternal, "encode request", errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.want {
			t.Fatalf("expected %d for %q, got %d", tc.want, tc.err.Message, got)
		}
	}
}

func TestIsServiceFollowsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("refresh: %w", Rejected("not applied").WithOp("list leads"))

	if !IsService(wrapped) {
		t.Fatalf("expected wrapped rejection to be a service error")
	}
	if IsService(Validation("name required")) {
		t.Fatalf("expected validation error not to be a service error")
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Fatalf("expected KindUnknown for untyped error")
	}
}

func TestErrorMessageIncludesOpAndCause(t *testing.T) {
	err := Unavailable("lead service unreachable", errors.New("connection refused")).WithOp("delete lead")

	want := "delete lead: lead service unreachable: connection refused"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
	if !errors.Is(err, err.Err) {
		t.Fatalf("expected Unwrap to expose the cause")
	}
}
