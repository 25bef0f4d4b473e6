package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/farm-market/internal/repository"
	"github.com/iliyamo/farm-market/internal/store"
)

func TestFailMapsErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{repository.NewValidationError("bad", "quantity"), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", repository.ErrNotFound), http.StatusNotFound},
		{repository.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("save crops: %w", store.ErrVersionConflict), http.StatusConflict},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	e := echo.New()
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		if err := fail(c, tc.err); err != nil {
			t.Fatalf("fail returned %v", err)
		}
		if rec.Code != tc.code {
			t.Fatalf("%v: got %d want %d", tc.err, rec.Code, tc.code)
		}
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = fail(c, repository.NewValidationError("missing required listing fields", "name", "price"))
	if got := rec.Body.String(); got != "{\"error\":\"missing required listing fields\",\"fields\":[\"name\",\"price\"]}\n" {
		t.Fatalf("validation body %s", got)
	}
}

func TestMutationBody(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	_ = mutation(c, false, "order", struct{ ID string }{"o1"})
	if rec.Code != http.StatusOK || rec.Body.String() != "{\"changed\":false}\n" {
		t.Fatalf("no-op body %d %s", rec.Code, rec.Body)
	}
}

func TestPriceParam(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/?min_price=10.5&max_price=abc", nil), httptest.NewRecorder())
	if v, err := priceParam(c, "min_price"); err != nil || v == nil || *v != 10.5 {
		t.Fatalf("min_price: %v %v", v, err)
	}
	if _, err := priceParam(c, "max_price"); err == nil {
		t.Fatalf("expected error for non-numeric bound")
	}
	if v, err := priceParam(c, "absent"); err != nil || v != nil {
		t.Fatalf("absent bound: %v %v", v, err)
	}
}
