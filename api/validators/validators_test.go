package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/Arafat-Sarder/sarder-super-shop-pos/pkg/errors"
)

type createRequest struct {
	Name   string `json:"name" validate:"required,max=8"`
	Method string `json:"method" validate:"omitempty,oneof=Cash Card"`
}

func TestDecodeJSONBodyValidates(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"method":"Cheque"}`))
	var req createRequest
	err := DecodeJSONBody(r, &req)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details := typed.Details().(map[string]string)
	require.Equal(t, "is required", details["name"])
	require.Equal(t, "must be one of [Cash Card]", details["method"])
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok","extra":1}`))
	var req createRequest
	require.True(t, pkgerrors.HasCode(DecodeJSONBody(r, &req), pkgerrors.CodeValidation))
}

func TestDecodeJSONBodyAccepts(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Rice","method":"Cash"}`))
	var req createRequest
	require.NoError(t, DecodeJSONBody(r, &req))
	require.Equal(t, "Rice", req.Name)
}

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=20&bad=x&big=900", nil)

	v, err := ParseQueryInt(r, "limit", 50, 1, 200)
	require.NoError(t, err)
	require.Equal(t, 20, v)

	v, err = ParseQueryInt(r, "missing", 50, 1, 200)
	require.NoError(t, err)
	require.Equal(t, 50, v)

	_, err = ParseQueryInt(r, "bad", 50, 1, 200)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	_, err = ParseQueryInt(r, "big", 50, 1, 200)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestParsePathID(t *testing.T) {
	withParam := func(value string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", value)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}

	id, err := ParsePathID(withParam("42"), "id")
	require.NoError(t, err)
	require.Equal(t, int64(42), id)

	for _, raw := range []string{"", "0", "-3", "abc"} {
		_, err := ParsePathID(withParam(raw), "id")
		require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), raw)
	}
}

func TestSanitizeString(t *testing.T) {
	require.Equal(t, "till", SanitizeString("  till-one ", 4))
	require.Equal(t, "till-one", SanitizeString("  till-one ", 0))
}

func TestSanitizeStringKeepsRunesWhole(t *testing.T) {
	require.Equal(t, "চাল", SanitizeString(" চাল ডাল ", 3))
}

func TestDecodeJSONBodyRejectsEmptyAndTrailing(t *testing.T) {
	var req createRequest
	empty := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	err := DecodeJSONBody(empty, &req)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	require.Contains(t, err.Error(), "request body is required")

	trailing := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}{"name":"b"}`))
	require.True(t, pkgerrors.HasCode(DecodeJSONBody(trailing, &req), pkgerrors.CodeValidation))
}
