package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditline/internal/creditline/handler"
	"creditline/internal/creditline/service"
	"creditline/internal/creditline/store"
	"creditline/internal/creditline/strategy"
	id "creditline/pkg/domain"
	"creditline/pkg/platform/httputil"
	"creditline/pkg/testutil"
)

// envelope mirrors httputil.ContractResponse with a concrete response payload
// for assertions.
type envelope struct {
	Response *struct {
		CreditLineStatus   string           `json:"creditLineStatus"`
		AcceptedCreditLine *decimal.Decimal `json:"acceptedCreditLine"`
		Message            string           `json:"message"`
	} `json:"response"`
	Error *struct {
		ErrorCode    int    `json:"errorCode"`
		ErrorType    string `json:"errorType"`
		ErrorMessage string `json:"errorMessage"`
	} `json:"error"`
	Path         string `json:"path"`
	UTCTimestamp string `json:"utcTimestamp"`
}

func newRouter(t *testing.T, opts ...handler.Option) chi.Router {
	t.Helper()

	svc, err := service.New(store.NewMemory(), service.Config{
		Ratios:            strategy.Ratios{SMERevenueRatio: 5, StartupCashRatio: 3},
		MaxFailedAttempts: 3,
		EscalationMessage: "A sales agent will contact you",
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	handler.New(svc, opts...).Register(r)
	return r
}

func requestBody(revenue, requested string) map[string]any {
	return map[string]any{
		"monthlyRevenue":      json.Number(revenue),
		"requestedCreditLine": json.Number(requested),
	}
}

func TestRequestCreditLineAccepted(t *testing.T) {
	router := newRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/credit-line/request", requestBody("50000", "8000"))
	req.Header.Set("customerId", id.NewCustomerID().String())
	req.Header.Set("foundingType", "SME")

	rr := testutil.DoRequest(router, req)
	require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())

	env := testutil.UnmarshalResponse[envelope](t, rr)
	require.NotNil(t, env.Response)
	assert.Equal(t, "ACCEPTED", env.Response.CreditLineStatus)
	require.NotNil(t, env.Response.AcceptedCreditLine)
	assert.True(t, env.Response.AcceptedCreditLine.Equal(decimal.RequireFromString("8000")))
	assert.Equal(t, "/v1/credit-line/request", env.Path)
	assert.NotEmpty(t, env.UTCTimestamp)
	assert.Nil(t, env.Error)
}

func TestRequestCreditLineRejected(t *testing.T) {
	router := newRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/credit-line/request", requestBody("50000", "20000"))
	req.Header.Set("customerId", id.NewCustomerID().String())
	req.Header.Set("foundingType", "SME")

	rr := testutil.DoRequest(router, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	env := testutil.UnmarshalResponse[envelope](t, rr)
	require.NotNil(t, env.Response)
	assert.Equal(t, "REJECTED", env.Response.CreditLineStatus)
	assert.Nil(t, env.Response.AcceptedCreditLine)
	assert.Empty(t, env.Response.Message)
}

func TestRequestCreditLineEscalated(t *testing.T) {
	router := newRouter(t)
	customerID := id.NewCustomerID().String()

	send := func(requested string) *httptest.ResponseRecorder {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/credit-line/request", requestBody("50000", requested))
		req.Header.Set("customerId", customerID)
		req.Header.Set("foundingType", "SME")
		return testutil.DoRequest(router, req)
	}

	for i := 0; i < 4; i++ {
		rr := send("20000")
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := send("100")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	env := testutil.UnmarshalResponse[envelope](t, rr)
	require.NotNil(t, env.Response)
	assert.Equal(t, "REJECTED", env.Response.CreditLineStatus)
	assert.Equal(t, "A sales agent will contact you", env.Response.Message)
}

func TestRequestCreditLineMissingHeaders(t *testing.T) {
	router := newRouter(t)

	tests := []struct {
		name    string
		headers map[string]string
	}{
		{name: "no customer id", headers: map[string]string{"foundingType": "SME"}},
		{name: "no founding type", headers: map[string]string{"customerId": id.NewCustomerID().String()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/credit-line/request", requestBody("50000", "8000"))
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			rr := testutil.DoRequest(router, req)
			require.Equal(t, http.StatusBadRequest, rr.Code)

			env := testutil.UnmarshalResponse[envelope](t, rr)
			require.NotNil(t, env.Error)
			assert.Equal(t, string(httputil.ErrorTypeMissingRequiredHeader), env.Error.ErrorType)
			assert.Equal(t, http.StatusBadRequest, env.Error.ErrorCode)
		})
	}
}

func TestRequestCreditLineBadInput(t *testing.T) {
	router := newRouter(t)

	tests := []struct {
		name        string
		fundingType string
		customerID  string
		body        map[string]any
	}{
		{
			name:        "unknown funding type",
			fundingType: "CHARITY",
			customerID:  id.NewCustomerID().String(),
			body:        requestBody("50000", "8000"),
		},
		{
			name:        "malformed customer id",
			fundingType: "SME",
			customerID:  "not-a-uuid",
			body:        requestBody("50000", "8000"),
		},
		{
			name:        "missing revenue",
			fundingType: "SME",
			customerID:  id.NewCustomerID().String(),
			body:        map[string]any{"requestedCreditLine": json.Number("8000")},
		},
		{
			name:        "negative requested amount",
			fundingType: "SME",
			customerID:  id.NewCustomerID().String(),
			body:        requestBody("50000", "-1"),
		},
		{
			name:        "unknown body field",
			fundingType: "SME",
			customerID:  id.NewCustomerID().String(),
			body: map[string]any{
				"monthlyRevenue":      json.Number("50000"),
				"requestedCreditLine": json.Number("8000"),
				"favouriteColour":     "blue",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/credit-line/request", tt.body)
			req.Header.Set("customerId", tt.customerID)
			req.Header.Set("foundingType", tt.fundingType)

			rr := testutil.DoRequest(router, req)
			require.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())

			env := testutil.UnmarshalResponse[envelope](t, rr)
			require.NotNil(t, env.Error)
			assert.Equal(t, string(httputil.ErrorTypeMismatchRequest), env.Error.ErrorType)
		})
	}
}

func TestRequestCreditLineIgnoresClientDate(t *testing.T) {
	router := newRouter(t)

	body := requestBody("50000", "8000")
	body["requestedDate"] = "2001-01-01T00:00:00Z"

	req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/credit-line/request", body)
	req.Header.Set("customerId", id.NewCustomerID().String())
	req.Header.Set("foundingType", "SME")

	rr := testutil.DoRequest(router, req)
	require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())
}

func TestStatusDefaultsToRejected(t *testing.T) {
	router := newRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/v1/credit-line/status", nil)
	req.Header.Set("customerId", id.NewCustomerID().String())

	rr := testutil.DoRequest(router, req)
	require.Equal(t, http.StatusOK, rr.Code)

	env := testutil.UnmarshalResponse[envelope](t, rr)
	require.NotNil(t, env.Response)
	assert.Equal(t, "REJECTED", env.Response.CreditLineStatus)
}

func TestStatusAfterAcceptance(t *testing.T) {
	router := newRouter(t)
	customerID := id.NewCustomerID().String()

	req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/credit-line/request", requestBody("50000", "8000"))
	req.Header.Set("customerId", customerID)
	req.Header.Set("foundingType", "SME")
	require.Equal(t, http.StatusAccepted, testutil.DoRequest(router, req).Code)

	statusReq := testutil.NewJSONRequest(t, http.MethodGet, "/v1/credit-line/status", nil)
	statusReq.Header.Set("customerId", customerID)

	rr := testutil.DoRequest(router, statusReq)
	require.Equal(t, http.StatusOK, rr.Code)

	env := testutil.UnmarshalResponse[envelope](t, rr)
	require.NotNil(t, env.Response)
	assert.Equal(t, "ACCEPTED", env.Response.CreditLineStatus)
}

func TestRateLimitMiddlewareGuardsRequestOnly(t *testing.T) {
	deny := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
	}
	router := newRouter(t, handler.WithRateLimit(deny))

	req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/credit-line/request", requestBody("50000", "8000"))
	req.Header.Set("customerId", id.NewCustomerID().String())
	req.Header.Set("foundingType", "SME")
	assert.Equal(t, http.StatusTooManyRequests, testutil.DoRequest(router, req).Code)

	statusReq := testutil.NewJSONRequest(t, http.MethodGet, "/v1/credit-line/status", nil)
	statusReq.Header.Set("customerId", id.NewCustomerID().String())
	assert.Equal(t, http.StatusOK, testutil.DoRequest(router, statusReq).Code)
}
