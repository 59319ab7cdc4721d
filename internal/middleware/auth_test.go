package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/gymsignal/internal/middleware"
	"github.com/2beens/gymsignal/pkg"
)

func TestAuthMiddlewareHandler_AuthCheck(t *testing.T) {
	tokenHash, err := pkg.HashToken("valid-token")
	require.NoError(t, err)
	authMiddleware := middleware.NewAuthMiddlewareHandler(tokenHash)

	testCases := []struct {
		name               string
		path               string
		method             string
		bearer             string
		headerToken        string
		expectedStatusCode int
		expectNextCalled   bool
	}{
		{
			name:               "AllowedPathWithoutToken",
			path:               "/version",
			method:             http.MethodGet,
			expectedStatusCode: http.StatusOK,
			expectNextCalled:   true,
		},
		{
			name:               "PublicCatalogRead",
			path:               "/gymstats/catalog/bench",
			method:             http.MethodGet,
			expectedStatusCode: http.StatusOK,
			expectNextCalled:   true,
		},
		{
			name:               "CatalogWriteNeedsToken",
			path:               "/gymstats/catalog",
			method:             http.MethodPut,
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "Preflight",
			path:               "/gymstats/sets",
			method:             http.MethodOptions,
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "MissingToken",
			path:               "/gymstats/suggestion/bench",
			method:             http.MethodGet,
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "ValidBearerToken",
			path:               "/gymstats/suggestion/bench",
			method:             http.MethodGet,
			bearer:             "valid-token",
			expectedStatusCode: http.StatusOK,
			expectNextCalled:   true,
		},
		{
			name:               "ValidHeaderToken",
			path:               "/gymstats/sets",
			method:             http.MethodPost,
			headerToken:        "valid-token",
			expectedStatusCode: http.StatusOK,
			expectNextCalled:   true,
		},
		{
			name:               "InvalidToken",
			path:               "/gymstats/sets",
			method:             http.MethodPost,
			bearer:             "invalid-token",
			expectedStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, tc.path, nil)
			require.NoError(t, err)
			if tc.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tc.bearer)
			}
			if tc.headerToken != "" {
				req.Header.Set(middleware.TokenHeader, tc.headerToken)
			}

			nextCalled := false
			rr := httptest.NewRecorder()
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
			})
			authMiddleware.AuthCheck()(handler).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
			assert.Equal(t, tc.expectNextCalled, nextCalled)
		})
	}
}

func TestRequestToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, middleware.RequestToken(req))

	req.Header.Set(middleware.TokenHeader, "from-header")
	assert.Equal(t, "from-header", middleware.RequestToken(req))

	req.Header.Set("Authorization", "Bearer  from-bearer ")
	assert.Equal(t, "from-bearer", middleware.RequestToken(req))

	req.Header.Set("Authorization", "Basic abc")
	assert.Equal(t, "from-header", middleware.RequestToken(req))
}
