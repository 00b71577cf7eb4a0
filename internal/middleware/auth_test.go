package middleware_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ThePerryDev/MindCare-sub000/internal/auth"
	"github.com/ThePerryDev/MindCare-sub000/internal/middleware"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddlewareHandler_AuthCheck(t *testing.T) {
	rdb, redisMock := redismock.NewClientMock()
	loginChecker := auth.NewLoginChecker(time.Hour, rdb)
	authMiddleware := middleware.NewAuthMiddlewareHandler(loginChecker)

	now := time.Now()

	testCases := []struct {
		name               string
		path               string
		method             string
		token              string
		sessionValue       string
		sessionMissing     bool
		expectedStatusCode int
		expectedUserID     string
	}{
		{
			name:               "RootWithoutToken",
			path:               "/",
			method:             "GET",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "TrailCatalogIsPublic",
			path:               "/trails",
			method:             "GET",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "ProtectedPathWithoutToken",
			path:               "/trails/stats",
			method:             "GET",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "ValidToken",
			path:               "/trails/stats",
			method:             "GET",
			token:              "valid-token",
			sessionValue:       fmt.Sprintf("user-1||%d", now.Unix()),
			expectedStatusCode: http.StatusOK,
			expectedUserID:     "user-1",
		},
		{
			name:               "UnknownToken",
			path:               "/trails/stats",
			method:             "GET",
			token:              "unknown-token",
			sessionMissing:     true,
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "ExpiredSession",
			path:               "/trails/registro",
			method:             "POST",
			token:              "stale-token",
			sessionValue:       fmt.Sprintf("user-1||%d", now.Add(-2*time.Hour).Unix()),
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "OptionsPreflight",
			path:               "/trails/registro",
			method:             "OPTIONS",
			expectedStatusCode: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, tc.path, nil)
			require.NoError(t, err)
			if tc.token != "" {
				req.Header.Add(middleware.AuthTokenHeader, tc.token)
				sessionKey := "mindcare-session||" + tc.token
				if tc.sessionMissing {
					redisMock.ExpectGet(sessionKey).RedisNil()
				} else {
					redisMock.ExpectGet(sessionKey).SetVal(tc.sessionValue)
				}
			}

			var gotUserID string
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, _ = middleware.UserIDFromContext(r.Context())
			})

			rr := httptest.NewRecorder()
			authMiddleware.AuthCheck()(handler).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
			if tc.expectedUserID != "" {
				assert.Equal(t, tc.expectedUserID, gotUserID)
			}
			assert.NoError(t, redisMock.ExpectationsWereMet())
		})
	}
}
