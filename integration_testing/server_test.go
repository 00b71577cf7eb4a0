package integration_testing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/ThePerryDev/MindCare-sub000/internal/middleware"
	"github.com/ThePerryDev/MindCare-sub000/internal/trails"

	"github.com/stretchr/testify/require"
)

func login(t *testing.T, username, password string) (token string, statusCode int) {
	t.Helper()

	loginReqJson, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	require.NoError(t, err)

	req, err := http.NewRequest(
		http.MethodPost,
		serverEndpoint+"/a/login",
		bytes.NewReader(loginReqJson),
	)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
	return loginResp.Token, resp.StatusCode
}

func doAuthenticated(t *testing.T, token, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		bodyJson, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(bodyJson)
	}

	req, err := http.NewRequest(method, serverEndpoint+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.AuthTokenHeader, token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, respBytes
}

func TestServer_TrailsFlow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	suite := newSuite(ctx)
	defer suite.cleanup()

	// give the listeners a moment to come up
	require.Eventually(t, func() bool {
		resp, err := http.Get(serverEndpoint + "/")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 100*time.Millisecond)

	t.Run("login", func(t *testing.T) {
		_, statusCode := login(t, testUsername, "wrong-password")
		require.Equal(t, http.StatusBadRequest, statusCode)
	})

	token, statusCode := login(t, testUsername, testPassword)
	require.Equal(t, http.StatusOK, statusCode)
	require.NotEmpty(t, token)

	t.Run("list trails", func(t *testing.T) {
		resp, respBytes := doAuthenticated(t, token, http.MethodGet, "/trails", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var listedTrails []trails.TrailDefinition
		require.NoError(t, json.Unmarshal(respBytes, &listedTrails))
		require.NotEmpty(t, listedTrails)
		require.Len(t, listedTrails[0].Steps, trails.StepsPerTrail)
	})

	t.Run("record executions without auth", func(t *testing.T) {
		resp, _ := doAuthenticated(t, "invalid-token", http.MethodPost, "/trails/registro", trails.RecordExecutionRequest{
			TrailID:  1,
			TrailDay: 1,
		})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	var day string
	t.Run("record executions", func(t *testing.T) {
		resp, respBytes := doAuthenticated(t, token, http.MethodPost, "/trails/registro", trails.RecordExecutionRequest{
			TrailID:    1,
			TrailDay:   1,
			TriggerTag: string(trails.TagAnsiedade),
			TagSource:  string(trails.SourceEntry),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var dayLog trails.ExecutionLogDay
		require.NoError(t, json.Unmarshal(respBytes, &dayLog))
		require.Len(t, dayLog.Executions, 1)
		day = dayLog.Day

		// second execution on the same day lands in the same day log
		resp, respBytes = doAuthenticated(t, token, http.MethodPost, "/trails/registro", trails.RecordExecutionRequest{
			TrailID:  2,
			TrailDay: 1,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var dayLog2 trails.ExecutionLogDay
		require.NoError(t, json.Unmarshal(respBytes, &dayLog2))
		require.Equal(t, dayLog.ID, dayLog2.ID)
		require.Len(t, dayLog2.Executions, 2)
	})

	t.Run("get day log", func(t *testing.T) {
		resp, respBytes := doAuthenticated(t, token, http.MethodGet, "/trails/registro/day/"+day, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var dayLog trails.ExecutionLogDay
		require.NoError(t, json.Unmarshal(respBytes, &dayLog))
		require.Equal(t, day, dayLog.Day)
		require.Len(t, dayLog.Executions, 2)

		resp, _ = doAuthenticated(t, token, http.MethodGet, "/trails/registro/day/2020-01-01", nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("stats", func(t *testing.T) {
		resp, respBytes := doAuthenticated(t, token, http.MethodGet, "/trails/stats?period=all", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var report trails.AggregateReport
		require.NoError(t, json.Unmarshal(respBytes, &report))
		require.Equal(t, 2, report.TotalExercises)
		require.Equal(t, 2, report.DistinctTrailCount)
		require.Len(t, report.PerTrail, 2)
		require.Len(t, report.PerTag, 2)
		require.Contains(t, string(respBytes), fmt.Sprintf(`"porSentimento":[{"_id":"%s"`, trails.TagAnsiedade))
	})

	t.Run("logout", func(t *testing.T) {
		resp, _ := doAuthenticated(t, token, http.MethodGet, "/a/logout", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = doAuthenticated(t, token, http.MethodGet, "/trails/stats?period=all", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
