package apigw

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(method, path, body string) events.APIGatewayV2HTTPRequest {
	evt := events.APIGatewayV2HTTPRequest{
		RawPath: path,
		Body:    body,
		Headers: map[string]string{"content-type": "application/json"},
	}
	evt.RequestContext.HTTP.Method = method
	evt.RequestContext.HTTP.SourceIP = "203.0.113.7"
	evt.RequestContext.DomainName = "abc.execute-api.us-east-1.amazonaws.com"
	evt.RequestContext.RequestID = "gw-req-1"
	return evt
}

func TestNewRequest(t *testing.T) {
	evt := event("post", "/api/submit-form", `{"fullName":"Jane Doe"}`)
	evt.RawQueryString = "src=ad"

	req, err := NewRequest(context.Background(), evt)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/submit-form", req.URL.Path)
	assert.Equal(t, "ad", req.URL.Query().Get("src"))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "abc.execute-api.us-east-1.amazonaws.com", req.Host)
	assert.Equal(t, "203.0.113.7", req.RemoteAddr)
	assert.Equal(t, "gw-req-1", req.Header.Get("X-Request-ID"))

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, `{"fullName":"Jane Doe"}`, string(body))
	assert.EqualValues(t, len(body), req.ContentLength)
}

func TestNewRequestFallsBackToContextPath(t *testing.T) {
	evt := event(http.MethodGet, "", "")
	evt.RequestContext.HTTP.Path = "/api/health"

	req, err := NewRequest(context.Background(), evt)
	require.NoError(t, err)
	assert.Equal(t, "/api/health", req.URL.Path)
}

func TestNewRequestDecodesBase64Body(t *testing.T) {
	evt := event(http.MethodPost, "/api/submit-form", base64.StdEncoding.EncodeToString([]byte(`{"a":1}`)))
	evt.IsBase64Encoded = true

	req, err := NewRequest(context.Background(), evt)
	require.NoError(t, err)
	body, _ := io.ReadAll(req.Body)
	assert.Equal(t, `{"a":1}`, string(body))
}

func TestHandlerRejectsBadBase64(t *testing.T) {
	evt := event(http.MethodPost, "/api/submit-form", "%%%")
	evt.IsBase64Encoded = true

	resp, err := Handler(http.NotFoundHandler())(context.Background(), evt)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandlerCopiesResponse(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Add("Set-Cookie", "a=1")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false}`))
	})

	resp, err := Handler(h)(context.Background(), event(http.MethodPost, "/api/submit-form", "{}"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["content-type"])
	assert.Equal(t, []string{"a=1"}, resp.Cookies)
	assert.Equal(t, `{"success":false}`, resp.Body)
	assert.False(t, resp.IsBase64Encoded)
}

func TestHandlerEncodesBinaryBody(t *testing.T) {
	payload := []byte{0xff, 0xfe, 0x00}
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	})

	resp, err := Handler(h)(context.Background(), event(http.MethodGet, "/logo.png", ""))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, resp.IsBase64Encoded)
	assert.Equal(t, base64.StdEncoding.EncodeToString(payload), resp.Body)
}
