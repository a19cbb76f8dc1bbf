package testutil

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockAPIRecordsRequests(t *testing.T) {
	server := NewMockAPI(map[string]http.HandlerFunc{
		"/ok": WithJSONResponse(http.StatusOK, map[string]string{"status": "ok"}),
	})
	defer server.Close()

	resp, err := http.Post(server.URL+"/ok?x=1", "application/json", strings.NewReader(`{"a":1}`))
	require.NoError(t, err)
	resp.Body.Close()

	reqs := server.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/ok", reqs[0].Path)
	assert.Equal(t, "1", reqs[0].Query["x"])

	var body map[string]int
	require.NoError(t, reqs[0].DecodeBody(&body))
	assert.Equal(t, 1, body["a"])
}

func TestSequenceRepeatsLastHandler(t *testing.T) {
	server := NewMockAPI(map[string]http.HandlerFunc{
		"/seq": Sequence(
			WithJSONResponse(http.StatusOK, nil),
			WithTextResponse(http.StatusTeapot, "nope"),
		),
	})
	defer server.Close()

	codes := []int{}
	for i := 0; i < 3; i++ {
		resp, err := http.Get(server.URL + "/seq")
		require.NoError(t, err)
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 418, 418}, codes)
	assert.Equal(t, 3, server.Count("/seq"))
}
