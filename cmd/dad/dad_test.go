package main

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a 64-hex-char (32-byte) commitment used across these tests.
var testCommitHex = "aa" + strings.Repeat("00", 31)

func TestExitCodeForArgError(t *testing.T) {
	assert.Equal(t, 0, exitCodeFor(nil))
	assert.Equal(t, 2, exitCodeFor(newArgError("bad arg")))
	assert.Equal(t, 1, exitCodeFor(errors.New("network down")))
}

func TestInspectRootDigestOnly(t *testing.T) {
	cmd := newInspectRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"0x" + "ab" + strings.Repeat("00", 31)})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "digest-only")
}

func TestInspectRootRejectsBadHex(t *testing.T) {
	cmd := newInspectRootCmd()
	cmd.SetArgs([]string{"not-hex"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, 2, exitCodeFor(err))
}

func TestGetBlobRejectsShortCommitment(t *testing.T) {
	baseURL := "http://127.0.0.1:0"
	timeout := 5.0
	cmd := newGetBlobCmd(&baseURL, &timeout)
	cmd.SetArgs([]string{"--commit", "deadbeef"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, 2, exitCodeFor(err))
}

func TestServeCmdFailsFastOnInvalidConfig(t *testing.T) {
	t.Setenv("ANIMICA_DA_K", "100")
	t.Setenv("ANIMICA_DA_N", "10")

	cmd := newServeCmd()
	cmd.SetArgs(nil)
	err := cmd.Execute()
	require.Error(t, err)
}

func TestPutThenGetBlobAgainstLiveServer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/da/blob", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = body
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"commitment":"0x` + testCommitHex + `","namespace":1,"size":5}`))
	})
	mux.HandleFunc("/da/blob/"+testCommitHex, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	url := srv.URL
	timeout := 5.0

	putCmd := newPutBlobCmd(&url, &timeout)
	var putOut bytes.Buffer
	putCmd.SetOut(&putOut)
	putCmd.SetArgs([]string{"--ns", "1", "-"})
	putCmd.SetIn(bytes.NewBufferString("hello"))
	require.NoError(t, putCmd.Execute())
	assert.Contains(t, putOut.String(), "0xaa")

	getCmd := newGetBlobCmd(&url, &timeout)
	var getOut bytes.Buffer
	getCmd.SetOut(&getOut)
	getCmd.SetArgs([]string{"--commit", "0x" + testCommitHex})
	require.NoError(t, getCmd.Execute())
	assert.Equal(t, "hello", getOut.String())
}
