package gateway_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/isostack/distributed-file-system/internal/block"
	"github.com/isostack/distributed-file-system/internal/gateway"
	"github.com/isostack/distributed-file-system/internal/ufs"
)

// newGateway formats a fresh UFS image and serves it directly as the
// gateway's default namespace under prefix, the literal spec.md §6
// contract: {prefix}/{path} resolves from root, no mount id involved.
func newGateway(t *testing.T, prefix string) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "ufs.img")

	dev, err := block.CreateFileDevice(imgPath, ufs.BlockSize, 128)
	require.NoError(t, err)
	require.NoError(t, ufs.Format(dev, 64, 64))

	fs := ufs.New(dev)
	reg := gateway.NewRegistry()
	gw := gateway.New(fs, reg, prefix, 1<<20)
	srv := httptest.NewServer(gw.Mux())
	t.Cleanup(srv.Close)
	return srv
}

func TestGatewayPutGetRoundTrip(t *testing.T) {
	srv := newGateway(t, "/ds3")

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/ds3/hello.txt", bytes.NewBufferString("hi there"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	getResp, err := http.Get(srv.URL + "/ds3/hello.txt")
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(getResp.Body)
	require.Equal(t, "hi there", buf.String())
}

// TestGatewayScenario5 is the literal end-to-end scenario from spec.md
// §8: PUT /ds3/a/b/c then GET /ds3/a/ yields "b/\n", with no mount id
// anywhere in the path.
func TestGatewayScenario5(t *testing.T) {
	srv := newGateway(t, "/ds3")

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/ds3/a/b/c", bytes.NewBufferString("leaf"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	listResp, err := http.Get(srv.URL + "/ds3/a/")
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(listResp.Body)
	require.Equal(t, "b/\n", buf.String())
}

func TestGatewayPutCreatesIntermediateDirectories(t *testing.T) {
	srv := newGateway(t, "/ds3")

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/ds3/a/b/c.txt", bytes.NewBufferString("deep"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	listResp, err := http.Get(srv.URL + "/ds3/a/")
	require.NoError(t, err)
	defer listResp.Body.Close()
	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(listResp.Body)
	require.Contains(t, buf.String(), "b/")
}

func TestGatewayDeleteThenGetNotFound(t *testing.T) {
	srv := newGateway(t, "/ds3")

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/ds3/x.txt", bytes.NewBufferString("x"))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	delReq, _ := http.NewRequest(http.MethodDelete, srv.URL+"/ds3/x.txt", nil)
	delResp, err := http.DefaultClient.Do(delReq)
	require.NoError(t, err)
	delResp.Body.Close()
	require.Equal(t, http.StatusOK, delResp.StatusCode)

	getResp, err := http.Get(srv.URL + "/ds3/x.txt")
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusNotFound, getResp.StatusCode)
}

func TestGatewayDeleteAbsentIsQuietSuccess(t *testing.T) {
	srv := newGateway(t, "/ds3")

	delReq, _ := http.NewRequest(http.MethodDelete, srv.URL+"/ds3/never-existed.txt", nil)
	delResp, err := http.DefaultClient.Do(delReq)
	require.NoError(t, err)
	defer delResp.Body.Close()
	require.Equal(t, http.StatusOK, delResp.StatusCode)
}

// TestGatewayAdditiveMount exercises the /mount + /mnt/{id}/{path}
// route for a second image registered at runtime, alongside (not
// instead of) the primary /ds3 tree above.
func TestGatewayAdditiveMount(t *testing.T) {
	srv := newGateway(t, "/ds3")

	dir := t.TempDir()
	imgPath := filepath.Join(dir, "second.img")
	dev, err := block.CreateFileDevice(imgPath, ufs.BlockSize, 128)
	require.NoError(t, err)
	require.NoError(t, ufs.Format(dev, 64, 64))

	resp, err := http.Post(srv.URL+"/mount", "application/json", bytes.NewBufferString(`{"path":"`+imgPath+`"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.ID)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/mnt/"+body.ID+"/second.txt", bytes.NewBufferString("second"))
	require.NoError(t, err)
	putResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	putResp.Body.Close()
	require.Equal(t, http.StatusOK, putResp.StatusCode)

	getResp, err := http.Get(srv.URL + "/mnt/" + body.ID + "/second.txt")
	require.NoError(t, err)
	defer getResp.Body.Close()
	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(getResp.Body)
	require.Equal(t, "second", buf.String())

	// The primary tree is unaffected by the additive mount.
	getDefault, err := http.Get(srv.URL + "/ds3/second.txt")
	require.NoError(t, err)
	defer getDefault.Body.Close()
	require.Equal(t, http.StatusNotFound, getDefault.StatusCode)
}
