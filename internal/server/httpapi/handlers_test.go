package httpapi

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamsforlab/mediastore/internal/blob"
	"github.com/streamsforlab/mediastore/internal/common"
	"github.com/streamsforlab/mediastore/internal/cryptox"
	"github.com/streamsforlab/mediastore/internal/logging"
	"github.com/streamsforlab/mediastore/internal/server/auth"
	"github.com/streamsforlab/mediastore/internal/server/models"
	"github.com/streamsforlab/mediastore/internal/server/paths"
	"github.com/streamsforlab/mediastore/internal/server/repositories/repomanager"
	"github.com/streamsforlab/mediastore/internal/server/services"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T, quota int64) *HTTPServer {
	t.Helper()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	store := blob.NewLocalStore()
	vault, err := cryptox.NewVault(common.GenerateRandByteArray(32), store)
	require.NoError(t, err)

	svc := services.NewStorageService(
		repomanager.NewInMemoryRepositoryManager(),
		vault,
		store,
		paths.NewResolver(t.TempDir()),
		models.QuotaConfig{Max: quota},
		true,
		logger,
	)

	srv, err := NewHTTPServer(":0", logger, svc, testSecret)
	require.NoError(t, err)
	return srv
}

func tokenFor(t *testing.T, accountID string) string {
	t.Helper()
	token, err := auth.GenerateToken(accountID, []byte(testSecret), time.Minute)
	require.NoError(t, err)
	return token
}

func authedRequest(t *testing.T, method, target, accountID string, body io.Reader) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(common.AuthHeaderName, common.AuthSchemePrefix+tokenFor(t, accountID))
	return req
}

func multipartBody(t *testing.T, filename, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func upload(t *testing.T, h http.Handler, account, filename, contentType string, payload []byte) models.StorageObject {
	t.Helper()

	body, ct := multipartBody(t, filename, contentType, payload)
	req := authedRequest(t, http.MethodPost, "/api/objects/"+account, account, body)
	req.Header.Set("Content-Type", ct)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var obj models.StorageObject
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &obj))
	return obj
}

func TestUploadDownloadRoundTrip(t *testing.T) {
	srv := newTestServer(t, 1<<20)
	h := srv.Handler()

	payload := []byte("holiday snapshot bytes")
	obj := upload(t, h, "alice", "pic.jpg", "image/jpeg", payload)

	assert.NotEmpty(t, obj.ID)
	assert.Equal(t, "pic.jpg", obj.Name)
	assert.Equal(t, int64(len(payload)), obj.Weight)
	assert.Equal(t, "alice", obj.Author)

	req := authedRequest(t, http.MethodGet, "/api/objects/photos/"+obj.ID+"/alice", "alice", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		File string `json:"file"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pic.jpg", resp.Name)

	decoded, err := base64.StdEncoding.DecodeString(resp.File)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestList_ReturnsOnlyRequestedKind(t *testing.T) {
	srv := newTestServer(t, 1<<20)
	h := srv.Handler()

	upload(t, h, "alice", "pic.jpg", "image/jpeg", []byte("img"))
	upload(t, h, "alice", "doc.pdf", "application/pdf", []byte("doc"))

	req := authedRequest(t, http.MethodGet, "/api/objects/photos/alice", "alice", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []models.StorageObject
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "pic.jpg", items[0].Name)
}

func TestDownload_ForeignObjectLooksAbsent(t *testing.T) {
	srv := newTestServer(t, 1<<20)
	h := srv.Handler()

	obj := upload(t, h, "alice", "pic.jpg", "image/jpeg", []byte("private"))

	// Bob asks for Alice's object through his own tree: the response must be
	// indistinguishable from a missing id.
	req := authedRequest(t, http.MethodGet, "/api/objects/photos/"+obj.ID+"/bob", "bob", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)

	req = authedRequest(t, http.MethodGet, "/api/objects/photos/no-such-id/bob", "bob", nil)
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	require.Equal(t, http.StatusNotFound, rec2.Code)
}

func TestUpload_DuplicateNameIsConflict(t *testing.T) {
	srv := newTestServer(t, 1<<20)
	h := srv.Handler()

	upload(t, h, "alice", "pic.jpg", "image/jpeg", []byte("original"))

	body, ct := multipartBody(t, "pic.jpg", "image/jpeg", []byte("replacement"))
	req := authedRequest(t, http.MethodPost, "/api/objects/alice", "alice", body)
	req.Header.Set("Content-Type", ct)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
}

func TestUpload_QuotaExceeded(t *testing.T) {
	srv := newTestServer(t, 10)
	h := srv.Handler()

	body, ct := multipartBody(t, "big.bin", "application/octet-stream", bytes.Repeat([]byte("x"), 11))
	req := authedRequest(t, http.MethodPost, "/api/objects/alice", "alice", body)
	req.Header.Set("Content-Type", ct)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestUpload_InvalidName(t *testing.T) {
	srv := newTestServer(t, 1<<20)
	h := srv.Handler()

	body, ct := multipartBody(t, "..", "application/octet-stream", []byte("x"))
	req := authedRequest(t, http.MethodPost, "/api/objects/alice", "alice", body)
	req.Header.Set("Content-Type", ct)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDelete_AllDeletedIs200(t *testing.T) {
	srv := newTestServer(t, 1<<20)
	h := srv.Handler()

	obj1 := upload(t, h, "alice", "a.jpg", "image/jpeg", []byte("a"))
	obj2 := upload(t, h, "alice", "b.pdf", "application/pdf", []byte("b"))

	body, err := json.Marshal(map[string][]string{"files": {obj1.ID, obj2.ID}})
	require.NoError(t, err)

	req := authedRequest(t, http.MethodDelete, "/api/objects/alice", "alice", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var results []services.DeleteResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 2)
	for _, res := range results {
		assert.Equal(t, services.OutcomeDeleted, res.Outcome)
	}
}

func TestDelete_MixedOutcomesIs207(t *testing.T) {
	srv := newTestServer(t, 1<<20)
	h := srv.Handler()

	alice := upload(t, h, "alice", "a.jpg", "image/jpeg", []byte("a"))
	bob := upload(t, h, "bob", "b.jpg", "image/jpeg", []byte("b"))

	body, err := json.Marshal(map[string][]string{"files": {alice.ID, bob.ID, "missing"}})
	require.NoError(t, err)

	req := authedRequest(t, http.MethodDelete, "/api/objects/alice", "alice", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusMultiStatus, rec.Code, rec.Body.String())

	var results []services.DeleteResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 3)
	assert.Equal(t, services.OutcomeDeleted, results[0].Outcome)
	assert.Equal(t, services.OutcomeForbidden, results[1].Outcome)
	assert.Equal(t, services.OutcomeNotFound, results[2].Outcome)
}

func TestStorageRoutes(t *testing.T) {
	srv := newTestServer(t, 5000)
	h := srv.Handler()

	upload(t, h, "alice", "a.jpg", "image/jpeg", bytes.Repeat([]byte("x"), 100))
	upload(t, h, "alice", "b.pdf", "application/pdf", bytes.Repeat([]byte("y"), 200))

	req := authedRequest(t, http.MethodGet, "/api/storage/alice", "alice", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var used struct {
		StorageUsed int64 `json:"storageUsed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &used))
	assert.Equal(t, int64(300), used.StorageUsed)

	req = authedRequest(t, http.MethodGet, "/api/storage/max", "alice", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var max struct {
		MaxStoraged int64 `json:"maxStoraged"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &max))
	assert.Equal(t, int64(5000), max.MaxStoraged)
}

func TestProvisionRoute(t *testing.T) {
	srv := newTestServer(t, 1<<20)
	h := srv.Handler()

	req := authedRequest(t, http.MethodPost, "/api/accounts/alice/dirs", "alice", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestAuth_MissingAndInvalidToken(t *testing.T) {
	srv := newTestServer(t, 1<<20)
	h := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/storage/alice", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/storage/alice", nil)
	req.Header.Set(common.AuthHeaderName, common.AuthSchemePrefix+"not-a-token")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_TokenAuthorMismatch(t *testing.T) {
	srv := newTestServer(t, 1<<20)
	h := srv.Handler()

	// Valid token for bob, but the route addresses alice's tree.
	req := authedRequest(t, http.MethodGet, "/api/storage/alice", "bob", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
