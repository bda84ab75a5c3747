package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelight/claimsbridge/internal/audit"
	"github.com/carelight/claimsbridge/internal/intake"
	"github.com/carelight/claimsbridge/internal/logging"
	"github.com/carelight/claimsbridge/internal/result"
	"github.com/carelight/claimsbridge/internal/transfer"
)

type fakeProvider struct {
	res         result.Result[intake.Record]
	gotID       string
	shouldPanic bool
}

func (f *fakeProvider) GetIntake(ctx context.Context, id string) result.Result[intake.Record] {
	f.gotID = id
	if f.shouldPanic {
		panic("provider exploded")
	}
	return f.res
}

type fakeSink struct {
	events []audit.Event
	err    error
}

func (f *fakeSink) Record(ctx context.Context, ev audit.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

type fakeSession struct {
	listings   map[string][]transfer.Entry
	errs       map[string]error
	closeCount int
}

func (f *fakeSession) List(path string) ([]transfer.Entry, error) {
	if err := f.errs[path]; err != nil {
		return nil, err
	}
	return f.listings[path], nil
}

func (f *fakeSession) Close() error {
	f.closeCount++
	return nil
}

func entries(n int) []transfer.Entry {
	out := make([]transfer.Entry, n)
	for i := range out {
		out[i] = transfer.Entry{
			Name:       fmt.Sprintf("f%02d.txt", i),
			Type:       "-",
			Size:       int64(i),
			ModifyTime: "2026-03-01T00:00:00Z",
		}
	}
	return out
}

type harness struct {
	provider *fakeProvider
	sink     *fakeSink
	session  *fakeSession
	dialErr  error
	strict   bool
}

func (h *harness) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	dial := func(transfer.Config) (transfer.Session, error) {
		if h.dialErr != nil {
			return nil, h.dialErr
		}
		return h.session, nil
	}
	handler := NewHandler(logging.NewJSON(io.Discard), h.provider, h.sink, dial, transfer.Config{}, h.strict)
	return NewRouter(handler)
}

func newHarness() *harness {
	return &harness{
		provider: &fakeProvider{res: result.Ok(intake.Record{"Id": "abc"})},
		sink:     &fakeSink{},
		session: &fakeSession{
			listings: map[string][]transfer.Entry{
				"/":         entries(3),
				"/outbound": entries(2),
				"/inbound":  entries(1),
			},
			errs: map[string]error{},
		},
	}
}

func do(r *gin.Engine, method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "192.0.2.10:51234"
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGetIntake_Success(t *testing.T) {
	h := newHarness()
	h.provider.res = result.Ok(intake.Record{"Id": "abc-1", "ClientName": "Jordan Doe"})

	w := do(h.router(), http.MethodGet, "/api/intakes/abc-1", map[string]string{
		"X-Forwarded-For": "203.0.113.7",
		"User-Agent":      "claims-web/2.4",
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "Jordan Doe", data["ClientName"])

	assert.Equal(t, "abc-1", h.provider.gotID)

	require.Len(t, h.sink.events, 1)
	ev := h.sink.events[0]
	assert.Equal(t, audit.ActionIntakeViewed, ev.Action)
	assert.Equal(t, audit.ResourceTypeIntake, ev.ResourceType)
	assert.Equal(t, "abc-1", ev.ResourceID)
	assert.Equal(t, "203.0.113.7", ev.IPAddress)
	assert.Equal(t, "claims-web/2.4", ev.UserAgent)
}

func TestGetIntake_IPFallsBackToRemoteAddr(t *testing.T) {
	h := newHarness()

	w := do(h.router(), http.MethodGet, "/api/intakes/abc", nil)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, h.sink.events, 1)
	assert.Equal(t, "192.0.2.10", h.sink.events[0].IPAddress)
}

func TestGetIntake_UpstreamFailure(t *testing.T) {
	h := newHarness()
	h.provider.res = result.Fail[intake.Record]("intake x not found", intake.CodeNotFound)

	w := do(h.router(), http.MethodGet, "/api/intakes/x", nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "intake x not found", errObj["message"])
	assert.Equal(t, "NOT_FOUND", errObj["code"])

	// no audit event for a failed lookup
	assert.Empty(t, h.sink.events)
}

func TestGetIntake_UpstreamFailureWithoutDetail(t *testing.T) {
	h := newHarness()
	h.provider.res = result.Result[intake.Record]{Success: false}

	w := do(h.router(), http.MethodGet, "/api/intakes/x", nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "Failed to fetch intake record", errObj["message"])
	_, hasCode := errObj["code"]
	assert.False(t, hasCode)
}

func TestGetIntake_AuditFailureFireAndForget(t *testing.T) {
	h := newHarness()
	h.sink.err = errors.New("sink down")

	w := do(h.router(), http.MethodGet, "/api/intakes/abc", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["success"])
}

func TestGetIntake_AuditFailureStrict(t *testing.T) {
	h := newHarness()
	h.sink.err = errors.New("sink down")
	h.strict = true

	w := do(h.router(), http.MethodGet, "/api/intakes/abc", nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "An unexpected error occurred", errObj["message"])
	assert.Equal(t, "INTERNAL_ERROR", errObj["code"])
}

func TestGetIntake_PanicBecomesGenericEnvelope(t *testing.T) {
	h := newHarness()
	h.provider.shouldPanic = true

	w := do(h.router(), http.MethodGet, "/api/intakes/abc", nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "An unexpected error occurred", errObj["message"])
	assert.NotContains(t, w.Body.String(), "provider exploded")
}

func TestListDirectories_Success(t *testing.T) {
	h := newHarness()

	w := do(h.router(), http.MethodGet, "/api/test-sftp-list", nil)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "SFTP connection successful", body["message"])

	dirs := body["directories"].(map[string]any)
	assert.Len(t, dirs["root"].([]any), 3)
	assert.Len(t, dirs["outbound"].([]any), 2)
	assert.Len(t, dirs["inbound"].([]any), 1)

	first := dirs["root"].([]any)[0].(map[string]any)
	assert.Equal(t, "f00.txt", first["name"])
	assert.Equal(t, "-", first["type"])
	assert.Equal(t, "2026-03-01T00:00:00Z", first["modifyTime"])

	assert.Equal(t, 1, h.session.closeCount)
}

func TestListDirectories_OutboundDegradesGracefully(t *testing.T) {
	h := newHarness()
	h.session.errs["/outbound"] = errors.New("permission denied")

	w := do(h.router(), http.MethodGet, "/api/test-sftp-list", nil)

	require.Equal(t, http.StatusOK, w.Code)
	dirs := decode(t, w)["directories"].(map[string]any)

	outbound := dirs["outbound"].([]any)
	require.Len(t, outbound, 1)
	assert.Contains(t, outbound[0].(string), "permission denied")

	assert.Len(t, dirs["root"].([]any), 3)
	assert.Len(t, dirs["inbound"].([]any), 1)
	assert.Equal(t, 1, h.session.closeCount)
}

func TestListDirectories_TruncatesSecondaryListings(t *testing.T) {
	h := newHarness()
	h.session.listings["/"] = entries(15)
	h.session.listings["/outbound"] = entries(15)
	h.session.listings["/inbound"] = entries(12)

	w := do(h.router(), http.MethodGet, "/api/test-sftp-list", nil)

	require.Equal(t, http.StatusOK, w.Code)
	dirs := decode(t, w)["directories"].(map[string]any)

	outbound := dirs["outbound"].([]any)
	require.Len(t, outbound, 10)
	assert.Equal(t, "f00.txt", outbound[0].(map[string]any)["name"])
	assert.Equal(t, "f09.txt", outbound[9].(map[string]any)["name"])

	assert.Len(t, dirs["inbound"].([]any), 10)

	// root is never truncated
	assert.Len(t, dirs["root"].([]any), 15)
}

func TestListDirectories_RootFailureFailsRequest(t *testing.T) {
	h := newHarness()
	h.session.errs["/"] = errors.New("connection reset")

	w := do(h.router(), http.MethodGet, "/api/test-sftp-list", nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	errObj := body["error"].(map[string]any)
	assert.Contains(t, errObj["message"], "connection reset")
	assert.Equal(t, "SFTP_ERROR", errObj["code"])

	// session still closed exactly once on the error path
	assert.Equal(t, 1, h.session.closeCount)
}

func TestListDirectories_DialFailure(t *testing.T) {
	h := newHarness()
	h.dialErr = errors.New("auth failed")

	w := do(h.router(), http.MethodGet, "/api/test-sftp-list", nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"].(map[string]any)["message"], "auth failed")

	assert.Equal(t, 0, h.session.closeCount)
}
