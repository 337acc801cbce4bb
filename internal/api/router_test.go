package api_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baharkarakas/bank-transactions/internal/api"
	"github.com/baharkarakas/bank-transactions/internal/config"
	"github.com/baharkarakas/bank-transactions/internal/repository/memory"
	"github.com/baharkarakas/bank-transactions/internal/services"
)

const iban = "ES9820385778983000760236"

var now = time.Date(2024, time.May, 10, 12, 30, 0, 0, time.UTC)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repos := memory.NewRepositories(memory.NewStore())
	rec := services.NewRecorder(repos.AuditLogs, nil, nil, log)
	return api.NewRouter(api.RouterDeps{
		Cfg:        config.Config{RequestTimeout: 5 * time.Second},
		Log:        log,
		TxnSvc:     services.NewTransactionService(repos, rec, func() time.Time { return now }, log),
		AccountSvc: services.NewAccountService(repos.Accounts, rec, log),
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) (int, map[string]any, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, rd))

	raw := rr.Body.Bytes()
	var obj map[string]any
	_ = json.Unmarshal(raw, &obj)
	return rr.Code, obj, raw
}

func seedAccount(t *testing.T, h http.Handler, balance string) {
	t.Helper()
	code, _, raw := do(t, h, http.MethodPost, "/accounts/create", `{"iban":"`+iban+`","balance":`+balance+`}`)
	require.Equal(t, http.StatusCreated, code, string(raw))
}

func TestHealth(t *testing.T) {
	code, _, raw := do(t, newServer(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", string(raw))
}

func TestCreateTransaction(t *testing.T) {
	h := newServer(t)
	seedAccount(t, h, "200")

	code, body, raw := do(t, h, http.MethodPost, "/transactions/create",
		`{"reference":"12345A","account_iban":"`+iban+`","date":"2019-07-16T16:55:42.000Z","amount":"193.38","fee":3.18,"description":"Restaurant payment"}`)
	require.Equal(t, http.StatusCreated, code, string(raw))
	assert.Equal(t, "12345A", body["reference"])
	assert.Equal(t, "193.38", body["amount"])
	assert.Equal(t, "3.18", body["fee"])

	code, body, _ = do(t, h, http.MethodGet, "/accounts/"+iban, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "3.44", body["balance"])
}

func TestCreateTransaction_ZoneLessDate(t *testing.T) {
	h := newServer(t)
	seedAccount(t, h, "100")

	code, body, raw := do(t, h, http.MethodPost, "/transactions/create",
		`{"reference":"LDT","account_iban":"`+iban+`","date":"2022-02-15T10:30:00","amount":10}`)
	require.Equal(t, http.StatusCreated, code, string(raw))
	assert.Equal(t, "2022-02-15T10:30:00Z", body["date"])

	_, _, raw = do(t, h, http.MethodGet, "/transactions/status?reference=LDT&channel=ATM", "")
	assert.JSONEq(t, `{"reference":"LDT","status":"SETTLED","amount":"10"}`, string(raw))

	code, body, _ = do(t, h, http.MethodPost, "/transactions/create",
		`{"account_iban":"`+iban+`","date":"15/02/2022","amount":10}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_request", body["code"])
}

func TestCreateTransaction_Errors(t *testing.T) {
	h := newServer(t)
	seedAccount(t, h, "10")
	_, _, _ = do(t, h, http.MethodPost, "/transactions/create", `{"reference":"DUP","account_iban":"`+iban+`","amount":1}`)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"malformed", `{"amount":`, http.StatusBadRequest, "invalid_request"},
		{"missing amount", `{"account_iban":"` + iban + `"}`, http.StatusBadRequest, "invalid_request"},
		{"amount beyond stored scale", `{"account_iban":"` + iban + `","amount":0.00001}`, http.StatusBadRequest, "invalid_request"},
		{"unknown account", `{"account_iban":"ES00","amount":1}`, http.StatusBadRequest, "account_not_found"},
		{"insufficient", `{"account_iban":"` + iban + `","amount":9,"fee":1}`, http.StatusBadRequest, "insufficient_funds"},
		{"duplicate", `{"reference":"DUP","account_iban":"` + iban + `","amount":1}`, http.StatusConflict, "duplicate_reference"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body, raw := do(t, h, http.MethodPost, "/transactions/create", tt.body)
			assert.Equal(t, tt.wantCode, code, string(raw))
			assert.Equal(t, tt.wantErr, body["code"])
		})
	}
}

func TestCreateTransaction_ValidationDetails(t *testing.T) {
	h := newServer(t)

	code, body, _ := do(t, h, http.MethodPost, "/transactions/create", `{"amount":0}`)
	require.Equal(t, http.StatusBadRequest, code)
	details, ok := body["details"].([]any)
	require.True(t, ok, "details should list the failing fields")
	assert.Len(t, details, 2)
}

func TestSearch(t *testing.T) {
	h := newServer(t)
	seedAccount(t, h, "100")
	for _, b := range []string{
		`{"reference":"A","account_iban":"` + iban + `","amount":30}`,
		`{"reference":"B","account_iban":"` + iban + `","amount":10}`,
		`{"reference":"C","account_iban":"` + iban + `","amount":20}`,
	} {
		code, _, raw := do(t, h, http.MethodPost, "/transactions/create", b)
		require.Equal(t, http.StatusCreated, code, string(raw))
	}

	refsOf := func(raw []byte) []string {
		var list []struct {
			Reference string `json:"reference"`
		}
		require.NoError(t, json.Unmarshal(raw, &list))
		out := make([]string, 0, len(list))
		for _, l := range list {
			out = append(out, l.Reference)
		}
		return out
	}

	code, _, raw := do(t, h, http.MethodGet, "/transactions/search?account_iban="+iban, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"B", "C", "A"}, refsOf(raw))

	code, _, raw = do(t, h, http.MethodGet, "/transactions/search?account_iban="+iban+"&sort_direction=desc", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"A", "C", "B"}, refsOf(raw))

	code, _, raw = do(t, h, http.MethodGet, "/transactions/search?account_iban=ES00", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(raw))

	code, body, _ := do(t, h, http.MethodGet, "/transactions/search?account_iban="+iban+"&sort_direction=SIDEWAYS", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_sort_direction", body["code"])
}

func TestStatus(t *testing.T) {
	h := newServer(t)
	seedAccount(t, h, "1000")
	code, _, raw := do(t, h, http.MethodPost, "/transactions/create",
		`{"reference":"12345A","account_iban":"`+iban+`","date":"2019-07-16T16:55:42.000Z","amount":193.38,"fee":3.18}`)
	require.Equal(t, http.StatusCreated, code, string(raw))

	_, _, raw = do(t, h, http.MethodGet, "/transactions/status?reference=12345A&channel=CLIENT", "")
	assert.JSONEq(t, `{"reference":"12345A","status":"SETTLED","amount":"190.2"}`, string(raw))

	_, _, raw = do(t, h, http.MethodGet, "/transactions/status?reference=12345A&channel=INTERNAL", "")
	assert.JSONEq(t, `{"reference":"12345A","status":"SETTLED","amount":"193.38","fee":"3.18"}`, string(raw))

	_, _, raw = do(t, h, http.MethodGet, "/transactions/status?reference=XXXXXX&channel=ATM", "")
	assert.JSONEq(t, `{"reference":"XXXXXX","status":"INVALID"}`, string(raw))

	code, body, _ := do(t, h, http.MethodGet, "/transactions/status?reference=XXXXXX&channel=BRANCH", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_channel", body["code"])
}

func TestAccounts(t *testing.T) {
	h := newServer(t)
	seedAccount(t, h, `"50.25"`)

	code, body, _ := do(t, h, http.MethodPost, "/accounts/create", `{"iban":"`+iban+`","balance":1}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "account_exists", body["code"])

	code, body, _ = do(t, h, http.MethodPost, "/accounts/create", `{"iban":"ES02","balance":-1}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_request", body["code"])

	code, body, _ = do(t, h, http.MethodGet, "/accounts/"+iban, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "50.25", body["balance"])

	code, body, _ = do(t, h, http.MethodGet, "/accounts/ES00", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "account_not_found", body["code"])
}
