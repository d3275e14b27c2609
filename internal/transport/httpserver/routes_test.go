package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"vigat-bahee/internal/auth"
	"vigat-bahee/internal/config"
	baheedomain "vigat-bahee/internal/domain/bahee"
	"vigat-bahee/internal/domain/tithi"
	userdomain "vigat-bahee/internal/domain/user"
	"vigat-bahee/internal/export"
	"vigat-bahee/internal/repository/inmemory"
	"vigat-bahee/internal/transport/httpserver/handler"
	"vigat-bahee/pkg/logger"

	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

type testServer struct {
	t      *testing.T
	router http.Handler
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	table, err := tithi.DefaultTable()
	if err != nil {
		t.Fatalf("tithi table: %v", err)
	}
	resolver := tithi.NewResolver(table)
	today := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)

	bahee := baheedomain.NewService(inmemory.NewBaheeRepository(inmemory.NewBaheeStore()), resolver).
		WithClock(func() time.Time { return today })
	users := userdomain.NewService(inmemory.NewUserRepository()).
		WithHashCost(bcrypt.MinCost).
		WithCache(inmemory.NewInMemoryUserCache(), time.Minute)
	issuer := auth.NewIssuer("test-secret", "vigat-bahee", time.Hour)

	cfg := config.Config{
		Auth:    config.AuthConfig{JWTSecret: "test-secret"},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	handlers := handler.New(bahee, users, resolver, issuer, logger.NewNop())
	return &testServer{t: t, router: NewRouter(cfg, handlers, issuer, logger.NewNop())}
}

func (s *testServer) do(method, path string, body interface{}) (int, apiResponse) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var resp apiResponse
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			s.t.Fatalf("decode %s %s: %v (%s)", method, path, err, rec.Body.String())
		}
	}
	return rec.Code, resp
}

func (s *testServer) login(username string) {
	s.t.Helper()
	status, resp := s.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "correct-horse",
	})
	if status != http.StatusCreated {
		s.t.Fatalf("register: expected 201, got %d (%s)", status, resp.Message)
	}
	var session struct {
		Token string `json:"token"`
	}
	decode(s.t, resp, &session)
	s.token = session.Token
}

func decode(t *testing.T, resp apiResponse, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(resp.Data, dst); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func (s *testServer) seedLedger() string {
	s.t.Helper()
	status, resp := s.do(http.MethodPost, "/api/bahee", map[string]string{
		"category": "wedding", "name": "Ramesh ji", "date": "2025-09-15",
	})
	if status != http.StatusCreated {
		s.t.Fatalf("create bahee: expected 201, got %d (%s)", status, resp.Message)
	}
	var header struct {
		Tithi string `json:"tithi"`
	}
	decode(s.t, resp, &header)
	if header.Tithi != "कृष्ण नवमी, आश्विन" {
		s.t.Fatalf("expected table tithi, got %q", header.Tithi)
	}

	status, resp = s.do(http.MethodPost, "/api/entries", map[string]interface{}{
		"category": "wedding", "header_name": "Ramesh ji", "name": "Mohan", "village": "Nokha",
		"income": 100, "amount": 51,
	})
	if status != http.StatusCreated {
		s.t.Fatalf("create entry: expected 201, got %d (%s)", status, resp.Message)
	}
	var entry struct {
		ID string `json:"id"`
	}
	decode(s.t, resp, &entry)
	return entry.ID
}

func TestHealthAndTithiArePublic(t *testing.T) {
	s := newTestServer(t)

	status, resp := s.do(http.MethodGet, "/api/health", nil)
	if status != http.StatusOK || !resp.Success {
		t.Fatalf("expected healthy, got %d", status)
	}

	status, resp = s.do(http.MethodGet, "/api/tithi?date=2025-10-05", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var descriptor tithi.Descriptor
	decode(t, resp, &descriptor)
	if descriptor.Text != "शुक्ल पंचमी, कार्तिक" || descriptor.Exact {
		t.Fatalf("unexpected descriptor %+v", descriptor)
	}

	if status, _ := s.do(http.MethodGet, "/api/tithi?date=05-10-2025", nil); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed date, got %d", status)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	status, resp := s.do(http.MethodGet, "/api/entries", nil)
	if status != http.StatusUnauthorized || resp.Success {
		t.Fatalf("expected 401, got %d", status)
	}
}

func TestLoginAndMe(t *testing.T) {
	s := newTestServer(t)
	s.login("ramesh")
	s.token = ""

	status, resp := s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"identifier": "RAMESH@example.com", "password": "correct-horse",
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", status, resp.Message)
	}
	var session struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	decode(t, resp, &session)
	s.token = session.Token

	status, resp = s.do(http.MethodGet, "/api/auth/me", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	s.token = ""
	status, resp = s.do(http.MethodPost, "/api/auth/login", map[string]string{
		"identifier": "ramesh", "password": "wrong-password",
	})
	if status != http.StatusUnauthorized || resp.Code != "invalid_credentials" {
		t.Fatalf("expected invalid_credentials, got %d %s", status, resp.Code)
	}
}

func TestReturnNetLocksEntry(t *testing.T) {
	s := newTestServer(t)
	s.login("ramesh")
	id := s.seedLedger()

	status, resp := s.do(http.MethodPost, "/api/entries/"+id+"/return-net", map[string]interface{}{
		"description": "returned at cousin's wedding", "confirmed": false,
	})
	if status != http.StatusUnprocessableEntity || resp.Code != "missing_confirmation" {
		t.Fatalf("expected 422 missing_confirmation, got %d %s", status, resp.Code)
	}

	status, resp = s.do(http.MethodPost, "/api/entries/"+id+"/return-net", map[string]interface{}{
		"date": "2025-10-01", "description": "returned at cousin's wedding", "confirmed": true,
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", status, resp.Message)
	}

	status, resp = s.do(http.MethodPut, "/api/entries/"+id, map[string]interface{}{
		"category": "wedding", "header_name": "Ramesh ji", "name": "Mohan Lal", "income": 100,
	})
	if status != http.StatusConflict || resp.Code != "entry_locked" {
		t.Fatalf("expected 409 entry_locked, got %d %s", status, resp.Code)
	}
	if status, resp = s.do(http.MethodDelete, "/api/entries/"+id, nil); status != http.StatusConflict || resp.Code != "entry_locked" {
		t.Fatalf("expected delete to be refused, got %d %s", status, resp.Code)
	}

	status, resp = s.do(http.MethodGet, "/api/entries/"+id, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var entry struct {
		State     string `json:"state"`
		ReturnNet *struct {
			Date        string `json:"date"`
			Description string `json:"description"`
		} `json:"return_net"`
	}
	decode(t, resp, &entry)
	if entry.State != "locked" || entry.ReturnNet == nil || entry.ReturnNet.Date != "2025-10-01" {
		t.Fatalf("expected locked entry with log, got %+v", entry)
	}
}

func TestConcurrentReturnNetOneWinner(t *testing.T) {
	s := newTestServer(t)
	s.login("ramesh")
	id := s.seedLedger()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		codes = map[int]int{}
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, _ := s.do(http.MethodPost, "/api/entries/"+id+"/return-net", map[string]interface{}{
				"description": "returned", "confirmed": true,
			})
			mu.Lock()
			codes[status]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	if codes[http.StatusCreated] != 1 || codes[http.StatusConflict] != 7 {
		t.Fatalf("expected one 201 and seven 409, got %v", codes)
	}
}

func TestEntryListAndTotals(t *testing.T) {
	s := newTestServer(t)
	s.login("ramesh")
	s.seedLedger()

	status, resp := s.do(http.MethodPost, "/api/entries", map[string]interface{}{
		"category": "wedding", "header_name": "ramesh ji", "name": "Sohan", "income": 200, "amount": 74,
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", status, resp.Message)
	}

	status, resp = s.do(http.MethodGet, "/api/entries?limit=1&offset=1", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var list struct {
		Items []struct {
			Name       string `json:"name"`
			HeaderName string `json:"header_name"`
		} `json:"items"`
		Total  int64 `json:"total"`
		Totals struct {
			Combined float64 `json:"combined"`
		} `json:"totals"`
	}
	decode(t, resp, &list)
	if list.Total != 2 || len(list.Items) != 1 || list.Items[0].Name != "Sohan" || list.Items[0].HeaderName != "Ramesh ji" {
		t.Fatalf("unexpected list %+v", list)
	}
	if list.Totals.Combined != 274 {
		t.Fatalf("expected page combined 274, got %v", list.Totals.Combined)
	}

	status, resp = s.do(http.MethodGet, "/api/entries/totals?limit=1", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var totals struct {
		Page struct {
			Combined float64 `json:"combined"`
		} `json:"page"`
		Grand struct {
			Income          float64 `json:"income"`
			Amount          float64 `json:"amount"`
			Combined        float64 `json:"combined"`
			CombinedDisplay string  `json:"combined_display"`
			CombinedWords   string  `json:"combined_words"`
		} `json:"grand"`
	}
	decode(t, resp, &totals)
	if totals.Page.Combined != 151 {
		t.Fatalf("expected page combined 151, got %v", totals.Page.Combined)
	}
	if totals.Grand.Income != 300 || totals.Grand.Amount != 125 || totals.Grand.Combined != 425 {
		t.Fatalf("unexpected grand totals %+v", totals.Grand)
	}
	if totals.Grand.CombinedDisplay != "₹425.00" || totals.Grand.CombinedWords != "Four Hundred Twenty Five Rupees Only" {
		t.Fatalf("unexpected rupee strings %+v", totals.Grand)
	}
}

func TestExportEntriesXLSX(t *testing.T) {
	s := newTestServer(t)
	s.login("ramesh")
	s.seedLedger()

	req := httptest.NewRequest(http.MethodGet, "/api/entries/export?category=wedding&limit=1", nil)
	req.Header.Set("Authorization", "Bearer "+s.token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != export.ContentType {
		t.Fatalf("expected xlsx content type, got %q", got)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), ".xlsx") {
		t.Fatalf("expected attachment filename, got %q", rec.Header().Get("Content-Disposition"))
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("expected valid workbook, got %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(export.SheetName)
	if err != nil {
		t.Fatalf("expected ledger sheet, got %v", err)
	}
	if len(rows) != 3 || rows[1][3] != "Mohan" {
		t.Fatalf("unexpected rows %v", rows)
	}

	status, resp := s.do(http.MethodGet, "/api/entries/export?category=funeral-feast", nil)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown category, got %d (%s)", status, resp.Code)
	}
}

func TestHeaderConflictsAndValidation(t *testing.T) {
	s := newTestServer(t)
	s.login("ramesh")
	s.seedLedger()

	status, resp := s.do(http.MethodPost, "/api/bahee", map[string]string{
		"category": "wedding", "name": "  ramesh   JI ", "date": "2025-09-15",
	})
	if status != http.StatusConflict || resp.Code != "bahee_exists" {
		t.Fatalf("expected 409 bahee_exists, got %d %s", status, resp.Code)
	}

	status, resp = s.do(http.MethodPost, "/api/bahee", map[string]string{
		"category": "wedding", "name": "Future", "date": "2030-01-01",
	})
	if status != http.StatusBadRequest || resp.Code != "future_date" {
		t.Fatalf("expected 400 future_date, got %d %s", status, resp.Code)
	}

	status, resp = s.do(http.MethodPost, "/api/entries", map[string]interface{}{
		"category": "wedding", "header_name": "Nobody", "name": "Mohan", "income": 10,
	})
	if status != http.StatusNotFound || resp.Code != "bahee_not_found" {
		t.Fatalf("expected 404 bahee_not_found, got %d %s", status, resp.Code)
	}

	status, resp = s.do(http.MethodPost, "/api/entries", map[string]interface{}{
		"category": "wedding", "header_name": "Ramesh ji", "name": "Mohan", "unknown": true,
	})
	if status != http.StatusBadRequest || resp.Code != "invalid_json" {
		t.Fatalf("expected 400 invalid_json, got %d %s", status, resp.Code)
	}
}

func TestOwnersAreIsolated(t *testing.T) {
	s := newTestServer(t)
	s.login("ramesh")
	id := s.seedLedger()

	s.login("suresh")
	if status, _ := s.do(http.MethodGet, "/api/entries/"+id, nil); status != http.StatusNotFound {
		t.Fatalf("expected other owner to get 404, got %d", status)
	}
	status, resp := s.do(http.MethodGet, "/api/bahee", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var headers []json.RawMessage
	decode(t, resp, &headers)
	if len(headers) != 0 {
		t.Fatalf("expected no headers for second owner, got %d", len(headers))
	}
}
