package routes

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/suite"

	"github.com/craftmatrix/savetrack-api/internal/ai"
	"github.com/craftmatrix/savetrack-api/internal/auth"
	"github.com/craftmatrix/savetrack-api/internal/config"
	"github.com/craftmatrix/savetrack-api/internal/handlers"
	"github.com/craftmatrix/savetrack-api/internal/memstore"
	"github.com/craftmatrix/savetrack-api/internal/services"
)

type cannedAI struct{}

func (cannedAI) Generate(context.Context, ai.Kind, ai.Data) string { return "Spend less on coffee." }
func (cannedAI) Model() string                                      { return "gemini-test" }

type APISuite struct {
	suite.Suite
	cfg    *config.Config
	tokens *auth.Tokens
	engine *gin.Engine
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.cfg = &config.Config{
		Env:  "development",
		CORS: []string{"http://localhost:3000"},
		JWT:  config.JWTConfig{Secret: "test-secret", Issuer: "savetrack", Audience: "savetrack-clients"},
	}
	s.engine = s.build(s.cfg)
}

func (s *APISuite) build(cfg *config.Config) *gin.Engine {
	st := memstore.New()
	s.tokens = auth.NewTokens(cfg.JWT)
	r := gin.New()
	Setup(r, handlers.New(services.New(st, cannedAI{}), s.tokens), s.tokens, auth.NewResolver(st), cfg)
	return r
}

func (s *APISuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *APISuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *APISuite) login(email string) string {
	w := s.do(http.MethodPost, "/api/v1/usertoken/"+email, "", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var out struct{ Token string }
	s.decode(w, &out)
	tok, ok := auth.BearerToken(out.Token)
	s.Require().True(ok, "token %q lacks the Bearer scheme", out.Token)
	s.Require().NotEmpty(tok)
	return tok
}

func (s *APISuite) create(path, token string, body any) map[string]any {
	w := s.do(http.MethodPost, path, token, body)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var out map[string]any
	s.decode(w, &out)
	return out
}

func (s *APISuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"status":"Healthy"}`, w.Body.String())
}

func (s *APISuite) TestUserTokenCarriesBearerScheme() {
	w := s.do(http.MethodPost, "/api/v1/usertoken/erin@example.com", "", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var out struct{ Token string }
	s.decode(w, &out)
	s.Regexp(`^Bearer \S+$`, out.Token)

	tok, ok := auth.BearerToken(out.Token)
	s.Require().True(ok)
	w = s.do(http.MethodGet, "/api/v2/users/me", tok, nil)
	s.Equal(http.StatusOK, w.Code, w.Body.String())
}

func (s *APISuite) TestResourcesRequireToken() {
	for _, path := range []string{"/api/v1/accounts", "/api/v2/bills", "/api/v2/users/me"} {
		w := s.do(http.MethodGet, path, "", nil)
		s.Equal(http.StatusUnauthorized, w.Code, path)
	}
	w := s.do(http.MethodGet, "/api/v2/accounts", "not-a-jwt", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APISuite) TestLedgerFlowAcrossVersions() {
	tok := s.login("alice@example.com")

	acc := s.create("/api/v2/accounts", tok, map[string]any{"label": "Wallet", "initValue": 100})
	cat := s.create("/api/v1/categories", tok, map[string]any{"name": "Food", "isPositive": false})
	tx := s.create("/api/v2/transactions", tok, map[string]any{
		"accountId": acc["id"], "categoryId": cat["id"], "amount": 40, "description": "groceries",
	})
	s.Equal("Food", tx["categoryName"])
	s.Equal("Wallet", tx["accountName"])
	s.Equal(false, tx["isPositive"])

	w := s.do(http.MethodGet, "/api/v1/accounts/"+acc["id"].(string)+"/balance", tok, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var bal map[string]any
	s.decode(w, &bal)
	s.Equal("60", bal["balance"])

	w = s.do(http.MethodGet, "/api/v2/accounts/balances", tok, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var all []map[string]any
	s.decode(w, &all)
	s.Len(all, 1)

	w = s.do(http.MethodGet, "/api/v2/transactions/account/"+acc["id"].(string), tok, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &all)
	s.Len(all, 1)

	other := s.login("bob@example.com")
	w = s.do(http.MethodGet, "/api/v2/accounts/"+acc["id"].(string), other, nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.JSONEq(`{"error":"account not found"}`, w.Body.String())
}

func (s *APISuite) TestBadInput() {
	tok := s.login("alice@example.com")

	w := s.do(http.MethodGet, "/api/v2/accounts/42", tok, nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/v2/bills/upcoming?days=abc", tok, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	w = s.do(http.MethodGet, "/api/v2/bills/upcoming?days=0", tok, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	w = s.do(http.MethodGet, "/api/v2/bills/upcoming", tok, nil)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`[]`, w.Body.String())

	w = s.do(http.MethodPost, "/api/v2/categories", tok, map[string]any{"name": ""})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v2/reports/generate/weather", tok, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APISuite) TestGenerateReport() {
	tok := s.login("alice@example.com")
	acc := s.create("/api/v2/accounts", tok, map[string]any{"label": "Card", "initValue": 0})
	cat := s.create("/api/v2/categories", tok, map[string]any{"name": "Rent", "isPositive": false})
	s.create("/api/v2/transactions", tok, map[string]any{"accountId": acc["id"], "categoryId": cat["id"], "amount": 500})

	w := s.do(http.MethodPost, "/api/v2/reports/generate/expenses", tok, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var gen map[string]any
	s.decode(w, &gen)
	s.Equal(true, gen["generated"])
	s.Contains(gen, "data")

	saved := s.create("/api/v2/reports/generate/summary", tok, map[string]any{"saveReport": true})
	s.Equal("summary", saved["type"])

	w = s.do(http.MethodGet, "/api/v2/reports", tok, nil)
	var list []map[string]any
	s.decode(w, &list)
	s.Len(list, 1)
}

func (s *APISuite) TestInsightsAndCharts() {
	tok := s.login("alice@example.com")

	w := s.do(http.MethodPost, "/api/v2/insights/generate/spending-analysis", tok, nil)
	s.Equal(http.StatusBadRequest, w.Code)

	acc := s.create("/api/v2/accounts", tok, map[string]any{"label": "Card", "initValue": 0})
	cat := s.create("/api/v2/categories", tok, map[string]any{"name": "Cafe", "isPositive": false})
	s.create("/api/v2/transactions", tok, map[string]any{"accountId": acc["id"], "categoryId": cat["id"], "amount": 4.5})

	w = s.do(http.MethodPost, "/api/v2/insights/generate/spending-analysis", tok, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var in map[string]any
	s.decode(w, &in)
	s.Equal("Spend less on coffee.", in["content"])
	s.Equal("Google Gemini", in["aiProvider"])

	w = s.do(http.MethodPost, "/api/v2/insights/generate/horoscope", tok, nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/v2/charts/generate", tok, map[string]any{"chartType": "bar", "category": "expense"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	chart := s.create("/api/v2/charts/generate", tok, map[string]any{"chartType": "Bar", "category": "expense", "saveChart": true})
	s.Equal("bar", chart["chartType"])
	s.Equal("expense bar Chart", chart["title"])

	w = s.do(http.MethodPost, "/api/v2/charts/clear-cache", tok, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"message":"Cleared 0 expired cache entries"}`, w.Body.String())
}

func (s *APISuite) TestValidateIssuesUserToken() {
	s.login("carol@example.com")
	raw, err := s.tokens.IssueDebug("carol@example.com", "")
	s.Require().NoError(err)

	w := s.do(http.MethodGet, "/api/v2/auth/validate", raw, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var out map[string]any
	s.decode(w, &out)
	s.Equal(true, out["valid"])
	s.Equal("carol", out["name"])
	s.Equal("carol@example.com", out["email"])
	s.Contains(out["token"], "Bearer ")

	w = s.do(http.MethodGet, "/api/v2/auth/validate", "garbage", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.decode(w, &out)
	s.Equal(false, out["valid"])
}

func (s *APISuite) TestDebugRoutes() {
	w := s.do(http.MethodGet, "/debug", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("Debug endpoint", w.Body.String())

	s.login("dave@example.com")
	w = s.do(http.MethodPost, "/debug/generate-token", "", map[string]any{"email": "dave@example.com"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var out struct{ Token string }
	s.decode(w, &out)
	tok, ok := auth.BearerToken(out.Token)
	s.Require().True(ok)

	w = s.do(http.MethodGet, "/debug/secure-endpoint", tok, nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v2/users/me", tok, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var me map[string]any
	s.decode(w, &me)
	s.Equal("dave@example.com", me["email"])
}

func (s *APISuite) TestDebugRoutesHiddenInProduction() {
	cfg := *s.cfg
	cfg.Env = "production"
	s.engine = s.build(&cfg)

	w := s.do(http.MethodGet, "/debug", "", nil)
	s.Equal(http.StatusNotFound, w.Code)
	w = s.do(http.MethodPost, "/debug/generate-token", "", map[string]any{"email": "x@example.com"})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APISuite) TestCORS() {
	req := httptest.NewRequest(http.MethodOptions, "/api/v2/accounts", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	s.Empty(w.Header().Get("Access-Control-Allow-Origin"))
}
