package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	"github.com/SscSPs/cargo_ledger/internal/core/services"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/SscSPs/cargo_ledger/internal/handlers"
	"github.com/SscSPs/cargo_ledger/internal/middleware"
	"github.com/SscSPs/cargo_ledger/internal/platform/config"
	"github.com/SscSPs/cargo_ledger/internal/repositories/memory"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// APIFlowTestSuite drives the full router over real services and an in-memory store.
type APIFlowTestSuite struct {
	suite.Suite
	router *gin.Engine
	token  string
	logs   *bytes.Buffer
}

func (suite *APIFlowTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		JWTSecret:           "flow-test-secret-key",
		JWTIssuer:           "cargo-ledger-test",
		JWTExpiryDuration:   time.Hour,
		RateLimit:           "1000-M",
		CORSAllowedOrigins:  []string{"http://localhost:3000"},
		DefaultMadToCfaRate: decimal.NewFromInt(63),
		SystemActorID:       "system",
	}

	suite.logs = &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(suite.logs, nil))
	ctx := middleware.WithLogger(context.Background(), logger)

	container := services.NewServiceContainer(cfg, memory.NewStore().Repositories())
	suite.Require().NoError(container.Setting.EnsureDefaultExchangeRate(ctx, cfg.DefaultMadToCfaRate, cfg.SystemActorID))

	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(logger))
	suite.Require().NoError(handlers.RegisterRoutes(suite.router, cfg, container))

	var tok dto.TokenResponse
	w := suite.call(http.MethodPost, "/api/v1/auth/token", dto.DevTokenRequest{ActorID: "clerk-1"}, &tok)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Require().NotEmpty(tok.Token)
	suite.Equal(int64(3600), tok.ExpiresIn)
	suite.token = tok.Token
}

// call sends body as JSON and decodes a successful response into out.
func (suite *APIFlowTestSuite) call(method, url string, body any, out any) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&payload).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &payload)
	req.Header.Set("Content-Type", "application/json")
	if suite.token != "" {
		req.Header.Set("Authorization", "Bearer "+suite.token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	if out != nil && w.Code < 300 {
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), out))
	}
	return w
}

func (suite *APIFlowTestSuite) kindOf(w *httptest.ResponseRecorder) string {
	var body handlers.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body.Kind
}

func (suite *APIFlowTestSuite) TestHealth() {
	w := suite.call(http.MethodGet, "/health", nil, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *APIFlowTestSuite) TestOrderLifecycle() {
	var account dto.AccountResponse
	w := suite.call(http.MethodPost, "/api/v1/accounts", map[string]any{
		"name": "Caisse Casablanca", "accountType": "CASH", "currencyCode": "mad",
	}, &account)
	suite.Require().Equal(http.StatusCreated, w.Code)
	suite.Equal("MAD", account.CurrencyCode)

	var client domain.Client
	w = suite.call(http.MethodPost, "/api/v1/clients", dto.CreateClientRequest{Name: "Diallo", Kind: domain.ClientBusiness}, &client)
	suite.Require().Equal(http.StatusCreated, w.Code)
	suite.Equal("CLI-BUS-001", client.ClientCode)

	var wave domain.Wave
	w = suite.call(http.MethodPost, "/api/v1/waves", dto.CreateWaveRequest{Name: "Octobre", Kind: domain.WaveBusiness}, &wave)
	suite.Require().Equal(http.StatusCreated, w.Code)

	var order dto.OrderResponse
	w = suite.call(http.MethodPost, "/api/v1/orders", map[string]any{
		"clientID":     client.ClientID,
		"waveID":       wave.WaveID,
		"currencyCode": "MAD",
		"items":        []map[string]any{{"description": "Fabric", "quantity": 4, "unitPrice": "250"}},
		"payments":     []map[string]any{{"accountID": account.AccountID, "amount": "400"}},
	}, &order)
	suite.Require().Equal(http.StatusCreated, w.Code)
	suite.True(order.PrincipalAmount.Equal(decimal.NewFromInt(1000)))
	suite.True(order.RemainingDebt.Equal(decimal.NewFromInt(600)))
	suite.True(order.HasDebt)

	var debtors dto.DebtorsResponse
	w = suite.call(http.MethodGet, "/api/v1/reports/debtors", nil, &debtors)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Len(debtors.Debtors, 1)

	// Short of the remaining debt beyond the tolerance
	w = suite.call(http.MethodPost, "/api/v1/orders/"+order.OrderID+"/pickup", map[string]any{
		"payments": []map[string]any{{"accountID": account.AccountID, "amount": "599"}},
	}, nil)
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal(apperrors.KindConflict, suite.kindOf(w))

	w = suite.call(http.MethodPost, "/api/v1/orders/"+order.OrderID+"/pickup", map[string]any{
		"payments": []map[string]any{{"accountID": account.AccountID, "amount": "600"}},
	}, &order)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(domain.OrderDelivered, order.Status)
	suite.False(order.HasDebt)

	w = suite.call(http.MethodPost, "/api/v1/orders/"+order.OrderID+"/payments", map[string]any{
		"payments": []map[string]any{{"accountID": account.AccountID, "amount": "1"}},
	}, nil)
	suite.Equal(http.StatusConflict, w.Code)

	var balance dto.AccountBalanceResponse
	w = suite.call(http.MethodGet, "/api/v1/accounts/"+account.AccountID+"/balance", nil, &balance)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.True(balance.Balance.Equal(decimal.NewFromInt(1000)), balance.Balance.String())

	w = suite.call(http.MethodGet, "/api/v1/accounts/"+account.AccountID+"/balance?currency=CFA", nil, &balance)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.True(balance.Balance.Equal(decimal.NewFromInt(63000)), balance.Balance.String())

	var page dto.ListTransactionsResponse
	w = suite.call(http.MethodGet, "/api/v1/accounts/"+account.AccountID+"/transactions?limit=1", nil, &page)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Len(page.Transactions, 1)
	suite.Require().NotNil(page.NextToken)
	next := *page.NextToken

	// nextToken is omitempty, so a reused value would keep the old token
	page = dto.ListTransactionsResponse{}
	w = suite.call(http.MethodGet, "/api/v1/accounts/"+account.AccountID+"/transactions?limit=1&nextToken="+url.QueryEscape(next), nil, &page)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Len(page.Transactions, 1)
	suite.Nil(page.NextToken)

	w = suite.call(http.MethodGet, "/api/v1/reports/debtors", nil, &debtors)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Empty(debtors.Debtors)

	// The account has rows now, so it cannot be deleted
	w = suite.call(http.MethodDelete, "/api/v1/accounts/"+account.AccountID, nil, nil)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *APIFlowTestSuite) TestPostingInTheWrongCurrencyIsRejected() {
	var account dto.AccountResponse
	w := suite.call(http.MethodPost, "/api/v1/accounts", map[string]any{
		"name": "Orange Money Bamako", "accountType": "MOBILE_MONEY", "currencyCode": "CFA", "initialBalance": "5000",
	}, &account)
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.call(http.MethodPost, "/api/v1/transactions", map[string]any{
		"accountID":       account.AccountID,
		"transactionType": "debit",
		"amount":          "10",
		"currencyCode":    "MAD",
		"category":        "office_supplies",
	}, nil)
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
	suite.Equal(apperrors.KindCurrencyMismatch, suite.kindOf(w))

	var txn dto.TransactionResponse
	w = suite.call(http.MethodPost, "/api/v1/transactions", map[string]any{
		"accountID":       account.AccountID,
		"transactionType": "debit",
		"amount":          "1200",
		"currencyCode":    "CFA",
		"category":        "office_supplies",
	}, &txn)
	suite.Require().Equal(http.StatusCreated, w.Code)
	suite.NotEmpty(txn.Reference)

	var total dto.TotalBalanceResponse
	w = suite.call(http.MethodGet, "/api/v1/balances/total", nil, &total)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("CFA", total.CurrencyCode)
	suite.True(total.Balance.Equal(decimal.NewFromInt(3800)), total.Balance.String())
}

func (suite *APIFlowTestSuite) TestTransferLegsCannotBePostedDirectly() {
	var src, dst dto.AccountResponse
	w := suite.call(http.MethodPost, "/api/v1/accounts", map[string]any{
		"name": "Caisse Rabat", "accountType": "CASH", "currencyCode": "MAD", "initialBalance": "500",
	}, &src)
	suite.Require().Equal(http.StatusCreated, w.Code)
	w = suite.call(http.MethodPost, "/api/v1/accounts", map[string]any{
		"name": "Caisse Bamako", "accountType": "CASH", "currencyCode": "CFA",
	}, &dst)
	suite.Require().Equal(http.StatusCreated, w.Code)

	var transfer dto.TransferResponse
	w = suite.call(http.MethodPost, "/api/v1/transfers", map[string]any{
		"sourceAccountID":      src.AccountID,
		"destinationAccountID": dst.AccountID,
		"sourceAmount":         "100",
		"sourceCurrency":       "MAD",
		"destinationAmount":    "6300",
		"destinationCurrency":  "CFA",
		"exchangeRate":         "63",
	}, &transfer)
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.call(http.MethodPost, "/api/v1/transactions", map[string]any{
		"accountID":         dst.AccountID,
		"transactionType":   "transfer_in",
		"amount":            "5000",
		"currencyCode":      "CFA",
		"category":          "transfer_conversion",
		"transferReference": transfer.TransferReference,
	}, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apperrors.KindValidation, suite.kindOf(w))

	w = suite.call(http.MethodGet, "/api/v1/transfers/"+transfer.TransferReference, nil, nil)
	suite.Equal(http.StatusOK, w.Code)

	var balance dto.AccountBalanceResponse
	w = suite.call(http.MethodGet, "/api/v1/accounts/"+dst.AccountID+"/balance", nil, &balance)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.True(balance.Balance.Equal(decimal.NewFromInt(6300)), balance.Balance.String())
}

func (suite *APIFlowTestSuite) TestActorIsLoggedOncePerLine() {
	suite.logs.Reset()
	w := suite.call(http.MethodPost, "/api/v1/accounts", map[string]any{
		"name": "Caisse Fes", "accountType": "CASH", "currencyCode": "MAD",
	}, nil)
	suite.Require().Equal(http.StatusCreated, w.Code)

	tagged := 0
	for _, line := range strings.Split(strings.TrimSpace(suite.logs.String()), "\n") {
		switch strings.Count(line, `"actor_id":"clerk-1"`) {
		case 0:
		case 1:
			tagged++
		default:
			suite.Failf("actor_id repeated", "%s", line)
		}
	}
	suite.Positive(tagged)
}

func (suite *APIFlowTestSuite) TestConvert() {
	var res dto.ConvertResponse
	w := suite.call(http.MethodGet, "/api/v1/currency/convert?amount=10&from=MAD&to=CFA", nil, &res)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.True(res.Converted.Equal(decimal.NewFromInt(630)), res.Converted.String())

	w = suite.call(http.MethodGet, "/api/v1/currency/convert?amount=10.001&from=MAD&to=CFA", nil, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APIFlowTestSuite) TestUnknownEntitiesAreNotFound() {
	for _, url := range []string{
		"/api/v1/accounts/missing",
		"/api/v1/orders/missing",
		"/api/v1/parcels/missing",
		"/api/v1/waves/missing",
		"/api/v1/legs/missing",
		"/api/v1/transfers/TRF-19700101-0001",
	} {
		w := suite.call(http.MethodGet, url, nil, nil)
		suite.Equal(http.StatusNotFound, w.Code, url)
		suite.Equal(apperrors.KindNotFound, suite.kindOf(w), url)
	}
}

func TestAPIFlow(t *testing.T) {
	suite.Run(t, new(APIFlowTestSuite))
}
