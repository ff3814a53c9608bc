package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/cargo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/SscSPs/cargo_ledger/internal/handlers"
	"github.com/SscSPs/cargo_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}
func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}
func (m *MockAccountService) DeleteAccount(ctx context.Context, accountID string, userID string) error {
	args := m.Called(ctx, accountID, userID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, userID string) (*domain.FinancialTransaction, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialTransaction), args.Error(1)
}
func (m *MockLedgerService) CreateTransfer(ctx context.Context, req dto.CreateTransferRequest, userID string) (*domain.Transfer, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}
func (m *MockLedgerService) DeleteRelatedTransactions(ctx context.Context, related domain.RelatedEntity, categories []domain.Category, userID string) (int, error) {
	args := m.Called(ctx, related, categories, userID)
	return args.Int(0), args.Error(1)
}
func (m *MockLedgerService) GetAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockLedgerService) GetAccountBalanceInCurrency(ctx context.Context, accountID string, targetCurrency string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, targetCurrency)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockLedgerService) GetTotalBalance(ctx context.Context, targetCurrency string) (decimal.Decimal, error) {
	args := m.Called(ctx, targetCurrency)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockLedgerService) GetTransactionsByAccount(ctx context.Context, accountID string, filter domain.TransactionFilter) ([]domain.FinancialTransaction, *string, error) {
	args := m.Called(ctx, accountID, filter)
	var next *string
	if n, ok := args.Get(1).(*string); ok {
		next = n
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.FinancialTransaction), next, args.Error(2)
}
func (m *MockLedgerService) GetTransaction(ctx context.Context, transactionID string) (*domain.FinancialTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FinancialTransaction), args.Error(1)
}
func (m *MockLedgerService) GetTransfer(ctx context.Context, transferReference string) (*domain.Transfer, error) {
	args := m.Called(ctx, transferReference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Test Suite ---
type AccountHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockAccountSvc    *MockAccountService
	mockLedgerSvc     *MockLedgerService
	jwtSecret         string
	requestingActorID string
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(handlers.RegisterValidators())

	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.requestingActorID = uuid.NewString()

	suite.mockAccountSvc = new(MockAccountService)
	suite.mockLedgerSvc = new(MockLedgerService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret))
	handlers.RegisterV1Routes(v1, &portssvc.ServiceContainer{
		Account: suite.mockAccountSvc,
		Ledger:  suite.mockLedgerSvc,
	})
}

func (suite *AccountHandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&payload).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &payload)
	token, err := middleware.IssueToken(suite.jwtSecret, suite.requestingActorID, "cargo-ledger-test", time.Hour)
	suite.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AccountHandlerTestSuite) errorKind(w *httptest.ResponseRecorder) string {
	var body handlers.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body.Kind
}

// --- Test Cases ---

func (suite *AccountHandlerTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{
		Name:           "Caisse Casablanca",
		AccountType:    domain.AccountCash,
		CurrencyCode:   "MAD",
		InitialBalance: decimal.RequireFromString("1500.50"),
	}
	created := &domain.Account{
		AccountID:      uuid.NewString(),
		Name:           req.Name,
		AccountType:    req.AccountType,
		CurrencyCode:   "MAD",
		InitialBalance: req.InitialBalance,
		CurrentBalance: req.InitialBalance,
		IsActive:       true,
	}

	suite.mockAccountSvc.On("CreateAccount", mock.Anything,
		mock.MatchedBy(func(r dto.CreateAccountRequest) bool { return r.Name == req.Name && r.InitialBalance.Equal(req.InitialBalance) }),
		suite.requestingActorID,
	).Return(created, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts", req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.AccountID, resp.AccountID)
	suite.mockAccountSvc.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestCreateAccount_RejectedByBinding() {
	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "missing name", body: map[string]any{"accountType": "CASH", "currencyCode": "MAD"}},
		{name: "malformed currency", body: map[string]any{"name": "x", "accountType": "CASH", "currencyCode": "DIRHAM"}},
		{name: "three decimals", body: map[string]any{"name": "x", "accountType": "CASH", "currencyCode": "MAD", "initialBalance": "1.005"}},
		{name: "negative balance", body: map[string]any{"name": "x", "accountType": "CASH", "currencyCode": "MAD", "initialBalance": -5}},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.do(http.MethodPost, "/api/v1/accounts", tt.body)
			suite.Equal(http.StatusBadRequest, w.Code)
			suite.Equal(apperrors.KindValidation, suite.errorKind(w))
		})
	}
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestErrorKindsMapToStatus() {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{name: "not found", err: apperrors.NewNotFoundError("account x"), status: http.StatusNotFound, kind: apperrors.KindNotFound},
		{name: "validation", err: apperrors.NewValidationError("bad"), status: http.StatusBadRequest, kind: apperrors.KindValidation},
		{name: "conflict", err: apperrors.NewConflictError("has rows"), status: http.StatusConflict, kind: apperrors.KindConflict},
		{name: "mismatch", err: apperrors.NewCurrencyMismatchError("MAD", "CFA"), status: http.StatusUnprocessableEntity, kind: apperrors.KindCurrencyMismatch},
		{name: "internal", err: fmt.Errorf("connection reset"), status: http.StatusInternalServerError, kind: apperrors.KindInternal},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			accountID := uuid.NewString()
			suite.mockAccountSvc.On("DeleteAccount", mock.Anything, accountID, suite.requestingActorID).Return(tt.err).Once()

			w := suite.do(http.MethodDelete, "/api/v1/accounts/"+accountID, nil)

			suite.Equal(tt.status, w.Code)
			suite.Equal(tt.kind, suite.errorKind(w))
		})
	}
}

func (suite *AccountHandlerTestSuite) TestInternalErrorsHideTheCause() {
	accountID := uuid.NewString()
	suite.mockAccountSvc.On("GetAccountByID", mock.Anything, accountID).Return(nil, fmt.Errorf("dial tcp 10.0.0.3:5432: refused")).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/"+accountID, nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "10.0.0.3")
}

func (suite *AccountHandlerTestSuite) TestListTransactionsByAccount_Success() {
	accountID := uuid.NewString()
	next := "opaque-token"

	expected := []domain.FinancialTransaction{
		{TransactionID: uuid.NewString(), AccountID: accountID, TransactionType: domain.Credit, Amount: decimal.NewFromInt(100), CurrencyCode: "MAD"},
		{TransactionID: uuid.NewString(), AccountID: accountID, TransactionType: domain.Credit, Amount: decimal.NewFromInt(50), CurrencyCode: "MAD"},
	}

	suite.mockLedgerSvc.On("GetTransactionsByAccount", mock.Anything, accountID,
		mock.MatchedBy(func(f domain.TransactionFilter) bool {
			return f.Limit == 10 && f.Type != nil && *f.Type == domain.Credit && f.NextToken == nil
		}),
	).Return(expected, &next, nil).Once()

	w := suite.do(http.MethodGet, fmt.Sprintf("/api/v1/accounts/%s/transactions?limit=%d&type=credit", accountID, 10), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListTransactionsResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Transactions, 2)
	suite.Equal(expected[0].TransactionID, resp.Transactions[0].TransactionID)
	suite.Require().NotNil(resp.NextToken)
	suite.Equal(next, *resp.NextToken)
	suite.mockLedgerSvc.AssertExpectations(suite.T())
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "ListAccounts", mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestListTransactionsByAccount_BadLimit() {
	w := suite.do(http.MethodGet, "/api/v1/accounts/"+uuid.NewString()+"/transactions?limit=1000", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *AccountHandlerTestSuite) TestGetAccountBalance_DefaultsToAccountCurrency() {
	accountID := uuid.NewString()
	suite.mockAccountSvc.On("GetAccountByID", mock.Anything, accountID).
		Return(&domain.Account{AccountID: accountID, CurrencyCode: "MAD"}, nil).Twice()
	suite.mockLedgerSvc.On("GetAccountBalanceInCurrency", mock.Anything, accountID, "MAD").Return(decimal.NewFromInt(200), nil).Once()
	suite.mockLedgerSvc.On("GetAccountBalanceInCurrency", mock.Anything, accountID, "CFA").Return(decimal.NewFromInt(12600), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/"+accountID+"/balance", nil)
	suite.Equal(http.StatusOK, w.Code)
	var own dto.AccountBalanceResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &own))
	suite.Equal("MAD", own.CurrencyCode)
	suite.True(own.Balance.Equal(decimal.NewFromInt(200)))

	w = suite.do(http.MethodGet, "/api/v1/accounts/"+accountID+"/balance?currency=cfa", nil)
	suite.Equal(http.StatusOK, w.Code)
	var converted dto.AccountBalanceResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &converted))
	suite.Equal("CFA", converted.CurrencyCode)
	suite.True(converted.Balance.Equal(decimal.NewFromInt(12600)))

	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *AccountHandlerTestSuite) TestMissingTokenIsUnauthorized() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "ListAccounts", mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestAccountHandler(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
