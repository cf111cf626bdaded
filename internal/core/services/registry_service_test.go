package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/posting_engine/internal/apperrors"
	"github.com/SscSPs/posting_engine/internal/core/domain"
	portssvc "github.com/SscSPs/posting_engine/internal/core/ports/services"
	"github.com/SscSPs/posting_engine/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RegistryReader ---
type MockRegistryReader struct {
	mock.Mock
}

func (m *MockRegistryReader) FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockRegistryReader) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockRegistryReader) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockRegistryReader) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockRegistryReader) FindAccountByFlag(ctx context.Context, flag domain.AccountFlag, currencyCode string) (*domain.Account, error) {
	args := m.Called(ctx, flag, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockRegistryReader) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockRegistryReader) FindPartyByID(ctx context.Context, partyID int64) (*domain.Party, error) {
	args := m.Called(ctx, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

func (m *MockRegistryReader) FindUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRegistryReader) FindOperationType(ctx context.Context, code string) (*domain.OperationType, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OperationType), args.Error(1)
}

// --- Test Suite ---
type RegistryServiceTestSuite struct {
	suite.Suite
	mockRepo *MockRegistryReader
	registry portssvc.RegistrySvcFacade
	fx       portssvc.FxSvcFacade
}

func (suite *RegistryServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockRegistryReader)
	suite.registry = services.NewRegistryService(suite.mockRepo)
	suite.fx = services.NewFxService(suite.mockRepo, "ARS")
}

func (suite *RegistryServiceTestSuite) expectCurrencies(codes ...string) {
	for _, code := range codes {
		suite.mockRepo.On("FindCurrencyByCode", mock.Anything, code).
			Return(&domain.Currency{CurrencyCode: code, MinorUnits: 2}, nil)
	}
}

// --- Test Cases ---

func (suite *RegistryServiceTestSuite) TestResolveAccount_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByCode", ctx, "9999").Return(nil, apperrors.ErrNotFound).Once()

	acc, err := suite.registry.ResolveAccount(ctx, "9999")

	suite.Nil(acc)
	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	var le *apperrors.LedgerError
	suite.Require().True(errors.As(err, &le))
	suite.Equal("9999", le.AccountCode)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *RegistryServiceTestSuite) TestResolveAccount_RepositoryFailure() {
	ctx := context.Background()
	dbErr := errors.New("connection reset")
	suite.mockRepo.On("FindAccountByCode", ctx, "1010").Return(nil, dbErr).Once()

	_, err := suite.registry.ResolveAccount(ctx, "1010")

	suite.ErrorIs(err, dbErr)
	suite.NotErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *RegistryServiceTestSuite) TestResolvePartyAccount() {
	ctx := context.Background()
	accounts := []domain.Account{
		{Code: "2101", AccountType: domain.Liability, CurrencyCode: "USD", IsActive: true, Flags: domain.AccountFlags{IsClientAccount: true}},
		{Code: "2100", AccountType: domain.Liability, CurrencyCode: "ARS", IsActive: true, Flags: domain.AccountFlags{IsClientAccount: true}},
		{Code: "1100", AccountType: domain.Asset, CurrencyCode: "ARS", IsActive: true, Flags: domain.AccountFlags{IsClientAccount: true}},
		{Code: "1099", AccountType: domain.Asset, CurrencyCode: "ARS", Flags: domain.AccountFlags{IsClientAccount: true}},
	}
	suite.mockRepo.On("ListAccounts", ctx).Return(accounts, nil)

	client, err := suite.registry.ResolvePartyAccount(ctx, &domain.Party{Name: "Cliente", PartyType: domain.PartyClient}, "ARS")
	suite.Require().NoError(err)
	suite.Equal("1100", client.Code)

	supplier, err := suite.registry.ResolvePartyAccount(ctx, &domain.Party{Name: "Proveedor", PartyType: domain.PartySupplier}, "ARS")
	suite.Require().NoError(err)
	suite.Equal("2100", supplier.Code)

	_, err = suite.registry.ResolvePartyAccount(ctx, &domain.Party{Name: "Cliente", PartyType: domain.PartyClient}, "USD")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *RegistryServiceTestSuite) TestResolveOperationType_NotFound() {
	ctx := context.Background()
	suite.mockRepo.On("FindOperationType", ctx, "CHEQUE_SELL").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.registry.ResolveOperationType(ctx, "CHEQUE_SELL")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *RegistryServiceTestSuite) TestConvert() {
	ctx := context.Background()
	suite.expectCurrencies("ARS", "USD")

	tests := []struct {
		name     string
		amount   string
		from, to string
		rate     string
		want     string
	}{
		{name: "quoted to base", amount: "100", from: "USD", to: "ARS", rate: "1000", want: "100000"},
		{name: "base to quoted", amount: "100000", from: "ARS", to: "USD", rate: "1000", want: "100"},
		{name: "rounds half even to target precision", amount: "0.01", from: "USD", to: "ARS", rate: "1.5", want: "0.02"},
		{name: "base to quoted with repeating quotient", amount: "100", from: "ARS", to: "USD", rate: "3", want: "33.33"},
		{name: "same currency returns amount", amount: "12.34", from: "USD", to: "USD", rate: "7", want: "12.34"},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			got, err := suite.fx.Convert(ctx, decimal.RequireFromString(tt.amount), tt.from, tt.to, decimal.RequireFromString(tt.rate))
			suite.Require().NoError(err)
			suite.True(got.Equal(decimal.RequireFromString(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func (suite *RegistryServiceTestSuite) TestConvert_InvalidRate() {
	ctx := context.Background()
	suite.expectCurrencies("ARS", "USD", "EUR")

	_, err := suite.fx.Convert(ctx, decimal.NewFromInt(100), "USD", "ARS", decimal.Zero)
	suite.ErrorIs(err, apperrors.ErrInvalidRate)

	_, err = suite.fx.Convert(ctx, decimal.NewFromInt(100), "USD", "ARS", decimal.NewFromInt(-5))
	suite.ErrorIs(err, apperrors.ErrInvalidRate)

	_, err = suite.fx.Convert(ctx, decimal.NewFromInt(100), "USD", "EUR", decimal.NewFromInt(1))
	suite.ErrorIs(err, apperrors.ErrInvalidRate)
}

func (suite *RegistryServiceTestSuite) TestConvert_UnknownCurrency() {
	ctx := context.Background()
	suite.expectCurrencies("ARS")
	suite.mockRepo.On("FindCurrencyByCode", mock.Anything, "XXX").Return(nil, apperrors.ErrNotFound)

	_, err := suite.fx.Convert(ctx, decimal.NewFromInt(1), "XXX", "ARS", decimal.NewFromInt(1))
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- Run Test Suite ---
func TestRegistryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RegistryServiceTestSuite))
}
