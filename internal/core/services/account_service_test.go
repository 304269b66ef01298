package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/darkstore_ledger/internal/apperrors"
	"github.com/SscSPs/darkstore_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/darkstore_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/darkstore_ledger/internal/core/ports/services"
	"github.com/SscSPs/darkstore_ledger/internal/core/services"
	"github.com/SscSPs/darkstore_ledger/internal/dto"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

// --- Implement mock methods for AccountRepository ---

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveAccountsIfAbsent(ctx context.Context, accounts []domain.Account) (int, error) {
	args := m.Called(ctx, accounts)
	return args.Int(0), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
	now      time.Time
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.now = time.Date(2024, 3, 31, 9, 30, 0, 0, time.UTC)
	suite.service = services.NewAccountService(suite.mockRepo, services.WithAccountClock(func() time.Time { return suite.now }))
}

// --- Test Cases ---

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        " 1500-Prepaid ",
		Name:        "Prepaid Rent",
		AccountType: domain.Asset,
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Code == "1500-Prepaid" && a.CreatedBy == "ops-admin"
	})).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, req, "ops-admin")

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.Equal("1500-Prepaid", created.Code)
	suite.Equal(domain.Asset, created.AccountType)
	suite.Equal(suite.now, created.CreatedAt)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Duplicate() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{Code: "1010-Cash", Name: "Cash", AccountType: domain.Asset}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(apperrors.ErrDuplicate).Once()

	created, err := suite.service.CreateAccount(ctx, req, "ops-admin")

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_InvalidType() {
	req := dto.CreateAccountRequest{Code: "9000-Odd", Name: "Odd", AccountType: "CONTRA"}

	created, err := suite.service.CreateAccount(context.Background(), req, "ops-admin")

	suite.Require().Error(err)
	suite.Nil(created)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestResolveAccount_Unknown() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByCode", ctx, "9999-Nope").Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.ResolveAccount(ctx, "9999-Nope")

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, domain.ErrUnknownAccount)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestResolveAccounts_Deduplicates() {
	ctx := context.Background()
	found := map[string]domain.Account{
		"1010-Cash":    {Code: "1010-Cash", AccountType: domain.Asset},
		"4000-Revenue": {Code: "4000-Revenue", AccountType: domain.Revenue},
	}
	suite.mockRepo.On("FindAccountsByCodes", ctx, []string{"1010-Cash", "4000-Revenue"}).Return(found, nil).Once()

	accounts, err := suite.service.ResolveAccounts(ctx, []string{"4000-Revenue", "1010-Cash", "4000-Revenue"})

	suite.Require().NoError(err)
	suite.Len(accounts, 2)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestResolveAccounts_StorageError() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountsByCodes", ctx, mock.Anything).Return(nil, assert.AnError).Once()

	accounts, err := suite.service.ResolveAccounts(ctx, []string{"1010-Cash"})

	suite.Require().Error(err)
	suite.Nil(accounts)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *AccountServiceTestSuite) TestSeed_FillsAuditFields() {
	ctx := context.Background()
	chart := services.DefaultChartOfAccounts()

	suite.mockRepo.On("SaveAccountsIfAbsent", ctx, mock.MatchedBy(func(accounts []domain.Account) bool {
		if len(accounts) != len(chart) {
			return false
		}
		for _, a := range accounts {
			if a.CreatedBy != services.SystemActor || !a.CreatedAt.Equal(suite.now) {
				return false
			}
		}
		return true
	})).Return(len(chart), nil).Once()

	err := suite.service.Seed(ctx, chart)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
	// The caller's slice is left untouched.
	suite.Empty(chart[0].CreatedBy)
}

func (suite *AccountServiceTestSuite) TestListAccounts_Error() {
	ctx := context.Background()
	suite.mockRepo.On("ListAccounts", ctx).Return(nil, assert.AnError).Once()

	accounts, err := suite.service.ListAccounts(ctx)

	suite.Require().Error(err)
	suite.Nil(accounts)
}

// --- Run Test Suite ---

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func TestDefaultChartOfAccounts_IsValid(t *testing.T) {
	seen := make(map[string]bool)
	for _, a := range services.DefaultChartOfAccounts() {
		assert.False(t, seen[a.Code], "duplicate code %s", a.Code)
		seen[a.Code] = true
		assert.True(t, a.AccountType.IsValid(), a.Code)
		assert.True(t, a.Tag.IsValid(), a.Code)
	}
	assert.True(t, seen["1010-Cash"])
	assert.True(t, seen["4000-Revenue"])
}
