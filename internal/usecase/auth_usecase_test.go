package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dursunkatar/OrderManagementSystem/internal/domain/model"
	repo "github.com/dursunkatar/OrderManagementSystem/internal/repository"
	"github.com/dursunkatar/OrderManagementSystem/internal/usecase"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error)     { return "hashed:" + plain, nil }
func (fakeHasher) Verify(plain string, hashed string) bool { return hashed == "hashed:"+plain }

type fakeIssuer struct{ ttl time.Duration }

func (i fakeIssuer) Issue(customerID int64, now time.Time) (string, time.Time, error) {
	return "token", now.Add(i.ttl), nil
}

func newAuthUC(customers *CustomerRepoMock) *usecase.AuthUsecase {
	clock := fixedClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	return usecase.NewAuthUsecase(customers, fakeHasher{}, fakeIssuer{ttl: 15 * time.Minute}, clock)
}

func TestAuthUsecase_Register_Success(t *testing.T) {
	customers := new(CustomerRepoMock)
	customers.On("FindByEmail", mock.Anything, "taro@example.com").Return(model.Customer{}, repo.ErrNotFound)
	customers.On("Create", mock.Anything, mock.MatchedBy(func(c model.Customer) bool {
		return c.Email == "taro@example.com" &&
			c.PasswordHash == "hashed:correct-horse-battery" &&
			c.IsActive
	})).Return(int64(7), nil)

	out, err := newAuthUC(customers).Register(context.Background(), usecase.RegisterInput{
		Email:    "taro@example.com",
		Password: "correct-horse-battery",
		FullName: "山田 太郎",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(7), out.ID)
	customers.AssertExpectations(t)
}

func TestAuthUsecase_Register_InvalidEmail(t *testing.T) {
	_, err := newAuthUC(new(CustomerRepoMock)).Register(context.Background(), usecase.RegisterInput{
		Email:    "not-an-email",
		Password: "correct-horse-battery",
		FullName: "山田 太郎",
	})
	assertErrContains(t, err, "invalid email")
}

func TestAuthUsecase_Register_PasswordTooShort(t *testing.T) {
	_, err := newAuthUC(new(CustomerRepoMock)).Register(context.Background(), usecase.RegisterInput{
		Email:    "taro@example.com",
		Password: "short",
		FullName: "山田 太郎",
	})
	assertErrContains(t, err, "password too short")
}

func TestAuthUsecase_Register_DuplicateEmail(t *testing.T) {
	customers := new(CustomerRepoMock)
	customers.On("FindByEmail", mock.Anything, "taro@example.com").Return(model.Customer{ID: 1}, nil)

	_, err := newAuthUC(customers).Register(context.Background(), usecase.RegisterInput{
		Email:    "taro@example.com",
		Password: "correct-horse-battery",
		FullName: "山田 太郎",
	})

	assertErrContains(t, err, "email already exists")
	customers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Login_Success(t *testing.T) {
	customers := new(CustomerRepoMock)
	customers.On("FindByEmail", mock.Anything, "taro@example.com").Return(model.Customer{
		ID:           7,
		Email:        "taro@example.com",
		PasswordHash: "hashed:correct-horse-battery",
		IsActive:     true,
	}, nil)

	out, err := newAuthUC(customers).Login(context.Background(), usecase.LoginInput{
		Email:    "taro@example.com",
		Password: "correct-horse-battery",
	})

	assert.NoError(t, err)
	assert.Equal(t, "token", out.AccessToken)
	assert.Equal(t, int64(7), out.Customer.ID)
	assert.Equal(t, 900, out.ExpiresIn)
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	customers := new(CustomerRepoMock)
	customers.On("FindByEmail", mock.Anything, "taro@example.com").Return(model.Customer{
		ID:           7,
		PasswordHash: "hashed:correct-horse-battery",
		IsActive:     true,
	}, nil)

	_, err := newAuthUC(customers).Login(context.Background(), usecase.LoginInput{
		Email:    "taro@example.com",
		Password: "wrong",
	})
	assertErrContains(t, err, "invalid credentials")
}

// 存在しないメールでも文言は同じ
func TestAuthUsecase_Login_UnknownEmail(t *testing.T) {
	customers := new(CustomerRepoMock)
	customers.On("FindByEmail", mock.Anything, "nobody@example.com").Return(model.Customer{}, repo.ErrNotFound)

	_, err := newAuthUC(customers).Login(context.Background(), usecase.LoginInput{
		Email:    "nobody@example.com",
		Password: "correct-horse-battery",
	})
	assertErrContains(t, err, "invalid credentials")
}

func TestAuthUsecase_Login_InactiveCustomer(t *testing.T) {
	customers := new(CustomerRepoMock)
	customers.On("FindByEmail", mock.Anything, "taro@example.com").Return(model.Customer{
		ID:           7,
		PasswordHash: "hashed:correct-horse-battery",
		IsActive:     false,
	}, nil)

	_, err := newAuthUC(customers).Login(context.Background(), usecase.LoginInput{
		Email:    "taro@example.com",
		Password: "correct-horse-battery",
	})
	assertErrContains(t, err, "invalid credentials")
}
