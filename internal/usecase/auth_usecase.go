package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dursunkatar/OrderManagementSystem/internal/domain/model"
	repo "github.com/dursunkatar/OrderManagementSystem/internal/repository"
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain string, hashed string) bool
}

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(customerID int64, now time.Time) (token string, expiresAt time.Time, err error)
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptPasswordHasher) Verify(plain string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// AuthUsecase は認証の境界。ワークフロー側はJWTのsub（顧客ID）しか見ない。
type AuthUsecase struct {
	customers repo.CustomerRepository
	hasher    PasswordHasher
	issuer    AccessTokenIssuer
	clock     Clock
}

func NewAuthUsecase(
	customers repo.CustomerRepository,
	hasher PasswordHasher,
	issuer AccessTokenIssuer,
	clock Clock,
) *AuthUsecase {
	return &AuthUsecase{
		customers: customers,
		hasher:    hasher,
		issuer:    issuer,
		clock:     clock,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

type CustomerOutput struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	Customer    CustomerOutput `json:"customer"`
	AccessToken string         `json:"access_token"`
	ExpiresIn   int            `json:"expires_in"`
}

// Register は会員登録。パスワードはbcryptで保存（平文は保存しない）。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (CustomerOutput, error) {
	email := strings.TrimSpace(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return CustomerOutput{}, NewHTTPError(http.StatusBadRequest, "invalid email format")
	}
	if len(in.Password) < 12 {
		return CustomerOutput{}, NewHTTPError(http.StatusBadRequest, "password too short")
	}
	if strings.TrimSpace(in.FullName) == "" {
		return CustomerOutput{}, NewHTTPError(http.StatusBadRequest, "full name is required")
	}

	//email重複チェック
	if _, err := u.customers.FindByEmail(ctx, email); err == nil {
		return CustomerOutput{}, NewHTTPError(http.StatusConflict, "email already exists")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return CustomerOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return CustomerOutput{}, NewHTTPError(http.StatusInternalServerError, "hash error")
	}

	now := u.clock.Now()
	customer := model.Customer{
		Email:        email,
		PasswordHash: hashed,
		FullName:     strings.TrimSpace(in.FullName),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	id, err := u.customers.Create(ctx, customer)
	if err != nil {
		return CustomerOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return CustomerOutput{ID: id, Email: customer.Email, FullName: customer.FullName}, nil
}

// Login はメール+パスワード検証してJWTを返す。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	email := strings.TrimSpace(in.Email)

	customer, err := u.customers.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		//メールの有無は区別しない
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !customer.IsActive {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	if !u.hasher.Verify(in.Password, customer.PasswordHash) {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	now := u.clock.Now()
	token, expiresAt, err := u.issuer.Issue(customer.ID, now)
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "token error")
	}

	return LoginOutput{
		Customer:    CustomerOutput{ID: customer.ID, Email: customer.Email, FullName: customer.FullName},
		AccessToken: token,
		ExpiresIn:   int(expiresAt.Sub(now).Seconds()),
	}, nil
}
