// Package auth содержит логику входа, регистрации и выхода участников.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/member-gate/internal/models"
)

// Сообщения, которые показываются посетителю в форме.
const (
	MsgRequiredFields  = "Email, Username, and Password are required."
	MsgInvalidEmail    = "Please enter a valid email address."
	MsgDomainFormat    = "Registration is only allowed for @%s email addresses."
	MsgUsernameTaken   = "Username already taken. Please choose another."
	MsgInvalidLogin    = "Invalid username or password."
	MsgRegistered      = "Registration successful! A confirmation has been sent to your email."
	MsgRegistrationOff = "Registration is currently disabled."
	MsgStorageFailure  = "Something went wrong. Please try again later."
)

var (
	// ErrAuthentication — неверное имя или пароль. Какое из двух, не сообщается.
	ErrAuthentication = errors.New("invalid username or password")
	// ErrDuplicateUsername — имя уже занято, хранилище не изменено.
	ErrDuplicateUsername = errors.New("username already taken")
)

// ValidationError — ошибка входных данных регистрации с сообщением для посетителя.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// CredentialStore — часть хранилища участников, нужная для входа и регистрации.
type CredentialStore interface {
	Create(ctx context.Context, username, password, email string) (bool, error)
	Verify(ctx context.Context, username, password string) (bool, error)
}

// AuthService отвечает за вход, регистрацию и выход участников.
type AuthService struct {
	store          CredentialStore
	requiredDomain string
	validate       *validator.Validate
}

// NewAuthService создает новый экземпляр AuthService.
// requiredDomain — домен почты, обязательный при регистрации; пустой — любой.
func NewAuthService(store CredentialStore, requiredDomain string) *AuthService {
	return &AuthService{
		store:          store,
		requiredDomain: strings.ToLower(strings.TrimPrefix(requiredDomain, "@")),
		validate:       validator.New(),
	}
}

// Login проверяет пароль и при успехе отмечает сессию как вошедшую.
// При неудаче сессия не изменяется и возвращается ErrAuthentication.
func (s *AuthService) Login(ctx context.Context, sess *models.Session, username, password string) error {
	const op = "auth.AuthService.Login"
	ok, err := s.store.Verify(ctx, username, password)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return ErrAuthentication
	}
	sess.LoggedIn = true
	sess.Username = username
	return nil
}

// Register проверяет данные и создаёт участника. Участник после регистрации не входит.
func (s *AuthService) Register(ctx context.Context, username, password, email string) error {
	const op = "auth.AuthService.Register"
	if err := s.ValidateRegistration(username, password, email); err != nil {
		return err
	}
	created, err := s.store.Create(ctx, username, password, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !created {
		return ErrDuplicateUsername
	}
	return nil
}

// ValidateRegistration проверяет поля формы регистрации в порядке:
// заполненность, синтаксис почты, домен почты.
func (s *AuthService) ValidateRegistration(username, password, email string) error {
	if username == "" || password == "" || email == "" {
		return &ValidationError{Message: MsgRequiredFields}
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return &ValidationError{Message: MsgInvalidEmail}
	}
	if s.requiredDomain != "" && !strings.HasSuffix(strings.ToLower(email), "@"+s.requiredDomain) {
		return &ValidationError{Message: fmt.Sprintf(MsgDomainFormat, s.requiredDomain)}
	}
	return nil
}

// Logout сбрасывает вход. Повторный вызов ничего не меняет.
func (s *AuthService) Logout(sess *models.Session) {
	sess.Clear()
}
