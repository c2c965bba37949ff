package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"storefront/internal/model"
	"storefront/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Durable and session store keys used for authentication.
const (
	usersKey         = "users"
	adminPasswordKey = "adminPassword"
	sessionPrefix    = "session:"

	adminUsername   = "admin"
	defaultPassword = "password123"
	defaultName     = "Test User"
	defaultEmail    = "testuser@example.com"
)

const errWeakPassword = "Password must be at least 8 characters with uppercase, lowercase, and number."

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// authService implements AuthService. Accounts live in the durable store,
// sessions in the session store.
type authService struct {
	durable    storage.Store
	sessions   storage.Store
	codec      *storage.Codec
	favourites FavouritesService
	cost       int
	now        func() time.Time
	mu         sync.Mutex
	logger     zerolog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(durable, sessions storage.Store, codec *storage.Codec, favourites FavouritesService, logger zerolog.Logger) AuthService {
	return &authService{
		durable:    durable,
		sessions:   sessions,
		codec:      codec,
		favourites: favourites,
		cost:       bcrypt.DefaultCost,
		now:        time.Now,
		logger:     logger.With().Str("service", "auth").Logger(),
	}
}

// EnsureDefaults seeds the default customer and admin password when absent.
func (s *authService) EnsureDefaults(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		hash, err := s.hash(defaultPassword)
		if err != nil {
			return err
		}
		users = append(users, model.User{
			Name:         defaultName,
			Email:        defaultEmail,
			PasswordHash: hash,
			CreatedAt:    s.now().UTC(),
		})
		if err := s.codec.Save(ctx, s.durable, usersKey, users); err != nil {
			return fmt.Errorf("failed to seed default user: %w", err)
		}
		s.logger.Info().Str("email", defaultEmail).Msg("Default user created")
	}

	var adminHash string
	found, err := s.codec.Load(ctx, s.durable, adminPasswordKey, &adminHash)
	if err != nil {
		return fmt.Errorf("failed to load admin password: %w", err)
	}
	if !found || adminHash == "" {
		hash, err := s.hash(defaultPassword)
		if err != nil {
			return err
		}
		if err := s.codec.Save(ctx, s.durable, adminPasswordKey, hash); err != nil {
			return fmt.Errorf("failed to seed admin password: %w", err)
		}
		s.logger.Info().Msg("Default admin password set")
	}

	return nil
}

// Register creates a customer account and logs it in. A taken email is
// reported with a generic error.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.SessionResponse, error) {
	name := model.SanitizeText(req.Name)
	email := strings.ToLower(model.SanitizeText(req.Email))

	switch {
	case utf8.RuneCountInString(name) < 2:
		return nil, model.NewInvalidFieldError("Name must be at least 2 characters long.")
	case !emailPattern.MatchString(email):
		return nil, model.NewInvalidFieldError("Please enter a valid email address.")
	case !ValidPassword(req.Password):
		return nil, model.NewInvalidFieldError(errWeakPassword)
	case req.Password != req.ConfirmPassword:
		return nil, model.NewInvalidFieldError("Passwords do not match.")
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	users, err := s.loadUsers(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			s.mu.Unlock()
			s.logger.Info().Msg("registration rejected for existing email")
			return nil, model.ErrRegistrationFailed
		}
	}

	user := model.User{Name: name, Email: email, PasswordHash: hash, CreatedAt: s.now().UTC()}
	users = append(users, user)
	err = s.codec.Save(ctx, s.durable, usersKey, users)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.Info().Str("email", email).Msg("customer registered")

	return s.startSession(ctx, model.Session{Kind: model.SessionCustomer, Name: user.Name, Email: user.Email})
}

// Login starts a customer session.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.SessionResponse, error) {
	email := strings.ToLower(model.SanitizeText(req.Email))
	if !emailPattern.MatchString(email) {
		return nil, model.NewInvalidFieldError("Please enter a valid email address.")
	}
	if req.Password == "" {
		return nil, model.NewInvalidFieldError("Please enter your password.")
	}

	s.mu.Lock()
	users, err := s.loadUsers(ctx)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if !strings.EqualFold(u.Email, email) {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
			break
		}
		s.logger.Info().Str("email", u.Email).Msg("customer logged in")
		return s.startSession(ctx, model.Session{Kind: model.SessionCustomer, Name: u.Name, Email: u.Email})
	}

	s.logger.Info().Msg("customer login rejected")
	return nil, model.ErrInvalidCredentials
}

// AdminLogin starts an admin session.
func (s *authService) AdminLogin(ctx context.Context, req *model.AdminLoginRequest) (*model.SessionResponse, error) {
	username := model.SanitizeText(req.Username)
	if username == "" {
		return nil, model.NewInvalidFieldError("Please enter username.")
	}
	if req.Password == "" {
		return nil, model.NewInvalidFieldError("Please enter password.")
	}

	if username != adminUsername || !s.checkAdminPassword(ctx, req.Password) {
		s.logger.Info().Msg("admin login rejected")
		return nil, model.ErrInvalidAdminLogin
	}

	s.logger.Info().Msg("admin logged in")
	return s.startSession(ctx, model.Session{Kind: model.SessionAdmin, Username: adminUsername})
}

// ChangeAdminPassword replaces the admin password after checking the
// current one and the password policy.
func (s *authService) ChangeAdminPassword(ctx context.Context, req *model.ChangePasswordRequest) error {
	if !s.checkAdminPassword(ctx, req.CurrentPassword) {
		return model.ErrWrongPassword
	}
	if !ValidPassword(req.NewPassword) {
		return model.NewInvalidFieldError("New password must be at least 8 characters with uppercase, lowercase, and number.")
	}
	if req.NewPassword != req.ConfirmPassword {
		return model.NewInvalidFieldError("New passwords do not match.")
	}

	hash, err := s.hash(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.codec.Save(ctx, s.durable, adminPasswordKey, hash); err != nil {
		return fmt.Errorf("failed to save admin password: %w", err)
	}

	s.logger.Info().Msg("admin password changed")
	return nil
}

// Session resolves a token. It returns nil, nil for unknown or expired tokens.
func (s *authService) Session(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, nil
	}

	var session model.Session
	found, err := s.codec.Load(ctx, s.sessions, sessionPrefix+token, &session)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !found || session.Token != token {
		return nil, nil
	}
	return &session, nil
}

// Logout ends the session. A customer's favourites go with it.
func (s *authService) Logout(ctx context.Context, token string) error {
	session, err := s.Session(ctx, token)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	if err := s.sessions.Delete(ctx, sessionPrefix+token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if session.Kind == model.SessionCustomer {
		if err := s.favourites.Clear(ctx, session.Email); err != nil {
			s.logger.Warn().Err(err).Str("email", session.Email).Msg("favourites not cleared on logout")
		}
	}

	s.logger.Info().Str("kind", session.Kind).Msg("logged out")
	return nil
}

func (s *authService) startSession(ctx context.Context, session model.Session) (*model.SessionResponse, error) {
	session.Token = uuid.NewString()
	session.LoginTime = s.now().UTC()

	if err := s.codec.Save(ctx, s.sessions, sessionPrefix+session.Token, session); err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	return &model.SessionResponse{
		Token:     session.Token,
		Name:      session.Name,
		Email:     session.Email,
		Username:  session.Username,
		LoginTime: session.LoginTime,
	}, nil
}

func (s *authService) checkAdminPassword(ctx context.Context, password string) bool {
	var hash string
	found, err := s.codec.Load(ctx, s.durable, adminPasswordKey, &hash)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load admin password")
		return false
	}
	if !found {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// loadUsers reads the account list. A malformed list reads as empty.
func (s *authService) loadUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if _, err := s.codec.Load(ctx, s.durable, usersKey, &users); err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return users, nil
}

func (s *authService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", model.NewInvalidFieldError(errWeakPassword)
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// ValidPassword reports whether password is at least eight characters from
// letters, digits and @$!%*?&, with at least one lowercase letter, one
// uppercase letter and one digit.
func ValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}

	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune("@$!%*?&", r):
		default:
			return false
		}
	}
	return lower && upper && digit
}
