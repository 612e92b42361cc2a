package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/librekpi/backend/internal/config"
	"github.com/librekpi/backend/internal/logger"
	"github.com/librekpi/backend/internal/model"
	"github.com/librekpi/backend/internal/repository"
	"github.com/librekpi/backend/internal/social"
)

// Claims extends JWT standard claims with app-specific fields. The
// permission list is baked into the token so the RBAC middleware never
// needs a database round trip.
type Claims struct {
	jwt.RegisteredClaims
	UserID      string     `json:"user_id"`
	Role        model.Role `json:"role"`
	Permissions []string   `json:"permissions,omitempty"`
}

// AuthService handles registration, login, JWT and session management.
type AuthService struct {
	cfg      *config.Config
	rdb      *redis.Client
	userRepo repository.UserRepository
	social   social.Verifier
	log      zerolog.Logger
}

func NewAuthService(cfg *config.Config, rdb *redis.Client, userRepo repository.UserRepository, verifier social.Verifier, log zerolog.Logger) *AuthService {
	return &AuthService{
		cfg:      cfg,
		rdb:      rdb,
		userRepo: userRepo,
		social:   verifier,
		log:      logger.Component(log, "auth_service"),
	}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Register creates a student account. Uniqueness of username and email
// is enforced by the collection's indexes, so a duplicate shows up as a
// driver error here rather than as a pre-check race.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:       strings.ToLower(req.Username),
		Email:          strings.ToLower(req.Email),
		DisplayName:    req.DisplayName,
		Role:           model.RoleStudent,
		PasswordHash:   hash,
		City:           req.City,
		Gender:         req.Gender,
		Locale:         req.Locale,
		TimezoneOffset: req.TimezoneOffset,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("parse date_of_birth: %w", err)
		}
		user.DateOfBirth = &dob
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID.Hex()).Str("username", user.Username).Msg("User registered")
	return user, nil
}

// Login verifies credentials and issues a token. Login accepts either
// the username or the email address.
func (s *AuthService) Login(ctx context.Context, login, password string) (string, *model.User, error) {
	user, err := s.userRepo.GetByLogin(ctx, strings.ToLower(login))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("lookup user: %w", err)
	}

	// Social-only accounts carry no password hash.
	if user.PasswordHash == "" {
		return "", nil, ErrInvalidCredentials
	}
	if err := s.CheckPassword(user.PasswordHash, password); err != nil {
		return "", nil, err
	}

	token, err := s.GenerateToken(ctx, user)
	if err != nil {
		return "", nil, err
	}

	_ = s.userRepo.TouchLastAccessed(ctx, user.ID, time.Now())
	return token, user, nil
}

// SocialLogin verifies a provider access token and signs the matching
// account in, provisioning a student account on first contact.
func (s *AuthService) SocialLogin(ctx context.Context, provider, accessToken string) (string, *model.User, error) {
	identity, err := s.social.Verify(ctx, provider, accessToken)
	if err != nil {
		return "", nil, err
	}

	user, err := s.userRepo.GetBySocial(ctx, identity.Provider, identity.SubjectID)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil, fmt.Errorf("lookup social identity: %w", err)
		}
		user, err = s.provisionSocialUser(ctx, identity)
		if err != nil {
			return "", nil, err
		}
	}

	token, err := s.GenerateToken(ctx, user)
	if err != nil {
		return "", nil, err
	}

	_ = s.userRepo.TouchLastAccessed(ctx, user.ID, time.Now())
	return token, user, nil
}

func (s *AuthService) provisionSocialUser(ctx context.Context, identity *social.Identity) (*model.User, error) {
	displayName := identity.Name
	if displayName == "" {
		displayName = identity.Provider + " user"
	}

	user := &model.User{
		Username:    socialUsername(identity),
		Email:       strings.ToLower(identity.Email),
		DisplayName: displayName,
		Role:        model.RoleStudent,
		Social: []model.SocialIdentity{{
			Provider:  identity.Provider,
			SubjectID: identity.SubjectID,
		}},
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Most likely the provider's email already belongs to a local
		// account. Linking silently would hand that account to whoever
		// controls the token, so refuse instead.
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("provision social user: %w", err)
	}

	s.log.Info().
		Str("user_id", user.ID.Hex()).
		Str("provider", identity.Provider).
		Msg("Social account provisioned")
	return user, nil
}

func socialUsername(identity *social.Identity) string {
	base := strings.ToLower(identity.Provider + "_" + identity.SubjectID)
	cleaned := make([]rune, 0, len(base))
	for _, r := range base {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			cleaned = append(cleaned, r)
		}
	}
	return string(cleaned)
}

// GenerateToken creates a JWT and registers its JTI as the user's one
// active session. A login from a second device replaces the first
// session, which invalidates the older token at the middleware.
func (s *AuthService) GenerateToken(ctx context.Context, user *model.User) (string, error) {
	jti := uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry.Std())),
		},
		UserID:      user.ID.Hex(),
		Role:        user.Role,
		Permissions: permissionStrings(user.Role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	sessionKey := config.CacheKey.UserSessionKey(user.ID.Hex())
	if err := s.rdb.Set(ctx, sessionKey, jti, s.cfg.JWTExpiry.Std()).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return signed, nil
}

func permissionStrings(role model.Role) []string {
	perms := model.PermissionsFor(role)
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// ValidateSession checks that the token's JTI matches the active
// session in Redis.
func (s *AuthService) ValidateSession(ctx context.Context, userID, jti string) error {
	sessionKey := config.CacheKey.UserSessionKey(userID)
	stored, err := s.rdb.Get(ctx, sessionKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNoActiveSession
		}
		return fmt.Errorf("check session: %w", err)
	}
	if stored != jti {
		return ErrSessionInvalidated
	}
	return nil
}

// ResetSession removes the user's session from Redis. Used both by
// logout and by administrators force-logging a user out.
func (s *AuthService) ResetSession(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, config.CacheKey.UserSessionKey(userID)).Err()
}

// ChangePassword verifies the current password before storing the new
// hash. Social-only accounts set their first password with any value
// in current_password accepted as long as it's empty.
func (s *AuthService) ChangePassword(ctx context.Context, userID primitive.ObjectID, current, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if user.PasswordHash != "" {
		if err := s.CheckPassword(user.PasswordHash, current); err != nil {
			return err
		}
	} else if current != "" {
		return ErrInvalidCredentials
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("store password: %w", err)
	}

	// Old tokens stay signed with valid claims, so cut the session too.
	return s.ResetSession(ctx, userID.Hex())
}
