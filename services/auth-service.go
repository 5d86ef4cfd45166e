package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/ddongsuya/cro-project-tracker-sub000/logging"
	"github.com/ddongsuya/cro-project-tracker-sub000/models"
	"github.com/ddongsuya/cro-project-tracker-sub000/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/rand"
)

var (
	ErrUserExists         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotActive      = errors.New("user is not active")
)

// AuthService handles accounts and sessions. Revoked tokens are kept in an
// in-memory set; a restart simply forces everyone to log in again.
type AuthService struct {
	UserCollection *mongo.Collection

	mu      sync.Mutex
	revoked map[string]bool
}

func NewAuthService(userCollection *mongo.Collection) *AuthService {
	return &AuthService{
		UserCollection: userCollection,
		revoked:        make(map[string]bool),
	}
}

// sanitizeRegistration normalizes a self-registration payload. The public
// endpoint never honors a caller-supplied role; manager accounts exist only
// through admin seeding.
func sanitizeRegistration(user models.User) models.User {
	user.Name = html.EscapeString(user.Name)
	user.Email = html.EscapeString(user.Email)
	user.Role = "member"
	user.IsActive = true
	return user
}

// Register creates an active member account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, user models.User) error {
	var existing models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"email": user.Email}).Decode(&existing); err == nil {
		return ErrUserExists
	}

	user = sanitizeRegistration(user)

	if err := s.ValidatePassword(user.Password); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}
	user.Password = string(hashedPassword)

	if _, err := s.UserCollection.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to save user: %v", err)
	}
	return nil
}

// ValidatePassword enforces the registration password rules.
func (s *AuthService) ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	hasUppercase := false
	for _, char := range password {
		if char >= 'A' && char <= 'Z' {
			hasUppercase = true
			break
		}
	}
	if !hasUppercase {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}

	hasDigit := false
	for _, char := range password {
		if char >= '0' && char <= '9' {
			hasDigit = true
			break
		}
	}
	if !hasDigit {
		return fmt.Errorf("password must contain at least one number")
	}

	specialChars := "!@#$%^&*.,"
	hasSpecial := false
	for _, char := range password {
		if strings.ContainsRune(specialChars, char) {
			hasSpecial = true
			break
		}
	}
	if !hasSpecial {
		return fmt.Errorf("password must contain at least one special character")
	}

	if passwordBlacklist[password] {
		return fmt.Errorf("password is too common, please choose a stronger one")
	}

	return nil
}

// Login verifies credentials and returns the user together with a signed
// token.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	var user models.User
	if err := s.UserCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	if !user.IsActive {
		return models.User{}, "", ErrUserNotActive
	}

	token, err := utils.GenerateToken(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to generate token: %v", err)
	}

	user.Password = ""
	return user, token, nil
}

// Logout revokes the token for the rest of its lifetime.
func (s *AuthService) Logout(token string) {
	s.mu.Lock()
	s.revoked[token] = true
	s.mu.Unlock()
}

// IsRevoked reports whether the token has been logged out.
func (s *AuthService) IsRevoked(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revoked[token]
}

var adminPasswordRand = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))

// generateAdminPassword builds a one-time manager password that satisfies
// the registration password rules.
func generateAdminPassword() string {
	return fmt.Sprintf("Admin-%06d!", adminPasswordRand.Intn(1000000))
}

// EnsureAdminUser seeds a manager account when the users collection is
// empty, so a fresh deployment can be logged into. The generated password
// is written to the service log once.
func (s *AuthService) EnsureAdminUser(ctx context.Context) error {
	count, err := s.UserCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to count users: %v", err)
	}
	if count > 0 {
		return nil
	}

	password := generateAdminPassword()
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %v", err)
	}

	admin := models.User{
		Name:     "Administrator",
		Email:    "admin@tracking.local",
		Password: string(hashedPassword),
		Role:     "manager",
		IsActive: true,
	}
	if _, err := s.UserCollection.InsertOne(ctx, admin); err != nil {
		return fmt.Errorf("failed to seed admin user: %v", err)
	}

	logging.Logger.Infof("Event ID: ADMIN_SEEDED, Description: Seeded admin account %s with password %s", admin.Email, password)
	return nil
}
