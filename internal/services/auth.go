package services

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/arushsrivastava/HectoClash-Game/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	db        *gorm.DB
	jwtSecret []byte
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{db: db, jwtSecret: []byte(jwtSecret)}
}

func (s *AuthService) Register(username, password string) (string, *models.User, error) {
	if len(username) < 3 {
		return "", nil, errors.New("username must be at least 3 characters")
	}

	var existing models.User
	if err := s.db.Where("username = ?", username).First(&existing).Error; err == nil {
		return "", nil, errors.New("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Rating:       models.DefaultRating,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return "", nil, err
	}

	token, err := s.GenerateToken(user.ID)
	return token, &user, err
}

func (s *AuthService) Login(username, password string) (string, *models.User, error) {
	var user models.User
	if err := s.db.Where("username = ? AND is_guest = ?", username, false).
		First(&user).Error; err != nil {
		return "", nil, errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, errors.New("invalid credentials")
	}

	token, err := s.GenerateToken(user.ID)
	return token, &user, err
}

// Guest creates a throwaway account with a generated name and the
// default rating. No password; the token is the only way back in.
func (s *AuthService) Guest() (string, *models.User, error) {
	user := models.User{
		Username: s.generateGuestName(),
		IsGuest:  true,
		Rating:   models.DefaultRating,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return "", nil, err
	}

	token, err := s.GenerateToken(user.ID)
	return token, &user, err
}

func (s *AuthService) GenerateToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) ValidateToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid claims")
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, errors.New("invalid user_id in token")
	}

	return uint(userIDFloat), nil
}

func (s *AuthService) generateGuestName() string {
	for {
		name := fmt.Sprintf("Guest%04d", rand.Intn(10000))
		var count int64
		s.db.Model(&models.User{}).Where("username = ?", name).Count(&count)
		if count == 0 {
			return name
		}
	}
}
