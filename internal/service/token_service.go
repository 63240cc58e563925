package service

import (
	"errors"
	"time"

	"github.com/vestra-shop/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims 身份服务签发的 JWT 声明
type TokenClaims struct {
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Purpose string `json:"purpose,omitempty"` // 非空表示一次性用途令牌，不能用于访问接口
	jwt.RegisteredClaims
}

// TokenService 校验外部签发的访问令牌
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService 创建令牌服务
func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{secret: []byte(cfg.SecretKey), issuer: cfg.Issuer}
}

// Parse 解析并校验 HS256 令牌
func (s *TokenService) Parse(tokenString string) (*TokenClaims, error) {
	if s == nil || len(s.secret) == 0 {
		return nil, ErrTokenInvalid
	}
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		options = append(options, jwt.WithIssuer(s.issuer))
	}
	claims := &TokenClaims{}
	token, err := jwt.NewParser(options...).ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, errors.Join(ErrTokenInvalid, err)
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Issue 签发访问令牌（仅用于本地开发与测试，生产由身份服务签发）
func (s *TokenService) Issue(userID uint, email, role string, ttl time.Duration) (string, error) {
	return s.issue(userID, email, role, "", ttl)
}

// IssuePurpose 签发一次性用途令牌，例如验证码通过后的密码重置凭证
func (s *TokenService) IssuePurpose(userID uint, email, purpose string, ttl time.Duration) (string, error) {
	return s.issue(userID, email, "", purpose, ttl)
}

func (s *TokenService) issue(userID uint, email, role, purpose string, ttl time.Duration) (string, error) {
	if s == nil || len(s.secret) == 0 {
		return "", ErrTokenInvalid
	}
	now := time.Now()
	claims := TokenClaims{
		UserID:  userID,
		Email:   email,
		Role:    role,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
