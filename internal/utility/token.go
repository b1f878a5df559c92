package utility

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"biz_crm/internal/common"
)

// TokenClaims là payload của access/refresh token.
// UserID là hex string của ObjectID người dùng.
type TokenClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// CreateToken tạo một JWT (HS256) cho userID với thời gian sống ttl.
// Dùng chung cho cả access token và refresh token, khác nhau ở secret và ttl.
//
// Parameters:
//   - secret: Bí mật ký token
//   - userID: Hex string của ObjectID người dùng
//   - ttl: Thời gian sống của token
//
// Returns:
//   - string: Token đã ký
//   - error: Lỗi nếu có
func CreateToken(secret string, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("ký token thất bại: %w", err)
	}
	return signed, nil
}

// ParseToken xác thực chữ ký và thời hạn của token, trả về claims.
// Token hết hạn trả về common.ErrTokenExpired, các lỗi khác trả về common.ErrTokenInvalid.
func ParseToken(secret string, tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		// Chỉ chấp nhận HMAC, chặn thuật toán none hoặc RSA giả mạo
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("phương thức ký không được hỗ trợ: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}
	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrTokenInvalid
	}
	return claims, nil
}
