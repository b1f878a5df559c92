package utility

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost là cost factor cho bcrypt. 12 cân bằng giữa bảo mật và thời gian hash.
const bcryptCost = 12

// HashPassword băm mật khẩu plaintext bằng bcrypt
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash mật khẩu thất bại: %w", err)
	}
	return string(hashed), nil
}

// ComparePassword so sánh mật khẩu plaintext với hash đã lưu.
// Trả về true nếu khớp.
func ComparePassword(hashedPassword string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
