package utility

import (
	"errors"
	"testing"
	"time"

	"biz_crm/internal/common"
)

func TestCreateToken_ParseToken_RoundTrip(t *testing.T) {
	secret := "test-secret"
	userID := "507f1f77bcf86cd799439011"

	tokenString, err := CreateToken(secret, userID, time.Hour)
	if err != nil {
		t.Fatalf("tạo token lỗi: %v", err)
	}

	claims, err := ParseToken(secret, tokenString)
	if err != nil {
		t.Fatalf("parse token hợp lệ lỗi: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("UserID không khớp, nhận được: %s", claims.UserID)
	}
}

func TestParseToken_SaiSecret(t *testing.T) {
	tokenString, err := CreateToken("secret-a", "507f1f77bcf86cd799439011", time.Hour)
	if err != nil {
		t.Fatalf("tạo token lỗi: %v", err)
	}

	_, err = ParseToken("secret-b", tokenString)
	if !errors.Is(err, common.ErrTokenInvalid) {
		t.Errorf("sai secret phải trả ErrTokenInvalid, nhận được: %v", err)
	}
}

func TestParseToken_HetHan(t *testing.T) {
	tokenString, err := CreateToken("secret", "507f1f77bcf86cd799439011", -time.Minute)
	if err != nil {
		t.Fatalf("tạo token lỗi: %v", err)
	}

	_, err = ParseToken("secret", tokenString)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Errorf("token hết hạn phải trả ErrTokenExpired, nhận được: %v", err)
	}
}

func TestParseToken_ChuoiRac(t *testing.T) {
	if _, err := ParseToken("secret", "not.a.token"); !errors.Is(err, common.ErrTokenInvalid) {
		t.Errorf("chuỗi rác phải trả ErrTokenInvalid, nhận được: %v", err)
	}
}

func TestHashPassword_ComparePassword(t *testing.T) {
	hashed, err := HashPassword("matkhau-manh-123!")
	if err != nil {
		t.Fatalf("hash mật khẩu lỗi: %v", err)
	}
	if hashed == "matkhau-manh-123!" {
		t.Fatal("hash không được là plaintext")
	}
	if !ComparePassword(hashed, "matkhau-manh-123!") {
		t.Error("mật khẩu đúng phải khớp hash")
	}
	if ComparePassword(hashed, "mat-khau-sai") {
		t.Error("mật khẩu sai không được khớp hash")
	}
}
