package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/washpoint-next/internal/config"
	"github.com/washpoint-next/internal/constants"
	"github.com/washpoint-next/internal/models"
	"github.com/washpoint-next/internal/repository"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func openAuthTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Staff{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func newAuthTestService(db *gorm.DB) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-secret-key-for-unit-tests-only-0001"
	cfg.JWT.ExpireHours = 24
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{
		MinLength:     8,
		RequireUpper:  true,
		RequireLower:  true,
		RequireNumber: true,
	}
	return NewAuthService(cfg, repository.NewStaffRepository(db))
}

func seedAuthStaff(t *testing.T, db *gorm.DB, username, password string, active bool) *models.Staff {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	staff := &models.Staff{
		Username:     username,
		DisplayName:  username,
		PasswordHash: string(hash),
		Role:         constants.StaffRoleAttendant,
		Active:       active,
	}
	if err := db.Create(staff).Error; err != nil {
		t.Fatalf("create staff failed: %v", err)
	}
	return staff
}

func TestValidatePasswordPolicy(t *testing.T) {
	policy := config.PasswordPolicyConfig{
		MinLength:     8,
		RequireUpper:  true,
		RequireLower:  true,
		RequireNumber: true,
	}

	cases := []struct {
		name     string
		password string
		wantWeak bool
	}{
		{"valid", "Sulong2026", false},
		{"too_short", "Ab1x", true},
		{"no_upper", "sulong2026", true},
		{"no_lower", "SULONG2026", true},
		{"no_number", "SulongLabada", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePassword(policy, tc.password)
			if tc.wantWeak && !errors.Is(err, ErrPasswordTooWeak) {
				t.Fatalf("want ErrPasswordTooWeak got %v", err)
			}
			if !tc.wantWeak && err != nil {
				t.Fatalf("want nil got %v", err)
			}
		})
	}

	if err := validatePassword(config.PasswordPolicyConfig{}, "x"); err != nil {
		t.Fatalf("empty policy should accept anything, got %v", err)
	}
}

func TestJWTRoundtrip(t *testing.T) {
	db := openAuthTestDB(t, "jwt")
	svc := newAuthTestService(db)

	staff := &models.Staff{Username: "alice", Role: constants.StaffRoleManager}
	staff.ID = 42

	token, expiresAt, err := svc.GenerateJWT(staff)
	if err != nil {
		t.Fatalf("generate jwt failed: %v", err)
	}
	if !expiresAt.After(time.Now().Add(23 * time.Hour)) {
		t.Fatalf("expiry too early: %v", expiresAt)
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse jwt failed: %v", err)
	}
	if claims.StaffID != 42 || claims.Username != "alice" || claims.Role != constants.StaffRoleManager {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := svc.ParseJWT(token + "x"); err == nil {
		t.Fatalf("tampered token must fail to parse")
	}
}

func TestLogin(t *testing.T) {
	db := openAuthTestDB(t, "login")
	svc := newAuthTestService(db)
	seedAuthStaff(t, db, "attendant", "Labada2026", true)
	seedAuthStaff(t, db, "benched", "Labada2026", false)

	staff, token, _, err := svc.Login("attendant", "Labada2026")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("login must issue a token")
	}
	if staff.LastLoginAt == nil {
		t.Fatalf("login must record last_login_at")
	}

	if _, _, _, err := svc.Login("attendant", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password want ErrInvalidCredentials got %v", err)
	}
	if _, _, _, err := svc.Login("nobody", "Labada2026"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user want ErrInvalidCredentials got %v", err)
	}
	if _, _, _, err := svc.Login("benched", "Labada2026"); !errors.Is(err, ErrStaffDisabled) {
		t.Fatalf("disabled staff want ErrStaffDisabled got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	db := openAuthTestDB(t, "changepwd")
	svc := newAuthTestService(db)
	staff := seedAuthStaff(t, db, "attendant", "Labada2026", true)

	if err := svc.ChangePassword(staff.ID, "wrong", "Bagong2026"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong old password want ErrInvalidCredentials got %v", err)
	}
	if err := svc.ChangePassword(staff.ID, "Labada2026", "weak"); !errors.Is(err, ErrPasswordTooWeak) {
		t.Fatalf("weak new password want ErrPasswordTooWeak got %v", err)
	}
	if err := svc.ChangePassword(staff.ID, "Labada2026", "Bagong2026"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	if _, _, _, err := svc.Login("attendant", "Bagong2026"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, _, _, err := svc.Login("attendant", "Labada2026"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
}
