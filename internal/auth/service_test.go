package auth

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/umkmdelicious/backend/internal/users"
	pkgauth "github.com/umkmdelicious/backend/pkg/auth"
	"github.com/umkmdelicious/backend/pkg/config"
	"github.com/umkmdelicious/backend/pkg/db/models"
	pkgerrors "github.com/umkmdelicious/backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, config.JWTConfig) {
	t.Helper()

	dsn := fmt.Sprintf("file:auth_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}))

	jwtCfg := config.JWTConfig{
		Secret:            "test-secret-test-secret",
		Issuer:            "umkm-delicious",
		ExpirationMinutes: 60,
	}
	passwordCfg := config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}

	svc, err := NewService(ServiceParams{
		UserRepo:       users.NewRepository(conn),
		JWTConfig:      jwtCfg,
		PasswordConfig: passwordCfg,
	})
	require.NoError(t, err)
	return svc, jwtCfg
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	svc, jwtCfg := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		Name:     "Ibu Sari",
		Email:    "  Sari@Warung.ID ",
		Password: "super-secret",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.Equal(t, "sari@warung.id", resp.User.Email)
	require.True(t, resp.User.IsAdmin)

	claims, err := pkgauth.ParseAccessToken(jwtCfg, resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, claims.UserID)
	require.Equal(t, "sari@warung.id", claims.Email)

	login, err := svc.Login(ctx, LoginRequest{Email: "SARI@warung.id", Password: "super-secret"})
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, login.User.ID)
	require.NotEmpty(t, login.AccessToken)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Name: "A", Email: "dup@warung.id", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Name: "B", Email: "DUP@warung.id", Password: "password2"})
	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing name", RegisterRequest{Email: "a@b.id", Password: "password1"}},
		{"missing email", RegisterRequest{Name: "A", Password: "password1"}},
		{"short password", RegisterRequest{Name: "A", Email: "a@b.id", Password: "short"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.req)
			var appErr *pkgerrors.Error
			require.ErrorAs(t, err, &appErr)
			require.Equal(t, pkgerrors.CodeValidation, appErr.Code())
		})
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Name: "A", Email: "owner@warung.id", Password: "password1"})
	require.NoError(t, err)

	for _, req := range []LoginRequest{
		{Email: "owner@warung.id", Password: "wrong-password"},
		{Email: "nobody@warung.id", Password: "password1"},
		{Email: "", Password: "password1"},
	} {
		_, err := svc.Login(ctx, req)
		var appErr *pkgerrors.Error
		require.ErrorAs(t, err, &appErr)
		require.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
		require.True(t, strings.Contains(appErr.Error(), invalidCredentialsMessage))
	}
}
