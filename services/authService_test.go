package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"GlobalDent/cache"
	"GlobalDent/database"
	"GlobalDent/repositories"
	"GlobalDent/testutil"
	"GlobalDent/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSymmetricKey = "0123456789abcdef0123456789abcdef"

type recordingMailer struct {
	sent map[string]string
	err  error
}

func (m *recordingMailer) SendResetCode(email, code string) error {
	if m.err != nil {
		return m.err
	}
	m.sent[email] = code
	return nil
}

func newUserServiceForTest(t *testing.T) (UserService, *utils.TokenMaker, *recordingMailer) {
	t.Helper()
	db := testutil.NewDB(t)
	client, _ := testutil.NewRedis(t)
	appCache := cache.NewCache(client)

	tokens, err := utils.NewTokenMaker(testSymmetricKey)
	require.NoError(t, err)
	mailer := &recordingMailer{sent: map[string]string{}}

	service := NewUserService(
		repositories.NewUserRepository(db, appCache),
		tokens,
		utils.NewResetCodeStore(appCache),
		mailer,
		database.NewLocker(client, 5*time.Second),
	)
	return service, tokens, mailer
}

func registerInput() RegisterInput {
	return RegisterInput{
		Username: "drlopez",
		Email:    "Lopez@Clinic.test",
		Password: "Secret123!",
		Role:     "Dentist",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	service, tokens, _ := newUserServiceForTest(t)
	ctx := context.Background()

	user, err := service.Register(ctx, registerInput())
	require.NoError(t, err)
	assert.Equal(t, "lopez@clinic.test", user.Email)
	assert.Equal(t, "Dentist", user.Role.Name)

	loggedIn, pair, err := service.Login(ctx, "LOPEZ@clinic.test", "Secret123!")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.Empty(t, loggedIn.Password)

	claims, err := tokens.ValidateToken(pair.AccessToken, utils.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, "Dentist", claims.Role)
	operatorID, err := claims.OperatorID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, operatorID)

	_, _, err = service.Login(ctx, "lopez@clinic.test", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = service.Login(ctx, "nobody@clinic.test", "Secret123!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_Rejections(t *testing.T) {
	service, _, _ := newUserServiceForTest(t)
	ctx := context.Background()
	_, err := service.Register(ctx, registerInput())
	require.NoError(t, err)

	_, err = service.Register(ctx, registerInput())
	assert.ErrorIs(t, err, ErrConflict)

	sameName := registerInput()
	sameName.Email = "other@clinic.test"
	_, err = service.Register(ctx, sameName)
	assert.ErrorIs(t, err, ErrConflict)

	weak := registerInput()
	weak.Username, weak.Email, weak.Password = "drruiz", "ruiz@clinic.test", "password"
	_, err = service.Register(ctx, weak)
	assert.ErrorIs(t, err, ErrValidation)

	unknownRole := registerInput()
	unknownRole.Username, unknownRole.Email, unknownRole.Role = "drruiz", "ruiz@clinic.test", "Janitor"
	_, err = service.Register(ctx, unknownRole)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRefresh(t *testing.T) {
	service, tokens, _ := newUserServiceForTest(t)
	ctx := context.Background()
	_, err := service.Register(ctx, registerInput())
	require.NoError(t, err)
	_, pair, err := service.Login(ctx, "lopez@clinic.test", "Secret123!")
	require.NoError(t, err)

	access, err := service.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	_, err = tokens.ValidateToken(access, utils.TokenKindAccess)
	assert.NoError(t, err)

	_, err = service.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordReset(t *testing.T) {
	service, _, mailer := newUserServiceForTest(t)
	ctx := context.Background()
	_, err := service.Register(ctx, registerInput())
	require.NoError(t, err)

	require.NoError(t, service.SendResetCode(ctx, "lopez@clinic.test"))
	code, ok := mailer.sent["lopez@clinic.test"]
	require.True(t, ok)
	assert.Len(t, code, 6)

	require.NoError(t, service.SendResetCode(ctx, "nobody@clinic.test"))
	assert.Len(t, mailer.sent, 1)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	err = service.ChangePassword(ctx, "lopez@clinic.test", wrong, "NewSecret1!")
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, service.ChangePassword(ctx, "lopez@clinic.test", code, "NewSecret1!"))
	_, _, err = service.Login(ctx, "lopez@clinic.test", "NewSecret1!")
	assert.NoError(t, err)

	err = service.ChangePassword(ctx, "lopez@clinic.test", code, "Another1!")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSendResetCode_MailerFailure(t *testing.T) {
	service, _, mailer := newUserServiceForTest(t)
	ctx := context.Background()
	_, err := service.Register(ctx, registerInput())
	require.NoError(t, err)

	mailer.err = errors.New("smtp down")
	assert.Error(t, service.SendResetCode(ctx, "lopez@clinic.test"))
}
