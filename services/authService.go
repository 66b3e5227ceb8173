package services

import (
	"GlobalDent/database"
	"GlobalDent/models"
	"GlobalDent/repositories"
	"GlobalDent/utils"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

const defaultOperatorRole = "Receptionist"

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Profile(ctx context.Context, userID uint) (*models.User, error)
	SendResetCode(ctx context.Context, email string) error
	ChangePassword(ctx context.Context, email, code, newPassword string) error
}

type userService struct {
	userRepo   repositories.UserRepository
	tokens     *utils.TokenMaker
	resetCodes *utils.ResetCodeStore
	mailer     utils.Mailer
	locker     *database.Locker
}

func NewUserService(
	userRepo repositories.UserRepository,
	tokens *utils.TokenMaker,
	resetCodes *utils.ResetCodeStore,
	mailer utils.Mailer,
	locker *database.Locker,
) UserService {
	return &userService{
		userRepo:   userRepo,
		tokens:     tokens,
		resetCodes: resetCodes,
		mailer:     mailer,
		locker:     locker,
	}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	user := models.User{
		Username: strings.TrimSpace(in.Username),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: in.Password,
	}
	if err := utils.ValidateUserData(user); err != nil {
		return nil, validationError(err)
	}

	lock, err := s.locker.Acquire(ctx, "user:"+user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer func() {
		if err := lock.Release(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to release user lock")
		}
	}()

	if exists, err := s.userRepo.EmailExists(ctx, user.Email); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("email already registered: %w", ErrConflict)
	}
	if exists, err := s.userRepo.UsernameExists(ctx, user.Username); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("username already taken: %w", ErrConflict)
	}

	roleName := strings.TrimSpace(in.Role)
	if roleName == "" {
		roleName = defaultOperatorRole
	}
	role, err := s.userRepo.GetRoleByName(ctx, roleName)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, validationError(fmt.Errorf("unknown role %q", roleName))
	}
	user.RoleID = role.ID

	hashedPassword, err := utils.HashPassword(user.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hashedPassword

	if err := s.userRepo.CreateUser(ctx, &user); err != nil {
		return nil, translateDBError(err, "operator already registered")
	}
	user.Role = *role
	log.Info().Uint("user_id", user.ID).Str("role", role.Name).Msg("Operator registered")
	return &user, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	user, err := s.userRepo.GetCredentials(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, nil, err
	}
	if user == nil || !utils.CheckPassword(user.Password, password) {
		return nil, nil, ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.tokens.GenerateTokens(user.ID, user.Role.Name)
	if err != nil {
		return nil, nil, err
	}
	user.Password = ""
	return user, &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.ValidateToken(refreshToken, utils.TokenKindRefresh)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	userID, err := claims.OperatorID()
	if err != nil {
		return "", ErrInvalidCredentials
	}
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.GenerateAccessToken(user.ID, user.Role.Name)
}

func (s *userService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound("user")
	}
	return user, nil
}

// SendResetCode mails a reset code. Unknown emails are accepted silently.
func (s *userService) SendResetCode(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		log.Debug().Str("email", email).Msg("Reset code requested for unknown email")
		return nil
	}

	code, err := utils.GenerateResetCode()
	if err != nil {
		return err
	}
	if err := s.resetCodes.Set(ctx, email, code); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}
	if err := s.mailer.SendResetCode(email, code); err != nil {
		return fmt.Errorf("failed to send reset code: %w", err)
	}
	return nil
}

func (s *userService) ChangePassword(ctx context.Context, email, code, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := utils.ValidatePasswordReset(code, newPassword); err != nil {
		return validationError(err)
	}

	stored, err := s.resetCodes.Get(ctx, email)
	if err != nil {
		return err
	}
	if stored == nil || *stored != code {
		return validationError(utils.ErrInvalidResetCode)
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return validationError(utils.ErrInvalidResetCode)
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdateUserPassword(ctx, user.ID, hashedPassword); err != nil {
		return err
	}
	if err := s.resetCodes.Delete(ctx, email); err != nil {
		log.Warn().Err(err).Msg("Failed to delete reset code")
	}
	return s.userRepo.DeleteUserCache(ctx, user.ID)
}
