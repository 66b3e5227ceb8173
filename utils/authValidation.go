package utils

import (
	"GlobalDent/models"
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/rs/zerolog/log"
)

// Validation errors
var (
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrPasswordNotComplex = errors.New("password must include at least one uppercase letter, one lowercase letter, one digit, and one special character")
	ErrInvalidResetCode   = errors.New("invalid reset code")
)

var (
	lowercaseRegex = regexp.MustCompile(`[a-z]`)
	uppercaseRegex = regexp.MustCompile(`[A-Z]`)
	digitRegex     = regexp.MustCompile(`\d`)
	specialRegex   = regexp.MustCompile(`[@$!%*?&]`)
)

// ValidateUserData validates operator registration data.
func ValidateUserData(user models.User) error {
	err := validation.ValidateStruct(&user,
		validation.Field(&user.Username, validation.Required, validation.Length(3, 50), is.Alphanumeric),
		validation.Field(&user.Email, validation.Required, is.EmailFormat),
		validation.Field(&user.Password, validation.Required.Error("password cannot be blank"), validation.By(validatePassword)),
	)
	if err != nil {
		log.Debug().Err(err).Msg("User validation failed")
	}
	return err
}

// ValidatePasswordReset validates the reset code and new password.
func ValidatePasswordReset(resetCode, newPassword string) error {
	err := validation.Errors{
		"resetCode": validation.Validate(resetCode, validation.Required.Error("invalid reset code"), validation.Length(6, 6)),
		"password":  validation.Validate(newPassword, validation.Required, validation.By(validatePassword)),
	}.Filter()
	if err != nil {
		log.Debug().Err(err).Msg("Password reset validation failed")
	}
	return err
}

// validatePassword checks the password for length and complexity.
func validatePassword(value interface{}) error {
	password, _ := value.(string)

	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	if !lowercaseRegex.MatchString(password) ||
		!uppercaseRegex.MatchString(password) ||
		!digitRegex.MatchString(password) ||
		!specialRegex.MatchString(password) {
		return ErrPasswordNotComplex
	}

	return nil
}
