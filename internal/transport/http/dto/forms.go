package dto

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/AnishBandal/deforestation-monitoring-tool/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("password_strength", validatePasswordStrength)
}

// validatePasswordStrength requires at least one uppercase letter, one
// lowercase letter and one number.
func validatePasswordStrength(fl validator.FieldLevel) bool {
	password := fl.Field().String()

	hasUpper := false
	hasLower := false
	hasNumber := false

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		}
		if unicode.IsLower(char) {
			hasLower = true
		}
		if unicode.IsNumber(char) {
			hasNumber = true
		}
		if hasUpper && hasLower && hasNumber {
			return true
		}
	}

	return hasUpper && hasLower && hasNumber
}

// -------- Signup --------

type SignupForm struct {
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=8,password_strength"`
	ConfirmPassword string `validate:"required"`
}

func SignupFormFromRequest(r *http.Request) SignupForm {
	return SignupForm{
		Email:           strings.TrimSpace(r.PostFormValue("email")),
		Password:        strings.TrimSpace(r.PostFormValue("password")),
		ConfirmPassword: strings.TrimSpace(r.PostFormValue("confirm_password")),
	}
}

func (f *SignupForm) Validate() error {
	// missing-fields wins over format/strength complaints
	if f.Email == "" || f.Password == "" || f.ConfirmPassword == "" {
		return domain.ErrMissingFields()
	}
	return mapValidatorErr(validate.Struct(f))
}

// -------- Login --------

type LoginForm struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

func LoginFormFromRequest(r *http.Request) LoginForm {
	return LoginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: strings.TrimSpace(r.PostFormValue("password")),
	}
}

func (f *LoginForm) Validate() error {
	if f.Email == "" || f.Password == "" {
		return domain.ErrMissingFields()
	}
	return mapValidatorErr(validate.Struct(f))
}

// mapValidatorErr translates validator failures into domain errors.
// Only the first failure is surfaced; the forms are tiny.
func mapValidatorErr(err error) error {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return domain.ErrInternal(err)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return domain.ErrMissingFields()
	case "email":
		return domain.ErrInvalidField("email", "invalid format")
	case "min":
		return domain.ErrWeakPassword("min length 8")
	case "password_strength":
		return domain.ErrWeakPassword("needs upper, lower and number")
	default:
		return domain.ErrInvalidField(strings.ToLower(fe.Field()), fe.Tag())
	}
}
