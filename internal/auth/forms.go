package auth

import (
	"net/url"
	"strings"

	"github.com/openshelf/elibrary/internal/validate"
)

// RegisterForm is the typed input for the registration operation. Note the
// hyphenated form keys: the HTML form has always used first-name/last-name.
type RegisterForm struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

func ParseRegisterForm(values url.Values) RegisterForm {
	return RegisterForm{
		Email:     strings.TrimSpace(values.Get("email")),
		Password:  values.Get("password"),
		FirstName: strings.TrimSpace(values.Get("first-name")),
		LastName:  strings.TrimSpace(values.Get("last-name")),
	}
}

func (f RegisterForm) Validate() *validate.Validator {
	v := validate.New()
	v.Check(validate.NotBlank(f.Email), "email", "Email must be provided")
	v.Check(!validate.NotBlank(f.Email) || validate.Matches(f.Email, validate.EmailRX), "email", "Email must be a valid address")
	v.Check(validate.NotBlank(f.Password), "password", "Password must be provided")
	v.Check(!validate.NotBlank(f.Password) || validate.MinRunes(f.Password, 8), "password", "Password must be at least 8 characters")
	v.Check(validate.NotBlank(f.FirstName), "first-name", "First name must be provided")
	v.Check(validate.NotBlank(f.LastName), "last-name", "Last name must be provided")
	return v
}

// LoginForm is the typed input for the authenticate operation.
type LoginForm struct {
	Email    string
	Password string
}

func ParseLoginForm(values url.Values) LoginForm {
	return LoginForm{
		Email:    strings.TrimSpace(values.Get("email")),
		Password: values.Get("password"),
	}
}

func (f LoginForm) Validate() *validate.Validator {
	v := validate.New()
	v.Check(validate.NotBlank(f.Email), "email", "Email must be provided")
	v.Check(validate.NotBlank(f.Password), "password", "Password must be provided")
	return v
}
