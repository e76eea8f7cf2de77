package validation

import (
	"errors"
	"strings"
)

// Rule is a predicate paired with the message reported when it fails.
type Rule[T any] struct {
	Field   string
	Valid   func(T) bool
	Message string
}

// RuleError reports the first rule that failed.
type RuleError struct {
	Field   string
	Message string
}

func (e *RuleError) Error() string { return e.Message }

// First evaluates rules in order and stops at the first failure, so message
// precedence is fixed by the slice order.
func First[T any](v T, rules []Rule[T]) error {
	for _, r := range rules {
		if !r.Valid(v) {
			return &RuleError{Field: r.Field, Message: r.Message}
		}
	}
	return nil
}

// AsRuleError unwraps a *RuleError.
func AsRuleError(err error) (*RuleError, bool) {
	var re *RuleError
	ok := errors.As(err, &re)
	return re, ok
}

// Credentials is the server-side register input.
type Credentials struct {
	Username string
	Email    string
	Password string
}

// ServerRegisterRules is the check order applied by the auth service.
var ServerRegisterRules = []Rule[Credentials]{
	{Field: "username", Valid: func(c Credentials) bool { return len([]rune(c.Username)) >= 3 }, Message: "Username must be at least 3 characters long"},
	{Field: "email", Valid: func(c Credentials) bool { return EmailPattern.MatchString(c.Email) }, Message: "Please fill a valid email address"},
	{Field: "password", Valid: func(c Credentials) bool { return len([]rune(c.Password)) >= 4 }, Message: "Password is too short (minimum 4 characters)"},
}

// RegisterForm is what the client register view collects.
type RegisterForm struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// ClientRegisterRules mirrors the register view: length, match, then complexity.
// The email shape is checked last, after every password rule.
var ClientRegisterRules = []Rule[RegisterForm]{
	{Field: "username", Valid: func(f RegisterForm) bool { return len([]rune(f.Username)) >= 3 }, Message: "Username must be at least 3 characters long"},
	{Field: "confirmPassword", Valid: func(f RegisterForm) bool { return f.Password == f.ConfirmPassword }, Message: "Passwords do not match"},
	{Field: "password", Valid: func(f RegisterForm) bool { return len([]rune(f.Password)) >= 4 }, Message: "Password is too short (minimum 4 characters)"},
	{Field: "password", Valid: func(f RegisterForm) bool { return hasUpper(f.Password) || hasLower(f.Password) }, Message: "Password must contain both uppercase and lowercase letters"},
	{Field: "password", Valid: func(f RegisterForm) bool { return hasUpper(f.Password) }, Message: "Password must contain at least one uppercase letter"},
	{Field: "password", Valid: func(f RegisterForm) bool { return hasLower(f.Password) }, Message: "Password must contain at least one lowercase letter"},
	{Field: "email", Valid: func(f RegisterForm) bool { return EmailPattern.MatchString(f.Email) }, Message: "Please fill a valid email address"},
}

// TitleRules guards task and subtask titles.
var TitleRules = []Rule[string]{
	{Field: "title", Valid: func(s string) bool { return strings.TrimSpace(s) != "" }, Message: "Title cannot be empty"},
}

// ASCII letters only; accented capitals do not count.
func hasUpper(s string) bool { return strings.IndexFunc(s, func(r rune) bool { return r >= 'A' && r <= 'Z' }) >= 0 }
func hasLower(s string) bool { return strings.IndexFunc(s, func(r rune) bool { return r >= 'a' && r <= 'z' }) >= 0 }
