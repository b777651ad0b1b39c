package validator

import (
	"net/mail"
	"strings"
)

// Problem is the first failed check of a validation pass.
type Problem struct {
	Field   string
	Missing bool
	Info    string
}

// Field is one named value checked by Ordered.
type Field struct {
	Name  string
	Value string
	Email bool
}

// Ordered checks fields in the given order and stops at the first problem.
// A blank value is missing; an Email field must also parse as an address.
func Ordered(fields ...Field) *Problem {
	for _, f := range fields {
		value := strings.TrimSpace(f.Value)
		if value == "" {
			return &Problem{Field: f.Name, Missing: true}
		}
		if f.Email && !IsEmail(value) {
			return &Problem{Field: f.Name, Info: "invalid email address"}
		}
	}
	return nil
}

func ValidateSignup(email, username, password, firstName, lastName string) *Problem {
	return Ordered(
		Field{Name: "email", Value: email, Email: true},
		Field{Name: "username", Value: username},
		Field{Name: "password", Value: password},
		Field{Name: "firstName", Value: firstName},
		Field{Name: "lastName", Value: lastName},
	)
}

// IsEmail accepts a bare address only; display-name forms are rejected.
func IsEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@"):], ".")
}

// Normalize lower-cases and trims an email or username.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
