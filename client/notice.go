package client

import "github.com/pkg/errors"

// Notice turns any flow error into the single message shown to the user.
func Notice(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCaptcha):
		return "Invalid captcha! Please try again."
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid credentials!"
	case errors.Is(err, ErrLoginRequired):
		return "Please log in as admin to continue."
	case errors.Is(err, ErrRollNumberRequired):
		return "Please enter a roll number."
	case errors.Is(err, ErrNotFound):
		return "Roll number not found!"
	case errors.Is(err, ErrDuplicateRollNumber):
		return "Roll number already exists"
	case errors.Is(err, ErrInvalidResult):
		return "Failed to save result! Please check the form."
	}
	return "Something went wrong! Please try again."
}
