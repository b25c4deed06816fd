package domain

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateLogin checks credentials before any network call is made.
func ValidateLogin(req LoginRequest) error {
	if err := validate.Struct(req); err != nil {
		return firstValidationError(err)
	}
	return nil
}

// ValidateRegister checks the registration payload locally.
func ValidateRegister(req RegisterRequest, passwordConfirm string) error {
	if err := validate.Struct(req); err != nil {
		return firstValidationError(err)
	}
	if req.Password != passwordConfirm {
		return fmt.Errorf("passwords do not match")
	}
	return nil
}

// ValidatePost checks a create/update payload. Scheduled posts additionally
// require a parsable publishAt in the future.
func ValidatePost(req PostRequest, now time.Time) error {
	if err := validate.Struct(req); err != nil {
		return firstValidationError(err)
	}
	if req.Status == StatusScheduled {
		t, err := ParsePublishAt(req.PublishAt)
		if err != nil {
			return fmt.Errorf("scheduled posts need a valid publish date")
		}
		if !t.After(now) {
			return fmt.Errorf("publish date must be in the future")
		}
	}
	return nil
}

// ValidateComment checks a comment payload.
func ValidateComment(req CommentRequest) error {
	if len(req.Content) == 0 {
		return fmt.Errorf("comment cannot be empty")
	}
	if err := validate.Struct(req); err != nil {
		return firstValidationError(err)
	}
	return nil
}

// ValidateProfileUpdate checks a profile edit payload.
func ValidateProfileUpdate(req UpdateProfileRequest) error {
	if err := validate.Struct(req); err != nil {
		return firstValidationError(err)
	}
	return nil
}

// ValidatePasswordUpdate checks a password change payload.
func ValidatePasswordUpdate(req UpdatePasswordRequest, confirm string) error {
	if err := validate.Struct(req); err != nil {
		return firstValidationError(err)
	}
	if req.NewPassword != confirm {
		return fmt.Errorf("new passwords do not match")
	}
	return nil
}

// firstValidationError converts validator output to a single user-facing
// message, since the forms show one inline error at a time.
func firstValidationError(err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return err
	}
	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fieldName(fe.Field()))
	case "min":
		return fmt.Errorf("%s must be at least %s characters", fieldName(fe.Field()), fe.Param())
	case "max":
		return fmt.Errorf("%s must be at most %s characters", fieldName(fe.Field()), fe.Param())
	case "email":
		return fmt.Errorf("invalid email address")
	case "url":
		return fmt.Errorf("%s must be a valid URL", fieldName(fe.Field()))
	case "oneof":
		return fmt.Errorf("%s must be one of %s", fieldName(fe.Field()), fe.Param())
	default:
		return fmt.Errorf("%s is invalid", fieldName(fe.Field()))
	}
}

func fieldName(f string) string {
	switch f {
	case "FullName":
		return "full name"
	case "ProfileImageUrl":
		return "profile image URL"
	case "CurrentPassword":
		return "current password"
	case "NewPassword":
		return "new password"
	case "FileUrl":
		return "file URL"
	default:
		// Title -> title, Content -> content, etc.
		if len(f) > 0 {
			return string(f[0]|0x20) + f[1:]
		}
		return f
	}
}
