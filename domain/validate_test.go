package domain

import (
	"strings"
	"testing"
	"time"
)

func TestValidatePost_TitleLength(t *testing.T) {
	now := time.Now()

	if err := ValidatePost(PostRequest{Title: "ok", Content: "body"}, now); err == nil {
		t.Error("expected error for 2-char title")
	}
	if err := ValidatePost(PostRequest{Title: "abc", Content: "body"}, now); err != nil {
		t.Errorf("3-char title should pass, got %v", err)
	}
	if err := ValidatePost(PostRequest{Title: strings.Repeat("x", 151), Content: "body"}, now); err == nil {
		t.Error("expected error for 151-char title")
	}
}

func TestValidatePost_ScheduledNeedsFuturePublishAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	base := PostRequest{Title: "capsule", Content: "hello future", Status: StatusScheduled}

	req := base
	req.PublishAt = now.Add(-time.Hour).Format(time.RFC3339)
	if err := ValidatePost(req, now); err == nil {
		t.Error("expected error for past-dated schedule")
	}

	req = base
	req.PublishAt = "not-a-date"
	if err := ValidatePost(req, now); err == nil {
		t.Error("expected error for unparsable schedule")
	}

	req = base
	req.PublishAt = now.Add(time.Hour).Format(time.RFC3339)
	if err := ValidatePost(req, now); err != nil {
		t.Errorf("future schedule should pass, got %v", err)
	}
}

func TestValidatePost_PublishedIgnoresPublishAt(t *testing.T) {
	req := PostRequest{Title: "title", Content: "body", Status: StatusPublished}
	if err := ValidatePost(req, time.Now()); err != nil {
		t.Errorf("published post without publishAt should pass, got %v", err)
	}
}

func TestValidateRegister_PasswordMismatch(t *testing.T) {
	req := RegisterRequest{Username: "ada", Email: "ada@example.com", Password: "longenough"}
	if err := ValidateRegister(req, "different"); err == nil {
		t.Error("expected error for mismatched passwords")
	}
	if err := ValidateRegister(req, "longenough"); err != nil {
		t.Errorf("matching passwords should pass, got %v", err)
	}
}

func TestValidateLogin_BadEmail(t *testing.T) {
	if err := ValidateLogin(LoginRequest{Email: "nope", Password: "x"}); err == nil {
		t.Error("expected error for invalid email")
	}
}

func TestValidateComment_Empty(t *testing.T) {
	if err := ValidateComment(CommentRequest{}); err == nil {
		t.Error("expected error for empty comment")
	}
	if err := ValidateComment(CommentRequest{Content: "nice post"}); err != nil {
		t.Errorf("non-empty comment should pass, got %v", err)
	}
}

func TestValidationErrorsAreReadable(t *testing.T) {
	err := ValidatePost(PostRequest{Title: "", Content: "body"}, time.Now())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "title") {
		t.Errorf("error should mention the field in lowercase, got %q", err.Error())
	}
}
