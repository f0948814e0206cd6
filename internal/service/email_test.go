package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fittrack/fittrack/internal/markdown"
)

func TestRenderEmailTemplates(t *testing.T) {
	parser := markdown.NewParser()

	msg, err := renderEmail(parser, emailVerify, emailData{
		AppName: "FitTrack",
		Name:    "sam",
		URL:     "https://fit.example/api/auth/verify?token=abc",
		Expiry:  "24h0m0s",
	})
	if err != nil {
		t.Fatal(err)
	}
	if msg.Subject != "Verify your email for FitTrack" {
		t.Errorf("subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, `href="https://fit.example/api/auth/verify?token=abc"`) {
		t.Errorf("verify link missing: %s", msg.HTML)
	}

	for _, name := range []string{emailWelcome, emailPasswordAdded} {
		msg, err := renderEmail(parser, name, emailData{AppName: "FitTrack", Name: "sam"})
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !strings.Contains(msg.Subject, "FitTrack") {
			t.Errorf("%s subject = %q", name, msg.Subject)
		}
	}

	if _, err := renderEmail(parser, "missing.md", emailData{}); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestEmailServiceDevModeDoesNotSend(t *testing.T) {
	svc := NewEmailService("re_test", "noreply@example.com", "https://fit.example", "FitTrack", true)

	err := svc.SendVerificationEmail(context.Background(), "sam@example.com", "tok", "sam", 24*time.Hour)
	if err != nil {
		t.Fatalf("dev mode send: %v", err)
	}
}

func TestEmailServiceUnconfigured(t *testing.T) {
	svc := NewEmailService("", "noreply@example.com", "https://fit.example", "FitTrack", false)

	err := svc.SendWelcomeEmail(context.Background(), "sam@example.com", "sam")
	if err == nil || !strings.Contains(err.Error(), "RESEND_API_KEY") {
		t.Fatalf("err = %v, want missing key error", err)
	}
}
