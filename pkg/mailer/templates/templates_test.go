package templates

import (
	"strings"
	"testing"
	"time"
)

func TestRenderWelcome(t *testing.T) {
	data := ToMap(WelcomeData{AppName: "", Username: "alice", Email: "alice@example.com", JoinedAt: time.Now()})
	subject, text, html, err := Render(Welcome, data)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if subject != "Welcome to TaskMaster, alice!" {
		t.Errorf("Unexpected subject %q", subject)
	}
	if !strings.Contains(text, "alice@example.com") {
		t.Errorf("Expected text body to mention the email, got %q", text)
	}
	if !strings.Contains(html, "<strong>alice@example.com</strong>") {
		t.Errorf("Expected html body to mention the email, got %q", html)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	if _, _, _, err := Render("missing", nil); err == nil {
		t.Error("Expected an error for an unknown template")
	}
}
