package cart

import "testing"

func TestResolveIdentityPrefersUser(t *testing.T) {
	id := ResolveIdentity("u1", "s1")
	if !id.IsUser() || id.UserID != "u1" {
		t.Fatalf("expected user identity, got %+v", id)
	}
	if id.SessionID != "" {
		t.Fatalf("user identity must not carry a session id: %+v", id)
	}
}

func TestResolveIdentityFallsBackToSession(t *testing.T) {
	id := ResolveIdentity("", "s1")
	if !id.IsAnonymous() || id.SessionID != "s1" {
		t.Fatalf("expected anonymous identity, got %+v", id)
	}
}

func TestResolveIdentityNone(t *testing.T) {
	id := ResolveIdentity("", "")
	if !id.IsNone() {
		t.Fatalf("expected none identity, got %+v", id)
	}
}
