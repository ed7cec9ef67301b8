package localapi_test

import (
	"testing"
	"time"

	"github.com/quizdeck/quizdeck/internal/localapi"
)

func TestTokenRoundTrip(t *testing.T) {
	a := localapi.NewAuthService("secret", 15*time.Minute, time.Hour)

	tok, err := a.IssueAccess("u1", "a@b.c", []string{"user", "admin"})
	if err != nil {
		t.Fatal(err)
	}
	c, err := a.Parse(tok, "access")
	if err != nil {
		t.Fatal(err)
	}
	if c.Sub != "u1" || c.Email != "a@b.c" || len(c.Roles) != 2 {
		t.Fatalf("claims = %+v", c)
	}
}

func TestTokenTypesAreDistinct(t *testing.T) {
	a := localapi.NewAuthService("secret", 15*time.Minute, time.Hour)

	access, _ := a.IssueAccess("u1", "a@b.c", []string{"user"})
	refresh, _ := a.IssueRefresh("u1")

	if _, err := a.Parse(access, "refresh"); err == nil {
		t.Fatal("access token must not pass as refresh")
	}
	if _, err := a.Parse(refresh, "access"); err == nil {
		t.Fatal("refresh token must not pass as access")
	}
	if _, err := a.Parse(refresh, "refresh"); err != nil {
		t.Fatalf("refresh parse: %v", err)
	}
}

func TestTokenSignatureChecked(t *testing.T) {
	a := localapi.NewAuthService("secret", 15*time.Minute, time.Hour)
	b := localapi.NewAuthService("other", 15*time.Minute, time.Hour)

	tok, _ := a.IssueAccess("u1", "", []string{"user"})
	if _, err := b.Parse(tok, "access"); err == nil {
		t.Fatal("token signed with a different secret accepted")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	a := localapi.NewAuthService("secret", time.Nanosecond, time.Hour)
	tok, _ := a.IssueAccess("u1", "", nil)
	time.Sleep(1100 * time.Millisecond)
	if _, err := a.Parse(tok, "access"); err == nil {
		t.Fatal("expired token accepted")
	}
}
