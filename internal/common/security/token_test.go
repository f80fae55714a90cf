package security

import (
	"strings"
	"testing"
)

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	for _, username := range []string{"alice", "bob", "driver-42"} {
		tok, err := IssueToken(secret, username)
		if err != nil {
			t.Fatalf("IssueToken error: %v", err)
		}
		got, err := VerifyToken(secret, tok)
		if err != nil {
			t.Fatalf("VerifyToken error: %v", err)
		}
		if got != username {
			t.Fatalf("username mismatch: got %q want %q", got, username)
		}
	}
}

func TestIssueToken_Deterministic(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	first, err := IssueToken(secret, "alice")
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}
	second, err := IssueToken(secret, "alice")
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}
	if first != second {
		t.Fatalf("tokens differ for identical inputs: %q vs %q", first, second)
	}
}

func TestVerifyToken_MutatedTag(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	tok, err := IssueToken(secret, "alice")
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}

	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("expected three segments, got %d", len(parts))
	}

	// Flip every character of the tag segment in turn; each mutation must
	// invalidate the token.
	tag := parts[2]
	for i := 0; i < len(tag); i++ {
		mutated := []byte(tag)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}
		if string(mutated) == tag {
			continue
		}
		bad := parts[0] + "." + parts[1] + "." + string(mutated)
		if _, err := VerifyToken(secret, bad); err == nil {
			t.Fatalf("mutation at tag offset %d accepted", i)
		}
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := IssueToken([]byte("right-secret"), "alice")
	if err != nil {
		t.Fatalf("IssueToken error: %v", err)
	}
	if _, err := VerifyToken([]byte("wrong-secret"), tok); err == nil {
		t.Fatalf("expected error for wrong secret, got nil")
	}
}

func TestVerifyToken_Malformed(t *testing.T) {
	t.Parallel()

	for _, tok := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		if _, err := VerifyToken([]byte("k"), tok); err == nil {
			t.Fatalf("malformed token %q accepted", tok)
		}
	}
}
