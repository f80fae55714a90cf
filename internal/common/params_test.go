package common

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newRequest(t *testing.T, contentType, body string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	return r
}

func TestParseParams_FormBody(t *testing.T) {
	t.Parallel()

	r := newRequest(t, "application/x-www-form-urlencoded", "username=alice&password=Str0ngPass")
	p := ParseParams(r)
	if got := p.Get("username"); got != "alice" {
		t.Fatalf("username = %q, want alice", got)
	}
	if got := p.Get("password"); got != "Str0ngPass" {
		t.Fatalf("password = %q, want Str0ngPass", got)
	}
	if got := p.Get("missing"); got != "" {
		t.Fatalf("missing = %q, want empty", got)
	}
}

func TestParseParams_JSONBody(t *testing.T) {
	t.Parallel()

	r := newRequest(t, "application/json", `{"username":"alice","listingid":42,"is_driver":true,"note":null}`)
	p := ParseParams(r)
	if got := p.Get("username"); got != "alice" {
		t.Fatalf("username = %q, want alice", got)
	}
	if got := p.Get("listingid"); got != "42" {
		t.Fatalf("listingid = %q, want 42", got)
	}
	if got := p.Get("is_driver"); got != "true" {
		t.Fatalf("is_driver = %q, want true", got)
	}
	if got := p.Get("note"); got != "" {
		t.Fatalf("null member should read as empty, got %q", got)
	}
}

func TestParseParams_RawURLEncodedWithoutContentType(t *testing.T) {
	t.Parallel()

	r := newRequest(t, "text/plain", "username=bob&amount=12.5")
	p := ParseParams(r)
	if got := p.Get("username"); got != "bob" {
		t.Fatalf("username = %q, want bob", got)
	}
	if got := p.Get("amount"); got != "12.5" {
		t.Fatalf("amount = %q, want 12.5", got)
	}
}

func TestParseParams_FormWinsOverJSON(t *testing.T) {
	t.Parallel()

	// A form-encoded body is also a valid raw query string; a JSON view
	// never parses from it, so the form value must be returned.
	r := newRequest(t, "application/x-www-form-urlencoded", "username=form-alice")
	p := ParseParams(r)
	p.json = map[string]interface{}{"username": "json-alice"}
	if got := p.Get("username"); got != "form-alice" {
		t.Fatalf("username = %q, want form-alice", got)
	}
}

func TestParseParams_JSONWinsOverRaw(t *testing.T) {
	t.Parallel()

	// {"username":"json-alice"} also survives url.ParseQuery as a single
	// garbage key, so only the JSON view yields a value for username.
	r := newRequest(t, "application/json", `{"username":"json-alice"}`)
	p := ParseParams(r)
	if got := p.Get("username"); got != "json-alice" {
		t.Fatalf("username = %q, want json-alice", got)
	}
}

func TestParseMoney(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"10", 10, false},
		{"10.50", 10.5, false},
		{"  3.25 ", 3.25, false},
		{"0", 0, false},
		{"-5", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseMoney(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseMoney(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseMoney(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	t.Parallel()

	if got := FormatMoney(10); got != "10.00" {
		t.Fatalf("FormatMoney(10) = %q", got)
	}
	if got := FormatMoney(3.456); got != "3.46" {
		t.Fatalf("FormatMoney(3.456) = %q", got)
	}
	if got := FormatMoney(0); got != "0.00" {
		t.Fatalf("FormatMoney(0) = %q", got)
	}
}

func TestParseFlag(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"true", "True", "1", "yes", "YES"} {
		if !ParseFlag(s) {
			t.Fatalf("ParseFlag(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "false", "0", "no", "maybe"} {
		if ParseFlag(s) {
			t.Fatalf("ParseFlag(%q) = true, want false", s)
		}
	}
}

func TestValidDay(t *testing.T) {
	t.Parallel()

	for _, d := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"} {
		if !ValidDay(d) {
			t.Fatalf("ValidDay(%q) = false", d)
		}
	}
	for _, d := range []string{"monday", "MONDAY", "Funday", ""} {
		if ValidDay(d) {
			t.Fatalf("ValidDay(%q) = true", d)
		}
	}
}
