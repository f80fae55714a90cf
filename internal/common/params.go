package common

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Params extracts request parameters the way the wire protocol requires:
// a parameter may arrive as a form field, a JSON body member, or a key in a
// raw URL-encoded body, and the first non-empty match wins in that order.
type Params struct {
	form url.Values
	json map[string]interface{}
	raw  url.Values
}

// ParseParams reads the request body once and prepares all three views of it.
// The body is fully consumed; handlers must extract everything through the
// returned Params.
func ParseParams(r *http.Request) *Params {
	p := &Params{}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return p
	}

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/x-www-form-urlencoded" {
		if values, err := url.ParseQuery(string(body)); err == nil {
			p.form = values
		}
	}

	var jsonBody map[string]interface{}
	if err := json.Unmarshal(body, &jsonBody); err == nil {
		p.json = jsonBody
	}

	if values, err := url.ParseQuery(string(body)); err == nil {
		p.raw = values
	}

	return p
}

// Get returns the first non-empty value found for name, or "".
func (p *Params) Get(name string) string {
	if v := p.form.Get(name); v != "" {
		return v
	}
	if raw, ok := p.json[name]; ok {
		if v := stringify(raw); v != "" {
			return v
		}
	}
	return p.raw.Get(name)
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

// ParseMoney accepts the loose numeric strings the protocol allows and
// rejects negative amounts.
func ParseMoney(s string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, ErrBadRequest)
	}
	if amount < 0 {
		return 0, fmt.Errorf("negative amount %q: %w", s, ErrBadRequest)
	}
	return amount, nil
}

// FormatMoney renders a monetary value as the fixed two-decimal string the
// protocol serializes on output.
func FormatMoney(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// ParseFlag interprets the protocol's loose boolean encoding.
func ParseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// ValidDay reports whether day is one of the seven English weekday names,
// exact case.
func ValidDay(day string) bool {
	switch day {
	case "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday":
		return true
	}
	return false
}
