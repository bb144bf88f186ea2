package auth

import (
	"bufio"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// CookieNames are the cookies the web player needs, in Cookie header order
var CookieNames = []string{"qqmusic_key", "qm_keyst", "uin", "wxuin", "euin", "login_type", "tmeLoginType"}

// Cookies is a credential set keyed by cookie name
type Cookies map[string]string

// SessionKey returns qm_keyst
func (c Cookies) SessionKey() string {
	return c["qm_keyst"]
}

// UIN returns the numeric account id, preferring the WeChat id
func (c Cookies) UIN() string {
	if v := c["wxuin"]; v != "" {
		return v
	}
	return c["uin"]
}

// String renders the Cookie header value. Known names come first in a fixed
// order, the rest sorted, so the header is stable between runs.
func (c Cookies) String() string {
	known := make(map[string]bool, len(CookieNames))
	var parts []string
	for _, name := range CookieNames {
		known[name] = true
		if v, ok := c[name]; ok && v != "" {
			parts = append(parts, name+"="+v)
		}
	}
	var rest []string
	for name := range c {
		if !known[name] && c[name] != "" {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		parts = append(parts, name+"="+c[name])
	}
	return strings.Join(parts, "; ")
}

// Filter keeps only CookieNames with non-empty values
func (c Cookies) Filter() Cookies {
	out := make(Cookies)
	for _, name := range CookieNames {
		if v := c[name]; v != "" {
			out[name] = v
		}
	}
	return out
}

// ParseCookieHeader parses "k=v; k2=v2" as copied from browser dev tools
func ParseCookieHeader(header string) Cookies {
	out := make(Cookies)
	for _, part := range strings.Split(header, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || name == "" {
			continue
		}
		out[strings.TrimSpace(name)] = strings.Trim(strings.TrimSpace(value), `"`)
	}
	return out
}

// ParseNetscape reads a cookies.txt export and keeps cookies scoped to qq.com
func ParseNetscape(r io.Reader) (Cookies, error) {
	out := make(Cookies)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// curl marks HttpOnly cookies with this prefix instead of commenting them out
		line = strings.TrimPrefix(line, "#HttpOnly_")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 7 {
			continue
		}
		domain := strings.TrimPrefix(fields[0], ".")
		if domain != "qq.com" && !strings.HasSuffix(domain, ".qq.com") {
			continue
		}
		out[fields[5]] = fields[6]
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read cookie file")
	}
	return out, nil
}
