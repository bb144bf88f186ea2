package qqmusic

import (
	"strings"
	"testing"
)

func TestSessionToken(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want uint32
	}{
		{"empty", "", 5381},
		{"single", "a", 177670},
		{"ascii key", "Q_H_L_5abc123", 1358092856},
		{"cjk", "音乐", 7163624},
		{"surrogate pair", "😀", 7743522},
		{"long", strings.Repeat("x", 100), 624772197},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SessionToken(tt.key)
			if got != tt.want {
				t.Errorf("SessionToken(%q) = %d, want %d", tt.key, got, tt.want)
			}
			if got > 0x7fffffff {
				t.Errorf("SessionToken(%q) = %d exceeds 31 bits", tt.key, got)
			}
			if again := SessionToken(tt.key); again != got {
				t.Errorf("SessionToken not deterministic: %d != %d", again, got)
			}
		})
	}
}

func TestSignGolden(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"comm":{"cv":1},"req_0":{"module":"m","method":"f","param":{}}}`, "zzcc8c31626aasupl8shao9n4ngxscfneas4810f72421"},
		{`{"comm":{"cv":2},"req_0":{"module":"m","method":"f","param":{}}}`, "zzce7f6eb2jdbcbshm8ybvtnw15zhnp0yxelgeccc28f1"},
		{"", "zzcf0e03e5gx4qeiq5cfgdyqwu7sdqfsb5fro3aa45053"},
	}
	for _, tt := range tests {
		if got := Sign([]byte(tt.body)); got != tt.want {
			t.Errorf("Sign(%s) = %s, want %s", tt.body, got, tt.want)
		}
	}
}

func TestSignShape(t *testing.T) {
	bodies := []string{
		`{}`,
		`{"comm":{"cv":4747474,"ct":11},"req_0":{"module":"music.vkey.GetVkey","method":"UrlGetVkey","param":{"songmid":["001yS0N93pXBYp"]}}}`,
		`{"query":"周杰伦"}`,
	}
	for _, body := range bodies {
		sig := Sign([]byte(body))
		if sig != strings.ToLower(sig) {
			t.Errorf("signature %q is not lowercase", sig)
		}
		if strings.ContainsAny(sig, "/+=") {
			t.Errorf("signature %q contains stripped characters", sig)
		}
		if !strings.HasPrefix(sig, "zzc") {
			t.Errorf("signature %q missing prefix", sig)
		}
		if n := len(sig); n < 3+7+8 || n > 3+7+27+8 {
			t.Errorf("signature %q has length %d", sig, n)
		}
		if Sign([]byte(body)) != sig {
			t.Errorf("Sign not deterministic for %s", body)
		}
	}
}

func TestSignSensitiveToEveryByte(t *testing.T) {
	body := []byte(`{"comm":{"cv":1},"req_0":{"module":"m","method":"f","param":{}}}`)
	base := Sign(body)
	for i := range body {
		mutated := append([]byte(nil), body...)
		mutated[i] ^= 0x01
		if Sign(mutated) == base {
			t.Errorf("flipping byte %d did not change the signature", i)
		}
	}
}
