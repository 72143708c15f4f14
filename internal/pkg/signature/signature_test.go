package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSign_KnownVector(t *testing.T) {
	// echo -n "order_1|pay_1" | openssl dgst -sha256 -hmac secret
	got := Sign("secret", "order_1", "pay_1")
	assert.Equal(t, "52115a0d3400de9e86aade1f1b6eba9e8974604f4e267a9e9a16633a4c8dd2cb", got)
}

func TestVerify(t *testing.T) {
	sig := Sign("secret", "order_1", "pay_1")

	tests := []struct {
		name      string
		secret    string
		orderID   string
		paymentID string
		sig       string
		want      bool
	}{
		{"valid", "secret", "order_1", "pay_1", sig, true},
		{"wrong secret", "other", "order_1", "pay_1", sig, false},
		{"wrong order", "secret", "order_2", "pay_1", sig, false},
		{"wrong payment", "secret", "order_1", "pay_2", sig, false},
		{"empty signature", "secret", "order_1", "pay_1", "", false},
		{"uppercase hex", "secret", "order_1", "pay_1", upper(sig), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Verify(tt.secret, tt.orderID, tt.paymentID, tt.sig))
		})
	}
}

func TestSign_SeparatorMatters(t *testing.T) {
	assert.NotEqual(t, Sign("secret", "ab", "c"), Sign("secret", "a", "bc"))
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'f' {
			b[i] = c - 32
		}
	}
	return string(b)
}
