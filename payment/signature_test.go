package payment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	testSecret    = "testsecret"
	testOrderID   = "order_ABC"
	testPaymentID = "pay_XYZ"
	// hex(HMAC-SHA256("order_ABC|pay_XYZ", key="testsecret"))
	testSignature = "93f5a785992a41d68e10e2e08c1c7ca5692e58e24bdedbc5f0616c97fc4438aa"
)

func TestSign_KnownVector(t *testing.T) {
	assert.Equal(t, testSignature, Sign(testSecret, testOrderID, testPaymentID))
}

func TestSign_Deterministic(t *testing.T) {
	pairs := [][2]string{
		{"order_1", "pay_1"},
		{"order_IluGWxBm9U8zJ8", "pay_IluGWxBm9U8zJ9"},
		{"", ""},
	}
	for _, p := range pairs {
		assert.Equal(t, Sign(testSecret, p[0], p[1]), Sign(testSecret, p[0], p[1]))
	}
}

func TestCanonicalMessage(t *testing.T) {
	assert.Equal(t, "order_ABC|pay_XYZ", CanonicalMessage(testOrderID, testPaymentID))
}

func TestVerify(t *testing.T) {
	assert.True(t, Verify(testSecret, testOrderID, testPaymentID, testSignature))
	assert.False(t, Verify(testSecret, testOrderID, testPaymentID, ""))
	assert.False(t, Verify(testSecret, testOrderID, testPaymentID, strings.ToUpper(testSignature)))
	assert.False(t, Verify(testSecret, testOrderID, testPaymentID, testSignature[:63]))
	assert.False(t, Verify(testSecret, testOrderID, testPaymentID, testSignature+"0"))
}

// Changing any single character of the order id, payment id or secret must
// turn a valid signature into an invalid one.
func TestVerify_SingleCharacterChangesFlipVerdict(t *testing.T) {
	mutate := func(s string, i int) string {
		b := []byte(s)
		if b[i] == 'x' {
			b[i] = 'y'
		} else {
			b[i] = 'x'
		}
		return string(b)
	}

	for i := range testOrderID {
		assert.False(t, Verify(testSecret, mutate(testOrderID, i), testPaymentID, testSignature), "order id index %d", i)
	}
	for i := range testPaymentID {
		assert.False(t, Verify(testSecret, testOrderID, mutate(testPaymentID, i), testSignature), "payment id index %d", i)
	}
	for i := range testSecret {
		assert.False(t, Verify(mutate(testSecret, i), testOrderID, testPaymentID, testSignature), "secret index %d", i)
	}
	for i := range testSignature {
		assert.False(t, Verify(testSecret, testOrderID, testPaymentID, mutate(testSignature, i)), "signature index %d", i)
	}
}

// Moving the separator changes the message even though the concatenated
// ids are identical.
func TestVerify_SeparatorIsSignificant(t *testing.T) {
	assert.False(t, Verify(testSecret, "order_ABC|pay", "_XYZ", testSignature))
	assert.False(t, Verify(testSecret, "order_AB", "C|pay_XYZ", testSignature))
}
