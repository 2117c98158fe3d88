package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v82"
)

const testWebhookSecret = "whsec_test_secret"

// signHeader builds a Stripe-Signature header the way Stripe does: an HMAC
// SHA-256 of "{timestamp}.{payload}" under the signing secret.
func signHeader(secret string, payload []byte, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", at.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func eventPayload(t *testing.T, eventType, intentID, orderID string) []byte {
	t.Helper()
	payload := map[string]any{
		"id":          "evt_test_1",
		"object":      "event",
		"api_version": stripe.APIVersion,
		"type":        eventType,
		"data": map[string]any{
			"object": map[string]any{
				"id":     intentID,
				"object": "payment_intent",
				"metadata": map[string]string{
					MetadataOrderID:       orderID,
					MetadataCustomerEmail: "buyer@example.com",
				},
			},
		},
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return raw
}

func TestVerifyWebhookValidSignature(t *testing.T) {
	provider := NewStripeProvider("sk_test_key", testWebhookSecret)
	payload := eventPayload(t, "payment_intent.succeeded", "pi_123", "3f1c9855-7a29-4c13-b6ac-6ad522788e42")
	header := signHeader(testWebhookSecret, payload, time.Now())

	event, err := provider.VerifyWebhook(payload, header)
	require.NoError(t, err)

	assert.Equal(t, EventPaymentSucceeded, event.Type)
	assert.Equal(t, "pi_123", event.IntentID)
	assert.Equal(t, "3f1c9855-7a29-4c13-b6ac-6ad522788e42", event.OrderID)
}

func TestVerifyWebhookMapsFailureEvents(t *testing.T) {
	provider := NewStripeProvider("sk_test_key", testWebhookSecret)
	payload := eventPayload(t, "payment_intent.payment_failed", "pi_456", "11111111-2222-3333-4444-555555555555")
	header := signHeader(testWebhookSecret, payload, time.Now())

	event, err := provider.VerifyWebhook(payload, header)
	require.NoError(t, err)

	assert.Equal(t, EventPaymentFailed, event.Type)
	assert.Equal(t, "pi_456", event.IntentID)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", event.OrderID)
}

func TestVerifyWebhookWrongSecret(t *testing.T) {
	provider := NewStripeProvider("sk_test_key", testWebhookSecret)
	payload := eventPayload(t, "payment_intent.succeeded", "pi_123", "order")
	header := signHeader("whsec_other_secret", payload, time.Now())

	_, err := provider.VerifyWebhook(payload, header)
	assert.Error(t, err)
}

func TestVerifyWebhookTamperedPayload(t *testing.T) {
	provider := NewStripeProvider("sk_test_key", testWebhookSecret)
	payload := eventPayload(t, "payment_intent.succeeded", "pi_123", "order")
	header := signHeader(testWebhookSecret, payload, time.Now())

	tampered := append([]byte{}, payload...)
	tampered[len(tampered)-2] = 'X'

	_, err := provider.VerifyWebhook(tampered, header)
	assert.Error(t, err)
}

func TestVerifyWebhookStaleTimestamp(t *testing.T) {
	provider := NewStripeProvider("sk_test_key", testWebhookSecret)
	payload := eventPayload(t, "payment_intent.succeeded", "pi_123", "order")
	header := signHeader(testWebhookSecret, payload, time.Now().Add(-time.Hour))

	_, err := provider.VerifyWebhook(payload, header)
	assert.Error(t, err)
}

func TestVerifyWebhookPassesThroughOtherEventTypes(t *testing.T) {
	provider := NewStripeProvider("sk_test_key", testWebhookSecret)
	payload := eventPayload(t, "charge.refunded", "ch_123", "ignored")
	header := signHeader(testWebhookSecret, payload, time.Now())

	event, err := provider.VerifyWebhook(payload, header)
	require.NoError(t, err)

	assert.Equal(t, EventType("charge.refunded"), event.Type)
	assert.Empty(t, event.IntentID)
	assert.Empty(t, event.OrderID)
}
