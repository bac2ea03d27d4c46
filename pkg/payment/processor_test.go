package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/breaker"
)

const succeededIntent = `{"id":"pi_ok","object":"payment_intent","amount":1999,"currency":"usd","status":"succeeded","client_secret":"pi_ok_secret"}`

func newTestProcessor(t *testing.T, handler http.HandlerFunc) *StripeProcessor {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return newStripeProcessor("sk_test", &stripe.Backends{API: backend, Connect: backend, Uploads: backend}, zap.NewNop())
}

func writeStripeError(w http.ResponseWriter, status int, kind string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":{"type":"` + kind + `","message":"rejected"}}`))
}

func TestUnknownIntentsDoNotOpenBreaker(t *testing.T) {
	p := newTestProcessor(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/pi_ok") {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(succeededIntent))
			return
		}
		writeStripeError(w, http.StatusNotFound, "invalid_request_error")
	})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		intent, err := p.GetIntent(ctx, "pi_forged")
		require.NoError(t, err)
		assert.Nil(t, intent)
	}
	assert.Equal(t, gobreaker.StateClosed, p.cb.State())

	intent, err := p.GetIntent(ctx, "pi_ok")
	require.NoError(t, err)
	require.NotNil(t, intent)
	assert.True(t, intent.Succeeded)
	assert.Equal(t, int64(1999), intent.Amount)
}

func TestRejectedAmountsDoNotOpenBreaker(t *testing.T) {
	p := newTestProcessor(t, func(w http.ResponseWriter, r *http.Request) {
		writeStripeError(w, http.StatusBadRequest, "invalid_request_error")
	})

	for i := 0; i < 5; i++ {
		_, err := p.CreateIntent(context.Background(), 1, "usd")
		require.Error(t, err)
		assert.True(t, IsClientError(err))
		assert.False(t, breaker.IsOpen(err))
	}
	assert.Equal(t, gobreaker.StateClosed, p.cb.State())
}

func TestProcessorOutageOpensBreaker(t *testing.T) {
	p := newTestProcessor(t, func(w http.ResponseWriter, r *http.Request) {
		writeStripeError(w, http.StatusInternalServerError, "api_error")
	})

	for i := 0; i < 3; i++ {
		_, err := p.CreateIntent(context.Background(), 1999, "usd")
		require.Error(t, err)
		assert.False(t, IsClientError(err))
	}
	assert.Equal(t, gobreaker.StateOpen, p.cb.State())

	_, err := p.GetIntent(context.Background(), "pi_ok")
	assert.True(t, breaker.IsOpen(err))
}
