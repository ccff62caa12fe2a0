package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_DoJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte(`{"name":"kore"}`))
		case "/bad":
			http.Error(w, "quota exceeded for key sk-secret", http.StatusTooManyRequests)
		default:
			_, _ = w.Write([]byte(`<html>`))
		}
	}))
	defer srv.Close()

	c := NewClient("test", 5*time.Second)

	t.Run("decodes", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/ok", nil)
		var out struct{ Name string }
		require.NoError(t, c.DoJSON(req, "ok", &out))
		assert.Equal(t, "kore", out.Name)
	})

	t.Run("status error", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/bad", nil)
		err := c.DoJSON(req, "bad", nil)

		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
		assert.Equal(t, KindBadGateway, Classify(err))
	})

	t.Run("malformed", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/html", nil)
		var out map[string]any
		err := c.DoJSON(req, "html", &out)
		assert.ErrorIs(t, err, ErrMalformed)
	})
}

func TestClient_DoJSON_Deadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)

	err := NewClient("test", time.Minute).DoJSON(req, "slow", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, KindTimeout, Classify(err))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindUnknown, Classify(nil))
	assert.Equal(t, KindNotConfigured, Classify(NotConfigured("BRAVE_API_KEY")))
	assert.Equal(t, KindBadGateway, Classify(ErrEmpty))
	assert.Equal(t, KindBadGateway, Classify(errors.New("connection refused")))
}
