package resend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pure-golang/mailto/logger/noop"
	"github.com/pure-golang/mailto/mail"
)

func newTestServer(t *testing.T, status int, body string, captured *map[string]any) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		if captured != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewSender_MissingAPIKey(t *testing.T) {
	sender, err := NewSender(Config{}, nil)

	assert.Nil(t, sender)
	assert.True(t, errors.Is(err, mail.ErrNotConfigured))
}

func TestNewSender_InvalidBaseURL(t *testing.T) {
	_, err := NewSender(Config{APIKey: "re_test", BaseURL: "://bad"}, nil)

	assert.Error(t, err)
}

func TestSender_Send(t *testing.T) {
	var captured map[string]any
	srv := newTestServer(t, http.StatusOK, `{"id":"49a3999c-0ce1-4ea6-ab68-afcd6dc2e794"}`, &captured)

	sender, err := NewSender(Config{APIKey: "re_test", BaseURL: srv.URL + "/"}, &SenderOptions{Logger: noop.NewNoop()})
	require.NoError(t, err)

	err = sender.Send(context.Background(), mail.Email{
		From:    mail.Address{Name: "MailTo", Address: "from@example.com"},
		To:      []mail.Address{{Address: "a@example.com"}},
		Subject: "MailTo HTML Email",
		HTML:    "<p>X</p>",
		Body:    "X",
	})
	require.NoError(t, err)

	assert.Equal(t, "MailTo <from@example.com>", captured["from"])
	assert.Equal(t, []any{"a@example.com"}, captured["to"])
	assert.Equal(t, "<p>X</p>", captured["html"])
	assert.Equal(t, "X", captured["text"])
}

func TestSender_Send_APIError(t *testing.T) {
	srv := newTestServer(t, http.StatusUnprocessableEntity,
		`{"statusCode":422,"name":"validation_error","message":"Invalid to field."}`, nil)

	sender, err := NewSender(Config{APIKey: "re_test", BaseURL: srv.URL + "/"}, &SenderOptions{Logger: noop.NewNoop()})
	require.NoError(t, err)

	err = sender.Send(context.Background(), mail.Email{
		From: mail.Address{Address: "from@example.com"},
		To:   []mail.Address{{Address: "bad"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resend: failed to send email")
}

func TestSender_Close(t *testing.T) {
	sender, err := NewSender(Config{APIKey: "re_test"}, nil)
	require.NoError(t, err)

	require.NoError(t, sender.Close())
	assert.EqualError(t, sender.Send(context.Background(), mail.Email{}), "sender is closed")
}
