package noop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pure-golang/mailto/logger/noop"
	"github.com/pure-golang/mailto/mail"
)

func newSender() *Sender {
	return NewSender(&SenderOptions{Logger: noop.NewNoop()})
}

func TestSender_SendRecords(t *testing.T) {
	sender := newSender()

	email := mail.Email{
		From:    mail.Address{Address: "from@example.com"},
		To:      []mail.Address{{Address: "to@example.com"}},
		Subject: "MailTo HTML Email",
		HTML:    "<p>X</p>",
	}
	require.NoError(t, sender.Send(context.Background(), email))

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, email, sent[0])
}

func TestSender_SentReturnsCopy(t *testing.T) {
	sender := newSender()
	require.NoError(t, sender.Send(context.Background(), mail.Email{Subject: "a"}))

	sent := sender.Sent()
	sent[0].Subject = "mutated"

	assert.Equal(t, "a", sender.Sent()[0].Subject)
}

func TestSender_Send_EmptyList(t *testing.T) {
	sender := newSender()

	assert.NoError(t, sender.Send(context.Background()))
	assert.Empty(t, sender.Sent())
}

func TestSender_Close(t *testing.T) {
	sender := NewSender(nil)

	assert.NoError(t, sender.Close())
	assert.NoError(t, sender.Close())
	assert.Error(t, sender.Send(context.Background(), mail.Email{}))
}
