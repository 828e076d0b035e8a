//go:build integration

package smtp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pure-golang/mailto/logger/noop"
	"github.com/pure-golang/mailto/mail"
)

func startMailHog(t *testing.T) (smtpPort int, apiURL string) {
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mailhog/mailhog:v1.0.1",
			ExposedPorts: []string{"1025/tcp", "8025/tcp"},
			WaitingFor:   wait.ForListeningPort("1025/tcp").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	smtpMapped, err := container.MappedPort(ctx, "1025/tcp")
	require.NoError(t, err)
	apiMapped, err := container.MappedPort(ctx, "8025/tcp")
	require.NoError(t, err)

	return smtpMapped.Int(), fmt.Sprintf("http://%s:%s", host, apiMapped.Port())
}

func TestIntegration_SendThroughMailHog(t *testing.T) {
	port, apiURL := startMailHog(t)

	sender, err := NewSender(Config{Host: "localhost", Port: strconv.Itoa(port)}, &SenderOptions{Logger: noop.NewNoop()})
	require.NoError(t, err)
	defer sender.Close()

	err = sender.Send(context.Background(), mail.Email{
		From:    mail.Address{Address: "mailto@example.com"},
		To:      []mail.Address{{Address: "a@example.com"}},
		Subject: "MailTo HTML Email",
		HTML:    "<p>X</p>",
	})
	require.NoError(t, err)

	resp, err := http.Get(apiURL + "/api/v2/messages")
	require.NoError(t, err)
	defer resp.Body.Close()

	var page struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Equal(t, 1, page.Total)
}
