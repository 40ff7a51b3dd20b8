package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/indcric-api/internal/config"
	"github.com/yourusername/indcric-api/internal/pubsub"
	"github.com/yourusername/indcric-api/pkg/auth"
)

func staticConfig(cfg *config.Config) configLoader {
	return func() (*config.Config, error) { return cfg, nil }
}

func TestTokenCmd(t *testing.T) {
	cfg := &config.Config{Auth: config.AuthConfig{TokenSecret: "0123456789abcdef0123456789abcdef", Issuer: "indcric", TokenTTL: time.Hour}}
	cmd := newTokenCmd(staticConfig(cfg))
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"--uid", "u-1", "--email", "a@b.io", "--role", "admin"})
	require.NoError(t, cmd.Execute())

	jwtService, err := auth.NewJWTService(cfg.Auth.TokenSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	require.NoError(t, err)
	claims, err := jwtService.ParseToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
}

func TestTokenCmd_RequiresUID(t *testing.T) {
	cmd := newTokenCmd(func() (*config.Config, error) {
		t.Fatal("конфигурация не должна загружаться")
		return nil, nil
	})
	cmd.SetArgs(nil)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.ErrorContains(t, cmd.Execute(), "--uid")
}

func TestExportPaymentsCmd_RejectsUnknownStatus(t *testing.T) {
	cmd := newExportPaymentsCmd(func() (*config.Config, error) {
		t.Fatal("конфигурация не должна загружаться")
		return nil, nil
	})
	cmd.SetArgs([]string{"--status", "lost"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.ErrorContains(t, cmd.Execute(), "unknown payment status")
}

func TestPublishFlush(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	ps, err := pubsub.NewRedisPubSub(client)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ps.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := ps.Subscribe(ctx, pubsub.ChannelAdsChanged)
	require.NoError(t, err)

	cmd := &cobra.Command{}
	cmd.SetContext(ctx)
	require.NoError(t, publishFlush(cmd, ps))

	select {
	case msg := <-ch:
		var change pubsub.AdChange
		require.NoError(t, json.Unmarshal(msg, &change))
		assert.Equal(t, ActionFlush, change.Action)
	case <-time.After(2 * time.Second):
		t.Fatal("сообщение не получено")
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"migrate", "export-payments", "flush-ad-cache", "token"} {
		assert.True(t, names[want], want)
	}
}
