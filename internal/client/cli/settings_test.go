package cli

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/studycompanion/internal/client/client"
	"github.com/dmitrijs2005/studycompanion/internal/client/endpoint"
	"github.com/dmitrijs2005/studycompanion/internal/client/repositories/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpoint_UpdateAndReset(t *testing.T) {
	ctx := context.Background()
	ta := newTestApp(t, &fakeAPI{}, lines("192.168.1.20", "5000"))
	def := ta.endpoint.BaseURL()

	require.NoError(t, ta.Endpoint(ctx))
	assert.Equal(t, "http://192.168.1.20:5000", ta.endpoint.BaseURL())
	assert.Equal(t, ModeOnline, ta.Mode())

	raw, err := ta.repo.Get(ctx, metadata.KeyUseCustomIP)
	require.NoError(t, err)
	assert.Equal(t, "true", string(raw))

	require.NoError(t, ta.ResetEndpoint(ctx))
	assert.Equal(t, def, ta.endpoint.BaseURL())

	snap := ta.endpoint.Snapshot()
	assert.False(t, snap.UseCustomEndpoint)
	assert.Equal(t, "192.168.1.20", snap.CustomHost)
	assert.Equal(t, 5000, snap.CustomPort)
}

func TestEndpoint_BlankKeepsPrevious(t *testing.T) {
	ctx := context.Background()
	ta := newTestApp(t, &fakeAPI{}, lines("10.0.0.5", "8080", "", ""))

	require.NoError(t, ta.Endpoint(ctx))
	require.NoError(t, ta.Endpoint(ctx))
	assert.Equal(t, "http://10.0.0.5:8080", ta.endpoint.BaseURL())
}

func TestEndpoint_InvalidPortLeavesConfig(t *testing.T) {
	ctx := context.Background()
	ta := newTestApp(t, &fakeAPI{}, lines("10.0.0.5", "99999"))
	before := ta.endpoint.Snapshot()

	err := ta.Endpoint(ctx)
	require.ErrorIs(t, err, endpoint.ErrValidation)
	assert.Contains(t, ta.out.String(), "Invalid endpoint")
	assert.Equal(t, before.BaseURL, ta.endpoint.BaseURL())

	raw, err := ta.repo.Get(ctx, metadata.KeyServerPort)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{status: &client.ServerStatus{
		Status:      "online",
		Version:     "2.1",
		AIPowered:   true,
		Hostname:    "study-box",
		IPAddresses: []string{"10.0.0.2", "172.20.10.7"},
	}}
	ta := newTestApp(t, api, "")

	require.NoError(t, ta.Status(ctx))
	out := ta.out.String()
	assert.Contains(t, out, "Version: 2.1")
	assert.Contains(t, out, "Hostname: study-box")
	assert.Contains(t, out, "10.0.0.2, 172.20.10.7")
	assert.Equal(t, ModeOnline, ta.Mode())

	ta.out.Reset()
	require.NoError(t, ta.Settings(ctx))
	assert.Contains(t, ta.out.String(), "AI features: enabled")
	assert.Contains(t, ta.out.String(), "Custom endpoint: off")
	assert.Contains(t, ta.out.String(), "host study-box")
}

func TestStatus_Unreachable(t *testing.T) {
	ta := newTestApp(t, &fakeAPI{statusErr: client.ErrUnavailable}, "")

	err := ta.Status(context.Background())
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.Contains(t, ta.out.String(), "Backend unreachable")
	assert.Equal(t, ModeOffline, ta.Mode())
}

func TestWithDefault(t *testing.T) {
	assert.Equal(t, "Port", withDefault("Port", ""))
	assert.Equal(t, "Port [8000]", withDefault("Port", "8000"))
	assert.Equal(t, "", portString(0))
	assert.Equal(t, "80", portString(80))
}
