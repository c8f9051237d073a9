package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const minimalConfig = `
environment: test
provider:
  base_url: https://quotes.example.com
watchlist:
  symbols: [NVDA, AMD]
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "America/Chicago", cfg.Schedule.Timezone)
	assert.Len(t, cfg.Schedule.Triggers, 4)
	assert.Equal(t, "output", cfg.Export.OutputDir)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
	assert.Equal(t, "swingpull.snapshots", cfg.Events.Topic)
	assert.Equal(t, float64(5), cfg.Provider.RatePerSec)
}

func TestLoadRejectsMissingRequired(t *testing.T) {
	_, err := Load(writeConfig(t, "environment: test\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, `
environment: test
provider:
  base_url: https://quotes.example.com
watchlist:
  symbols: []
`))
	assert.Error(t, err)
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
schedule:
  timezone: Mars/Olympus
`))
	assert.Error(t, err)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("QUOTE_API_KEY", "sekret")
	t.Setenv("SYMBOLS", "TSLA,PLTR,MU")
	t.Setenv("PORT", "8081")
	t.Setenv("EMAIL_TO", "desk@example.com")

	cfg, err := LoadWithEnv(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "sekret", cfg.Provider.APIKey)
	assert.Equal(t, []string{"TSLA", "PLTR", "MU"}, cfg.Watchlist.Symbols)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "desk@example.com", cfg.Email.To)
}

func TestEmailEnabledRequiresHostAndRecipient(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
email:
  enabled: true
`))
	assert.Error(t, err)
}

func TestLocation(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)
	assert.Equal(t, "America/Chicago", cfg.Location().String())
}
