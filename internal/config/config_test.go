package config

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestDefaults(t *testing.T) {
	cfg, err := fromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, BackendPostgres, cfg.Ledger.Backend)
	assert.Equal(t, time.Hour, cfg.Reminder.Lead)
	assert.Equal(t, time.Minute, cfg.Reminder.PollInterval)
	assert.Equal(t, 70.0, cfg.Reminder.FallbackPayoutPercent)
	assert.Equal(t, "webapp", cfg.WebApp.Dir)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestInvalidReminderSettings(t *testing.T) {
	_, err := fromViper(newViper(map[string]any{"REMINDER_LEAD_MINUTES": -5}))
	assert.Error(t, err)

	_, err = fromViper(newViper(map[string]any{"REMINDER_POLL_INTERVAL": "soon"}))
	assert.Error(t, err)

	_, err = fromViper(newViper(map[string]any{"REMINDER_POLL_INTERVAL": "0s"}))
	assert.Error(t, err)
}

func TestValidateServe(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{"LEDGER_BACKEND": "memory"}))
	require.NoError(t, err)
	assert.Error(t, cfg.ValidateServe())

	cfg.TelegramToken = "token"
	assert.Error(t, cfg.ValidateServe())

	cfg.AdminID = 1001
	assert.NoError(t, cfg.ValidateServe())
}

func TestValidateLedger(t *testing.T) {
	cases := []struct {
		name    string
		values  map[string]any
		wantErr bool
	}{
		{name: "postgres without dsn", values: map[string]any{}, wantErr: true},
		{name: "postgres", values: map[string]any{"DB_DSN": "postgres://localhost/ledger"}},
		{name: "sheets without credentials", values: map[string]any{"LEDGER_BACKEND": "sheets", "SPREADSHEET_ID": "abc"}, wantErr: true},
		{name: "sheets", values: map[string]any{"LEDGER_BACKEND": "Sheets", "SPREADSHEET_ID": "abc", "GOOGLE_CREDENTIALS_JSON_BASE64": "e30="}},
		{name: "memory", values: map[string]any{"LEDGER_BACKEND": "memory"}},
		{name: "unknown", values: map[string]any{"LEDGER_BACKEND": "excel"}, wantErr: true},
		{name: "bad timezone", values: map[string]any{"LEDGER_BACKEND": "memory", "LEDGER_TIMEZONE": "Mars/Olympus"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := fromViper(newViper(tc.values))
			require.NoError(t, err)

			err = cfg.ValidateLedger()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGoogleCredentials(t *testing.T) {
	cfg := &Config{Ledger: LedgerConfig{CredentialsBase64: base64.StdEncoding.EncodeToString([]byte(`{"type":"service_account"}`))}}
	raw, err := cfg.GoogleCredentials()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"service_account"}`, string(raw))

	cfg.Ledger.CredentialsBase64 = "not base64!"
	_, err = cfg.GoogleCredentials()
	assert.Error(t, err)
}

func TestWebAppURL(t *testing.T) {
	cases := []struct {
		name string
		web  WebAppConfig
		want string
	}{
		{name: "render external url wins", web: WebAppConfig{RenderExternalURL: "https://ledger.onrender.com", BaseURL: "https://other"}, want: "https://ledger.onrender.com/"},
		{name: "base url", web: WebAppConfig{BaseURL: "https://panel.example.org/"}, want: "https://panel.example.org/"},
		{name: "service name", web: WebAppConfig{RenderServiceName: "vershina"}, want: "https://vershina.onrender.com/"},
		{name: "local", web: WebAppConfig{}, want: "http://localhost:8000/"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{Port: 8000, WebApp: tc.web}
			assert.Equal(t, tc.want, cfg.WebAppURL())
		})
	}
}
