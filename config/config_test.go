package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	workdir := t.TempDir()
	t.Setenv("VENDORMART_SYSTEM_WORKDIR", workdir)

	cfg := LoadConfig("")
	assert.Equal(t, "vendormart", cfg.System.Appid)
	assert.Equal(t, workdir, cfg.System.Workdir)
	assert.Equal(t, 1816, cfg.Web.Port)
	assert.Equal(t, "log", cfg.Otp.Sender)
}

func TestLoadConfigFromFile(t *testing.T) {
	workdir := t.TempDir()
	cfile := filepath.Join(t.TempDir(), "vendormart.yml")
	body := `
system:
  appid: vendormart
  workdir: ` + workdir + `
web:
  host: 127.0.0.1
  port: 9090
  jwt_secret: testsecret
database:
  type: sqlite
otp:
  sender: sms
  ttl: 120
  params:
    gateway_url: https://sms.example.com/send
    api_key: k
`
	require.NoError(t, os.WriteFile(cfile, []byte(body), 0644))

	cfg := LoadConfig(cfile)
	assert.Equal(t, "127.0.0.1", cfg.Web.Host)
	assert.Equal(t, 9090, cfg.Web.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "sms", cfg.Otp.Sender)
	assert.Equal(t, 120, cfg.Otp.TTL)
	assert.Equal(t, "https://sms.example.com/send", cfg.Otp.Params["gateway_url"])
}

func TestEnvOverridesFile(t *testing.T) {
	workdir := t.TempDir()
	cfile := filepath.Join(t.TempDir(), "vendormart.yml")
	require.NoError(t, os.WriteFile(cfile, []byte("web:\n  port: 9090\nsystem:\n  workdir: "+workdir+"\n"), 0644))

	t.Setenv("VENDORMART_WEB_PORT", "8088")
	t.Setenv("VENDORMART_OTP_SENDER", "mail")

	cfg := LoadConfig(cfile)
	assert.Equal(t, 8088, cfg.Web.Port)
	assert.Equal(t, "mail", cfg.Otp.Sender)
}

func TestLoadConfigLeavesDefaultsUntouched(t *testing.T) {
	workdir := t.TempDir()
	t.Setenv("VENDORMART_SYSTEM_WORKDIR", workdir)
	t.Setenv("VENDORMART_WEB_PORT", "8088")

	cfg := LoadConfig("")
	assert.Equal(t, 8088, cfg.Web.Port)
	assert.Equal(t, workdir, cfg.System.Workdir)

	// Overrides apply to the returned config only, never to the shared
	// defaults.
	assert.Equal(t, 1816, DefaultAppConfig.Web.Port)
	assert.Equal(t, "/var/vendormart", DefaultAppConfig.System.Workdir)
}

func TestLoadConfigCreatesWorkDirs(t *testing.T) {
	workdir := t.TempDir()
	t.Setenv("VENDORMART_SYSTEM_WORKDIR", workdir)

	cfg := LoadConfig("")
	for _, dir := range []string{cfg.GetLogDir(), cfg.GetDataDir(), cfg.GetUploadDir()} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}
