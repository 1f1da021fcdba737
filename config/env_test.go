package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFromFilesPrecedence(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "app.json", `{"app_port": "9000", "mirror_mode": "live", "queue_workers": 6}`)
	envPath := writeFile(t, dir, ".env", "APP_PORT=9100\nSMTP_HOST=\"mail.example.com\"\n# comment\nMIRROR_TABLE=catalog\n")

	t.Setenv("MIRROR_TABLE", "from_env")

	require.NoError(t, loadFromFiles(jsonPath, envPath))

	assert.Equal(t, "9100", get("APP_PORT", ""), ".env overrides app.json")
	assert.Equal(t, "live", get("MIRROR_MODE", ""))
	assert.Equal(t, "6", get("QUEUE_WORKERS", ""), "non-string JSON values are coerced")
	assert.Equal(t, "mail.example.com", get("SMTP_HOST", ""))
	assert.Equal(t, "from_env", get("MIRROR_TABLE", ""), "process env wins")
}

func TestLoadFromFilesMissingIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, loadFromFiles(filepath.Join(dir, "nope.json"), filepath.Join(dir, ".nope")))
	assert.Equal(t, defaultAppPort, get("APP_PORT", ""))
}

func TestLoadFromFilesBadJSON(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "app.json", `{not json`)
	assert.Error(t, loadFromFiles(jsonPath, filepath.Join(dir, ".env")))
}

func TestTypedGetters(t *testing.T) {
	Set("TEST_INT", "12")
	Set("TEST_BAD_INT", "twelve")
	Set("TEST_BOOL", "true")
	Set("TEST_DURATION", "1500ms")
	Set("TEST_SECONDS", "3")

	assert.Equal(t, 12, GetInt("TEST_INT", 1))
	assert.Equal(t, 1, GetInt("TEST_BAD_INT", 1))
	assert.True(t, GetBool("TEST_BOOL", false))
	assert.True(t, GetBool("TEST_UNSET_BOOL", true))
	assert.Equal(t, 1500*time.Millisecond, GetDuration("TEST_DURATION", time.Second))
	assert.Equal(t, 3*time.Second, GetDuration("TEST_SECONDS", time.Second))
}

func TestModeNormalisation(t *testing.T) {
	Set("MIRROR_MODE", "LIVE")
	assert.Equal(t, "live", MirrorMode())

	Set("MIRROR_MODE", "sometimes")
	assert.Equal(t, "simulate", MirrorMode())

	Set("MERCHANT_MODE", "Live")
	assert.Equal(t, "live", MerchantMode())

	Set("DB_DRIVER", "oracle")
	assert.Equal(t, "sqlite", DatabaseDriver())
	assert.Equal(t, defaultSQLiteDSN, DatabaseDSN())
}

func TestSMTPFromDefaultsToUser(t *testing.T) {
	Set("SMTP_USER", "bot@sudevifoods.com")
	Set("SMTP_FROM", "")
	assert.Equal(t, "bot@sudevifoods.com", SMTPFrom())
}

func TestSiteURLTrimsSlash(t *testing.T) {
	Set("SITE_URL", "https://example.com/")
	assert.Equal(t, "https://example.com", SiteURL())
}
