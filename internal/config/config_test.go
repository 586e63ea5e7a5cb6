package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Load consults so tests control them fully.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"FTP_SERVER", "ARCHIVE_PATH", "FETCH_TIMEOUT",
		"STATION_FILES", "STATIONS_FILE", "MAX_CALL_LENGTH",
		"APRS_CALL", "APRS_PASSCODE", "APRS_SERVER",
		"SOFTWARE_NAME", "SOFTWARE_VERSION",
		"DIAL_TIMEOUT", "SEND_SPACING", "RUN_INTERVAL",
		"HTTP_ADDR", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeStations(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stations.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("APRS_CALL", "N0CALL-13")
	t.Setenv("STATION_FILES", "IDS60910.94682.json")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "ftp.bom.gov.au:21", cfg.FTPServer)
	assert.Equal(t, "/anon/gen/fwo/IDS60910.tgz", cfg.ArchivePath)
	assert.Equal(t, "cwop.aprs.net:14580", cfg.Server)
	assert.Equal(t, "00000", cfg.Passcode)
	assert.Equal(t, "BOMWX", cfg.SoftwareName)
	assert.Equal(t, []string{"IDS60910.94682.json"}, cfg.StationFiles)
	assert.Equal(t, "N0CALL-13", cfg.DefaultCallsign)
	assert.Equal(t, "10s", cfg.DialTimeout.String())
	assert.Equal(t, "500ms", cfg.SendSpacing.String())
	assert.Zero(t, cfg.RunInterval)
}

func TestLoadStationsYAMLMapping(t *testing.T) {
	clearEnv(t)
	t.Setenv("APRS_CALL", "N0CALL-13")
	t.Setenv("STATIONS_FILE", writeStations(t, `
default_callsign: VK5DEF-13
max_call_length: 6
stations:
  IDS60910.94682.json: VK5ABC-13
  IDS60910.95687.json: ""
`))

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"IDS60910.94682.json", "IDS60910.95687.json"}, cfg.StationFiles)
	assert.Equal(t, "VK5ABC-13", cfg.CallsignMap["IDS60910.94682.json"])
	assert.Equal(t, "", cfg.CallsignMap["IDS60910.95687.json"])
	assert.Equal(t, "VK5DEF-13", cfg.DefaultCallsign)
	assert.Equal(t, 6, cfg.MaxCallLength)
}

func TestLoadStationsYAMLList(t *testing.T) {
	clearEnv(t)
	t.Setenv("APRS_CALL", "N0CALL-13")
	t.Setenv("STATIONS_FILE", writeStations(t, `
stations:
  - IDS60910.94682.json
  - IDS60910.95687.json
`))

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"IDS60910.94682.json", "IDS60910.95687.json"}, cfg.StationFiles)
	assert.Empty(t, cfg.CallsignMap)
	assert.Equal(t, "N0CALL-13", cfg.DefaultCallsign)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing callsign", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("STATION_FILES", "IDS60910.94682.json")

		_, err := Load()
		assert.ErrorContains(t, err, "APRS_CALL")
	})

	t.Run("no stations", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APRS_CALL", "N0CALL-13")
		t.Setenv("STATIONS_FILE", writeStations(t, `stations: []`))

		_, err := Load()
		assert.ErrorContains(t, err, "no station files configured")
	})

	t.Run("missing stations file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APRS_CALL", "N0CALL-13")
		t.Setenv("STATIONS_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

		_, err := Load()
		assert.ErrorContains(t, err, "read stations file")
	})

	t.Run("malformed stations section", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APRS_CALL", "N0CALL-13")
		t.Setenv("STATIONS_FILE", writeStations(t, `stations: 42`))

		_, err := Load()
		assert.ErrorContains(t, err, "stations must be a mapping or a list")
	})

	t.Run("bad duration", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APRS_CALL", "N0CALL-13")
		t.Setenv("STATION_FILES", "IDS60910.94682.json")
		t.Setenv("SEND_SPACING", "half a second")

		_, err := Load()
		assert.ErrorContains(t, err, "SEND_SPACING")
	})
}
