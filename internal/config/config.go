package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all service settings, constructed once at start-up and passed
// into the pipeline rather than read ambiently.
type Config struct {
	// Observation source.
	FTPServer    string // host:port of the BOM FTP server
	ArchivePath  string // path of the observation tgz on that server
	FetchTimeout time.Duration

	// Station selection. StationFiles is the ordered list of archive members
	// to report on; CallsignMap overrides the outbound callsign per file.
	StationFiles    []string
	CallsignMap     map[string]string
	DefaultCallsign string
	MaxCallLength   int

	// APRS-IS session.
	Callsign        string // login identity
	Passcode        string
	Server          string // host:port
	SoftwareName    string
	SoftwareVersion string
	DialTimeout     time.Duration
	SendSpacing     time.Duration

	// Run mode: 0 means a single run, otherwise repeat on this interval.
	RunInterval time.Duration
	HTTPAddr    string

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables (with an optional .env
// file) and the station mapping file, applying defaults where unset.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	fetchTimeout, err := envDuration("FETCH_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	dialTimeout, err := envDuration("DIAL_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	sendSpacing, err := envDuration("SEND_SPACING", "500ms")
	if err != nil {
		return nil, err
	}
	runInterval, err := envDuration("RUN_INTERVAL", "0s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		FTPServer:    envOrDefault("FTP_SERVER", "ftp.bom.gov.au:21"),
		ArchivePath:  envOrDefault("ARCHIVE_PATH", "/anon/gen/fwo/IDS60910.tgz"),
		FetchTimeout: fetchTimeout,

		Callsign:        os.Getenv("APRS_CALL"),
		Passcode:        envOrDefault("APRS_PASSCODE", "00000"),
		Server:          envOrDefault("APRS_SERVER", "cwop.aprs.net:14580"),
		SoftwareName:    envOrDefault("SOFTWARE_NAME", "BOMWX"),
		SoftwareVersion: envOrDefault("SOFTWARE_VERSION", "1.0"),
		DialTimeout:     dialTimeout,
		SendSpacing:     sendSpacing,

		RunInterval: runInterval,
		HTTPAddr:    envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		LogFormat:   envOrDefault("LOG_FORMAT", "json"),
	}

	if cfg.Callsign == "" {
		return nil, errors.New("APRS_CALL is required")
	}

	if err := loadStations(cfg); err != nil {
		return nil, err
	}
	if len(cfg.StationFiles) == 0 {
		return nil, errors.New("no station files configured")
	}
	if cfg.DefaultCallsign == "" {
		cfg.DefaultCallsign = cfg.Callsign
	}
	if cfg.MaxCallLength == 0 {
		cfg.MaxCallLength = envInt("MAX_CALL_LENGTH", 0)
	}

	return cfg, nil
}

// loadStations fills the station list and callsign mapping, either from the
// STATION_FILES list or from the YAML mapping file.
func loadStations(cfg *Config) error {
	if list := os.Getenv("STATION_FILES"); list != "" {
		for _, f := range strings.Split(list, ",") {
			if f = strings.TrimSpace(f); f != "" {
				cfg.StationFiles = append(cfg.StationFiles, f)
			}
		}
		return nil
	}

	path := envOrDefault("STATIONS_FILE", "stations.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read stations file: %w", err)
	}

	var file stationsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse stations file %s: %w", path, err)
	}

	cfg.StationFiles = file.Stations.files
	cfg.CallsignMap = file.Stations.mapping
	cfg.DefaultCallsign = file.DefaultCallsign
	cfg.MaxCallLength = file.MaxCallLength
	return nil
}

// stationsFile is the YAML mapping file:
//
//	default_callsign: N0CALL-13
//	stations:
//	  IDS60910.94682.json: VK5ABC-13
//	  IDS60910.95687.json: ""
//
// The stations section also accepts a bare list of file names, in which case
// every station resolves through name derivation or the default callsign.
type stationsFile struct {
	DefaultCallsign string     `yaml:"default_callsign"`
	MaxCallLength   int        `yaml:"max_call_length"`
	Stations        stationSet `yaml:"stations"`
}

type stationSet struct {
	files   []string
	mapping map[string]string
}

func (s *stationSet) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		s.mapping = make(map[string]string)
		for i := 0; i+1 < len(node.Content); i += 2 {
			name := strings.TrimSpace(node.Content[i].Value)
			if name == "" {
				continue
			}
			s.files = append(s.files, name)
			s.mapping[name] = strings.TrimSpace(node.Content[i+1].Value)
		}
		return nil
	case yaml.SequenceNode:
		var files []string
		if err := node.Decode(&files); err != nil {
			return err
		}
		for _, f := range files {
			if f = strings.TrimSpace(f); f != "" {
				s.files = append(s.files, f)
			}
		}
		return nil
	default:
		return errors.New("stations must be a mapping or a list")
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key, def string) (time.Duration, error) {
	raw := envOrDefault(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
