// Package bom retrieves Bureau of Meteorology observation archives over FTP
// and hands the matched station products to the pipeline as raw bytes.
package bom

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/sony/gobreaker"

	"github.com/auswx/bomwx/internal/config"
	"github.com/auswx/bomwx/internal/domain"
)

// Fetcher downloads the configured observation archive and extracts the
// wanted station files. The FTP leg runs behind a circuit breaker so that
// interval mode stops hammering the upstream while it is down; a run that
// hits an open breaker fails fast with the breaker's error.
type Fetcher struct {
	server      string
	archivePath string
	wanted      []string
	timeout     time.Duration
	logger      *slog.Logger
	breaker     *gobreaker.CircuitBreaker
}

// NewFetcher builds a Fetcher for the configured archive and station list.
func NewFetcher(cfg *config.Config, logger *slog.Logger) *Fetcher {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "bom-ftp",
		Interval: 10 * time.Minute,
		Timeout:  15 * time.Minute,
	})

	return &Fetcher{
		server:      cfg.FTPServer,
		archivePath: cfg.ArchivePath,
		wanted:      cfg.StationFiles,
		timeout:     cfg.FetchTimeout,
		logger:      logger,
		breaker:     breaker,
	}
}

// Fetch retrieves the archive and returns the wanted station files in
// configured order. Any failure here is fatal to the run.
func (f *Fetcher) Fetch(ctx context.Context) ([]domain.SourceFile, error) {
	result, err := f.breaker.Execute(func() (interface{}, error) {
		return f.download(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve %s from %s: %w", f.archivePath, f.server, err)
	}

	return extractMatching(result.([]byte), f.wanted, f.logger)
}

// download pulls the whole archive into memory. BOM state archives run to a
// few megabytes; streaming extraction is not worth the bookkeeping.
func (f *Fetcher) download(ctx context.Context) ([]byte, error) {
	conn, err := ftp.Dial(f.server, ftp.DialWithContext(ctx), ftp.DialWithTimeout(f.timeout))
	if err != nil {
		return nil, fmt.Errorf("ftp dial: %w", err)
	}
	defer conn.Quit()

	if err := conn.Login("anonymous", "anonymous"); err != nil {
		return nil, fmt.Errorf("ftp login: %w", err)
	}

	resp, err := conn.Retr(f.archivePath)
	if err != nil {
		return nil, fmt.Errorf("ftp retr %s: %w", f.archivePath, err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("ftp read: %w", err)
	}

	f.logger.Debug("archive downloaded", "path", f.archivePath, "bytes", len(data))
	return data, nil
}
