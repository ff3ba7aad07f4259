package data

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrNotCached is returned by Fetch when the archive is missing and downloads are disabled.
	ErrNotCached = errors.New("data: dataset not cached")
	// ErrChecksumMismatch is returned when a downloaded archive does not hash to the expected value.
	ErrChecksumMismatch = errors.New("data: checksum mismatch")
	// ErrMalformed is returned for unreadable archives and rows that cannot be parsed.
	ErrMalformed = errors.New("data: malformed dataset")
)

const (
	archiveName  = "cal_housing.tgz"
	manifestName = "cal_housing.yaml"
)

// Options controls where the dataset comes from.
type Options struct {
	Home    string // cache directory; defaults to DefaultHome()
	URL     string // archive location; defaults to ArchiveURL
	SHA256  string // expected archive checksum; empty trusts the cache manifest
	File    string // local .tgz or .data file read instead of the cache
	Offline bool   // fail with ErrNotCached instead of downloading
	Timeout time.Duration

	Client *http.Client
	Logger *slog.Logger
}

// DefaultOptions returns options for the published archive.
func DefaultOptions() Options {
	return Options{URL: ArchiveURL, SHA256: ArchiveSHA256, Timeout: 2 * time.Minute}
}

func (o Options) withDefaults() Options {
	if o.Home == "" {
		o.Home = DefaultHome()
	}
	if o.URL == "" {
		o.URL = ArchiveURL
	}
	if o.Client == nil {
		o.Client = &http.Client{Timeout: o.Timeout}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// DefaultHome is ~/housing_data, or ./housing_data when there is no home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "housing_data"
	}
	return filepath.Join(home, "housing_data")
}

// Fetch returns the path of the cached dataset archive under opts.Home,
// downloading it first when it is missing or fails verification.
func Fetch(ctx context.Context, opts Options) (string, error) {
	opts = opts.withDefaults()
	if err := os.MkdirAll(opts.Home, 0o755); err != nil {
		return "", fmt.Errorf("create data home: %w", err)
	}
	dst := filepath.Join(opts.Home, archiveName)
	manifestPath := filepath.Join(opts.Home, manifestName)

	ok, err := verifyCached(dst, manifestPath, opts)
	if err != nil {
		return "", err
	}
	if ok {
		opts.Logger.Debug("using cached dataset", "path", dst)
		return dst, nil
	}
	if opts.Offline {
		return "", fmt.Errorf("%w: %s", ErrNotCached, dst)
	}

	m, err := download(ctx, opts, dst)
	if err != nil {
		return "", err
	}
	if err := WriteManifest(manifestPath, m); err != nil {
		return "", err
	}
	return dst, nil
}

// verifyCached reports whether dst exists and matches the expected checksum,
// which is opts.SHA256 or else the one recorded in the manifest.
func verifyCached(dst, manifestPath string, opts Options) (bool, error) {
	if _, err := os.Stat(dst); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat cached dataset: %w", err)
	}
	want := opts.SHA256
	if want == "" {
		if m, err := ReadManifest(manifestPath); err == nil {
			want = m.SHA256
		}
	}
	if want == "" {
		return true, nil
	}
	sum, err := fileSHA256(dst)
	if err != nil {
		return false, err
	}
	if strings.EqualFold(sum, want) {
		return true, nil
	}
	opts.Logger.Warn("cached dataset failed verification", "path", dst, "sha256", sum, "want", want)
	return false, nil
}

func download(ctx context.Context, opts Options, dst string) (Manifest, error) {
	start := time.Now()
	opts.Logger.Info("downloading dataset", "url", opts.URL, "dest", dst)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return Manifest{}, fmt.Errorf("download %s: %w", opts.URL, err)
	}
	resp, err := opts.Client.Do(req)
	if err != nil {
		return Manifest{}, fmt.Errorf("download %s: %w", opts.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Manifest{}, fmt.Errorf("download %s: unexpected status %s", opts.URL, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), archiveName+".*.part")
	if err != nil {
		return Manifest{}, fmt.Errorf("create temp file: %w", err)
	}
	// Removing after the rename is a harmless no-op.
	defer os.Remove(tmp.Name())

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(tmp, h), resp.Body)
	if err != nil {
		tmp.Close()
		return Manifest{}, fmt.Errorf("download %s: %w", opts.URL, err)
	}
	if err := tmp.Close(); err != nil {
		return Manifest{}, fmt.Errorf("write %s: %w", tmp.Name(), err)
	}

	sum := hex.EncodeToString(h.Sum(nil))
	if opts.SHA256 != "" && !strings.EqualFold(sum, opts.SHA256) {
		return Manifest{}, fmt.Errorf("%w: %s has sha256 %s, want %s", ErrChecksumMismatch, opts.URL, sum, opts.SHA256)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return Manifest{}, fmt.Errorf("store dataset: %w", err)
	}

	opts.Logger.Info("downloaded dataset", "bytes", n, "took", time.Since(start).Round(time.Millisecond))
	return Manifest{URL: opts.URL, SHA256: sum, Size: n, FetchedAt: time.Now().UTC()}, nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
