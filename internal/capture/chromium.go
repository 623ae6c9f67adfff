// Package capture renders the /calendar page to a PNG with headless
// Chromium.
package capture

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"calendr/internal/config"
	appLog "calendr/internal/log"
)

const (
	DefaultWidth   = 1280
	DefaultHeight  = 960
	DefaultTimeout = 30 * time.Second

	// readySelector is set on the page root once the month is rendered.
	readySelector = `[data-ready="true"]`
)

// Options defines one screenshot capture.
type Options struct {
	// URL to capture, e.g. "http://127.0.0.1:8080/calendar".
	URL string
	// OutputPath is where the PNG is written. Parent directories are
	// created as needed.
	OutputPath string

	Width  int
	Height int

	// Username / Password are sent as HTTP basic auth when set.
	Username string
	Password string

	Timeout time.Duration
}

// OptionsFromConfig builds capture options for the snapshot settings. An
// empty snapshot URL points at the local /calendar page on listen.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		URL:        cfg.Snapshot.URL,
		OutputPath: cfg.Snapshot.Output,
		Width:      cfg.Snapshot.Width,
		Height:     cfg.Snapshot.Height,
	}
	if opts.URL == "" {
		opts.URL = LocalURL(cfg.Listen) + "/calendar"
	}
	if cfg.BasicAuth != nil {
		opts.Username = cfg.BasicAuth.Username
		opts.Password = cfg.BasicAuth.Password
	}
	return opts
}

// LocalURL turns a listen address into a loopback base URL.
func LocalURL(listen string) string {
	if listen == "" {
		return "http://127.0.0.1:8080"
	}
	if listen[0] == ':' {
		return "http://127.0.0.1" + listen
	}
	return "http://" + listen
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// CaptureCalendarPNG launches headless Chromium, navigates to opts.URL,
// waits for the page to mark itself ready and writes a full-page PNG.
// The file is replaced atomically so /preview.png never serves a partial
// image.
func CaptureCalendarPNG(parentCtx context.Context, opts Options) error {
	if opts.URL == "" {
		return fmt.Errorf("capture: URL is required")
	}
	if opts.OutputPath == "" {
		return fmt.Errorf("capture: OutputPath is required")
	}
	opts = opts.withDefaults()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(opts.Width, opts.Height),
	)
	if os.Geteuid() == 0 {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(parentCtx, allocOpts...)
	defer allocCancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var png []byte
	tasks := chromedp.Tasks{network.Enable()}
	if opts.Username != "" {
		token := base64.StdEncoding.EncodeToString([]byte(opts.Username + ":" + opts.Password))
		tasks = append(tasks, network.SetExtraHTTPHeaders(network.Headers{"Authorization": "Basic " + token}))
	}
	tasks = append(tasks,
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(readySelector, chromedp.ByQuery),
		// Let web fonts settle.
		chromedp.Sleep(300*time.Millisecond),
		chromedp.FullScreenshot(&png, 100),
	)

	start := time.Now()
	if err := chromedp.Run(ctx, tasks); err != nil {
		return fmt.Errorf("capture: chromedp run failed: %w", err)
	}

	if err := writeFileAtomic(opts.OutputPath, png); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}
	appLog.Info("snapshot captured", "url", opts.URL, "output", opts.OutputPath, "bytes", len(png), "took", time.Since(start).String())
	return nil
}

func writeFileAtomic(path string, b []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*.png")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
