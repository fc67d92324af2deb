package rod

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"page-pilot/internal/application/port/output"
)

type BrowserConfig struct {
	Headless   bool
	SlowMotion time.Duration
	Timeout    time.Duration
	NoSandbox  bool
	DevTools   bool
}

func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		Headless:   false,
		SlowMotion: 0,
		Timeout:    10 * time.Second,
		NoSandbox:  true,
		DevTools:   false,
	}
}

// Browser owns one Chromium instance and the page the engine drives. It hands
// out the facade and capability adapters the engine works through.
type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	monitor  *Monitor
	timeout  time.Duration
	log      output.LoggerPort
}

func Launch(cfg BrowserConfig, log output.LoggerPort) (*Browser, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain")

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(url).
		SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	monitor, err := NewMonitor(page)
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to arm page monitor: %w", err)
	}

	log.Info("browser launched", "headless", cfg.Headless)
	return &Browser{
		browser:  browser,
		launcher: l,
		page:     page,
		monitor:  monitor,
		timeout:  cfg.Timeout,
		log:      log,
	}, nil
}

func (b *Browser) Navigate(ctx context.Context, url string) error {
	page := b.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("page load failed: %w", err)
	}
	b.log.Info("navigated", "url", url)
	return nil
}

// Top returns the top browsing context of the driven page.
func (b *Browser) Top() output.Window {
	return wrapWindow(b.page)
}

func (b *Browser) Monitor() output.PageMonitor {
	return b.monitor
}

func (b *Browser) Input() output.PrivilegedInput {
	return NewInput(b.page)
}

// Screenshot captures the viewport as a JPEG, downscaled to at most 1024px
// wide to keep audit artifacts small.
func (b *Browser) Screenshot(ctx context.Context) ([]byte, error) {
	imgBytes, err := b.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}
	if img.Bounds().Dx() > 1024 {
		img = imaging.Resize(img, 1024, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}
	return buf.Bytes(), nil
}

// HTML returns the current document markup.
func (b *Browser) HTML(ctx context.Context) (string, error) {
	el, err := b.page.Context(ctx).Timeout(b.timeout).Element("html")
	if err != nil {
		return "", fmt.Errorf("document not found: %w", err)
	}
	html, err := el.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read HTML: %w", err)
	}
	return html, nil
}

func (b *Browser) CurrentURL() string {
	info, err := b.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (b *Browser) Close() {
	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}
