package labels

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/BerylCAtieno/label-ocr-api/internal/utils"
)

// PageSize is a physical page in CSS pixels (96 per inch).
type PageSize struct {
	WidthPx  float64
	HeightPx float64
}

// LabelPage is the 4x6 inch thermal label size.
var LabelPage = PageSize{WidthPx: 384, HeightPx: 576}

func (p PageSize) inches() (w, h float64) {
	return p.WidthPx / 96, p.HeightPx / 96
}

// Engine prints HTML markup to PDF.
type Engine interface {
	PrintPDF(ctx context.Context, html string, size PageSize) ([]byte, error)
}

type EngineConfig struct {
	// RemoteURL is the DevTools WebSocket URL of a running Chrome. Empty
	// launches a local headless Chrome per call.
	RemoteURL string

	// Bin overrides the Chrome binary used by the launcher.
	Bin string

	// PhaseTimeout bounds launch, content loading and printing separately.
	PhaseTimeout time.Duration

	Logger *utils.Logger
}

func (c *EngineConfig) defaults() {
	if c.PhaseTimeout <= 0 {
		c.PhaseTimeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = utils.NewDiscardLogger()
	}
}

// RodEngine renders through headless Chrome driven by go-rod. Every call
// owns its browser (or incognito context) and releases it before returning.
type RodEngine struct {
	cfg EngineConfig
}

func NewRodEngine(cfg EngineConfig) *RodEngine {
	cfg.defaults()
	return &RodEngine{cfg: cfg}
}

func (e *RodEngine) PrintPDF(ctx context.Context, html string, size PageSize) ([]byte, error) {
	log := e.cfg.Logger
	start := time.Now()

	browser, release, err := e.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("browser: create page: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			log.Debug("browser: close page failed", "error", err)
		}
	}()

	loading := page.Context(ctx).Timeout(e.cfg.PhaseTimeout)
	if err := loading.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("browser: set content: %w", err)
	}
	if err := loading.WaitLoad(); err != nil {
		return nil, fmt.Errorf("browser: wait load: %w", err)
	}
	if err := loading.WaitIdle(e.cfg.PhaseTimeout); err != nil {
		return nil, fmt.Errorf("browser: wait idle: %w", err)
	}

	w, h := size.inches()
	printing := page.Context(ctx).Timeout(e.cfg.PhaseTimeout)
	stream, err := printing.PDF(&proto.PagePrintToPDF{
		PrintBackground: true,
		PaperWidth:      gson.Num(w),
		PaperHeight:     gson.Num(h),
		MarginTop:       gson.Num(0),
		MarginBottom:    gson.Num(0),
		MarginLeft:      gson.Num(0),
		MarginRight:     gson.Num(0),
	})
	if err != nil {
		return nil, fmt.Errorf("browser: print pdf: %w", err)
	}

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("browser: read pdf stream: %w", err)
	}

	log.Info("browser: pdf printed", "bytes", len(data), "elapsed_ms", time.Since(start).Milliseconds())
	return data, nil
}

// acquire returns a browser handle exclusive to the caller and the func that
// releases it. Launching or connecting is bounded by PhaseTimeout; a browser
// that comes up after the deadline is released in the background.
func (e *RodEngine) acquire(ctx context.Context) (*rod.Browser, func(), error) {
	type result struct {
		browser *rod.Browser
		release func()
		err     error
	}

	ch := make(chan result, 1)
	go func() {
		b, release, err := e.open(ctx)
		ch <- result{b, release, err}
	}()

	abandon := func() {
		go func() {
			if res := <-ch; res.err == nil {
				res.release()
			}
		}()
	}

	timer := time.NewTimer(e.cfg.PhaseTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res.browser, res.release, res.err
	case <-timer.C:
		abandon()
		return nil, nil, fmt.Errorf("browser: launch timed out after %s", e.cfg.PhaseTimeout)
	case <-ctx.Done():
		abandon()
		return nil, nil, fmt.Errorf("browser: launch: %w", ctx.Err())
	}
}

func (e *RodEngine) open(ctx context.Context) (*rod.Browser, func(), error) {
	log := e.cfg.Logger

	if e.cfg.RemoteURL != "" {
		// The connection lives as long as connCtx; cancelling it drops the
		// websocket without closing the remote browser.
		connCtx, disconnect := context.WithCancel(ctx)
		shared := rod.New().ControlURL(e.cfg.RemoteURL).Context(connCtx)
		if err := shared.Connect(); err != nil {
			disconnect()
			return nil, nil, fmt.Errorf("browser: connect %s: %w", e.cfg.RemoteURL, err)
		}
		b, err := shared.Incognito()
		if err != nil {
			disconnect()
			return nil, nil, fmt.Errorf("browser: incognito context: %w", err)
		}
		return b, func() {
			if err := b.Close(); err != nil {
				log.Warn("browser: dispose context failed", "error", err)
			}
			disconnect()
		}, nil
	}

	l := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true).
		Set("disable-web-security").
		Set("disable-features", "VizDisplayCompositor")
	if e.cfg.Bin != "" {
		l = l.Bin(e.cfg.Bin)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("browser: launch: %w", err)
	}

	b := rod.New().ControlURL(u).Context(ctx)
	if err := b.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, nil, fmt.Errorf("browser: connect: %w", err)
	}
	log.Debug("browser: launched local chrome", "url", u)

	return b, func() {
		if err := b.Close(); err != nil {
			log.Warn("browser: close failed", "error", err)
		}
		l.Kill()
		l.Cleanup()
	}, nil
}
