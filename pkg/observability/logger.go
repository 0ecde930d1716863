package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level.
type LogHooks struct {
	Logger *log.Logger
}

var (
	_ PipelineHooks = LogHooks{}
	_ CacheHooks    = LogHooks{}
	_ HTTPHooks     = LogHooks{}
)

// UseLogger registers LogHooks backed by l for pipeline, cache and HTTP
// events.
func UseLogger(l *log.Logger) {
	h := LogHooks{Logger: l}
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h LogHooks) OnLoadStart(_ context.Context, source string) {
	h.Logger.Debug("load start", "source", source)
}

func (h LogHooks) OnLoadComplete(_ context.Context, source string, stations, links int, d time.Duration, err error) {
	h.done("load", d, err, "source", source, "stations", stations, "links", links)
}

func (h LogHooks) OnFrameStart(_ context.Context, generation uint64, segments int) {
	h.Logger.Debug("frame start", "generation", generation, "segments", segments)
}

func (h LogHooks) OnFrameComplete(_ context.Context, generation uint64, d time.Duration, err error) {
	h.done("frame", d, err, "generation", generation)
}

func (h LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render start", "formats", formats)
}

func (h LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("render", d, err, "formats", formats)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "kind", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "kind", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "kind", keyType, "bytes", size)
}

func (h LogHooks) OnRequest(_ context.Context, method, route string) {
	h.Logger.Debug("request", "method", method, "route", route)
}

func (h LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "route", route, "status", status, "duration", d)
}

func (h LogHooks) done(step string, d time.Duration, err error, keyvals ...any) {
	keyvals = append(keyvals, "duration", d)
	if err != nil {
		h.Logger.Debug(step+" failed", append(keyvals, "err", err)...)
		return
	}
	h.Logger.Debug(step+" done", keyvals...)
}
