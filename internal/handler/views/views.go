// Package views renders the HTML pages of the web UI as templ components.
package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/pavelanni/studybuddy/internal/advisor"
	appI18n "github.com/pavelanni/studybuddy/internal/i18n"
	"github.com/pavelanni/studybuddy/internal/model"
)

// Tabs of the main page.
const (
	TabPredict = "predict"
	TabChat    = "chat"
)

// PageData is everything the main page can show.
type PageData struct {
	Tab        string
	BasePath   string
	CSRFToken  string
	Profile    model.StudentProfile
	DailyTask  string
	Score      *float64
	Assessment *advisor.Assessment
	Error      string
	Transcript []model.ChatTurn
}

// htmlWriter writes markup and remembers the first write error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(parts ...string) {
	for _, s := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, s)
	}
}

// text writes escaped character data or attribute values.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// href writes a sanitized, escaped URL attribute value.
func (h *htmlWriter) href(u string) {
	h.text(string(templ.URL(u)))
}

// component renders a nested component into the same writer.
func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Layout wraps body in the page chrome.
func Layout(body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.text(appI18n.T(ctx, "AppTitle"))
		h.raw(`</title><style>`, stylesheet, `</style></head><body><header><h1>`)
		h.text(appI18n.T(ctx, "AppTitle"))
		h.raw(`</h1><p>`)
		h.text(appI18n.T(ctx, "AppSubtitle"))
		h.raw(`</p></header>`)
		h.component(ctx, body)
		h.raw(`</body></html>`)
		return h.err
	})
}

const stylesheet = `body { font-family: system-ui, sans-serif; margin: 0; background: #f7f7fb; color: #222; }
header { padding: 1rem 2rem; background: #4b3fa8; color: #fff; }
header h1 { margin: 0; font-size: 1.6rem; }
header p { margin: .2rem 0 0; opacity: .85; }
.layout { display: flex; gap: 2rem; padding: 1.5rem 2rem; }
aside { width: 300px; flex-shrink: 0; }
main { flex: 1; }
label { display: block; margin-top: .6rem; font-size: .9rem; }
input, select, textarea { width: 100%; box-sizing: border-box; padding: .3rem; }
button { margin-top: .8rem; padding: .4rem .9rem; cursor: pointer; }
.tabs a { display: inline-block; padding: .4rem 1rem; margin-right: .3rem; border-radius: 4px 4px 0 0; background: #ddd; color: #222; text-decoration: none; }
.tabs a.active { background: #fff; font-weight: bold; }
.panel { background: #fff; padding: 1rem 1.5rem; border-radius: 0 4px 4px 4px; }
.score { font-size: 1.4rem; font-weight: bold; color: #2e7d32; }
.error { color: #c62828; }
.warning { color: #e65100; }
.turn { margin: .5rem 0; padding: .5rem .8rem; border-radius: 6px; white-space: pre-wrap; }
.turn.user { background: #e8eaf6; }
.turn.assistant { background: #f1f8e9; }
.muted { color: #777; font-size: .85rem; }`
