package events

import "github.com/atomicstack/custom-menu/internal/logging"

type MenuTracer struct{}

var Menu = MenuTracer{}

func (MenuTracer) Focus(title string, from, to int) {
	logging.Trace("menu.focus", map[string]interface{}{"title": title, "from": from, "to": to})
}

func (MenuTracer) Select(title string, index int, text string) {
	logging.Trace("menu.select", map[string]interface{}{"title": title, "index": index, "text": text})
}

func (MenuTracer) Scroll(title string, page int, offset float32) {
	logging.Trace("menu.scroll", map[string]interface{}{"title": title, "page": page, "offset": offset})
}
