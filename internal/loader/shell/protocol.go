package shell

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/atomicstack/custom-menu/internal/logging"
	"github.com/atomicstack/custom-menu/internal/ui/action"
	"go.uber.org/zap"
)

// Line prefixes understood in script output. Anything else is ignored.
const (
	prefixItem      = "item:"
	prefixTitle     = "title:"
	prefixText      = "text:"
	prefixPageBreak = "pagebreak:"

	maxLineBytes = 1 << 20
)

// Document is the menu described by one run of a script.
type Document struct {
	Title   string
	Actions []action.Action
}

type item struct {
	label   string
	arg     string
	checked bool
}

// Parse reads script output. Consecutive item lines form a group; when any
// label in a group is wrapped in angle brackets the group becomes a radio
// group whose bracketed member starts checked. Choosing an item calls run
// with the text after the label's colon.
func Parse(r io.Reader, run func(arg string)) (Document, error) {
	var doc Document
	var pending []string

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)
	for sc.Scan() {
		line := sc.Text()
		if len(pending) > 0 && !strings.HasPrefix(line, prefixItem) {
			doc.Actions = append(doc.Actions, itemActions(pending, run)...)
			pending = pending[:0]
		}
		switch {
		case strings.HasPrefix(line, prefixItem):
			pending = append(pending, strings.TrimPrefix(line, prefixItem))
		case strings.HasPrefix(line, prefixTitle):
			doc.Title = strings.TrimPrefix(line, prefixTitle)
		case strings.HasPrefix(line, prefixText):
			doc.Actions = append(doc.Actions, action.NewLabel(strings.TrimPrefix(line, prefixText), true))
		case strings.HasPrefix(line, prefixPageBreak):
			doc.Actions = append(doc.Actions, action.NewPageBreak())
		}
	}
	if len(pending) > 0 {
		doc.Actions = append(doc.Actions, itemActions(pending, run)...)
	}
	return doc, sc.Err()
}

func itemActions(lines []string, run func(string)) []action.Action {
	items := make([]item, 0, len(lines))
	radio := false
	for _, line := range lines {
		label, arg, ok := strings.Cut(line, ":")
		if !ok {
			logging.Warn("invalid item line", zap.String("line", prefixItem+line))
			continue
		}
		it := item{label: label, arg: arg}
		if bracketed(label) {
			radio = true
			it.checked = true
			it.label = label[1 : len(label)-1]
		}
		it.label = strings.TrimSpace(it.label)
		items = append(items, it)
	}

	out := make([]action.Action, 0, len(items))
	if !radio {
		for _, it := range items {
			arg := it.arg
			out = append(out, action.NewButton(it.label, func() { run(arg) }))
		}
		return out
	}

	initial := -1
	for i, it := range items {
		if it.checked {
			initial = i
			break
		}
	}
	group := action.NewRadioGroup(initial, func(key string) {
		i, err := strconv.Atoi(key)
		if err == nil && i < len(items) {
			run(items[i].arg)
		}
	})
	for i, it := range items {
		out = append(out, group.Add(it.label, strconv.Itoa(i)))
	}
	return out
}

func bracketed(label string) bool {
	return len(label) >= 2 && label[0] == '<' && label[len(label)-1] == '>'
}
