package shell

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

const unnamedScript = "[unnamed script]"

// ScriptName turns a script path into a menu label: "/x/10-wifi_setup.sh"
// becomes "Wifi setup".
func ScriptName(path string) string {
	name := filepath.Base(path)
	if i := strings.LastIndex(name, ".sh"); i >= 0 {
		name = name[:i]
	}

	digits := 0
	for digits < len(name) && name[digits] >= '0' && name[digits] <= '9' {
		digits++
	}
	if digits < len(name) && name[digits] == '-' {
		name = name[digits+1:]
	}
	if name == "" {
		return unnamedScript
	}

	first, size := utf8.DecodeRuneInString(name)
	rest := strings.ReplaceAll(name[size:], "_", " ")
	return string(unicode.ToUpper(first)) + rest
}
