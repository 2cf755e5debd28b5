package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Name tidies a player display name from config: trimmed, single
// spaces, title-cased.
func Name(name string) string {
	return cases.Title(language.English).String(strings.Join(strings.Fields(name), " "))
}
