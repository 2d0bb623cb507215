package resolver

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/originphp/plugin-installer/internal/branding"
	"github.com/originphp/plugin-installer/internal/composer"
)

var (
	pluginsDir = branding.PluginsDir()
	titleCaser = cases.Title(language.Und)
	lowerCaser = cases.Lower(language.Und)
)

// IdentityName derives a name from the package part of the identity:
// "originphp/user-authentication" -> "UserAuthentication".
func IdentityName(pkg *composer.Package) string {
	words := strings.FieldsFunc(pkg.ShortName(), func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})

	var b strings.Builder
	for _, w := range words {
		b.WriteString(titleCaser.String(w))
	}
	return b.String()
}

// FolderPath returns plugins/<extra.folder> when a folder is declared.
func FolderPath(pkg *composer.Package) string {
	folder := pkg.ExtraString("folder")
	if folder == "" {
		return ""
	}
	return path.Join(pluginsDir, folder)
}

// Underscore converts a camel-cased name to lower snake case:
// "UserAuthentication" -> "user_authentication", "HTTPClient" -> "http_client".
// Namespace separators become underscores.
func Underscore(name string) string {
	runes := []rune(strings.Trim(name, namespaceSeparator))

	var b strings.Builder
	for i, r := range runes {
		if r == '\\' || r == '-' || r == ' ' {
			b.WriteRune('_')
			continue
		}
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune('_')
			}
		}
		b.WriteRune(r)
	}

	s := lowerCaser.String(b.String())
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return s
}
