// Package i18n holds the user-facing message bundle.
package i18n

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const DefaultLocale = "en"

//go:embed messages.yaml
var messagesYAML []byte

// Bundle resolves message keys for one locale, falling back to English and
// then to the key itself.
type Bundle struct {
	locale   string
	messages map[string]map[string]string
}

// Parse builds a bundle from YAML shaped as locale -> key -> message.
func Parse(data []byte, locale string) (*Bundle, error) {
	var m map[string]map[string]string
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse message bundle: %w", err)
	}
	return &Bundle{locale: normalize(locale), messages: m}, nil
}

func (b *Bundle) Locale() string { return b.locale }

func (b *Bundle) Get(key string) string {
	if msg, ok := b.messages[b.locale][key]; ok {
		return msg
	}
	if msg, ok := b.messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

func (b *Bundle) Getf(key string, args ...any) string {
	return fmt.Sprintf(b.Get(key), args...)
}

var (
	defaultOnce   sync.Once
	defaultBundle *Bundle
)

// Default is the embedded bundle for the locale in LANG.
func Default() *Bundle {
	defaultOnce.Do(func() {
		b, err := Parse(messagesYAML, os.Getenv("LANG"))
		if err != nil {
			// the embedded file is fixed at build time
			panic(err)
		}
		defaultBundle = b
	})
	return defaultBundle
}

func Get(key string) string { return Default().Get(key) }

func Getf(key string, args ...any) string { return Default().Getf(key, args...) }

// normalize turns "zh_CN.UTF-8" into "zh".
func normalize(locale string) string {
	locale = strings.ToLower(locale)
	if i := strings.IndexAny(locale, "_.-@"); i >= 0 {
		locale = locale[:i]
	}
	if locale == "" || locale == "c" || locale == "posix" {
		return DefaultLocale
	}
	return locale
}
