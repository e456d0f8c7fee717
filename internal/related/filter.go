package related

import "strings"

// Logging frameworks never add useful context to a prompt.
var (
	JavaLoggingPrefixes = []string{
		"org.slf4j",
		"org.jboss.logmanager",
		"org.apache.log4j",
		"ch.qos.logback",
	}
	GoLoggingPrefixes = []string{
		"go.uber.org/zap",
		"github.com/sirupsen/logrus",
		"github.com/rs/zerolog",
		"github.com/go-logr/",
		"k8s.io/klog",
	}
)

// Filter decides which classes are left out of rendered context.
type Filter struct {
	Prefixes []string
	Standard func(qualified string) bool
}

// DefaultFilter returns the filter for a backend language plus extra prefixes.
func DefaultFilter(language string, standard func(string) bool, extra ...string) *Filter {
	var prefixes []string
	switch language {
	case "java":
		prefixes = append(prefixes, "java")
		prefixes = append(prefixes, JavaLoggingPrefixes...)
	case "go":
		prefixes = append(prefixes, GoLoggingPrefixes...)
	}
	for _, p := range extra {
		if p = strings.TrimSpace(p); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	return &Filter{Prefixes: prefixes, Standard: standard}
}

// Ignore reports whether a class with this qualified name is dropped.
func (f *Filter) Ignore(qualified string) bool {
	if qualified == "" {
		return true
	}
	if f == nil {
		return false
	}
	if f.Standard != nil && f.Standard(qualified) {
		return true
	}
	for _, p := range f.Prefixes {
		if strings.HasPrefix(qualified, p) {
			return true
		}
	}
	return false
}
