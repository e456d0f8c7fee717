package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedBundle(t *testing.T) {
	b, err := Parse(messagesYAML, "en_US.UTF-8")
	require.NoError(t, err)
	assert.Equal(t, "en", b.Locale())
	assert.Equal(t, "Install", b.Get("notification.installButton"))
	assert.Equal(t, "relctx v1.2.0 installed.", b.Getf("notification.update.installed", "v1.2.0"))
}

func TestFallbacks(t *testing.T) {
	b, err := Parse(messagesYAML, "zh_CN.UTF-8")
	require.NoError(t, err)
	assert.Equal(t, "安装", b.Get("notification.installButton"))
	// missing in zh, present in en
	assert.Equal(t, "No related declarations.", b.Get("related.none"))
	// missing everywhere
	assert.Equal(t, "no.such.key", b.Get("no.such.key"))
}

func TestNormalize(t *testing.T) {
	for in, want := range map[string]string{"": "en", "C": "en", "POSIX": "en", "de_DE": "de", "fr.UTF-8": "fr"} {
		assert.Equal(t, want, normalize(in), in)
	}
}

func TestParseError(t *testing.T) {
	_, err := Parse([]byte("en: [unterminated"), "en")
	assert.Error(t, err)
}

func TestPackageHelpers(t *testing.T) {
	t.Setenv("LANG", "en_US.UTF-8")
	assert.NotEmpty(t, Get("notification.group"))
	assert.Contains(t, Getf("notification.update.latest", "v0.1.0"), "v0.1.0")
}
