package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(&buf, "warn", "json")
	require.Equal(t, zerolog.WarnLevel, l.GetLevel())
	l.Info().Msg("hidden")
	require.Empty(t, buf.String())
	l.Warn().Str("k", "v").Msg("shown")
	require.Contains(t, buf.String(), `"k":"v"`)
	require.Contains(t, buf.String(), `"message":"shown"`)

	buf.Reset()
	l = newWithWriter(&buf, "bogus", "console")
	require.Equal(t, zerolog.InfoLevel, l.GetLevel())
	l.Info().Msg("console line")
	require.Contains(t, buf.String(), "console line")
}
