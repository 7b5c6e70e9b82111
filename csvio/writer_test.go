package csvio_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payments-engine/csvio"
	"github.com/warp/payments-engine/engine"
)

func TestWriteReport_Format(t *testing.T) {
	snaps := []engine.Snapshot{
		{
			Client:    1,
			Available: engine.MustParseAmount("7.0"),
			Held:      engine.Zero(),
			Total:     engine.MustParseAmount("7"),
			Locked:    false,
		},
		{
			Client:    2,
			Available: engine.MustParseAmount("-8.0"),
			Held:      engine.MustParseAmount("10.0"),
			Total:     engine.MustParseAmount("2.0"),
			Locked:    true,
		},
	}

	var sb strings.Builder
	require.NoError(t, csvio.WriteReport(&sb, snaps))

	want := "client,available,held,total,locked\n" +
		"1,7.0000,0.0000,7.0000,false\n" +
		"2,-8.0000,10.0000,2.0000,true\n"
	assert.Equal(t, want, sb.String())
}

func TestWriteReport_NoAccounts_HeaderOnly(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, csvio.WriteReport(&sb, nil))

	assert.Equal(t, "client,available,held,total,locked\n", sb.String())
}

func TestWriteReport_NoTrailingWhitespace(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, csvio.WriteReport(&sb, []engine.Snapshot{{
		Client:    9,
		Available: engine.AmountFromInt(1),
		Held:      engine.Zero(),
		Total:     engine.AmountFromInt(1),
	}}))

	for _, line := range strings.Split(strings.TrimRight(sb.String(), "\n"), "\n") {
		assert.Equal(t, strings.TrimRight(line, " \t\r"), line)
	}
}
