package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crescent-ops/lineup/internal/board"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		in   string
		want board.Ref
	}{
		{"waitlist", board.WaitlistTarget()},
		{"w:0198c1f2", board.WaitlistRef("0198c1f2")},
		{"p:line-a:a3", board.PositionRef("line-a", "a3")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseRef(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRef_Rejections(t *testing.T) {
	for _, in := range []string{"", "w:", "p:", "p:line-a", "p::a3", "p:line-a:", "x:whatever"} {
		t.Run(in, func(t *testing.T) {
			_, err := parseRef(in)
			assert.Error(t, err)
		})
	}
}
