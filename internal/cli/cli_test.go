package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledger/internal/core"
)

func TestPromptConfirmer(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"  yes  \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var out bytes.Buffer
			c := NewPromptConfirmer(strings.NewReader(tt.input), &out)
			got, err := c.Confirm(context.Background(), "Delete record 1?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Delete record 1?")
		})
	}
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) { select {} }

func TestPromptConfirmer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewPromptConfirmer(blockingReader{}, &bytes.Buffer{})
	ok, err := c.Confirm(ctx, "Proceed?")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrInputCancelled)
}

func TestAutoConfirmer(t *testing.T) {
	ok, err := AutoConfirmer{}.Confirm(context.Background(), "anything")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRenderRecords(t *testing.T) {
	assert.Contains(t, RenderRecords(nil), "No expenses recorded.")

	out := RenderRecords([]core.Record{
		{ID: 42, Description: "Clinic", Category: core.Health, Amount: 130000, Date: core.NewDate(2024, 1, 2), Flagged: true},
	})
	for _, want := range []string{"42", "2024-01-02", "Health", "130000", "Clinic", FlagIcon} {
		assert.Contains(t, out, want)
	}
}

func TestRenderReport(t *testing.T) {
	assert.Contains(t, RenderReport(core.Report{}, 0), "No flagged expenses.")

	report := core.Report{Lines: []core.ReportLine{
		{Category: core.Transport, Total: 5000, Budget: 90000, Remaining: 85000, Status: core.StatusWithinBudget},
		{Category: core.Health, Total: 130000, Budget: 120000, Remaining: -10000, Status: core.StatusExceeded},
	}}
	out := RenderReport(report, 135000)
	assert.Contains(t, out, "TRANSPORT: 5000 (within budget) - budget: 90000")
	assert.Contains(t, out, "HEALTH: 130000 (exceeded) - budget: 120000")
	assert.Contains(t, out, "Total flagged: 135000")
}
