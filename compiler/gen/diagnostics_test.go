package gen

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics(t *testing.T) {
	d := &Diagnostics{}
	assert.False(t, d.HasErrors())
	assert.NoError(t, d.Err())

	d.Warn("Votes", "unused declaration %q", "cachedScore")
	assert.False(t, d.HasErrors())
	assert.NoError(t, d.Err(), "warnings do not fail the run")

	d.Error("VotesDAO.increment", "unknown method kind %q", "decrement")
	assert.True(t, d.HasErrors())

	records := d.Records()
	require.Len(t, records, 2)
	assert.Equal(t, SeverityWarning, records[0].Severity)
	assert.Equal(t, `unused declaration "cachedScore"`, records[0].Message)
	assert.Equal(t, "VotesDAO.increment", records[1].Site)

	err := d.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Contains(t, err.Error(), "1 error(s)")
}

func TestDiagnostics_ConcurrentAppend(t *testing.T) {
	d := &Diagnostics{}
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d.Error(fmt.Sprintf("site-%d", i), "boom")
		}(i)
	}
	wg.Wait()
	assert.Len(t, d.Records(), 16)
	assert.ErrorIs(t, d.Err(), ErrGenerationFailed)
	assert.Contains(t, d.Err().Error(), "16 error(s)")
}

func TestDiagnostics_RecordsReturnsCopy(t *testing.T) {
	d := &Diagnostics{}
	d.Warn("site", "message")

	records := d.Records()
	records[0].Message = "mutated"
	assert.Equal(t, "message", d.Records()[0].Message)
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "warning", SeverityWarning.String())
}
