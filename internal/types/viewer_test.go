package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnonymousViewer(t *testing.T) {
	assert.True(t, Anonymous.IsAnonymous())
	assert.False(t, NewViewer(7, nil).IsAnonymous())
}

func TestViewerLocal(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "12:00", Anonymous.Local(ts).Format("15:04"))
	assert.Equal(t, "17:30", NewViewer(1, kolkata).Local(ts).Format("15:04"))
}
