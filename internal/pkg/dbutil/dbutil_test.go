package dbutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestDriverCode(t *testing.T) {
	require.Equal(t, "", DriverCode(errors.New("plain")))
	require.Equal(t, "", DriverCode(nil))
	wrapped := fmt.Errorf("increment edge: %w", &pq.Error{Code: "40001"})
	require.Equal(t, "40001", DriverCode(wrapped))
}
