package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReportsMemoryStore(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	require.NoError(t, run())
}

func TestRunReturnsConfigErrors(t *testing.T) {
	t.Setenv("STORE_BACKEND", "sqlite")
	assert.Error(t, run())
}
