package kafkawrapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashKeyIsStable(t *testing.T) {
	k1 := HashKey("IRO1TEST0001")
	k2 := HashKey("IRO1TEST0001")

	require.Len(t, k1, 8)
	assert.Equal(t, k1, k2)
}

func TestHashKeySeparatesKeys(t *testing.T) {
	assert.NotEqual(t, HashKey("IRO1TEST0001"), HashKey("IRO1TEST0002"))
}
