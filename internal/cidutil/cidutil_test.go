package cidutil_test

import (
	"testing"

	"github.com/teenjuna/onion/internal/cidutil"
	"github.com/teenjuna/onion/internal/testing/require"
)

func TestSum(t *testing.T) {
	id1, err := cidutil.Sum([]byte("Man "))
	require.Nil(t, err)

	id2, err := cidutil.Sum([]byte("Man "))
	require.Nil(t, err)
	require.Equal(t, id1.String(), id2.String())

	id3, err := cidutil.Sum([]byte("Man!"))
	require.Nil(t, err)
	require.NotEqual(t, id1.String(), id3.String())
}

func TestVerify(t *testing.T) {
	id, err := cidutil.Sum([]byte("layer"))
	require.Nil(t, err)

	require.Nil(t, cidutil.Verify(id.String(), []byte("layer")))
	require.NotNil(t, cidutil.Verify(id.String(), []byte("Layer")))
	require.NotNil(t, cidutil.Verify("not a cid", []byte("layer")))
}
