package json_test

import (
	"slices"
	"testing"

	"github.com/teenjuna/onion/codec/json"
	"github.com/teenjuna/onion/internal/testing/require"
)

type item struct {
	Layer int    `json:"layer"`
	Data  []byte `json:"data"`
}

func TestCodec(t *testing.T) {
	c := json.New[item]()
	items := []item{
		{Layer: 0, Data: []byte("<~9jqo^~>")},
		{Layer: 1, Data: []byte{0x00, 0xff}},
	}

	data, err := c.Encode(slices.Values(items))
	require.Nil(t, err)
	require.Equal(t, string(data), `{"layer":0,"data":"PH45anFvXn4+"}`+"\n"+`{"layer":1,"data":"AP8="}`+"\n")

	decoded := make([]item, 0)
	err = c.Derive().Decode(data, func(i item) {
		decoded = append(decoded, i)
	})
	require.Nil(t, err)
	require.Equal(t, decoded, items)
}

func TestEncodeReusesBuffer(t *testing.T) {
	c := json.New[item]()

	first, err := c.Encode(slices.Values([]item{{Layer: 1}}))
	require.Nil(t, err)
	_, err = c.Encode(slices.Values([]item{{Layer: 2}}))
	require.Nil(t, err)

	require.Equal(t, string(first), `{"layer":1,"data":null}`+"\n")
}

func TestDecodeError(t *testing.T) {
	c := json.New[item]()
	err := c.Decode([]byte(`{"layer":"zero"}`), func(item) {})
	require.NotNil(t, err)
}
