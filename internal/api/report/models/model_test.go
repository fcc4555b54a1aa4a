package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordKeepsKeyOrder(t *testing.T) {
	r := NewRecord()
	r.Set("zeta", "1")
	r.Set("alpha", "2")
	r.Set("zeta", "3")

	assert.Equal(t, []string{"zeta", "alpha"}, r.Keys())
	assert.Equal(t, "3", r.Get("zeta"))
	assert.False(t, r.Has("missing"))

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"3","alpha":"2"}`, string(b))

	b, err = json.Marshal(NewRecord())
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))
}
