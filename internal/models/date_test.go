package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	var payload struct {
		Born *Date `json:"born"`
		Seen *Date `json:"seen"`
		Gone *Date `json:"gone"`
	}
	err := json.Unmarshal([]byte(`{"born":"1815-12-10","seen":"2024-03-01T15:04:05+07:00","gone":null}`), &payload)
	require.NoError(t, err)
	require.NotNil(t, payload.Born)
	assert.Equal(t, "1815-12-10", payload.Born.String())
	assert.Equal(t, "2024-03-01", payload.Seen.String())
	assert.Nil(t, payload.Gone)

	out, err := json.Marshal(payload.Born)
	require.NoError(t, err)
	assert.Equal(t, `"1815-12-10"`, string(out))
}

func TestDateRejectsGarbage(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"10/12/1815"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`12`), &d))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2020, 5, 17, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2020-05-17", d.String())

	require.NoError(t, d.Scan([]byte("2021-01-02")))
	assert.Equal(t, "2021-01-02", d.String())

	assert.Error(t, d.Scan(42))

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2021-01-02", v)
}
