package persistence

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabase_PingAndStats(t *testing.T) {
	d := &Database{DB: setupTestDB(t)}
	require.NoError(t, d.Ping(context.Background()))

	collector, err := d.StatsCollector()
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(collector))
	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["go_sql_max_open_connections"])
	assert.True(t, names["go_sql_in_use_connections"])
}
