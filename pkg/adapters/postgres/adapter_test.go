package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framesql/framesql"
	"github.com/framesql/framesql/pkg/adapter"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   adapter.Config
		expected string
	}{
		{
			name: "basic connection",
			config: adapter.Config{
				Host:     "localhost",
				Port:     5432,
				Database: "testdb",
				User:     "user",
				Password: "pass",
			},
			expected: "host=localhost port=5432 dbname=testdb sslmode=disable user=user password=pass",
		},
		{
			name: "defaults for host and port",
			config: adapter.Config{
				Database: "testdb",
			},
			expected: "host=localhost port=5432 dbname=testdb sslmode=disable",
		},
		{
			name: "custom sslmode",
			config: adapter.Config{
				Database: "testdb",
				Options:  map[string]string{"sslmode": "require"},
			},
			expected: "host=localhost port=5432 dbname=testdb sslmode=require",
		},
		{
			name: "schema sets the search path",
			config: adapter.Config{
				Database: "testdb",
				Schema:   "reporting",
			},
			expected: "host=localhost port=5432 dbname=testdb sslmode=disable search_path=reporting",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn, err := buildDSN(tt.config)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, dsn)
		})
	}
}

func TestBuildDSNErrors(t *testing.T) {
	tests := []struct {
		name   string
		config adapter.Config
	}{
		{name: "missing database name", config: adapter.Config{Host: "localhost"}},
		{name: "password without user", config: adapter.Config{Database: "testdb", Password: "secret"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildDSN(tt.config)
			require.Error(t, err)
			assert.ErrorIs(t, err, framesql.ErrCreateConnectionURL)
		})
	}
}

func TestNewCarriesTheDialect(t *testing.T) {
	a := New()
	require.NotNil(t, a.Dialect())
	assert.Equal(t, "postgres", a.Dialect().Name)
	assert.True(t, a.Dialect().SupportsMerge)
}
