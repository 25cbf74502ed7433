package postgres

import (
	"net/url"
	"testing"

	"github.com/DRSN-tech/ecommerce-backend/internal/cfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	dsn := BuildDSN(&cfg.PGDBCfg{
		Host:     "db",
		Port:     "5433",
		User:     "catalog",
		Password: "p@ss:word",
		DBName:   "shop",
		SSLMode:  "disable",
	})

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "db:5433", u.Host)
	assert.Equal(t, "/shop", u.Path)
	assert.Equal(t, "catalog", u.User.Username())
	pass, _ := u.User.Password()
	assert.Equal(t, "p@ss:word", pass)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
}

func TestBuildDSN_NoSSLMode(t *testing.T) {
	dsn := BuildDSN(&cfg.PGDBCfg{Host: "localhost", Port: "5432", User: "u", DBName: "d"})

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Empty(t, u.RawQuery)
}
