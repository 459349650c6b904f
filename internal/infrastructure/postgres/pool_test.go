package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-manager/pkg/config"
)

func TestPoolConfigFor(t *testing.T) {
	pc, err := poolConfigFor(config.DBConfig{
		Host: "db", Port: 5432, User: "inv", Password: "secreto", DBName: "inventory", SSLMode: "disable",
	})
	require.NoError(t, err)
	assert.Equal(t, int32(25), pc.MaxConns)
	assert.Equal(t, int32(2), pc.MinConns)
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.Equal(t, "inventory", pc.ConnConfig.Database)
	assert.Equal(t, applicationName, pc.ConnConfig.RuntimeParams["application_name"])
	assert.NotNil(t, pc.AfterConnect)

	// DATABASE_URL manda, incluido un application_name propio
	pc, err = poolConfigFor(config.DBConfig{
		DatabaseURL: "postgres://u:p@otro:6543/x?sslmode=disable&application_name=batch",
		MaxConns:    1,
	})
	require.NoError(t, err)
	assert.Equal(t, "otro", pc.ConnConfig.Host)
	assert.Equal(t, uint16(6543), pc.ConnConfig.Port)
	assert.Equal(t, int32(1), pc.MinConns)
	assert.Equal(t, "batch", pc.ConnConfig.RuntimeParams["application_name"])

	_, err = poolConfigFor(config.DBConfig{DatabaseURL: "postgres://%zz"})
	assert.Error(t, err)
}
