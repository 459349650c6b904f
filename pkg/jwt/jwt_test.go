package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/inventory-manager/pkg/jwt"
)

const secret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse_ConRole(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "u-1", "bodeguero", "inventory-test", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, role, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "bodeguero", role)
}

func TestParse_Errores(t *testing.T) {
	// Caso: token expirado
	tok, err := pkgjwt.Generate(secret, "u-1", "admin", "inventory-test", -1)
	require.NoError(t, err)
	_, _, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err)

	// Caso: secret incorrecto
	tok, err = pkgjwt.Generate(secret, "u-1", "admin", "inventory-test", 60)
	require.NoError(t, err)
	_, _, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)

	// Caso: secret vacío
	_, err = pkgjwt.Generate("", "u-1", "admin", "inventory-test", 60)
	assert.Error(t, err)
}
