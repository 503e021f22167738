package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/pos-inventario/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse_ConPermisos(t *testing.T) {
	in := pkgjwt.Identity{
		UserID:      "00000000-0000-0000-0000-000000000001",
		Name:        "Ana",
		Role:        "vendedor",
		Permissions: []string{"create:venta", "read:venta"},
	}
	tok, err := pkgjwt.Generate(testSecret, in, "pos-test", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	out, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, pkgjwt.Identity{UserID: "u1"}, "pos-test", -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, pkgjwt.Identity{UserID: "u1"}, "pos-test", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", pkgjwt.Identity{UserID: "u1"}, "pos-test", 60)
	assert.Error(t, err)
}
