package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
)

func TestFXModuleFailsOnUnknownType(t *testing.T) {
	app := fx.New(
		fx.NopLogger,
		fx.Provide(func() Config {
			return Config{Type: "oracle", URL: "oracle://db"}
		}),
		FXModule,
		fx.Invoke(func(Executor) {}),
	)
	assert.ErrorContains(t, app.Err(), "unknown database type")
}
