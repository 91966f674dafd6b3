package cli_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/inkmap/internal/cli"
	"github.com/aretw0/inkmap/internal/config"
	"github.com/aretw0/inkmap/internal/logging"
	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/aretw0/inkmap/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStore_Backends(t *testing.T) {
	mr := miniredis.RunT(t)

	cases := map[string]func(*config.Config){
		"memory": func(c *config.Config) { c.Store.Backend = config.BackendMemory },
		"file": func(c *config.Config) {
			c.Store.Backend = config.BackendFile
			c.Store.Dir = t.TempDir()
		},
		"redis": func(c *config.Config) {
			c.Store.Backend = config.BackendRedis
			c.Store.Redis.Addr = mr.Addr()
		},
	}
	for name, configure := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			configure(&cfg)

			stack, err := cli.BuildStore(cfg, logging.NewNop())
			require.NoError(t, err)
			defer stack.Close()

			ports.RunCoordinateStoreContract(t, stack.Store)

			families, err := stack.Metrics.Gather()
			require.NoError(t, err)
			assert.NotEmpty(t, families)
		})
	}
}

func TestBuildStore_UnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = "tape"
	_, err := cli.BuildStore(cfg, logging.NewNop())
	assert.Error(t, err)
}

func TestNewAnnotator(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = config.BackendMemory
	stack, err := cli.BuildStore(cfg, logging.NewNop())
	require.NoError(t, err)

	a, capture, err := cli.NewAnnotator(cfg, stack.Store, logging.NewNop(), cli.AnnotatorOptions{WordID: "3"})
	require.NoError(t, err)
	require.NotNil(t, capture)
	assert.Equal(t, domain.WordID("3"), a.WordID())

	_, _, err = cli.NewAnnotator(cfg, stack.Store, logging.NewNop(), cli.AnnotatorOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidWordID)

	_, err = stack.Store.Load(context.Background(), "3")
	assert.ErrorIs(t, err, domain.ErrWordNotFound)
}
