package deploy

import (
	"context"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubBlockchain satisfies Blockchain without being functional: parameter
// and context checks must not reach the network.
type stubBlockchain struct {
	Blockchain
}

func TestDeployMissingParameters(t *testing.T) {
	ctx := context.Background()

	var prm Prm
	_, err := Deploy(ctx, prm)
	require.ErrorContains(t, err, "missing logger")

	prm.Logger = zap.NewNop()
	_, err = Deploy(ctx, prm)
	require.ErrorContains(t, err, "missing blockchain client")
}

func TestDeployCanceledContext(t *testing.T) {
	acc, err := wallet.NewAccount()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prm := Prm{
		Logger:       zap.NewNop(),
		Blockchain:   stubBlockchain{},
		LocalAccount: acc,
	}
	_, err = Deploy(ctx, prm)
	require.ErrorIs(t, err, context.Canceled)
}
