/*
Package deploy provides Counter contract deployment functionality.
*/
package deploy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain
// network that are required for the Counter contract deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions
	// to the blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract
	// by its address. GetContractStateByHash returns error with 'Unknown
	// contract' substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// Prm groups deployment parameters of the Counter contract.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy the contract to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	LocalAccount *wallet.Account

	// Compiled contract.
	NEF      nef.File
	Manifest manifest.Manifest

	// Instantiation arguments. Owner receives the initial counter record
	// holding InitialCount.
	Owner        util.Uint160
	InitialCount int64
}

// Deploy deploys the Counter contract described by the given Prm on the
// given blockchain. Deploy is idempotent: if the contract is already on
// the chain, its address is returned without any transaction being sent.
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	switch {
	case prm.Logger == nil:
		return util.Uint160{}, errors.New("missing logger")
	case prm.Blockchain == nil:
		return util.Uint160{}, errors.New("missing blockchain client")
	case prm.LocalAccount == nil:
		return util.Uint160{}, errors.New("missing local account")
	}

	if err := ctx.Err(); err != nil {
		return util.Uint160{}, fmt.Errorf("wait for deployment: %w", err)
	}

	localActor, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	ctrAddr := state.CreateContractHash(localActor.Sender(), prm.NEF.Checksum, prm.Manifest.Name)

	l := prm.Logger.With(zap.Stringer("contract", ctrAddr))

	_, err = prm.Blockchain.GetContractStateByHash(ctrAddr)
	if err == nil {
		l.Info("contract is already on the chain, nothing to deploy")
		return ctrAddr, nil
	} else if !strings.Contains(err.Error(), "Unknown contract") {
		return util.Uint160{}, fmt.Errorf("read on-chain state of the contract: %w", err)
	}

	l.Info("contract is missing on the chain, deploying...",
		zap.Stringer("owner", prm.Owner), zap.Int64("initial count", prm.InitialCount))

	txHash, vub, err := management.New(localActor).Deploy(&prm.NEF, &prm.Manifest,
		[]any{prm.Owner, prm.InitialCount})
	if err != nil {
		return util.Uint160{}, fmt.Errorf("send transaction deploying the contract: %w", err)
	}

	l.Info("transaction deploying the contract has been successfully sent, waiting...",
		zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	aer, err := localActor.Wait(txHash, vub, nil)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("wait for deployment transaction: %w", err)
	} else if aer.VMState != vmstate.Halt {
		return util.Uint160{}, fmt.Errorf("deployment transaction faulted: %s", aer.FaultException)
	}

	l.Info("contract has been successfully deployed")

	return ctrAddr, nil
}
