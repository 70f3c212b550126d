// Package counter contains RPC wrappers for Counter contract.
package counter

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"math/big"
	"unicode/utf8"
)

// CounterCounter is a contract-specific counter.Counter type used by its methods.
type CounterCounter struct {
	Count *big.Int
	TotalFunds []*CounterTokenAmount
	Owner util.Uint160
}

// CounterTokenAmount is a contract-specific counter.TokenAmount type used by its methods.
type CounterTokenAmount struct {
	Denom string
	Amount *big.Int
}

// TransferFundsEvent represents "TransferFunds" event emitted by the contract.
type TransferFundsEvent struct {
	Channel string
	Denom string
	Amount *big.Int
	Recipient string
	Deadline *big.Int
	Callback util.Uint160
}

// SourceCallbackEvent represents "SourceCallback" event emitted by the contract.
type SourceCallbackEvent struct {
	Kind *big.Int
}

// DestinationCallbackEvent represents "DestinationCallback" event emitted by the contract.
type DestinationCallbackEvent struct {
	PortID string
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Descriptor invokes `descriptor` method of contract.
func (c *ContractReader) Descriptor() (string, error) {
	return unwrap.UTF8String(c.invoker.Call(c.hash, "descriptor"))
}

// GetCount invokes `getCount` method of contract.
func (c *ContractReader) GetCount(addr util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getCount", addr))
}

// GetTotalFunds invokes `getTotalFunds` method of contract.
func (c *ContractReader) GetTotalFunds(addr util.Uint160) ([]*CounterTokenAmount, error) {
	return func(item stackitem.Item, err error) ([]*CounterTokenAmount, error) {
		if err != nil {
			return nil, err
		}
		arr, ok := item.Value().([]stackitem.Item)
		if !ok {
			return nil, errors.New("not an array")
		}
		res := make([]*CounterTokenAmount, len(arr))
		for i := range res {
			res[i], err = itemToCounterTokenAmount(arr[i], nil)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		return res, nil
	}(unwrap.Item(c.invoker.Call(c.hash, "getTotalFunds", addr)))
}

// IterateCounters invokes `iterateCounters` method of contract.
func (c *ContractReader) IterateCounters() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "iterateCounters"))
}

// IterateCountersExpanded is similar to IterateCounters (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) IterateCountersExpanded(_numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "iterateCounters", _numOfIteratorItems))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// DestinationCallback creates a transaction invoking `destinationCallback` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) DestinationCallback(portID string, ackData []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "destinationCallback", portID, ackData)
}

// DestinationCallbackTransaction creates a transaction invoking `destinationCallback` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DestinationCallbackTransaction(portID string, ackData []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "destinationCallback", portID, ackData)
}

// DestinationCallbackUnsigned creates a transaction invoking `destinationCallback` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DestinationCallbackUnsigned(portID string, ackData []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "destinationCallback", nil, portID, ackData)
}

// SourceCallback creates a transaction invoking `sourceCallback` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SourceCallback(kind *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "sourceCallback", kind)
}

// SourceCallbackTransaction creates a transaction invoking `sourceCallback` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SourceCallbackTransaction(kind *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "sourceCallback", kind)
}

// SourceCallbackUnsigned creates a transaction invoking `sourceCallback` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SourceCallbackUnsigned(kind *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "sourceCallback", nil, kind)
}

// TransferFunds creates a transaction invoking `transferFunds` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) TransferFunds(channel string, denom string, amount *big.Int, recipient string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "transferFunds", channel, denom, amount, recipient)
}

// TransferFundsTransaction creates a transaction invoking `transferFunds` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) TransferFundsTransaction(channel string, denom string, amount *big.Int, recipient string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "transferFunds", channel, denom, amount, recipient)
}

// TransferFundsUnsigned creates a transaction invoking `transferFunds` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) TransferFundsUnsigned(channel string, denom string, amount *big.Int, recipient string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "transferFunds", nil, channel, denom, amount, recipient)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(nefFile []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, nefFile, manifest, data)
}

// FromStackItem retrieves fields of CounterCounter from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *CounterCounter) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.Count, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Count: %w", err)
	}

	index++
	res.TotalFunds, err = func(item stackitem.Item) ([]*CounterTokenAmount, error) {
		arr, ok := item.Value().([]stackitem.Item)
		if !ok {
			return nil, errors.New("not an array")
		}
		res := make([]*CounterTokenAmount, len(arr))
		for i := range res {
			res[i], err = itemToCounterTokenAmount(arr[i], nil)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		return res, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field TotalFunds: %w", err)
	}

	index++
	res.Owner, err = func(item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Owner: %w", err)
	}

	return nil
}

// itemToCounterTokenAmount converts stack item into *CounterTokenAmount.
func itemToCounterTokenAmount(item stackitem.Item, err error) (*CounterTokenAmount, error) {
	if err != nil {
		return nil, err
	}
	var res = new(CounterTokenAmount)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of CounterTokenAmount from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *CounterTokenAmount) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.Denom, err = func(item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Denom: %w", err)
	}

	index++
	res.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}
