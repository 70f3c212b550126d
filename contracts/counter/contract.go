package counter

import (
	"github.com/nspcc-dev/counter-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	// TokenAmount is a single (denomination, quantity) pair of transferred
	// value.
	TokenAmount struct {
		Denom  string
		Amount int
	}

	// Counter stores protocol outcome statistics of a single owner.
	Counter struct {
		// Number of observed outcomes, weighted by outcome kind.
		Count int
		// Value accumulated by transfers.
		TotalFunds []TokenAmount
		// Controlling account. Set when the record is created and
		// never changed afterwards.
		Owner interop.Hash160
	}
)

const (
	contractName = "counter-contract"

	counterPrefix = 'c'
	descriptorKey = 'd'

	// Outcome kinds delivered through SourceCallback.
	AckKind     = 1
	TimeoutKind = 2

	ackDelta     = 1
	timeoutDelta = 10

	// Deadline attached to outbound transfers, in milliseconds. It is
	// advisory for the transfer protocol, the contract itself never
	// awaits it.
	transferDeadline = 5 * 60 * 1000

	// Port the token transfer protocol listens on at the destination
	// chain.
	transferPort = "transfer"

	// successAck is how the acknowledgement of a successfully processed
	// token transfer looks: base64-encoded 0x01 byte in the standard
	// result envelope.
	successAck = "{\"result\":\"AQ==\"}"

	errCounterNotFound = "counter not found"
	errUnknownKind     = "unknown callback kind"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		owner interop.Hash160
		count int
	})

	if len(args.owner) != interop.Hash160Len {
		panic("incorrect length of owner script hash")
	}

	storage.Put(ctx, descriptorKey, contractName+"/"+std.Itoa(common.Version, 10))

	common.SetSerialized(ctx, counterKey(args.owner), Counter{
		Count:      args.count,
		TotalFunds: []TokenAmount{},
		Owner:      args.owner,
	})

	runtime.Log("counter contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("counter contract updated")
}

// TransferFunds initiates a cross-chain transfer of the given amount to
// the recipient address on the counterpart chain reachable through the
// given outbound channel. The deadline for the transfer to complete is
// 5 minutes from the current block time. The contract registers itself
// as the receiver of the final outcome: the relay delivers it later
// through SourceCallback, a separate invocation. No counter is touched
// here.
//
// It produces TransferFunds notification.
func TransferFunds(channel string, denom string, amount int, recipient string) {
	deadline := runtime.GetTime() + transferDeadline
	callback := runtime.GetExecutingScriptHash()

	runtime.Notify("TransferFunds", channel, denom, amount, recipient, deadline, callback)
	runtime.Log("cross-chain transfer initiated")
}

// SourceCallback handles the final outcome of a transfer previously
// initiated by TransferFunds, delivered on the originating chain. kind
// is either AckKind, meaning the counterpart chain responded with an
// acknowledgement (the response itself is not inspected), or
// TimeoutKind, meaning no response arrived before the transfer
// deadline. Any other kind aborts the invocation. It can be invoked
// only by Alphabet nodes relaying transfer protocol events.
//
// It produces SourceCallback notification.
func SourceCallback(kind int) {
	common.CheckAlphabetWitness()

	ctx := storage.GetContext()
	applyOutcome(ctx, runtime.GetExecutingScriptHash(), kind)

	runtime.Notify("SourceCallback", kind)
}

// DestinationCallback handles a transfer delivered to this chain from
// the counterpart one. Packets addressed to any port other than the
// token transfer one, as well as acknowledgements different from the
// canonical success one, are not transfers of interest and are ignored
// without error. A qualifying packet has the same effect as
// SourceCallback with AckKind.
//
// It produces DestinationCallback notification when the packet
// qualifies.
func DestinationCallback(portID string, ackData []byte) {
	common.CheckAlphabetWitness()

	if portID != transferPort {
		return
	}
	if !common.BytesEqual(ackData, []byte(successAck)) {
		return
	}

	ctx := storage.GetContext()
	applyOutcome(ctx, runtime.GetExecutingScriptHash(), AckKind)

	runtime.Notify("DestinationCallback", portID)
}

// GetCount returns the counter value stored for the given address. It
// panics if the address has no counter.
func GetCount(addr interop.Hash160) int {
	counter, ok := getCounter(storage.GetReadOnlyContext(), addr)
	if !ok {
		panic(errCounterNotFound)
	}
	return counter.Count
}

// GetTotalFunds returns the value accumulated by the counter stored for
// the given address. It panics if the address has no counter.
func GetTotalFunds(addr interop.Hash160) []TokenAmount {
	counter, ok := getCounter(storage.GetReadOnlyContext(), addr)
	if !ok {
		panic(errCounterNotFound)
	}
	return counter.TotalFunds
}

// IterateCounters returns an iterator over all stored counters.
// Iteration is through key-value pairs, where key is the owner address
// and value is the deserialized Counter structure.
func IterateCounters() iterator.Iterator {
	return storage.Find(storage.GetReadOnlyContext(), []byte{counterPrefix},
		storage.RemovePrefix|storage.DeserializeValues)
}

// Descriptor returns the contract name/version stamp written at the
// initial deployment. It is consumed by migration tooling only.
func Descriptor() string {
	return storage.Get(storage.GetReadOnlyContext(), descriptorKey).(string)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// applyOutcome folds a single protocol outcome into the counter stored
// for addr: acknowledgement adds 1, timeout adds 10, a missing counter
// is created with the bare increment. TotalFunds is reset to empty on
// every outcome.
func applyOutcome(ctx storage.Context, addr interop.Hash160, kind int) {
	var delta int
	switch kind {
	case AckKind:
		delta = ackDelta
	case TimeoutKind:
		delta = timeoutDelta
	default:
		panic(errUnknownKind)
	}

	counter, ok := getCounter(ctx, addr)
	if !ok {
		counter = Counter{
			Count:      delta,
			TotalFunds: []TokenAmount{},
			Owner:      addr,
		}
	} else {
		counter.Count += delta
		counter.TotalFunds = []TokenAmount{}
	}

	common.SetSerialized(ctx, counterKey(addr), counter)
}

func getCounter(ctx storage.Context, addr interop.Hash160) (Counter, bool) {
	data := storage.Get(ctx, counterKey(addr))
	if data == nil {
		return Counter{}, false
	}

	return std.Deserialize(data.([]byte)).(Counter), true
}

func counterKey(addr interop.Hash160) []byte {
	return append([]byte{counterPrefix}, addr...)
}
