package tests

import (
	"path"
	"strconv"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/counter-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const counterPath = "../contracts/counter"

const (
	ackKind     = 1
	timeoutKind = 2
)

func deployCounterContract(t *testing.T, e *neotest.Executor, owner util.Uint160, count int64) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, counterPath, path.Join(counterPath, "config.yml"))

	args := make([]any, 2)
	args[0] = owner
	args[1] = count

	e.DeployContract(t, c, args)
	return c.Hash
}

func newCounterInvoker(t *testing.T, count int64) (*neotest.ContractInvoker, util.Uint160) {
	e := newExecutor(t)
	hash := deployCounterContract(t, e, e.CommitteeHash, count)
	return e.CommitteeInvoker(hash), hash
}

// counterpart chain account ids are base58-encoded in its address format.
func dummyRecipient() string {
	return base58.Encode(randomBytes(20))
}

func getCount(t *testing.T, c *neotest.ContractInvoker, addr util.Uint160) int64 {
	s, err := c.TestInvoke(t, "getCount", addr)
	require.NoError(t, err)
	return s.Pop().BigInt().Int64()
}

func TestDeploy(t *testing.T) {
	c, _ := newCounterInvoker(t, 5)

	c.Invoke(t, int64(5), "getCount", c.CommitteeHash)

	s, err := c.TestInvoke(t, "getTotalFunds", c.CommitteeHash)
	require.NoError(t, err)
	require.Empty(t, s.Pop().Array())
}

func TestGetCountMissing(t *testing.T) {
	c, _ := newCounterInvoker(t, 0)

	var unknown util.Uint160
	copy(unknown[:], randomBytes(util.Uint160Size))

	c.InvokeFail(t, "counter not found", "getCount", unknown)
	c.InvokeFail(t, "counter not found", "getTotalFunds", unknown)
}

func TestTransferFunds(t *testing.T) {
	c, hash := newCounterInvoker(t, 0)

	h := c.Invoke(t, stackitem.Null{}, "transferFunds", "channel-0", "untrn", int64(100), dummyRecipient())
	aer := c.CheckHalt(t, h)

	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, "TransferFunds", aer.Events[0].Name)

	items := aer.Events[0].Item.Value().([]stackitem.Item)
	require.Equal(t, 6, len(items))

	channel, err := items[0].TryBytes()
	require.NoError(t, err)
	require.Equal(t, "channel-0", string(channel))

	deadline, err := items[4].TryInteger()
	require.NoError(t, err)
	require.Equal(t, int64(c.TopBlock(t).Timestamp)+5*60*1000, deadline.Int64())

	callback, err := items[5].TryBytes()
	require.NoError(t, err)
	require.Equal(t, hash.BytesBE(), callback)

	// initiating a transfer must not touch any counter
	c.InvokeFail(t, "counter not found", "getCount", hash)
}

func TestSourceCallback(t *testing.T) {
	c, hash := newCounterInvoker(t, 0)

	// no counter exists for the contract address until the first outcome
	c.InvokeFail(t, "counter not found", "getCount", hash)

	h := c.Invoke(t, stackitem.Null{}, "sourceCallback", int64(ackKind))
	aer := c.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, "SourceCallback", aer.Events[0].Name)

	require.EqualValues(t, 1, getCount(t, c, hash))

	c.Invoke(t, stackitem.Null{}, "sourceCallback", int64(ackKind))
	require.EqualValues(t, 2, getCount(t, c, hash))

	c.Invoke(t, stackitem.Null{}, "sourceCallback", int64(timeoutKind))
	require.EqualValues(t, 12, getCount(t, c, hash))

	s, err := c.TestInvoke(t, "getTotalFunds", hash)
	require.NoError(t, err)
	require.Empty(t, s.Pop().Array())

	c.InvokeFail(t, "unknown callback kind", "sourceCallback", int64(3))

	acc := c.NewAccount(t)
	c.WithSigners(acc).InvokeFail(t, common.ErrAlphabetWitnessFailed, "sourceCallback", int64(ackKind))
}

func TestTimeoutCreatesCounter(t *testing.T) {
	c, hash := newCounterInvoker(t, 0)

	c.Invoke(t, stackitem.Null{}, "sourceCallback", int64(timeoutKind))
	require.EqualValues(t, 10, getCount(t, c, hash))
}

func TestDestinationCallback(t *testing.T) {
	c, hash := newCounterInvoker(t, 0)

	successAck := []byte(`{"result":"AQ=="}`)

	// packet for a foreign port: success, no state change
	c.Invoke(t, stackitem.Null{}, "destinationCallback", "wasm.xfer", successAck)
	c.InvokeFail(t, "counter not found", "getCount", hash)

	// transfer port but unsuccessful acknowledgement: same
	c.Invoke(t, stackitem.Null{}, "destinationCallback", "transfer", []byte(`{"error":"out of gas"}`))
	c.InvokeFail(t, "counter not found", "getCount", hash)

	// qualifying packet counts like a source acknowledgement
	h := c.Invoke(t, stackitem.Null{}, "destinationCallback", "transfer", successAck)
	aer := c.CheckHalt(t, h)
	require.Equal(t, 1, len(aer.Events))
	require.Equal(t, "DestinationCallback", aer.Events[0].Name)

	require.EqualValues(t, 1, getCount(t, c, hash))

	c.Invoke(t, stackitem.Null{}, "sourceCallback", int64(ackKind))
	require.EqualValues(t, 2, getCount(t, c, hash))

	acc := c.NewAccount(t)
	c.WithSigners(acc).InvokeFail(t, common.ErrAlphabetWitnessFailed, "destinationCallback", "transfer", successAck)
}

func TestTransferTimeoutScenario(t *testing.T) {
	c, hash := newCounterInvoker(t, 5)

	c.Invoke(t, int64(5), "getCount", c.CommitteeHash)

	c.Invoke(t, stackitem.Null{}, "transferFunds", "channel-1", "untrn", int64(25), dummyRecipient())

	// the transfer never completed
	c.Invoke(t, stackitem.Null{}, "sourceCallback", int64(timeoutKind))

	require.EqualValues(t, 10, getCount(t, c, hash))
	// the instantiating owner's record stays untouched
	c.Invoke(t, int64(5), "getCount", c.CommitteeHash)

	c.Invoke(t, stackitem.Null{}, "sourceCallback", int64(timeoutKind))
	require.EqualValues(t, 20, getCount(t, c, hash))
}

func TestIterateCounters(t *testing.T) {
	c, hash := newCounterInvoker(t, 3)

	s, err := c.TestInvoke(t, "iterateCounters")
	require.NoError(t, err)

	iter := s.Pop().Value().(*storage.Iterator)
	require.Equal(t, 1, len(iteratorToArray(iter)))

	c.Invoke(t, stackitem.Null{}, "sourceCallback", int64(ackKind))

	s, err = c.TestInvoke(t, "iterateCounters")
	require.NoError(t, err)

	iter = s.Pop().Value().(*storage.Iterator)
	items := iteratorToArray(iter)
	require.Equal(t, 2, len(items))

	for _, item := range items {
		kv := item.Value().([]stackitem.Item)
		owner, err := kv[0].TryBytes()
		require.NoError(t, err)

		counter := kv[1].Value().([]stackitem.Item)
		require.Equal(t, 3, len(counter))

		stored, err := counter[2].TryBytes()
		require.NoError(t, err)
		require.Equal(t, owner, stored)

		if string(owner) == string(hash.BytesBE()) {
			count, err := counter[0].TryInteger()
			require.NoError(t, err)
			require.EqualValues(t, 1, count.Int64())
		}
	}
}

func TestVersionAndDescriptor(t *testing.T) {
	c, _ := newCounterInvoker(t, 0)

	c.Invoke(t, int64(common.Version), "version")

	s, err := c.TestInvoke(t, "descriptor")
	require.NoError(t, err)

	stamp, err := s.Pop().Item().TryBytes()
	require.NoError(t, err)
	require.Equal(t, "counter-contract/"+strconv.Itoa(common.Version), string(stamp))
}

func TestUpdateAccess(t *testing.T) {
	c, _ := newCounterInvoker(t, 0)

	acc := c.NewAccount(t)
	c.WithSigners(acc).InvokeFail(t, "only committee can update contract", "update",
		[]byte{}, []byte{}, nil)
}
