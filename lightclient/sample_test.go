package lightclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animica/da/daroot"
	"github.com/animica/da/namespace"
	"github.com/animica/da/nmt"
	"github.com/animica/da/sampling"
)

func buildTestTree(t *testing.T, n int) (*nmt.Builder, [32]byte, []namespace.ID, [][]byte) {
	t.Helper()
	b := nmt.NewBuilder()
	nss := make([]namespace.ID, n)
	payloads := make([][]byte, n)
	for i := 0; i < n; i++ {
		// Namespaces 1..3 in non-decreasing order, as the verifier requires.
		ns, err := namespace.New(uint32(i*3/n + 1))
		require.NoError(t, err)
		payload := []byte{byte(i), byte(i + 1)}
		require.NoError(t, b.Append(ns, payload))
		nss[i] = ns
		payloads[i] = payload
	}
	root, err := b.Finalize()
	require.NoError(t, err)
	return b, root, nss, payloads
}

func TestDrawIndicesDeterministicWithSeed(t *testing.T) {
	seed := int64(42)
	a, err := DrawIndices(100, 10, &seed)
	require.NoError(t, err)
	b, err := DrawIndices(100, 10, &seed)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 10)
}

func TestDrawIndicesClampsToTotal(t *testing.T) {
	seed := int64(1)
	out, err := DrawIndices(5, 100, &seed)
	require.NoError(t, err)
	assert.Len(t, out, 5)
}

func TestSampleAcceptsValidProofs(t *testing.T) {
	builder, root, nss, payloads := buildTestTree(t, 16)

	fetch := func(ctx context.Context, index int) (SampleLeaf, error) {
		proof, err := builder.InclusionProof(index)
		if err != nil {
			return SampleLeaf{}, err
		}
		return SampleLeaf{Namespace: nss[index], Payload: payloads[index], Proof: proof}, nil
	}

	plan, err := sampling.PlanSamples(8, 16, 4, 1, 1e-6)
	require.NoError(t, err)
	if plan.Samples > 16 {
		plan.Samples = 16
	}

	report, err := Sample(context.Background(), root, 16, plan, fetch, nil, int64Ptr(7))
	require.NoError(t, err)
	assert.True(t, report.Accepted)
	assert.Empty(t, report.FailedIndices)
}

func TestSampleRejectsTamperedLeaf(t *testing.T) {
	builder, root, nss, payloads := buildTestTree(t, 8)

	fetch := func(ctx context.Context, index int) (SampleLeaf, error) {
		proof, err := builder.InclusionProof(index)
		if err != nil {
			return SampleLeaf{}, err
		}
		payload := append([]byte(nil), payloads[index]...)
		if index == 0 {
			payload = []byte{0xFF, 0xFF}
		}
		return SampleLeaf{Namespace: nss[index], Payload: payload, Proof: proof}, nil
	}

	report, err := Sample(context.Background(), root, 8, sampling.Plan{Samples: 8}, fetch, []int{0, 1, 2}, nil)
	require.NoError(t, err)
	assert.False(t, report.Accepted)
	assert.Contains(t, report.FailedIndices, 0)
}

func TestRequireLeavesModeRejectsCommitments(t *testing.T) {
	assert.NoError(t, RequireLeavesMode(daroot.ModeLeaves))
	assert.Error(t, RequireLeavesMode(daroot.ModeCommitments))
}

func int64Ptr(v int64) *int64 { return &v }
