package p2p

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitmentTopicDevnet(t *testing.T) {
	assert.Equal(t, "animica/da/v1/chain/1337/commitment", CommitmentTopic(1337))
}

func TestSamplesTopicWithNamespace(t *testing.T) {
	ns := uint64(24)
	assert.Equal(t, "animica/da/v1/chain/1/samples/ns/24", SamplesTopic(1, &ns))
}

func TestParseTopicRoundTrip(t *testing.T) {
	ns := uint64(24)
	topic, err := BuildTopic(KindShares, 7, &ns, "v1")
	require.NoError(t, err)

	parts, err := ParseTopic(topic)
	require.NoError(t, err)
	assert.Equal(t, "v1", parts.Version)
	assert.EqualValues(t, 7, parts.ChainID)
	assert.Equal(t, KindShares, parts.Kind)
	require.NotNil(t, parts.Namespace)
	assert.EqualValues(t, 24, *parts.Namespace)
}

func TestParseTopicRejectsMalformed(t *testing.T) {
	_, err := ParseTopic("not/a/topic")
	assert.Error(t, err)

	_, err = ParseTopic("animica/da/v1/chain/1/bogus-kind")
	assert.Error(t, err)
}

func TestBuildTopicRejectsBadVersion(t *testing.T) {
	_, err := BuildTopic(KindCommitment, 1, nil, "version-2")
	assert.Error(t, err)
}

func TestBuildTopicRejectsNamespaceOverflow(t *testing.T) {
	ns := uint64(1) << 40
	_, err := BuildTopic(KindSamples, 1, &ns, "v1")
	assert.Error(t, err)
}
