// Package p2p implements the canonical gossip topic grammar for
// data-availability messages: commitment announcements, share/range
// availability, and sampling responses.
package p2p

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/animica/da/daerrors"
)

// Prefix and Version fix the topic namespace. Version bumps constitute a
// wire change, per the grammar's own versioning rule.
const (
	Prefix  = "animica/da"
	Version = "v1"
)

// Kind names one of the three DA gossip message classes.
type Kind string

const (
	KindCommitment Kind = "commitment"
	KindShares     Kind = "shares"
	KindSamples    Kind = "samples"
)

func (k Kind) valid() bool {
	switch k {
	case KindCommitment, KindShares, KindSamples:
		return true
	default:
		return false
	}
}

const maxNamespace = (uint64(1) << 32) - 1

var topicRE = regexp.MustCompile(
	`^animica/da/(v[0-9]+)/chain/([0-9]+)/(commitment|shares|samples)(?:/ns/([0-9]+))?$`,
)

// TopicParts is a parsed topic string.
type TopicParts struct {
	Version   string
	ChainID   uint64
	Kind      Kind
	Namespace *uint64
}

// BuildTopic constructs a canonical topic string. namespace is optional;
// pass nil to omit the /ns/<id> qualifier.
func BuildTopic(kind Kind, chainID uint64, namespace *uint64, version string) (string, error) {
	if version == "" {
		version = Version
	}
	if !kind.valid() {
		return "", fmt.Errorf("%w: unknown topic kind %q", daerrors.ErrValidation, kind)
	}
	if len(version) < 2 || version[0] != 'v' {
		return "", fmt.Errorf("%w: version must look like \"v1\", got %q", daerrors.ErrValidation, version)
	}
	for _, c := range version[1:] {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("%w: version must look like \"v1\", got %q", daerrors.ErrValidation, version)
		}
	}
	if namespace != nil && *namespace > maxNamespace {
		return "", fmt.Errorf("%w: namespace %d exceeds uint32 range", daerrors.ErrValidation, *namespace)
	}

	base := fmt.Sprintf("%s/%s/chain/%d/%s", Prefix, version, chainID, kind)
	if namespace != nil {
		return fmt.Sprintf("%s/ns/%d", base, *namespace), nil
	}
	return base, nil
}

// CommitmentTopic is the topic for announcing new blob commitments.
func CommitmentTopic(chainID uint64) string {
	topic, _ := BuildTopic(KindCommitment, chainID, nil, Version)
	return topic
}

// SharesTopic is the topic for share/range availability announcements,
// optionally scoped to a namespace.
func SharesTopic(chainID uint64, namespace *uint64) string {
	topic, _ := BuildTopic(KindShares, chainID, namespace, Version)
	return topic
}

// SamplesTopic is the topic for publishing DAS sample responses,
// optionally scoped to a namespace.
func SamplesTopic(chainID uint64, namespace *uint64) string {
	topic, _ := BuildTopic(KindSamples, chainID, namespace, Version)
	return topic
}

// ParseTopic parses topic back into its structured components, rejecting
// anything not matching the canonical grammar.
func ParseTopic(topic string) (TopicParts, error) {
	m := topicRE.FindStringSubmatch(topic)
	if m == nil {
		return TopicParts{}, fmt.Errorf("%w: invalid DA topic %q", daerrors.ErrValidation, topic)
	}
	chainID, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		return TopicParts{}, fmt.Errorf("%w: invalid chain id in topic %q", daerrors.ErrValidation, topic)
	}
	parts := TopicParts{Version: m[1], ChainID: chainID, Kind: Kind(m[3])}
	if m[4] != "" {
		ns, err := strconv.ParseUint(m[4], 10, 64)
		if err != nil || ns > maxNamespace {
			return TopicParts{}, fmt.Errorf("%w: invalid namespace in topic %q", daerrors.ErrValidation, topic)
		}
		parts.Namespace = &ns
	}
	return parts, nil
}
