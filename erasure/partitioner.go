package erasure

// Shard is one fixed-size column of a stripe. Payload is always exactly
// Params.ShareBytes long; DataLen records the meaningful prefix length. It
// is less than len(Payload) only for the shard that straddles the blob's
// true end and for the pure-padding shards after it (DataLen 0, IsPadding
// set); see PartitionBlob.
type Shard struct {
	Stripe    int
	Col       int
	Payload   []byte
	DataLen   int
	IsPadding bool
}

// Stripe holds exactly Params.K data shards, in column order.
type Stripe struct {
	Data []Shard
}

// PartitionBlob right-pads data with zeros to a multiple of k*share_bytes
// and splits it into stripes of k fixed-size data shards. At most one
// shard overall (present only if data's length is not a multiple of
// share_bytes) has 0 < DataLen < share_bytes; every shard before the
// blob's end is full (DataLen == share_bytes) and every shard after it is
// pure padding (DataLen 0).
func PartitionBlob(data []byte, p Params) []Stripe {
	layout := NewLayout(p, int64(len(data)))
	stripeBytes := p.StripePayload()

	padded := make([]byte, layout.Stripes*stripeBytes)
	copy(padded, data)

	stripes := make([]Stripe, layout.Stripes)
	for s := 0; s < layout.Stripes; s++ {
		shards := make([]Shard, p.K)
		for c := 0; c < p.K; c++ {
			start := s*stripeBytes + c*p.ShareBytes
			payload := make([]byte, p.ShareBytes)
			copy(payload, padded[start:start+p.ShareBytes])

			remaining := int64(len(data)) - int64(start)
			var dataLen int
			switch {
			case remaining <= 0:
				dataLen = 0
			case remaining >= int64(p.ShareBytes):
				dataLen = p.ShareBytes
			default:
				dataLen = int(remaining)
			}
			shards[c] = Shard{
				Stripe:    s,
				Col:       c,
				Payload:   payload,
				DataLen:   dataLen,
				IsPadding: dataLen == 0,
			}
		}
		stripes[s] = Stripe{Data: shards}
	}
	return stripes
}
