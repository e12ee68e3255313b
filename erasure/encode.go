package erasure

// EncodedShard is one column (data or parity) of one stripe, ready to be
// wrapped as a namespaced leaf by the blob pipeline. LeafPayload carries
// only the meaningful bytes for data shards (no right-padding, per the
// encoded-leaf invariant); parity shards always carry exactly ShareBytes.
type EncodedShard struct {
	Stripe      int
	Col         int
	IsParity    bool
	LeafPayload []byte
	DataLen     int
}

// Encode partitions data into stripes and computes parity shards for each,
// returning shards in [data_0..data_{k-1}, parity_0..parity_{p-1}] order
// per stripe, stripes concatenated in block order. Total shards returned
// is stripes * n.
func Encode(data []byte, p Params) ([]EncodedShard, error) {
	stripes := PartitionBlob(data, p)
	gen := generatorMatrix(p)

	out := make([]EncodedShard, 0, len(stripes)*p.N)
	for _, stripe := range stripes {
		dataPayloads := make([][]byte, p.K)
		for c, shard := range stripe.Data {
			dataPayloads[c] = shard.Payload
			out = append(out, EncodedShard{
				Stripe:      shard.Stripe,
				Col:         shard.Col,
				IsParity:    false,
				LeafPayload: shard.Payload[:shard.DataLen],
				DataLen:     shard.DataLen,
			})
		}

		for r := 0; r < p.Parity(); r++ {
			row := gen[p.K+r]
			parity := make([]byte, p.ShareBytes)
			for off := 0; off < p.ShareBytes; off++ {
				parity[off] = mulRowVec(row, dataPayloads, off)
			}
			out = append(out, EncodedShard{
				Stripe:      stripe.Data[0].Stripe,
				Col:         p.K + r,
				IsParity:    true,
				LeafPayload: parity,
				DataLen:     p.ShareBytes,
			})
		}
	}
	return out, nil
}
