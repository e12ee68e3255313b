package receipt

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/bech32"

	"github.com/animica/da/daerrors"
)

// bech32mConst is BIP-350's checksum constant. The vendored
// github.com/btcsuite/btcutil/bech32 predates bech32m (it only implements
// the original BIP-173 constant, 1), so this file layers the bech32m
// checksum on top of the library's ConvertBits bit-regrouping rather than
// vendoring a newer bech32 package.
const bech32mConst = 0x2bc830a3

const charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

func polymod(values []int) int {
	gen := [5]int{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}
	chk := 1
	for _, v := range values {
		b := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ v
		for i := 0; i < 5; i++ {
			if (b>>uint(i))&1 == 1 {
				chk ^= gen[i]
			}
		}
	}
	return chk
}

func hrpExpand(hrp string) []int {
	ret := make([]int, 0, len(hrp)*2+1)
	for _, c := range hrp {
		ret = append(ret, int(c)>>5)
	}
	ret = append(ret, 0)
	for _, c := range hrp {
		ret = append(ret, int(c)&31)
	}
	return ret
}

func createChecksumM(hrp string, data []int) []int {
	values := append(hrpExpand(hrp), data...)
	values = append(values, 0, 0, 0, 0, 0, 0)
	mod := polymod(values) ^ bech32mConst
	ret := make([]int, 6)
	for i := range ret {
		ret[i] = (mod >> uint(5*(5-i))) & 31
	}
	return ret
}

// EncodeAddress encodes data as a lowercase bech32m string with human
// readable prefix hrp.
func EncodeAddress(hrp string, data []byte) (string, error) {
	converted, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("%w: bech32m convert bits: %v", daerrors.ErrValidation, err)
	}
	values := make([]int, len(converted))
	for i, b := range converted {
		values[i] = int(b)
	}
	checksum := createChecksumM(hrp, values)
	combined := append(values, checksum...)

	var sb strings.Builder
	sb.WriteString(hrp)
	sb.WriteByte('1')
	for _, v := range combined {
		sb.WriteByte(charset[v])
	}
	return sb.String(), nil
}

// DecodeAddress decodes a lowercase bech32m string, returning its hrp and
// payload bytes. It rejects malformed strings and checksum failures.
func DecodeAddress(addr string) (hrp string, data []byte, err error) {
	if addr != strings.ToLower(addr) {
		return "", nil, fmt.Errorf("%w: bech32m address must be lowercase", daerrors.ErrValidation)
	}
	sep := strings.LastIndexByte(addr, '1')
	if sep < 1 || sep+7 > len(addr) {
		return "", nil, fmt.Errorf("%w: malformed bech32m address", daerrors.ErrValidation)
	}
	hrp = addr[:sep]
	dataPart := addr[sep+1:]

	values := make([]int, len(dataPart))
	for i, c := range dataPart {
		idx := strings.IndexRune(charset, c)
		if idx < 0 {
			return "", nil, fmt.Errorf("%w: invalid bech32m character %q", daerrors.ErrValidation, c)
		}
		values[i] = idx
	}

	full := append(hrpExpand(hrp), values...)
	if polymod(full) != bech32mConst {
		return "", nil, fmt.Errorf("%w: bech32m checksum mismatch", daerrors.ErrValidation)
	}

	payloadValues := values[:len(values)-6]
	converted := make([]byte, len(payloadValues))
	for i, v := range payloadValues {
		converted[i] = byte(v)
	}
	data, err = bech32.ConvertBits(converted, 5, 8, false)
	if err != nil {
		return "", nil, fmt.Errorf("%w: bech32m convert bits: %v", daerrors.ErrValidation, err)
	}
	return hrp, data, nil
}
