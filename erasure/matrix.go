package erasure

import (
	"fmt"

	"github.com/animica/da/daerrors"
)

// matrix is a row-major GF(2^8) matrix.
type matrix [][]byte

func newMatrix(rows, cols int) matrix {
	m := make(matrix, rows)
	for i := range m {
		m[i] = make([]byte, cols)
	}
	return m
}

// generatorMatrix builds the systematic n x k matrix G = [I_k; V] where
// V[r][j] = alpha^(r*j) for r in [0,parity), j in [0,k).
func generatorMatrix(p Params) matrix {
	g := newMatrix(p.N, p.K)
	for i := 0; i < p.K; i++ {
		g[i][i] = 1
	}
	for r := 0; r < p.Parity(); r++ {
		for j := 0; j < p.K; j++ {
			g[p.K+r][j] = Pow(generator, r*j)
		}
	}
	return g
}

// subMatrix extracts the rows at the given indices, in order.
func (m matrix) subMatrix(rows []int) matrix {
	out := make(matrix, len(rows))
	for i, r := range rows {
		out[i] = m[r]
	}
	return out
}

// invert computes the inverse of a square matrix via Gauss-Jordan
// elimination over GF(2^8), augmenting with the identity.
func (m matrix) invert() (matrix, error) {
	n := len(m)
	aug := newMatrix(n, 2*n)
	for i := 0; i < n; i++ {
		copy(aug[i][:n], m[i])
		aug[i][n+i] = 1
	}

	for col := 0; col < n; col++ {
		pivot := -1
		for row := col; row < n; row++ {
			if aug[row][col] != 0 {
				pivot = row
				break
			}
		}
		if pivot == -1 {
			return nil, fmt.Errorf("%w: singular matrix, no pivot in column %d", daerrors.ErrDecodeFailure, col)
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		inv := Inv(aug[col][col])
		for c := 0; c < 2*n; c++ {
			aug[col][c] = Mul(aug[col][c], inv)
		}

		for row := 0; row < n; row++ {
			if row == col {
				continue
			}
			factor := aug[row][col]
			if factor == 0 {
				continue
			}
			for c := 0; c < 2*n; c++ {
				aug[row][c] ^= Mul(factor, aug[col][c])
			}
		}
	}

	inv := newMatrix(n, n)
	for i := 0; i < n; i++ {
		copy(inv[i], aug[i][n:])
	}
	return inv, nil
}

// mulRowVec computes dot(row, vec) over GF(2^8).
func mulRowVec(row []byte, vecs [][]byte, byteOffset int) byte {
	var acc byte
	for i, coeff := range row {
		if coeff == 0 {
			continue
		}
		acc ^= Mul(coeff, vecs[i][byteOffset])
	}
	return acc
}
