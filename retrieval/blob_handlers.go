package retrieval

import (
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/animica/da/daerrors"
	"github.com/animica/da/hashutil"
	"github.com/animica/da/namespace"
	"github.com/animica/da/receipt"
)

type postBlobResponse struct {
	Commitment string `json:"commitment"`
	Namespace  uint32 `json:"namespace"`
	Size       int64  `json:"size"`
	Receipt    string `json:"receipt,omitempty"`
}

// handlePostBlob accepts a raw-bytes body under ?ns=<uint>, commits it to
// the store, and optionally attaches a signed receipt.
func (s *Server) handlePostBlob(w http.ResponseWriter, r *http.Request) {
	nsParam := r.URL.Query().Get("ns")
	nsRaw, err := strconv.ParseUint(nsParam, 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, daerrors.KindValidation, "missing or invalid ns query parameter")
		return
	}
	ns, err := namespace.New(uint32(nsRaw))
	if err != nil {
		writeErrForErr(w, s.log, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, daerrors.KindResource, "body exceeds size cap")
		return
	}

	ref, err := s.store.AddBytes(data, ns)
	if err != nil {
		writeErrForErr(w, s.log, err)
		return
	}
	rec, err := s.store.Stat(ref.Root)
	if err != nil {
		writeErrForErr(w, s.log, err)
		return
	}

	resp := postBlobResponse{
		Commitment: "0x" + ref.StorageKey,
		Namespace:  uint32(ns),
		Size:       rec.Size,
	}

	if s.cfg.SignFn != nil {
		sb := receipt.New(s.cfg.ChainID, ref.Root, uint32(ns), rec.Size, s.cfg.PolicyRoot, s.cfg.AlgID, s.cfg.Signer, time.Now().Unix())
		w2, err := receipt.Sign(sb, s.cfg.SignFn)
		if err != nil {
			s.log.Error("receipt signing failed", zap.Error(err))
		} else if enc, err := w2.Marshal(); err == nil {
			resp.Receipt = hex.EncodeToString(enc)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// parseRange parses a single-range "bytes=..." header per RFC 7233's
// byte-range-spec / suffix-byte-range-spec, rejecting multi-range requests.
// Returns (start, end inclusive, ranged, err); ranged is false when header
// is empty and the whole body applies.
func parseRange(header string, size int64) (int64, int64, bool, error) {
	if header == "" {
		return 0, size - 1, false, nil
	}
	if strings.Contains(header, ",") {
		return 0, 0, false, fmt.Errorf("%w: multiple ranges not supported", daerrors.ErrValidation)
	}
	if !strings.HasPrefix(header, "bytes=") {
		return 0, 0, false, fmt.Errorf("%w: unsupported range unit", daerrors.ErrValidation)
	}
	spec := strings.TrimPrefix(header, "bytes=")
	parts := strings.SplitN(spec, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false, fmt.Errorf("%w: malformed range", daerrors.ErrValidation)
	}

	if parts[0] == "" {
		// suffix range: -N means the last N bytes.
		n, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || n <= 0 {
			return 0, 0, false, fmt.Errorf("%w: malformed suffix range", daerrors.ErrValidation)
		}
		if n > size {
			n = size
		}
		return size - n, size - 1, true, nil
	}

	start, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || start < 0 || start >= size {
		return 0, 0, false, fmt.Errorf("%w: range start out of bounds", daerrors.ErrValidation)
	}
	if parts[1] == "" {
		return start, size - 1, true, nil
	}
	end, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || end < start {
		return 0, 0, false, fmt.Errorf("%w: malformed range end", daerrors.ErrValidation)
	}
	if end >= size {
		end = size - 1
	}
	return start, end, true, nil
}

// handleGetBlob serves full or single-range blob bytes with a strong ETag.
func (s *Server) handleGetBlob(w http.ResponseWriter, r *http.Request) {
	root, err := parseCommitmentParam(chi.URLParam(r, "commitment"))
	if err != nil {
		writeErrForErr(w, s.log, err)
		return
	}

	data, err := s.store.Read(root)
	if err != nil {
		writeErrForErr(w, s.log, err)
		return
	}

	etag := `"` + hex.EncodeToString(root[:]) + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Accept-Ranges", "bytes")

	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	size := int64(len(data))
	start, end, ranged, err := parseRange(r.Header.Get("Range"), size)
	if err != nil {
		writeErrForErr(w, s.log, err)
		return
	}

	if !ranged {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end, size))
	w.Header().Set("Content-Length", strconv.FormatInt(end-start+1, 10))
	w.WriteHeader(http.StatusPartialContent)
	_, _ = w.Write(data[start : end+1])
}

func parseCommitmentParam(raw string) ([hashutil.Size]byte, error) {
	raw = strings.TrimPrefix(raw, "0x")
	b, err := hex.DecodeString(raw)
	if err != nil || len(b) != hashutil.Size {
		return [hashutil.Size]byte{}, fmt.Errorf("%w: malformed commitment %q", daerrors.ErrValidation, raw)
	}
	var out [hashutil.Size]byte
	copy(out[:], b)
	return out, nil
}
