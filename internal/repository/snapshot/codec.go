package snapshot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/kailas-cloud/cinedex/internal/engine/lexical"
)

var errCorrupt = errors.New("corrupt snapshot value")

// encodeLengths writes one uvarint per document.
func encodeLengths(lengths []int32) []byte {
	buf := make([]byte, 0, len(lengths)*2)
	for _, l := range lengths {
		buf = binary.AppendUvarint(buf, uint64(l))
	}
	return buf
}

func decodeLengths(data []byte) ([]int32, error) {
	out := make([]int32, 0, len(data))
	for len(data) > 0 {
		v, n := binary.Uvarint(data)
		if n <= 0 || v > math.MaxInt32 {
			return nil, errCorrupt
		}
		out = append(out, int32(v))
		data = data[n:]
	}
	return out, nil
}

// encodePostings writes (doc delta, tf) uvarint pairs. Postings must be
// sorted by document.
func encodePostings(ps []lexical.Posting) []byte {
	buf := make([]byte, 0, len(ps)*2)
	var prev int32
	for _, p := range ps {
		buf = binary.AppendUvarint(buf, uint64(p.Doc-prev))
		buf = binary.AppendUvarint(buf, uint64(p.TF))
		prev = p.Doc
	}
	return buf
}

func decodePostings(data []byte) ([]lexical.Posting, error) {
	var out []lexical.Posting
	var doc uint64
	for len(data) > 0 {
		delta, n := binary.Uvarint(data)
		if n <= 0 {
			return nil, errCorrupt
		}
		data = data[n:]
		tf, m := binary.Uvarint(data)
		if m <= 0 {
			return nil, fmt.Errorf("%w: truncated posting", errCorrupt)
		}
		data = data[m:]
		doc += delta
		if doc > math.MaxInt32 || tf > math.MaxInt32 {
			return nil, errCorrupt
		}
		out = append(out, lexical.Posting{Doc: int32(doc), TF: int32(tf)})
	}
	return out, nil
}
