package httprange

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind classifies the outcome of parsing a Range header.
type Kind int

const (
	// Full means no usable range was requested: serve the whole resource
	// with status 200.
	Full Kind = iota
	// Partial carries a satisfiable byte interval: serve 206.
	Partial
	// Unsatisfiable means the range lies outside the resource: serve 416.
	Unsatisfiable
	// Malformed means the header was present but not a single well-formed
	// bytes range. Callers ignore it and serve the full resource, which is
	// what browsers expect from a lenient origin.
	Malformed
)

// String returns the kind as a stable lowercase label.
func (k Kind) String() string {
	switch k {
	case Partial:
		return "partial"
	case Unsatisfiable:
		return "unsatisfiable"
	case Malformed:
		return "malformed"
	default:
		return "full"
	}
}

// ByteRange is an inclusive [Start, End] interval within a resource of
// Total bytes. Invariant: 0 <= Start <= End < Total.
type ByteRange struct {
	Start uint64
	End   uint64
	Total uint64
}

// Length returns the number of bytes the range covers.
func (r ByteRange) Length() uint64 {
	return r.End - r.Start + 1
}

// ContentRange renders the Content-Range header value for a 206 response.
func (r ByteRange) ContentRange() string {
	return fmt.Sprintf("bytes %d-%d/%d", r.Start, r.End, r.Total)
}

// ContentRangeUnsatisfied renders the Content-Range header for a 416
// response against a resource of the given length.
func ContentRangeUnsatisfied(total uint64) string {
	return fmt.Sprintf("bytes */%d", total)
}

// Outcome is the parse result. Range is meaningful only when Kind is Partial.
type Outcome struct {
	Kind  Kind
	Range ByteRange
}

// Parse interprets an HTTP Range header against a resource of total bytes.
// Only single bytes ranges are supported; multi-range requests are treated
// as malformed and fall back to a full response.
func Parse(header string, total uint64) Outcome {
	if header == "" {
		return Outcome{Kind: Full}
	}

	spec, ok := strings.CutPrefix(strings.TrimSpace(header), "bytes=")
	if !ok {
		return Outcome{Kind: Malformed}
	}
	spec = strings.TrimSpace(spec)
	if spec == "" || strings.Contains(spec, ",") {
		return Outcome{Kind: Malformed}
	}

	dash := strings.Index(spec, "-")
	if dash < 0 {
		return Outcome{Kind: Malformed}
	}
	startStr, endStr := spec[:dash], spec[dash+1:]

	// Suffix form "-N": the last N bytes.
	if startStr == "" {
		n, err := strconv.ParseUint(endStr, 10, 64)
		if err != nil {
			return Outcome{Kind: Malformed}
		}
		if n == 0 || total == 0 {
			return Outcome{Kind: Unsatisfiable}
		}
		if n >= total {
			n = total
		}
		return Outcome{Kind: Partial, Range: ByteRange{Start: total - n, End: total - 1, Total: total}}
	}

	start, err := strconv.ParseUint(startStr, 10, 64)
	if err != nil {
		return Outcome{Kind: Malformed}
	}

	end := uint64(0)
	if endStr == "" {
		if total == 0 {
			return Outcome{Kind: Unsatisfiable}
		}
		end = total - 1
	} else {
		end, err = strconv.ParseUint(endStr, 10, 64)
		if err != nil {
			return Outcome{Kind: Malformed}
		}
	}

	if start > end || start >= total {
		return Outcome{Kind: Unsatisfiable}
	}
	if end > total-1 {
		end = total - 1
	}
	return Outcome{Kind: Partial, Range: ByteRange{Start: start, End: end, Total: total}}
}
