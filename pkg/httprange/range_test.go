package httprange

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		header string
		total  uint64
		want   Outcome
	}{
		{
			name:   "absent header",
			header: "",
			total:  1000,
			want:   Outcome{Kind: Full},
		},
		{
			name:   "open ended from zero",
			header: "bytes=0-",
			total:  1000,
			want:   Outcome{Kind: Partial, Range: ByteRange{Start: 0, End: 999, Total: 1000}},
		},
		{
			name:   "bounded interior range",
			header: "bytes=200-299",
			total:  1000,
			want:   Outcome{Kind: Partial, Range: ByteRange{Start: 200, End: 299, Total: 1000}},
		},
		{
			name:   "suffix range",
			header: "bytes=-100",
			total:  1000,
			want:   Outcome{Kind: Partial, Range: ByteRange{Start: 900, End: 999, Total: 1000}},
		},
		{
			name:   "suffix longer than resource",
			header: "bytes=-5000",
			total:  1000,
			want:   Outcome{Kind: Partial, Range: ByteRange{Start: 0, End: 999, Total: 1000}},
		},
		{
			name:   "zero length suffix",
			header: "bytes=-0",
			total:  1000,
			want:   Outcome{Kind: Unsatisfiable},
		},
		{
			name:   "end clamped to resource",
			header: "bytes=990-2000",
			total:  1000,
			want:   Outcome{Kind: Partial, Range: ByteRange{Start: 990, End: 999, Total: 1000}},
		},
		{
			name:   "start beyond resource",
			header: "bytes=1000-1005",
			total:  1000,
			want:   Outcome{Kind: Unsatisfiable},
		},
		{
			name:   "start after end",
			header: "bytes=300-200",
			total:  1000,
			want:   Outcome{Kind: Unsatisfiable},
		},
		{
			name:   "garbage spec",
			header: "bytes=abc",
			total:  500,
			want:   Outcome{Kind: Malformed},
		},
		{
			name:   "wrong unit",
			header: "items=0-10",
			total:  500,
			want:   Outcome{Kind: Malformed},
		},
		{
			name:   "multi range unsupported",
			header: "bytes=0-99,200-299",
			total:  1000,
			want:   Outcome{Kind: Malformed},
		},
		{
			name:   "empty spec",
			header: "bytes=",
			total:  1000,
			want:   Outcome{Kind: Malformed},
		},
		{
			name:   "whitespace tolerated",
			header: " bytes=0-49 ",
			total:  100,
			want:   Outcome{Kind: Partial, Range: ByteRange{Start: 0, End: 49, Total: 100}},
		},
		{
			name:   "any range on empty resource",
			header: "bytes=0-",
			total:  0,
			want:   Outcome{Kind: Unsatisfiable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.header, tt.total)
			if got != tt.want {
				t.Errorf("Parse(%q, %d) = %+v, want %+v", tt.header, tt.total, got, tt.want)
			}
		})
	}
}

func TestByteRangeHeaders(t *testing.T) {
	r := ByteRange{Start: 200, End: 299, Total: 1000}
	if r.Length() != 100 {
		t.Errorf("Length() = %d, want 100", r.Length())
	}
	if got := r.ContentRange(); got != "bytes 200-299/1000" {
		t.Errorf("ContentRange() = %q", got)
	}
	if got := ContentRangeUnsatisfied(1000); got != "bytes */1000" {
		t.Errorf("ContentRangeUnsatisfied() = %q", got)
	}
}
