package xio

import (
	"github.com/pierrec/lz4/v4"
)

// HCLevelMin and HCLevelMax bound the high-compression level accepted by
// NewLZ4Writer. The Writer only ever asks for "fast" or one reasonable
// high-compression setting, never the full lz4.CompressionLevel space
// pierrec/lz4 exposes.
const (
	HCLevelMin = -5
	HCLevelMax = 3
)

// LZ4Reader adapts an LZ4-framed Adapter to a plain Adapter whose Read
// calls yield the decompressed chunk stream. Close closes the underlying
// framed adapter.
type LZ4Reader struct {
	under Adapter
	zr    *lz4.Reader
}

// NewLZ4Reader wraps under, an Adapter positioned at the start of an LZ4
// frame, for transparent decompressed reads.
func NewLZ4Reader(under Adapter) *LZ4Reader {
	return &LZ4Reader{under: under, zr: lz4.NewReader(under)}
}

func (r *LZ4Reader) Read(p []byte) (int, error) { return r.zr.Read(p) }

func (r *LZ4Reader) Write([]byte) (int, error) { return 0, ErrWrongDirection }

func (r *LZ4Reader) Close() error { return r.under.Close() }

// LZ4Writer adapts a plain Adapter to write an LZ4 frame, in either fast
// or high-compression mode. Close flushes the frame footer and then
// closes the underlying adapter.
type LZ4Writer struct {
	under Adapter
	zw    *lz4.Writer
}

// hcLevels maps this module's [HCLevelMin, HCLevelMax] range onto
// pierrec/lz4's named high-compression levels, index 0 being the lightest.
var hcLevels = [...]lz4.CompressionLevel{
	lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4, lz4.Level5,
	lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9,
}

// NewLZ4Writer wraps under for LZ4-framed writes. hc selects the
// high-compression path; level is ignored unless hc is true, and is
// clamped to [HCLevelMin, HCLevelMax].
func NewLZ4Writer(under Adapter, hc bool, level int) *LZ4Writer {
	zw := lz4.NewWriter(under)
	var opt lz4.Option
	if hc {
		if level < HCLevelMin {
			level = HCLevelMin
		}
		if level > HCLevelMax {
			level = HCLevelMax
		}
		opt = lz4.CompressionLevelOption(hcLevels[level-HCLevelMin])
	} else {
		opt = lz4.CompressionLevelOption(lz4.Fast)
	}
	_ = zw.Apply(opt)
	return &LZ4Writer{under: under, zw: zw}
}

func (w *LZ4Writer) Write(p []byte) (int, error) { return w.zw.Write(p) }

func (w *LZ4Writer) Read([]byte) (int, error) { return 0, ErrWrongDirection }

func (w *LZ4Writer) Close() error {
	if err := w.zw.Close(); err != nil {
		return err
	}
	return w.under.Close()
}
