// Package artifact defines the serialized trained-model bundle: the fitted
// vocabulary and classifier weights plus training metadata, written as
// zstd-compressed deterministic CBOR. The bundle is created by the offline
// trainer, loaded wholesale at server startup, and treated as immutable for
// the life of the process; retraining replaces it, never patches it.
package artifact

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/linnemanlabs/sift/internal/bayes"
	"github.com/linnemanlabs/sift/internal/textvec"
)

// FormatVersion is bumped on any incompatible change to the bundle layout.
const FormatVersion = 1

// ErrModelMissing reports an absent artifact file. Recoverable: the server
// starts in the model-missing fallback state instead of failing.
var ErrModelMissing = errors.New("artifact: model file missing")

// Bundle is the single serialized model artifact.
type Bundle struct {
	FormatVersion int       `cbor:"format_version"`
	RunID         string    `cbor:"run_id"`
	TrainedAt     time.Time `cbor:"trained_at"`
	CorpusSize    int       `cbor:"corpus_size"`
	Accuracy      float64   `cbor:"accuracy"`

	Vocabulary *textvec.Vocabulary `cbor:"vocabulary"`
	Weights    *bayes.Weights      `cbor:"weights"`
}

// encMode uses core deterministic encoding so the same trained model always
// serializes to identical bytes.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("artifact: CBOR encoder initialization failed: " + err.Error())
	}
}

// Save writes the bundle atomically: encode, compress, write to a temp file
// in the target directory, then rename into place.
func Save(path string, b *Bundle) error {
	if err := validate(b); err != nil {
		return err
	}

	raw, err := encMode.Marshal(b)
	if err != nil {
		return fmt.Errorf("artifact: encode: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("artifact: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".model-*.tmp")
	if err != nil {
		return fmt.Errorf("artifact: temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	zw, err := zstd.NewWriter(tmp)
	if err != nil {
		return fmt.Errorf("artifact: zstd writer: %w", err)
	}
	if _, err := zw.Write(raw); err != nil {
		return fmt.Errorf("artifact: compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("artifact: flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("artifact: close temp: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("artifact: rename into place: %w", err)
	}
	return nil
}

// Load reads and validates a bundle. A missing file returns ErrModelMissing;
// any structural problem (version skew, dimension mismatch) is a fatal
// configuration error for the caller to abort on.
func Load(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelMissing, path)
		}
		return nil, fmt.Errorf("artifact: open: %w", err)
	}
	defer func() { _ = f.Close() }()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("artifact: zstd reader: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("artifact: decompress: %w", err)
	}

	var b Bundle
	if err := cbor.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("artifact: decode: %w", err)
	}
	if err := validate(&b); err != nil {
		return nil, err
	}
	b.Vocabulary.Reindex()
	return &b, nil
}

func validate(b *Bundle) error {
	if b.FormatVersion != FormatVersion {
		return fmt.Errorf("artifact: format version %d, want %d", b.FormatVersion, FormatVersion)
	}
	if b.Vocabulary == nil || b.Weights == nil {
		return errors.New("artifact: bundle missing vocabulary or weights")
	}
	if b.Vocabulary.Dim() != b.Weights.Dim() {
		return fmt.Errorf("artifact: vocabulary dim %d, weights dim %d: %w",
			b.Vocabulary.Dim(), b.Weights.Dim(), bayes.ErrDimensionMismatch)
	}
	return nil
}
