package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

const (
	snapshotTimeLayout = "20060102_150405"
	snapshotPrefix     = "products_"
	snapshotSuffix     = ".json"
)

// SnapshotGlob matches snapshot filenames in the backup directory. The
// timestamp layout sorts lexicographically, so the greatest match is the
// newest snapshot.
const SnapshotGlob = snapshotPrefix + "*" + snapshotSuffix

// jsonPrice marshals as a bare JSON number instead of decimal's default
// quoted string, keeping snapshots interchangeable with ones written by
// other tooling. Unmarshalling accepts both forms.
type jsonPrice struct {
	decimal.Decimal
}

func (p jsonPrice) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

// SnapshotProduct is one catalog entry in the exchange format.
type SnapshotProduct struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       jsonPrice `json:"price"`
	Category    string    `json:"category"`
	ImagePath   *string   `json:"image_path"`
}

func snapshotFilename(ts time.Time) string {
	return snapshotPrefix + ts.Format(snapshotTimeLayout) + snapshotSuffix
}

func encodeSnapshot(entries []SnapshotProduct) ([]byte, error) {
	return json.MarshalIndent(entries, "", "    ")
}

func decodeSnapshot(data []byte) ([]SnapshotProduct, error) {
	var entries []SnapshotProduct
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// writeSnapshot creates the file exclusively; an existing snapshot is never
// overwritten.
func writeSnapshot(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}
