package dataset

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"github.com/smartmove-bcn/mobility-backend-go/internal/models"
)

// nameColumn is the explicit identifier column of the measures file; when it
// is absent the first column is used instead.
const nameColumn = "Nom_Barri"

// measureRow is one measures-file row after cleaning. The raw area name is
// join input only; the boundary attribute is canonical for display.
type measureRow struct {
	Values  map[string]float64
	Cluster int // -1 when unparseable; only meaningful if hasClusters
}

// measuresTable is the cleaned measures file, indexed by normalized join key.
// Duplicate keys keep the last row, matching the lossy-default join policy.
type measuresTable struct {
	byKey            map[string]measureRow
	hasClusters      bool
	coercionFailures map[string]int
}

// normalizeKey builds the join key: trimmed, lowercased area name.
func normalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// coerceNumber applies the silent-zero policy: anything that does not parse
// as a number becomes 0.
func coerceNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// loadMeasures reads and cleans the tabular measures file.
func loadMeasures(path string) (*measuresTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open measures file: %w", err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("failed to read measures file: %w", df.Err)
	}
	if df.Ncol() == 0 {
		return nil, fmt.Errorf("measures file has no columns")
	}

	header := df.Names()
	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[name] = i
	}

	nameIdx := 0
	if idx, ok := colIndex[nameColumn]; ok {
		nameIdx = idx
	}
	clusterIdx, hasClusters := colIndex[models.ClusterColumn]

	table := &measuresTable{
		byKey:            make(map[string]measureRow),
		hasClusters:      hasClusters,
		coercionFailures: make(map[string]int),
	}

	records := df.Records() // first record is the header
	for _, rec := range records[1:] {
		if nameIdx >= len(rec) {
			continue
		}
		name := rec[nameIdx]

		row := measureRow{
			Values:  make(map[string]float64, len(models.MeasureColumns)),
			Cluster: -1,
		}

		for _, col := range models.MeasureColumns {
			idx, ok := colIndex[col]
			if !ok || idx >= len(rec) {
				row.Values[col] = 0
				continue
			}
			v, ok := coerceNumber(rec[idx])
			if !ok {
				table.coercionFailures[col]++
			}
			row.Values[col] = v
		}

		if hasClusters && clusterIdx < len(rec) {
			// Cluster ids may arrive as "3" or "3.0"; both parse as float.
			if v, ok := coerceNumber(rec[clusterIdx]); ok {
				row.Cluster = int(v)
			} else {
				table.coercionFailures[models.ClusterColumn]++
			}
		}

		table.byKey[normalizeKey(name)] = row
	}

	return table, nil
}
