package registry

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	id "storepulse/pkg/domain"
	dErrors "storepulse/pkg/domain-errors"
)

// LoadStats summarizes a directory load.
type LoadStats struct {
	Regions  int
	Branches int
	Stores   int
	Skipped  int
}

// LoadFromCSV populates the directory from the store user-management export:
// comma-delimited, header row with at least Site Code, Display Name, City,
// Province, Region, and Branch columns. Regions and branches are deduplicated
// by name; rows missing a site code or hierarchy are counted and skipped.
func LoadFromCSV(ctx context.Context, dir Directory, r io.Reader) (LoadStats, error) {
	var stats LoadStats

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return stats, dErrors.Wrap(err, dErrors.CodeConfigurationDefect, "read store registry table")
	}
	if len(records) < 2 {
		return stats, dErrors.New(dErrors.CodeConfigurationDefect, "store registry table has no data rows")
	}

	col := make(map[string]int)
	for i, label := range records[0] {
		col[strings.TrimSpace(strings.TrimPrefix(label, "\uFEFF"))] = i
	}
	for _, required := range []string{"Site Code", "Region", "Branch"} {
		if _, ok := col[required]; !ok {
			return stats, dErrors.New(dErrors.CodeConfigurationDefect, "store registry table missing column "+required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	regionIDs := make(map[string]id.RegionID)
	branchIDs := make(map[string]id.BranchID)

	for _, row := range records[1:] {
		code := field(row, "Site Code")
		regionName := field(row, "Region")
		branchName := field(row, "Branch")
		if code == "" || regionName == "" || branchName == "" {
			stats.Skipped++
			continue
		}

		regionID, ok := regionIDs[regionName]
		if !ok {
			regionID = id.NewRegionID()
			if err := dir.SaveRegion(ctx, &Region{ID: regionID, Name: regionName}); err != nil {
				return stats, err
			}
			regionIDs[regionName] = regionID
			stats.Regions++
		}

		branchID, ok := branchIDs[branchName]
		if !ok {
			branchID = id.NewBranchID()
			if err := dir.SaveBranch(ctx, &Branch{ID: branchID, Name: branchName, RegionID: regionID}); err != nil {
				return stats, err
			}
			branchIDs[branchName] = branchID
			stats.Branches++
		}

		store := &Store{
			ID:       id.NewStoreID(),
			Code:     code,
			Name:     field(row, "Display Name"),
			City:     field(row, "City"),
			Province: field(row, "Province"),
			BranchID: branchID,
			RegionID: regionID,
		}
		if err := dir.SaveStore(ctx, store); err != nil {
			return stats, err
		}
		stats.Stores++
	}

	if stats.Stores == 0 {
		return stats, dErrors.New(dErrors.CodeConfigurationDefect, "store registry table yielded no stores")
	}
	return stats, nil
}
