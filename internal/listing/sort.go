package listing

import (
	"fmt"
	"sort"
	"strings"

	"ec2lister/internal/models"
)

// SortRecords returns a copy of records ordered ascending by the named
// attribute. An empty key is a no-op and preserves the input order. Records
// that lack a value for the attribute sort after all records that have one,
// and ties keep their original relative order (stable sort). String
// comparison is case-sensitive.
func SortRecords(records []models.InstanceRecord, key string) ([]models.InstanceRecord, error) {
	if key == "" {
		return records, nil
	}

	if !models.IsValidAttribute(key) {
		message := fmt.Sprintf("Invalid sort by attribute. Valid attributes to sort by are: %s",
			strings.Join(models.AttributeKeys(), ", "))
		return nil, NewError(ErrInvalidSortKey, message, "sort_by", nil)
	}

	sorted := make([]models.InstanceRecord, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		vi, oki := sorted[i].SortValue(key)
		vj, okj := sorted[j].SortValue(key)
		if oki != okj {
			// Missing values sort last.
			return oki
		}
		if !oki {
			return false
		}
		return vi < vj
	})

	return sorted, nil
}
