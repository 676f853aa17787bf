package models

import (
	"strings"
	"time"
)

// Attribute keys exposed on every InstanceRecord. The names match the JSON
// keys in the response and the values accepted by the sort_by query
// parameter.
const (
	AttrName             = "Name"
	AttrID               = "ID"
	AttrType             = "Type"
	AttrState            = "State"
	AttrAvailabilityZone = "AvailabilityZone"
	AttrPublicIP         = "PublicIP"
	AttrPrivateIPs       = "PrivateIPs"
	AttrLaunchTime       = "LaunchTime"
)

// attributeKeys lists every valid attribute in a stable order, used for
// sort_by validation and for error messages.
var attributeKeys = []string{
	AttrName,
	AttrID,
	AttrType,
	AttrState,
	AttrAvailabilityZone,
	AttrPublicIP,
	AttrPrivateIPs,
	AttrLaunchTime,
}

// InstanceRecord is the flattened, response-ready representation of one EC2
// instance. Every record carries the full key set; fields the instance lacks
// (no Name tag, no public IP) are nil and serialize as JSON null.
type InstanceRecord struct {
	ID               string     `json:"ID"`
	Name             *string    `json:"Name"`
	Type             string     `json:"Type"`
	State            string     `json:"State"`
	AvailabilityZone string     `json:"AvailabilityZone"`
	PublicIP         *string    `json:"PublicIP"`
	PrivateIPs       []string   `json:"PrivateIPs"`
	LaunchTime       *time.Time `json:"LaunchTime"`
}

// AttributeKeys returns the names of all sortable instance attributes.
func AttributeKeys() []string {
	keys := make([]string, len(attributeKeys))
	copy(keys, attributeKeys)
	return keys
}

// IsValidAttribute reports whether key names a known instance attribute.
// Matching is case-sensitive, mirroring the JSON key names.
func IsValidAttribute(key string) bool {
	for _, k := range attributeKeys {
		if k == key {
			return true
		}
	}
	return false
}

// SortValue returns the comparable string form of the named attribute and
// whether the record has a value for it. Records without a value sort after
// records that have one.
func (r InstanceRecord) SortValue(key string) (string, bool) {
	switch key {
	case AttrID:
		return r.ID, true
	case AttrType:
		return r.Type, true
	case AttrState:
		return r.State, true
	case AttrAvailabilityZone:
		return r.AvailabilityZone, true
	case AttrName:
		if r.Name == nil {
			return "", false
		}
		return *r.Name, true
	case AttrPublicIP:
		if r.PublicIP == nil {
			return "", false
		}
		return *r.PublicIP, true
	case AttrPrivateIPs:
		if len(r.PrivateIPs) == 0 {
			return "", false
		}
		return strings.Join(r.PrivateIPs, ","), true
	case AttrLaunchTime:
		if r.LaunchTime == nil {
			return "", false
		}
		// RFC3339 in UTC orders chronologically under string comparison.
		return r.LaunchTime.UTC().Format(time.RFC3339), true
	default:
		return "", false
	}
}

// PageResult is the response envelope for a single page of instances.
type PageResult struct {
	Instances  []InstanceRecord `json:"instances"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalCount int              `json:"total_count"`
}
