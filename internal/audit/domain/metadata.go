package domain

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// EmptyMetadata is stored when an entry carries no extra context.
var EmptyMetadata = datatypes.JSON(`{}`)

// MetadataOf snapshots m as JSON at the moment of the action.
func MetadataOf(m map[string]any) datatypes.JSON {
	if len(m) == 0 {
		return EmptyMetadata
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return EmptyMetadata
	}
	return datatypes.JSON(raw)
}
