package filterrecords

import "booking-workers/internal/common/validation"

// inputSchema vets job variables before they are decoded. Unknown filter keys are
// rejected here; keys a dashboard has no mapping for are ignored later.
var inputSchema = validation.MustCompile(TaskType, `{
  "type": "object",
  "required": ["dashboard", "ownerId"],
  "properties": {
    "dashboard": {"type": "string", "minLength": 1},
    "ownerId": {"type": "string", "minLength": 1},
    "activeFilters": {
      "type": ["array", "null"],
      "items": {"type": "string", "enum": ["search", "postcode", "startDate", "endDate", "property_type", "parking_type"]},
      "uniqueItems": true
    },
    "filterValues": {
      "type": ["object", "null"],
      "additionalProperties": {"type": "string"}
    }
  }
}`)
