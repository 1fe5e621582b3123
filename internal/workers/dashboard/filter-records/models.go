package filterrecords

// Dashboards
const (
	DashboardClient  = "client"
	DashboardPartner = "partner"
)

type Input struct {
	Dashboard string `json:"dashboard"`
	OwnerID   string `json:"ownerId"`
	// ActiveFilters nil means the default selection (search only).
	ActiveFilters []string          `json:"activeFilters"`
	FilterValues  map[string]string `json:"filterValues"`
}

type Output struct {
	Dashboard     string      `json:"dashboard"`
	Records       interface{} `json:"records"`
	TotalCount    int         `json:"totalCount"`
	MatchedCount  int         `json:"matchedCount"`
	ActiveFilters []string    `json:"activeFilters"`
}
