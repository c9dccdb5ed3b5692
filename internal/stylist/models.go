package stylist

// Occasion tags. Full-analysis requests generate one outfit per tag in
// Occasions; single-outfit requests default to OccasionCustom.
const (
	OccasionParty    = "party"
	OccasionOffice   = "office"
	OccasionVacation = "vacation"
	OccasionCustom   = "custom"
)

// Occasions is the fixed set of tags a full analysis produces outfits for.
var Occasions = []string{OccasionParty, OccasionOffice, OccasionVacation}

// AnalysisResult is the structured output of the vision analysis: whether the
// image contains apparel, its visual descriptors and one outfit suggestion
// per occasion.
type AnalysisResult struct {
	ApparelPresent bool              `json:"apparel_present"`
	Details        []string          `json:"details"`
	Suggestions    map[string]string `json:"suggestions"`
}

// OccasionOutcome carries one occasion's generation result: rendered image
// bytes on success, the error otherwise. Failures are recorded, never fatal.
type OccasionOutcome struct {
	Occasion string
	Image    []byte
	Err      error
}
