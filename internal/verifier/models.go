// File: backend/internal/verifier/models.go
package verifier

// BrandMatches records where an operator's brand tokens were found.
type BrandMatches struct {
	TitleMatch   bool `json:"titleMatch"`
	ContentMatch bool `json:"contentMatch"`
	MetaMatch    bool `json:"metaMatch"`
	DomainMatch  bool `json:"domainMatch"`
}

// BusinessSignals records generic signs of a real operating business.
type BusinessSignals struct {
	HasContactInfo   bool `json:"hasContactInfo"`
	HasLocationInfo  bool `json:"hasLocationInfo"`
	HasBusinessHours bool `json:"hasBusinessHours"`
	HasAboutSection  bool `json:"hasAboutSection"`
}

// OfficeSpaceSignals records industry-specific signs of a flexible-office or
// coworking business.
type OfficeSpaceSignals struct {
	MentionsCoworking   bool `json:"mentionsCoworking"`
	MentionsOfficeSpace bool `json:"mentionsOfficeSpace"`
	MentionsFlexible    bool `json:"mentionsFlexible"`
	HasLocationPages    bool `json:"hasLocationPages"`
	HasPricing          bool `json:"hasPricing"`
}

// Result is the outcome of verifying one candidate domain.
type Result struct {
	Verified           bool               `json:"verified"`
	Confidence         float64            `json:"confidence"`
	Reasons            []string           `json:"reasons"`
	RejectionReason    string             `json:"rejectionReason,omitempty"`
	CanonicalURL       string             `json:"canonicalUrl,omitempty"`
	BrandMatches       BrandMatches       `json:"brandMatches"`
	BusinessSignals    BusinessSignals    `json:"businessSignals"`
	OfficeSpaceSignals OfficeSpaceSignals `json:"officeSpaceSignals"`
}
