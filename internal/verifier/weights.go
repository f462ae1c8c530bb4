// File: backend/internal/verifier/weights.go
package verifier

// signalWeights is the declarative contribution table for the confidence
// score. Brand weights sum to 0.40, business to 0.30, office-space to 0.30.
type signalWeights struct {
	TitleMatch   float64
	ContentMatch float64
	MetaMatch    float64
	DomainMatch  float64

	ContactInfo   float64
	LocationInfo  float64
	BusinessHours float64
	AboutSection  float64

	Coworking     float64
	OfficeSpace   float64
	Flexible      float64
	LocationPages float64
	Pricing       float64
}

var defaultSignalWeights = signalWeights{
	TitleMatch:   0.15,
	ContentMatch: 0.10,
	MetaMatch:    0.05,
	DomainMatch:  0.10,

	ContactInfo:   0.08,
	LocationInfo:  0.08,
	BusinessHours: 0.07,
	AboutSection:  0.07,

	Coworking:     0.10,
	OfficeSpace:   0.08,
	Flexible:      0.06,
	LocationPages: 0.03,
	Pricing:       0.03,
}

func (w signalWeights) score(brand BrandMatches, business BusinessSignals, office OfficeSpaceSignals) float64 {
	score := 0.0
	if brand.TitleMatch {
		score += w.TitleMatch
	}
	if brand.ContentMatch {
		score += w.ContentMatch
	}
	if brand.MetaMatch {
		score += w.MetaMatch
	}
	if brand.DomainMatch {
		score += w.DomainMatch
	}

	if business.HasContactInfo {
		score += w.ContactInfo
	}
	if business.HasLocationInfo {
		score += w.LocationInfo
	}
	if business.HasBusinessHours {
		score += w.BusinessHours
	}
	if business.HasAboutSection {
		score += w.AboutSection
	}

	if office.MentionsCoworking {
		score += w.Coworking
	}
	if office.MentionsOfficeSpace {
		score += w.OfficeSpace
	}
	if office.MentionsFlexible {
		score += w.Flexible
	}
	if office.HasLocationPages {
		score += w.LocationPages
	}
	if office.HasPricing {
		score += w.Pricing
	}

	if score > 1.0 {
		score = 1.0
	}
	if score < 0 {
		score = 0
	}
	return score
}
