// File: backend/internal/verifier/signals.go
package verifier

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// pageDocument is the parsed view of a fetched page that signal extraction
// runs against.
type pageDocument struct {
	title    string
	h1       string
	meta     string
	bodyText string
	links    []string
}

func parsePage(doc *goquery.Document) *pageDocument {
	page := &pageDocument{
		title:    strings.ToLower(doc.Find("title").Text()),
		h1:       strings.ToLower(doc.Find("h1").Text()),
		bodyText: strings.ToLower(doc.Find("body").Text()),
	}
	if meta, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		page.meta = strings.ToLower(meta)
	}
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			page.links = append(page.links, href)
		}
	})
	return page
}

func (p *pageDocument) anyLinkMatches(re *regexp.Regexp) bool {
	for _, link := range p.links {
		if re.MatchString(link) {
			return true
		}
	}
	return false
}

var (
	contactTextPattern  = regexp.MustCompile(`(?i)contact|phone|email|call|reach|get in touch|enquir`)
	contactLinkPattern  = regexp.MustCompile(`(?i)contact|about`)
	locationTextPattern = regexp.MustCompile(`(?i)location|address|find us|visit|directions|map`)
	streetPattern       = regexp.MustCompile(`(?i)\d+.*(?:street|st|avenue|ave|road|rd|lane|ln|drive|dr|way|place|pl)`)
	hoursTextPattern    = regexp.MustCompile(`(?i)open|hours|monday|tuesday|wednesday|thursday|friday|saturday|sunday|24/7|24 hours`)
	timeOfDayPattern    = regexp.MustCompile(`(?i)\d{1,2}:\d{2}|am|pm`)
	aboutTextPattern    = regexp.MustCompile(`(?i)about us|about|our story|company|who we are`)
	aboutLinkPattern    = regexp.MustCompile(`(?i)about`)

	coworkingPattern     = regexp.MustCompile(`(?i)coworking|co-working|shared office|shared workspace`)
	officeSpacePattern   = regexp.MustCompile(`(?i)office space|workspace|work space|meeting room|conference room|desk|private office`)
	flexiblePattern      = regexp.MustCompile(`(?i)flexible|serviced|virtual|hot desk|hot-desk|dedicated desk|business center`)
	locationLinkPattern  = regexp.MustCompile(`(?i)location|office|space|center|building`)
	locationPagesPattern = regexp.MustCompile(`(?i)our locations|find a location|all locations|spaces|offices`)
	pricingTextPattern   = regexp.MustCompile(`(?i)pricing|price|cost|rate|membership|plan|booking|reserve|book now`)
	pricingLinkPattern   = regexp.MustCompile(`(?i)pricing|price|book|reserve`)
	currencyPattern      = regexp.MustCompile(`(?i)[$£€]\d+|per month|per day|per hour`)
)

// extractBrandMatches tests each brand token against title/H1, body text,
// meta description and the bare domain string.
func extractBrandMatches(page *pageDocument, brandTokens []string, domain string) BrandMatches {
	domainLower := strings.ToLower(domain)

	var matches BrandMatches
	for _, token := range brandTokens {
		tokenLower := strings.ToLower(token)
		if tokenLower == "" {
			continue
		}
		if strings.Contains(page.title, tokenLower) || strings.Contains(page.h1, tokenLower) {
			matches.TitleMatch = true
		}
		if strings.Contains(page.bodyText, tokenLower) {
			matches.ContentMatch = true
		}
		if page.meta != "" && strings.Contains(page.meta, tokenLower) {
			matches.MetaMatch = true
		}
		if strings.Contains(domainLower, tokenLower) {
			matches.DomainMatch = true
		}
	}
	return matches
}

func extractBusinessSignals(page *pageDocument) BusinessSignals {
	return BusinessSignals{
		HasContactInfo:   contactTextPattern.MatchString(page.bodyText) || page.anyLinkMatches(contactLinkPattern),
		HasLocationInfo:  locationTextPattern.MatchString(page.bodyText) || streetPattern.MatchString(page.bodyText),
		HasBusinessHours: hoursTextPattern.MatchString(page.bodyText) || timeOfDayPattern.MatchString(page.bodyText),
		HasAboutSection:  aboutTextPattern.MatchString(page.bodyText) || page.anyLinkMatches(aboutLinkPattern),
	}
}

func extractOfficeSpaceSignals(page *pageDocument) OfficeSpaceSignals {
	return OfficeSpaceSignals{
		MentionsCoworking:   coworkingPattern.MatchString(page.bodyText),
		MentionsOfficeSpace: officeSpacePattern.MatchString(page.bodyText),
		MentionsFlexible:    flexiblePattern.MatchString(page.bodyText),
		HasLocationPages:    page.anyLinkMatches(locationLinkPattern) || locationPagesPattern.MatchString(page.bodyText),
		HasPricing:          pricingTextPattern.MatchString(page.bodyText) || page.anyLinkMatches(pricingLinkPattern) || currencyPattern.MatchString(page.bodyText),
	}
}

// buildReasons renders the audit trail in fixed priority order: brand
// signals, then business, then office-space.
func buildReasons(brand BrandMatches, business BusinessSignals, office OfficeSpaceSignals) []string {
	var reasons []string

	if brand.TitleMatch {
		reasons = append(reasons, "Brand name appears in page title")
	}
	if brand.DomainMatch {
		reasons = append(reasons, "Brand name matches domain")
	}
	if brand.ContentMatch {
		reasons = append(reasons, "Brand name found in page content")
	}

	if business.HasContactInfo {
		reasons = append(reasons, "Contains contact information")
	}
	if business.HasLocationInfo {
		reasons = append(reasons, "Contains location/address information")
	}

	if office.MentionsCoworking {
		reasons = append(reasons, "Mentions coworking or shared office")
	}
	if office.MentionsOfficeSpace {
		reasons = append(reasons, "Mentions office space or workspace")
	}
	if office.HasLocationPages {
		reasons = append(reasons, "Has location or spaces pages")
	}
	if office.HasPricing {
		reasons = append(reasons, "Contains pricing information")
	}

	return reasons
}
