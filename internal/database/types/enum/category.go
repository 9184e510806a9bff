package enum

// LinkCategory represents the threat category assigned to a flagged link.
type LinkCategory string

const (
	// LinkCategoryPhishing indicates a credential-stealing or impersonation site.
	LinkCategoryPhishing LinkCategory = "phishing"
	// LinkCategoryPornography indicates adult content.
	LinkCategoryPornography LinkCategory = "pornography"
	// LinkCategoryScam indicates fraud or deceptive commerce.
	LinkCategoryScam LinkCategory = "scam"
	// LinkCategoryMalware indicates malicious software distribution.
	LinkCategoryMalware LinkCategory = "malware"
)

// IsValid checks if the category is one of the allowed values.
func (c LinkCategory) IsValid() bool {
	switch c {
	case LinkCategoryPhishing, LinkCategoryPornography, LinkCategoryScam, LinkCategoryMalware:
		return true
	default:
		return false
	}
}

// Emoji returns the appropriate emoji for a link category.
func (c LinkCategory) Emoji() string {
	switch c {
	case LinkCategoryPhishing:
		return "🎣"
	case LinkCategoryPornography:
		return "🔞"
	case LinkCategoryScam:
		return "💸"
	case LinkCategoryMalware:
		return "🦠"
	default:
		return "❔"
	}
}
