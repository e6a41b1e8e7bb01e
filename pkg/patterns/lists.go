package patterns

// =============================================================================
// DETECTION DATA LISTS
// Fixed lists backing the compiled composites and the URL/brand analyzers.
// Order matters for KnownBrands: ties in brand-frequency counting are broken
// by list position, so keep the list stable.
// =============================================================================

// KnownBrands are brands commonly impersonated in phishing campaigns.
var KnownBrands = []string{
	// Payment & Financial
	"paypal", "venmo", "zelle", "cashapp", "wise", "stripe", "square",
	// E-commerce
	"amazon", "ebay", "walmart", "target", "costco", "bestbuy", "aliexpress", "shopify", "etsy",
	// Streaming & Entertainment
	"netflix", "spotify", "hulu", "disney", "hbomax", "primevideo", "youtube", "twitch",
	// Tech Giants
	"apple", "microsoft", "google", "meta", "oracle", "salesforce", "sap",
	// Social Media
	"facebook", "instagram", "whatsapp", "twitter", "tiktok", "snapchat", "telegram", "discord", "reddit",
	// Banks (US)
	"chase", "wellsfargo", "bankofamerica", "citibank", "usbank", "pnc", "capitalone", "discover",
	// Banks (International)
	"hsbc", "barclays", "natwest", "santander", "ing", "bnp", "deutschebank",
	// Shipping & Logistics
	"usps", "fedex", "ups", "dhl", "royalmail", "canadapost", "auspost",
	// Government
	"irs", "ssa", "dmv", "hmrc", "medicare", "socialsecurity",
	// Productivity & Cloud
	"dropbox", "adobe", "zoom", "slack", "teams", "github", "gitlab", "notion", "trello",
	"docusign", "onedrive", "icloud", "gdrive",
	// Email Providers
	"yahoo", "outlook", "office365", "gmail", "protonmail", "aol", "hotmail",
	// Crypto
	"coinbase", "binance", "kraken", "metamask", "ledger", "trezor", "opensea",
	// Security & Antivirus
	"norton", "mcafee", "avast", "kaspersky", "bitdefender",
	// Telecom
	"verizon", "att", "tmobile", "sprint", "vodafone", "comcast", "spectrum",
	// Other commonly targeted
	"linkedin", "indeed", "glassdoor", "airbnb", "uber", "lyft", "doordash", "grubhub",
}

// CryptoBrands are the subset of brands whose mention alongside a
// security-themed URL raises the rule score.
var CryptoBrands = []string{"binance", "coinbase", "metamask", "kraken", "ledger", "trezor"}

// BrandOfficialDomains maps the most targeted brands to their legitimate
// registrable domains. Brands not listed fall back to "<brand>.com".
var BrandOfficialDomains = map[string][]string{
	"paypal":        {"paypal.com", "paypal.me"},
	"amazon":        {"amazon.com", "amazon.co.uk", "amazon.de", "amazon.fr", "amazon.ca", "amazon.in", "aws.amazon.com"},
	"netflix":       {"netflix.com"},
	"apple":         {"apple.com", "icloud.com"},
	"microsoft":     {"microsoft.com", "live.com", "outlook.com", "office.com", "office365.com", "azure.com"},
	"google":        {"google.com", "gmail.com", "youtube.com", "accounts.google.com"},
	"facebook":      {"facebook.com", "fb.com", "meta.com"},
	"instagram":     {"instagram.com"},
	"whatsapp":      {"whatsapp.com", "wa.me"},
	"chase":         {"chase.com"},
	"wellsfargo":    {"wellsfargo.com"},
	"bankofamerica": {"bankofamerica.com", "bofa.com"},
	"usps":          {"usps.com"},
	"fedex":         {"fedex.com"},
	"ups":           {"ups.com"},
	"dhl":           {"dhl.com"},
	"linkedin":      {"linkedin.com"},
	"dropbox":       {"dropbox.com"},
	"coinbase":      {"coinbase.com"},
	"binance":       {"binance.com", "binance.us"},
}

// SuspiciousTLDs are free or cheap TLDs disproportionately used in phishing.
var SuspiciousTLDs = []string{
	"tk", "ml", "ga", "cf", "gq", "xyz", "top", "work", "click",
	"link", "info", "online", "site", "website", "space", "pw",
	"cc", "su", "buzz", "fit", "loan", "download", "stream",
	"win", "review", "country", "kim", "science", "party", "date",
	"accountant", "cricket", "racing", "gdn", "men", "faith",
	"webcam", "bid", "trade", "icu", "rest", "life", "live",
	"rocks", "world", "today", "solutions", "support", "services",
	"center", "zone", "email", "tech", "host", "fun", "monster",
}

// URLShorteners are shortener hosts that hide the real destination.
var URLShorteners = []string{
	"bit.ly", "tinyurl.com", "t.co", "goo.gl", "ow.ly", "is.gd",
	"buff.ly", "adf.ly", "j.mp", "tr.im", "cutt.ly", "rb.gy",
	"shorturl.at", "tiny.cc", "lnkd.in", "soo.gd", "clck.ru",
	"s.id", "rotf.lol", "v.gd", "qr.ae", "u.to", "short.io",
	"rebrand.ly", "bl.ink", "shorte.st", "ouo.io", "bc.vc",
}

// PhishingPhrases are literal substrings matched case-insensitively against
// the message body. Each distinct phrase found contributes to the rule score.
var PhishingPhrases = []string{
	// Classic phishing
	"click here", "verify your", "confirm your", "update your",
	"unusual activity", "security alert", "account locked",
	"winner", "congratulations", "prize", "free gift",
	"win $", "you have won", "claim your prize",
	// Package/delivery scams
	"delivery failed", "package could not", "reschedule delivery",
	"could not be delivered", "will be returned", "returned to sender",
	"tracking number", "customs fee", "delivery fee", "redelivery",
	"undeliverable", "attempted delivery", "delivery attempt",
	// Account/subscription scams
	"subscription expired", "subscription has expired", "service interruption",
	"account has been", "has been locked", "has been suspended",
	"avoid suspension", "avoid service", "to avoid",
	"storage is full", "storage full", "upgrade now",
	// Tech support scams
	"virus detected", "computer infected", "call microsoft",
	"technical support", "remote access", "data loss",
	// Romance/relationship scams
	"send money", "wire funds", "western union", "gift card",
	// Job/employment scams
	"work from home", "easy money", "no experience needed",
	"make money fast", "guaranteed income",
	// Government impersonation
	"tax refund", "irs notice", "social security",
	"arrest warrant", "legal action",
	// Generic urgency
	"immediately", "right now", "act now", "expires",
	"limited time", "before it", "or it will",
	// Curiosity triggers
	"see who", "find out who", "someone viewed",
	"viewed your", "looked at your",
	// Document/signature scams
	"document ready", "ready for signature", "sign document",
	"pending signature",
}

// SuspiciousURLKeywords are path/host tokens whose co-occurrence in a URL
// suggests a credential-harvesting page. Two or more are needed to score.
var SuspiciousURLKeywords = []string{
	"login", "signin", "sign-in", "logon", "log-on",
	"verify", "verification", "validate", "confirm",
	"secure", "security", "account", "accounts",
	"update", "upgrade", "renew", "restore",
	"password", "passwd", "credential",
	"authenticate", "authentication", "auth",
	"billing", "payment", "invoice",
	"suspended", "locked", "disabled",
	"webmail", "webaccess", "portal",
	"redirect", "track", "click",
}

// LookalikeDomainTokens are affixes that turn a brand name into a lookalike
// domain ("paypal-login", "secure-chase"). Only the first hit per domain
// contributes.
var LookalikeDomainTokens = []struct {
	Token string
	Desc  string
}{
	{"-login", "login subdomain pattern"},
	{"-secure", "secure subdomain pattern"},
	{"-verify", "verify subdomain pattern"},
	{"-support", "support subdomain pattern"},
	{"-account", "account subdomain pattern"},
	{"-update", "update subdomain pattern"},
	{"-alert", "alert subdomain pattern"},
	{"login-", "login prefix pattern"},
	{"secure-", "secure prefix pattern"},
	{"account-", "account prefix pattern"},
}

// UnicodeHomoglyphs maps non-ASCII lookalike runes to the ASCII letter they
// imitate. ASCII substitutions (0 for o) are handled by the leet table
// instead, since they occur in legitimate text.
var UnicodeHomoglyphs = map[rune]rune{
	'а': 'a', // Cyrillic
	'е': 'e', // Cyrillic
	'о': 'o', // Cyrillic
	'р': 'p', // Cyrillic
	'с': 'c', // Cyrillic
	'у': 'y', // Cyrillic
	'х': 'x', // Cyrillic
	'і': 'i', // Cyrillic
	'ѕ': 's', // Cyrillic
	'ɑ': 'a', // Latin alpha
	'ε': 'e', // Greek
	'ο': 'o', // Greek
	'ι': 'i', // Greek
	'κ': 'k', // Greek
	'ρ': 'p', // Greek
	'τ': 't', // Greek
	'ν': 'v', // Greek
	'ω': 'w', // Greek
	'ɡ': 'g', // Latin small letter script g
	'һ': 'h', // Cyrillic
	'ԁ': 'd', // Cyrillic
	'ь': 'b', // Cyrillic soft sign
	'п': 'n', // Cyrillic
}

// LeetSubstitutions maps digits to the letters they imitate in typosquatted
// domains ("paypa1.com", "g00gle.com"). A candidate domain is normalized
// digit-by-digit before comparing against brand names.
var LeetSubstitutions = map[byte]byte{
	'0': 'o',
	'1': 'l',
	'3': 'e',
	'4': 'a',
	'5': 's',
	'7': 't',
	'8': 'b',
	'9': 'g',
	'6': 'b',
}
