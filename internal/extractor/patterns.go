package extractor

import (
	"regexp"

	"github.com/dlclark/regexp2"
)

// Pattern building blocks. Letter, digit and word classes are ASCII only.
const (
	alpha = `[a-zA-Z]`
	alnum = `[a-zA-Z0-9]`

	// wordChars is \w restricted to ASCII.
	wordChars = `a-zA-Z0-9_`

	// Hostname parts may contain _ (common among Windows hosts) but may
	// not begin or end with - or _.
	hostLabel = alnum + `(?:[a-zA-Z0-9_\-]*` + alnum + `)?`

	// A hostname must not be preceded by a hostname character or . (that
	// would be a partial match) or @ (that would be an email address).
	hostStart = `(?<![a-zA-Z0-9_\-.@])`

	protocol = `(` + alpha + `+://)`

	// gtlds are the generic top-level domains accepted after a bare
	// two-label name. "foo.bar" shows up in prose far too often otherwise.
	gtlds = `com|edu|gov|int|mil|net|org|arpa|biz|info|name|pro|aero|coop|museum`

	ipSegment = `[0-9]{1,3}`
)

const (
	twoPartName = protocol + `?` + hostStart + hostLabel + `\.(?:` + gtlds + `)`

	// The final label is two letters, a GTLD, or a numeric octet. An octet
	// is only allowed when the two labels before it are octets as well.
	threeOrMorePartName = protocol + `?` + hostStart + hostLabel +
		`(?:\.` + hostLabel + `)+` +
		`\.(?:(?:(?<=(?:(?<=(?<=` + ipSegment + `\.)` + ipSegment + `)\.` + ipSegment + `\.))` + ipSegment + `)` +
		`|` + alpha + `{2}|` + gtlds + `)`

	qualifiedName = protocol + hostLabel + `(?:\.` + hostLabel + `)*\.` + alnum + `{2,}`
)

// Character classes after RFC 3986, section 2.
const (
	unreserved  = `a-zA-Z0-9\-_~`
	subDelims   = `!$&'\(\)*+,;=`
	punctuation = `!\.,+;\(\)'`

	pathChar  = `/` + unreserved + `$&*=%:@`
	queryChar = unreserved + `$&*=%:@/?`
)

// urlGrammar is matched case-insensitively. ftp://foo.bar is matched and
// rejected later on purpose so that the foo.bar part is never matched on
// its own.
const urlGrammar = `(?:(?:` + twoPartName + `)|(?:` + threeOrMorePartName + `)|(?:` + qualifiedName + `))` +
	// port
	`(?::[0-9]+)?` +
	// path; punctuation only counts when more URL follows it
	`(?:/(?:[` + pathChar + `]|(?:[` + punctuation + `]+[` + pathChar + `]))*)?` +
	// query string
	`(?:\?(?:[` + queryChar + `]|(?:[` + punctuation + `]+[` + queryChar + `]))+)?` +
	// fragment
	`(?:#(?:[a-zA-Z0-9_\-]|[` + subDelims + `%.~:@/?][a-zA-Z0-9_\-])*)?` +
	// end of input or a non-word character
	`(?=$|[^` + wordChars + `])`

// protocolGroups is the number of capture groups in urlGrammar; each of
// the three hostname shapes contributes one protocol group.
const protocolGroups = 3

var (
	urlPattern      = regexp2.MustCompile(urlGrammar, regexp2.IgnoreCase)
	allowedProtocol = regexp.MustCompile(`(?i)^(?:ftp|https?)://$`)
	digitsAndDots   = regexp.MustCompile(`^[0-9.]*$`)
)
