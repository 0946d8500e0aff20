package normalize

import (
	"regexp"
	"strings"
)

// Abbreviation tables, longest first. Matching requires a '.' or ','
// terminator, or a closing parenthesis, so ordinary words like "act" or
// "pass" survive. Tokens may be wrapped in parentheses: "(m.)", "(pl)".
var (
	abbreviationsMore  = []string{"absol", "abstr", "accus", "compar", "desid", "feminine", "impers", "instr", "masculine", "neuter", "plural", "singular"}
	abbreviationsFour  = []string{"caus", "part", "pass", "pron"}
	abbreviationsThree = []string{"abl", "acc", "act", "adv", "aor", "dat", "fpp", "fut", "gen", "inc", "ind", "inf", "loc", "mfn", "neg", "opt"}
	abbreviationsTwo   = []string{"ac", "fn", "id", "mf", "pl", "pp", "pr", "sg", "si"}
	abbreviationsOne   = []string{"d", "f", "m", "ṃ", "n", "r", "s", "t"}
)

func abbreviationPattern(tokens []string) *regexp.Regexp {
	return regexp.MustCompile(`^\(*(?:` + strings.Join(tokens, "|") + `)(?:[.,]\)*\.*|\)+\.*)`)
}

var (
	inlineHTMLPattern = regexp.MustCompile(`</?(?:sup|em|strong|a|i|b)\b[^>]*>`)
	spacesPattern     = regexp.MustCompile(`[ \t]{2,}`)
	blankLinesPattern = regexp.MustCompile(`\n{3,}`)

	// tidy
	emptyLinkLabelPattern  = regexp.MustCompile(`\[\]\([^)]*\)`)
	emptyLinkTargetPattern = regexp.MustCompile(`\[([^\]]+)\]\(\)`)
	emphasizedLinkPattern  = regexp.MustCompile(`\*{1,2}(\[[^\]]+\]\([^)]+\))\*{1,2}`)
	htmlEmphasizedLink     = regexp.MustCompile(`<(?:i|em|b|strong)>(\[[^\]]+\]\([^)]+\))</(?:i|em|b|strong)>`)
	htmlItalicPattern      = regexp.MustCompile(`<(?:i|em)>([^<]*)</(?:i|em)>`)
	htmlBoldPattern        = regexp.MustCompile(`<(?:b|strong)>([^<]*)</(?:b|strong)>`)
	uncertainLabelPattern  = regexp.MustCompile(`\[([^\]?]+)\?\]\(/define/([^)?]+)\?\)`)
	uncertainTargetPattern = regexp.MustCompile(`\[([^\]]+)\]\(/define/([^)?]+)\?\)`)
	internalLinkPattern    = regexp.MustCompile(`\[([^\]]+)\]\(([/#][^)]*)\)`)

	// also written as
	letterRun               = `[\p{L}\p{M}]+`
	alsoTwoGroupPattern     = regexp.MustCompile(`^\s*\*{0,2}(` + letterRun + `)\((` + letterRun + `)\)(` + letterRun + `)\((` + letterRun + `)\)([\p{L}\p{M}]*)\*{0,2}(?:,\s*|\s+|$)`)
	alsoOneGroupPattern     = regexp.MustCompile(`^\s*\*{0,2}(` + letterRun + `)\((` + letterRun + `)\)([\p{L}\p{M}]*)\*{0,2}(?:,\s*|\s+|$)`)
	alsoZeroGroupPattern    = regexp.MustCompile(`^\s*\*(` + letterRun + `)\*,\s*`)
	alsoWrittenItalic       = regexp.MustCompile(`\s*\(also written as \*([^*)]+)\*\)`)
	alsoWrittenPlain        = regexp.MustCompile(`\s*\(also written as ([^)]+)\)`)
	alsoWrittenListSplitter = regexp.MustCompile(`\s*(?:,|\band\b|&|\bor\b)\s*`)

	// grammar note
	uncertainMarkerPattern = regexp.MustCompile(`^(?:\(\?\)|\?\))`)
	lonePPPattern          = regexp.MustCompile(`^pp\s+`)
	irregularPatterns      = []*regexp.Regexp{
		regexp.MustCompile(`^m\(fn\)\.?`),
		regexp.MustCompile(`^\(& (?:mfn|m|f|n)\.\)`),
		regexp.MustCompile(`^& (?:mfn|m|f|n)\.`),
		regexp.MustCompile(`^~ā,?`),
		regexp.MustCompile(`^m\.a\.?`),
		regexp.MustCompile(`^fpp\[\.\]`),
	}
	abbreviationPatterns = []*regexp.Regexp{
		abbreviationPattern(abbreviationsMore),
		abbreviationPattern(abbreviationsFour),
		abbreviationPattern(abbreviationsThree),
		abbreviationPattern(abbreviationsTwo),
		abbreviationPattern(abbreviationsOne),
	}
	residualPunctuationPattern = regexp.MustCompile(`^[\s.,;:&]+`)

	// see also
	seeAlsoItem         = `\*{0,2}([\p{L}\p{M}][\p{L}\p{M}0-9-]*)\*{0,2}`
	seeAlsoSeparator    = `(?:\s*,\s*|\s+and\s+|\s*&\s*)`
	seeAlsoNotePattern  = regexp.MustCompile(`\((?:also|see)\s+` + seeAlsoItem + `(?:` + seeAlsoSeparator + seeAlsoItem + `)?(?:` + seeAlsoSeparator + seeAlsoItem + `)?\)`)
	defineLinkPattern   = regexp.MustCompile(`\[([^\]]+)\]\(/define/([^)]+)\)((?:\s?\([^()\s]\)){0,2})`)
	placeholderPattern  = regexp.MustCompile(`@@SEEALSO([0-9]+)@@`)
	seeSpanPattern      = regexp.MustCompile(`\s*\(see [^)]*\)`)
	spaceBeforePunct    = regexp.MustCompile(`\s+([.,;])`)
	danglingSeparatorRe = regexp.MustCompile(`[,;]\s*$`)

	// summary
	summaryTagPattern       = regexp.MustCompile(`</?(?:sup|i|b)>`)
	summaryControlPattern   = regexp.MustCompile(`[\n\t<>]`)
	summarySeeLinkPattern   = regexp.MustCompile(`\(see \*?\[([^\]]+)\]\([^)]+\)\**\)`)
	summaryLinkPattern      = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	summaryMarkupPattern    = regexp.MustCompile(`[*\[\]]`)
	summaryHyphenated3      = regexp.MustCompile(`^[\p{L}\p{M}]+-[\p{L}\p{M}]+-[\p{L}\p{M}]+(?:[.,;]|\s|$)`)
	summaryHyphenated2      = regexp.MustCompile(`^[\p{L}\p{M}]+-[\p{L}\p{M}]+(?:[.,;]|\s|$)`)
	summaryOrdinalPattern   = regexp.MustCompile(`^[0-9]+\.*`)
	summaryFromPattern      = regexp.MustCompile(`^\((?:from|or|also) +[^)]+\)`)
	summarySuffixPattern    = regexp.MustCompile(`^\([~-][^)]+\)[\p{L}\p{M}]*\.*`)
	summaryLeadingPrefixes  = []string{".", ",", "-", "(?)", "?)", "pp ", ")", ";", "~ā,", "~ā", "(& m.)", "(& f.)", "(& n.)", "(& mfn.)", "m(fn)", "m.a", "&", "fpp[.]"}
)

const (
	summaryMaxRunes      = 50
	summaryMaxIterations = 10
)
