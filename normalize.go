package scratches

import (
	"regexp"
	"strings"
)

var (
	htmlCommentRe = regexp.MustCompile(`<!--[\s\S]*?-->`)

	// Tags only; markdown autolinks like <https://x> have no tag name
	// followed by whitespace or '>' and are left alone.
	htmlTagRe = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9-]*(?:\s[^<>]*)?/?>`)

	htmlEntityRe = regexp.MustCompile(`&(?:[a-zA-Z][a-zA-Z0-9]{1,31}|#[0-9]{1,7}|#[xX][0-9a-fA-F]{1,6});`)

	uiLeakageRe = regexp.MustCompile(`\b(?:css-[a-z0-9]{5,}|sc-[a-zA-Z]{5,}|jsx-[0-9]{3,}|svelte-[a-z0-9]{5,}|ng-star-inserted|ng-tns-c[0-9]+-[0-9]+|emotion-[0-9]+)\b`)

	// Appeals are lines that open with the appeal, not prose that mentions one.
	donationRe = regexp.MustCompile(`(?im)^[ \t]*(?:donate now|please (?:donate|consider (?:donating|supporting us))|support (?:our|independent) journalism|become a (?:member|patron|supporter)|make a (?:one-time )?(?:donation|contribution)|chip in (?:to support|to keep|today)|if you (?:value|enjoy|like) (?:our|this) (?:work|journalism|reporting))\b[^\n]{0,200}$`)

	// Credit lines carry a label, an agency after a slash or via, or are a
	// bare Unsplash attribution.
	photoCreditLabelRe  = regexp.MustCompile(`(?im)^[ \t]*[(\[]?(?:(?:photo(?:graph)?|image|picture)s?(?:[ \t]+(?:credit|source)s?)?|credits?)[ \t]*:[^\n]{0,160}$`)
	photoCreditAgencyRe = regexp.MustCompile(`(?im)^[^\n]{0,160}(?:(?:/|\||\bvia\b|©)[ \t]*(?:getty images|corbis|shutterstock|associated press|reuters|afp|alamy)[ \t)\].]*|\((?:ap photo|reuters|afp|getty images)[ \t]*/[^\n)]{1,60}\)[ \t.]*)$`)
	photoCreditLeadRe   = regexp.MustCompile(`(?im)^[ \t]*[(\[]?(?:ap photo|reuters|afp|getty images)[ \t]*/[^\n]{0,80}$`)
	unsplashCreditRe    = regexp.MustCompile(`(?im)^[ \t]*[(\[]?photo by [^\n]{1,60} on unsplash[)\]]?[ \t]*$`)

	bylineRe = regexp.MustCompile(`(?m)^[ \t]*(?:[Bb]y|BY|[Ww]ritten by|[Pp]osted by)[ \t]+[A-Z][\w.'-]*(?:[ \t]+(?:and[ \t]+)?[A-Z][\w.'-]*){0,5}[ \t]*$`)

	navLabelRe = regexp.MustCompile(`(?im)^[ \t]*(?:skip to (?:main )?content|skip to navigation|menu|main menu|toggle navigation|home|search|sign in|log in|sign up|subscribe|share|share this|tweet|email|print|close|advertisement|back to top|read more|next article|previous article)[ \t]*$`)

	spaceRunRe     = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	indentRe       = regexp.MustCompile(`^[ \t\f\v\x{00A0}]*`)
	trailingSpace  = regexp.MustCompile(`(?m)[ \t]+$`)
	blankLineRunRe = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)+`)
)

// Normalize is the final cleanup applied to every extracted body. It strips
// residual markup, entities, UI class leakage and boilerplate lines
// (donation appeals, photo credits, bylines, navigation labels), collapses
// whitespace and trims the result. Normalize is idempotent.
func Normalize(text string) string {
	for {
		next := normalizePass(text)
		if next == text {
			return next
		}
		// A pass only removes text or turns whitespace into plain spaces.
		text = next
	}
}

func normalizePass(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = htmlCommentRe.ReplaceAllString(s, "")
	s = htmlTagRe.ReplaceAllString(s, "")
	s = htmlEntityRe.ReplaceAllString(s, "")
	s = uiLeakageRe.ReplaceAllString(s, "")
	s = donationRe.ReplaceAllString(s, "")
	s = photoCreditLabelRe.ReplaceAllString(s, "")
	s = photoCreditAgencyRe.ReplaceAllString(s, "")
	s = photoCreditLeadRe.ReplaceAllString(s, "")
	s = unsplashCreditRe.ReplaceAllString(s, "")
	s = bylineRe.ReplaceAllString(s, "")
	s = navLabelRe.ReplaceAllString(s, "")
	s = collapseSpaces(s)
	s = trailingSpace.ReplaceAllString(s, "")
	s = blankLineRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// collapseSpaces turns runs of spaces into one space after the first
// non-space character of each line. Indentation is kept so nested lists and
// code blocks survive; non-breaking spaces in it become plain spaces.
func collapseSpaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		raw := indentRe.FindString(line)
		indent := strings.Map(func(r rune) rune {
			if r == '\t' {
				return r
			}
			return ' '
		}, raw)
		lines[i] = indent + spaceRunRe.ReplaceAllString(line[len(raw):], " ")
	}
	return strings.Join(lines, "\n")
}
