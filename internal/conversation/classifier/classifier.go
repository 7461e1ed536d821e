// Package classifier decides whether a conversation is professional or
// personal. Classify is pure: the same conversation, rules and leads always
// give the same result.
package classifier

import (
	"fmt"
	"math"
	"regexp"
	"regexp/syntax"
	"sort"
	"strings"
	"unicode"

	"governance-backend/internal/conversation/domain"
	frdomain "governance-backend/internal/filterrule/domain"
	leaddomain "governance-backend/internal/lead/domain"
	"governance-backend/pkg/fuzzy"
)

const (
	// DefaultMinConfidence is the floor below which a result is left for review.
	DefaultMinConfidence = 0.5

	participantConfidence  = 0.95
	relationshipConfidence = 0.9

	exactLeadScore = 0.85
	fuzzyLeadScore = 0.7
	cueScore       = 0.25
	maxAutoScore   = 0.85

	fuzzyLeadThreshold = 0.85
)

var professionalCues = []string{
	"proposal", "meeting", "demo", "pricing", "contract", "opportunity", "role",
	"hiring", "partnership", "invoice", "quote", "schedule a call",
}

var personalCues = []string{
	"haha", "lol", "birthday", "family", "weekend", "dinner", "party",
	"miss you", "love", "mom", "dad", "vacation",
}

// Options tunes a classification run.
type Options struct {
	MinConfidence float64
}

// Result is the outcome of Classify.
type Result struct {
	Classification domain.Classification `json:"classification"`
	Method         domain.Method         `json:"method"`
	Confidence     float64               `json:"confidence"`
	Reasons        []string              `json:"reasons"`
	RuleID         string                `json:"ruleId,omitempty"`
	NeedsReview    bool                  `json:"needsReview"`
}

// Reason joins the reasons for storage on the conversation.
func (r Result) Reason() string {
	return strings.Join(r.Reasons, "; ")
}

type input struct {
	name         string
	ref          string
	relationship string
	text         string // normalized name and preview
	words        string // space-padded tokens of preview and relationship
}

// Classify evaluates active rules first, then falls back to heuristics.
func Classify(conv *domain.Conversation, rules []*frdomain.FilterRule, leads []*leaddomain.Lead, opts Options) Result {
	minConfidence := opts.MinConfidence
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}

	in := input{
		name:         frdomain.NormalizeText(conv.ParticipantName),
		ref:          normalizeRef(conv.ParticipantRef),
		relationship: frdomain.NormalizeText(conv.Relationship),
		text:         frdomain.NormalizeText(conv.ParticipantName + " " + conv.LastMessagePreview),
		words:        paddedWords(conv.LastMessagePreview + " " + conv.Relationship),
	}

	if res, ok := matchRules(in, rules); ok {
		return res
	}

	res := heuristic(in, conv.LastMessagePreview, leads)
	if res.Confidence < minConfidence || res.Classification == domain.ClassificationUnclassified {
		res.Classification = domain.ClassificationUnclassified
		res.NeedsReview = true
		res.Reasons = append(res.Reasons, fmt.Sprintf("confidence %.2f below %.2f, needs review", res.Confidence, minConfidence))
	}
	return res
}

func matchRules(in input, rules []*frdomain.FilterRule) (Result, bool) {
	active := make([]*frdomain.FilterRule, 0, len(rules))
	for _, r := range rules {
		if r != nil && r.IsActive {
			active = append(active, r)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		a, b := active[i], active[j]
		if pa, pb := a.RuleType.Precedence(), b.RuleType.Precedence(); pa != pb {
			return pa < pb
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	for _, r := range active {
		confidence, ok := matchRule(in, r)
		if !ok {
			continue
		}
		return Result{
			Classification: r.Classification,
			Method:         domain.MethodRule,
			Confidence:     round(confidence),
			Reasons:        []string{fmt.Sprintf("%s rule %q matched", r.RuleType, r.RuleValue)},
			RuleID:         r.ID,
		}, true
	}
	return Result{}, false
}

func matchRule(in input, r *frdomain.FilterRule) (float64, bool) {
	value := r.RuleValue
	switch r.RuleType {
	case frdomain.RuleTypeParticipant:
		v := frdomain.NormalizeText(value)
		if v != "" && (v == in.name || (in.ref != "" && normalizeRef(value) == in.ref)) {
			return participantConfidence, true
		}
	case frdomain.RuleTypeRelationship:
		v := frdomain.NormalizeText(value)
		if v != "" && v == in.relationship {
			return relationshipConfidence, true
		}
	case frdomain.RuleTypePattern:
		re, err := frdomain.CompilePattern(value)
		if err != nil {
			// stored before validation existed; never fatal here
			return 0, false
		}
		if re.MatchString(in.text) {
			return scaled(0.75, 0.9, literalLength(re)), true
		}
	case frdomain.RuleTypeKeyword:
		v := frdomain.NormalizeText(value)
		if v != "" && strings.Contains(in.text, v) {
			return scaled(0.6, 0.75, len([]rune(v))), true
		}
	}
	return 0, false
}

func heuristic(in input, preview string, leads []*leaddomain.Lead) Result {
	var (
		professional, personal float64
		reasons                []string
	)

	if lead, exact := findLead(in, leads); lead != nil {
		if exact {
			professional += exactLeadScore
			reasons = append(reasons, fmt.Sprintf("participant is known lead %q", lead.Name))
		} else {
			professional += fuzzyLeadScore
			reasons = append(reasons, fmt.Sprintf("participant resembles lead %q", lead.Name))
		}
	}

	if hits := cueHits(in.words, professionalCues); len(hits) > 0 {
		professional += cueScore * float64(len(hits))
		reasons = append(reasons, "professional cues: "+strings.Join(hits, ", "))
	}
	hits := cueHits(in.words, personalCues)
	if hasEmoji(preview) {
		hits = append(hits, "emoji")
	}
	if len(hits) > 0 {
		personal += cueScore * float64(len(hits))
		reasons = append(reasons, "personal cues: "+strings.Join(hits, ", "))
	}

	res := Result{Method: domain.MethodAuto, Classification: domain.ClassificationUnclassified, Reasons: reasons}
	switch {
	case professional > personal:
		res.Classification = domain.ClassificationProfessional
		res.Confidence = autoConfidence(professional, personal)
	case personal > professional:
		res.Classification = domain.ClassificationPersonal
		res.Confidence = autoConfidence(personal, professional)
	default:
		res.Reasons = append(res.Reasons, "no decisive signal")
	}
	return res
}

// findLead reports the matching lead and whether the match was exact.
func findLead(in input, leads []*leaddomain.Lead) (*leaddomain.Lead, bool) {
	names := make([]string, 0, len(leads))
	for _, l := range leads {
		if frdomain.NormalizeText(l.Name) == in.name && in.name != "" {
			return l, true
		}
		if in.ref != "" && normalizeRef(l.LinkedInURL) == in.ref {
			return l, true
		}
		names = append(names, l.Name)
	}
	if in.name == "" {
		return nil, false
	}
	if idx, score := fuzzy.BestMatch(in.name, names); idx >= 0 && score >= fuzzyLeadThreshold {
		return leads[idx], false
	}
	return nil, false
}

func autoConfidence(win, lose float64) float64 {
	c := win - lose/2
	if c > maxAutoScore {
		c = maxAutoScore
	}
	if c < 0 {
		c = 0
	}
	return round(c)
}

func cueHits(words string, cues []string) []string {
	var hits []string
	for _, cue := range cues {
		if strings.Contains(words, " "+cue+" ") {
			hits = append(hits, cue)
		}
	}
	return hits
}

func paddedWords(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return " " + strings.Join(words, " ") + " "
}

func hasEmoji(s string) bool {
	for _, r := range s {
		if (r >= 0x1F300 && r <= 0x1FAFF) || (r >= 0x2600 && r <= 0x27BF) {
			return true
		}
	}
	return false
}

// normalizeRef reduces a profile URL or handle to a comparable form.
func normalizeRef(ref string) string {
	ref = strings.ToLower(strings.TrimSpace(ref))
	for _, prefix := range []string{"https://", "http://", "www.", "linkedin.com/in/"} {
		ref = strings.TrimPrefix(ref, prefix)
	}
	return strings.Trim(ref, "/")
}

// literalLength counts the letters and digits a pattern must match literally.
// Escapes and classes such as \d or \w do not count.
func literalLength(re *regexp.Regexp) int {
	tree, err := syntax.Parse(re.String(), syntax.Perl)
	if err != nil {
		return 0
	}
	return countLiterals(tree)
}

func countLiterals(re *syntax.Regexp) int {
	n := 0
	if re.Op == syntax.OpLiteral {
		for _, r := range re.Rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				n++
			}
		}
	}
	for _, sub := range re.Sub {
		n += countLiterals(sub)
	}
	return n
}

// scaled maps length onto [lo, hi], saturating at 20 runes.
func scaled(lo, hi float64, length int) float64 {
	ratio := float64(length) / 20
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}
	return lo + (hi-lo)*ratio
}

func round(f float64) float64 {
	return math.Round(f*100) / 100
}
