package classifier

import (
	"reflect"
	"testing"
	"time"

	"governance-backend/internal/conversation/domain"
	frdomain "governance-backend/internal/filterrule/domain"
	leaddomain "governance-backend/internal/lead/domain"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func rule(id string, typ frdomain.RuleType, value string, target domain.Classification, age int) *frdomain.FilterRule {
	return &frdomain.FilterRule{
		ID:             id,
		RuleType:       typ,
		RuleValue:      frdomain.NormalizeValue(typ, value),
		Classification: target,
		IsActive:       true,
		CreatedAt:      t0.Add(time.Duration(age) * time.Minute),
	}
}

func TestParticipantRuleBeatsKeywordRule(t *testing.T) {
	conv := &domain.Conversation{ParticipantName: "Jane Doe", LastMessagePreview: "Can we discuss the contract?"}
	rules := []*frdomain.FilterRule{
		rule("kw", frdomain.RuleTypeKeyword, "contract", domain.ClassificationProfessional, 0),
		rule("pp", frdomain.RuleTypeParticipant, "jane doe", domain.ClassificationPersonal, 5),
	}

	res := Classify(conv, rules, nil, Options{})
	if res.Method != domain.MethodRule || res.Classification != domain.ClassificationPersonal || res.RuleID != "pp" {
		t.Fatalf("expected participant rule to win, got %+v", res)
	}
	if res.Confidence != participantConfidence {
		t.Errorf("expected confidence %.2f, got %.2f", participantConfidence, res.Confidence)
	}
}

func TestInactiveRulesIgnored(t *testing.T) {
	conv := &domain.Conversation{ParticipantName: "Jane Doe"}
	r := rule("pp", frdomain.RuleTypeParticipant, "jane doe", domain.ClassificationPersonal, 0)
	r.IsActive = false

	res := Classify(conv, []*frdomain.FilterRule{r}, nil, Options{})
	if res.Method == domain.MethodRule {
		t.Fatalf("inactive rule must not match: %+v", res)
	}
}

func TestOldestRuleWinsWithinType(t *testing.T) {
	conv := &domain.Conversation{ParticipantName: "Sam", LastMessagePreview: "lunch on friday"}
	rules := []*frdomain.FilterRule{
		rule("newer", frdomain.RuleTypeKeyword, "friday", domain.ClassificationProfessional, 10),
		rule("older", frdomain.RuleTypeKeyword, "lunch", domain.ClassificationPersonal, 1),
	}

	res := Classify(conv, rules, nil, Options{})
	if res.RuleID != "older" {
		t.Fatalf("expected oldest keyword rule, got %+v", res)
	}
}

func TestRuleConfidenceBands(t *testing.T) {
	conv := &domain.Conversation{
		ParticipantName:    "Alex",
		Relationship:       "Former Colleague",
		LastMessagePreview: "Invoice #4411 attached for the quarterly engagement",
	}
	tests := []struct {
		name   string
		rule   *frdomain.FilterRule
		lo, hi float64
	}{
		{"relationship", rule("r", frdomain.RuleTypeRelationship, "former colleague", domain.ClassificationProfessional, 0), 0.9, 0.9},
		{"pattern", rule("p", frdomain.RuleTypePattern, `invoice #\d+`, domain.ClassificationProfessional, 0), 0.75, 0.9},
		{"keyword", rule("k", frdomain.RuleTypeKeyword, "engagement", domain.ClassificationProfessional, 0), 0.6, 0.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Classify(conv, []*frdomain.FilterRule{tt.rule}, nil, Options{})
			if res.Method != domain.MethodRule {
				t.Fatalf("expected rule match, got %+v", res)
			}
			if res.Confidence < tt.lo || res.Confidence > tt.hi {
				t.Errorf("confidence %.2f outside [%.2f, %.2f]", res.Confidence, tt.lo, tt.hi)
			}
		})
	}
}

func TestLiteralLengthIgnoresEscapes(t *testing.T) {
	tests := []struct {
		pattern string
		want    int
	}{
		{`invoice #\d+`, 7},
		{`\binvoice\b`, 7},
		{`\w+@acme\.com`, 7},
		{`(meeting|call) at \d{1,2}`, 13},
		{`[a-z]+`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re, err := frdomain.CompilePattern(tt.pattern)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if got := literalLength(re); got != tt.want {
				t.Errorf("literalLength(%q) = %d, want %d", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestInvalidPatternSkipped(t *testing.T) {
	conv := &domain.Conversation{ParticipantName: "Alex", LastMessagePreview: "hello"}
	bad := rule("bad", frdomain.RuleTypePattern, "(", domain.ClassificationPersonal, 0)
	kw := rule("kw", frdomain.RuleTypeKeyword, "hello", domain.ClassificationProfessional, 1)

	res := Classify(conv, []*frdomain.FilterRule{bad, kw}, nil, Options{})
	if res.RuleID != "kw" {
		t.Fatalf("expected keyword rule after invalid pattern, got %+v", res)
	}
}

func TestKnownLeadIsProfessional(t *testing.T) {
	leads := []*leaddomain.Lead{{ID: "lead-1", Name: "Priya Raman", LinkedInURL: "https://www.linkedin.com/in/priyaraman/"}}

	res := Classify(&domain.Conversation{ParticipantName: "priya  raman"}, nil, leads, Options{})
	if res.Classification != domain.ClassificationProfessional || res.Method != domain.MethodAuto {
		t.Fatalf("expected professional auto result, got %+v", res)
	}
	if res.Confidence != exactLeadScore {
		t.Errorf("expected %.2f, got %.2f", exactLeadScore, res.Confidence)
	}

	byRef := Classify(&domain.Conversation{ParticipantName: "P.R.", ParticipantRef: "linkedin.com/in/priyaraman"}, nil, leads, Options{})
	if byRef.Classification != domain.ClassificationProfessional {
		t.Errorf("expected profile ref match, got %+v", byRef)
	}

	fuzzyRes := Classify(&domain.Conversation{ParticipantName: "Priya Ramen"}, nil, leads, Options{})
	if fuzzyRes.Classification != domain.ClassificationProfessional || fuzzyRes.Confidence != fuzzyLeadScore {
		t.Errorf("expected fuzzy lead match at %.2f, got %+v", fuzzyLeadScore, fuzzyRes)
	}
}

func TestPersonalCues(t *testing.T) {
	conv := &domain.Conversation{ParticipantName: "Tom", LastMessagePreview: "haha see you at the birthday party 🎉"}

	res := Classify(conv, nil, nil, Options{})
	if res.Classification != domain.ClassificationPersonal {
		t.Fatalf("expected personal, got %+v", res)
	}
	if res.Confidence > maxAutoScore {
		t.Errorf("auto confidence must not exceed %.2f", maxAutoScore)
	}
}

func TestWeakSignalNeedsReview(t *testing.T) {
	conv := &domain.Conversation{ParticipantName: "Unknown Person", LastMessagePreview: "lol"}

	res := Classify(conv, nil, nil, Options{})
	if res.Classification != domain.ClassificationUnclassified || !res.NeedsReview {
		t.Fatalf("expected unclassified needing review, got %+v", res)
	}

	none := Classify(&domain.Conversation{ParticipantName: "Someone"}, nil, nil, Options{})
	if none.Classification != domain.ClassificationUnclassified || none.Confidence != 0 {
		t.Fatalf("expected no-signal result, got %+v", none)
	}
}

func TestMinConfidenceOption(t *testing.T) {
	leads := []*leaddomain.Lead{{ID: "lead-1", Name: "Priya Raman"}}
	res := Classify(&domain.Conversation{ParticipantName: "Priya Raman"}, nil, leads, Options{MinConfidence: 0.9})
	if !res.NeedsReview {
		t.Fatalf("expected review with a strict threshold, got %+v", res)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	conv := &domain.Conversation{ParticipantName: "Lee", LastMessagePreview: "pricing proposal and a family dinner"}
	leads := []*leaddomain.Lead{{ID: "1", Name: "Lee Chan"}, {ID: "2", Name: "Lea Chen"}}
	rules := []*frdomain.FilterRule{rule("k", frdomain.RuleTypeKeyword, "zzz", domain.ClassificationPersonal, 0)}

	first := Classify(conv, rules, leads, Options{})
	for i := 0; i < 20; i++ {
		if got := Classify(conv, rules, leads, Options{}); !reflect.DeepEqual(first, got) {
			t.Fatalf("run %d differs: %+v vs %+v", i, first, got)
		}
	}
}
