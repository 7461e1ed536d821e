package policy

import "testing"

func TestResolve(t *testing.T) {
	cases := []struct {
		mode   Mode
		launch bool
		want   FeatureSet
	}{
		{ModeSandbox, false, FeatureSet{Mode: ModeSandbox, MayAutoSend: true}},
		{ModeSandbox, true, FeatureSet{Mode: ModeSandbox, MayAutoSend: true, LaunchSwitch: true}},
		{ModeProduction, false, FeatureSet{Mode: ModeProduction, RequiresApproval: true}},
		{ModeProduction, true, FeatureSet{Mode: ModeProduction, MayAutoSend: true, RequiresApproval: true, LiveIntegrations: true, LaunchSwitch: true}},
	}
	for _, tc := range cases {
		got := Resolve(tc.mode, tc.launch)
		if got != tc.want {
			t.Errorf("Resolve(%s, %v) = %+v, want %+v", tc.mode, tc.launch, got, tc.want)
		}
	}
}

func TestProductionAlwaysRequiresApproval(t *testing.T) {
	for _, launch := range []bool{false, true} {
		if !Resolve(ModeProduction, launch).RequiresApproval {
			t.Fatalf("production with launch=%v must require approval", launch)
		}
	}
}

func TestParseMode(t *testing.T) {
	for raw, want := range map[string]Mode{"": ModeSandbox, "sandbox": ModeSandbox, " PRODUCTION ": ModeProduction} {
		got, err := ParseMode(raw)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %q, %v; want %q", raw, got, err, want)
		}
	}
	if _, err := ParseMode("staging"); err == nil {
		t.Fatalf("expected unknown mode to be rejected")
	}
}
