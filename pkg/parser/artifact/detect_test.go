package artifact

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"main.tf", KindConfig},
		{"main.tf.json", KindConfig},
		{"terraform.tfvars", KindTfVars},
		{"prod.tfvars.json", KindTfVars},
		{"env/staging.auto.tfvars", KindTfVars},
		{"terraform.tfstate", KindState},
		{"backup.tfstate", KindState},
		{"plan.json", KindPlan},
		{"out/tfplan.json", KindPlan},
		{"values.json", KindConfig},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Detect(tt.path); got != tt.want {
				t.Errorf("Detect(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
