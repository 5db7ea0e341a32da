package domain

import "testing"

func TestActionStepValidate(t *testing.T) {
	tests := []struct {
		name    string
		step    ActionStep
		wantErr bool
	}{
		{"click with selector", ActionStep{Type: StepClick, Selector: "#go"}, false},
		{"click without selector", ActionStep{Type: StepClick}, true},
		{"clickByText with text", ActionStep{Type: StepClickByText, Text: "Add to Cart"}, false},
		{"clickByText without text", ActionStep{Type: StepClickByText}, true},
		{"type with selector and value", ActionStep{Type: StepTypeText, Selector: "#box", Value: "milk"}, false},
		{"type without value", ActionStep{Type: StepTypeText, Selector: "#box"}, true},
		{"press with key", ActionStep{Type: StepPress, Key: "Enter"}, false},
		{"press without key", ActionStep{Type: StepPress}, true},
		{"goto with url", ActionStep{Type: StepGoto, URL: "https://example.com"}, false},
		{"goto without url", ActionStep{Type: StepGoto}, true},
		{"waitForSelector without selector", ActionStep{Type: StepWaitForSelector}, true},
		{"select without value", ActionStep{Type: StepSelect, Selector: "#qty"}, true},
		{"log without message is fine", ActionStep{Type: StepLog}, false},
		{"unknown kind", ActionStep{Type: "hover", Selector: "#x"}, true},
		{"empty kind", ActionStep{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.step.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
