package mqtt

import "testing"

func TestTopicsMatch(t *testing.T) {
	tests := []struct {
		filter string
		topic  string
		want   bool
	}{
		{"uav/v1/telemetry/status/drone-01", "uav/v1/telemetry/status/drone-01", true},
		{"uav/v1/telemetry/status/+", "uav/v1/telemetry/status/drone-01", true},
		{"uav/v1/telemetry/status/+", "uav/v1/telemetry/status/drone-01/extra", false},
		{"uav/v1/#", "uav/v1/setpoint/position/drone-01", true},
		{"uav/v1/setpoint/+/drone-01", "uav/v1/setpoint/position/drone-01", true},
		{"uav/v1/setpoint/+/drone-01", "uav/v1/setpoint/position/drone-02", false},
		{"uav/v1/telemetry/status", "uav/v1/telemetry", false},
	}

	for _, tt := range tests {
		if got := topicsMatch(tt.filter, tt.topic); got != tt.want {
			t.Errorf("topicsMatch(%q, %q) = %v, want %v", tt.filter, tt.topic, got, tt.want)
		}
	}
}

func TestTopicFilterSharedSubscription(t *testing.T) {
	if got := topicFilter("$share/agents/uav/v1/telemetry/status/+"); got != "uav/v1/telemetry/status/+" {
		t.Errorf("topicFilter stripped share group incorrectly: %q", got)
	}
	if got := topicFilter("uav/v1/telemetry/status/+"); got != "uav/v1/telemetry/status/+" {
		t.Errorf("topicFilter changed a plain filter: %q", got)
	}
}
