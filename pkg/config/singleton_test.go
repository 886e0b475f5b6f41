package config

import "testing"

func TestSetConfigAndGetConfig(t *testing.T) {
	prev := GetConfig()
	defer SetConfig(prev)

	cfg := validConfig()
	SetConfig(cfg)
	if got := GetConfig(); got != cfg {
		t.Errorf("GetConfig returned %p, want %p", got, cfg)
	}

	SetConfig(nil)
	if got := GetConfig(); got != nil {
		t.Errorf("GetConfig after reset = %p, want nil", got)
	}
}
