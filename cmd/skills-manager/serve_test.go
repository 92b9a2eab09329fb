package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateServeConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  *ServeConfig
		wantErr bool
	}{
		{"default config", NewServeConfig(), false},
		{"localhost", &ServeConfig{Host: "localhost", Port: 8391}, false},
		{"all interfaces", &ServeConfig{Host: "0.0.0.0", Port: 8391}, false},
		{"ip address", &ServeConfig{Host: "127.0.0.1", Port: 8391}, false},
		{"hostname", &ServeConfig{Host: "skills.local", Port: 8391}, false},
		{"empty host", &ServeConfig{Host: "", Port: 8391}, true},
		{"host with space", &ServeConfig{Host: "bad host", Port: 8391}, true},
		{"host with colon", &ServeConfig{Host: "host:8391", Port: 8391}, true},
		{"port zero", &ServeConfig{Host: "localhost", Port: 0}, true},
		{"port too high", &ServeConfig{Host: "localhost", Port: 70000}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateServeConfig(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
