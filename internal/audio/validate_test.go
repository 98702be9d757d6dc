package audio

import (
	"strings"
	"testing"
)

func TestValidateSpanishText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid Spanish word",
			text:    "manzana",
			wantErr: false,
		},
		{
			name:    "valid Spanish sentence",
			text:    "¿Qué tal, señor?",
			wantErr: false,
		},
		{
			name:    "accented capital",
			text:    "Árbol",
			wantErr: false,
		},
		{
			name:    "empty text",
			text:    "",
			wantErr: true,
			errMsg:  "text cannot be empty",
		},
		{
			name:    "whitespace only",
			text:    "   \t\n",
			wantErr: true,
			errMsg:  "text cannot be empty",
		},
		{
			name:    "Russian text",
			text:    "Привет",
			wantErr: true,
			errMsg:  "must not contain Cyrillic",
		},
		{
			name:    "numbers only",
			text:    "12345",
			wantErr: true,
			errMsg:  "text must contain Latin characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSpanishText(tt.text)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSpanishText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != nil {
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("ValidateSpanishText() error = %v, want error containing %v", err.Error(), tt.errMsg)
				}
			}
		})
	}
}
