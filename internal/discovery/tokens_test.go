// File: backend/internal/discovery/tokens_test.go
package discovery

import (
	"reflect"
	"testing"
)

func TestBrandTokens(t *testing.T) {
	tests := []struct {
		name         string
		operatorName string
		want         []string
	}{
		{
			name:         "two word name with acronym",
			operatorName: "Acme Coworking",
			want:         []string{"Acme Coworking", "acme", "coworking", "ac"},
		},
		{
			name:         "single word has no acronym",
			operatorName: "WeWork",
			want:         []string{"WeWork", "wework"},
		},
		{
			name:         "short words dropped",
			operatorName: "The Hub Co",
			want:         []string{"The Hub Co", "the", "hub", "th"},
		},
		{
			name:         "three word acronym",
			operatorName: "Workhub Spaces London",
			want:         []string{"Workhub Spaces London", "workhub", "spaces", "london", "wsl"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BrandTokens(tt.operatorName)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BrandTokens(%q) = %v, want %v", tt.operatorName, got, tt.want)
			}
		})
	}
}
