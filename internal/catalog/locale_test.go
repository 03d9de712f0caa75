package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchLocale(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "ja"},
		{"ja", "ja"},
		{"ko-KR", "ko"},
		{"en-US,en;q=0.9", "en"},
		{"fr-FR,ko;q=0.8", "ko"},
		{"de", "ja"},
		{"!!!", "ja"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchLocale(tt.in))
		})
	}
}

func TestLabelFallsBackToJapanese(t *testing.T) {
	c := loadTestCatalog(t)

	assert.Equal(t, "Cute", c.Label("cute", "en"))
	assert.Equal(t, "クール", c.Label("cool", "en"))
	assert.Equal(t, "보컬", c.Label("vocal", "ko-KR"))
	assert.Equal(t, "mystery", c.Label("mystery", "en"))
}

func TestMemberName(t *testing.T) {
	c := loadTestCatalog(t)
	m1, _ := c.Member("m1")
	m2, _ := c.Member("m2")

	assert.Equal(t, "Hana", m1.Name("en"))
	assert.Equal(t, "ハナ", m1.Name("ko"))
	assert.Equal(t, "ユリ", m2.Name("en"))
	assert.Equal(t, "ghost", Member{ID: "ghost"}.Name("en"))
}
