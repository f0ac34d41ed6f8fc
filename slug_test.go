package decor

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugifyASCII(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"My App 2.0!", "my-app-20"},
		{"  lots   of   spaces  ", "lots-of-spaces"},
		{"already-a-slug", "already-a-slug"},
		{"UPPER case Title", "upper-case-title"},
		{"!!!", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in, false), "Slugify(%q)", tc.in)
	}
}

func TestSlugifyVietnameseTransliteration(t *testing.T) {
	got := Slugify("Đèn Trang Trí Hiện Đại", false)
	assert.Equal(t, "den-trang-tri-hien-dai", got)
}

func TestSlugifyDeterministic(t *testing.T) {
	inputs := []string{"Đèn Trang Trí", "Sofa Góc L", "Bàn ăn 6 ghế"}
	for _, in := range inputs {
		for _, unicode := range []bool{false, true} {
			first := Slugify(in, unicode)
			for i := 0; i < 5; i++ {
				assert.Equal(t, first, Slugify(in, unicode))
			}
		}
	}
}

func TestSlugifyShape(t *testing.T) {
	// For plain letters/digits/spaces the ASCII result always matches the
	// canonical slug pattern.
	pattern := regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	for _, in := range []string{"Table Lamp 3", "a b c", "Home Decor 2024", "x"} {
		got := Slugify(in, false)
		assert.Regexp(t, pattern, got, "Slugify(%q) = %q", in, got)
	}
}

func TestSlugifyUnicodePreserved(t *testing.T) {
	got := Slugify("Đèn Trang Trí", true)
	assert.Equal(t, "đèn-trang-trí", got)

	// Structural punctuation still goes away.
	assert.Equal(t, "xin-chào", Slugify("Xin, Chào!", true))
}
