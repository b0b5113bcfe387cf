package transliterate

import "strings"

// Common names with a settled Arabic spelling, checked before the letter map.
var nameCorrections = map[string]string{
	"sarah":    "سارة",
	"layla":    "ليلى",
	"leila":    "ليلى",
	"fatima":   "فاطمة",
	"aisha":    "عائشة",
	"omar":     "عمر",
	"ahmed":    "أحمد",
	"mohammad": "محمد",
	"mohammed": "محمد",
	"ali":      "علي",
	"hassan":   "حسن",
	"hussein":  "حسين",
	"noor":     "نور",
	"nour":     "نور",
	"yusuf":    "يوسف",
	"khalid":   "خالد",
}

// Order matters: the first matching pair wins.
var digraphs = []struct {
	latin, arabic string
}{
	{"sh", "ش"},
	{"th", "ث"},
	{"kh", "خ"},
	{"dh", "ذ"},
	{"zh", "ظ"},
	{"gh", "غ"},
	{"aa", "آ"},
	{"ee", "ي"},
	{"ii", "ي"},
	{"oo", "و"},
	{"uu", "و"},
	{"ai", "ع"},
	{"ou", "و"},
	{"ay", "ي"},
}

var letters = map[byte]string{
	'a': "ا", 'b': "ب", 'c': "ك", 'd': "د", 'e': "ي", 'f': "ف", 'g': "غ",
	'h': "ه", 'i': "ي", 'j': "ج", 'k': "ك", 'l': "ل", 'm': "م", 'n': "ن",
	'o': "و", 'p': "ب", 'q': "ق", 'r': "ر", 's': "س", 't': "ت", 'u': "و",
	'v': "ف", 'w': "و", 'x': "كس", 'y': "ي", 'z': "ز",
}

var endings = []struct {
	suffix, arabic string
}{
	{"ah", "ة"},
	{"la", "لى"},
}

// Arabic transliterates a Latin name letter by letter. It is an
// approximation for when the model is unavailable.
func Arabic(name string) string {
	input := strings.ToLower(strings.TrimSpace(name))
	if input == "" {
		return ""
	}
	if corrected, ok := nameCorrections[input]; ok {
		return corrected
	}

	ending := ""
	for _, e := range endings {
		if strings.HasSuffix(input, e.suffix) {
			ending = e.arabic
			input = strings.TrimSuffix(input, e.suffix)
			break
		}
	}

	var b strings.Builder
	for i := 0; i < len(input); {
		if i < len(input)-1 {
			if arabic, ok := matchDigraph(input[i : i+2]); ok {
				b.WriteString(arabic)
				i += 2
				continue
			}
		}

		switch c := input[i]; {
		case c == ' ':
			b.WriteByte(' ')
		default:
			if arabic, ok := letters[c]; ok {
				b.WriteString(arabic)
			}
		}
		i++
	}

	return b.String() + ending
}

func matchDigraph(pair string) (string, bool) {
	for _, d := range digraphs {
		if d.latin == pair {
			return d.arabic, true
		}
	}
	return "", false
}
